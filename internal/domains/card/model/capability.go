package model

// Capability là kết quả kiểm tra native contact saver
type Capability int

const (
	CapabilityUnknown Capability = iota
	CapabilityAvailable
	CapabilityUnavailable
)

func (c Capability) String() string {
	switch c {
	case CapabilityAvailable:
		return "available"
	case CapabilityUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// ExportFile là một file download (PNG hoặc vCard)
type ExportFile struct {
	FileName    string
	ContentType string
	Data        []byte
}

// ContactOutcome cho biết contact đã được lưu native hay phải trả file
type ContactOutcome struct {
	Native bool
	File   *ExportFile
}

// ExportStatus là trạng thái của deferred PNG export job
type ExportStatus struct {
	EmployeeID string `json:"employee_id"`
	State      string `json:"state"` // none, pending, done, failed
	URL        string `json:"url,omitempty"`
	TaskID     string `json:"task_id,omitempty"`
	Error      string `json:"error,omitempty"`
}

const (
	ExportNone    = "none"
	ExportPending = "pending"
	ExportDone    = "done"
	ExportFailed  = "failed"
)
