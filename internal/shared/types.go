package shared

const (
	TypeRenderCardPNG = "card:render_png"
)

// Queue names, mirrored by the worker's asynq.Config
const (
	QueueHigh    = "high"
	QueueDefault = "default"
	QueueLow     = "low"
)

// RenderCardPayload is the payload of a TypeRenderCardPNG task
type RenderCardPayload struct {
	EmployeeID  string `json:"employeeId"`
	RequestedBy string `json:"requestedBy"`
}

// Context keys set by middleware and read by handlers
const (
	ContextRequestID = "request_id"
	ContextClientIP  = "client_ip"
	ContextSession   = "session"
)
