package model

// ========================================
// IMPORT FILE COLUMNS
// ========================================

// Header names, matched case-insensitively after trimming
const (
	ColFullName    = "full name"
	ColDesignation = "designation"
	ColCompany     = "company"
	ColPhone       = "phone number"
	ColEmail       = "email"
	ColAddress     = "address"
	ColWebsite     = "website"
	ColPhotoLink   = "google drive link"
)

// RequiredImportColumns phải có trong header, thiếu thì cả file bị reject
var RequiredImportColumns = []string{ColFullName, ColEmail}

// ExportHeaders là thứ tự column khi export, import lại được
var ExportHeaders = []string{
	"Full Name",
	"Designation",
	"Company",
	"Phone Number",
	"Email",
	"Address",
	"Website",
	"Google Drive Link",
}

// ImportRow represents một data row đã được map theo header
type ImportRow struct {
	Row         int // row number trong file (header là row 1)
	FullName    string
	Designation string
	Company     string
	Phone       string
	Email       string
	Address     string
	Website     string
	PhotoLink   string
}

// ImportOptions điều khiển hành vi import
type ImportOptions struct {
	// SkipExisting bật dedupe theo email, mặc định tắt
	SkipExisting bool
}

// ImportResult chỉ báo cáo tổng hợp, không có lỗi theo từng row
type ImportResult struct {
	TotalRows int `json:"total_rows"`
	Created   int `json:"created"`
	Skipped   int `json:"skipped"`
}
