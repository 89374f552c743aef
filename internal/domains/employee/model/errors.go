package model

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes của employee domain
const (
	CodeNotFound           = "EMPLOYEE_NOT_FOUND"
	CodeStoreError         = "STORE_ERROR"
	CodeInvalidID          = "INVALID_EMPLOYEE_ID"
	CodeInvalidEmployee    = "INVALID_EMPLOYEE"
	CodeUnknownField       = "UNKNOWN_FIELD"
	CodeInvalidImportFile  = "INVALID_IMPORT_FILE"
	CodeImportFailed       = "IMPORT_FAILED"
	CodeUploadFailed       = "UPLOAD_FAILED"
	CodeInvalidPhoto       = "INVALID_PHOTO"
	CodeDeleteNotConfirmed = "DELETE_NOT_CONFIRMED"
	CodeEmailTaken         = "EMAIL_TAKEN"
)

// EmployeeError định nghĩa base error cho employee domain
type EmployeeError struct {
	Code    string      // Error code duy nhất (VD: "EMPLOYEE_NOT_FOUND")
	Message string      // Human-readable message
	Details interface{} // Validation errors, import progress...
	Err     error       // Underlying error
}

// Error implements error interface
func (e *EmployeeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap allows error wrapping compatibility
func (e *EmployeeError) Unwrap() error {
	return e.Err
}

// ============================================
// ERROR FACTORY FUNCTIONS
// ============================================

func NewNotFound(ref string) *EmployeeError {
	return &EmployeeError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("Employee %s not found", ref),
	}
}

// NewStoreError bọc mọi lỗi từ driver, op là tên operation (create, get, ...)
func NewStoreError(op string, err error) *EmployeeError {
	return &EmployeeError{
		Code:    CodeStoreError,
		Message: fmt.Sprintf("Record store %s failed", op),
		Err:     err,
	}
}

func NewInvalidID(id string) *EmployeeError {
	return &EmployeeError{
		Code:    CodeInvalidID,
		Message: fmt.Sprintf("Invalid employee ID: %s", id),
	}
}

func NewInvalidEmployee(err error) *EmployeeError {
	return &EmployeeError{
		Code:    CodeInvalidEmployee,
		Message: "Employee data is invalid",
		Details: err,
		Err:     err,
	}
}

func NewUnknownField(field string) *EmployeeError {
	return &EmployeeError{
		Code:    CodeUnknownField,
		Message: fmt.Sprintf("Unknown field: %s", field),
	}
}

func NewInvalidImportFile(err error) *EmployeeError {
	return &EmployeeError{
		Code:    CodeInvalidImportFile,
		Message: "Import file could not be parsed",
		Details: err.Error(),
		Err:     err,
	}
}

// NewImportFailed báo import dừng giữa chừng, created là số record đã tạo trước đó
func NewImportFailed(row, created int, err error) *EmployeeError {
	return &EmployeeError{
		Code:    CodeImportFailed,
		Message: fmt.Sprintf("Import stopped at row %d", row),
		Details: map[string]int{"row": row, "created": created},
		Err:     err,
	}
}

func NewUploadFailed(err error) *EmployeeError {
	return &EmployeeError{
		Code:    CodeUploadFailed,
		Message: "Upload failed",
		Err:     err,
	}
}

func NewInvalidPhoto(err error) *EmployeeError {
	return &EmployeeError{
		Code:    CodeInvalidPhoto,
		Message: err.Error(),
		Err:     err,
	}
}

func NewDeleteNotConfirmed() *EmployeeError {
	return &EmployeeError{
		Code:    CodeDeleteNotConfirmed,
		Message: "Delete must be confirmed",
	}
}

// NewEmailTaken: email là key của public link nên phải unique (store không enforce)
func NewEmailTaken(email string) *EmployeeError {
	return &EmployeeError{
		Code:    CodeEmailTaken,
		Message: fmt.Sprintf("Another employee already uses %s", email),
		Details: map[string]string{"email": "email is already used by another employee"},
	}
}

// ============================================
// ERROR CHECKING FUNCTIONS
// ============================================

func hasCode(err error, code string) bool {
	var empErr *EmployeeError
	return errors.As(err, &empErr) && empErr.Code == code
}

func IsNotFound(err error) bool          { return hasCode(err, CodeNotFound) }
func IsStoreError(err error) bool        { return hasCode(err, CodeStoreError) }
func IsInvalidImportFile(err error) bool { return hasCode(err, CodeInvalidImportFile) }
func IsImportFailed(err error) bool      { return hasCode(err, CodeImportFailed) }
func IsUploadFailed(err error) bool      { return hasCode(err, CodeUploadFailed) }
func IsEmailTaken(err error) bool        { return hasCode(err, CodeEmailTaken) }

// GetErrorCode lấy error code từ error
func GetErrorCode(err error) string {
	var empErr *EmployeeError
	if errors.As(err, &empErr) {
		return empErr.Code
	}
	return "INTERNAL_ERROR"
}

// MapErrorToHTTP chuyển EmployeeError sang (status, message, details)
// Store errors không expose underlying driver message
func MapErrorToHTTP(err error) (int, string, interface{}) {
	if err == nil {
		return http.StatusOK, "Success", nil
	}

	var empErr *EmployeeError
	if !errors.As(err, &empErr) {
		return http.StatusInternalServerError, "Internal server error", errorBody{"code": "INTERNAL_ERROR"}
	}

	body := errorBody{"code": empErr.Code}
	if empErr.Details != nil {
		body["details"] = empErr.Details
	}

	switch empErr.Code {
	case CodeNotFound:
		return http.StatusNotFound, empErr.Message, body
	case CodeInvalidID, CodeInvalidEmployee, CodeUnknownField, CodeInvalidImportFile, CodeInvalidPhoto, CodeDeleteNotConfirmed:
		return http.StatusBadRequest, empErr.Message, body
	case CodeEmailTaken:
		return http.StatusConflict, empErr.Message, body
	case CodeUploadFailed:
		return http.StatusBadGateway, empErr.Message, body
	default:
		return http.StatusInternalServerError, empErr.Message, body
	}
}

type errorBody = map[string]interface{}
