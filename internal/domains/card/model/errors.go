package model

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeCardNotFound  = "CARD_NOT_FOUND"
	CodeCaptureFailed = "CAPTURE_FAILED"
	CodeRenderFailed  = "RENDER_FAILED"
	CodeEnqueueFailed = "EXPORT_ENQUEUE_FAILED"
)

// CardError là error của card domain
type CardError struct {
	Code    string
	Message string
	Err     error
}

func (e *CardError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *CardError) Unwrap() error {
	return e.Err
}

func NewCardNotFound(ref string) *CardError {
	return &CardError{
		Code:    CodeCardNotFound,
		Message: fmt.Sprintf("No card for %s", ref),
	}
}

// NewCaptureFailed chỉ dùng nội bộ để kích hoạt fallback, không hiển thị cho user
func NewCaptureFailed(err error) *CardError {
	return &CardError{
		Code:    CodeCaptureFailed,
		Message: "Native contact capture failed",
		Err:     err,
	}
}

func NewRenderFailed(err error) *CardError {
	return &CardError{
		Code:    CodeRenderFailed,
		Message: "Card could not be rendered",
		Err:     err,
	}
}

func NewEnqueueFailed(err error) *CardError {
	return &CardError{
		Code:    CodeEnqueueFailed,
		Message: "Export could not be scheduled",
		Err:     err,
	}
}

func IsCardNotFound(err error) bool {
	var cardErr *CardError
	return errors.As(err, &cardErr) && cardErr.Code == CodeCardNotFound
}

func IsCaptureFailed(err error) bool {
	var cardErr *CardError
	return errors.As(err, &cardErr) && cardErr.Code == CodeCaptureFailed
}

// MapErrorToHTTP chuyển CardError sang (status, message, details)
func MapErrorToHTTP(err error) (int, string, interface{}) {
	var cardErr *CardError
	if !errors.As(err, &cardErr) {
		return http.StatusInternalServerError, "Internal server error", map[string]string{"code": "INTERNAL_ERROR"}
	}

	body := map[string]string{"code": cardErr.Code}
	switch cardErr.Code {
	case CodeCardNotFound:
		return http.StatusNotFound, cardErr.Message, body
	case CodeEnqueueFailed:
		return http.StatusServiceUnavailable, cardErr.Message, body
	default:
		return http.StatusInternalServerError, cardErr.Message, body
	}
}
