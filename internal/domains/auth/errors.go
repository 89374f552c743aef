package auth

import "errors"

var (
	// ErrInvalidCredentials dùng chung cho sai email và sai password
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAdminNotFound      = errors.New("admin not found")
)
