package auth

import (
	"time"

	"github.com/google/uuid"
)

// Admin là tài khoản quản trị, bảng admins
type Admin struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
