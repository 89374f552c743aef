package auth

import "context"

// Repository là data access của bảng admins
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*Admin, error) // ErrAdminNotFound khi không có
	Upsert(ctx context.Context, email, passwordHash string) (*Admin, error)
}
