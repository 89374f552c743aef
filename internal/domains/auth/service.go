package auth

import (
	"context"

	"vcard-backend/internal/shared/session"
)

// Service là identity service của admin console
type Service interface {
	session.Resolver

	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Logout(ctx context.Context, token string) error
	SeedAdmin(ctx context.Context, email, password string) (*Admin, error)
}
