package repository

import (
	"context"

	"github.com/google/uuid"

	"vcard-backend/internal/domains/employee/model"
)

// RepositoryInterface là Record Store Client của employees
// Missing records trả (nil, nil) hoặc false, service quyết định NotFound
type RepositoryInterface interface {
	Create(ctx context.Context, e *model.Employee) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Employee, error)
	GetByEmail(ctx context.Context, email string) (*model.Employee, error)
	Update(ctx context.Context, id uuid.UUID, e *model.Employee) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	ListAll(ctx context.Context) ([]*model.Employee, error)
	FindByField(ctx context.Context, field, value string) ([]*model.Employee, error)
}
