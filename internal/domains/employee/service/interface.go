package service

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"vcard-backend/internal/domains/employee/model"
)

// ServiceInterface là business layer của employee domain, dùng chung cho HTML và JSON handlers
type ServiceInterface interface {
	Create(ctx context.Context, req model.EmployeeRequest) (*model.Employee, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Employee, error)
	Update(ctx context.Context, id uuid.UUID, req model.EmployeeRequest) (*model.Employee, error)
	Delete(ctx context.Context, id uuid.UUID, confirmed bool) error

	// List fetch toàn bộ rồi filter/sort in-process
	List(ctx context.Context, query string) ([]*model.Employee, error)
	Find(ctx context.Context, field, value string) ([]*model.Employee, error)

	BulkImport(ctx context.Context, filename string, r io.Reader, opts model.ImportOptions) (*model.ImportResult, error)
	ExportToExcel(ctx context.Context) (*excelize.File, error)

	UploadPhoto(ctx context.Context, data []byte) (string, error)
}
