package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"vcard-backend/internal/domains/employee/model"
	"vcard-backend/internal/domains/employee/repository"
	"vcard-backend/internal/infrastructure/storage"
	"vcard-backend/internal/shared/metrics"
)

// Options gom các giá trị config mà service cần
type Options struct {
	DefaultCompany string
	DefaultWebsite string
	MaxImportRows  int
}

// EmployeeService implements ServiceInterface
type EmployeeService struct {
	repo    repository.RepositoryInterface
	storage storage.ObjectStorage
	images  *storage.ImageProcessor
	opts    Options
	metrics *metrics.Metrics
}

// NewEmployeeService creates a new employee service instance
func NewEmployeeService(
	repo repository.RepositoryInterface,
	objectStorage storage.ObjectStorage,
	images *storage.ImageProcessor,
	opts Options,
	m *metrics.Metrics,
) ServiceInterface {
	return &EmployeeService{
		repo:    repo,
		storage: objectStorage,
		images:  images,
		opts:    opts,
		metrics: m,
	}
}

// ========================================
// CRUD
// ========================================

// Create validate rồi insert, fields được lưu đúng như submit (website trống vẫn trống)
func (s *EmployeeService) Create(ctx context.Context, req model.EmployeeRequest) (*model.Employee, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewInvalidEmployee(err)
	}

	e := req.ToEmployee()
	if err := s.ensureEmailFree(ctx, e.Email, uuid.Nil); err != nil {
		return nil, err
	}

	id, err := s.repo.Create(ctx, e)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("employee_id", id.String()).
		Str("email", e.Email).
		Msg("employee created")

	return s.Get(ctx, id)
}

func (s *EmployeeService) Get(ctx context.Context, id uuid.UUID) (*model.Employee, error) {
	if id == uuid.Nil {
		return nil, model.NewInvalidID(id.String())
	}

	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, model.NewNotFound(id.String())
	}
	return e, nil
}

// Update là full overwrite, last write wins
func (s *EmployeeService) Update(ctx context.Context, id uuid.UUID, req model.EmployeeRequest) (*model.Employee, error) {
	if id == uuid.Nil {
		return nil, model.NewInvalidID(id.String())
	}
	if err := req.Validate(); err != nil {
		return nil, model.NewInvalidEmployee(err)
	}

	// NotFound được ưu tiên hơn EmailTaken
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if err := s.ensureEmailFree(ctx, req.Email, id); err != nil {
		return nil, err
	}

	found, err := s.repo.Update(ctx, id, req.ToEmployee())
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, model.NewNotFound(id.String())
	}

	return s.Get(ctx, id)
}

// ensureEmailFree: record khác (khác self) đã dùng email thì trả EmailTaken
// GetByEmail lấy record tạo sớm nhất, record trùng email sẽ không bao giờ được public link trỏ tới
func (s *EmployeeService) ensureEmailFree(ctx context.Context, email string, self uuid.UUID) error {
	matches, err := s.repo.FindByField(ctx, "email", email)
	if err != nil {
		return err
	}
	for _, m := range matches {
		if m.ID != self {
			return model.NewEmailTaken(email)
		}
	}
	return nil
}

// Delete chỉ chạy khi caller đã qua bước confirm
func (s *EmployeeService) Delete(ctx context.Context, id uuid.UUID, confirmed bool) error {
	if !confirmed {
		return model.NewDeleteNotConfirmed()
	}
	if id == uuid.Nil {
		return model.NewInvalidID(id.String())
	}

	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return model.NewNotFound(id.String())
	}

	// PNG đã export không còn link nào trỏ tới; lỗi cleanup không làm fail delete
	if err := s.storage.DeleteByPrefix(ctx, storage.CardExportPrefix(id.String())); err != nil {
		log.Warn().Err(err).Str("employee_id", id.String()).Msg("failed to remove exported cards")
	}

	log.Info().Str("employee_id", id.String()).Msg("employee deleted")
	return nil
}

func (s *EmployeeService) List(ctx context.Context, query string) ([]*model.Employee, error) {
	all, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return model.FilterAndSort(all, query), nil
}

func (s *EmployeeService) Find(ctx context.Context, field, value string) ([]*model.Employee, error) {
	return s.repo.FindByField(ctx, field, value)
}
