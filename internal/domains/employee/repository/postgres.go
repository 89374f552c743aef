package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"vcard-backend/internal/domains/employee/model"
	"vcard-backend/internal/infrastructure/database"
	"vcard-backend/internal/shared/metrics"
	"vcard-backend/pkg/cache"
)

const employeeColumns = `id, full_name, designation, company, phone, email, address, website, photo_url, created_at, updated_at`

const (
	insertEmployeeQuery = `
		INSERT INTO employees (full_name, designation, company, phone, email, address, website, photo_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	getEmployeeByIDQuery    = `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`
	getEmployeeByEmailQuery = `SELECT ` + employeeColumns + ` FROM employees WHERE email = $1 ORDER BY created_at ASC LIMIT 1`
	updateEmployeeQuery     = `
		WITH previous AS (SELECT email FROM employees WHERE id = $1)
		UPDATE employees
		SET full_name = $2, designation = $3, company = $4, phone = $5, email = $6,
		    address = $7, website = $8, photo_url = $9, updated_at = NOW()
		WHERE id = $1
		RETURNING (SELECT email FROM previous)`
	deleteEmployeeQuery   = `DELETE FROM employees WHERE id = $1 RETURNING email`
	listEmployeesQuery    = `SELECT ` + employeeColumns + ` FROM employees ORDER BY created_at ASC`
	findByFieldQueryFmt   = `SELECT ` + employeeColumns + ` FROM employees WHERE %s = $1 ORDER BY created_at ASC`
	emailCacheKeyTemplate = "employee:email:%s"
)

// postgresRepository implements RepositoryInterface
type postgresRepository struct {
	db       database.Querier
	cache    cache.Cache
	cacheTTL time.Duration
	metrics  *metrics.Metrics
}

// NewPostgresRepository creates a new employee repository instance
// cache và metrics có thể nil
func NewPostgresRepository(db database.Querier, c cache.Cache, cacheTTL time.Duration, m *metrics.Metrics) RepositoryInterface {
	return &postgresRepository{
		db:       db,
		cache:    c,
		cacheTTL: cacheTTL,
		metrics:  m,
	}
}

// EmailCacheKey là key Redis cho public lookup theo email
func EmailCacheKey(email string) string {
	return fmt.Sprintf(emailCacheKeyTemplate, email)
}

func scanEmployee(row pgx.Row) (*model.Employee, error) {
	var e model.Employee
	err := row.Scan(
		&e.ID,
		&e.FullName,
		&e.Designation,
		&e.Company,
		&e.Phone,
		&e.Email,
		&e.Address,
		&e.Website,
		&e.PhotoURL,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Create inserts a new employee, id do database sinh ra
func (r *postgresRepository) Create(ctx context.Context, e *model.Employee) (uuid.UUID, error) {
	defer r.metrics.ObserveQuery("create", time.Now())

	var id uuid.UUID
	err := r.db.QueryRow(ctx, insertEmployeeQuery,
		e.FullName, e.Designation, e.Company, e.Phone, e.Email, e.Address, e.Website, e.PhotoURL,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, model.NewStoreError("create", err)
	}

	r.invalidate(ctx, e.Email)
	return id, nil
}

// GetByID retrieves an employee by ID
func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Employee, error) {
	defer r.metrics.ObserveQuery("get_by_id", time.Now())

	e, err := scanEmployee(r.db.QueryRow(ctx, getEmployeeByIDQuery, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, model.NewStoreError("get", err)
	}
	return e, nil
}

// GetByEmail là public lookup, đọc qua cache trước
// Nếu có nhiều record cùng email, record tạo sớm nhất thắng
func (r *postgresRepository) GetByEmail(ctx context.Context, email string) (*model.Employee, error) {
	key := EmailCacheKey(email)

	if r.cache != nil {
		var cached model.Employee
		found, err := r.cache.Get(ctx, key, &cached)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("employee cache read failed")
		} else if found {
			return &cached, nil
		}
	}

	defer r.metrics.ObserveQuery("get_by_email", time.Now())

	e, err := scanEmployee(r.db.QueryRow(ctx, getEmployeeByEmailQuery, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, model.NewStoreError("get_by_email", err)
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, key, e, r.cacheTTL); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("employee cache write failed")
		}
	}
	return e, nil
}

// Update overwrite toàn bộ fields, trả false nếu id không tồn tại
func (r *postgresRepository) Update(ctx context.Context, id uuid.UUID, e *model.Employee) (bool, error) {
	defer r.metrics.ObserveQuery("update", time.Now())

	var previousEmail string
	err := r.db.QueryRow(ctx, updateEmployeeQuery,
		id, e.FullName, e.Designation, e.Company, e.Phone, e.Email, e.Address, e.Website, e.PhotoURL,
	).Scan(&previousEmail)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, model.NewStoreError("update", err)
	}

	r.invalidate(ctx, previousEmail, e.Email)
	return true, nil
}

// Delete xóa hẳn record (không soft-delete)
func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	defer r.metrics.ObserveQuery("delete", time.Now())

	var email string
	err := r.db.QueryRow(ctx, deleteEmployeeQuery, id).Scan(&email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, model.NewStoreError("delete", err)
	}

	r.invalidate(ctx, email)
	return true, nil
}

// ListAll trả toàn bộ employees, dashboard tự filter/sort
func (r *postgresRepository) ListAll(ctx context.Context) ([]*model.Employee, error) {
	defer r.metrics.ObserveQuery("list_all", time.Now())

	return r.queryList(ctx, "list", listEmployeesQuery)
}

// FindByField chỉ chấp nhận các column trong model.SearchableFields
func (r *postgresRepository) FindByField(ctx context.Context, field, value string) ([]*model.Employee, error) {
	column, ok := model.SearchableFields[field]
	if !ok {
		return nil, model.NewUnknownField(field)
	}

	defer r.metrics.ObserveQuery("find_by_field", time.Now())

	return r.queryList(ctx, "find", fmt.Sprintf(findByFieldQueryFmt, column), value)
}

func (r *postgresRepository) queryList(ctx context.Context, op, query string, args ...any) ([]*model.Employee, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, model.NewStoreError(op, err)
	}
	defer rows.Close()

	employees := make([]*model.Employee, 0)
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, model.NewStoreError(op, err)
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, model.NewStoreError(op, err)
	}

	return employees, nil
}

func (r *postgresRepository) invalidate(ctx context.Context, emails ...string) {
	if r.cache == nil {
		return
	}
	keys := make([]string, 0, len(emails))
	seen := make(map[string]bool, len(emails))
	for _, email := range emails {
		if email == "" || seen[email] {
			continue
		}
		seen[email] = true
		keys = append(keys, EmailCacheKey(email))
	}
	if err := r.cache.Delete(ctx, keys...); err != nil {
		log.Warn().Err(err).Strs("keys", keys).Msg("employee cache invalidation failed")
	}
}
