package repository_test

import (
	"context"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vcard-backend/internal/domains/employee/model"
	"vcard-backend/internal/domains/employee/repository"
)

const selectColumns = `id, full_name, designation, company, phone, email, address, website, photo_url, created_at, updated_at`

const insertQuery = `
		INSERT INTO employees (full_name, designation, company, phone, email, address, website, photo_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

const getByEmailQuery = `SELECT ` + selectColumns + ` FROM employees WHERE email = $1 ORDER BY created_at ASC LIMIT 1`

const getByIDQuery = `SELECT ` + selectColumns + ` FROM employees WHERE id = $1`

const deleteQuery = `DELETE FROM employees WHERE id = $1 RETURNING email`

const updateQuery = `
		WITH previous AS (SELECT email FROM employees WHERE id = $1)
		UPDATE employees
		SET full_name = $2, designation = $3, company = $4, phone = $5, email = $6,
		    address = $7, website = $8, photo_url = $9, updated_at = NOW()
		WHERE id = $1
		RETURNING (SELECT email FROM previous)`

const listQuery = `SELECT ` + selectColumns + ` FROM employees ORDER BY created_at ASC`

// memoryCache là cache.Cache in-memory cho test
type memoryCache struct {
	items   map[string][]byte
	deleted []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: make(map[string][]byte)}
}

func (m *memoryCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	data, ok := m.items[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, dest)
}

func (m *memoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.items[key] = data
	return nil
}

func (m *memoryCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.items, k)
		m.deleted = append(m.deleted, k)
	}
	return nil
}

func (m *memoryCache) Exists(_ context.Context, key string) (bool, error) {
	_, ok := m.items[key]
	return ok, nil
}

func (m *memoryCache) Ping(context.Context) error { return nil }

func employeeRows(e model.Employee) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "full_name", "designation", "company", "phone", "email",
		"address", "website", "photo_url", "created_at", "updated_at",
	}).AddRow(
		e.ID, e.FullName, e.Designation, e.Company, e.Phone, e.Email,
		e.Address, e.Website, e.PhotoURL, e.CreatedAt, e.UpdatedAt,
	)
}

func sampleEmployee() model.Employee {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	return model.Employee{
		ID:          uuid.New(),
		FullName:    "Amy Pond",
		Designation: "Engineer",
		Company:     "SELCO Solar Light Pvt Ltd",
		Phone:       "+91 98450 00000",
		Email:       "amy@x.com",
		Address:     "Bengaluru",
		Website:     "www.selco-india.com",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestCreate_ReturnsGeneratedID(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	e := sampleEmployee()
	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(insertQuery)).
		WithArgs(e.FullName, e.Designation, e.Company, e.Phone, e.Email, e.Address, e.Website, e.PhotoURL).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(id))

	c := newMemoryCache()
	repo := repository.NewPostgresRepository(mock, c, time.Minute, nil)

	got, err := repo.Create(context.Background(), &e)
	require.NoError(t, err)
	assert.Equal(t, id, got)
	assert.Contains(t, c.deleted, repository.EmailCacheKey(e.Email))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_StoreError(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	e := sampleEmployee()
	mock.ExpectQuery(regexp.QuoteMeta(insertQuery)).
		WithArgs(e.FullName, e.Designation, e.Company, e.Phone, e.Email, e.Address, e.Website, e.PhotoURL).
		WillReturnError(assert.AnError)

	repo := repository.NewPostgresRepository(mock, nil, time.Minute, nil)

	_, err = repo.Create(context.Background(), &e)
	require.Error(t, err)
	assert.True(t, model.IsStoreError(err))
	assert.ErrorIs(t, err, assert.AnError)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_Missing(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	id := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(getByIDQuery)).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	repo := repository.NewPostgresRepository(mock, nil, time.Minute, nil)

	got, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByEmail_CacheMissThenHit(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	e := sampleEmployee()
	mock.ExpectQuery(regexp.QuoteMeta(getByEmailQuery)).
		WithArgs(e.Email).
		WillReturnRows(employeeRows(e))

	c := newMemoryCache()
	repo := repository.NewPostgresRepository(mock, c, time.Minute, nil)

	first, err := repo.GetByEmail(context.Background(), e.Email)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, e.FullName, first.FullName)

	// Lần 2 phải đọc từ cache, không có query nào được expect thêm
	second, err := repo.GetByEmail(context.Background(), e.Email)
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, e.ID, second.ID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByEmail_NotFoundIsNotCached(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta(getByEmailQuery)).
		WithArgs("ghost@x.com").
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	c := newMemoryCache()
	repo := repository.NewPostgresRepository(mock, c, time.Minute, nil)

	got, err := repo.GetByEmail(context.Background(), "ghost@x.com")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Empty(t, c.items)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete(t *testing.T) {
	t.Parallel()

	t.Run("existing", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		id := uuid.New()
		mock.ExpectQuery(regexp.QuoteMeta(deleteQuery)).
			WithArgs(id).
			WillReturnRows(pgxmock.NewRows([]string{"email"}).AddRow("amy@x.com"))

		c := newMemoryCache()
		c.items[repository.EmailCacheKey("amy@x.com")] = []byte(`{}`)
		repo := repository.NewPostgresRepository(mock, c, time.Minute, nil)

		ok, err := repo.Delete(context.Background(), id)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Empty(t, c.items)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		id := uuid.New()
		mock.ExpectQuery(regexp.QuoteMeta(deleteQuery)).
			WithArgs(id).
			WillReturnRows(pgxmock.NewRows([]string{"email"}))

		repo := repository.NewPostgresRepository(mock, nil, time.Minute, nil)

		ok, err := repo.Delete(context.Background(), id)
		require.NoError(t, err)
		assert.False(t, ok)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUpdate(t *testing.T) {
	t.Parallel()

	expectUpdate := func(mock pgxmock.PgxPoolIface, id uuid.UUID, e model.Employee) *pgxmock.ExpectedQuery {
		return mock.ExpectQuery(regexp.QuoteMeta(updateQuery)).
			WithArgs(id, e.FullName, e.Designation, e.Company, e.Phone, e.Email, e.Address, e.Website, e.PhotoURL)
	}

	t.Run("found invalidates old and new email", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		e := sampleEmployee()
		e.Email = "amy.pond@x.com"
		expectUpdate(mock, e.ID, e).
			WillReturnRows(pgxmock.NewRows([]string{"email"}).AddRow("amy@x.com"))

		c := newMemoryCache()
		c.items[repository.EmailCacheKey("amy@x.com")] = []byte(`{}`)
		c.items[repository.EmailCacheKey("amy.pond@x.com")] = []byte(`{}`)
		repo := repository.NewPostgresRepository(mock, c, time.Minute, nil)

		ok, err := repo.Update(context.Background(), e.ID, &e)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.ElementsMatch(t, []string{
			repository.EmailCacheKey("amy@x.com"),
			repository.EmailCacheKey("amy.pond@x.com"),
		}, c.deleted)
		assert.Empty(t, c.items)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("same email deleted once", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		e := sampleEmployee()
		expectUpdate(mock, e.ID, e).
			WillReturnRows(pgxmock.NewRows([]string{"email"}).AddRow(e.Email))

		c := newMemoryCache()
		repo := repository.NewPostgresRepository(mock, c, time.Minute, nil)

		ok, err := repo.Update(context.Background(), e.ID, &e)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []string{repository.EmailCacheKey(e.Email)}, c.deleted)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		e := sampleEmployee()
		expectUpdate(mock, e.ID, e).
			WillReturnRows(pgxmock.NewRows([]string{"email"}))

		c := newMemoryCache()
		repo := repository.NewPostgresRepository(mock, c, time.Minute, nil)

		ok, err := repo.Update(context.Background(), e.ID, &e)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, c.deleted)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("driver error", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		e := sampleEmployee()
		expectUpdate(mock, e.ID, e).WillReturnError(assert.AnError)

		c := newMemoryCache()
		repo := repository.NewPostgresRepository(mock, c, time.Minute, nil)

		ok, err := repo.Update(context.Background(), e.ID, &e)
		require.Error(t, err)
		assert.False(t, ok)
		assert.True(t, model.IsStoreError(err))
		assert.Equal(t, model.CodeStoreError, model.GetErrorCode(err))
		assert.ErrorIs(t, err, assert.AnError)
		assert.Empty(t, c.deleted)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestListAll(t *testing.T) {
	t.Parallel()

	t.Run("rows in creation order", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		first := sampleEmployee()
		second := sampleEmployee()
		second.FullName = "Rory Williams"
		second.Email = "rory@x.com"
		second.CreatedAt = first.CreatedAt.Add(time.Hour)

		rows := employeeRows(first).AddRow(
			second.ID, second.FullName, second.Designation, second.Company, second.Phone, second.Email,
			second.Address, second.Website, second.PhotoURL, second.CreatedAt, second.UpdatedAt,
		)
		mock.ExpectQuery(regexp.QuoteMeta(listQuery)).WillReturnRows(rows)

		repo := repository.NewPostgresRepository(mock, nil, time.Minute, nil)

		got, err := repo.ListAll(context.Background())
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, first.ID, got[0].ID)
		assert.Equal(t, "Rory Williams", got[1].FullName)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty table is an empty slice", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(regexp.QuoteMeta(listQuery)).
			WillReturnRows(pgxmock.NewRows([]string{"id"}))

		repo := repository.NewPostgresRepository(mock, nil, time.Minute, nil)

		got, err := repo.ListAll(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("driver error", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(regexp.QuoteMeta(listQuery)).WillReturnError(assert.AnError)

		repo := repository.NewPostgresRepository(mock, nil, time.Minute, nil)

		_, err = repo.ListAll(context.Background())
		require.Error(t, err)
		assert.True(t, model.IsStoreError(err))
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestFindByField(t *testing.T) {
	t.Parallel()

	t.Run("unknown field rejected without query", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewPostgresRepository(mock, nil, time.Minute, nil)

		_, err = repo.FindByField(context.Background(), "password; DROP TABLE", "x")
		require.Error(t, err)
		assert.Equal(t, model.CodeUnknownField, model.GetErrorCode(err))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("email", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		e := sampleEmployee()
		query := `SELECT ` + selectColumns + ` FROM employees WHERE email = $1 ORDER BY created_at ASC`
		mock.ExpectQuery(regexp.QuoteMeta(query)).
			WithArgs(e.Email).
			WillReturnRows(employeeRows(e))

		repo := repository.NewPostgresRepository(mock, nil, time.Minute, nil)

		got, err := repo.FindByField(context.Background(), "email", e.Email)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, e.ID, got[0].ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
