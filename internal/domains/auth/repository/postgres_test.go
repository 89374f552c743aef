package repository_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vcard-backend/internal/domains/auth"
	"vcard-backend/internal/domains/auth/repository"
)

const findByEmailQuery = `SELECT id, email, password_hash, created_at FROM admins WHERE email = $1`

func TestFindByEmail(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	id := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(findByEmailQuery)).
		WithArgs("admin@x.com").
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "password_hash", "created_at"}).
			AddRow(id, "admin@x.com", "$2a$hash", time.Now()))

	repo := repository.NewPostgresRepository(mock)

	a, err := repo.FindByEmail(context.Background(), "admin@x.com")
	require.NoError(t, err)
	assert.Equal(t, id, a.ID)
	assert.Equal(t, "$2a$hash", a.PasswordHash)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByEmail_NotFound(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta(findByEmailQuery)).
		WithArgs("ghost@x.com").
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "password_hash", "created_at"}))

	repo := repository.NewPostgresRepository(mock)

	_, err = repo.FindByEmail(context.Background(), "ghost@x.com")
	assert.ErrorIs(t, err, auth.ErrAdminNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByEmail_DriverError(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta(findByEmailQuery)).
		WithArgs("admin@x.com").
		WillReturnError(assert.AnError)

	repo := repository.NewPostgresRepository(mock)

	_, err = repo.FindByEmail(context.Background(), "admin@x.com")
	require.Error(t, err)
	assert.NotErrorIs(t, err, auth.ErrAdminNotFound)
	assert.ErrorIs(t, err, assert.AnError)
}
