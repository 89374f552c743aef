package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"vcard-backend/internal/domains/auth"
	"vcard-backend/internal/infrastructure/database"
)

const (
	findAdminByEmailQuery = `SELECT id, email, password_hash, created_at FROM admins WHERE email = $1`
	upsertAdminQuery      = `
		INSERT INTO admins (email, password_hash)
		VALUES ($1, $2)
		ON CONFLICT (email) DO UPDATE SET password_hash = EXCLUDED.password_hash
		RETURNING id, email, password_hash, created_at`
)

type postgresRepository struct {
	db database.Querier
}

func NewPostgresRepository(db database.Querier) auth.Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) FindByEmail(ctx context.Context, email string) (*auth.Admin, error) {
	var a auth.Admin
	err := r.db.QueryRow(ctx, findAdminByEmailQuery, email).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, auth.ErrAdminNotFound
		}
		return nil, fmt.Errorf("find admin by email: %w", err)
	}
	return &a, nil
}

// Upsert dùng khi seed admin, chạy lại sẽ đổi password
func (r *postgresRepository) Upsert(ctx context.Context, email, passwordHash string) (*auth.Admin, error) {
	var a auth.Admin
	err := r.db.QueryRow(ctx, upsertAdminQuery, email, passwordHash).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("upsert admin: %w", err)
	}
	return &a, nil
}
