package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"vcard-backend/internal/domains/auth"
	"vcard-backend/internal/shared/session"
	"vcard-backend/pkg/cache"
	"vcard-backend/pkg/jwt"
)

const defaultBcryptCost = 12

// RevokedKey là redis key đánh dấu session đã logout
func RevokedKey(tokenID string) string {
	return "session:revoked:" + tokenID
}

type authService struct {
	repo  auth.Repository
	jwt   *jwt.Manager
	cache cache.Cache

	cost      int
	dummyOnce sync.Once
	dummyHash []byte
	now       func() time.Time
}

func NewAuthService(repo auth.Repository, jwtManager *jwt.Manager, c cache.Cache) auth.Service {
	return &authService{
		repo:  repo,
		jwt:   jwtManager,
		cache: c,
		cost:  defaultBcryptCost,
		now:   time.Now,
	}
}

// ========================================
// LOGIN
// ========================================

func (s *authService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	req = req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, auth.ErrInvalidCredentials
	}

	admin, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if !errors.Is(err, auth.ErrAdminNotFound) {
			return nil, fmt.Errorf("login: %w", err)
		}
		// So sánh với hash giả để thời gian trả lời không lộ email có tồn tại hay không
		_ = bcrypt.CompareHashAndPassword(s.placeholderHash(), []byte(req.Password))
		return nil, auth.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		log.Info().Str("email", admin.Email).Msg("admin login rejected")
		return nil, auth.ErrInvalidCredentials
	}

	token, claims, err := s.jwt.GenerateSessionToken(admin.ID.String(), admin.Email)
	if err != nil {
		return nil, fmt.Errorf("issue session token: %w", err)
	}

	log.Info().Str("email", admin.Email).Msg("admin logged in")

	return &auth.LoginResponse{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		Email:     admin.Email,
	}, nil
}

func (s *authService) placeholderHash() []byte {
	s.dummyOnce.Do(func() {
		h, err := bcrypt.GenerateFromPassword([]byte("placeholder-password"), s.cost)
		if err != nil {
			log.Error().Err(err).Msg("generate placeholder hash")
			return
		}
		s.dummyHash = h
	})
	return s.dummyHash
}

// ========================================
// LOGOUT
// ========================================

// Logout ghi jti vào redis tới khi token hết hạn. Token không hợp lệ coi như đã logout.
func (s *authService) Logout(ctx context.Context, token string) error {
	claims, err := s.jwt.ValidateSessionToken(token)
	if err != nil {
		return nil
	}

	ttl := claims.ExpiresAt.Time.Sub(s.now())
	if ttl <= 0 {
		return nil
	}

	if err := s.cache.Set(ctx, RevokedKey(claims.ID), true, ttl); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}

	log.Info().Str("email", claims.Email).Msg("admin logged out")
	return nil
}

// ========================================
// RESOLVE (session.Resolver)
// ========================================

func (s *authService) Resolve(ctx context.Context, token string) (*session.Session, error) {
	claims, err := s.jwt.ValidateSessionToken(token)
	if err != nil {
		return nil, session.ErrUnauthenticated
	}

	// Lỗi redis trả về nguyên vẹn: gate giữ request ở trạng thái checking
	revoked, err := s.cache.Exists(ctx, RevokedKey(claims.ID))
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, session.ErrUnauthenticated
	}

	return &session.Session{
		AdminID:   claims.UserID,
		Email:     claims.Email,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// ========================================
// SEED
// ========================================

// SeedAdmin tạo hoặc đổi password của một admin, dùng bởi migrator
func (s *authService) SeedAdmin(ctx context.Context, email, password string) (*auth.Admin, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	err := validation.Errors{
		"email":    validation.Validate(email, validation.Required, is.EmailFormat),
		"password": validation.Validate(password, validation.Required, validation.Length(8, 72)),
	}.Filter()
	if err != nil {
		return nil, fmt.Errorf("seed admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	return s.repo.Upsert(ctx, email, string(hash))
}
