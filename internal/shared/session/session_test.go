package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type resolverFunc func(ctx context.Context, token string) (*Session, error)

func (f resolverFunc) Resolve(ctx context.Context, token string) (*Session, error) {
	return f(ctx, token)
}

func TestCheck(t *testing.T) {
	t.Parallel()

	admin := &Session{AdminID: "1", Email: "admin@x.com"}

	tests := []struct {
		name     string
		token    string
		resolver resolverFunc
		want     State
	}{
		{
			name:  "missing token",
			token: "",
			resolver: func(context.Context, string) (*Session, error) {
				t.Fatal("resolver must not be called without a token")
				return nil, nil
			},
			want: StateUnauthenticated,
		},
		{
			name:     "valid token",
			token:    "ok",
			resolver: func(context.Context, string) (*Session, error) { return admin, nil },
			want:     StateAuthenticated,
		},
		{
			name:     "rejected token",
			token:    "bad",
			resolver: func(context.Context, string) (*Session, error) { return nil, ErrUnauthenticated },
			want:     StateUnauthenticated,
		},
		{
			name:     "identity store down",
			token:    "ok",
			resolver: func(context.Context, string) (*Session, error) { return nil, errors.New("redis: connection refused") },
			want:     StateChecking,
		},
		{
			name:  "identity store slow",
			token: "ok",
			resolver: func(ctx context.Context, _ string) (*Session, error) {
				<-ctx.Done()
				time.Sleep(10 * time.Millisecond)
				return admin, nil
			},
			want: StateChecking,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Check(context.Background(), tt.resolver, tt.token, 50*time.Millisecond)
			assert.Equal(t, tt.want, r.State, r.State.String())
			if tt.want == StateAuthenticated {
				assert.Equal(t, admin, r.Session)
			} else {
				assert.Nil(t, r.Session)
			}
		})
	}
}

func TestTokenFromRequest(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, TokenFromRequest(req, "vcard_session"))

	req.Header.Set("Authorization", "Bearer abc")
	assert.Equal(t, "abc", TokenFromRequest(req, "vcard_session"))

	req.AddCookie(&http.Cookie{Name: "vcard_session", Value: "from-cookie"})
	assert.Equal(t, "from-cookie", TokenFromRequest(req, "vcard_session"))
}
