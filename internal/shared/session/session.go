// Package session resolves the admin session for a single request.
//
// Each request starts in StateChecking. Resolution moves it to
// StateAuthenticated or StateUnauthenticated. When the identity store does
// not answer within the timeout the request stays in StateChecking and the
// caller shows a loading placeholder instead of guessing.
package session

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"
)

type State int

const (
	StateChecking State = iota
	StateAuthenticated
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "checking"
	}
}

// Session is the snapshot stored in the request context once authenticated
type Session struct {
	AdminID   string    `json:"admin_id"`
	Email     string    `json:"email"`
	TokenID   string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ErrUnauthenticated means the token is missing, invalid, expired or revoked.
// Any other error from a Resolver means the identity store is unavailable.
var ErrUnauthenticated = errors.New("session: unauthenticated")

// Resolver turns a session token into a Session
type Resolver interface {
	Resolve(ctx context.Context, token string) (*Session, error)
}

// Result là kết quả của một lần Check
type Result struct {
	State   State
	Session *Session
	Err     error
}

// Check runs one resolution bounded by timeout
func Check(ctx context.Context, resolver Resolver, token string, timeout time.Duration) Result {
	if token == "" {
		return Result{State: StateUnauthenticated, Err: ErrUnauthenticated}
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan Result, 1)
	go func() {
		s, err := resolver.Resolve(ctx, token)
		switch {
		case err == nil && s != nil:
			done <- Result{State: StateAuthenticated, Session: s}
		case err == nil, errors.Is(err, ErrUnauthenticated):
			done <- Result{State: StateUnauthenticated, Err: ErrUnauthenticated}
		default:
			done <- Result{State: StateChecking, Err: err}
		}
	}()

	select {
	case r := <-done:
		return r
	case <-ctx.Done():
		return Result{State: StateChecking, Err: ctx.Err()}
	}
}

// TokenFromRequest đọc token từ cookie trước, sau đó Authorization: Bearer
func TokenFromRequest(r *http.Request, cookieName string) string {
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		return c.Value
	}

	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}
