package middleware

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"vcard-backend/internal/shared"
	"vcard-backend/internal/shared/response"
	"vcard-backend/internal/shared/session"
)

// GateOptions cấu hình SessionGate cho một nhóm routes
type GateOptions struct {
	CookieName string
	Timeout    time.Duration
	LoginPath  string // HTML: redirect khi unauthenticated
	API        bool   // true: trả JSON 401/503 thay vì redirect/loading page
}

// retryAfterSeconds là khoảng chờ trước khi loading page tự kiểm tra lại
const retryAfterSeconds = "2"

const loadingPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta http-equiv="refresh" content="2">
<title>Loading…</title>
<link rel="stylesheet" href="/static/style.css">
</head>
<body class="centered">
<div class="spinner"></div>
<p>Checking your session…</p>
</body>
</html>`

// SessionGate chặn mọi admin route cho đến khi session được resolve
//
//	checking        -> loading placeholder (503 + Retry-After)
//	unauthenticated -> redirect LoginPath (HTML) hoặc 401 (API)
//	authenticated   -> lưu session vào context và tiếp tục
func SessionGate(resolver session.Resolver, opts GateOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := session.TokenFromRequest(c.Request, opts.CookieName)
		result := session.Check(c.Request.Context(), resolver, token, opts.Timeout)

		switch result.State {
		case session.StateAuthenticated:
			c.Set(shared.ContextSession, result.Session)
			c.Next()

		case session.StateUnauthenticated:
			if opts.API {
				response.AbortError(c, http.StatusUnauthorized, "Authentication required", gin.H{"code": "UNAUTHENTICATED"})
				return
			}
			c.Redirect(http.StatusFound, loginRedirect(opts.LoginPath, c.Request.URL.RequestURI()))
			c.Abort()

		default:
			log.Warn().Err(result.Err).
				Str("request_id", c.GetString(shared.ContextRequestID)).
				Str("path", c.Request.URL.Path).
				Msg("session check did not resolve")

			c.Header("Retry-After", retryAfterSeconds)
			if opts.API {
				response.AbortError(c, http.StatusServiceUnavailable, "Session check unavailable, retry shortly", gin.H{"code": "SESSION_CHECKING"})
				return
			}
			c.Data(http.StatusServiceUnavailable, "text/html; charset=utf-8", []byte(loadingPage))
			c.Abort()
		}
	}
}

func loginRedirect(loginPath, next string) string {
	if next == "" || next == "/" || strings.HasPrefix(next, loginPath) {
		return loginPath
	}
	return loginPath + "?next=" + url.QueryEscape(next)
}

// CurrentSession trả session snapshot do SessionGate set, nil nếu route không có gate
func CurrentSession(c *gin.Context) *session.Session {
	v, ok := c.Get(shared.ContextSession)
	if !ok {
		return nil
	}
	s, _ := v.(*session.Session)
	return s
}
