package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"vcard-backend/internal/domains/auth"
	"vcard-backend/internal/shared/middleware"
	"vcard-backend/internal/shared/response"
	"vcard-backend/internal/shared/session"
)

const defaultNext = "/admin/dashboard"

// CookieOptions cấu hình session cookie
type CookieOptions struct {
	Name   string
	Secure bool
}

type AuthHandler struct {
	service auth.Service
	cookie  CookieOptions
	now     func() time.Time
}

func NewAuthHandler(service auth.Service, cookie CookieOptions) *AuthHandler {
	return &AuthHandler{service: service, cookie: cookie, now: time.Now}
}

// safeNext chỉ chấp nhận path nội bộ, tránh open redirect
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return defaultNext
	}
	return next
}

func (h *AuthHandler) setCookie(c *gin.Context, token string, expiresAt time.Time) {
	maxAge := int(expiresAt.Sub(h.now()).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, token, maxAge, "/", "", h.cookie.Secure, true)
}

func (h *AuthHandler) clearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, "", -1, "/", "", h.cookie.Secure, true)
}

// ========================================
// HTML
// ========================================

// LoginPage - GET /admin/login?next=...
func (h *AuthHandler) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"Title": "Sign in",
		"Next":  safeNext(c.Query("next")),
	})
}

// LoginSubmit - POST /admin/login (form)
func (h *AuthHandler) LoginSubmit(c *gin.Context) {
	var req auth.LoginRequest
	_ = c.ShouldBind(&req)
	next := safeNext(c.PostForm("next"))

	resp, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		status, message := loginFailure(err)
		c.HTML(status, "login.html", gin.H{
			"Title": "Sign in",
			"Next":  next,
			"Email": req.Email,
			"Error": message,
		})
		return
	}

	h.setCookie(c, resp.Token, resp.ExpiresAt)
	c.Redirect(http.StatusSeeOther, next)
}

// Logout - POST /admin/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.service.Logout(c.Request.Context(), session.TokenFromRequest(c.Request, h.cookie.Name)); err != nil {
		log.Error().Err(err).Msg("logout failed")
	}
	h.clearCookie(c)
	c.Redirect(http.StatusSeeOther, "/admin/login")
}

func loginFailure(err error) (int, string) {
	if errors.Is(err, auth.ErrInvalidCredentials) {
		return http.StatusUnauthorized, "Invalid email or password"
	}
	log.Error().Err(err).Msg("login failed")
	return http.StatusServiceUnavailable, "Sign-in is temporarily unavailable, please try again"
}

// ========================================
// JSON API
// ========================================

// APILogin - POST /api/v1/auth/login
func (h *AuthHandler) APILogin(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", gin.H{"code": "INVALID_REQUEST"})
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		status, message := loginFailure(err)
		code := "INVALID_CREDENTIALS"
		if status != http.StatusUnauthorized {
			code = "SESSION_STORE_UNAVAILABLE"
		}
		response.Error(c, status, message, gin.H{"code": code})
		return
	}

	h.setCookie(c, resp.Token, resp.ExpiresAt)
	response.Success(c, http.StatusOK, "Logged in", resp)
}

// APILogout - POST /api/v1/auth/logout
func (h *AuthHandler) APILogout(c *gin.Context) {
	if err := h.service.Logout(c.Request.Context(), session.TokenFromRequest(c.Request, h.cookie.Name)); err != nil {
		log.Error().Err(err).Msg("logout failed")
		response.Error(c, http.StatusServiceUnavailable, "Logout failed", gin.H{"code": "SESSION_STORE_UNAVAILABLE"})
		return
	}
	h.clearCookie(c)
	response.Success(c, http.StatusOK, "Logged out", nil)
}

// Me - GET /api/v1/admin/me (sau SessionGate)
func (h *AuthHandler) Me(c *gin.Context) {
	response.Success(c, http.StatusOK, "Current session", middleware.CurrentSession(c))
}
