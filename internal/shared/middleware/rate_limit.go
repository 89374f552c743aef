package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"vcard-backend/internal/shared/response"
)

const minLimiterIdle = time.Minute

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter giữ một token bucket cho mỗi client IP
// Bucket không dùng quá idle (đã refill đầy) bị xóa khi sweep
type IPRateLimiter struct {
	ips       map[string]*limiterEntry
	mu        *sync.Mutex
	r         rate.Limit // requests per second
	b         int        // burst
	idle      time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	return &IPRateLimiter{
		ips:       make(map[string]*limiterEntry),
		mu:        &sync.Mutex{},
		r:         r,
		b:         b,
		idle:      refillTime(r, b),
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

// refillTime là thời gian bucket rỗng refill đầy, tối thiểu minLimiterIdle
func refillTime(r rate.Limit, b int) time.Duration {
	if r <= 0 || r == rate.Inf {
		return minLimiterIdle
	}
	d := time.Duration(float64(b) / float64(r) * float64(time.Second))
	if d < minLimiterIdle {
		return minLimiterIdle
	}
	return d
}

// Allow tiêu một token của key
func (i *IPRateLimiter) Allow(key string) bool {
	i.mu.Lock()
	defer i.mu.Unlock()

	now := i.now()
	if now.Sub(i.lastSweep) >= i.idle {
		i.sweep(now)
	}

	entry, exists := i.ips[key]
	if !exists {
		entry = &limiterEntry{limiter: rate.NewLimiter(i.r, i.b)}
		i.ips[key] = entry
	}
	entry.lastSeen = now

	return entry.limiter.AllowN(now, 1)
}

// Len trả số bucket đang giữ
func (i *IPRateLimiter) Len() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.ips)
}

func (i *IPRateLimiter) sweep(now time.Time) {
	for key, entry := range i.ips {
		if now.Sub(entry.lastSeen) >= i.idle {
			delete(i.ips, key)
		}
	}
	i.lastSweep = now
}

const tooManyAttemptsPage = `<!DOCTYPE html>
<html lang="en"><head><meta charset="utf-8"><title>Too many attempts</title>
<link rel="stylesheet" href="/static/style.css"></head>
<body class="centered"><p>Too many sign-in attempts. Please wait a moment and try again.</p>
<p><a href="/admin/login">Back to sign in</a></p></body></html>`

// RateLimitByIP dùng cho login routes; html=true trả trang HTML thay vì JSON
// Key là ClientIP, chỉ tin forwarded headers từ trusted proxies của engine
func RateLimitByIP(limiter *IPRateLimiter, html bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter.Allow(ClientIP(c)) {
			c.Next()
			return
		}

		if html {
			c.Data(http.StatusTooManyRequests, "text/html; charset=utf-8", []byte(tooManyAttemptsPage))
			c.Abort()
			return
		}
		response.AbortError(c, http.StatusTooManyRequests, "Too many requests from this IP", gin.H{"code": "TOO_MANY_ATTEMPTS"})
	}
}
