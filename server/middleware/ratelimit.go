package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/kbukum/errkit/errors"
)

// DefaultRateLimitKey is the catalog key raised when a client is throttled.
const DefaultRateLimitKey = "QUOTA_EXCEEDED"

// RateLimitConfig configures the rate limiting middleware.
type RateLimitConfig struct {
	// RequestsPerMinute is the maximum number of requests allowed per minute per key.
	RequestsPerMinute int
	// KeyFunc extracts the rate limit key from a request. Defaults to client IP.
	KeyFunc func(*gin.Context) string
	// ErrorKey is the business error key raised on rejection.
	ErrorKey string
}

// RateLimit returns a Gin middleware that applies per-key token bucket rate
// limiting. Rejections are recorded as business errors so the catalog decides
// the status and message.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 60
	}
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = IPBasedKey
	}
	if cfg.ErrorKey == "" {
		cfg.ErrorKey = DefaultRateLimitKey
	}

	rl := newRateLimiter(cfg.RequestsPerMinute, time.Minute)

	return func(c *gin.Context) {
		if !rl.allow(cfg.KeyFunc(c)) {
			Abort(c, errors.Business(cfg.ErrorKey))
			return
		}
		c.Next()
	}
}

// IPBasedKey extracts the client IP for use as a rate limit key.
func IPBasedKey(c *gin.Context) string {
	return c.ClientIP()
}

// SubjectBasedKey keys on the authenticated subject, falling back to client IP.
func SubjectBasedKey(c *gin.Context) string {
	if claims, ok := ClaimsFrom(c); ok && claims.Subject != "" {
		return claims.Subject
	}
	return c.ClientIP()
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateLimiter keeps a token bucket per key. A bucket holds limit tokens and
// refills limit tokens per window.
type rateLimiter struct {
	mu          sync.Mutex
	visitors    map[string]*visitor
	limit       int
	window      time.Duration
	now         func() time.Time
	lastCleanup time.Time
}

func newRateLimiter(limit int, window time.Duration) *rateLimiter {
	return &rateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		window:   window,
		now:      time.Now,
	}
}

func (rl *rateLimiter) allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.sweep(now)

	v, ok := rl.visitors[key]
	if !ok {
		every := rl.window / time.Duration(rl.limit)
		v = &visitor{limiter: rate.NewLimiter(rate.Every(every), rl.limit)}
		rl.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// sweep drops keys idle for a full window, at most once per five windows.
// Caller holds mu.
func (rl *rateLimiter) sweep(now time.Time) {
	if now.Sub(rl.lastCleanup) < 5*rl.window {
		return
	}
	rl.lastCleanup = now
	for key, v := range rl.visitors {
		if now.Sub(v.lastSeen) >= rl.window {
			delete(rl.visitors, key)
		}
	}
}
