package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/ajharbinger/poolvest-insights/internal/cache"
	"github.com/ajharbinger/poolvest-insights/internal/logger"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	rateWindow        = time.Minute
	maxTrackedClients = 10000
)

// Limiter decides whether the client identified by key may proceed
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// LocalLimiter keeps one token bucket per client in process memory
type LocalLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// NewLocalLimiter allows perMinute requests per client, refilled evenly
func NewLocalLimiter(perMinute int) *LocalLimiter {
	if perMinute <= 0 {
		perMinute = 1
	}
	return &LocalLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Every(rateWindow / time.Duration(perMinute)),
		burst:    perMinute,
	}
}

// Allow implements Limiter
func (l *LocalLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	limiter, ok := l.limiters[key]
	if !ok {
		if len(l.limiters) >= maxTrackedClients {
			l.limiters = make(map[string]*rate.Limiter)
		}
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters[key] = limiter
	}
	l.mu.Unlock()

	return limiter.Allow(), nil
}

// SharedLimiter enforces a fixed window per client through a shared counter,
// so the limit holds across replicas
type SharedLimiter struct {
	counter   cache.WindowCounter
	perMinute int64
	now       func() time.Time
}

// NewSharedLimiter creates a limiter backed by counter
func NewSharedLimiter(counter cache.WindowCounter, perMinute int) *SharedLimiter {
	return &SharedLimiter{counter: counter, perMinute: int64(perMinute), now: time.Now}
}

// Allow implements Limiter
func (l *SharedLimiter) Allow(ctx context.Context, key string) (bool, error) {
	count, err := l.counter.Increment(ctx, key, rateWindow, l.now())
	if err != nil {
		return true, err
	}
	return count <= l.perMinute, nil
}

// RateLimitingMiddleware rejects clients over their budget with 429. Limiter
// errors let the request through and are logged.
func RateLimitingMiddleware(limiter Limiter, log logger.Logger) gin.HandlerFunc {
	retryAfter := strconv.Itoa(int(rateWindow.Seconds()))
	return func(c *gin.Context) {
		key := c.ClientIP()
		allowed, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			log.Warn("Rate limiter unavailable", "client_ip", key, "error", err)
		}
		if !allowed {
			log.Warn("Rate limit exceeded", "client_ip", key, "path", c.Request.URL.Path)
			c.Header("Retry-After", retryAfter)
			abortJSON(c, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		c.Next()
	}
}
