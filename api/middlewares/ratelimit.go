package middlewares

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Adedunmol/stresspulse/api/custom_errors"
	"github.com/Adedunmol/stresspulse/api/jsonutil"
)

// Limiter decides whether one more request under key fits the budget.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RedisLimiter is a fixed-window counter shared by every instance that
// talks to the same Redis.
type RedisLimiter struct {
	client *redis.Client
	max    int64
	window time.Duration
	now    func() time.Time
}

func NewRedisLimiter(client *redis.Client, max int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, max: int64(max), window: window, now: time.Now}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	windowStart := l.now().Truncate(l.window).Unix()
	bucket := "ratelimit:" + key + ":" + strconv.FormatInt(windowStart, 10)

	pipe := l.client.TxPipeline()
	count := pipe.Incr(ctx, bucket)
	pipe.ExpireNX(ctx, bucket, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("error updating rate limit counter: %w", err)
	}

	return count.Val() <= l.max, nil
}

// LocalLimiter keeps token buckets in process memory. It is used when no
// Redis is configured.
type LocalLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func NewLocalLimiter(max int, window time.Duration) *LocalLimiter {
	return &LocalLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(float64(max) / window.Seconds()),
		burst:    max,
	}
}

func (l *LocalLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	limiter, ok := l.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters[key] = limiter
	}
	l.mu.Unlock()

	return limiter.Allow(), nil
}

// RateLimit consults limiter under a single fixed key before every request.
func RateLimit(limiter Limiter, key string, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(responseWriter http.ResponseWriter, request *http.Request) {
			allowed, err := limiter.Allow(request.Context(), key)
			if err != nil {
				log.Error("rate limiter failed", zap.Error(err))
				jsonutil.WriteError(responseWriter, err)
				return
			}
			if !allowed {
				jsonutil.WriteError(responseWriter, custom_errors.ErrRateLimited)
				return
			}
			next.ServeHTTP(responseWriter, request)
		})
	}
}
