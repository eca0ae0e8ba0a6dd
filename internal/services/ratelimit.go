package services

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter decides whether userID may perform action now.
type RateLimiter interface {
	Allow(ctx context.Context, userID, action string) (bool, error)
}

// LocalRateLimiter keeps a token bucket per user and action in process
// memory. It is used when there is no Redis to share a window across
// instances.
type LocalRateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	idle     time.Duration
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLocalRateLimiter allows perMinute events per user and action, with a
// burst of the same size.
func NewLocalRateLimiter(perMinute int) *LocalRateLimiter {
	if perMinute <= 0 {
		perMinute = DefaultRateLimitBets
	}

	return &LocalRateLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Every(RateLimitWindow / time.Duration(perMinute)),
		burst:    perMinute,
		idle:     3 * RateLimitWindow,
	}
}

func (rl *LocalRateLimiter) Allow(_ context.Context, userID, action string) (bool, error) {
	return rl.getVisitor(userID + ":" + action).Allow(), nil
}

func (rl *LocalRateLimiter) getVisitor(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[key]
	if !exists {
		limiter := rate.NewLimiter(rl.limit, rl.burst)
		rl.visitors[key] = &visitor{limiter, time.Now()}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

// Sweep drops buckets idle for longer than three windows.
func (rl *LocalRateLimiter) Sweep() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	removed := 0
	for key, v := range rl.visitors {
		if time.Since(v.lastSeen) > rl.idle {
			delete(rl.visitors, key)
			removed++
		}
	}
	return removed
}

// RedisRateLimiter is a fixed window shared by every instance on the same
// Redis.
type RedisRateLimiter struct {
	redis  *RedisService
	limit  int
	window time.Duration
}

func NewRedisRateLimiter(redis *RedisService, perMinute int) *RedisRateLimiter {
	if perMinute <= 0 {
		perMinute = DefaultRateLimitBets
	}
	return &RedisRateLimiter{redis: redis, limit: perMinute, window: RateLimitWindow}
}

func (rl *RedisRateLimiter) Allow(ctx context.Context, userID, action string) (bool, error) {
	return rl.redis.CheckRateLimit(ctx, userID, action, rl.limit, rl.window)
}
