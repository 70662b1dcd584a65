package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limit allows PerMinute events per minute with bursts of up to Burst.
type Limit struct {
	PerMinute int
	Burst     int
}

func (l Limit) limiter() *rate.Limiter {
	if l.PerMinute <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	burst := l.Burst
	if burst <= 0 {
		burst = l.PerMinute
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(l.PerMinute)), burst)
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client and action.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limits   map[string]Limit
	fallback Limit
	idle     time.Duration
	now      func() time.Time
}

func NewRateLimiter(fallback Limit) *RateLimiter {
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		limits:   make(map[string]Limit),
		fallback: fallback,
		idle:     time.Hour,
		now:      time.Now,
	}
}

// SetLimit overrides the fallback limit for one action.
func (rl *RateLimiter) SetLimit(action string, limit Limit) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.limits[action] = limit
}

// Allow consumes a token for client and action. When none is available it
// returns false and how long until the next one.
func (rl *RateLimiter) Allow(client, action string) (bool, time.Duration) {
	key := client + ":" + action
	now := rl.now()

	rl.mu.Lock()
	v, ok := rl.visitors[key]
	if !ok {
		limit, found := rl.limits[action]
		if !found {
			limit = rl.fallback
		}
		v = &visitor{limiter: limit.limiter()}
		rl.visitors[key] = v
	}
	v.lastSeen = now
	rl.mu.Unlock()

	r := v.limiter.ReserveN(now, 1)
	if !r.OK() {
		return false, time.Minute
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// Cleanup forgets clients idle for longer than an hour and returns how many were dropped.
func (rl *RateLimiter) Cleanup() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	dropped := 0
	for key, v := range rl.visitors {
		if now.Sub(v.lastSeen) > rl.idle {
			delete(rl.visitors, key)
			dropped++
		}
	}
	return dropped
}

// Run cleans up periodically until ctx is done.
func (rl *RateLimiter) Run(ctx context.Context) error {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.Cleanup()
		case <-ctx.Done():
			return nil
		}
	}
}
