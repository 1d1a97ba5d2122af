package memory

import (
	"context"
	"sync"
	"time"
)

// RateLimiter is a sliding-window per-user counter. The window scan and the
// attempt record happen under one lock, so concurrent callers for the same
// user cannot both pass a "count < limit" check before either records.
type RateLimiter struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
	limit    int
	window   time.Duration
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		attempts: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
	}
}

func (rl *RateLimiter) Allow(_ context.Context, userID string, now time.Time) (bool, error) {
	if rl.limit <= 0 {
		return true, nil
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	windowStart := now.Add(-rl.window)
	kept := rl.attempts[userID][:0]
	for _, at := range rl.attempts[userID] {
		if at.After(windowStart) {
			kept = append(kept, at)
		}
	}

	if len(kept) >= rl.limit {
		rl.attempts[userID] = kept
		return false, nil
	}
	rl.attempts[userID] = append(kept, now)
	return true, nil
}
