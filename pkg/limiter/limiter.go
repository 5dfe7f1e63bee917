package limiter

import (
	"context"
	"sync"
	"time"
)

// DurationLimiter represents something that will wait until the ratelimit
// has cleared.
type DurationLimiter struct {
	mu sync.Mutex

	limit    int32
	duration time.Duration

	resetsAt  time.Time
	available int32
}

// NewDurationLimiter creates a DurationLimiter. This is useful for allowing
// a specific operation to run only X amount of times in a duration of Y.
func NewDurationLimiter(limit int32, duration time.Duration) *DurationLimiter {
	return &DurationLimiter{
		limit:    limit,
		duration: duration,
	}
}

// Lock waits until there is an available slot in the limiter or ctx is done.
func (l *DurationLimiter) Lock(ctx context.Context) error {
	for {
		wait, ok := l.take(time.Now())
		if ok {
			return nil
		}

		timer := time.NewTimer(wait)

		select {
		case <-ctx.Done():
			timer.Stop()

			return ctx.Err()
		case <-timer.C:
		}
	}
}

// take claims a slot if one is free, otherwise it returns how long until the window resets.
func (l *DurationLimiter) take(now time.Time) (time.Duration, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	// If we have surpassed resetsAt, open a new window.
	if !now.Before(l.resetsAt) {
		l.resetsAt = now.Add(l.duration)
		l.available = l.limit
	}

	if l.available <= 0 {
		return l.resetsAt.Sub(now), false
	}

	l.available--

	return 0, true
}

// Available returns how many slots are left in the current window.
func (l *DurationLimiter) Available() int32 {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !time.Now().Before(l.resetsAt) {
		return l.limit
	}

	return l.available
}

// Reset starts a fresh window with every slot available.
func (l *DurationLimiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.resetsAt = time.Now().Add(l.duration)
	l.available = l.limit
}
