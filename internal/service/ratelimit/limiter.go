package ratelimit

import (
	"context"
	"sync"
	"time"
)

const (
	defaultSpan   = time.Second
	defaultMargin = 100 * time.Millisecond
)

// Limiter bounds outbound requests to at most max per trailing span.
// Acquire blocks the caller until a slot is available, so the limit cannot
// be bypassed. Safe for concurrent use.
type Limiter struct {
	mu     sync.Mutex
	window []time.Time
	max    int
	span   time.Duration
	margin time.Duration

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a limiter allowing requestsPerSecond requests in any trailing
// one-second window.
func New(requestsPerSecond int) *Limiter {
	if requestsPerSecond < 1 {
		requestsPerSecond = 1
	}
	return &Limiter{
		window: make([]time.Time, 0, 2*requestsPerSecond),
		max:    requestsPerSecond,
		span:   defaultSpan,
		margin: defaultMargin,
		now:    time.Now,
		sleep:  sleepCtx,
	}
}

// Acquire blocks until issuing one more request stays within the limit, then
// records the request timestamp. Returns early only on context cancellation.
func (l *Limiter) Acquire(ctx context.Context) error {
	for {
		l.mu.Lock()
		now := l.now()
		for len(l.window) >= l.max && now.Sub(l.window[0]) >= l.span {
			l.window = l.window[1:]
		}
		if len(l.window) < l.max {
			l.window = append(l.window, now)
			l.mu.Unlock()
			return nil
		}
		// Oldest entry is still inside the window: wait out its remainder
		// plus a small safety margin, then re-check.
		wait := l.span - now.Sub(l.window[0]) + l.margin
		l.mu.Unlock()

		if err := l.sleep(ctx, wait); err != nil {
			return err
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
