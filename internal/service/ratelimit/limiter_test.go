package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock lets tests drive the limiter deterministically: sleeps advance
// the clock instead of blocking.
type fakeClock struct {
	mu  sync.Mutex
	t   time.Time
	nap []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) sleep(_ context.Context, d time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
	c.nap = append(c.nap, d)
	return nil
}

func newTestLimiter(n int, c *fakeClock) *Limiter {
	l := New(n)
	l.now = c.now
	l.sleep = c.sleep
	return l
}

func TestAcquireNeverExceedsWindow(t *testing.T) {
	clock := newFakeClock()
	l := newTestLimiter(2, clock)

	var stamps []time.Time
	for i := 0; i < 20; i++ {
		require.NoError(t, l.Acquire(context.Background()))
		stamps = append(stamps, clock.now())
	}

	// No trailing one-second window may hold more than N timestamps.
	for i := range stamps {
		inWindow := 0
		for j := 0; j <= i; j++ {
			if stamps[i].Sub(stamps[j]) < time.Second {
				inWindow++
			}
		}
		assert.LessOrEqual(t, inWindow, 2, "window ending at acquire %d", i)
	}
}

func TestAcquireBurstWithinLimitDoesNotSleep(t *testing.T) {
	clock := newFakeClock()
	l := newTestLimiter(3, clock)

	for i := 0; i < 3; i++ {
		require.NoError(t, l.Acquire(context.Background()))
	}
	assert.Empty(t, clock.nap)
}

func TestAcquireWaitsRemainderPlusMargin(t *testing.T) {
	clock := newFakeClock()
	l := newTestLimiter(1, clock)

	require.NoError(t, l.Acquire(context.Background()))
	require.NoError(t, l.Acquire(context.Background()))

	require.Len(t, clock.nap, 1)
	assert.Equal(t, time.Second+100*time.Millisecond, clock.nap[0])
}

func TestAcquireCancellation(t *testing.T) {
	l := New(1)
	require.NoError(t, l.Acquire(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, l.Acquire(ctx), context.Canceled)
}

func TestAcquireConcurrent(t *testing.T) {
	l := New(2)
	l.margin = time.Millisecond // keep the test quick

	var mu sync.Mutex
	var stamps []time.Time
	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, l.Acquire(context.Background()))
			mu.Lock()
			stamps = append(stamps, time.Now())
			mu.Unlock()
		}()
	}
	wg.Wait()

	require.Len(t, stamps, 6)
	for i := range stamps {
		inWindow := 0
		for j := range stamps {
			d := stamps[i].Sub(stamps[j])
			if d >= 0 && d < time.Second {
				inWindow++
			}
		}
		// Allow one extra for scheduling jitter between Acquire returning
		// and the timestamp being taken.
		assert.LessOrEqual(t, inWindow, 3)
	}
}
