package ratelimit

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestFixedWindowAllowsUpToLimit(t *testing.T) {
	clock := newFakeClock()
	fw := NewFixedWindow(10, time.Minute, WithClock(clock.Now))

	for i := 1; i <= 10; i++ {
		assert.True(t, fw.Allow("1.1.1.1"), "request %d should pass", i)
	}
	assert.False(t, fw.Allow("1.1.1.1"), "11th request in the window must be dropped")
	assert.False(t, fw.Allow("1.1.1.1"), "stays dropped for the rest of the window")
}

func TestFixedWindowKeysAreIndependent(t *testing.T) {
	clock := newFakeClock()
	fw := NewFixedWindow(1, time.Minute, WithClock(clock.Now))

	assert.True(t, fw.Allow("a"))
	assert.False(t, fw.Allow("a"))
	assert.True(t, fw.Allow("b"))
}

func TestFixedWindowResetsAfterExpiry(t *testing.T) {
	clock := newFakeClock()
	fw := NewFixedWindow(10, time.Minute, WithClock(clock.Now))

	for i := 0; i < 11; i++ {
		fw.Allow("1.1.1.1")
	}
	assert.False(t, fw.Allow("1.1.1.1"))

	clock.Advance(61 * time.Second)
	for i := 1; i <= 10; i++ {
		assert.True(t, fw.Allow("1.1.1.1"), "request %d of the new window should pass", i)
	}
	assert.False(t, fw.Allow("1.1.1.1"))
}

func TestFixedWindowStillBlockedAtExactExpiry(t *testing.T) {
	clock := newFakeClock()
	fw := NewFixedWindow(1, time.Minute, WithClock(clock.Now))

	assert.True(t, fw.Allow("k"))
	clock.Advance(time.Minute)
	assert.False(t, fw.Allow("k"), "window ends strictly after expiry")
	clock.Advance(time.Millisecond)
	assert.True(t, fw.Allow("k"))
}

func TestFixedWindowSweepRemovesOnlyExpired(t *testing.T) {
	clock := newFakeClock()
	fw := NewFixedWindow(10, time.Minute, WithClock(clock.Now))

	fw.Allow("old")
	clock.Advance(45 * time.Second)
	fw.Allow("fresh")
	clock.Advance(30 * time.Second)

	assert.Equal(t, 1, fw.Sweep())
	assert.Equal(t, 1, fw.Len())

	clock.Advance(time.Minute)
	assert.Equal(t, 1, fw.Sweep())
	assert.Equal(t, 0, fw.Len())
}

func TestFixedWindowConcurrentRequestsDoNotUndercount(t *testing.T) {
	fw := NewFixedWindow(10, time.Hour)

	var allowed atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if fw.Allow("same-ip") {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(10), allowed.Load())
}

func TestFixedWindowSweepRacesWithAllow(t *testing.T) {
	clock := newFakeClock()
	fw := NewFixedWindow(5, time.Second, WithClock(clock.Now))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			fw.Allow(fmt.Sprintf("10.0.0.%d", i%5))
		}(i)
		go func() {
			defer wg.Done()
			fw.Sweep()
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, fw.Len(), 5)
}
