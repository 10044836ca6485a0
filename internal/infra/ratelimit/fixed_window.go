package ratelimit

import (
	"sync"
	"time"
)

// FixedWindow counts requests per key inside discrete windows of fixed length.
// State is process-local; every instance of the service has its own quota.
type FixedWindow struct {
	mu      sync.Mutex
	windows map[string]*window
	limit   int
	length  time.Duration
	now     func() time.Time
}

type window struct {
	count     int
	expiresAt time.Time
}

type Option func(*FixedWindow)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(fw *FixedWindow) { fw.now = now }
}

func NewFixedWindow(limit int, length time.Duration, opts ...Option) *FixedWindow {
	fw := &FixedWindow{
		windows: make(map[string]*window),
		limit:   limit,
		length:  length,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(fw)
	}
	return fw
}

// Allow records one request for key and reports whether it fits in the current window.
func (fw *FixedWindow) Allow(key string) bool {
	now := fw.now()

	fw.mu.Lock()
	defer fw.mu.Unlock()

	w, ok := fw.windows[key]
	if !ok || now.After(w.expiresAt) {
		fw.windows[key] = &window{count: 1, expiresAt: now.Add(fw.length)}
		return true
	}

	w.count++
	return w.count <= fw.limit
}

// Sweep deletes every window that has already expired and returns how many went away.
func (fw *FixedWindow) Sweep() int {
	now := fw.now()

	fw.mu.Lock()
	defer fw.mu.Unlock()

	removed := 0
	for key, w := range fw.windows {
		if now.After(w.expiresAt) {
			delete(fw.windows, key)
			removed++
		}
	}
	return removed
}

func (fw *FixedWindow) Len() int {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	return len(fw.windows)
}
