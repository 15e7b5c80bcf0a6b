package ratelimit

import (
	"context"
	"sync"
	"time"
)

// sweepThreshold bounds how many idle windows accumulate before a sweep
const sweepThreshold = 4096

type window struct {
	start time.Time
	count int
}

// MemoryLimiter is a fixed-window counter local to one process
type MemoryLimiter struct {
	mu      sync.Mutex
	limit   int
	size    time.Duration
	now     func() time.Time
	windows map[string]*window
}

func NewMemoryLimiter(limit int, size time.Duration, now func() time.Time) *MemoryLimiter {
	if now == nil {
		now = time.Now
	}
	return &MemoryLimiter{
		limit:   limit,
		size:    size,
		now:     now,
		windows: make(map[string]*window),
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[id]
	if !ok || now.Sub(w.start) >= l.size {
		if !ok && len(l.windows) >= sweepThreshold {
			l.sweep(now)
		}
		w = &window{start: now}
		l.windows[id] = w
	}
	w.count++
	return w.count <= l.limit
}

// sweep drops expired windows. Callers hold mu.
func (l *MemoryLimiter) sweep(now time.Time) {
	for id, w := range l.windows {
		if now.Sub(w.start) >= l.size {
			delete(l.windows, id)
		}
	}
}
