package api

import (
	"sync"
	"time"
)

// Limiter decides whether a client may make another request. Implementations
// must be safe for concurrent use.
type Limiter interface {
	Allow(clientID string, now time.Time) bool
}

// SlidingWindow is an in-memory sliding-window limiter keyed by client
// identifier: a client may make at most limit requests per window. This is
// the only cross-request state in the service and is isolated here to keep
// the extraction engine stateless.
type SlidingWindow struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	history map[string][]time.Time
}

func NewSlidingWindow(limit int, window time.Duration) *SlidingWindow {
	if limit <= 0 {
		limit = 10
	}
	if window <= 0 {
		window = time.Minute
	}
	return &SlidingWindow{
		limit:   limit,
		window:  window,
		history: make(map[string][]time.Time),
	}
}

func (l *SlidingWindow) Allow(clientID string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Drop expired entries for every client so the map cannot grow without
	// bound on churning client IDs.
	for id, ts := range l.history {
		kept := ts[:0]
		for _, t := range ts {
			if now.Sub(t) < l.window {
				kept = append(kept, t)
			}
		}
		if len(kept) == 0 {
			delete(l.history, id)
		} else {
			l.history[id] = kept
		}
	}

	if len(l.history[clientID]) >= l.limit {
		return false
	}
	l.history[clientID] = append(l.history[clientID], now)
	return true
}
