// Package ratelimit implements per-key sliding-window admission control.
package ratelimit

import (
	"math"
	"sync"
	"time"

	"github.com/landalytics/pageaudit/internal/audit"
)

// Store owns the key -> ordered admission timestamps table. It is injected
// into the Limiter rather than living as a package global so tests and
// future multi-limiter setups get isolated state.
type Store struct {
	mu      sync.Mutex
	entries map[string][]time.Time
}

// NewStore creates an empty admission store.
func NewStore() *Store {
	return &Store{entries: make(map[string][]time.Time)}
}

// admit evicts timestamps older than the window for key, then either records
// now and admits, or denies and returns the oldest surviving timestamp.
// Eviction is lazy: it happens only on admission checks for that key, so the
// number of distinct keys grows for process lifetime (accepted risk).
func (s *Store) admit(key string, now time.Time, window time.Duration, maxRequests int) (bool, time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := now.Add(-window)
	kept := s.entries[key][:0]
	for _, ts := range s.entries[key] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	s.entries[key] = kept

	if len(kept) >= maxRequests {
		return false, kept[0]
	}
	s.entries[key] = append(kept, now)
	return true, time.Time{}
}

// Limiter performs sliding-window admission per key (typically client IP).
type Limiter struct {
	store       *Store
	clock       audit.Clock
	maxRequests int
	window      time.Duration
}

// New builds a Limiter over the given store. A maxRequests <= 0 degrades to
// always-deny rather than erroring.
func New(store *Store, clock audit.Clock, maxRequests int, window time.Duration) *Limiter {
	return &Limiter{
		store:       store,
		clock:       clock,
		maxRequests: maxRequests,
		window:      window,
	}
}

// Admit reports whether a request for key may proceed. When denied, the
// second return value is the number of whole seconds until the oldest
// surviving admission leaves the window, floored at 1 so a Retry-After
// header is always actionable.
func (l *Limiter) Admit(key string) (bool, int) {
	now := l.clock.Now()
	if l.maxRequests <= 0 {
		return false, l.retryFloor(int(math.Ceil(l.window.Seconds())))
	}
	allowed, oldest := l.store.admit(key, now, l.window, l.maxRequests)
	if allowed {
		return true, 0
	}
	retry := int(math.Ceil(oldest.Add(l.window).Sub(now).Seconds()))
	return false, l.retryFloor(retry)
}

func (l *Limiter) retryFloor(retry int) int {
	if retry < 1 {
		return 1
	}
	return retry
}
