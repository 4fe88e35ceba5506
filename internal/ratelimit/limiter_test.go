package ratelimit

import (
	"sync"
	"testing"
	"time"
)

// fakeClock lets tests move time forward deterministically.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
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

func TestLimiterAdmitsUpToCap(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	l := New(NewStore(), clock, 3, 60*time.Second)

	for i := 0; i < 3; i++ {
		allowed, retry := l.Admit("10.0.0.1")
		if !allowed || retry != 0 {
			t.Fatalf("admission %d: allowed=%v retry=%d, want allowed with retry 0", i+1, allowed, retry)
		}
	}

	allowed, retry := l.Admit("10.0.0.1")
	if allowed {
		t.Fatal("4th admission within window should be denied")
	}
	if retry < 1 {
		t.Fatalf("retry_after = %d, want >= 1", retry)
	}
}

func TestLimiterAdmitsAfterRetryWindow(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	l := New(NewStore(), clock, 2, 30*time.Second)

	l.Admit("key")
	l.Admit("key")
	allowed, retry := l.Admit("key")
	if allowed {
		t.Fatal("expected denial at cap")
	}

	clock.Advance(time.Duration(retry) * time.Second)
	if allowed, _ := l.Admit("key"); !allowed {
		t.Fatal("expected admission after waiting retry_after seconds")
	}
}

func TestLimiterSlidingWindowEviction(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	l := New(NewStore(), clock, 2, 10*time.Second)

	l.Admit("key")
	clock.Advance(6 * time.Second)
	l.Admit("key")

	// First admission ages out at +10s; at +11s one slot is free again.
	clock.Advance(5 * time.Second)
	if allowed, _ := l.Admit("key"); !allowed {
		t.Fatal("expected admission after oldest timestamp left the window")
	}
	if allowed, _ := l.Admit("key"); allowed {
		t.Fatal("window still holds two admissions, expected denial")
	}
}

func TestLimiterKeysAreIndependent(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	l := New(NewStore(), clock, 1, 60*time.Second)

	if allowed, _ := l.Admit("a"); !allowed {
		t.Fatal("first admission for key a should pass")
	}
	if allowed, _ := l.Admit("b"); !allowed {
		t.Fatal("key b should not be affected by key a")
	}
	if allowed, _ := l.Admit("a"); allowed {
		t.Fatal("key a is at cap, expected denial")
	}
}

func TestLimiterMisconfiguredAlwaysDenies(t *testing.T) {
	t.Parallel()

	l := New(NewStore(), newFakeClock(), 0, 60*time.Second)
	allowed, retry := l.Admit("key")
	if allowed {
		t.Fatal("maxRequests=0 must degrade to always-deny")
	}
	if retry < 1 {
		t.Fatalf("retry_after = %d, want >= 1", retry)
	}
}

func TestLimiterConcurrentSameKey(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	l := New(NewStore(), clock, 50, 60*time.Second)

	var wg sync.WaitGroup
	admitted := make(chan struct{}, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if allowed, _ := l.Admit("shared"); allowed {
				admitted <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(admitted)

	count := 0
	for range admitted {
		count++
	}
	if count != 50 {
		t.Fatalf("admitted %d concurrent requests, want exactly 50", count)
	}
}
