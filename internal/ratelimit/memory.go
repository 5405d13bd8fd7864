package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is a strict count-in-window limiter: per identity it keeps
// the timestamps of admitted requests inside the sliding window. Not a
// token bucket — a burst of exactly Max is admitted, the next attempt
// inside the window is not. State is per process instance; under
// horizontal scaling the effective limit is Max per window per replica.
type MemoryStore struct {
	mu           sync.Mutex
	buckets      map[string][]time.Time
	window       time.Duration
	max          int
	cleanupEvery time.Duration
}

type MemoryOption func(*MemoryStore)

func WithCleanupEvery(d time.Duration) MemoryOption {
	return func(s *MemoryStore) { s.cleanupEvery = d }
}

func NewMemoryStore(window time.Duration, max int, opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		buckets:      make(map[string][]time.Time),
		window:       window,
		max:          max,
		cleanupEvery: 2 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Allow implements Store. The window is half-open: a timestamp exactly
// window old is already outside it.
func (s *MemoryStore) Allow(_ context.Context, identity string, now time.Time) bool {
	cutoff := now.Add(-s.window)

	s.mu.Lock()
	defer s.mu.Unlock()

	bucket := s.buckets[identity]
	recent := bucket[:0]
	for _, ts := range bucket {
		if ts.After(cutoff) {
			recent = append(recent, ts)
		}
	}

	if len(recent) >= s.max {
		// the denied attempt itself is not counted
		s.buckets[identity] = recent
		return false
	}

	recent = append(recent, now)
	s.buckets[identity] = recent
	return true
}

// Cleanup drops identities whose every timestamp has left the window.
func (s *MemoryStore) Cleanup() {
	cutoff := time.Now().Add(-s.window)

	s.mu.Lock()
	defer s.mu.Unlock()

	for identity, bucket := range s.buckets {
		stale := true
		for _, ts := range bucket {
			if ts.After(cutoff) {
				stale = false
				break
			}
		}
		if stale {
			delete(s.buckets, identity)
		}
	}
}

// StartJanitor sweeps idle buckets until ctx is cancelled.
func (s *MemoryStore) StartJanitor(ctx context.Context) {
	if s.cleanupEvery <= 0 {
		return
	}

	t := time.NewTicker(s.cleanupEvery)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s.Cleanup()
			}
		}
	}()
}

// Len reports how many identities currently hold a bucket.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buckets)
}
