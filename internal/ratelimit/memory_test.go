package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreAllowsBurstUpToMax(t *testing.T) {
	store := NewMemoryStore(time.Minute, 5)
	now := time.Now()

	for i := 0; i < 5; i++ {
		require.True(t, store.Allow(context.Background(), "1.2.3.4", now), "request %d should be admitted", i+1)
	}
	assert.False(t, store.Allow(context.Background(), "1.2.3.4", now), "request past the max must be rejected")
}

func TestMemoryStoreDeniedAttemptNotCounted(t *testing.T) {
	store := NewMemoryStore(time.Minute, 2)
	t0 := time.Now()

	require.True(t, store.Allow(context.Background(), "ip", t0))
	require.True(t, store.Allow(context.Background(), "ip", t0.Add(10*time.Second)))
	require.False(t, store.Allow(context.Background(), "ip", t0.Add(20*time.Second)))

	// t0 has left the window; only the 10s timestamp remains. If the
	// denied attempt above had been recorded this would still be full.
	assert.True(t, store.Allow(context.Background(), "ip", t0.Add(61*time.Second)))
}

func TestMemoryStoreWindowSlides(t *testing.T) {
	store := NewMemoryStore(time.Minute, 3)
	t0 := time.Now()

	for i := 0; i < 3; i++ {
		require.True(t, store.Allow(context.Background(), "ip", t0))
	}
	require.False(t, store.Allow(context.Background(), "ip", t0.Add(59*time.Second)))
	assert.True(t, store.Allow(context.Background(), "ip", t0.Add(61*time.Second)))
}

func TestMemoryStoreHalfOpenBoundary(t *testing.T) {
	store := NewMemoryStore(time.Minute, 1)
	t0 := time.Now()

	require.True(t, store.Allow(context.Background(), "ip", t0))
	// a timestamp exactly window old is already outside the window
	assert.True(t, store.Allow(context.Background(), "ip", t0.Add(time.Minute)))
}

func TestMemoryStoreIdentitiesIndependent(t *testing.T) {
	store := NewMemoryStore(time.Minute, 1)
	now := time.Now()

	require.True(t, store.Allow(context.Background(), "a", now))
	require.False(t, store.Allow(context.Background(), "a", now))
	assert.True(t, store.Allow(context.Background(), "b", now))
}

func TestMemoryStoreConcurrentAdmitsAtMostMax(t *testing.T) {
	store := NewMemoryStore(time.Minute, 5)
	now := time.Now()

	var wg sync.WaitGroup
	var mu sync.Mutex
	admitted := 0

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if store.Allow(context.Background(), "ip", now) {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, admitted, "check-and-record must be atomic per identity")
}

func TestMemoryStoreCleanupDropsIdleBuckets(t *testing.T) {
	store := NewMemoryStore(10*time.Millisecond, 5)

	require.True(t, store.Allow(context.Background(), "ip", time.Now()))
	require.Equal(t, 1, store.Len())

	time.Sleep(20 * time.Millisecond)
	store.Cleanup()
	assert.Equal(t, 0, store.Len())
}
