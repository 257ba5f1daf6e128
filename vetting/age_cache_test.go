package vetting

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 11, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestAgeCache_TTL(t *testing.T) {
	clock := newFakeClock()
	c := NewAgeCache(24 * time.Hour)
	c.now = clock.Now

	var calls int32
	fetch := func(context.Context) *int {
		atomic.AddInt32(&calls, 1)
		return intPtr(42)
	}

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if got := c.GetOrFetch(ctx, "example.com", fetch); got == nil || *got != 42 {
			t.Fatalf("GetOrFetch = %v, want 42", got)
		}
	}
	if calls != 1 {
		t.Fatalf("fetch calls = %d, want 1", calls)
	}

	clock.Advance(24*time.Hour - time.Second)
	c.GetOrFetch(ctx, "example.com", fetch)
	if calls != 1 {
		t.Fatalf("fetch calls before expiry = %d, want 1", calls)
	}

	clock.Advance(time.Second)
	c.GetOrFetch(ctx, "example.com", fetch)
	if calls != 2 {
		t.Fatalf("fetch calls after expiry = %d, want 2", calls)
	}
}

func TestAgeCache_NegativeResultsAreCached(t *testing.T) {
	c := NewAgeCache(time.Hour)

	var calls int32
	fetch := func(context.Context) *int {
		atomic.AddInt32(&calls, 1)
		return nil
	}

	ctx := context.Background()
	if got := c.GetOrFetch(ctx, "broken.example", fetch); got != nil {
		t.Fatalf("GetOrFetch = %v, want nil", *got)
	}
	if got := c.GetOrFetch(ctx, "broken.example", fetch); got != nil {
		t.Fatalf("GetOrFetch = %v, want nil", *got)
	}
	if calls != 1 {
		t.Fatalf("fetch calls = %d, want 1", calls)
	}
	if _, ok := c.Get("broken.example"); !ok {
		t.Fatalf("expected fresh negative entry")
	}
}

func TestAgeCache_KeysAreIndependent(t *testing.T) {
	c := NewAgeCache(time.Hour)
	ctx := context.Background()

	c.GetOrFetch(ctx, "a.example", func(context.Context) *int { return intPtr(1) })
	got := c.GetOrFetch(ctx, "b.example", func(context.Context) *int { return intPtr(2) })
	if got == nil || *got != 2 {
		t.Fatalf("GetOrFetch(b) = %v, want 2", got)
	}
	if c.Len() != 2 {
		t.Fatalf("Len = %d, want 2", c.Len())
	}
}

func TestAgeCache_CanceledCallerDoesNotAbortFetch(t *testing.T) {
	c := NewAgeCache(time.Hour)

	release := make(chan struct{})
	started := make(chan struct{})
	fetch := func(ctx context.Context) *int {
		close(started)
		<-release
		if ctx.Err() != nil {
			return nil
		}
		return intPtr(7)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan *int, 1)
	go func() { done <- c.GetOrFetch(ctx, "slow.example", fetch) }()

	<-started
	cancel()

	select {
	case got := <-done:
		if got != nil {
			t.Fatalf("canceled caller got %d, want nil", *got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("canceled caller did not return")
	}

	close(release)

	deadline := time.Now().Add(2 * time.Second)
	for {
		if v, ok := c.Get("slow.example"); ok {
			if v == nil || *v != 7 {
				t.Fatalf("cached value = %v, want 7", v)
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("fetch result was never cached")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestAgeCache_ConcurrentAccess(t *testing.T) {
	c := NewAgeCache(time.Hour)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				got := c.GetOrFetch(ctx, "example.com", func(context.Context) *int { return intPtr(9) })
				if got == nil || *got != 9 {
					t.Errorf("GetOrFetch = %v, want 9", got)
					return
				}
			}
		}()
	}
	wg.Wait()
}
