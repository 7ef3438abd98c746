package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func newTestStore(ttl time.Duration) (*Store, *time.Time) {
	s := NewStore(ttl)
	now := time.Date(2026, time.January, 10, 12, 0, 0, 0, time.UTC)
	clock := &now
	s.now = func() time.Time { return *clock }
	return s, clock
}

func TestStoreGetFreshAndStale(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, clock := newTestStore(30 * time.Minute)

	s.Set(ctx, "roster:2025", "snapshot-a")

	if v, ok := s.Get(ctx, "roster:2025"); !ok || v != "snapshot-a" {
		t.Fatalf("Get fresh = (%v, %v), want (snapshot-a, true)", v, ok)
	}

	*clock = clock.Add(31 * time.Minute)

	if _, ok := s.Get(ctx, "roster:2025"); ok {
		t.Fatal("Get after TTL should report a miss")
	}

	v, fresh, ok := s.GetStale(ctx, "roster:2025")
	if !ok || fresh {
		t.Fatalf("GetStale = (fresh=%v, ok=%v), want stale entry present", fresh, ok)
	}
	if v != "snapshot-a" {
		t.Fatalf("GetStale value = %v, want snapshot-a", v)
	}
}

func TestStoreSetOverwritesWholesale(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, clock := newTestStore(30 * time.Minute)

	s.Set(ctx, "k", "old")
	*clock = clock.Add(time.Hour)
	s.Set(ctx, "k", "new")

	v, ok := s.Get(ctx, "k")
	if !ok || v != "new" {
		t.Fatalf("Get after overwrite = (%v, %v), want (new, true)", v, ok)
	}
}

func TestStoreZeroTTLNeverExpires(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, clock := newTestStore(0)

	s.Set(ctx, "k", 42)
	*clock = clock.Add(240 * time.Hour)

	if v, ok := s.Get(ctx, "k"); !ok || v != 42 {
		t.Fatalf("Get with zero TTL = (%v, %v), want (42, true)", v, ok)
	}
}

func TestStoreDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, _ := newTestStore(time.Minute)

	s.Set(ctx, "roster:2025", "a")
	s.Set(ctx, "roster:2024", "b")
	s.Set(ctx, "other", "c")

	s.Delete(ctx, "roster:2025")
	if _, _, ok := s.GetStale(ctx, "roster:2025"); ok {
		t.Fatal("Delete should remove the entry entirely")
	}

	s.DeletePrefix(ctx, "roster:")
	if _, _, ok := s.GetStale(ctx, "roster:2024"); ok {
		t.Fatal("DeletePrefix should remove matching entries")
	}
	if _, ok := s.Get(ctx, "other"); !ok {
		t.Fatal("DeletePrefix removed a non-matching entry")
	}
}

func TestStoreGetOrLoadSingleFlight(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, _ := newTestStore(time.Minute)

	var loads atomic.Int32
	start := make(chan struct{})
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			v, err := s.GetOrLoad(ctx, "k", func(context.Context) (any, error) {
				loads.Add(1)
				time.Sleep(5 * time.Millisecond)
				return "loaded", nil
			})
			if err != nil {
				t.Errorf("GetOrLoad error: %v", err)
				return
			}
			if v != "loaded" {
				t.Errorf("GetOrLoad = %v, want loaded", v)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := loads.Load(); got != 1 {
		t.Fatalf("loader ran %d times, want 1", got)
	}
}

func TestStoreGetOrLoadErrorLeavesPriorEntry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, clock := newTestStore(time.Minute)

	s.Set(ctx, "k", "prior")
	*clock = clock.Add(2 * time.Minute)

	wantErr := errors.New("upstream down")
	if _, err := s.GetOrLoad(ctx, "k", func(context.Context) (any, error) {
		return nil, wantErr
	}); !errors.Is(err, wantErr) {
		t.Fatalf("GetOrLoad error = %v, want %v", err, wantErr)
	}

	v, fresh, ok := s.GetStale(ctx, "k")
	if !ok || fresh || v != "prior" {
		t.Fatalf("stale entry after failed load = (%v, fresh=%v, ok=%v), want prior retained", v, fresh, ok)
	}
}
