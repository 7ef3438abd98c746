package resilience

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSingleFlightDeduplicatesConcurrentCalls(t *testing.T) {
	t.Parallel()

	var g SingleFlight
	var calls atomic.Int32
	var shared atomic.Int32

	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			v, err, sharedResult := g.Do("key", func() (any, error) {
				calls.Add(1)
				time.Sleep(5 * time.Millisecond)
				return "value", nil
			})
			if err != nil {
				t.Errorf("Do error: %v", err)
				return
			}
			if v != "value" {
				t.Errorf("Do = %v, want value", v)
			}
			if sharedResult {
				shared.Add(1)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Fatalf("fn ran %d times, want 1", got)
	}
	if got := shared.Load(); got != 9 {
		t.Fatalf("shared results = %d, want 9", got)
	}
}

func TestSingleFlightPropagatesError(t *testing.T) {
	t.Parallel()

	var g SingleFlight
	wantErr := errors.New("boom")

	_, err, _ := g.Do("key", func() (any, error) {
		return nil, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("Do error = %v, want %v", err, wantErr)
	}
}

func TestSingleFlightDistinctKeysRunIndependently(t *testing.T) {
	t.Parallel()

	var g SingleFlight
	var calls atomic.Int32

	var wg sync.WaitGroup
	for _, key := range []string{"a", "b", "c"} {
		wg.Add(1)
		go func(k string) {
			defer wg.Done()
			_, _, _ = g.Do(k, func() (any, error) {
				calls.Add(1)
				return k, nil
			})
		}(key)
	}
	wg.Wait()

	if got := calls.Load(); got != 3 {
		t.Fatalf("fn ran %d times, want 3", got)
	}
}
