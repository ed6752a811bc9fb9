package cache

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestGetOrCompute(t *testing.T) {
	c := New(16, time.Hour)

	calls := 0
	produce := func() (any, error) {
		calls++
		return "value", nil
	}

	v, err := c.GetOrCompute("k", time.Minute, produce)
	if err != nil || v != "value" {
		t.Fatalf("first call = %v, %v", v, err)
	}
	v, err = c.GetOrCompute("k", time.Minute, produce)
	if err != nil || v != "value" {
		t.Fatalf("second call = %v, %v", v, err)
	}
	if calls != 1 {
		t.Errorf("produce ran %d times, want 1", calls)
	}
}

func TestExpiry(t *testing.T) {
	c := New(16, time.Hour)

	calls := 0
	produce := func() (any, error) {
		calls++
		return calls, nil
	}

	if _, err := c.GetOrCompute("k", 10*time.Millisecond, produce); err != nil {
		t.Fatal(err)
	}
	time.Sleep(20 * time.Millisecond)
	v, err := c.GetOrCompute("k", time.Minute, produce)
	if err != nil {
		t.Fatal(err)
	}
	if v != 2 {
		t.Errorf("expired entry not recomputed, got %v", v)
	}
}

func TestErrorsNotCached(t *testing.T) {
	c := New(16, time.Hour)

	calls := 0
	if _, err := c.GetOrCompute("k", time.Minute, func() (any, error) {
		calls++
		return nil, errors.New("boom")
	}); err == nil {
		t.Fatal("expected error")
	}

	v, err := c.GetOrCompute("k", time.Minute, func() (any, error) {
		calls++
		return "ok", nil
	})
	if err != nil || v != "ok" {
		t.Fatalf("retry after error = %v, %v", v, err)
	}
	if calls != 2 {
		t.Errorf("produce ran %d times, want 2", calls)
	}
}

func TestRemove(t *testing.T) {
	c := New(16, time.Hour)

	calls := 0
	produce := func() (any, error) {
		calls++
		return calls, nil
	}

	c.GetOrCompute("k", time.Minute, produce)
	c.Remove("k")
	v, _ := c.GetOrCompute("k", time.Minute, produce)
	if v != 2 {
		t.Errorf("removed entry not recomputed, got %v", v)
	}
}

func TestConcurrentSingleFlight(t *testing.T) {
	c := New(16, time.Hour)

	var calls atomic.Int64
	var wg sync.WaitGroup
	start := make(chan struct{})

	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			v, err := c.GetOrCompute("k", time.Minute, func() (any, error) {
				calls.Add(1)
				time.Sleep(5 * time.Millisecond)
				return "shared", nil
			})
			if err != nil || v != "shared" {
				t.Errorf("concurrent get = %v, %v", v, err)
			}
		}()
	}
	close(start)
	wg.Wait()

	if n := calls.Load(); n != 1 {
		t.Errorf("produce ran %d times under contention, want 1", n)
	}
}

func TestStats(t *testing.T) {
	c := New(16, time.Hour)

	c.GetOrCompute("k", time.Minute, func() (any, error) { return 1, nil })
	c.GetOrCompute("k", time.Minute, func() (any, error) { return 2, nil })

	st := c.Stats()
	if st.Hits != 1 || st.Misses != 1 || st.Entries != 1 {
		t.Errorf("stats = %+v, want 1 hit, 1 miss, 1 entry", st)
	}
}
