package cache

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestGetOrLoad_MissInvokesLoaderOnce(t *testing.T) {
	c := NewTyped[string, int]("test", Config{Enabled: true, TTL: time.Minute, MaxEntries: 10})

	var calls int32
	loader := func() (int, error) {
		atomic.AddInt32(&calls, 1)
		return 42, nil
	}

	v, err := c.GetOrLoad("k1", loader)
	if err != nil || v != 42 {
		t.Fatalf("unexpected result v=%d err=%v", v, err)
	}

	v, err = c.GetOrLoad("k1", loader)
	if err != nil || v != 42 {
		t.Fatalf("unexpected result on second call v=%d err=%v", v, err)
	}

	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("expected loader invoked once, got %d", calls)
	}
}

func TestGetOrLoad_ConcurrentMissesCoalesce(t *testing.T) {
	c := NewTyped[string, int]("test", Config{Enabled: true, TTL: time.Minute, MaxEntries: 10})

	var calls int32
	var wg sync.WaitGroup
	results := make([]int, 20)

	for i := 0; i < 20; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := c.GetOrLoad("shared-key", func() (int, error) {
				atomic.AddInt32(&calls, 1)
				time.Sleep(5 * time.Millisecond)
				return 7, nil
			})
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			results[i] = v
		}()
	}
	wg.Wait()

	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("expected loader invoked exactly once under concurrency, got %d", calls)
	}
	for _, r := range results {
		if r != 7 {
			t.Errorf("expected all callers to observe 7, got %d", r)
		}
	}
}

func TestGetOrLoad_DisabledBypassesStoreButStillInvokesLoader(t *testing.T) {
	c := NewTyped[string, int]("test", Config{Enabled: false})

	var calls int32
	loader := func() (int, error) {
		atomic.AddInt32(&calls, 1)
		return 1, nil
	}

	c.GetOrLoad("k", loader)
	c.GetOrLoad("k", loader)

	if atomic.LoadInt32(&calls) != 2 {
		t.Errorf("expected loader invoked on every call when disabled, got %d", calls)
	}
	if c.Len() != 0 {
		t.Errorf("expected no entries stored when disabled, got %d", c.Len())
	}
}

func TestGetOrLoad_LoaderErrorNotCached(t *testing.T) {
	c := NewTyped[string, int]("test", Config{Enabled: true, TTL: time.Minute, MaxEntries: 10})

	wantErr := errors.New("boom")
	var calls int32

	_, err := c.GetOrLoad("k", func() (int, error) {
		atomic.AddInt32(&calls, 1)
		return 0, wantErr
	})
	if err != wantErr {
		t.Fatalf("expected wantErr, got %v", err)
	}

	_, err = c.GetOrLoad("k", func() (int, error) {
		atomic.AddInt32(&calls, 1)
		return 5, nil
	})
	if err != nil {
		t.Fatalf("unexpected error on retry: %v", err)
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Errorf("expected loader called again after a failed load, got %d", calls)
	}
}

func TestPurge_RemovesMatchingKeys(t *testing.T) {
	c := NewTyped[AnalysisKey, string]("analysis", Config{Enabled: true, TTL: time.Minute, MaxEntries: 10})

	k1 := AnalysisKey{Identity: 1, Revision: 0, ClassName: "A"}
	k2 := AnalysisKey{Identity: 2, Revision: 0, ClassName: "B"}
	c.GetOrLoad(k1, func() (string, error) { return "a", nil })
	c.GetOrLoad(k2, func() (string, error) { return "b", nil })

	c.Purge(func(k AnalysisKey) bool { return k.Identity == 1 })

	if c.Len() != 1 {
		t.Errorf("expected 1 entry remaining after purge, got %d", c.Len())
	}
}
