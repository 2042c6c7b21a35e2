package httpcache

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTestCache(t *testing.T, ttl time.Duration) *Cache {
	t.Helper()
	cache, err := Open(filepath.Join(t.TempDir(), "cache.db"), ttl)
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	t.Cleanup(func() { cache.Close() })
	return cache
}

func TestGetOrFetchCachesWithinTTL(t *testing.T) {
	cache := openTestCache(t, time.Hour)

	calls := 0
	fetch := func() ([]byte, error) {
		calls++
		return []byte(`{"ok":true}`), nil
	}

	first, err := cache.GetOrFetch("GET https://example.test/a", fetch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := cache.GetOrFetch("GET https://example.test/a", fetch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if calls != 1 {
		t.Errorf("expected 1 fetch, got %d", calls)
	}
	if string(first) != string(second) {
		t.Errorf("cached body mismatch: %q vs %q", first, second)
	}
}

func TestGetOrFetchDistinctKeys(t *testing.T) {
	cache := openTestCache(t, time.Hour)

	calls := 0
	fetch := func() ([]byte, error) {
		calls++
		return []byte("body"), nil
	}

	cache.GetOrFetch("GET https://example.test/a", fetch)
	cache.GetOrFetch("GET https://example.test/b", fetch)

	if calls != 2 {
		t.Errorf("distinct keys must fetch independently, got %d calls", calls)
	}
}

func TestGetOrFetchExpiry(t *testing.T) {
	// A nanosecond TTL is expired by the time the second call reads it.
	cache := openTestCache(t, time.Nanosecond)

	calls := 0
	fetch := func() ([]byte, error) {
		calls++
		return []byte("body"), nil
	}

	cache.GetOrFetch("GET https://example.test/a", fetch)
	time.Sleep(10 * time.Millisecond)
	cache.GetOrFetch("GET https://example.test/a", fetch)

	if calls != 2 {
		t.Errorf("expired entry must refetch, got %d calls", calls)
	}
}

func TestDisabledCacheAlwaysFetches(t *testing.T) {
	cache := Disabled()

	calls := 0
	fetch := func() ([]byte, error) {
		calls++
		return []byte("body"), nil
	}

	cache.GetOrFetch("GET https://example.test/a", fetch)
	cache.GetOrFetch("GET https://example.test/a", fetch)

	if calls != 2 {
		t.Errorf("disabled cache must always fetch, got %d calls", calls)
	}
}

func TestFetchFailureNotStored(t *testing.T) {
	cache := openTestCache(t, time.Hour)

	boom := errors.New("upstream down")
	if _, err := cache.GetOrFetch("GET https://example.test/a", func() ([]byte, error) {
		return nil, boom
	}); !errors.Is(err, boom) {
		t.Fatalf("fetch failure must propagate unchanged, got %v", err)
	}

	// The failure must not poison the key: the next call fetches again
	// and a success is stored normally.
	calls := 0
	fetch := func() ([]byte, error) {
		calls++
		return []byte("recovered"), nil
	}
	body, err := cache.GetOrFetch("GET https://example.test/a", fetch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(body) != "recovered" {
		t.Errorf("unexpected body %q", body)
	}
	cache.GetOrFetch("GET https://example.test/a", fetch)
	if calls != 1 {
		t.Errorf("recovery fetch must be cached, got %d calls", calls)
	}
}

func TestStaleSuccessPreferredOverFreshFailure(t *testing.T) {
	cache := openTestCache(t, time.Hour)

	cache.GetOrFetch("GET https://example.test/a", func() ([]byte, error) {
		return []byte("good"), nil
	})

	// While the entry is fresh the fetch function must never run, so an
	// upstream outage is invisible.
	body, err := cache.GetOrFetch("GET https://example.test/a", func() ([]byte, error) {
		return nil, errors.New("outage")
	})
	if err != nil {
		t.Fatalf("cache hit must not reach the network: %v", err)
	}
	if string(body) != "good" {
		t.Errorf("unexpected body %q", body)
	}
}

func TestClear(t *testing.T) {
	cache := openTestCache(t, time.Hour)

	calls := 0
	fetch := func() ([]byte, error) {
		calls++
		return []byte("body"), nil
	}

	cache.GetOrFetch("GET https://example.test/a", fetch)
	if err := cache.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	cache.GetOrFetch("GET https://example.test/a", fetch)

	if calls != 2 {
		t.Errorf("cleared cache must refetch, got %d calls", calls)
	}
}
