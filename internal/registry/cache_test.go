package registry

import (
	"sync"
	"testing"
	"time"
)

func TestCacheExpiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewCache[string](time.Minute)
	c.now = func() time.Time { return now }

	c.Set("index.json", "v1")
	if got, ok := c.Get("index.json"); !ok || got != "v1" {
		t.Fatalf("Get() = %q, %v, want v1, true", got, ok)
	}

	now = now.Add(59 * time.Second)
	if _, ok := c.Get("index.json"); !ok {
		t.Error("entry should still be valid before the TTL")
	}

	now = now.Add(time.Second)
	if _, ok := c.Get("index.json"); ok {
		t.Error("entry should expire at the TTL")
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want expired entry dropped", c.Len())
	}
}

func TestCacheMiss(t *testing.T) {
	c := NewCache[[]byte](time.Minute)
	if got, ok := c.Get("missing"); ok || got != nil {
		t.Errorf("Get() = %v, %v, want nil, false", got, ok)
	}
}

func TestCacheConcurrentSet(t *testing.T) {
	c := NewCache[int](time.Minute)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Set(string(rune('a'+i%26)), i)
		}()
	}
	wg.Wait()

	if c.Len() != 26 {
		t.Errorf("Len() = %d, want 26", c.Len())
	}
}
