package cache

import (
	"testing"
	"time"
)

func TestGetAfterPut(t *testing.T) {
	c := New[string, int](time.Minute)
	c.Put("a", 1)

	got, ok := c.Get("a")
	if !ok || got != 1 {
		t.Fatalf("expected hit with 1, got %v %v", got, ok)
	}
}

func TestExpiry(t *testing.T) {
	c := New[string, int](time.Minute)
	now := time.Now()
	c.now = func() time.Time { return now }
	c.Put("a", 1)

	now = now.Add(2 * time.Minute)
	if _, ok := c.Get("a"); ok {
		t.Fatal("expected expired entry to miss")
	}
	if c.Len() != 0 {
		t.Fatalf("expected expired entry evicted, len=%d", c.Len())
	}
}

func TestZeroTTLNeverExpires(t *testing.T) {
	c := New[string, int](0)
	now := time.Now()
	c.now = func() time.Time { return now }
	c.Put("a", 1)

	now = now.Add(24 * time.Hour)
	if _, ok := c.Get("a"); !ok {
		t.Fatal("expected zero-ttl entry to stay")
	}
}

func TestEvict(t *testing.T) {
	c := New[string, int](time.Minute)
	c.Put("a", 1)
	c.Evict("a")
	if _, ok := c.Get("a"); ok {
		t.Fatal("expected evicted entry to miss")
	}
}
