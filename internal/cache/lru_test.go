package cache

import (
	"testing"
	"time"
)

func fakeClock(c *LRUCache[int]) *time.Time {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	return &now
}

func TestLRUCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRUCache[int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	if _, ok := c.Get("a"); !ok {
		t.Fatal("a should be present")
	}
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Fatal("b should have been evicted")
	}
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("a = %d, %v", v, ok)
	}
	if c.Size() != 2 {
		t.Fatalf("size = %d", c.Size())
	}
}

func TestLRUCache_Expiry(t *testing.T) {
	c := NewLRUCache[int](10, time.Minute)
	now := fakeClock(c)

	c.Set("a", 1)
	c.Set("b", 2)
	*now = now.Add(30 * time.Second)
	c.Set("b", 3) // refresh b

	*now = now.Add(45 * time.Second)
	if _, ok := c.Get("a"); ok {
		t.Fatal("a should have expired")
	}
	if v, ok := c.Get("b"); !ok || v != 3 {
		t.Fatalf("b = %d, %v", v, ok)
	}

	*now = now.Add(time.Hour)
	if removed := c.CleanExpired(); removed != 1 {
		t.Fatalf("CleanExpired removed %d, want 1", removed)
	}
	if c.Size() != 0 {
		t.Fatalf("size = %d", c.Size())
	}
}

func TestLRUCache_DeleteAndPurge(t *testing.T) {
	c := NewLRUCache[string](5, time.Minute)
	c.Set("x", "1")
	c.Set("y", "2")
	c.Delete("x")
	if _, ok := c.Get("x"); ok {
		t.Fatal("x should be gone")
	}
	c.Purge()
	if c.Size() != 0 {
		t.Fatalf("size after purge = %d", c.Size())
	}
	c.Set("z", "3")
	if v, ok := c.Get("z"); !ok || v != "3" {
		t.Fatal("cache unusable after purge")
	}
}

func TestManager_CleanNowAndStop(t *testing.T) {
	c := NewLRUCache[int](5, time.Minute)
	now := fakeClock(c)
	c.Set("a", 1)
	*now = now.Add(2 * time.Minute)

	m := NewManager()
	m.Register(c)
	if n := m.CleanNow(); n != 1 {
		t.Fatalf("CleanNow = %d, want 1", n)
	}

	m.StartCleanup(time.Hour)
	m.Stop()
	m.Stop() // second stop is a no-op
}
