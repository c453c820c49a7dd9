package cache

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestCacheKey(t *testing.T) {
	k1 := CacheKey([]byte(`{"article":{"id":"a1"}}`))
	k2 := CacheKey([]byte(`{"article":{"id":"a1"}}`))
	k3 := CacheKey([]byte(`{"article":{"id":"a2"}}`))

	if k1 != k2 {
		t.Errorf("expected identical keys, got %s and %s", k1, k2)
	}
	if k1 == k3 {
		t.Error("expected different requests to produce different keys")
	}
	if !strings.HasPrefix(k1, keyPrefix) {
		t.Errorf("expected key prefix %q, got %s", keyPrefix, k1)
	}
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Error("expected miss for unknown key")
	}

	if err := c.Set("k", []byte("v"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	val, ok := c.Get("k")
	if !ok || string(val) != "v" {
		t.Errorf("expected v, got %q (found=%v)", val, ok)
	}

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("expected 1 hit and 1 miss, got %+v", stats)
	}

	if err := c.Delete("k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("expected empty cache, got %d entries", c.Len())
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	if err := c.Set("k", []byte("v"), 10*time.Millisecond); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	time.Sleep(30 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Error("expected entry to expire")
	}
}

func TestDiskCache(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)
	key := CacheKey([]byte("request"))

	if _, ok := c.Get(key); ok {
		t.Error("expected miss before Set")
	}

	if err := c.Set(key, []byte(`{"mode":"offsets"}`), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	val, ok := c.Get(key)
	if !ok || string(val) != `{"mode":"offsets"}` {
		t.Errorf("unexpected value %q (found=%v)", val, ok)
	}

	// Sharded by the first two characters of the hash
	hash := strings.TrimPrefix(key, keyPrefix)
	if _, err := os.Stat(filepath.Join(dir, hash[:2], hash+".json")); err != nil {
		t.Errorf("expected sharded cache file: %v", err)
	}

	if err := c.Delete(key); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := c.Delete(key); err != nil {
		t.Errorf("deleting a missing key should succeed, got %v", err)
	}
	if _, ok := c.Get(key); ok {
		t.Error("expected miss after Delete")
	}
}

func TestDiskCache_Expiry(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Hour)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	if err := c.Set("k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	now = now.Add(30 * time.Second)
	if _, ok := c.Get("k"); !ok {
		t.Error("expected entry before expiry")
	}

	now = now.Add(time.Minute)
	if _, ok := c.Get("k"); ok {
		t.Error("expected entry to expire")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("expected expired entry to be removed")
	}
}

func TestDiskCache_CorruptEntry(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Hour)
	path := c.path("k")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, ok := c.Get("k"); ok {
		t.Error("expected corrupt entry to miss")
	}
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()

	writer := NewLayeredCache(time.Minute, dir, time.Hour, nil)
	if err := writer.Set("k", []byte("v"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	reader := NewLayeredCache(time.Minute, dir, time.Hour, nil)
	val, ok := reader.Get("k")
	if !ok || string(val) != "v" {
		t.Fatalf("expected disk hit, got %q (found=%v)", val, ok)
	}
	if reader.memory.Len() != 1 {
		t.Error("expected disk hit to be promoted to memory")
	}

	if err := reader.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, ok := reader.Get("k"); ok {
		t.Error("expected miss after Clear")
	}
}
