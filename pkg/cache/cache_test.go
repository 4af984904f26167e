package cache

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
	if err := c.DeletePrefix(ctx, "graph:"); err != nil {
		t.Errorf("DeletePrefix error: %v", err)
	}
}

func TestMemoryCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(16, 0)
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !hit {
		t.Fatal("Get should hit after Set")
	}
	if !bytes.Equal(data, []byte("value")) {
		t.Errorf("Get = %q, want %q", data, "value")
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("Get should miss after Delete")
	}
}

func TestMemoryCache_TTLExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(16, 0)
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Millisecond); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("Get should miss after the entry TTL elapsed")
	}
}

func TestMemoryCache_DeletePrefix(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(16, 0)
	defer c.Close()

	_ = c.Set(ctx, "graph:payload", []byte("a"), 0)
	_ = c.Set(ctx, "graph:analysis:stats", []byte("b"), 0)
	_ = c.Set(ctx, "other:key", []byte("c"), 0)

	if err := c.DeletePrefix(ctx, "graph:"); err != nil {
		t.Fatalf("DeletePrefix error: %v", err)
	}

	if _, hit, _ := c.Get(ctx, "graph:payload"); hit {
		t.Error("graph:payload should be gone")
	}
	if _, hit, _ := c.Get(ctx, "graph:analysis:stats"); hit {
		t.Error("graph:analysis:stats should be gone")
	}
	if _, hit, _ := c.Get(ctx, "other:key"); !hit {
		t.Error("other:key should survive prefix invalidation")
	}
}

func TestMemoryCache_EvictsAtCapacity(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(2, 0)
	defer c.Close()

	_ = c.Set(ctx, "a", []byte("1"), 0)
	_ = c.Set(ctx, "b", []byte("2"), 0)
	_ = c.Set(ctx, "c", []byte("3"), 0)

	// Oldest entry falls out, newest stays
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("a should be evicted at capacity")
	}
	if _, hit, _ := c.Get(ctx, "c"); !hit {
		t.Error("c should still be cached")
	}
}

func TestFileCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !hit || !bytes.Equal(data, []byte("value")) {
		t.Errorf("Get = (%q, %v), want (%q, true)", data, hit, "value")
	}

	// Unknown key is a plain miss
	if _, hit, err := c.Get(ctx, "missing"); hit || err != nil {
		t.Errorf("Get(missing) = (hit=%v, err=%v), want miss without error", hit, err)
	}
}

func TestFileCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), -time.Second); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	// Negative TTL means no deadline was recorded, so the entry persists
	if _, hit, _ := c.Get(ctx, "key"); !hit {
		t.Error("entry without deadline should persist")
	}

	if err := c.Set(ctx, "short", []byte("value"), time.Millisecond); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "short"); hit {
		t.Error("expired entry should read as a miss")
	}
}

func TestFileCache_DeletePrefix(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	_ = c.Set(ctx, "graph:payload", []byte("a"), 0)
	_ = c.Set(ctx, "other:key", []byte("b"), 0)

	if err := c.DeletePrefix(ctx, "graph:"); err != nil {
		t.Fatalf("DeletePrefix error: %v", err)
	}

	if _, hit, _ := c.Get(ctx, "graph:payload"); hit {
		t.Error("graph:payload should be gone")
	}
	if _, hit, _ := c.Get(ctx, "other:key"); !hit {
		t.Error("other:key should survive prefix invalidation")
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	// Fixed keys are readable
	if got := k.GraphKey(); got != "graph:payload" {
		t.Errorf("GraphKey unexpected: %s", got)
	}
	if got := k.AnalysisKey("cycles"); got != "graph:analysis:cycles" {
		t.Errorf("AnalysisKey unexpected: %s", got)
	}

	// TreeKey should include options in hash
	tk1 := k.TreeKey(TreeKeyOpts{RootID: 1, MaxDepth: 5})
	tk2 := k.TreeKey(TreeKeyOpts{RootID: 1, MaxDepth: 3})
	if tk1 == tk2 {
		t.Error("Different TreeKeyOpts should produce different keys")
	}

	// PathKey direction matters
	pk1 := k.PathKey(PathKeyOpts{FromID: 1, ToID: 2})
	pk2 := k.PathKey(PathKeyOpts{FromID: 2, ToID: 1})
	if pk1 == pk2 {
		t.Error("Reversed PathKeyOpts should produce different keys")
	}

	// ExportKey
	ek1 := k.ExportKey(ExportKeyOpts{Format: "svg"})
	ek2 := k.ExportKey(ExportKeyOpts{Format: "dot"})
	if ek1 == ek2 {
		t.Error("Different ExportKeyOpts should produce different keys")
	}

	// Every key lives under the invalidation prefix
	for _, key := range []string{k.GraphKey(), tk1, pk1, ek1, k.AnalysisKey("stats")} {
		if !strings.HasPrefix(key, k.ProjectionPrefix()) {
			t.Errorf("key %s outside projection prefix %s", key, k.ProjectionPrefix())
		}
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "staging:")

	// All keys should be prefixed
	if got := scoped.GraphKey(); got != "staging:graph:payload" {
		t.Errorf("ScopedKeyer GraphKey unexpected: %s", got)
	}

	treeKey := scoped.TreeKey(TreeKeyOpts{RootID: 7, MaxDepth: 5})
	if !strings.HasPrefix(treeKey, "staging:graph:tree:") {
		t.Errorf("ScopedKeyer TreeKey should be prefixed: %s", treeKey)
	}

	// Invalidation prefix carries the scope
	if got := scoped.ProjectionPrefix(); got != "staging:graph:" {
		t.Errorf("ScopedKeyer ProjectionPrefix unexpected: %s", got)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// Should use DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "prefix:")
	if got := scoped.AnalysisKey("critical"); got != "prefix:graph:analysis:critical" {
		t.Errorf("Unexpected key with nil inner: %s", got)
	}
}
