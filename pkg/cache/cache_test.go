package cache

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit || data != nil {
		t.Error("NullCache.Get should always miss")
	}
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	if _, hit, _ = c.Get(ctx, "key"); hit {
		t.Error("NullCache should not store data")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatal(err)
	}

	if _, hit, err := c.Get(ctx, "missing"); hit || err != nil {
		t.Fatalf("Get(missing) = hit %v, err %v", hit, err)
	}

	if err := c.Set(ctx, "layout:abc", []byte(`{"nodes":[]}`), 0); err != nil {
		t.Fatal(err)
	}
	data, hit, err := c.Get(ctx, "layout:abc")
	if err != nil || !hit {
		t.Fatalf("Get after Set = hit %v, err %v", hit, err)
	}
	if string(data) != `{"nodes":[]}` {
		t.Errorf("data = %s", data)
	}

	if err := c.Delete(ctx, "layout:abc"); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "layout:abc"); hit {
		t.Error("entry survived Delete")
	}
	if err := c.Delete(ctx, "layout:abc"); err != nil {
		t.Errorf("second Delete error: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should miss")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("expired entry should be removed")
	}
}

func TestFileCacheCorrupt(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	_ = c.Set(ctx, "k", []byte("v"), 0)

	if err := os.WriteFile(c.path("k"), []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry: hit %v, err %v; want miss", hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	for _, k := range []string{"a", "b", "c"} {
		_ = c.Set(ctx, k, []byte(k), 0)
	}
	if err := c.Clear(); err != nil {
		t.Fatal(err)
	}
	entries, _ := os.ReadDir(c.Dir())
	if len(entries) != 0 {
		t.Errorf("%d entries left after Clear", len(entries))
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length = %d, want 64", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	if dk := k.DocumentKey("data/nodes.json"); !strings.HasPrefix(dk, "doc:") {
		t.Errorf("DocumentKey = %s, want doc: prefix", dk)
	}
	if k.DocumentKey("a") == k.DocumentKey("b") {
		t.Error("different locations should produce different keys")
	}

	opts := LayoutKeyOpts{DefaultRadius: 500, Radii: map[int]float64{0: 80, 1: 150}}
	lk1 := k.LayoutKey("hash123", opts)
	if !strings.HasPrefix(lk1, "layout:") {
		t.Errorf("LayoutKey = %s, want layout: prefix", lk1)
	}
	if lk1 != k.LayoutKey("hash123", LayoutKeyOpts{DefaultRadius: 500, Radii: map[int]float64{1: 150, 0: 80}}) {
		t.Error("LayoutKey should not depend on map insertion order")
	}
	if lk1 == k.LayoutKey("hash123", LayoutKeyOpts{DefaultRadius: 500, Radii: map[int]float64{0: 90, 1: 150}}) {
		t.Error("different radii should produce different keys")
	}
	if lk1 == k.LayoutKey("hash456", opts) {
		t.Error("different datasets should produce different keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "staging:")

	if got, want := scoped.DocumentKey("x"), "staging:"+inner.DocumentKey("x"); got != want {
		t.Errorf("DocumentKey = %s, want %s", got, want)
	}
	if got := scoped.LayoutKey("h", LayoutKeyOpts{}); !strings.HasPrefix(got, "staging:layout:") {
		t.Errorf("LayoutKey = %s, want staging:layout: prefix", got)
	}

	if got := NewScopedKeyer(nil, "p:").DocumentKey("x"); got != "p:"+inner.DocumentKey("x") {
		t.Errorf("nil inner: %s", got)
	}
	if _, ok := NewScopedKeyer(inner, "").(DefaultKeyer); !ok {
		t.Error("empty prefix should return the inner keyer")
	}
}

func TestRedisOptions(t *testing.T) {
	tests := []struct {
		addr, wantAddr string
		wantDB         int
	}{
		{"localhost:6379", "localhost:6379", 0},
		{"redis://cache.internal:6380/2", "cache.internal:6380", 2},
	}
	for _, tt := range tests {
		opts, err := redisOptions(tt.addr)
		if err != nil {
			t.Fatalf("redisOptions(%q) error: %v", tt.addr, err)
		}
		if opts.Addr != tt.wantAddr || opts.DB != tt.wantDB {
			t.Errorf("redisOptions(%q) = %s db %d, want %s db %d", tt.addr, opts.Addr, opts.DB, tt.wantAddr, tt.wantDB)
		}
	}
	if _, err := redisOptions("redis://localhost:6379/notadb"); err == nil {
		t.Error("invalid database number should fail")
	}
}
