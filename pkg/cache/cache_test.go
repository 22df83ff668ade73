package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit || data != nil {
		t.Errorf("Get() = %q, %v, want nil, false", data, hit)
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("len(Hash()) = %d, want 64", len(h1))
	}

	h2, err := HashJSON([]string{"hello"})
	if err != nil {
		t.Fatal(err)
	}
	if h2 != Hash([]byte(`["hello"]`)) {
		t.Error("HashJSON should hash the JSON encoding")
	}
	if _, err := HashJSON(make(chan int)); err == nil {
		t.Error("HashJSON of an unencodable value should fail")
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()
	base := LayoutKeyOpts{Layouter: "circular", Width: 1000, Height: 1000, Font: "goregular", MinFontSize: 12, MaxFontSize: 72}

	key := k.LayoutKey("abc", base)
	if !strings.HasPrefix(key, "layout:"+keyVersion+":") {
		t.Errorf("LayoutKey() = %q, want versioned layout: prefix", key)
	}
	if key != k.LayoutKey("abc", base) {
		t.Error("LayoutKey should be deterministic")
	}
	if key == k.LayoutKey("abd", base) {
		t.Error("LayoutKey should depend on the text hash")
	}

	changed := base
	changed.Width = 800
	if key == k.LayoutKey("abc", changed) {
		t.Error("LayoutKey should depend on the options")
	}

	art := k.ArtifactKey("abc", ArtifactKeyOpts{Format: "png", Background: "#ffffff"})
	if !strings.HasPrefix(art, "artifact:") {
		t.Errorf("ArtifactKey() = %q, want artifact: prefix", art)
	}
	if art == k.ArtifactKey("abc", ArtifactKeyOpts{Format: "svg", Background: "#ffffff"}) {
		t.Error("ArtifactKey should depend on the format")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	k := NewScopedKeyer(inner, "api:v1:")
	opts := LayoutKeyOpts{Layouter: "circular"}

	got := k.LayoutKey("abc", opts)
	want := "api:v1:" + inner.LayoutKey("abc", opts)
	if got != want {
		t.Errorf("LayoutKey() = %q, want %q", got, want)
	}

	if k := NewScopedKeyer(nil, "p:"); !strings.HasPrefix(k.ArtifactKey("x", ArtifactKeyOpts{}), "p:artifact:") {
		t.Error("nil inner keyer should fall back to the default keyer")
	}
	if k := NewScopedKeyer(nil, "staging"); !strings.HasPrefix(k.LayoutKey("x", opts), "staging:layout:") {
		t.Error("prefix without separator should get one")
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if _, hit, err := c.Get(ctx, "missing"); err != nil || hit {
		t.Errorf("Get(missing) hit=%v err=%v, want miss", hit, err)
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || !hit || string(data) != "value" {
		t.Errorf("Get() = %q, %v, %v, want value, true, nil", data, hit, err)
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("Get after Delete should miss")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestFileCacheConcurrentSetSameKey(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	const writers = 16
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- c.Set(ctx, "layout:shared", []byte(strings.Repeat("x", 64<<10)), time.Hour)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Errorf("concurrent Set: %v", err)
		}
	}

	data, hit, err := c.Get(ctx, "layout:shared")
	if err != nil || !hit || len(data) != 64<<10 {
		t.Errorf("Get() = %d bytes, %v, %v, want %d bytes, true, nil", len(data), hit, err, 64<<10)
	}

	var leftovers []string
	filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err == nil && strings.HasSuffix(path, ".tmp") {
			leftovers = append(leftovers, path)
		}
		return nil
	})
	if len(leftovers) != 0 {
		t.Errorf("temp files left behind: %v", leftovers)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "old", []byte("v"), time.Nanosecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "old"); hit {
		t.Error("expired entry should miss")
	}
	if _, err := os.Stat(c.path("old")); !errors.Is(err, os.ErrNotExist) {
		t.Error("expired entry should be removed")
	}

	if err := c.Set(ctx, "forever", []byte("v"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("zero TTL should never expire")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	path := c.path("bad")
	_ = os.MkdirAll(filepath.Dir(path), 0o755)
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "bad"); hit || err != nil {
		t.Errorf("Get(corrupt) hit=%v err=%v, want miss without error", hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	for _, k := range []string{"a", "b", "c"} {
		_ = c.Set(ctx, k, []byte(k), time.Hour)
	}

	n, err := c.Clear()
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear() = %d, want 3", n)
	}
	entries, _ := os.ReadDir(c.Dir())
	if len(entries) != 0 {
		t.Errorf("cache dir has %d entries after Clear, want 0", len(entries))
	}
}

func TestBackoffWait(t *testing.T) {
	b := Backoff{Attempts: 5, Initial: time.Second, Max: 5 * time.Second}
	tests := []struct {
		n    int
		want time.Duration
	}{
		{0, time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 5 * time.Second},
		{10, 5 * time.Second},
	}
	for _, tt := range tests {
		if got := b.Wait(tt.n); got != tt.want {
			t.Errorf("Wait(%d) = %v, want %v", tt.n, got, tt.want)
		}
	}
}

func TestBackoffConnect(t *testing.T) {
	b := Backoff{Attempts: 3, Initial: time.Millisecond, Max: time.Millisecond}
	sentinel := errors.New("connection refused")

	tests := []struct {
		name      string
		fail      int
		wantCalls int
		wantErr   bool
	}{
		{"succeeds first", 0, 1, false},
		{"succeeds after retry", 2, 3, false},
		{"gives up", 5, 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := b.Connect(context.Background(), "test", func(context.Context) error {
				calls++
				if calls <= tt.fail {
					return sentinel
				}
				return nil
			})
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && (!errors.Is(err, sentinel) || !errors.Is(err, ErrUnavailable)) {
				t.Errorf("err = %v, want ErrUnavailable wrapping the ping error", err)
			}
		})
	}
}

func TestBackoffConnectCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := DefaultBackoff.Connect(ctx, "test", func(context.Context) error {
		calls++
		cancel()
		return errors.New("refused")
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestFileCacheStatsAndPrune(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	_ = c.Set(ctx, "fresh", []byte("a"), time.Hour)
	_ = c.Set(ctx, "forever", []byte("b"), 0)
	_ = c.Set(ctx, "stale", []byte("c"), time.Minute)

	later := time.Now().Add(2 * time.Minute)
	st, err := c.Stats(later)
	if err != nil {
		t.Fatal(err)
	}
	if st.Entries != 3 || st.Expired != 1 || st.Bytes == 0 {
		t.Errorf("Stats() = %+v, want 3 entries, 1 expired", st)
	}

	n, err := c.Prune(later)
	if err != nil || n != 1 {
		t.Fatalf("Prune() = %d, %v, want 1", n, err)
	}
	if _, hit, _ := c.Get(ctx, "fresh"); !hit {
		t.Error("fresh entry should survive Prune")
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("entry without TTL should survive Prune")
	}
}
