package pipeline

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/tagcloud/pkg/cache"
	"github.com/matzehuels/tagcloud/pkg/observability"
)

const sampleText = `Gamma rays and gamma waves. Beta testing beats beta blockers.
Gamma, gamma! Alpha.`

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemCache() *memCache { return &memCache{data: make(map[string][]byte)} }

func (m *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.data[key]
	return d, ok, nil
}

func (m *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = data
	m.sets++
	return nil
}

func (m *memCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memCache) Close() error { return nil }

func TestRunnerExecute(t *testing.T) {
	r := NewRunner(newMemCache(), nil, nil)
	opts := Options{
		Text:    sampleText,
		Width:   400,
		Height:  300,
		Formats: []string{FormatSVG, FormatJSON, FormatPNG},
	}

	res, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() = %v", err)
	}
	if len(res.Frequencies) == 0 || res.Frequencies[0].Word != "gamma" {
		t.Fatalf("Frequencies = %v, want gamma first", res.Frequencies)
	}
	if res.Stats.Placed != len(res.Cloud.Tags) || res.Stats.Placed == 0 {
		t.Errorf("Stats.Placed = %d, tags = %d", res.Stats.Placed, len(res.Cloud.Tags))
	}
	if res.Cloud.Width != 400 || res.Cloud.Height != 300 {
		t.Errorf("cloud size = %dx%d, want 400x300", res.Cloud.Width, res.Cloud.Height)
	}
	if !bytes.HasPrefix(res.Artifacts[FormatSVG], []byte("<svg")) {
		t.Error("svg artifact should start with <svg")
	}
	if !bytes.HasPrefix(res.Artifacts[FormatPNG], []byte("\x89PNG")) {
		t.Error("png artifact should have the PNG signature")
	}
	if !strings.Contains(string(res.Artifacts[FormatJSON]), `"gamma"`) {
		t.Error("json artifact should contain the top word")
	}
	if res.CacheInfo.LayoutHit || res.CacheInfo.RenderHit {
		t.Errorf("first run CacheInfo = %+v, want misses", res.CacheInfo)
	}
	if len(res.TextHash) != 64 {
		t.Errorf("TextHash = %q", res.TextHash)
	}
}

func TestRunnerExecuteUsesCache(t *testing.T) {
	mc := newMemCache()
	r := NewRunner(mc, nil, nil)
	opts := Options{Text: sampleText, Width: 400, Height: 300, Formats: []string{FormatSVG}}

	first, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() = %v", err)
	}
	second, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() = %v", err)
	}
	if !second.CacheInfo.LayoutHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run CacheInfo = %+v, want hits", second.CacheInfo)
	}
	if !bytes.Equal(first.Artifacts[FormatSVG], second.Artifacts[FormatSVG]) {
		t.Error("cached svg should match the fresh render")
	}
	if len(first.Cloud.Tags) != len(second.Cloud.Tags) || first.Cloud.Tags[0].Rect != second.Cloud.Tags[0].Rect {
		t.Error("cached layout should match the fresh layout")
	}

	opts.Refresh = true
	third, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() = %v", err)
	}
	if third.CacheInfo.LayoutHit || third.CacheInfo.RenderHit {
		t.Errorf("refresh CacheInfo = %+v, want misses", third.CacheInfo)
	}

	// A different palette renders again but reuses the layout.
	opts.Refresh = false
	opts.Palette = []string{"#000000"}
	fourth, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() = %v", err)
	}
	if !fourth.CacheInfo.LayoutHit || fourth.CacheInfo.RenderHit {
		t.Errorf("palette change CacheInfo = %+v, want layout hit and render miss", fourth.CacheInfo)
	}
}

func TestRunnerExecuteEmptyText(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), Options{Text: "the of and", Formats: []string{FormatJSON}})
	if err != nil {
		t.Fatalf("Execute() = %v", err)
	}
	if len(res.Cloud.Tags) != 0 {
		t.Errorf("Tags = %v, want none", res.Cloud.Tags)
	}
}

func TestRunnerExecuteCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRunner(nil, nil, nil)
	_, err := r.Execute(ctx, Options{Text: sampleText})
	if err != context.Canceled {
		t.Errorf("Execute() = %v, want context.Canceled", err)
	}
}

func TestRunnerExecuteInvalid(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	if _, err := r.Execute(context.Background(), Options{Text: sampleText, Formats: []string{"gif"}}); err == nil {
		t.Error("Execute() with bad format should fail")
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	mu     sync.Mutex
	events []string
}

func (h *recordingHooks) record(e string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
}

func (h *recordingHooks) OnExtractStart(context.Context, int) { h.record("extract") }
func (h *recordingHooks) OnLayoutStart(context.Context, string, int) {
	h.record("layout")
}
func (h *recordingHooks) OnRenderStart(context.Context, []string) { h.record("render") }

func TestRunnerEmitsHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	defer observability.Reset()

	r := NewRunner(cache.NewNullCache(), nil, nil)
	if _, err := r.Execute(context.Background(), Options{Text: sampleText, Formats: []string{FormatJSON}}); err != nil {
		t.Fatalf("Execute() = %v", err)
	}

	want := []string{"extract", "layout", "render"}
	if strings.Join(hooks.events, ",") != strings.Join(want, ",") {
		t.Errorf("events = %v, want %v", hooks.events, want)
	}
}
