package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/zonesmith/pkg/cache"
	"github.com/matzehuels/zonesmith/pkg/edgelayout"
	"github.com/matzehuels/zonesmith/pkg/errors"
	"github.com/matzehuels/zonesmith/pkg/observability"
	"github.com/matzehuels/zonesmith/pkg/zone"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"dot", false},
		{"adjacency", false},
		{"json", false},
		{"png", false},
		{"pdf", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("ValidateFormat(%q) code = %s, want INVALID_INPUT", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "dot"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateStyle(t *testing.T) {
	tests := []struct {
		style   string
		wantErr bool
	}{
		{"simple", false},
		{"blueprint", false},
		{"handdrawn", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateStyle(tt.style)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateStyle(%q) error = %v, wantErr %v", tt.style, err, tt.wantErr)
		}
	}
}

func TestSetDefaults(t *testing.T) {
	opts := Options{Width: -5}
	opts.SetDefaults()

	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats should be [svg], got %v", opts.Formats)
	}
	if opts.Style != DefaultStyle {
		t.Errorf("Style should be %s, got %s", DefaultStyle, opts.Style)
	}
	if opts.Width != DefaultWidth || opts.Height != DefaultHeight {
		t.Errorf("size should be %dx%d, got %dx%d", DefaultWidth, DefaultHeight, opts.Width, opts.Height)
	}
	if opts.Logger == nil {
		t.Error("Logger should be set")
	}
}

func TestValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Formats: []string{"svg", "json", "svg"}}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("First validation failed: %v", err)
	}
	if !slices.Equal(opts.Formats, []string{"svg", "json"}) {
		t.Errorf("duplicates not removed: %v", opts.Formats)
	}

	before := opts
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Second validation failed: %v", err)
	}
	if !slices.Equal(opts.Formats, before.Formats) || opts.Style != before.Style || opts.Width != before.Width {
		t.Error("options changed on second call")
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{Style: "blueprint", Width: 800, Height: 600, Edges: true, Detailed: true}

	svgKey := opts.ArtifactKeyOpts(FormatSVG)
	if svgKey.Style != "blueprint" || svgKey.Width != 800 || !svgKey.Edges || svgKey.Detailed {
		t.Errorf("svg key opts = %+v", svgKey)
	}

	dotKey := opts.ArtifactKeyOpts(FormatDOT)
	if dotKey.Style != "" || dotKey.Width != 0 || !dotKey.Detailed {
		t.Errorf("dot key opts = %+v, want only format and detail", dotKey)
	}

	jsonKey := opts.ArtifactKeyOpts(FormatJSON)
	if jsonKey != (cache.ArtifactKeyOpts{Format: FormatJSON}) {
		t.Errorf("json key opts = %+v", jsonKey)
	}
}

func TestArtifactKeyOptsSelection(t *testing.T) {
	zero, none := 0, -1
	tests := []struct {
		name     string
		selected *int
		want     int
	}{
		{"unset", nil, 0},
		{"negative", &none, 0},
		{"first region", &zero, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := Options{Selected: tt.selected, NoLabels: true}
			svgKey := opts.ArtifactKeyOpts(FormatSVG)
			if svgKey.Selected != tt.want || !svgKey.NoLabels {
				t.Errorf("svg key opts = %+v, want selected %d", svgKey, tt.want)
			}
			if dotKey := opts.ArtifactKeyOpts(FormatDOT); dotKey.Selected != tt.want || dotKey.NoLabels {
				t.Errorf("dot key opts = %+v", dotKey)
			}
		})
	}
}

func TestExtension(t *testing.T) {
	if got := Extension(FormatAdjacency); got != "adjacency.svg" {
		t.Errorf("Extension(adjacency) = %q", got)
	}
	if got := Extension(FormatSVG); got != "svg" {
		t.Errorf("Extension(svg) = %q", got)
	}
}

// memCache is a map-backed cache.Cache for runner tests.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache { return &memCache{data: make(map[string][]byte)} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

func TestRunnerExecute(t *testing.T) {
	ctx := context.Background()
	zones, _ := zone.Template("grid-3x2")
	r := NewRunner(newMemCache(), nil, nil)

	res, err := r.Execute(ctx, zones, Options{Formats: []string{"svg", "dot", "json"}, Edges: true})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(res.Artifacts) != 3 {
		t.Fatalf("artifacts = %d, want 3", len(res.Artifacts))
	}
	if !bytes.HasPrefix(res.Artifacts["svg"], []byte("<svg")) {
		t.Errorf("svg artifact: %.60s", res.Artifacts["svg"])
	}
	if !strings.HasPrefix(string(res.Artifacts["dot"]), "graph G {") {
		t.Errorf("dot artifact: %.60s", res.Artifacts["dot"])
	}
	if res.Stats.RegionCount != 6 || res.Stats.EdgeCount != 7 {
		t.Errorf("stats = %+v", res.Stats)
	}
	if len(res.CacheInfo.Misses) != 3 || res.CacheInfo.AllCached() {
		t.Errorf("first run cache info = %+v", res.CacheInfo)
	}
	if res.Hash != cache.HashJSON(zones) {
		t.Errorf("hash = %s, want hash of the zone list", res.Hash)
	}

	var doc Document
	if err := json.Unmarshal(res.Artifacts["json"], &doc); err != nil {
		t.Fatalf("json artifact: %v", err)
	}
	if len(doc.Zones) != 6 || len(doc.Edges) != 7 || len(doc.Adjacency) != 7 {
		t.Errorf("document = %d zones, %d edges, %d links", len(doc.Zones), len(doc.Edges), len(doc.Adjacency))
	}

	again, err := r.Execute(ctx, zones, Options{Formats: []string{"svg", "dot", "json"}, Edges: true})
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if !again.CacheInfo.AllCached() {
		t.Errorf("second run cache info = %+v, want all cached", again.CacheInfo)
	}
	if !bytes.Equal(again.Artifacts["svg"], res.Artifacts["svg"]) {
		t.Error("cached svg differs from rendered svg")
	}

	refreshed, err := r.Execute(ctx, zones, Options{Formats: []string{"svg"}, Edges: true, Refresh: true})
	if err != nil {
		t.Fatalf("refresh Execute: %v", err)
	}
	if len(refreshed.CacheInfo.Hits) != 0 {
		t.Errorf("refresh run hit the cache: %+v", refreshed.CacheInfo)
	}
}

func TestRunnerOptionsChangeKey(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(newMemCache(), nil, nil)

	if _, err := r.Execute(ctx, zone.Default(), Options{Style: "simple"}); err != nil {
		t.Fatal(err)
	}
	res, err := r.Execute(ctx, zone.Default(), Options{Style: "blueprint"})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.CacheInfo.Hits) != 0 {
		t.Error("style change should miss the cache")
	}

	sel := 1
	res, err = r.Execute(ctx, zone.Default(), Options{Style: "blueprint", Selected: &sel})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.CacheInfo.Hits) != 0 {
		t.Error("selection change should miss the cache")
	}
}

// splitHalves splits both halves of the default layout at y=0.5. The two
// horizontal dividers stay separate edges although they are collinear.
func splitHalves(t *testing.T) *edgelayout.Layout {
	t.Helper()
	l, err := edgelayout.FromZones(zone.Default())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := l.SplitVertical(0, 0.5); err != nil {
		t.Fatal(err)
	}
	if _, err := l.SplitVertical(2, 0.5); err != nil {
		t.Fatal(err)
	}
	return l
}

func TestRunnerGraphFormatsKeyedByGraph(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(fc, nil, nil)
	defer r.Close()

	edited := splitHalves(t)
	rebuilt, err := edgelayout.FromZones(edited.Zones())
	if err != nil {
		t.Fatal(err)
	}
	if edited.EdgeCount() == rebuilt.EdgeCount() {
		t.Fatalf("edge counts should differ, both %d", edited.EdgeCount())
	}

	opts := Options{Formats: []string{FormatJSON, FormatSVG}}
	if _, err := r.ExecuteLayout(ctx, edited, opts); err != nil {
		t.Fatal(err)
	}
	res, err := r.ExecuteLayout(ctx, rebuilt, opts)
	if err != nil {
		t.Fatal(err)
	}
	if slices.Contains(res.CacheInfo.Hits, FormatJSON) {
		t.Error("json of a different edge graph served from the cache")
	}
	if !slices.Contains(res.CacheInfo.Hits, FormatSVG) {
		t.Error("svg without edges depends only on zones and should hit the cache")
	}

	var doc Document
	if err := json.Unmarshal(res.Artifacts[FormatJSON], &doc); err != nil {
		t.Fatal(err)
	}
	if len(doc.Edges) != rebuilt.EdgeCount() {
		t.Errorf("json has %d edges, want %d", len(doc.Edges), rebuilt.EdgeCount())
	}

	withEdges := Options{Formats: []string{FormatSVG}, Edges: true}
	if _, err := r.ExecuteLayout(ctx, edited, withEdges); err != nil {
		t.Fatal(err)
	}
	res, err = r.ExecuteLayout(ctx, rebuilt, withEdges)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.CacheInfo.Hits) != 0 {
		t.Error("svg edge overlay of a different graph served from the cache")
	}
}

func TestUsesGraph(t *testing.T) {
	tests := []struct {
		format string
		edges  bool
		want   bool
	}{
		{FormatJSON, false, true},
		{FormatDOT, false, true},
		{FormatAdjacency, false, true},
		{FormatSVG, false, false},
		{FormatSVG, true, true},
		{FormatPNG, true, true},
		{FormatPDF, false, false},
	}
	for _, tt := range tests {
		o := Options{Edges: tt.edges}
		if got := o.UsesGraph(tt.format); got != tt.want {
			t.Errorf("UsesGraph(%q) with edges=%v = %v, want %v", tt.format, tt.edges, got, tt.want)
		}
	}
}

func TestRunnerFileCache(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(fc, nil, nil)
	defer r.Close()

	for range 2 {
		if _, err := r.Execute(ctx, zone.Default(), Options{Formats: []string{"dot"}}); err != nil {
			t.Fatal(err)
		}
	}
	res, err := r.Execute(ctx, zone.Default(), Options{Formats: []string{"dot"}})
	if err != nil {
		t.Fatal(err)
	}
	if !res.CacheInfo.AllCached() {
		t.Errorf("file cache not used: %+v", res.CacheInfo)
	}
}

func TestRunnerAdjacency(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), zone.Default(), Options{Formats: []string{FormatAdjacency}})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !bytes.Contains(res.Artifacts[FormatAdjacency], []byte("<svg")) {
		t.Errorf("adjacency artifact is not SVG: %.80s", res.Artifacts[FormatAdjacency])
	}
}

func TestRunnerErrors(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	ctx := context.Background()

	if _, err := r.Execute(ctx, zone.Default(), Options{Formats: []string{"gif"}}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("bad format: err = %v, want INVALID_INPUT", err)
	}
	if _, err := r.Execute(ctx, nil, Options{}); !errors.Is(err, errors.ErrCodeConversion) {
		t.Errorf("empty zones: err = %v, want CONVERSION_FAILED", err)
	}
	bad := []zone.Zone{{Name: "flat", X: 0, Y: 0, W: 1, H: 0}}
	if _, err := r.Execute(ctx, bad, Options{}); !errors.Is(err, errors.ErrCodeConversion) {
		t.Errorf("zero-height zone: err = %v, want CONVERSION_FAILED", err)
	}
}

type recordingRenderHooks struct {
	mu        sync.Mutex
	started   int
	completed int
	lastErr   error
}

func (h *recordingRenderHooks) OnRenderStart(context.Context, []string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.started++
}

func (h *recordingRenderHooks) OnRenderComplete(_ context.Context, _ []string, _ time.Duration, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.completed++
	h.lastErr = err
}

func TestRunnerRenderHooks(t *testing.T) {
	hooks := &recordingRenderHooks{}
	observability.SetRenderHooks(hooks)
	defer observability.Reset()

	r := NewRunner(nil, nil, nil)
	if _, err := r.Execute(context.Background(), zone.Default(), Options{}); err != nil {
		t.Fatal(err)
	}
	if hooks.started != 1 || hooks.completed != 1 || hooks.lastErr != nil {
		t.Errorf("hooks = %d started, %d completed, err %v", hooks.started, hooks.completed, hooks.lastErr)
	}
}
