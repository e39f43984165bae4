// Package pipeline renders zone layouts into output artifacts.
//
// The same Runner serves the CLI's render command and the HTTP server's
// preview endpoint, so both share one cache and one set of defaults.
//
// # Architecture
//
// A run has two stages:
//
//  1. Convert: build the edge graph of the zones (this also validates them)
//  2. Render: produce every requested format concurrently
//
// Artifacts are cached by the hash of the zone list plus the options that
// change their bytes, so an unchanged layout renders once.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, zones, pipeline.Options{
//	    Formats: []string{"svg", "adjacency"},
//	    Style:   "blueprint",
//	})
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/zonesmith/pkg/cache"
	"github.com/matzehuels/zonesmith/pkg/errors"
	"github.com/matzehuels/zonesmith/pkg/render/svg"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultWidth is the default frame width in pixels.
	DefaultWidth = svg.DefaultWidth

	// DefaultHeight is the default frame height in pixels.
	DefaultHeight = svg.DefaultHeight

	// DefaultStyle is the default SVG style.
	DefaultStyle = "simple"

	// DefaultArtifactTTL is how long rendered artifacts stay cached.
	DefaultArtifactTTL = 7 * 24 * time.Hour

	// DefaultPNGScale is the resolution multiplier for PNG output.
	DefaultPNGScale = 2.0
)

// Format constants for output formats.
const (
	FormatSVG       = "svg"
	FormatDOT       = "dot"
	FormatAdjacency = "adjacency"
	FormatJSON      = "json"
	FormatPNG       = "png"
	FormatPDF       = "pdf"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:       true,
	FormatDOT:       true,
	FormatAdjacency: true,
	FormatJSON:      true,
	FormatPNG:       true,
	FormatPDF:       true,
}

// Formats returns the supported formats in sorted order.
func Formats() []string {
	out := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}

// Extension returns the file extension for a format.
func Extension(format string) string {
	if format == FormatAdjacency {
		return "adjacency.svg"
	}
	return format
}

// =============================================================================
// Options
// =============================================================================

// Options configures a render run. It supports JSON for API requests.
type Options struct {
	Formats  []string `json:"formats,omitempty"`
	Style    string   `json:"style,omitempty"`
	Width    int      `json:"width,omitempty"`
	Height   int      `json:"height,omitempty"`
	Edges    bool     `json:"edges,omitempty"`    // overlay the edge graph on SVG output
	Detailed bool     `json:"detailed,omitempty"` // region rectangles in adjacency labels
	NoLabels bool     `json:"no_labels,omitempty"`
	Selected *int     `json:"selected,omitempty"` // region to highlight
	Refresh  bool     `json:"refresh,omitempty"`  // skip cache reads

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a run.
type Result struct {
	// Hash is the content hash of the rendered zone list.
	Hash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which formats came from the cache.
	CacheInfo CacheInfo
}

// Stats contains run statistics.
type Stats struct {
	RegionCount int
	EdgeCount   int
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits per format.
type CacheInfo struct {
	Hits   []string
	Misses []string
}

// AllCached reports whether every artifact came from the cache.
func (c CacheInfo) AllCached() bool {
	return len(c.Misses) == 0 && len(c.Hits) > 0
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid format: %q (must be one of: %v)", format, Formats())
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStyle checks that a style is valid.
func ValidateStyle(style string) error {
	if _, ok := svg.StyleByName(style); !ok || style == "" {
		return errors.New(errors.ErrCodeInvalidInput, "invalid style: %q (must be one of: simple, blueprint)", style)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// SetDefaults fills unset fields.
func (o *Options) SetDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateAndSetDefaults applies defaults, drops duplicate formats and
// checks the result. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	o.SetDefaults()
	o.Formats = dedupe(o.Formats)
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	return ValidateStyle(o.Style)
}

// ArtifactKeyOpts returns cache key options for one format. Options that
// cannot change the format's bytes are left out.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatSVG, FormatPNG, FormatPDF:
		k.Style, k.Width, k.Height, k.Edges = o.Style, o.Width, o.Height, o.Edges
		k.NoLabels = o.NoLabels
		k.Selected = o.selectedKey()
	case FormatDOT, FormatAdjacency:
		k.Detailed = o.Detailed
		k.Selected = o.selectedKey()
	}
	return k
}

// UsesGraph reports whether format's output depends on the edge graph and
// not only on the zone list. Equal zones can come from different graphs, so
// such artifacts are cached under a hash of the whole document.
func (o *Options) UsesGraph(format string) bool {
	switch format {
	case FormatJSON, FormatDOT, FormatAdjacency:
		return true
	case FormatSVG, FormatPNG, FormatPDF:
		return o.Edges
	}
	return false
}

// selectedKey is the highlighted region plus one, or zero for none.
func (o *Options) selectedKey() int {
	if o.Selected == nil || *o.Selected < 0 {
		return 0
	}
	return *o.Selected + 1
}

func (o *Options) selected() int {
	return o.selectedKey() - 1
}

func dedupe(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}
