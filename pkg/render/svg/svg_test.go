package svg

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"
	"testing"

	"github.com/matzehuels/zonesmith/pkg/edgelayout"
	"github.com/matzehuels/zonesmith/pkg/zone"
)

func TestRenderWellFormed(t *testing.T) {
	zones, _ := zone.Template("grid-3x2")
	l, err := edgelayout.FromZones(zones)
	if err != nil {
		t.Fatal(err)
	}

	for name, style := range Styles() {
		t.Run(name, func(t *testing.T) {
			out := Render(zones, WithStyle(style), WithEdges(l.Edges()), WithSelected(2))
			dec := xml.NewDecoder(bytes.NewReader(out))
			for {
				_, err := dec.Token()
				if err == io.EOF {
					break
				}
				if err != nil {
					t.Fatalf("invalid XML: %v\n%s", err, out)
				}
			}
		})
	}
}

func TestRenderRegions(t *testing.T) {
	out := string(Render(zone.Default(), WithSize(200, 100)))

	if !strings.Contains(out, `viewBox="0 0 200.0 100.0"`) {
		t.Errorf("missing viewBox for 200x100:\n%s", out)
	}
	if got := strings.Count(out, `class="zone"`); got != 2 {
		t.Errorf("zone count = %d, want 2", got)
	}
	if !strings.Contains(out, `x="100.00" y="0.00" width="100.00" height="100.00"`) {
		t.Errorf("right half not scaled to 100x100 at x=100:\n%s", out)
	}
	if !strings.Contains(out, ">Left</text>") || !strings.Contains(out, ">Right</text>") {
		t.Errorf("labels missing:\n%s", out)
	}
}

func TestRenderEdgeOverlay(t *testing.T) {
	zones := []zone.Zone{
		{Name: "A", X: 0, Y: 0, W: 0.5, H: 1},
		{Name: "B", X: 0.5, Y: 0, W: 0.5, H: 0.5},
		{Name: "C", X: 0.5, Y: 0.5, W: 0.5, H: 0.5},
	}
	l, err := edgelayout.FromZones(zones)
	if err != nil {
		t.Fatal(err)
	}

	out := string(Render(zones, WithSize(100, 100), WithEdges(l.Edges())))
	// Fixed edges are not drawn; the two interior edges are.
	if got := strings.Count(out, `class="edge"`); got != 2 {
		t.Errorf("edge count = %d, want 2:\n%s", got, out)
	}
	// The T-junction edge covers only the right column.
	if !strings.Contains(out, `x1="50.00" y1="50.00" x2="100.00" y2="50.00"`) {
		t.Errorf("horizontal edge footprint not drawn over [50,100]:\n%s", out)
	}
}

func TestRenderOptions(t *testing.T) {
	out := string(Render(zone.Default(), WithoutLabels(), WithSize(0, 10)))
	if strings.Contains(out, "<text") {
		t.Error("WithoutLabels should drop labels")
	}
	if !strings.Contains(out, `width="1920" height="1080"`) {
		t.Error("invalid sizes should keep the default frame")
	}
}

func TestRenderEscapesNames(t *testing.T) {
	out := string(Render([]zone.Zone{{Name: "a<b&c", X: 0, Y: 0, W: 1, H: 1}}))
	if !strings.Contains(out, "a&lt;b&amp;c") {
		t.Errorf("name not escaped:\n%s", out)
	}
}

func TestTruncateLabel(t *testing.T) {
	tests := []struct {
		name string
		r    Region
		want string
	}{
		{"fits", Region{Name: "Main", W: 400, H: 400}, "Main"},
		{"too long", Region{Name: "An extremely long zone name", W: 60, H: 400}, "An extr.."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateLabel(tt.r); got != tt.want {
				t.Errorf("TruncateLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStyleByName(t *testing.T) {
	if s, ok := StyleByName(""); !ok || s.Name() != "simple" {
		t.Errorf("StyleByName(\"\") = %v, %v", s, ok)
	}
	if s, ok := StyleByName("blueprint"); !ok || s.Name() != "blueprint" {
		t.Errorf("StyleByName(blueprint) = %v, %v", s, ok)
	}
	if _, ok := StyleByName("neon"); ok {
		t.Error("StyleByName(neon) should fail")
	}
}
