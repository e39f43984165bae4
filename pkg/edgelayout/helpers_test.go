package edgelayout

import (
	"math"
	"testing"

	"github.com/matzehuels/zonesmith/pkg/zone"
)

const testTol = 1e-9

func mustLayout(t *testing.T, zones []zone.Zone) *Layout {
	t.Helper()
	l, err := FromZones(zones)
	if err != nil {
		t.Fatalf("FromZones() error = %v", err)
	}
	if err := l.CheckAll(); err != nil {
		t.Fatalf("CheckAll() after FromZones = %v", err)
	}
	return l
}

func mustTemplate(t *testing.T, name string) *Layout {
	t.Helper()
	zones, err := zone.Template(name)
	if err != nil {
		t.Fatalf("Template(%q) error = %v", name, err)
	}
	return mustLayout(t, zones)
}

// buildLayout assembles a layout by hand, for shapes FromZones cannot
// produce because it shares every collinear boundary.
func buildLayout(t *testing.T, edges []Edge, regions []Region) *Layout {
	t.Helper()
	l := newLayout()
	for _, e := range edges {
		l.insert(&e)
	}
	l.regions = regions
	l.RecalculateBounds()
	if err := l.CheckAll(); err != nil {
		t.Fatalf("CheckAll() on hand-built layout = %v", err)
	}
	return l
}

// pinwheel is a 2x2 grid whose vertical divider is two distinct edges, v and
// w, both at x=0.5. The top-left and bottom-right cells share v; the other
// two share w.
func pinwheel(t *testing.T) *Layout {
	return buildLayout(t,
		[]Edge{
			{ID: "v", Axis: Vertical, Position: 0.5},
			{ID: "w", Axis: Vertical, Position: 0.5},
			{ID: "h", Axis: Horizontal, Position: 0.5},
		},
		[]Region{
			{Name: "A", Left: EdgeLeft, Right: "v", Top: EdgeTop, Bottom: "h"},
			{Name: "B", Left: "w", Right: EdgeRight, Top: EdgeTop, Bottom: "h"},
			{Name: "C", Left: EdgeLeft, Right: "w", Top: "h", Bottom: EdgeBottom},
			{Name: "D", Left: "v", Right: EdgeRight, Top: "h", Bottom: EdgeBottom},
		})
}

// edgeAt finds the non-fixed edge on axis at pos.
func edgeAt(t *testing.T, l *Layout, axis Axis, pos float64) EdgeID {
	t.Helper()
	for _, e := range l.Edges() {
		if !e.Fixed && e.Axis == axis && math.Abs(e.Position-pos) <= DedupTolerance {
			return e.ID
		}
	}
	t.Fatalf("no %s edge at %g", axis, pos)
	return ""
}

func assertZones(t *testing.T, got []zone.Zone, want []zone.Zone) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d zones %v, want %d %v", len(got), got, len(want), want)
	}
	for i := range want {
		if want[i].Name != "" && got[i].Name != want[i].Name {
			t.Errorf("zone %d name = %q, want %q", i, got[i].Name, want[i].Name)
		}
		if !got[i].Equal(want[i], testTol) {
			t.Errorf("zone %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}
