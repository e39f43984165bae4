package edgelayout

import (
	"math"
	"testing"

	"github.com/matzehuels/zonesmith/pkg/errors"
	"github.com/matzehuels/zonesmith/pkg/zone"
)

func TestSplitHorizontal(t *testing.T) {
	l := mustTemplate(t, "halves")

	id, err := l.SplitHorizontal(0, 0.25)
	if err != nil {
		t.Fatalf("SplitHorizontal() error = %v", err)
	}
	e, ok := l.Edge(id)
	if !ok {
		t.Fatalf("Edge(%q) missing after split", id)
	}
	if e.Axis != Vertical || e.Position != 0.25 || e.Start != 0 || e.Length != 1 {
		t.Errorf("new edge = %+v, want vertical at 0.25 spanning [0,1]", e)
	}

	assertZones(t, l.Zones(), []zone.Zone{
		{Name: "Left", X: 0, Y: 0, W: 0.25, H: 1},
		{Name: "Zone 3", X: 0.25, Y: 0, W: 0.25, H: 1},
		{Name: "Right", X: 0.5, Y: 0, W: 0.5, H: 1},
	})
	if err := l.CheckAll(); err != nil {
		t.Errorf("CheckAll() = %v", err)
	}
}

func TestSplitVertical(t *testing.T) {
	l := mustTemplate(t, "halves")

	id, err := l.SplitVertical(1, 0.7)
	if err != nil {
		t.Fatalf("SplitVertical() error = %v", err)
	}
	e, _ := l.Edge(id)
	if e.Axis != Horizontal || math.Abs(e.Start-0.5) > testTol || math.Abs(e.Length-0.5) > testTol {
		t.Errorf("new edge = %+v, want horizontal spanning [0.5,1]", e)
	}
	assertZones(t, l.Zones(), []zone.Zone{
		{Name: "Left", X: 0, Y: 0, W: 0.5, H: 1},
		{Name: "Right", X: 0.5, Y: 0, W: 0.5, H: 0.7},
		{Name: "Zone 3", X: 0.5, Y: 0.7, W: 0.5, H: 0.3},
	})

	// The shared vertical edge is untouched.
	v, _ := l.Edge(edgeAt(t, l, Vertical, 0.5))
	if v.Start != 0 || v.Length != 1 {
		t.Errorf("divider spans [%g,%g], want [0,1]", v.Start, v.End())
	}
}

func TestSplitClamps(t *testing.T) {
	tests := []struct {
		name  string
		click float64
		want  float64
	}{
		{"near left", 0.02, 0.1},
		{"near right", 0.49, 0.4},
		{"outside", -3, 0.1},
		{"inside", 0.3, 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := mustTemplate(t, "halves")
			id, err := l.SplitHorizontal(0, tt.click)
			if err != nil {
				t.Fatalf("SplitHorizontal() error = %v", err)
			}
			e, _ := l.Edge(id)
			if math.Abs(e.Position-tt.want) > testTol {
				t.Errorf("position = %g, want %g", e.Position, tt.want)
			}
			if err := l.CheckAll(); err != nil {
				t.Errorf("CheckAll() = %v", err)
			}
		})
	}
}

func TestSplitRejected(t *testing.T) {
	narrow := []zone.Zone{
		{X: 0, Y: 0, W: 0.15, H: 1},
		{X: 0.15, Y: 0, W: 0.85, H: 1},
	}

	tests := []struct {
		name  string
		zones []zone.Zone
		index int
		click float64
	}{
		{"too small", narrow, 0, 0.07},
		{"negative index", zone.Default(), -1, 0.5},
		{"stale index", zone.Default(), 2, 0.5},
		{"nan", zone.Default(), 0, math.NaN()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := mustLayout(t, tt.zones)
			before, edges := l.Zones(), l.EdgeCount()

			_, err := l.SplitHorizontal(tt.index, tt.click)
			if !errors.Is(err, errors.ErrCodeInvalidOperation) {
				t.Fatalf("SplitHorizontal() error = %v, want %v", err, errors.ErrCodeInvalidOperation)
			}
			assertZones(t, l.Zones(), before)
			if l.EdgeCount() != edges {
				t.Errorf("EdgeCount() = %d, want %d", l.EdgeCount(), edges)
			}
		})
	}
}

func TestSplitExactlyTwiceMin(t *testing.T) {
	l := mustLayout(t, []zone.Zone{
		{X: 0, Y: 0, W: 0.2, H: 1},
		{X: 0.2, Y: 0, W: 0.8, H: 1},
	})
	id, err := l.SplitHorizontal(0, 0.5)
	if err != nil {
		t.Fatalf("SplitHorizontal() error = %v", err)
	}
	if e, _ := l.Edge(id); math.Abs(e.Position-0.1) > testTol {
		t.Errorf("position = %g, want 0.1", e.Position)
	}
	if err := l.CheckAll(); err != nil {
		t.Errorf("CheckAll() = %v", err)
	}
}

func TestSplitNamesAreUnique(t *testing.T) {
	l := mustTemplate(t, "thirds")
	for range 3 {
		if _, err := l.SplitVertical(0, 0.5); err != nil {
			break
		}
	}
	seen := map[string]bool{}
	for _, r := range l.Regions() {
		if seen[r.Name] {
			t.Errorf("duplicate region name %q", r.Name)
		}
		seen[r.Name] = true
	}
}
