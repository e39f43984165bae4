package edgelayout

import (
	"testing"

	"github.com/matzehuels/zonesmith/pkg/zone"
)

func TestAdjacencies(t *testing.T) {
	tests := []struct {
		template string
		want     int
	}{
		{"halves", 1},
		{"thirds", 2},
		{"quarters", 4},
		{"grid-3x2", 7},
	}
	for _, tt := range tests {
		t.Run(tt.template, func(t *testing.T) {
			l := mustTemplate(t, tt.template)
			got := l.Adjacencies()
			if len(got) != tt.want {
				t.Fatalf("Adjacencies() = %d pairs, want %d: %+v", len(got), tt.want, got)
			}
			for _, a := range got {
				e, _ := l.Edge(a.Edge)
				near, _ := l.Region(a.Near)
				far, _ := l.Region(a.Far)
				if near.trail(e.Axis) != a.Edge || far.lead(e.Axis) != a.Edge {
					t.Errorf("pair %+v does not meet at %s", a, a.Edge)
				}
			}
		})
	}
}

func TestAdjacenciesSkipCornerContact(t *testing.T) {
	// Top-left and bottom-right quarters touch only at the center point.
	l := mustLayout(t, []zone.Zone{
		{Name: "TL", X: 0, Y: 0, W: 0.5, H: 0.5},
		{Name: "TR", X: 0.5, Y: 0, W: 0.5, H: 0.5},
		{Name: "BL", X: 0, Y: 0.5, W: 0.5, H: 0.5},
		{Name: "BR", X: 0.5, Y: 0.5, W: 0.5, H: 0.5},
	})
	for _, a := range l.Adjacencies() {
		pair := [2]int{a.Near, a.Far}
		if pair == [2]int{0, 3} || pair == [2]int{1, 2} {
			t.Errorf("diagonal regions reported adjacent: %+v", a)
		}
	}
}
