package edgelayout

import (
	"fmt"
	"math"
	"slices"
)

// Geometry constants. Positions are normalized to [0,1].
const (
	// MinRegionSize is the smallest width or height a region may have.
	MinRegionSize = 0.1

	// TilingTolerance bounds coverage and overlap errors when checking that
	// regions tile the unit square.
	TilingTolerance = 1e-3

	// DedupTolerance is the distance under which two boundary coordinates
	// are considered the same edge.
	DedupTolerance = 1e-6

	// sizeEpsilon absorbs float error when comparing against MinRegionSize.
	sizeEpsilon = 1e-9
)

// Axis is the orientation of an edge.
type Axis uint8

const (
	// Vertical edges have an x Position and extend along y.
	Vertical Axis = iota
	// Horizontal edges have a y Position and extend along x.
	Horizontal
)

// String returns "vertical" or "horizontal".
func (a Axis) String() string {
	if a == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// Perpendicular returns the other axis.
func (a Axis) Perpendicular() Axis {
	if a == Horizontal {
		return Vertical
	}
	return Horizontal
}

// MarshalText implements encoding.TextMarshaler.
func (a Axis) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Axis) UnmarshalText(text []byte) error {
	switch string(text) {
	case "vertical", "v":
		*a = Vertical
	case "horizontal", "h":
		*a = Horizontal
	default:
		return fmt.Errorf("invalid axis %q", text)
	}
	return nil
}

// EdgeID identifies an edge within a Layout.
type EdgeID string

// Ids of the four fixed boundary edges.
const (
	EdgeLeft   EdgeID = "left"
	EdgeRight  EdgeID = "right"
	EdgeTop    EdgeID = "top"
	EdgeBottom EdgeID = "bottom"
)

// Edge is a boundary line shared by the regions on either side of it.
type Edge struct {
	ID       EdgeID  `json:"id"`
	Axis     Axis    `json:"axis"`
	Position float64 `json:"position"`
	Start    float64 `json:"start"`
	Length   float64 `json:"length"`
	Fixed    bool    `json:"fixed,omitempty"`
}

// End returns Start + Length.
func (e Edge) End() float64 { return e.Start + e.Length }

// Region is a named rectangle expressed by reference to its four edges.
type Region struct {
	Name   string `json:"name"`
	Left   EdgeID `json:"left"`
	Right  EdgeID `json:"right"`
	Top    EdgeID `json:"top"`
	Bottom EdgeID `json:"bottom"`
}

// lead returns the region's side on the low end of a: Left for vertical
// edges, Top for horizontal ones.
func (r Region) lead(a Axis) EdgeID {
	if a == Horizontal {
		return r.Top
	}
	return r.Left
}

// trail returns the region's side on the high end of a.
func (r Region) trail(a Axis) EdgeID {
	if a == Horizontal {
		return r.Bottom
	}
	return r.Right
}

func (r *Region) setLead(a Axis, id EdgeID) {
	if a == Horizontal {
		r.Top = id
	} else {
		r.Left = id
	}
}

func (r *Region) setTrail(a Axis, id EdgeID) {
	if a == Horizontal {
		r.Bottom = id
	} else {
		r.Right = id
	}
}

// References reports whether the region uses the edge on any side.
func (r Region) References(id EdgeID) bool {
	return r.Left == id || r.Right == id || r.Top == id || r.Bottom == id
}

// Rect is a region's derived rectangle.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Right returns X + W.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns Y + H.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Layout is the editable edge graph of one zone layout.
//
// Edges live in an id-indexed table and regions store edge ids, so a single
// write to an edge is seen by every region referencing it.
type Layout struct {
	edges   map[EdgeID]*Edge
	order   []EdgeID
	regions []Region
	seq     int
}

// newLayout returns a layout holding only the four fixed boundary edges.
func newLayout() *Layout {
	l := &Layout{edges: make(map[EdgeID]*Edge, 8)}
	for _, e := range []Edge{
		{ID: EdgeLeft, Axis: Vertical, Position: 0},
		{ID: EdgeRight, Axis: Vertical, Position: 1},
		{ID: EdgeTop, Axis: Horizontal, Position: 0},
		{ID: EdgeBottom, Axis: Horizontal, Position: 1},
	} {
		e.Start, e.Length, e.Fixed = 0, 1, true
		l.insert(&e)
	}
	return l
}

func (l *Layout) insert(e *Edge) {
	l.edges[e.ID] = e
	l.order = append(l.order, e.ID)
}

// addEdge creates a new non-fixed edge with a fresh id.
func (l *Layout) addEdge(axis Axis, pos, start, length float64) *Edge {
	prefix := "v"
	if axis == Horizontal {
		prefix = "h"
	}
	var id EdgeID
	for {
		l.seq++
		id = EdgeID(fmt.Sprintf("%s%d", prefix, l.seq))
		if _, taken := l.edges[id]; !taken {
			break
		}
	}
	e := &Edge{ID: id, Axis: axis, Position: pos, Start: start, Length: length}
	l.insert(e)
	return e
}

func (l *Layout) removeEdge(id EdgeID) {
	delete(l.edges, id)
	l.order = slices.DeleteFunc(l.order, func(o EdgeID) bool { return o == id })
}

// Clone returns a deep copy of the layout.
func (l *Layout) Clone() *Layout {
	c := &Layout{
		edges:   make(map[EdgeID]*Edge, len(l.edges)),
		order:   slices.Clone(l.order),
		regions: slices.Clone(l.regions),
		seq:     l.seq,
	}
	for id, e := range l.edges {
		cp := *e
		c.edges[id] = &cp
	}
	return c
}

// Edge returns a copy of the edge with the given id.
func (l *Layout) Edge(id EdgeID) (Edge, bool) {
	e, ok := l.edges[id]
	if !ok {
		return Edge{}, false
	}
	return *e, true
}

// Edges returns copies of all edges in creation order.
func (l *Layout) Edges() []Edge {
	out := make([]Edge, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, *l.edges[id])
	}
	return out
}

// EdgeCount returns the number of edges, fixed ones included.
func (l *Layout) EdgeCount() int { return len(l.order) }

// Regions returns a copy of the region list.
func (l *Layout) Regions() []Region { return slices.Clone(l.regions) }

// RegionCount returns the number of regions.
func (l *Layout) RegionCount() int { return len(l.regions) }

// Region returns the region at index i.
func (l *Layout) Region(i int) (Region, bool) {
	if i < 0 || i >= len(l.regions) {
		return Region{}, false
	}
	return l.regions[i], true
}

// Rect returns the derived rectangle of the region at index i.
func (l *Layout) Rect(i int) (Rect, bool) {
	r, ok := l.Region(i)
	if !ok {
		return Rect{}, false
	}
	return l.rect(r), true
}

// RegionAt returns the index of the region containing the normalized point
// (x, y), or -1 when no region contains it.
func (l *Layout) RegionAt(x, y float64) int {
	for i, r := range l.regions {
		rc := l.rect(r)
		if x >= rc.X && x < rc.Right() && y >= rc.Y && y < rc.Bottom() {
			return i
		}
	}
	// Points on the far boundary belong to the last region touching it.
	for i := len(l.regions) - 1; i >= 0; i-- {
		rc := l.rect(l.regions[i])
		if x >= rc.X && x <= rc.Right() && y >= rc.Y && y <= rc.Bottom() {
			return i
		}
	}
	return -1
}

// ReferencingRegions returns the indices of regions that use the edge.
func (l *Layout) ReferencingRegions(id EdgeID) []int {
	var out []int
	for i, r := range l.regions {
		if r.References(id) {
			out = append(out, i)
		}
	}
	return out
}

func (l *Layout) pos(id EdgeID) float64 {
	if e, ok := l.edges[id]; ok {
		return e.Position
	}
	return math.NaN()
}

func (l *Layout) rect(r Region) Rect {
	x, y := l.pos(r.Left), l.pos(r.Top)
	return Rect{X: x, Y: y, W: l.pos(r.Right) - x, H: l.pos(r.Bottom) - y}
}

// interval returns the region's extent in the coordinate space of edges on
// axis a: its x range for Vertical, its y range for Horizontal.
func (l *Layout) interval(r Region, a Axis) (lo, hi float64) {
	return l.pos(r.lead(a)), l.pos(r.trail(a))
}

// freshName returns an unused "Zone N" name for a newly created region.
func (l *Layout) freshName() string {
	taken := make(map[string]bool, len(l.regions))
	for _, r := range l.regions {
		taken[r.Name] = true
	}
	for n := len(l.regions) + 1; ; n++ {
		name := fmt.Sprintf("Zone %d", n)
		if !taken[name] {
			return name
		}
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
