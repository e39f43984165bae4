package edgelayout

import (
	"math"

	"github.com/matzehuels/zonesmith/pkg/errors"
)

// Constraints returns the range the edge may move within so that every
// region on either side keeps MinRegionSize. For a vertical edge, minPos is
// the largest left.Position+MinRegionSize over regions whose right side is
// the edge, and maxPos the smallest right.Position-MinRegionSize over
// regions whose left side is the edge. A side with no region defaults to 0
// or 1.
func (l *Layout) Constraints(id EdgeID) (minPos, maxPos float64, err error) {
	e, ok := l.edges[id]
	if !ok {
		return 0, 0, errors.New(errors.ErrCodeInvalidOperation, "unknown edge %q", id)
	}
	minPos, maxPos = l.constraints(e)
	return minPos, maxPos, nil
}

func (l *Layout) constraints(e *Edge) (minPos, maxPos float64) {
	minPos, maxPos = 0, 1
	for _, r := range l.regions {
		if r.trail(e.Axis) == e.ID {
			minPos = math.Max(minPos, l.pos(r.lead(e.Axis))+MinRegionSize)
		}
		if r.lead(e.Axis) == e.ID {
			maxPos = math.Min(maxPos, l.pos(r.trail(e.Axis))-MinRegionSize)
		}
	}
	return minPos, maxPos
}

// moveTo clamps target into the edge's constraints, writes the position and
// refreshes the perpendicular edges of every region sharing the edge.
func (l *Layout) moveTo(e *Edge, target float64) float64 {
	minPos, maxPos := l.constraints(e)
	if minPos > maxPos {
		return e.Position
	}
	e.Position = clamp(clamp(target, 0, 1), minPos, maxPos)

	seen := map[EdgeID]bool{e.ID: true}
	across := e.Axis.Perpendicular()
	for _, r := range l.regions {
		if r.lead(e.Axis) != e.ID && r.trail(e.Axis) != e.ID {
			continue
		}
		for _, id := range []EdgeID{r.lead(across), r.trail(across)} {
			if seen[id] {
				continue
			}
			seen[id] = true
			if p := l.edges[id]; p != nil && !p.Fixed {
				l.refresh(p)
			}
		}
	}
	return e.Position
}

// MoveEdge drags an edge to pos in one step and returns the clamped
// position it ended up at.
func (l *Layout) MoveEdge(id EdgeID, pos float64) (float64, error) {
	r := NewResizer(l)
	if err := r.BeginDrag(id); err != nil {
		return 0, err
	}
	got, err := r.UpdatePosition(pos)
	if err != nil {
		r.CancelDrag()
		return 0, err
	}
	r.EndDrag()
	return got, nil
}

// Resizer drives a live edge drag. A drag is BeginDrag, any number of
// UpdatePosition calls fed by pointer motion, then EndDrag or CancelDrag.
// The layout is valid between calls.
type Resizer struct {
	layout *Layout
	edge   EdgeID
	origin float64
	active bool
}

// NewResizer returns a resizer operating on l.
func NewResizer(l *Layout) *Resizer {
	return &Resizer{layout: l}
}

// Active reports whether a drag is in progress.
func (r *Resizer) Active() bool { return r.active }

// Edge returns the id of the edge being dragged.
func (r *Resizer) Edge() EdgeID { return r.edge }

// Origin returns the dragged edge's position when the drag began.
func (r *Resizer) Origin() float64 { return r.origin }

// BeginDrag starts dragging the edge. It records the starting position and
// does not mutate the layout. Fixed or unknown edges cannot be dragged.
// Beginning a new drag while one is active ends the previous one.
func (r *Resizer) BeginDrag(id EdgeID) error {
	e, ok := r.layout.edges[id]
	if !ok {
		return errors.New(errors.ErrCodeInvalidOperation, "unknown edge %q", id)
	}
	if e.Fixed {
		return errors.New(errors.ErrCodeInvalidOperation, "edge %q is a fixed boundary", id)
	}
	if r.active {
		r.EndDrag()
	}
	r.edge, r.origin, r.active = id, e.Position, true
	return nil
}

// UpdatePosition moves the dragged edge toward pointer, a normalized
// coordinate on the axis the edge is perpendicular to (x for vertical
// edges). Positions outside the edge's constraints are clamped silently.
// It returns the position actually applied.
func (r *Resizer) UpdatePosition(pointer float64) (float64, error) {
	if !r.active {
		return 0, errors.New(errors.ErrCodeInvalidOperation, "no drag in progress")
	}
	e, ok := r.layout.edges[r.edge]
	if !ok {
		r.reset()
		return 0, errors.New(errors.ErrCodeInvalidOperation, "edge %q no longer exists", r.edge)
	}
	if math.IsNaN(pointer) {
		return e.Position, nil
	}
	return r.layout.moveTo(e, pointer), nil
}

// EndDrag finishes the drag with a full bounds pass and clears the drag
// state. It is a no-op when no drag is active.
func (r *Resizer) EndDrag() {
	if !r.active {
		return
	}
	r.layout.RecalculateBounds()
	r.reset()
}

// CancelDrag puts the dragged edge back where it started and clears the drag
// state.
func (r *Resizer) CancelDrag() {
	if !r.active {
		return
	}
	if e, ok := r.layout.edges[r.edge]; ok {
		r.layout.moveTo(e, r.origin)
		r.layout.RecalculateBounds()
	}
	r.reset()
}

func (r *Resizer) reset() {
	r.edge, r.origin, r.active = "", 0, false
}
