package edgelayout

import (
	"fmt"
	"math"
	"slices"

	"github.com/matzehuels/zonesmith/pkg/errors"
)

// CanDelete reports whether the edge can be removed by merging the regions
// on both sides of it.
//
// Fixed edges, edges no region references, and the last remaining region's
// edges cannot be deleted. Otherwise the referencing regions split into a
// near side (the edge is their right or bottom) and a far side (the edge is
// their left or top); both must be non-empty and at least one near/far pair
// must overlap on the perpendicular axis.
func (l *Layout) CanDelete(id EdgeID) bool {
	e, ok := l.edges[id]
	if !ok || e.Fixed || len(l.regions) <= 1 {
		return false
	}
	near, far := l.partition(e)
	if len(near) == 0 || len(far) == 0 {
		return false
	}
	across := e.Axis.Perpendicular()
	for _, n := range near {
		for _, f := range far {
			if l.overlaps(l.regions[n], l.regions[f], across) {
				return true
			}
		}
	}
	return false
}

// partition returns the indices of regions ending at e (near) and starting
// at e (far).
func (l *Layout) partition(e *Edge) (near, far []int) {
	for i, r := range l.regions {
		if r.trail(e.Axis) == e.ID {
			near = append(near, i)
		}
		if r.lead(e.Axis) == e.ID {
			far = append(far, i)
		}
	}
	return near, far
}

// overlaps is the open-interval overlap test of two regions on axis a.
func (l *Layout) overlaps(p, q Region, a Axis) bool {
	pLo, pHi := l.interval(p, a)
	qLo, qHi := l.interval(q, a)
	return pLo < qHi-DedupTolerance && pHi > qLo+DedupTolerance
}

// DeleteEdge removes the edge and merges the regions across it.
//
// The side with more regions is primary (the near side on ties), so deleting
// an edge with one region on one side and three on the other yields three
// merged regions. Each primary region keeps its own bound on its side, its
// perpendicular bounds and its name, and adopts the far bound of the
// secondary regions it overlaps. Merged regions are appended after the
// untouched ones, collinear edges left facing each other are joined, then
// bounds are recalculated and orphaned edges dropped.
//
// The merge is planned on a copy first. If CanDelete is false, if some
// primary region overlaps no secondary, if its overlapping secondaries end
// at different positions, or if the result would not tile the unit square,
// DeleteEdge returns INVALID_OPERATION and leaves the layout unchanged.
func (l *Layout) DeleteEdge(id EdgeID) error {
	merged, err := l.mergeAcross(id)
	if err != nil {
		return err
	}
	*l = *merged
	return nil
}

// Deletable reports whether DeleteEdge would succeed. Unlike CanDelete it
// also plans the merge, so it is false for edges whose regions on one side
// end at different depths.
func (l *Layout) Deletable(id EdgeID) bool {
	_, err := l.mergeAcross(id)
	return err == nil
}

// mergeAcross returns a copy of the layout with the edge deleted.
func (l *Layout) mergeAcross(id EdgeID) (*Layout, error) {
	e, ok := l.edges[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidOperation, "unknown edge %q", id)
	}
	if !l.CanDelete(id) {
		return nil, errors.New(errors.ErrCodeInvalidOperation, "edge %q cannot be deleted", id)
	}

	merged, removed, err := l.planMerge(e)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidOperation, err, "edge %q cannot be deleted", id)
	}

	trial := l.Clone()
	trial.applyMerge(id, merged, removed)
	if err := trial.Check(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidOperation, err, "deleting edge %q would break the layout", id)
	}
	return trial, nil
}

// planMerge computes the merged regions and the indices they replace.
func (l *Layout) planMerge(e *Edge) (merged []Region, removed []int, err error) {
	near, far := l.partition(e)
	primary, secondary, primaryNear := near, far, true
	if len(far) > len(near) {
		primary, secondary, primaryNear = far, near, false
	}

	across := e.Axis.Perpendicular()
	for _, pi := range primary {
		p := l.regions[pi]
		var (
			match Region
			found bool
		)
		for _, si := range secondary {
			s := l.regions[si]
			if !l.overlaps(p, s, across) {
				continue
			}
			if !found {
				match, found = s, true
				continue
			}
			if math.Abs(l.pos(outer(s, e.Axis, primaryNear))-l.pos(outer(match, e.Axis, primaryNear))) > DedupTolerance {
				return nil, nil, fmt.Errorf("region %q borders regions of different depth", p.Name)
			}
		}
		if !found {
			return nil, nil, fmt.Errorf("region %q has no neighbour across the edge", p.Name)
		}

		m := p
		if primaryNear {
			m.setTrail(e.Axis, match.trail(e.Axis))
		} else {
			m.setLead(e.Axis, match.lead(e.Axis))
		}
		merged = append(merged, m)
	}

	removed = append(slices.Clone(near), far...)
	return merged, removed, nil
}

// outer returns the side of secondary region s facing away from the edge.
func outer(s Region, axis Axis, primaryNear bool) EdgeID {
	if primaryNear {
		return s.trail(axis)
	}
	return s.lead(axis)
}

func (l *Layout) applyMerge(id EdgeID, merged []Region, removed []int) {
	drop := make(map[int]bool, len(removed))
	for _, i := range removed {
		drop[i] = true
	}
	kept := make([]Region, 0, len(l.regions)-len(removed)+len(merged))
	for i, r := range l.regions {
		if !drop[i] {
			kept = append(kept, r)
		}
	}
	l.regions = append(kept, merged...)
	l.removeEdge(id)
	l.weld()
	l.RecalculateBounds()
	l.CollectGarbage()
}

// weld joins distinct edges that lie on the same line with regions facing
// each other across it, so dragging the line moves both sides. Merges can
// leave such pairs behind when the merged regions keep their own
// perpendicular edges.
func (l *Layout) weld() {
	for {
		keep, drop, ok := l.facingPair()
		if !ok {
			return
		}
		for i := range l.regions {
			r := &l.regions[i]
			for _, side := range []*EdgeID{&r.Left, &r.Right, &r.Top, &r.Bottom} {
				if *side == drop {
					*side = keep
				}
			}
		}
		l.removeEdge(drop)
	}
}

func (l *Layout) facingPair() (keep, drop EdgeID, ok bool) {
	for _, axis := range []Axis{Vertical, Horizontal} {
		across := axis.Perpendicular()
		for i, r := range l.regions {
			t := l.edges[r.trail(axis)]
			if t == nil || t.Fixed {
				continue
			}
			for j, s := range l.regions {
				d := l.edges[s.lead(axis)]
				if i == j || d == nil || d.Fixed || d.ID == t.ID {
					continue
				}
				if math.Abs(t.Position-d.Position) <= DedupTolerance && l.overlaps(r, s, across) {
					return t.ID, d.ID, true
				}
			}
		}
	}
	return "", "", false
}
