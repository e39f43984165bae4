package edgelayout

import "math"

// RecalculateBounds sets every non-fixed edge's Start/Length to the bounding
// span, along the edge's own axis, of the regions referencing it. Edges no
// region references are left as they are. Running it twice changes nothing
// the second time.
func (l *Layout) RecalculateBounds() {
	for _, id := range l.order {
		if e := l.edges[id]; !e.Fixed {
			l.refresh(e)
		}
	}
}

// refresh recomputes one edge's footprint.
func (l *Layout) refresh(e *Edge) {
	if lo, hi, ok := l.footprint(e); ok {
		e.Start, e.Length = lo, hi-lo
	}
}

// footprint returns the bounding span of the regions referencing e, measured
// along e's own axis.
func (l *Layout) footprint(e *Edge) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	along := e.Axis.Perpendicular()
	for _, r := range l.regions {
		if r.lead(e.Axis) != e.ID && r.trail(e.Axis) != e.ID {
			continue
		}
		a, b := l.interval(r, along)
		lo, hi = math.Min(lo, a), math.Max(hi, b)
		ok = true
	}
	return lo, hi, ok
}

// CollectGarbage removes every non-fixed edge that no region references and
// returns how many were removed.
func (l *Layout) CollectGarbage() int {
	used := make(map[EdgeID]bool, len(l.edges))
	for _, r := range l.regions {
		used[r.Left], used[r.Right], used[r.Top], used[r.Bottom] = true, true, true, true
	}
	var orphans []EdgeID
	for _, id := range l.order {
		if !l.edges[id].Fixed && !used[id] {
			orphans = append(orphans, id)
		}
	}
	for _, id := range orphans {
		l.removeEdge(id)
	}
	return len(orphans)
}
