package edgelayout

import (
	"math"
	"slices"

	"github.com/matzehuels/zonesmith/pkg/errors"
)

// SplitHorizontal divides the region at index into a left and a right part
// along a new vertical edge at clickX. The position is clamped so both parts
// keep at least MinRegionSize of width. The left part keeps the region's
// name and position in the list; the right part follows it.
func (l *Layout) SplitHorizontal(index int, clickX float64) (EdgeID, error) {
	return l.split(index, Vertical, clickX)
}

// SplitVertical divides the region at index into a top and a bottom part
// along a new horizontal edge at clickY.
func (l *Layout) SplitVertical(index int, clickY float64) (EdgeID, error) {
	return l.split(index, Horizontal, clickY)
}

// split inserts a new edge on axis through the region at index.
func (l *Layout) split(index int, axis Axis, at float64) (EdgeID, error) {
	r, ok := l.Region(index)
	if !ok {
		return "", errors.New(errors.ErrCodeInvalidOperation, "no region at index %d (have %d)", index, len(l.regions))
	}
	if math.IsNaN(at) {
		return "", errors.New(errors.ErrCodeInvalidOperation, "split position is not a number")
	}

	lo, hi := l.interval(r, axis)
	minPos, maxPos := lo+MinRegionSize, hi-MinRegionSize
	if minPos > maxPos+sizeEpsilon {
		return "", errors.New(errors.ErrCodeInvalidOperation,
			"region %q is too small to split (%.3f < %.3f)", r.Name, hi-lo, 2*MinRegionSize)
	}
	pos := clamp(at, minPos, math.Max(minPos, maxPos))

	start, end := l.interval(r, axis.Perpendicular())
	e := l.addEdge(axis, pos, start, end-start)

	first, second := r, r
	first.setTrail(axis, e.ID)
	second.setLead(axis, e.ID)
	second.Name = l.freshName()

	l.regions = slices.Replace(l.regions, index, index+1, first, second)
	l.RecalculateBounds()
	return e.ID, nil
}
