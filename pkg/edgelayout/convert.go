package edgelayout

import (
	"fmt"
	"math"

	"github.com/matzehuels/zonesmith/pkg/errors"
	"github.com/matzehuels/zonesmith/pkg/zone"
)

// FromZones builds an edge graph from a flat zone list.
//
// Every zone boundary coordinate is matched against existing edges of the
// same axis within DedupTolerance, so zones sharing a boundary share one
// Edge. The four fixed boundary edges always exist. Each new edge's
// Start/Length is the bounding span of the zones referencing it.
//
// An empty list, or a zone with a non-positive or non-finite size, yields a
// CONVERSION_FAILED error. FromZones does not check that the zones tile the
// unit square; call [Layout.Validate] for that.
func FromZones(zones []zone.Zone) (*Layout, error) {
	if len(zones) == 0 {
		return nil, errors.New(errors.ErrCodeConversion, "zone list is empty")
	}

	l := newLayout()
	l.regions = make([]Region, 0, len(zones))
	for i, z := range zones {
		if err := checkZone(z); err != nil {
			return nil, errors.Wrap(errors.ErrCodeConversion, err, "zone %d", i)
		}
		name := z.Name
		if name == "" {
			name = fmt.Sprintf("Zone %d", i+1)
		}
		l.regions = append(l.regions, Region{
			Name:   name,
			Left:   l.findOrCreate(Vertical, z.X),
			Right:  l.findOrCreate(Vertical, z.X+z.W),
			Top:    l.findOrCreate(Horizontal, z.Y),
			Bottom: l.findOrCreate(Horizontal, z.Y+z.H),
		})
	}
	l.RecalculateBounds()
	return l, nil
}

// FromZonesOrDefault is FromZones with the recovery path for corrupted or
// missing input: when zones is empty or fails to convert, it returns a layout
// built from the default template. The returned layout is never nil; a
// non-nil error reports why the fallback was taken.
func FromZonesOrDefault(zones []zone.Zone) (*Layout, error) {
	if len(zones) == 0 {
		l, _ := FromZones(zone.Default())
		return l, nil
	}
	l, err := FromZones(zones)
	if err != nil {
		fallback, _ := FromZones(zone.Default())
		return fallback, err
	}
	return l, nil
}

func checkZone(z zone.Zone) error {
	for _, v := range []float64{z.X, z.Y, z.W, z.H} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%q has a non-finite coordinate", z.Name)
		}
	}
	if z.W <= 0 || z.H <= 0 {
		return fmt.Errorf("%q has non-positive size %gx%g", z.Name, z.W, z.H)
	}
	return nil
}

func (l *Layout) findOrCreate(axis Axis, pos float64) EdgeID {
	for _, id := range l.order {
		e := l.edges[id]
		if e.Axis == axis && math.Abs(e.Position-pos) <= DedupTolerance {
			return id
		}
	}
	return l.addEdge(axis, pos, 0, 0).ID
}

// Zones projects the layout back to flat zones, preserving region order.
// The result is recomputed on every call.
func (l *Layout) Zones() []zone.Zone {
	out := make([]zone.Zone, len(l.regions))
	for i, r := range l.regions {
		rc := l.rect(r)
		out[i] = zone.Zone{Name: r.Name, X: rc.X, Y: rc.Y, W: rc.W, H: rc.H}
	}
	return out
}

// Export validates the layout and returns its zones. A layout failing
// validation yields VALIDATION_FAILED and is left untouched for further
// edits.
func (l *Layout) Export() ([]zone.Zone, error) {
	if err := l.Check(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeValidation, err, "invalid layout")
	}
	return l.Zones(), nil
}

// Validate reports whether the layout satisfies invariants 1-4: resolvable
// references, non-degenerate regions, exact tiling and minimum size.
func (l *Layout) Validate() bool {
	return l.Check() == nil
}

// Check is Validate with a description of the first violation.
func (l *Layout) Check() error {
	if len(l.regions) == 0 {
		return fmt.Errorf("layout has no regions")
	}

	rects := make([]Rect, len(l.regions))
	for i, r := range l.regions {
		if err := l.checkRefs(r); err != nil {
			return err
		}
		rc := l.rect(r)
		if rc.W <= 0 || rc.H <= 0 {
			return fmt.Errorf("region %q is degenerate (%gx%g)", r.Name, rc.W, rc.H)
		}
		if rc.W < MinRegionSize-sizeEpsilon || rc.H < MinRegionSize-sizeEpsilon {
			return fmt.Errorf("region %q is smaller than %g (%gx%g)", r.Name, MinRegionSize, rc.W, rc.H)
		}
		if rc.X < -TilingTolerance || rc.Y < -TilingTolerance ||
			rc.Right() > 1+TilingTolerance || rc.Bottom() > 1+TilingTolerance {
			return fmt.Errorf("region %q lies outside the unit square", r.Name)
		}
		rects[i] = rc
	}

	var area float64
	for i, a := range rects {
		area += a.W * a.H
		for j := i + 1; j < len(rects); j++ {
			b := rects[j]
			ox := math.Min(a.Right(), b.Right()) - math.Max(a.X, b.X)
			oy := math.Min(a.Bottom(), b.Bottom()) - math.Max(a.Y, b.Y)
			if ox > TilingTolerance && oy > TilingTolerance {
				return fmt.Errorf("regions %q and %q overlap", l.regions[i].Name, l.regions[j].Name)
			}
		}
	}
	if math.Abs(area-1) > TilingTolerance {
		return fmt.Errorf("regions cover %.4f of the unit square", area)
	}
	return nil
}

func (l *Layout) checkRefs(r Region) error {
	sides := []struct {
		id   EdgeID
		axis Axis
		side string
	}{
		{r.Left, Vertical, "left"},
		{r.Right, Vertical, "right"},
		{r.Top, Horizontal, "top"},
		{r.Bottom, Horizontal, "bottom"},
	}
	for _, s := range sides {
		e, ok := l.edges[s.id]
		if !ok {
			return fmt.Errorf("region %q: %s edge %q does not exist", r.Name, s.side, s.id)
		}
		if e.Axis != s.axis {
			return fmt.Errorf("region %q: %s edge %q is %s", r.Name, s.side, s.id, e.Axis)
		}
	}
	return nil
}

// CheckAll checks every invariant, including the four fixed edges and the
// edge footprints maintained by RecalculateBounds.
func (l *Layout) CheckAll() error {
	if err := l.Check(); err != nil {
		return err
	}

	fixed := 0
	for _, id := range l.order {
		e := l.edges[id]
		if e.Fixed {
			fixed++
			if e.Start != 0 || e.Length != 1 || (e.Position != 0 && e.Position != 1) {
				return fmt.Errorf("fixed edge %q has moved", id)
			}
			continue
		}
		lo, hi, ok := l.footprint(e)
		if !ok {
			return fmt.Errorf("edge %q is not referenced by any region", id)
		}
		if math.Abs(e.Start-lo) > DedupTolerance || math.Abs(e.Length-(hi-lo)) > DedupTolerance {
			return fmt.Errorf("edge %q spans [%g,%g], regions span [%g,%g]", id, e.Start, e.End(), lo, hi)
		}
	}
	if fixed != 4 {
		return fmt.Errorf("layout has %d fixed edges, want 4", fixed)
	}
	return nil
}
