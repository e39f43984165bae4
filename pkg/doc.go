// Package pkg provides the core libraries for zonesmith zone layouts.
//
// # Overview
//
// Zonesmith edits window-snapping zone layouts: rectangles that tile the
// unit square. Instead of storing each zone's rectangle directly, layouts
// are held as a planar subdivision of shared edges, so moving one divider
// moves every zone that touches it. The pkg directory is organized into
// three areas:
//
//  1. Domain: [zone], [zonefile] and [edgelayout] (the edge graph and its
//     split, resize and merge operations)
//  2. Infrastructure: [cache], [store], [session], [observability], [errors]
//  3. Output: [render] and [pipeline] (layout → artifacts)
//
// # Architecture
//
// The typical data flow:
//
//	zone file (JSON/YAML/TOML) or template
//	         ↓
//	    [zonefile] package (decode zones)
//	         ↓
//	    [edgelayout] package (build edge graph, edit it)
//	         ↓
//	    [pipeline] package (render and cache artifacts)
//	         ↓
//	    SVG/PNG/PDF/DOT/JSON output
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/zonesmith/pkg/edgelayout"
//	    "github.com/matzehuels/zonesmith/pkg/zone"
//	)
//
//	l, err := edgelayout.FromZones(zone.Default())
//	if err != nil {
//	    return err
//	}
//	edge, err := l.SplitHorizontal(1, 0.5) // split the right half
//	if err != nil {
//	    return err
//	}
//	if _, err := l.MoveEdge(edge, 0.8); err != nil {
//	    return err
//	}
//	zones, err := l.Export()
//
// # Invariants
//
// Every edit leaves the layout valid: regions tile the unit square without
// overlap, every region is at least [edgelayout.MinRegionSize] on both
// axes, and every edge span covers exactly the regions that reference it.
// Operations that would break this are rejected and leave the layout
// untouched.
//
// [zone]: https://pkg.go.dev/github.com/matzehuels/zonesmith/pkg/zone
// [zonefile]: https://pkg.go.dev/github.com/matzehuels/zonesmith/pkg/zonefile
// [edgelayout]: https://pkg.go.dev/github.com/matzehuels/zonesmith/pkg/edgelayout
// [cache]: https://pkg.go.dev/github.com/matzehuels/zonesmith/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/zonesmith/pkg/store
// [session]: https://pkg.go.dev/github.com/matzehuels/zonesmith/pkg/session
// [observability]: https://pkg.go.dev/github.com/matzehuels/zonesmith/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/zonesmith/pkg/errors
// [render]: https://pkg.go.dev/github.com/matzehuels/zonesmith/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/zonesmith/pkg/pipeline
package pkg
