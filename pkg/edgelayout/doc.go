// Package edgelayout implements the edge-based planar subdivision engine used
// to edit zone layouts.
//
// # Overview
//
// A zone layout is a set of named rectangles that exactly tile the unit square
// [0,1]x[0,1]. Stored as flat rectangles (see [zone.Zone]) it is awkward to
// edit: dragging the boundary between two zones means finding and updating
// every rectangle that touches it. This package represents the same layout as
// a graph of shared boundary edges instead:
//
//   - An [Edge] is a vertical or horizontal line with a Position on the axis it
//     is perpendicular to, plus a Start/Length footprint along its own axis.
//   - A [Region] names its four sides by edge id rather than by coordinate.
//
// Adjacent regions reference the same edge, so moving a boundary is a single
// write to one Edge.Position that every dependent region observes.
//
// # Invariants
//
// Whenever no operator is running, a [Layout] satisfies:
//
//  1. Every region's edge references resolve.
//  2. Regions are non-degenerate (left < right, top < bottom).
//  3. Regions tile the unit square within [TilingTolerance].
//  4. Every region is at least [MinRegionSize] wide and tall.
//  5. Exactly four fixed boundary edges exist.
//  6. Every non-fixed edge's Start/Length is the bounding span of the regions
//     referencing it.
//
// [Layout.Validate] checks 1-4 and returns a bool. [Layout.CheckAll] checks all
// six and reports the first violation.
//
// # Operations
//
//   - [FromZones] / [Layout.Zones]: conversion to and from flat zones
//   - [Layout.SplitHorizontal] / [Layout.SplitVertical]: split a region in two
//   - [Resizer]: live edge drag (BeginDrag, UpdatePosition, EndDrag)
//   - [Layout.CanDelete] / [Layout.DeleteEdge]: remove an edge, merging the
//     regions on both sides; [Layout.Deletable] dry-runs the delete
//   - [Layout.RecalculateBounds] / [Layout.CollectGarbage]: restore invariants
//     5 and 6 after structural changes
//
// Operators that fail return an INVALID_OPERATION error from
// [github.com/matzehuels/zonesmith/pkg/errors] and leave the layout unchanged.
//
// # Concurrency
//
// A Layout is owned by a single editing session and is not safe for
// concurrent use. Callers sharing one across goroutines must serialize access.
//
// [zone.Zone]: github.com/matzehuels/zonesmith/pkg/zone.Zone
package edgelayout
