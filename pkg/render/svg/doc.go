// Package svg draws zone layouts as SVG.
//
// Zones are scaled from normalized coordinates into a pixel frame and drawn
// by a pluggable [Style]. Two styles ship with the package: [Simple], flat
// fills with labels, and [Blueprint], a dark grid with dimension
// annotations.
//
//	out := svg.Render(zones, svg.WithSize(1920, 1080), svg.WithStyle(svg.Blueprint{}))
//
// [WithEdges] overlays the edge graph: each edge is drawn over its
// Start/Length footprint, which is exactly the hit-target a drag handle
// covers in an interactive editor.
package svg
