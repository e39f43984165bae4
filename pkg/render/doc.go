// Package render holds the output formats of zonesmith layouts.
//
// # Overview
//
// Each subpackage draws a layout a different way:
//
//   - [svg]: the zones themselves in a pixel frame, with optional edge overlay
//   - [adjacency]: the region adjacency graph through Graphviz
//   - [term]: a character-grid preview for terminals
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg).
//
//	out := svg.Render(zones)
//	pdf, err := render.ToPDF(ctx, out)
//	png, err := render.ToPNG(ctx, out, 2.0)  // 2x scale
//
// [svg]: github.com/matzehuels/zonesmith/pkg/render/svg
// [adjacency]: github.com/matzehuels/zonesmith/pkg/render/adjacency
// [term]: github.com/matzehuels/zonesmith/pkg/render/term
package render
