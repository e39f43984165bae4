// Package zone defines the flat, persisted representation of a zone layout.
//
// A [Zone] is a named, axis-aligned rectangle in normalized [0,1]x[0,1] screen
// space. A [Layout] is an ordered list of zones that together cover the unit
// square without overlapping. This is the format exchanged with storage
// backends, zone files and renderers; interactive editing happens on the
// edge graph in [edgelayout], which converts to and from this format.
//
// # Templates
//
// A handful of built-in templates serve as starting points:
//
//	halves      two columns, 50/50 (the default)
//	thirds      three equal columns
//	quarters    2x2 grid
//	main-side   2/3 main column plus a 1/3 side column
//	columns-4   four equal columns
//	grid-3x2    three columns, two rows
//
// Use [Default] for the default template and [Template] to look one up by name.
//
// [edgelayout]: github.com/matzehuels/zonesmith/pkg/edgelayout
package zone
