// Package adjacency renders the region adjacency graph of a layout.
//
// # Overview
//
// Every region becomes a node and every pair of regions that touch across
// a shared interior edge becomes a link labelled with that edge's id. The
// graph shows at a glance which edges a merge or drag would affect.
//
// # Usage
//
//	dot := adjacency.ToDOT(layout, adjacency.Options{Detailed: true})
//	svg, err := adjacency.RenderSVG(ctx, dot)
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package adjacency
