package adjacency

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/zonesmith/pkg/edgelayout"
	"github.com/matzehuels/zonesmith/pkg/errors"
	"github.com/matzehuels/zonesmith/pkg/render"
)

// Options configures adjacency graph rendering.
type Options struct {
	// Detailed adds each region's rectangle to its label.
	Detailed bool

	// Selected highlights one region. Negative means none.
	Selected int
}

// ToDOT converts a layout's region adjacency to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG], [RenderPDF], or [RenderPNG].
//
// Regions are laid out with neato so the picture roughly follows their
// positions in the unit square.
func ToDOT(l *edgelayout.Layout, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=18, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=12, fontcolor=\"#6b7280\"];\n")
	buf.WriteString("\n")

	for i, r := range l.Regions() {
		rc, _ := l.Rect(i)
		attrs := []string{
			fmt.Sprintf("label=%q", fmtLabel(r, rc, opts.Detailed)),
			fmt.Sprintf("pos=\"%.2f,%.2f\"", (rc.X+rc.W/2)*8, (1-(rc.Y+rc.H/2))*6),
		}
		if i == opts.Selected {
			attrs = append(attrs, "fillcolor=\"#dbeafe\"", "color=\"#2563eb\"", "penwidth=2")
		}
		fmt.Fprintf(&buf, "  %s [%s];\n", nodeID(i), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, a := range l.Adjacencies() {
		fmt.Fprintf(&buf, "  %s -- %s [label=%q];\n", nodeID(a.Near), nodeID(a.Far), string(a.Edge))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(i int) string { return "r" + strconv.Itoa(i) }

func fmtLabel(r edgelayout.Region, rc edgelayout.Rect, detailed bool) string {
	if !detailed {
		return r.Name
	}
	return fmt.Sprintf("%s\nx: %.3f  y: %.3f\nw: %.3f  h: %.3f", r.Name, rc.X, rc.Y, rc.W, rc.H)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.-]+)\s+([0-9.-]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-sized svg tag with one that
// scales to its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion at the given scale.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
