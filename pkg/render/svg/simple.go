package svg

import (
	"bytes"
	"fmt"
)

var simpleFills = []string{"#dbeafe", "#dcfce7", "#fef3c7", "#fce7f3", "#ede9fe", "#cffafe", "#ffedd5", "#e5e7eb"}

// Simple draws flat pastel regions with dark outlines.
type Simple struct{}

// Name returns the style name used in options and config.
func (Simple) Name() string { return "simple" }

// RenderDefs writes the background and shared definitions.
func (Simple) RenderDefs(buf *bytes.Buffer, width, height float64) {
	fmt.Fprintf(buf, `  <rect x="0" y="0" width="%.1f" height="%.1f" fill="#ffffff"/>`+"\n", width, height)
}

// RenderRegion draws one zone rectangle.
func (Simple) RenderRegion(buf *bytes.Buffer, r Region) {
	stroke, sw := "#1f2937", 2.0
	if r.Selected {
		stroke, sw = "#2563eb", 5.0
	}
	fmt.Fprintf(buf, `  <rect id="zone-%d" class="zone" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" stroke="%s" stroke-width="%.1f"/>`+"\n",
		r.Index, r.X, r.Y, r.W, r.H, simpleFills[r.Index%len(simpleFills)], stroke, sw)
}

// RenderEdge draws a movable edge footprint. Fixed edges are skipped.
func (Simple) RenderEdge(buf *bytes.Buffer, e Edge) {
	if e.Fixed {
		return
	}
	fmt.Fprintf(buf, `  <line id="edge-%s" class="edge" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="#ef4444" stroke-width="6" stroke-opacity="0.6" stroke-linecap="round"/>`+"\n",
		escape(e.ID), e.X1, e.Y1, e.X2, e.Y2)
}

// RenderLabel writes the zone name centered in its rectangle.
func (Simple) RenderLabel(buf *bytes.Buffer, r Region) {
	fmt.Fprintf(buf, `  <text x="%.2f" y="%.2f" font-family="sans-serif" font-size="%.1f" text-anchor="middle" dominant-baseline="middle" fill="#111827">%s</text>`+"\n",
		r.CX(), r.CY(), FontSize(r), escape(TruncateLabel(r)))
}
