package svg

import (
	"bytes"
	"fmt"
)

// Blueprint draws the layout as a technical drawing: white outlines on a
// blue grid with each region's size printed under its name.
type Blueprint struct{}

// Name returns the style name used in options and config.
func (Blueprint) Name() string { return "blueprint" }

// RenderDefs writes the background and shared definitions.
func (Blueprint) RenderDefs(buf *bytes.Buffer, width, height float64) {
	buf.WriteString(`  <defs>
    <pattern id="grid" width="40" height="40" patternUnits="userSpaceOnUse">
      <path d="M 40 0 L 0 0 0 40" fill="none" stroke="#3b6fb6" stroke-width="1"/>
    </pattern>
  </defs>
`)
	fmt.Fprintf(buf, `  <rect x="0" y="0" width="%.1f" height="%.1f" fill="#1e3a8a"/>`+"\n", width, height)
	fmt.Fprintf(buf, `  <rect x="0" y="0" width="%.1f" height="%.1f" fill="url(#grid)"/>`+"\n", width, height)
}

// RenderRegion draws one zone rectangle.
func (Blueprint) RenderRegion(buf *bytes.Buffer, r Region) {
	dash := ` stroke-dasharray="10 6"`
	if r.Selected {
		dash = ""
	}
	fmt.Fprintf(buf, `  <rect id="zone-%d" class="zone" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="none" stroke="#f8fafc" stroke-width="2"%s/>`+"\n",
		r.Index, r.X, r.Y, r.W, r.H, dash)
}

// RenderEdge draws a movable edge footprint. Fixed edges are skipped.
func (Blueprint) RenderEdge(buf *bytes.Buffer, e Edge) {
	if e.Fixed {
		return
	}
	fmt.Fprintf(buf, `  <line id="edge-%s" class="edge" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="#facc15" stroke-width="3"/>`+"\n",
		escape(e.ID), e.X1, e.Y1, e.X2, e.Y2)
	fmt.Fprintf(buf, `  <circle cx="%.2f" cy="%.2f" r="5" fill="#facc15"/>`+"\n", (e.X1+e.X2)/2, (e.Y1+e.Y2)/2)
}

// RenderLabel writes the zone name centered in its rectangle.
func (Blueprint) RenderLabel(buf *bytes.Buffer, r Region) {
	size := FontSize(r)
	fmt.Fprintf(buf, `  <text x="%.2f" y="%.2f" font-family="monospace" font-size="%.1f" text-anchor="middle" fill="#f8fafc">%s</text>`+"\n",
		r.CX(), r.CY(), size, escape(TruncateLabel(r)))
	fmt.Fprintf(buf, `  <text x="%.2f" y="%.2f" font-family="monospace" font-size="%.1f" text-anchor="middle" fill="#93c5fd">%.0f × %.0f</text>`+"\n",
		r.CX(), r.CY()+size*1.2, size*0.6, r.W, r.H)
}
