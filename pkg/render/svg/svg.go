package svg

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/zonesmith/pkg/edgelayout"
	"github.com/matzehuels/zonesmith/pkg/zone"
)

// Default frame size.
const (
	DefaultWidth  = 1920
	DefaultHeight = 1080
)

// Option configures Render.
type Option func(*renderer)

type renderer struct {
	width, height int
	style         Style
	edges         []edgelayout.Edge
	selected      int
	labels        bool
}

// WithSize sets the pixel frame. Non-positive sizes keep the default.
func WithSize(width, height int) Option {
	return func(r *renderer) {
		if width > 0 && height > 0 {
			r.width, r.height = width, height
		}
	}
}

// WithStyle sets the drawing style.
func WithStyle(s Style) Option { return func(r *renderer) { r.style = s } }

// WithEdges overlays the footprint of each movable edge as an element with
// id "edge-<id>".
func WithEdges(edges []edgelayout.Edge) Option { return func(r *renderer) { r.edges = edges } }

// WithSelected highlights the zone at index. Negative means none.
func WithSelected(index int) Option { return func(r *renderer) { r.selected = index } }

// WithoutLabels omits zone names.
func WithoutLabels() Option { return func(r *renderer) { r.labels = false } }

// Render draws zones into an SVG document.
func Render(zones []zone.Zone, opts ...Option) []byte {
	r := renderer{width: DefaultWidth, height: DefaultHeight, style: Simple{}, selected: -1, labels: true}
	for _, opt := range opts {
		opt(&r)
	}

	regions := make([]Region, len(zones))
	for i, z := range zones {
		px := zone.Scale(z, r.width, r.height)
		regions[i] = Region{
			Index:    i,
			Name:     z.Name,
			X:        float64(px.X),
			Y:        float64(px.Y),
			W:        float64(px.Width),
			H:        float64(px.Height),
			Selected: i == r.selected,
		}
	}

	w, h := float64(r.width), float64(r.height)
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%d" height="%d">`+"\n",
		w, h, r.width, r.height)

	r.style.RenderDefs(&buf, w, h)
	for _, reg := range regions {
		r.style.RenderRegion(&buf, reg)
	}
	for _, e := range r.edges {
		r.style.RenderEdge(&buf, scaleEdge(e, w, h))
	}
	if r.labels {
		for _, reg := range regions {
			r.style.RenderLabel(&buf, reg)
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// scaleEdge maps an edge's footprint into the frame. Vertical edges run
// along y at x=Position; horizontal ones along x at y=Position.
func scaleEdge(e edgelayout.Edge, w, h float64) Edge {
	out := Edge{ID: string(e.ID), Fixed: e.Fixed}
	if e.Axis == edgelayout.Vertical {
		out.X1, out.X2 = e.Position*w, e.Position*w
		out.Y1, out.Y2 = e.Start*h, e.End()*h
	} else {
		out.Y1, out.Y2 = e.Position*h, e.Position*h
		out.X1, out.X2 = e.Start*w, e.End()*w
	}
	return out
}
