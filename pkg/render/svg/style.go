package svg

import "bytes"

// Style defines the visual appearance of a rendered layout.
type Style interface {
	// Name identifies the style in cache keys and flags.
	Name() string
	// RenderDefs writes SVG <defs> and background content.
	RenderDefs(buf *bytes.Buffer, width, height float64)
	// RenderRegion writes the shape of one zone.
	RenderRegion(buf *bytes.Buffer, r Region)
	// RenderEdge writes one edge overlay line.
	RenderEdge(buf *bytes.Buffer, e Edge)
	// RenderLabel writes a zone's label.
	RenderLabel(buf *bytes.Buffer, r Region)
}

// Region is a zone scaled into the pixel frame.
type Region struct {
	Index      int
	Name       string
	X, Y, W, H float64
	Selected   bool
}

// CX returns the horizontal center.
func (r Region) CX() float64 { return r.X + r.W/2 }

// CY returns the vertical center.
func (r Region) CY() float64 { return r.Y + r.H/2 }

// Edge is an edge footprint scaled into the pixel frame.
type Edge struct {
	ID             string
	X1, Y1, X2, Y2 float64
	Fixed          bool
}

// Styles returns the built-in styles by name.
func Styles() map[string]Style {
	return map[string]Style{
		Simple{}.Name():    Simple{},
		Blueprint{}.Name(): Blueprint{},
	}
}

// StyleByName looks up a built-in style, defaulting to Simple for an empty
// name.
func StyleByName(name string) (Style, bool) {
	if name == "" {
		return Simple{}, true
	}
	s, ok := Styles()[name]
	return s, ok
}
