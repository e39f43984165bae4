package zone

import (
	"math"
	"time"
)

// Zone is a named rectangle in normalized screen coordinates.
type Zone struct {
	Name string  `json:"name" bson:"name" toml:"name" yaml:"name" msgpack:"name"`
	X    float64 `json:"x" bson:"x" toml:"x" yaml:"x" msgpack:"x"`
	Y    float64 `json:"y" bson:"y" toml:"y" yaml:"y" msgpack:"y"`
	W    float64 `json:"w" bson:"w" toml:"w" yaml:"w" msgpack:"w"`
	H    float64 `json:"h" bson:"h" toml:"h" yaml:"h" msgpack:"h"`
}

// Right returns the x coordinate of the zone's right side.
func (z Zone) Right() float64 { return z.X + z.W }

// Bottom returns the y coordinate of the zone's bottom side.
func (z Zone) Bottom() float64 { return z.Y + z.H }

// Area returns the normalized area of the zone.
func (z Zone) Area() float64 { return z.W * z.H }

// CenterX returns the horizontal center of the zone.
func (z Zone) CenterX() float64 { return z.X + z.W/2 }

// CenterY returns the vertical center of the zone.
func (z Zone) CenterY() float64 { return z.Y + z.H/2 }

// Contains reports whether the point (x, y) lies inside the zone.
// The left and top sides are inclusive, the right and bottom sides exclusive,
// so a point on a shared boundary belongs to exactly one zone.
func (z Zone) Contains(x, y float64) bool {
	return x >= z.X && x < z.Right() && y >= z.Y && y < z.Bottom()
}

// Equal reports whether two zones describe the same rectangle within tol.
// Names are ignored.
func (z Zone) Equal(o Zone, tol float64) bool {
	return math.Abs(z.X-o.X) <= tol &&
		math.Abs(z.Y-o.Y) <= tol &&
		math.Abs(z.W-o.W) <= tol &&
		math.Abs(z.H-o.H) <= tol
}

// Layout is a named, ordered zone list as persisted by storage backends.
type Layout struct {
	Name        string    `json:"name" bson:"_id" toml:"name" yaml:"name" msgpack:"name"`
	Description string    `json:"description,omitempty" bson:"description,omitempty" toml:"description,omitempty" yaml:"description,omitempty" msgpack:"description,omitempty"`
	Zones       []Zone    `json:"zones" bson:"zones" toml:"zones" yaml:"zones" msgpack:"zones"`
	UpdatedAt   time.Time `json:"updated_at,omitzero" bson:"updated_at" toml:"updated_at,omitempty" yaml:"updated_at,omitempty" msgpack:"updated_at"`
}

// Clone returns a deep copy of the layout.
func (l *Layout) Clone() *Layout {
	if l == nil {
		return nil
	}
	c := *l
	c.Zones = append([]Zone(nil), l.Zones...)
	return &c
}

// At returns the index of the first zone containing (x, y), or -1.
func At(zones []Zone, x, y float64) int {
	for i, z := range zones {
		if z.Contains(x, y) {
			return i
		}
	}
	return -1
}

// Rect is a zone projected into a pixel frame.
type Rect struct {
	Name          string
	X, Y          int
	Width, Height int
}

// Scale projects a normalized zone into a width x height pixel frame.
// Edges are rounded independently so adjacent zones share pixel boundaries
// without gaps.
func Scale(z Zone, width, height int) Rect {
	x0 := int(math.Round(z.X * float64(width)))
	y0 := int(math.Round(z.Y * float64(height)))
	x1 := int(math.Round(z.Right() * float64(width)))
	y1 := int(math.Round(z.Bottom() * float64(height)))
	return Rect{Name: z.Name, X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}
