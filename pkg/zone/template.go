package zone

import (
	"fmt"
	"slices"
)

// DefaultTemplate is the template used when no zones are supplied.
const DefaultTemplate = "halves"

var templates = map[string]func() []Zone{
	"halves": func() []Zone {
		return []Zone{
			{Name: "Left", X: 0, Y: 0, W: 0.5, H: 1},
			{Name: "Right", X: 0.5, Y: 0, W: 0.5, H: 1},
		}
	},
	"thirds": func() []Zone {
		return columns(3)
	},
	"columns-4": func() []Zone {
		return columns(4)
	},
	"quarters": func() []Zone {
		return grid(2, 2)
	},
	"grid-3x2": func() []Zone {
		return grid(3, 2)
	},
	"main-side": func() []Zone {
		return []Zone{
			{Name: "Main", X: 0, Y: 0, W: 2.0 / 3, H: 1},
			{Name: "Side", X: 2.0 / 3, Y: 0, W: 1.0 / 3, H: 1},
		}
	},
}

// Default returns the built-in 2-zone 50/50 layout.
func Default() []Zone {
	return templates[DefaultTemplate]()
}

// Template returns a fresh copy of the named built-in template.
func Template(name string) ([]Zone, error) {
	fn, ok := templates[name]
	if !ok {
		return nil, fmt.Errorf("unknown template %q (available: %v)", name, TemplateNames())
	}
	return fn(), nil
}

// TemplateNames returns the built-in template names in sorted order.
func TemplateNames() []string {
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func columns(n int) []Zone {
	zones := make([]Zone, n)
	for i := range n {
		zones[i] = Zone{
			Name: fmt.Sprintf("Zone %d", i+1),
			X:    float64(i) / float64(n),
			Y:    0,
			W:    1 / float64(n),
			H:    1,
		}
	}
	return zones
}

func grid(cols, rows int) []Zone {
	zones := make([]Zone, 0, cols*rows)
	for r := range rows {
		for c := range cols {
			zones = append(zones, Zone{
				Name: fmt.Sprintf("Zone %d", len(zones)+1),
				X:    float64(c) / float64(cols),
				Y:    float64(r) / float64(rows),
				W:    1 / float64(cols),
				H:    1 / float64(rows),
			})
		}
	}
	return zones
}
