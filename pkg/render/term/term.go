// Package term draws zone layouts as box-drawing character grids.
//
// The preview is used by the CLI's show command and the interactive editor.
// Colors come from lipgloss and degrade to plain text when the output is
// not a terminal.
//
//	fmt.Println(term.Render(zones, term.WithSize(60, 20), term.WithSelected(0)))
package term

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/zonesmith/pkg/edgelayout"
	"github.com/matzehuels/zonesmith/pkg/zone"
)

// Default grid size in characters.
const (
	DefaultCols = 60
	DefaultRows = 20
)

const minCells = 3

var (
	palette = []lipgloss.Color{"36", "75", "35", "220", "170", "208", "141", "114"}

	styleBorder   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	styleEdge     = lipgloss.NewStyle().Foreground(lipgloss.Color("167")).Bold(true)
	styleSelected = lipgloss.NewStyle().Reverse(true).Bold(true)
)

// Option configures Render.
type Option func(*options)

type options struct {
	cols, rows int
	selected   int
	edge       *edgelayout.Edge
	plain      bool
}

// WithSize sets the grid size. Values below 3 are raised to 3.
func WithSize(cols, rows int) Option {
	return func(o *options) { o.cols, o.rows = max(minCells, cols), max(minCells, rows) }
}

// WithSelected highlights the region at index.
func WithSelected(index int) Option { return func(o *options) { o.selected = index } }

// WithEdge highlights an edge's footprint.
func WithEdge(e edgelayout.Edge) Option { return func(o *options) { o.edge = &e } }

// Plain disables styling.
func Plain() Option { return func(o *options) { o.plain = true } }

// Direction bits of a box-drawing cell.
const (
	up uint8 = 1 << iota
	down
	left
	right
)

var boxRunes = map[uint8]rune{
	up: '│', down: '│', up | down: '│',
	left: '─', right: '─', left | right: '─',
	right | down: '┌', left | down: '┐', up | right: '└', up | left: '┘',
	up | down | right: '├', up | down | left: '┤',
	left | right | down: '┬', left | right | up: '┴',
	up | down | left | right: '┼',
}

// Cell owners other than region indices.
const (
	ownerBorder = -1
	ownerEdge   = -2
)

type cell struct {
	bits  uint8
	label rune
	owner int
}

type grid struct {
	cols, rows int
	cells      [][]cell
}

func newGrid(cols, rows int) *grid {
	g := &grid{cols: cols, rows: rows, cells: make([][]cell, rows)}
	for y := range g.cells {
		g.cells[y] = make([]cell, cols)
		for x := range g.cells[y] {
			g.cells[y][x].owner = ownerBorder
		}
	}
	return g
}

func (g *grid) hline(y, x0, x1, owner int) {
	for x := x0; x <= x1; x++ {
		c := &g.cells[y][x]
		if x > x0 {
			c.bits |= left
		}
		if x < x1 {
			c.bits |= right
		}
		if owner != ownerBorder {
			c.owner = owner
		}
	}
}

func (g *grid) vline(x, y0, y1, owner int) {
	for y := y0; y <= y1; y++ {
		c := &g.cells[y][x]
		if y > y0 {
			c.bits |= up
		}
		if y < y1 {
			c.bits |= down
		}
		if owner != ownerBorder {
			c.owner = owner
		}
	}
}

// Render draws zones on a character grid. Zone borders are shared lines, so
// adjacent zones meet in a single column or row.
func Render(zones []zone.Zone, opts ...Option) string {
	o := options{cols: DefaultCols, rows: DefaultRows, selected: -1}
	for _, opt := range opts {
		opt(&o)
	}

	g := newGrid(o.cols, o.rows)
	w, h := o.cols-1, o.rows-1
	for i, z := range zones {
		px := zone.Scale(z, w, h)
		x0, y0 := clamp(px.X, w), clamp(px.Y, h)
		x1, y1 := clamp(px.X+px.Width, w), clamp(px.Y+px.Height, h)
		if x1 < x0 || y1 < y0 {
			continue
		}
		g.hline(y0, x0, x1, ownerBorder)
		g.hline(y1, x0, x1, ownerBorder)
		g.vline(x0, y0, y1, ownerBorder)
		g.vline(x1, y0, y1, ownerBorder)
		for y := y0 + 1; y < y1; y++ {
			for x := x0 + 1; x < x1; x++ {
				g.cells[y][x].owner = i
			}
		}
		g.label(z.Name, x0, x1, (y0+y1)/2)
	}
	if e := o.edge; e != nil {
		g.overlay(*e, w, h)
	}
	return g.String(o)
}

func (g *grid) label(name string, x0, x1, y int) {
	width := x1 - x0 - 1
	if width <= 0 {
		return
	}
	runes := []rune(name)
	if len(runes) > width {
		runes = append(runes[:width-1], '…')
	}
	start := x0 + 1 + (width-len(runes))/2
	for i, r := range runes {
		g.cells[y][start+i].label = r
	}
}

func (g *grid) overlay(e edgelayout.Edge, w, h int) {
	at := func(v float64, n int) int { return clamp(int(math.Round(v*float64(n))), n) }
	if e.Axis == edgelayout.Vertical {
		g.vline(at(e.Position, w), at(e.Start, h), at(e.End(), h), ownerEdge)
	} else {
		g.hline(at(e.Position, h), at(e.Start, w), at(e.End(), w), ownerEdge)
	}
}

func (c cell) rune() rune {
	if c.bits != 0 {
		return boxRunes[c.bits]
	}
	if c.label != 0 {
		return c.label
	}
	return ' '
}

func (g *grid) String(o options) string {
	var b strings.Builder
	for y, row := range g.cells {
		if y > 0 {
			b.WriteByte('\n')
		}
		var run []rune
		owner := row[0].owner
		flush := func() {
			if len(run) == 0 {
				return
			}
			if o.plain {
				b.WriteString(string(run))
			} else {
				b.WriteString(styleFor(owner, o.selected).Render(string(run)))
			}
			run = run[:0]
		}
		for _, c := range row {
			if c.owner != owner {
				flush()
				owner = c.owner
			}
			run = append(run, c.rune())
		}
		flush()
	}
	return b.String()
}

func styleFor(owner, selected int) lipgloss.Style {
	switch {
	case owner == ownerBorder:
		return styleBorder
	case owner == ownerEdge:
		return styleEdge
	case owner == selected:
		return styleSelected.Foreground(palette[owner%len(palette)])
	default:
		return lipgloss.NewStyle().Foreground(palette[owner%len(palette)])
	}
}

func clamp(v, n int) int { return max(0, min(n, v)) }
