// Package tui implements the interactive terminal layout editor.
//
// The editor is a bubbletea model over a [session.Session]: it draws the
// zones with the term renderer, keeps a selected region and edge, and maps
// key presses onto session operations.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/zonesmith/pkg/edgelayout"
	"github.com/matzehuels/zonesmith/pkg/errors"
	"github.com/matzehuels/zonesmith/pkg/render/term"
	"github.com/matzehuels/zonesmith/pkg/session"
	"github.com/matzehuels/zonesmith/pkg/store"
)

// Step is how far one arrow key press drags the selected edge.
const Step = 0.05

// noticeTTL is how long a notice stays on screen.
const noticeTTL = 3 * time.Second

var (
	colorCyan  = lipgloss.Color("36")
	colorGreen = lipgloss.Color("35")
	colorRed   = lipgloss.Color("167")
	colorGray  = lipgloss.Color("245")
	colorDim   = lipgloss.Color("240")

	styleTitle    = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleHelp     = lipgloss.NewStyle().Foreground(colorDim)
	styleInfo     = lipgloss.NewStyle().Foreground(colorGreen)
	styleError    = lipgloss.NewStyle().Foreground(colorRed)
	styleHeader   = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleSelected = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
)

const help = "tab region  e edge  ←↑↓→ drag  | split  - stack  x delete  s save  q quit"

// clearNoticeMsg expires the notice with the given sequence number.
type clearNoticeMsg struct{ seq int }

// Model is the editor state.
type Model struct {
	ctx   context.Context
	sess  *session.Session
	store store.Store

	selected int
	edge     edgelayout.EdgeID

	width, height int

	notice    string
	noticeErr bool
	noticeSeq int

	saved bool
	plain bool
}

// New creates an editor for sess. st may be nil, in which case saving is
// refused with a notice.
func New(ctx context.Context, sess *session.Session, st store.Store) Model {
	return Model{
		ctx:    ctx,
		sess:   sess,
		store:  st,
		width:  term.DefaultCols,
		height: term.DefaultRows,
	}
}

// WithPlain disables colors in the layout drawing.
func (m Model) WithPlain() Model {
	m.plain = true
	return m
}

// Saved reports whether the layout was saved at least once.
func (m Model) Saved() bool { return m.saved }

// Selected returns the index of the selected region.
func (m Model) Selected() int { return m.selected }

// SelectedEdge returns the selected edge, or "" when none is selected.
func (m Model) SelectedEdge() edgelayout.EdgeID { return m.edge }

// Notice returns the current notice text.
func (m Model) Notice() string { return m.notice }

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = max(term.DefaultCols/2, msg.Width-2)
		m.height = max(term.DefaultRows/2, msg.Height-8)
		return m, nil
	case clearNoticeMsg:
		if msg.seq == m.noticeSeq {
			m.notice = ""
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		m.sess.CancelDrag()
		return m, tea.Quit
	case "tab":
		return m.selectRegion(m.selected + 1), nil
	case "shift+tab":
		return m.selectRegion(m.selected - 1), nil
	case "e":
		return m.cycleEdge()
	case "|":
		return m.split(session.Horizontal)
	case "-":
		return m.split(session.Vertical)
	case "left", "h":
		return m.drag(edgelayout.Vertical, -Step)
	case "right", "l":
		return m.drag(edgelayout.Vertical, Step)
	case "up", "k":
		return m.drag(edgelayout.Horizontal, -Step)
	case "down", "j":
		return m.drag(edgelayout.Horizontal, Step)
	case "x", "delete":
		return m.deleteEdge()
	case "s":
		return m.save()
	}
	return m, nil
}

func (m Model) selectRegion(i int) Model {
	n := len(m.sess.Snapshot().Regions)
	if n == 0 {
		return m
	}
	m.selected = (i%n + n) % n
	m.edge = ""
	return m
}

// movableEdges returns the non-fixed edges bounding the selected region in
// left, right, top, bottom order.
func (m Model) movableEdges(snap session.Snapshot) []edgelayout.EdgeID {
	if m.selected < 0 || m.selected >= len(snap.Regions) {
		return nil
	}
	fixed := make(map[edgelayout.EdgeID]bool, len(snap.Edges))
	for _, e := range snap.Edges {
		fixed[e.ID] = e.Fixed
	}
	r := snap.Regions[m.selected]
	var out []edgelayout.EdgeID
	for _, id := range []edgelayout.EdgeID{r.Left, r.Right, r.Top, r.Bottom} {
		if !fixed[id] {
			out = append(out, id)
		}
	}
	return out
}

func (m Model) cycleEdge() (tea.Model, tea.Cmd) {
	edges := m.movableEdges(m.sess.Snapshot())
	if len(edges) == 0 {
		m.edge = ""
		return m.info("region has no movable edges")
	}
	next := 0
	for i, id := range edges {
		if id == m.edge {
			next = (i + 1) % len(edges)
			break
		}
	}
	m.edge = edges[next]
	return m, nil
}

// split divides the selected region through its center.
func (m Model) split(dir session.Direction) (tea.Model, tea.Cmd) {
	snap := m.sess.Snapshot()
	if m.selected >= len(snap.Zones) {
		return m, nil
	}
	z := snap.Zones[m.selected]
	at := z.CenterX()
	if dir == session.Vertical {
		at = z.CenterY()
	}
	id, err := m.sess.Split(m.ctx, m.selected, dir, at)
	if err != nil {
		return m.fail(err)
	}
	m.edge = id
	return m.info(fmt.Sprintf("added edge %s", id))
}

// drag moves the selected edge one step when it runs along axis. Each
// press is a complete drag so the layout is committed between keys.
func (m Model) drag(axis edgelayout.Axis, delta float64) (tea.Model, tea.Cmd) {
	if m.edge == "" {
		return m.info("select an edge with e first")
	}
	var e edgelayout.Edge
	for _, cand := range m.sess.Snapshot().Edges {
		if cand.ID == m.edge {
			e = cand
		}
	}
	if e.ID == "" {
		m.edge = ""
		return m, nil
	}
	if e.Axis != axis {
		return m, nil
	}
	if err := m.sess.BeginDrag(m.ctx, e.ID); err != nil {
		return m.fail(err)
	}
	if _, err := m.sess.UpdateDrag(e.Position + delta); err != nil {
		m.sess.CancelDrag()
		return m.fail(err)
	}
	m.sess.EndDrag(m.ctx)
	return m, nil
}

func (m Model) deleteEdge() (tea.Model, tea.Cmd) {
	if m.edge == "" {
		return m.info("select an edge with e first")
	}
	if !m.sess.Deletable(m.edge) {
		return m.fail(errors.New(errors.ErrCodeInvalidOperation, "edge %s cannot be deleted", m.edge))
	}
	if err := m.sess.DeleteEdge(m.ctx, m.edge); err != nil {
		return m.fail(err)
	}
	deleted := m.edge
	m = m.selectRegion(m.selected)
	return m.info(fmt.Sprintf("deleted edge %s", deleted))
}

func (m Model) save() (tea.Model, tea.Cmd) {
	if m.store == nil {
		return m.fail(errors.New(errors.ErrCodeUnsupported, "no store configured"))
	}
	if err := m.sess.Save(m.ctx, m.store, ""); err != nil {
		return m.fail(err)
	}
	m.saved = true
	return m.info(fmt.Sprintf("saved %s", m.sess.Name()))
}

func (m Model) info(text string) (tea.Model, tea.Cmd) {
	return m.setNotice(text, false)
}

func (m Model) fail(err error) (tea.Model, tea.Cmd) {
	return m.setNotice(errors.UserMessage(err), true)
}

func (m Model) setNotice(text string, isErr bool) (tea.Model, tea.Cmd) {
	m.noticeSeq++
	m.notice, m.noticeErr = text, isErr
	seq := m.noticeSeq
	return m, tea.Tick(noticeTTL, func(time.Time) tea.Msg { return clearNoticeMsg{seq: seq} })
}

func (m Model) View() string {
	snap := m.sess.Snapshot()

	var b strings.Builder
	title := snap.Name
	if title == "" {
		title = "untitled"
	}
	b.WriteString(styleTitle.Render(title))
	if !snap.Valid {
		b.WriteString(" " + styleError.Render("(invalid)"))
	}
	b.WriteString("\n\n")

	opts := []term.Option{term.WithSize(m.width, m.height), term.WithSelected(m.selected)}
	for _, e := range snap.Edges {
		if e.ID == m.edge {
			opts = append(opts, term.WithEdge(e))
		}
	}
	if m.plain {
		opts = append(opts, term.Plain())
	}
	b.WriteString(term.Render(snap.Zones, opts...))
	b.WriteString("\n")
	b.WriteString(m.regionTable(snap))
	b.WriteString("\n")

	switch {
	case m.notice == "":
		b.WriteString("\n")
	case m.noticeErr:
		b.WriteString(styleError.Render("✗ "+m.notice) + "\n")
	default:
		b.WriteString(styleInfo.Render("✓ "+m.notice) + "\n")
	}
	b.WriteString(styleHelp.Render(help))
	return b.String()
}

func (m Model) regionTable(snap session.Snapshot) string {
	rows := make([][]string, len(snap.Zones))
	for i, z := range snap.Zones {
		rows[i] = []string{z.Name, f3(z.X), f3(z.Y), f3(z.W), f3(z.H)}
	}
	edge := "-"
	if m.edge != "" {
		edge = string(m.edge)
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Region", "x", "y", "w", "h").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return styleHeader
			case row == m.selected:
				return styleSelected
			}
			return lipgloss.NewStyle()
		})
	return t.Render() + "\n" + styleHelp.Render("edge: "+edge)
}

func f3(v float64) string { return fmt.Sprintf("%.3f", v) }
