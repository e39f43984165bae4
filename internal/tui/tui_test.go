package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/zonesmith/pkg/edgelayout"
	"github.com/matzehuels/zonesmith/pkg/session"
	"github.com/matzehuels/zonesmith/pkg/store"
	"github.com/matzehuels/zonesmith/pkg/zone"
)

func newModel(t *testing.T, st store.Store) (Model, *session.Session) {
	t.Helper()
	l, err := edgelayout.FromZones(zone.Default())
	require.NoError(t, err)
	sess := session.New("desk", l)
	return New(context.Background(), sess, st).WithPlain(), sess
}

func key(k string) tea.KeyMsg {
	switch k {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(Model)
	}
	return m
}

func zonesOf(s *session.Session) []zone.Zone { return s.Snapshot().Zones }

func TestSelectRegion(t *testing.T) {
	m, _ := newModel(t, nil)
	assert.Equal(t, 0, m.Selected())

	m = press(t, m, "tab")
	assert.Equal(t, 1, m.Selected())
	m = press(t, m, "tab")
	assert.Equal(t, 0, m.Selected())
	m = press(t, m, "shift+tab")
	assert.Equal(t, 1, m.Selected())
}

func TestCycleEdge(t *testing.T) {
	m, _ := newModel(t, nil)
	m = press(t, m, "e")
	assert.Equal(t, edgelayout.EdgeID("v1"), m.SelectedEdge())

	// The left half has a single movable edge.
	m = press(t, m, "e")
	assert.Equal(t, edgelayout.EdgeID("v1"), m.SelectedEdge())

	m = press(t, m, "tab")
	assert.Empty(t, m.SelectedEdge())
}

func TestDragWithArrows(t *testing.T) {
	m, sess := newModel(t, nil)
	m = press(t, m, "e", "right")
	assert.InDelta(t, 0.55, zonesOf(sess)[0].W, 1e-9)

	m = press(t, m, "left", "left")
	assert.InDelta(t, 0.45, zonesOf(sess)[0].W, 1e-9)

	// A vertical edge ignores up and down.
	m = press(t, m, "up", "down")
	assert.InDelta(t, 0.45, zonesOf(sess)[0].W, 1e-9)

	_, dragging := sess.Dragging()
	assert.False(t, dragging)
	assert.True(t, sess.Snapshot().Valid)
}

func TestDragClampsAtMinimumSize(t *testing.T) {
	m, sess := newModel(t, nil)
	m = press(t, m, "e")
	for range 20 {
		m = press(t, m, "left")
	}
	assert.InDelta(t, edgelayout.MinRegionSize, zonesOf(sess)[0].W, 1e-9)
}

func TestDragWithoutEdge(t *testing.T) {
	m, sess := newModel(t, nil)
	m = press(t, m, "right")
	assert.Contains(t, m.Notice(), "select an edge")
	assert.InDelta(t, 0.5, zonesOf(sess)[0].W, 1e-9)
}

func TestSplitAndDelete(t *testing.T) {
	m, sess := newModel(t, nil)

	m = press(t, m, "|")
	require.Len(t, zonesOf(sess), 3)
	assert.InDelta(t, 0.25, zonesOf(sess)[0].W, 1e-9)
	assert.Equal(t, edgelayout.EdgeID("v2"), m.SelectedEdge())

	m = press(t, m, "x")
	assert.Len(t, zonesOf(sess), 2)
	assert.Contains(t, m.Notice(), "deleted edge v2")
	assert.Empty(t, m.SelectedEdge())

	m = press(t, m, "-")
	require.Len(t, zonesOf(sess), 3)
	assert.InDelta(t, 0.5, zonesOf(sess)[0].H, 1e-9)
}

func TestDeleteRefused(t *testing.T) {
	m, _ := newModel(t, nil)
	m = press(t, m, "x")
	assert.Contains(t, m.Notice(), "select an edge")

	// The top left region faces two regions of different depth across v1.
	l, err := edgelayout.FromZones([]zone.Zone{
		{Name: "A", X: 0, Y: 0, W: 0.5, H: 0.5},
		{Name: "B", X: 0, Y: 0.5, W: 0.5, H: 0.5},
		{Name: "C", X: 0.5, Y: 0, W: 0.5, H: 0.3},
		{Name: "D", X: 0.5, Y: 0.3, W: 0.25, H: 0.7},
		{Name: "E", X: 0.75, Y: 0.3, W: 0.25, H: 0.7},
	})
	require.NoError(t, err)
	sess := session.New("steps", l)
	m = New(context.Background(), sess, nil).WithPlain()

	m = press(t, m, "e")
	require.Equal(t, edgelayout.EdgeID("v1"), m.SelectedEdge())
	m = press(t, m, "x")
	assert.Len(t, zonesOf(sess), 5)
	assert.Contains(t, m.Notice(), "cannot be deleted")
}

func TestSave(t *testing.T) {
	st := store.NewMemoryStore()
	m, _ := newModel(t, st)
	m = press(t, m, "|", "s")
	assert.True(t, m.Saved())
	assert.Contains(t, m.Notice(), "saved desk")

	got, err := st.Get(context.Background(), "desk")
	require.NoError(t, err)
	assert.Len(t, got.Zones, 3)
}

func TestSaveWithoutStore(t *testing.T) {
	m, _ := newModel(t, nil)
	m = press(t, m, "s")
	assert.False(t, m.Saved())
	assert.Contains(t, m.Notice(), "no store configured")
}

func TestNoticeExpires(t *testing.T) {
	m, _ := newModel(t, nil)
	next, cmd := m.Update(key("s"))
	m = next.(Model)
	require.NotNil(t, cmd)
	require.NotEmpty(t, m.Notice())

	next, _ = m.Update(clearNoticeMsg{seq: m.noticeSeq - 1})
	m = next.(Model)
	assert.NotEmpty(t, m.Notice(), "stale tick must not clear a newer notice")

	next, _ = m.Update(clearNoticeMsg{seq: m.noticeSeq})
	m = next.(Model)
	assert.Empty(t, m.Notice())
}

func TestQuit(t *testing.T) {
	m, _ := newModel(t, nil)
	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestView(t *testing.T) {
	m, _ := newModel(t, nil)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 42, Height: 30})
	m = press(t, next.(Model), "e")

	view := m.View()
	assert.Contains(t, view, "desk")
	assert.Contains(t, view, "Left")
	assert.Contains(t, view, "0.500")
	assert.Contains(t, view, "edge: v1")
	assert.Contains(t, view, "q quit")
}
