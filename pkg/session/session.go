// Package session manages interactive layout editing sessions.
//
// A [Session] owns one edge graph and the drag state of the editor working
// on it. Every operation takes the session's lock, so the HTTP server can
// serve concurrent requests against the same session and the terminal
// editor can share code with it.
//
// # Usage
//
//	m := session.NewManager(logger)
//	s, err := m.Open(ctx, st, "desk")
//	if err != nil {
//	    return err
//	}
//	if _, err := s.Split(ctx, 0, session.Horizontal, 0.3); err != nil {
//	    return err // INVALID_OPERATION, layout unchanged
//	}
//	if err := s.Save(ctx, st, ""); err != nil {
//	    return err // VALIDATION_FAILED keeps the session editable
//	}
//
// Edits fire [observability.EditHooks].
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/zonesmith/pkg/edgelayout"
	"github.com/matzehuels/zonesmith/pkg/errors"
	"github.com/matzehuels/zonesmith/pkg/observability"
	"github.com/matzehuels/zonesmith/pkg/store"
	"github.com/matzehuels/zonesmith/pkg/zone"
)

// Direction is the way a region is split.
type Direction string

// Split directions. Horizontal places the parts side by side along a new
// vertical edge; Vertical stacks them along a new horizontal edge.
const (
	Horizontal Direction = "horizontal"
	Vertical   Direction = "vertical"
)

// ParseDirection accepts "horizontal"/"h" and "vertical"/"v".
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "horizontal", "h":
		return Horizontal, nil
	case "vertical", "v":
		return Vertical, nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "invalid direction %q (must be horizontal or vertical)", s)
}

// Session is one editor's working copy of a layout.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu          sync.Mutex
	name        string
	description string
	layout      *edgelayout.Layout
	resizer     *edgelayout.Resizer
	lastActive  time.Time
}

// New wraps a converted layout in a session with a fresh id.
func New(name string, l *edgelayout.Layout) *Session {
	now := time.Now()
	return &Session{
		ID:         uuid.NewString(),
		CreatedAt:  now,
		name:       name,
		layout:     l,
		resizer:    edgelayout.NewResizer(l),
		lastActive: now,
	}
}

// Snapshot is a point-in-time copy of a session for display.
type Snapshot struct {
	ID       string              `json:"id"`
	Name     string              `json:"name"`
	Zones    []zone.Zone         `json:"zones"`
	Edges    []edgelayout.Edge   `json:"edges"`
	Regions  []edgelayout.Region `json:"regions"`
	Dragging edgelayout.EdgeID   `json:"dragging,omitempty"`
	Valid    bool                `json:"valid"`
}

// Name returns the layout name the session saves under by default.
func (s *Session) Name() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.name
}

// Snapshot copies the current zones and edge graph.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		ID:      s.ID,
		Name:    s.name,
		Zones:   s.layout.Zones(),
		Edges:   s.layout.Edges(),
		Regions: s.layout.Regions(),
		Valid:   s.layout.Validate(),
	}
	if s.resizer.Active() {
		snap.Dragging = s.resizer.Edge()
	}
	return snap
}

// Layout returns a copy of the session's edge graph.
func (s *Session) Layout() *edgelayout.Layout {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.layout.Clone()
}

// IdleSince returns the time of the last operation.
func (s *Session) IdleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// lock takes the session lock and marks it active. Callers defer the
// returned unlock.
func (s *Session) lock() func() {
	s.mu.Lock()
	s.lastActive = time.Now()
	return s.mu.Unlock
}

// Split divides a region at the normalized coordinate at (x for
// Horizontal, y for Vertical) and returns the new edge's id. An active drag
// is finished first.
func (s *Session) Split(ctx context.Context, region int, dir Direction, at float64) (id edgelayout.EdgeID, err error) {
	defer s.lock()()
	s.endDrag(ctx)

	axis := edgelayout.Vertical
	switch dir {
	case Horizontal:
		id, err = s.layout.SplitHorizontal(region, at)
	case Vertical:
		axis = edgelayout.Horizontal
		id, err = s.layout.SplitVertical(region, at)
	default:
		_, err = ParseDirection(string(dir))
	}
	observability.Edit().OnSplit(ctx, s.ID, region, axis.String(), err)
	return id, err
}

// BeginDrag starts dragging an edge, ending any drag in progress.
func (s *Session) BeginDrag(ctx context.Context, edge edgelayout.EdgeID) error {
	defer s.lock()()
	s.endDrag(ctx)
	return s.resizer.BeginDrag(edge)
}

// UpdateDrag moves the dragged edge toward pointer and returns the clamped
// position applied.
func (s *Session) UpdateDrag(pointer float64) (float64, error) {
	defer s.lock()()
	return s.resizer.UpdatePosition(pointer)
}

// EndDrag finishes the drag in progress. It is a no-op without one.
func (s *Session) EndDrag(ctx context.Context) {
	defer s.lock()()
	s.endDrag(ctx)
}

// CancelDrag puts the dragged edge back where the drag began.
func (s *Session) CancelDrag() {
	defer s.lock()()
	s.resizer.CancelDrag()
}

// Dragging returns the edge being dragged, if any.
func (s *Session) Dragging() (edgelayout.EdgeID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resizer.Edge(), s.resizer.Active()
}

func (s *Session) endDrag(ctx context.Context) {
	if !s.resizer.Active() {
		return
	}
	id, from := s.resizer.Edge(), s.resizer.Origin()
	s.resizer.EndDrag()
	if e, ok := s.layout.Edge(id); ok {
		observability.Edit().OnDrag(ctx, s.ID, string(id), from, e.Position)
	}
}

// MoveEdge drags an edge to pos in one step and returns where it ended up.
func (s *Session) MoveEdge(ctx context.Context, edge edgelayout.EdgeID, pos float64) (float64, error) {
	defer s.lock()()
	s.endDrag(ctx)

	e, ok := s.layout.Edge(edge)
	if !ok {
		return 0, errors.New(errors.ErrCodeInvalidOperation, "unknown edge %q", edge)
	}
	got, err := s.layout.MoveEdge(edge, pos)
	if err != nil {
		return 0, err
	}
	observability.Edit().OnDrag(ctx, s.ID, string(edge), e.Position, got)
	return got, nil
}

// Constraints returns the range an edge can be dragged within.
func (s *Session) Constraints(edge edgelayout.EdgeID) (minPos, maxPos float64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.layout.Constraints(edge)
}

// CanDelete reports whether deleting the edge would merge regions.
func (s *Session) CanDelete(edge edgelayout.EdgeID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.layout.CanDelete(edge)
}

// Deletable reports whether DeleteEdge would succeed on the current layout.
func (s *Session) Deletable(edge edgelayout.EdgeID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.layout.Deletable(edge)
}

// DeleteEdge merges the regions on both sides of the edge.
func (s *Session) DeleteEdge(ctx context.Context, edge edgelayout.EdgeID) error {
	defer s.lock()()
	s.endDrag(ctx)
	err := s.layout.DeleteEdge(edge)
	observability.Edit().OnDelete(ctx, s.ID, string(edge), err)
	return err
}

// RegionAt returns the index of the region containing (x, y), or -1.
func (s *Session) RegionAt(x, y float64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.layout.RegionAt(x, y)
}

// Save validates the layout and writes it to st under name, or under the
// session's current name when name is empty. A layout that fails
// validation yields VALIDATION_FAILED and stays in the session for further
// edits. On success the session adopts the name.
func (s *Session) Save(ctx context.Context, st store.Store, name string) (err error) {
	defer s.lock()()
	s.endDrag(ctx)

	if name == "" {
		name = s.name
	}
	start := time.Now()
	defer func() {
		observability.Edit().OnSave(ctx, s.ID, name, time.Since(start), err)
	}()

	if err := errors.ValidateLayoutName(name); err != nil {
		return err
	}
	zones, err := s.layout.Export()
	if err != nil {
		return err
	}
	if err := st.Put(ctx, &zone.Layout{Name: name, Description: s.description, Zones: zones}); err != nil {
		return err
	}
	s.name = name
	return nil
}
