package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/zonesmith/pkg/edgelayout"
	"github.com/matzehuels/zonesmith/pkg/errors"
	"github.com/matzehuels/zonesmith/pkg/pipeline"
	"github.com/matzehuels/zonesmith/pkg/session"
	"github.com/matzehuels/zonesmith/pkg/store"
	"github.com/matzehuels/zonesmith/pkg/zone"
)

// =============================================================================
// Health and templates
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if p, ok := s.store.(store.Pinger); ok {
		if err := p.Ping(r.Context()); err != nil {
			s.logger.Warn("health check failed", "error", err)
			s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.sessions.Len(),
	})
}

type templateInfo struct {
	Name  string      `json:"name"`
	Zones []zone.Zone `json:"zones"`
}

func (s *Server) handleTemplates(w http.ResponseWriter, _ *http.Request) {
	names := zone.TemplateNames()
	out := make([]templateInfo, 0, len(names))
	for _, name := range names {
		zones, _ := zone.Template(name)
		out = append(out, templateInfo{Name: name, Zones: zones})
	}
	s.writeJSON(w, http.StatusOK, out)
}

// =============================================================================
// Layouts
// =============================================================================

func (s *Server) handleListLayouts(w http.ResponseWriter, r *http.Request) {
	names, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"layouts": names})
}

func (s *Server) handleGetLayout(w http.ResponseWriter, r *http.Request) {
	l, err := s.store.Get(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, l)
}

type putLayoutRequest struct {
	Description string      `json:"description"`
	Zones       []zone.Zone `json:"zones"`
}

// handlePutLayout stores a layout after checking that it converts and
// tiles the screen.
func (s *Server) handlePutLayout(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := errors.ValidateLayoutName(name); err != nil {
		s.writeError(w, r, err)
		return
	}
	var req putLayoutRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	l, err := edgelayout.FromZones(req.Zones)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	zones, err := l.Export()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	stored := &zone.Layout{Name: name, Description: req.Description, Zones: zones}
	if err := s.store.Put(r.Context(), stored); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, stored)
}

func (s *Server) handleDeleteLayout(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "name")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLayoutPreview(w http.ResponseWriter, r *http.Request) {
	stored, err := s.store.Get(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	l, err := edgelayout.FromZonesOrDefault(stored.Zones)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.preview(w, r, l)
}

// preview renders l as SVG through the runner, so repeated previews of an
// unchanged layout are served from the artifact cache. The style and edges
// query parameters override the server's render defaults.
func (s *Server) preview(w http.ResponseWriter, r *http.Request, l *edgelayout.Layout) {
	opts := s.render
	opts.Formats = []string{pipeline.FormatSVG}
	q := r.URL.Query()
	if style := q.Get("style"); style != "" {
		opts.Style = style
	}
	if edges := q.Get("edges"); edges != "" {
		v, err := strconv.ParseBool(edges)
		if err != nil {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "invalid edges parameter %q", edges))
			return
		}
		opts.Edges = v
	}
	if sel := q.Get("select"); sel != "" {
		i, err := strconv.Atoi(sel)
		if err != nil || i < 0 || i >= l.RegionCount() {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "invalid select parameter %q", sel))
			return
		}
		opts.Selected = &i
	}

	res, err := s.runner.ExecuteLayout(r.Context(), l, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeSVG(w, res.Artifacts[pipeline.FormatSVG])
}

// =============================================================================
// Sessions
// =============================================================================

type createSessionRequest struct {
	Layout   string      `json:"layout"`
	Template string      `json:"template"`
	Name     string      `json:"name"`
	Zones    []zone.Zone `json:"zones"`
}

// handleCreateSession opens a session from a stored layout, a built-in
// template or inline zones, in that order of precedence. An empty request
// opens the default template.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	var (
		sess *session.Session
		err  error
	)
	switch {
	case req.Layout != "":
		sess, err = s.sessions.Open(r.Context(), s.store, req.Layout)
	case req.Template != "":
		zones, terr := zone.Template(req.Template)
		if terr != nil {
			err = errors.Wrap(errors.ErrCodeInvalidInput, terr, "unknown template %q", req.Template)
			break
		}
		sess, err = s.sessions.Create(firstNonEmpty(req.Name, req.Template), zones)
	case len(req.Zones) > 0:
		sess, err = s.sessions.Create(req.Name, req.Zones)
	default:
		sess, err = s.sessions.Create(firstNonEmpty(req.Name, zone.DefaultTemplate), zone.Default())
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, sess.Snapshot())
}

// withSession resolves the {id} path parameter.
func (s *Server) withSession(fn func(http.ResponseWriter, *http.Request, *session.Session)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.sessions.Get(chi.URLParam(r, "id"))
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		fn(w, r, sess)
	}
}

func (s *Server) handleGetSession(w http.ResponseWriter, _ *http.Request, sess *session.Session) {
	s.writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Close(chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSessionPreview(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	s.preview(w, r, sess.Layout())
}

type splitRequest struct {
	Region    *int     `json:"region"`
	Direction string   `json:"direction"`
	At        *float64 `json:"at"`
}

type splitResponse struct {
	Edge    edgelayout.EdgeID `json:"edge"`
	Session session.Snapshot  `json:"session"`
}

func (s *Server) handleSplit(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var req splitRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Region == nil || req.At == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "split requires region and at"))
		return
	}
	dir, err := session.ParseDirection(req.Direction)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	id, err := sess.Split(r.Context(), *req.Region, dir, *req.At)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, splitResponse{Edge: id, Session: sess.Snapshot()})
}

type moveRequest struct {
	Position *float64 `json:"position"`
}

type moveResponse struct {
	Edge     edgelayout.EdgeID `json:"edge"`
	Position float64           `json:"position"`
	Session  session.Snapshot  `json:"session"`
}

func (s *Server) handleMoveEdge(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var req moveRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Position == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "move requires position"))
		return
	}
	id := edgeParam(r)
	pos, err := sess.MoveEdge(r.Context(), id, *req.Position)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, moveResponse{Edge: id, Position: pos, Session: sess.Snapshot()})
}

type constraintsResponse struct {
	Edge edgelayout.EdgeID `json:"edge"`
	Min  float64           `json:"min"`
	Max  float64           `json:"max"`
}

func (s *Server) handleConstraints(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	id := edgeParam(r)
	lo, hi, err := sess.Constraints(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, constraintsResponse{Edge: id, Min: lo, Max: hi})
}

func (s *Server) handleDeletable(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	id := edgeParam(r)
	s.writeJSON(w, http.StatusOK, map[string]any{"edge": id, "deletable": sess.Deletable(id)})
}

func (s *Server) handleDeleteEdge(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if err := sess.DeleteEdge(r.Context(), edgeParam(r)); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, sess.Snapshot())
}

type saveRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var req saveRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := sess.Save(r.Context(), s.store, req.Name); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, sess.Snapshot())
}

func edgeParam(r *http.Request) edgelayout.EdgeID {
	return edgelayout.EdgeID(chi.URLParam(r, "edge"))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
