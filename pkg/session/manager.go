package session

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/zonesmith/pkg/edgelayout"
	"github.com/matzehuels/zonesmith/pkg/errors"
	"github.com/matzehuels/zonesmith/pkg/store"
	"github.com/matzehuels/zonesmith/pkg/zone"
)

// DefaultTTL is how long an idle session is kept by [Manager.Cleanup].
const DefaultTTL = 2 * time.Hour

// Manager keeps open sessions by id. It is safe for concurrent use.
type Manager struct {
	TTL    time.Duration
	Logger *log.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager returns an empty manager. A nil logger uses log.Default().
func NewManager(logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.Default()
	}
	return &Manager{
		TTL:      DefaultTTL,
		Logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// Create opens a session on the given zones. Zones that fail to convert
// or do not tile the screen are rejected with CONVERSION_FAILED.
func (m *Manager) Create(name string, zones []zone.Zone) (*Session, error) {
	l, err := edgelayout.FromZones(zones)
	if err != nil {
		return nil, err
	}
	if err := l.Check(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeConversion, err, "zones do not tile the screen")
	}
	return m.add(New(name, l)), nil
}

// Open loads a stored layout into a new session. A layout that cannot be
// converted or does not tile the screen is replaced by the default
// template; the fallback is logged as a warning, not returned as an error.
func (m *Manager) Open(ctx context.Context, st store.Store, name string) (*Session, error) {
	stored, err := st.Get(ctx, name)
	if err != nil {
		return nil, err
	}

	l, err := edgelayout.FromZonesOrDefault(stored.Zones)
	if err != nil {
		m.Logger.Warn("stored layout is corrupt, using default", "layout", name, "error", err)
	} else if err := l.Check(); err != nil {
		m.Logger.Warn("stored layout does not tile, using default", "layout", name, "error", err)
		l, _ = edgelayout.FromZones(zone.Default())
	}

	s := New(stored.Name, l)
	s.description = stored.Description
	m.Logger.Debug("opened session", "id", s.ID, "layout", name, "regions", l.RegionCount())
	return m.add(s), nil
}

func (m *Manager) add(s *Session) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return s
}

// Get returns the session with the id, or SESSION_NOT_FOUND.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeSessionNotFound, "session %q not found", id)
	}
	return s, nil
}

// Close forgets the session. Closing an unknown id yields SESSION_NOT_FOUND.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return errors.New(errors.ErrCodeSessionNotFound, "session %q not found", id)
	}
	delete(m.sessions, id)
	return nil
}

// Len returns the number of open sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// IDs returns the open session ids in sorted order.
func (m *Manager) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Cleanup closes sessions idle for longer than TTL and returns how many
// were closed.
func (m *Manager) Cleanup(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, s := range m.sessions {
		if now.Sub(s.IdleSince()) > m.TTL {
			delete(m.sessions, id)
			n++
		}
	}
	if n > 0 {
		m.Logger.Debug("closed idle sessions", "count", n)
	}
	return n
}
