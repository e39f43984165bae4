package store

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/matzehuels/zonesmith/pkg/errors"
	"github.com/matzehuels/zonesmith/pkg/zone"
)

// MemoryStore keeps layouts in memory. Layouts are copied on the way in and
// out, so callers never share state with the store.
type MemoryStore struct {
	mu      sync.RWMutex
	layouts map[string]*zone.Layout
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{layouts: make(map[string]*zone.Layout)}
}

// Get returns the layout with the name, or LAYOUT_NOT_FOUND.
func (s *MemoryStore) Get(ctx context.Context, name string) (l *zone.Layout, err error) {
	defer observe(ctx, BackendMemory, "get")(&err)
	if err := errors.ValidateLayoutName(name); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	stored, ok := s.layouts[name]
	if !ok {
		return nil, notFound(name)
	}
	return stored.Clone(), nil
}

// Put stores the layout under its name, replacing any previous version.
func (s *MemoryStore) Put(ctx context.Context, l *zone.Layout) (err error) {
	defer observe(ctx, BackendMemory, "put")(&err)
	c, err := prepare(l)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.layouts[c.Name] = c
	return nil
}

// Delete removes the layout. Deleting a missing layout is not an error.
func (s *MemoryStore) Delete(ctx context.Context, name string) (err error) {
	defer observe(ctx, BackendMemory, "delete")(&err)
	if err := errors.ValidateLayoutName(name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.layouts, name)
	return nil
}

// List returns the stored layout names in sorted order.
func (s *MemoryStore) List(ctx context.Context) (names []string, err error) {
	defer observe(ctx, BackendMemory, "list")(&err)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.layouts)), nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
