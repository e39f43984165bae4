package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/matzehuels/zonesmith/pkg/errors"
	"github.com/matzehuels/zonesmith/pkg/zone"
)

// FileStore is a file-based layout store for CLI applications.
// Layouts are stored as JSON files in a config directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a new file-based layout store.
// If baseDir is empty, defaults to ~/.config/zonesmith/layouts/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeStorage, err, "get home dir")
		}
		baseDir = filepath.Join(home, ".config", "zonesmith", "layouts")
	}
	if err := os.MkdirAll(baseDir, 0o700); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "create layout dir")
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) layoutPath(name string) string {
	return filepath.Join(s.baseDir, name+".json")
}

// Get returns the layout with the name, or LAYOUT_NOT_FOUND.
func (s *FileStore) Get(ctx context.Context, name string) (l *zone.Layout, err error) {
	defer observe(ctx, BackendFile, "get")(&err)
	if err := errors.ValidateLayoutName(name); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.layoutPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, notFound(name)
		}
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "read layout file")
	}

	l = new(zone.Layout)
	if err := json.Unmarshal(data, l); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "parse layout %q", name)
	}
	l.Name = name
	return l, nil
}

// Put stores the layout under its name, replacing any previous version.
func (s *FileStore) Put(ctx context.Context, l *zone.Layout) (err error) {
	defer observe(ctx, BackendFile, "put")(&err)
	c, err := prepare(l)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "marshal layout")
	}

	path := s.layoutPath(c.Name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "write layout file")
	}
	if err := os.Rename(tmp, path); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "write layout file")
	}
	return nil
}

// Delete removes the layout. Deleting a missing layout is not an error.
func (s *FileStore) Delete(ctx context.Context, name string) (err error) {
	defer observe(ctx, BackendFile, "delete")(&err)
	if err := errors.ValidateLayoutName(name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.layoutPath(name)); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeStorage, err, "remove layout file")
	}
	return nil
}

// List returns the stored layout names in sorted order.
func (s *FileStore) List(ctx context.Context) (names []string, err error) {
	defer observe(ctx, BackendFile, "list")(&err)
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "read layout dir")
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".json"))
	}
	slices.Sort(names)
	return names, nil
}

// Close is a no-op.
func (s *FileStore) Close() error { return nil }

// Path returns the base directory for layout files.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ Store = (*FileStore)(nil)
