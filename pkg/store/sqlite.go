package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/matzehuels/zonesmith/pkg/errors"
	"github.com/matzehuels/zonesmith/pkg/zone"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS layouts (
	name        TEXT PRIMARY KEY,
	description TEXT NOT NULL DEFAULT '',
	zones       TEXT NOT NULL,
	updated_at  INTEGER NOT NULL
)`

// SQLiteStore keeps layouts in one SQLite table. Zones are stored as a JSON
// column.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and if needed creates) the database at path.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "sqlite store needs a database path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "create database dir")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "open %s", path)
	}
	// SQLite serializes writers; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "create schema")
	}
	return &SQLiteStore{db: db}, nil
}

// Get returns the layout with the name, or LAYOUT_NOT_FOUND.
func (s *SQLiteStore) Get(ctx context.Context, name string) (l *zone.Layout, err error) {
	defer observe(ctx, BackendSQLite, "get")(&err)
	if err := errors.ValidateLayoutName(name); err != nil {
		return nil, err
	}

	var (
		zones   string
		updated int64
	)
	l = &zone.Layout{Name: name}
	row := s.db.QueryRowContext(ctx, `SELECT description, zones, updated_at FROM layouts WHERE name = ?`, name)
	switch err := row.Scan(&l.Description, &zones, &updated); {
	case err == sql.ErrNoRows:
		return nil, notFound(name)
	case err != nil:
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "query layout %q", name)
	}
	if err := json.Unmarshal([]byte(zones), &l.Zones); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "parse zones of %q", name)
	}
	l.UpdatedAt = time.UnixMilli(updated).UTC()
	return l, nil
}

// Put stores the layout under its name, replacing any previous version.
func (s *SQLiteStore) Put(ctx context.Context, l *zone.Layout) (err error) {
	defer observe(ctx, BackendSQLite, "put")(&err)
	c, err := prepare(l)
	if err != nil {
		return err
	}
	zones, err := json.Marshal(c.Zones)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "marshal zones")
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO layouts (name, description, zones, updated_at) VALUES (?, ?, ?, ?)
ON CONFLICT(name) DO UPDATE SET
	description = excluded.description,
	zones = excluded.zones,
	updated_at = excluded.updated_at`,
		c.Name, c.Description, string(zones), c.UpdatedAt.UnixMilli())
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "save layout %q", c.Name)
	}
	return nil
}

// Delete removes the layout. Deleting a missing layout is not an error.
func (s *SQLiteStore) Delete(ctx context.Context, name string) (err error) {
	defer observe(ctx, BackendSQLite, "delete")(&err)
	if err := errors.ValidateLayoutName(name); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM layouts WHERE name = ?`, name); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "delete layout %q", name)
	}
	return nil
}

// List returns the stored layout names in sorted order.
func (s *SQLiteStore) List(ctx context.Context) (names []string, err error) {
	defer observe(ctx, BackendSQLite, "list")(&err)
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM layouts ORDER BY name`)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list layouts")
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStorage, err, "list layouts")
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list layouts")
	}
	return names, nil
}

// Close releases the backend connection.
func (s *SQLiteStore) Close() error { return s.db.Close() }

var _ Store = (*SQLiteStore)(nil)

// Ping checks the database connection.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "ping sqlite")
	}
	return nil
}
