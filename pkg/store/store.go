// Package store persists named zone layouts.
//
// This package defines the [Store] interface with implementations for
// different backends:
//   - memory: in-process map, for tests and ephemeral servers
//   - file: one JSON file per layout, for the CLI
//   - sqlite: a single SQLite database file
//   - redis: msgpack-encoded values in Redis, for shared servers
//   - mongo: one document per layout in MongoDB
//
// # Usage
//
//	s, err := store.Open(ctx, store.Config{Backend: store.BackendFile, Dir: dir})
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
//	l, err := s.Get(ctx, "coding")
//	if errors.IsNotFound(err) {
//	    // fall back to a template
//	}
//
// Every backend validates layout names with [errors.ValidateLayoutName],
// reports a missing layout as LAYOUT_NOT_FOUND and backend failures as
// STORAGE, and emits one [observability.StoreHooks] event per operation.
//
// [errors.ValidateLayoutName]: github.com/matzehuels/zonesmith/pkg/errors.ValidateLayoutName
// [observability.StoreHooks]: github.com/matzehuels/zonesmith/pkg/observability.StoreHooks
package store

import (
	"context"
	"time"

	"github.com/matzehuels/zonesmith/pkg/errors"
	"github.com/matzehuels/zonesmith/pkg/observability"
	"github.com/matzehuels/zonesmith/pkg/zone"
)

// Store persists zone layouts by name.
type Store interface {
	// Get returns the named layout, or a LAYOUT_NOT_FOUND error.
	Get(ctx context.Context, name string) (*zone.Layout, error)

	// Put creates or replaces the layout under l.Name and stamps UpdatedAt.
	Put(ctx context.Context, l *zone.Layout) error

	// Delete removes the named layout. Deleting a missing layout is not an
	// error.
	Delete(ctx context.Context, name string) error

	// List returns all layout names in sorted order.
	List(ctx context.Context) ([]string, error)

	Close() error
}

// Pinger is implemented by backends that hold a connection and can check
// it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Backend names accepted by [Open].
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Backends lists the supported backend names.
var Backends = []string{BackendMemory, BackendFile, BackendSQLite, BackendRedis, BackendMongo}

// Config selects and configures a backend.
type Config struct {
	Backend string

	// Dir is the layout directory of the file backend.
	Dir string

	// SQLitePath is the database file of the sqlite backend.
	SQLitePath string

	RedisAddr string
	RedisDB   int

	MongoURI      string
	MongoDatabase string
}

// Open connects the configured backend.
func Open(ctx context.Context, cfg Config) (Store, error) {
	var (
		s   Store
		err error
	)
	switch cfg.Backend {
	case BackendMemory:
		s = NewMemoryStore()
	case BackendFile, "":
		s, err = asStore(NewFileStore(cfg.Dir))
	case BackendSQLite:
		s, err = asStore(NewSQLiteStore(ctx, cfg.SQLitePath))
	case BackendRedis:
		s, err = asStore(NewRedisStore(ctx, RedisConfig{Addr: cfg.RedisAddr, DB: cfg.RedisDB}))
	case BackendMongo:
		s, err = asStore(NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase))
	default:
		err = errors.New(errors.ErrCodeInvalidInput, "unknown store backend %q (supported: %v)", cfg.Backend, Backends)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// asStore keeps a failed constructor's typed nil out of the interface.
func asStore[S Store](s S, err error) (Store, error) {
	if err != nil {
		return nil, err
	}
	return s, nil
}

// observe starts timing one operation and returns the function that reports
// it to the store hooks:
//
//	defer observe(ctx, BackendFile, "get")(&err)
func observe(ctx context.Context, backend, op string) func(*error) {
	start := time.Now()
	return func(err *error) {
		observability.Store().OnStoreOp(ctx, backend, op, time.Since(start), *err)
	}
}

func notFound(name string) error {
	return errors.New(errors.ErrCodeLayoutNotFound, "layout %q not found", name)
}

// prepare validates a layout for Put and returns the copy to persist.
func prepare(l *zone.Layout) (*zone.Layout, error) {
	if l == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "layout is nil")
	}
	if err := errors.ValidateLayoutName(l.Name); err != nil {
		return nil, err
	}
	if len(l.Zones) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "layout %q has no zones", l.Name)
	}
	c := l.Clone()
	c.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)
	return c, nil
}
