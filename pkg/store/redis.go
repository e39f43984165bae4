package store

import (
	"context"
	stderrors "errors"
	"slices"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/matzehuels/zonesmith/pkg/cache"
	"github.com/matzehuels/zonesmith/pkg/errors"
	"github.com/matzehuels/zonesmith/pkg/zone"
)

// RedisConfig configures a Redis-backed store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int

	// Prefix is prepended to every key. Defaults to "zonesmith:layout:".
	Prefix string
}

// RedisStore keeps msgpack-encoded layouts in Redis. Transient network
// failures are retried with backoff.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisStore connects to Redis and pings it.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	if cfg.Addr == "" {
		cfg.Addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to redis at %s", cfg.Addr)
	}
	return NewRedisStoreWithClient(client, cfg.Prefix), nil
}

// NewRedisStoreWithClient wraps an existing client. The store owns the
// client and closes it in Close.
func NewRedisStoreWithClient(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "zonesmith:layout:"
	}
	return &RedisStore{client: client, prefix: prefix}
}

// retry runs fn with backoff, treating every Redis error except redis.Nil
// as transient.
func (s *RedisStore) retry(ctx context.Context, fn func() error) error {
	return cache.RetryWithBackoff(ctx, func() error {
		err := fn()
		if err != nil && !stderrors.Is(err, redis.Nil) {
			return cache.Retryable(err)
		}
		return err
	})
}

// Get returns the layout with the name, or LAYOUT_NOT_FOUND.
func (s *RedisStore) Get(ctx context.Context, name string) (l *zone.Layout, err error) {
	defer observe(ctx, BackendRedis, "get")(&err)
	if err := errors.ValidateLayoutName(name); err != nil {
		return nil, err
	}

	var data []byte
	err = s.retry(ctx, func() error {
		var err error
		data, err = s.client.Get(ctx, s.prefix+name).Bytes()
		return err
	})
	if stderrors.Is(err, redis.Nil) {
		return nil, notFound(name)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "get layout %q", name)
	}

	l = new(zone.Layout)
	if err := msgpack.Unmarshal(data, l); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "decode layout %q", name)
	}
	l.UpdatedAt = l.UpdatedAt.UTC()
	return l, nil
}

// Put stores the layout under its name, replacing any previous version.
func (s *RedisStore) Put(ctx context.Context, l *zone.Layout) (err error) {
	defer observe(ctx, BackendRedis, "put")(&err)
	c, err := prepare(l)
	if err != nil {
		return err
	}
	data, err := msgpack.Marshal(c)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "encode layout %q", c.Name)
	}
	err = s.retry(ctx, func() error {
		return s.client.Set(ctx, s.prefix+c.Name, data, 0).Err()
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "save layout %q", c.Name)
	}
	return nil
}

// Delete removes the layout. Deleting a missing layout is not an error.
func (s *RedisStore) Delete(ctx context.Context, name string) (err error) {
	defer observe(ctx, BackendRedis, "delete")(&err)
	if err := errors.ValidateLayoutName(name); err != nil {
		return err
	}
	err = s.retry(ctx, func() error {
		return s.client.Del(ctx, s.prefix+name).Err()
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "delete layout %q", name)
	}
	return nil
}

// List returns the stored layout names in sorted order.
func (s *RedisStore) List(ctx context.Context) (names []string, err error) {
	defer observe(ctx, BackendRedis, "list")(&err)
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 256).Iterator()
	for iter.Next(ctx) {
		names = append(names, strings.TrimPrefix(iter.Val(), s.prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list layouts")
	}
	slices.Sort(names)
	return slices.Compact(names), nil
}

// Close releases the backend connection.
func (s *RedisStore) Close() error { return s.client.Close() }

var _ Store = (*RedisStore)(nil)

// pingTimeout bounds health checks issued by servers.
const pingTimeout = 2 * time.Second

// Ping checks the Redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return s.client.Ping(ctx).Err()
}
