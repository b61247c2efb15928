// Package store persists environment snapshots in SQLite, PostgreSQL or
// Redis behind one key/value interface.
package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rsaeta/durak/env"
	"github.com/rsaeta/durak/internal/config"
)

// ErrNotFound is returned by Get for an unknown key.
var ErrNotFound = errors.New("snapshot not found")

// Store is a snapshot key/value store.
type Store interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	Close() error
}

// Open connects to the backend named by driver. ttl only applies to Redis;
// zero keeps snapshots forever.
func Open(ctx context.Context, driver, dsn string, ttl time.Duration) (Store, error) {
	switch driver {
	case config.StoreSQLite:
		s, err := OpenSQLite(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.StorePostgres:
		s, err := OpenPostgres(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.StoreRedis:
		s, err := OpenRedis(ctx, dsn, ttl)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, fmt.Errorf("store: unknown driver %q", driver)
}

// SaveEnv writes e's snapshot under its game ID and returns the key.
func SaveEnv(ctx context.Context, s Store, e *env.Env) (string, error) {
	var buf bytes.Buffer
	if err := e.Save(&buf); err != nil {
		return "", err
	}
	key := e.ID().String()
	if err := s.Put(ctx, key, buf.Bytes()); err != nil {
		return "", fmt.Errorf("store game %s: %w", key, err)
	}
	return key, nil
}

// LoadEnv restores the snapshot stored under key into e.
func LoadEnv(ctx context.Context, s Store, key string, e *env.Env) error {
	data, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	return e.Load(bytes.NewReader(data))
}
