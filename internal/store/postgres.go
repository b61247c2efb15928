package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS snapshots (
	key        TEXT PRIMARY KEY,
	data       BYTEA NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Postgres stores snapshots in PostgreSQL through a pgx pool.
type Postgres struct{ *pgxpool.Pool }

// OpenPostgres connects to dsn and creates the snapshots table.
func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	p, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := p.Ping(ctx); err != nil {
		p.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := p.Exec(ctx, postgresSchema); err != nil {
		p.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Postgres{p}, nil
}

func (db *Postgres) Put(ctx context.Context, key string, data []byte) error {
	_, err := db.Exec(ctx, `
		INSERT INTO snapshots (key, data) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE
		  SET data = EXCLUDED.data,
		      updated_at = now()
	`, key, data)
	if err != nil {
		return fmt.Errorf("put snapshot: %w", err)
	}
	return nil
}

func (db *Postgres) Get(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := db.QueryRow(ctx, `SELECT data FROM snapshots WHERE key = $1`, key).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	return data, nil
}

func (db *Postgres) Delete(ctx context.Context, key string) error {
	if _, err := db.Exec(ctx, `DELETE FROM snapshots WHERE key = $1`, key); err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	return nil
}

func (db *Postgres) Close() error {
	db.Pool.Close()
	return nil
}
