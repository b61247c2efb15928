package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rsaeta/durak/env"
	"github.com/rsaeta/durak/internal/config"
)

// exerciseStore runs the behaviour every backend must share.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	key := uuid.NewString()
	t.Cleanup(func() { _ = s.Delete(context.Background(), key) })

	_, err := s.Get(ctx, key)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Put(ctx, key, []byte("first")))
	got, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), got)

	require.NoError(t, s.Put(ctx, key, []byte("second")))
	got, err = s.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), got, "put overwrites")

	require.NoError(t, s.Delete(ctx, key))
	_, err = s.Get(ctx, key)
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, s.Delete(ctx, key), "deleting a missing key is not an error")

	// Full env round trip.
	logger, _ := logtest.NewNullLogger()
	src := env.New(env.WithLogger(logger))
	_, err = src.Reset(31)
	require.NoError(t, err)
	for i := 0; i < 6; i++ {
		_, err := src.Step(src.Legal().Index(0))
		require.NoError(t, err)
	}
	envKey, err := SaveEnv(ctx, s, src)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Delete(context.Background(), envKey) })
	assert.Equal(t, src.ID().String(), envKey)

	dst := env.New(env.WithLogger(logger))
	require.NoError(t, LoadEnv(ctx, s, envKey, dst))
	assert.Equal(t, src.State(), dst.State())
	assert.Equal(t, src.Actions(), dst.Actions())

	assert.ErrorIs(t, LoadEnv(ctx, s, "missing-"+envKey, dst), ErrNotFound)
}

func TestSQLite(t *testing.T) {
	s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "snap.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	exerciseStore(t, s)
}

func TestSQLitePersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "snap.db")

	s, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, "k", []byte("v")))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
}

func TestSQLiteRequiresPath(t *testing.T) {
	_, err := OpenSQLite(context.Background(), "  ")
	assert.Error(t, err)
}

func TestOpenDriver(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, config.StoreSQLite, filepath.Join(t.TempDir(), "x.db"), 0)
	require.NoError(t, err)
	assert.IsType(t, &SQLite{}, s)
	require.NoError(t, s.Close())

	_, err = Open(ctx, "mongo", "", 0)
	assert.ErrorContains(t, err, "unknown driver")
}

func TestPostgres(t *testing.T) {
	dsn := os.Getenv("DURAK_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("DURAK_TEST_POSTGRES_DSN not set")
	}
	s, err := OpenPostgres(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	exerciseStore(t, s)
}

func TestRedis(t *testing.T) {
	url := os.Getenv("DURAK_TEST_REDIS_URL")
	if url == "" {
		t.Skip("DURAK_TEST_REDIS_URL not set")
	}
	ctx := context.Background()
	s, err := OpenRedis(ctx, url, time.Hour)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	exerciseStore(t, s)

	key := uuid.NewString()
	require.NoError(t, s.Put(ctx, key, []byte("x")))
	defer s.Delete(ctx, key)
	ttl, err := s.TTL(ctx, key)
	require.NoError(t, err)
	assert.Greater(t, ttl, 59*time.Minute)
}

func TestRedisBadURL(t *testing.T) {
	_, err := OpenRedis(context.Background(), "not a url", 0)
	assert.ErrorContains(t, err, "parse redis url")
}
