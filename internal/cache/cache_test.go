package cache

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_PutGet(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, ok, err := store.Get(ctx, "status-https://a.test")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Put(ctx, "status-https://a.test", "200", time.Hour))

	val, ok, err := store.Get(ctx, "status-https://a.test")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "200", val)
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Put(ctx, "k", "200", 6*time.Hour))

	now = now.Add(6*time.Hour - time.Second)
	_, ok, _ := store.Get(ctx, "k")
	assert.True(t, ok)

	now = now.Add(time.Second)
	_, ok, _ = store.Get(ctx, "k")
	assert.False(t, ok)
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStore_RejectsLongKeys(t *testing.T) {
	store := NewMemoryStore()
	key := strings.Repeat("k", MaxKeyLength+1)

	assert.Error(t, store.Put(context.Background(), key, "200", time.Hour))
	_, _, err := store.Get(context.Background(), key)
	assert.Error(t, err)
}

func TestMemoryStore_KeyLimitCountsCharacters(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	key := strings.Repeat("é", MaxKeyLength)
	require.NoError(t, store.Put(ctx, key, "200", time.Hour))
	value, ok, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "200", value)

	assert.Error(t, store.Put(ctx, key+"é", "200", time.Hour))
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	store, err := NewRedisStore(ctx, RedisOptions{Addr: mr.Addr()}, zerolog.Nop())
	require.NoError(t, err)
	defer store.Close()

	_, ok, err := store.Get(ctx, "status-https://a.test")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Put(ctx, "status-https://a.test", "301", time.Hour))
	val, ok, err := store.Get(ctx, "status-https://a.test")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "301", val)

	mr.FastForward(time.Hour)
	_, ok, err = store.Get(ctx, "status-https://a.test")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStore_BackendFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	store, err := NewRedisStore(ctx, RedisOptions{Addr: mr.Addr()}, zerolog.Nop())
	require.NoError(t, err)
	defer store.Close()

	mr.SetError("ERR simulated failure")
	_, _, err = store.Get(ctx, "k")
	assert.Error(t, err)
	assert.Error(t, store.Put(ctx, "k", "200", time.Hour))
}

func TestNewRedisStore_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisStore(context.Background(), RedisOptions{Addr: addr}, zerolog.Nop())
	assert.Error(t, err)
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache", "status.db")

	store, err := NewSQLiteStore(path, zerolog.Nop())
	require.NoError(t, err)
	defer store.Close()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	_, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Put(ctx, "k", "200", time.Hour))
	require.NoError(t, store.Put(ctx, "k", "404", time.Hour))

	val, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "404", val)

	now = now.Add(time.Hour)
	_, ok, err = store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	removed, err := store.Purge(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "status.db")

	store, err := NewSQLiteStore(path, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, "k", "200", time.Hour))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(path, zerolog.Nop())
	require.NoError(t, err)
	defer reopened.Close()

	val, ok, err := reopened.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "200", val)
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	store, err := New(ctx, Options{}, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, store)
	assert.NoError(t, Close(store))

	store, err = New(ctx, Options{Backend: BackendSQLite, SQLitePath: filepath.Join(t.TempDir(), "c.db")}, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, store)
	assert.NoError(t, Close(store))

	_, err = New(ctx, Options{Backend: "memcached"}, zerolog.Nop())
	assert.Error(t, err)
}
