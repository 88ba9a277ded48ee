package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fjod/storefront/internal/config"
)

// backends returns every KV implementation, each backed by a fresh store.
func backends(t *testing.T) map[string]KV {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	lite, err := OpenSQLite(filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)

	kvs := map[string]KV{
		"memory": NewMemory(),
		"redis":  NewRedis(client),
		"sqlite": lite,
	}
	t.Cleanup(func() {
		for _, kv := range kvs {
			_ = kv.Close()
		}
	})
	return kvs
}

func TestKV_Contract(t *testing.T) {
	ctx := context.Background()

	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := kv.Get(ctx, KeyCart)
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, kv.Set(ctx, KeyCart, []byte(`[1]`)))
			require.NoError(t, kv.Set(ctx, KeyCart, []byte(`[1,2]`)))

			got, err := kv.Get(ctx, KeyCart)
			require.NoError(t, err)
			assert.Equal(t, `[1,2]`, string(got))

			require.NoError(t, kv.Delete(ctx, KeyCart))
			_, err = kv.Get(ctx, KeyCart)
			assert.ErrorIs(t, err, ErrNotFound)

			// deleting a missing key is not an error
			assert.NoError(t, kv.Delete(ctx, "nonexistent"))
		})
	}
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()

	type rec struct {
		Name string `json:"name"`
	}
	require.NoError(t, SetJSON(ctx, kv, KeySession, rec{Name: "asha"}))

	var out rec
	require.NoError(t, GetJSON(ctx, kv, KeySession, &out))
	assert.Equal(t, "asha", out.Name)

	require.NoError(t, kv.Set(ctx, KeySession, []byte(`{"name":`)))
	err := GetJSON(ctx, kv, KeySession, &out)
	require.ErrorContains(t, err, "unmarshal userInfo failed")
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestRedis_KeyFormat(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	kv := NewRedis(client)
	require.NoError(t, kv.Set(context.Background(), KeyCart, []byte(`[]`)))

	assert.True(t, mr.Exists("storefront:cartItems"))
	assert.Equal(t, "storefront:test123", redisKey("test123"))
	// records are durable, not cached
	assert.Zero(t, mr.TTL("storefront:cartItems"))
}

func TestSQLite_ReopenKeepsRecords(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "kv.db")

	first, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, KeySession, []byte(`{"token":"t"}`)))
	require.NoError(t, first.Close())

	second, err := OpenSQLite(path)
	require.NoError(t, err)
	defer second.Close()

	got, err := second.Get(ctx, KeySession)
	require.NoError(t, err)
	assert.JSONEq(t, `{"token":"t"}`, string(got))
}

func TestMemory_CopiesValues(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()

	v := []byte("abc")
	require.NoError(t, kv.Set(ctx, "k", v))
	v[0] = 'x'

	got, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	kv, err := Open(ctx, config.StorageConfig{Driver: config.DriverMemory})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, kv)

	mr := miniredis.RunT(t)
	kv, err = Open(ctx, config.StorageConfig{Driver: config.DriverRedis, RedisAddr: mr.Addr()})
	require.NoError(t, err)
	assert.IsType(t, &Redis{}, kv)
	_ = kv.Close()

	kv, err = Open(ctx, config.StorageConfig{Driver: config.DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "x.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLite{}, kv)
	_ = kv.Close()

	_, err = Open(ctx, config.StorageConfig{Driver: "etcd"})
	assert.ErrorContains(t, err, "unknown storage driver")
}
