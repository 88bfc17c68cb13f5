package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"
)

func openTestBolt(t *testing.T, opts Options) *boltStore {
	t.Helper()
	raw, err := openBolt(filepath.Join(t.TempDir(), "nested", "cache.db"), normalizeOptions(opts))
	require.NoError(t, err)
	store := raw.(*boltStore)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestBoltStoreRoundTrip(t *testing.T) {
	store := openTestBolt(t, Options{TTL: time.Hour})

	_, ok, err := store.Get("entities:v2")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Put("entities:v2", []byte(`[{"clave":"15"}]`)))

	got, ok, err := store.Get("entities:v2")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `[{"clave":"15"}]`, string(got))
}

func TestBoltStoreExpiresEntries(t *testing.T) {
	store := openTestBolt(t, Options{TTL: time.Minute, CleanupInterval: time.Hour})
	clock := time.Now()
	store.now = func() time.Time { return clock }

	require.NoError(t, store.Put("k", []byte("v")))

	clock = clock.Add(2 * time.Minute)
	_, ok, err := store.Get("k")
	require.NoError(t, err)
	assert.False(t, ok, "expired entry must not be served")

	require.NoError(t, store.db.View(func(tx *bolt.Tx) error {
		assert.Nil(t, tx.Bucket([]byte(responseBucket)).Get([]byte("k")), "expired entry is deleted on read")
		return nil
	}))
}

func TestBoltStoreCleanupSweepsExpired(t *testing.T) {
	store := openTestBolt(t, Options{TTL: time.Minute, CleanupInterval: time.Minute})
	clock := time.Now()
	store.now = func() time.Time { return clock }

	require.NoError(t, store.Put("old", []byte("1")))
	clock = clock.Add(5 * time.Minute)
	require.NoError(t, store.Put("new", []byte("2")))

	require.NoError(t, store.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(responseBucket))
		assert.Nil(t, bucket.Get([]byte("old")))
		assert.NotNil(t, bucket.Get([]byte("new")))
		return nil
	}))
}

func TestNewStoreSupportsNoop(t *testing.T) {
	store, err := NewStore("none", "", Options{})
	require.NoError(t, err)
	require.NoError(t, store.Put("x", []byte("y")))
	_, ok, err := store.Get("x")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewStoreRejectsUnknownType(t *testing.T) {
	_, err := NewStore("redis", "", Options{})
	assert.Error(t, err)

	_, err = NewStore("bbolt", " ", Options{})
	assert.Error(t, err)
}
