package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getTestStorage(t *testing.T) []ServiceStorage {
	boltDB := &BoltDB{}
	require.NoError(t, boltDB.Init(Option{
		ID:     BoltDBFilePathOption,
		Option: filepath.Join(t.TempDir(), "test.db"),
	}))
	t.Cleanup(func() { _ = boltDB.Close() })

	memoryDB := &MemoryDB{}
	require.NoError(t, memoryDB.Init())

	server := miniredis.RunT(t)
	redisDB := &RedisDB{}
	require.NoError(t, redisDB.Init(Option{
		ID:     RedisAddressOption,
		Option: server.Addr(),
	}))
	t.Cleanup(func() { _ = redisDB.Close() })

	return []ServiceStorage{boltDB, memoryDB, redisDB}
}

func TestStorageReadWrite(t *testing.T) {
	ctx := context.Background()
	for _, db := range getTestStorage(t) {
		t.Run(string(db.Type()), func(tt *testing.T) {
			namespace := "credential-configuration"

			// read before write
			value, err := db.Read(ctx, namespace, "missing")
			assert.NoError(tt, err)
			assert.Empty(tt, value)

			exists, err := db.Exists(ctx, namespace, "missing")
			assert.NoError(tt, err)
			assert.False(tt, exists)

			err = db.Write(ctx, namespace, "badge", []byte("badge-config"))
			assert.NoError(tt, err)

			value, err = db.Read(ctx, namespace, "badge")
			assert.NoError(tt, err)
			assert.Equal(tt, []byte("badge-config"), value)

			exists, err = db.Exists(ctx, namespace, "badge")
			assert.NoError(tt, err)
			assert.True(tt, exists)
		})
	}
}

func TestStorageReadAll(t *testing.T) {
	ctx := context.Background()
	for _, db := range getTestStorage(t) {
		t.Run(string(db.Type()), func(tt *testing.T) {
			namespace := "configs"
			require.NoError(tt, db.Write(ctx, namespace, "one", []byte("1")))
			require.NoError(tt, db.Write(ctx, namespace, "two", []byte("2")))
			require.NoError(tt, db.Write(ctx, "other", "three", []byte("3")))

			all, err := db.ReadAll(ctx, namespace)
			assert.NoError(tt, err)
			assert.Len(tt, all, 2)
			assert.Equal(tt, []byte("1"), all["one"])
			assert.Equal(tt, []byte("2"), all["two"])
		})
	}
}

func TestStorageDelete(t *testing.T) {
	ctx := context.Background()
	for _, db := range getTestStorage(t) {
		t.Run(string(db.Type()), func(tt *testing.T) {
			namespace := "to-delete"
			require.NoError(tt, db.Write(ctx, namespace, "key", []byte("value")))

			err := db.Delete(ctx, namespace, "key")
			assert.NoError(tt, err)

			value, err := db.Read(ctx, namespace, "key")
			assert.NoError(tt, err)
			assert.Empty(tt, value)

			require.NoError(tt, db.Write(ctx, namespace, "key2", []byte("value2")))
			err = db.DeleteNamespace(ctx, namespace)
			assert.NoError(tt, err)

			all, err := db.ReadAll(ctx, namespace)
			assert.NoError(tt, err)
			assert.Empty(tt, all)
		})
	}
}

func TestStorageRegistration(t *testing.T) {
	assert.True(t, IsStorageAvailable(Memory))
	assert.True(t, IsStorageAvailable(Bolt))
	assert.True(t, IsStorageAvailable(Redis))
	assert.True(t, IsStorageAvailable(Postgres))
	assert.False(t, IsStorageAvailable("mongo"))

	_, err := NewStorage("mongo")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported storage provider")
}
