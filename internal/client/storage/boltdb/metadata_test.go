package boltdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"
)

func TestSaveAndGetLastSyncTimestamp(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	// Изначально, если timestamp не сохранён, ожидаем 0
	ts, err := store.GetLastSyncTimestamp(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), ts)

	var expectedTS int64 = 1700000000123
	require.NoError(t, store.SaveLastSyncTimestamp(ctx, expectedTS))

	gotTS, err := store.GetLastSyncTimestamp(ctx)
	require.NoError(t, err)
	assert.Equal(t, expectedTS, gotTS)
}

func TestSchemaVersion(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	// Отсутствующий маркер читается как 0
	version, err := store.GetSchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, version)

	require.NoError(t, store.SaveSchemaVersion(ctx, 2))
	version, err = store.GetSchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, version)

	// Маркер не двигается назад
	require.NoError(t, store.SaveSchemaVersion(ctx, 1))
	version, err = store.GetSchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, version)

	assert.Error(t, store.SaveSchemaVersion(ctx, -1))
}

func TestMetadata_BucketMissing(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	// Удаляем bucket metadata напрямую
	err := store.db.Update(func(tx *bbolt.Tx) error {
		return tx.DeleteBucket(bucketMetadata)
	})
	require.NoError(t, err)

	_, err = store.GetLastSyncTimestamp(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "metadata bucket not found")

	err = store.SaveLastSyncTimestamp(ctx, 42)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "metadata bucket not found")

	err = store.SaveSchemaVersion(ctx, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "metadata bucket not found")
}
