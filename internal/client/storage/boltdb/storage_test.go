package boltdb

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"

	"github.com/iudanet/medfichas/internal/client/storage"
	"github.com/iudanet/medfichas/internal/models"
)

var allBuckets = [][]byte{bucketAuth, bucketMetadata, bucketSyncQueue, bucketSyncQueueIndex, bucketPatients}

// newTestStorage создает временное BoltDB хранилище, закрываемое по завершении теста
func newTestStorage(t *testing.T, opts ...Option) *Storage {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "medfichas_test.db")

	store, err := New(context.Background(), dbPath, opts...)
	require.NoError(t, err)
	require.NotNil(t, store)

	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})

	return store
}

func TestNew_Success(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "testdb.db")

	ctx := context.Background()
	store, err := New(ctx, dbPath)
	require.NoError(t, err)
	require.NotNil(t, store)
	defer func() {
		require.NoError(t, store.Close())
	}()

	// Проверяем что файл БД действительно создан
	info, err := os.Stat(dbPath)
	require.NoError(t, err)
	assert.False(t, info.IsDir())
	assert.False(t, store.Encrypted())

	// Проверяем, что бакеты существуют
	err = store.db.View(func(tx *bbolt.Tx) error {
		for _, b := range allBuckets {
			if tx.Bucket(b) == nil {
				return os.ErrNotExist
			}
		}
		return nil
	})
	require.NoError(t, err)
}

func TestNew_InvalidPath(t *testing.T) {
	// Путь с нулевым символом недопустим
	store, err := New(context.Background(), string([]byte{0}))
	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestClose(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "testdb.db")

	store, err := New(context.Background(), dbPath)
	require.NoError(t, err)

	// Закрываем БД
	assert.NoError(t, store.Close())

	// После закрытия поле db должно стать nil
	assert.Nil(t, store.db)

	// Второй вызов Close ничего не делает
	assert.NoError(t, store.Close())

	// Операции на закрытом хранилище
	_, err = store.GetRecord(context.Background(), models.CollectionPatients, "x")
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
	_, err = store.PendingEntries(context.Background())
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}

func TestInitBuckets_CreatesBuckets(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "testdb.db")

	// Открываем БД вручную без создания бакетов
	db, err := bbolt.Open(dbPath, 0600, nil)
	require.NoError(t, err)
	defer db.Close()

	store := &Storage{db: db}

	err = store.initBuckets()
	assert.NoError(t, err)

	err = db.View(func(tx *bbolt.Tx) error {
		for _, b := range allBuckets {
			if tx.Bucket(b) == nil {
				return os.ErrNotExist
			}
		}
		return nil
	})
	assert.NoError(t, err)
}

func TestStorage_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "reopen.db")

	store, err := New(ctx, dbPath)
	require.NoError(t, err)

	id, err := store.SaveRecordWithSync(ctx, models.CollectionPatients, models.Record{"full_name": "Ana"}, models.OperationCreate)
	require.NoError(t, err)
	require.NoError(t, store.SaveSchemaVersion(ctx, 1))
	require.NoError(t, store.Close())

	reopened, err := New(ctx, dbPath)
	require.NoError(t, err)
	defer reopened.Close()

	rec, err := reopened.GetRecord(ctx, models.CollectionPatients, id)
	require.NoError(t, err)
	assert.Equal(t, "Ana", rec.String("full_name"))

	pending, err := reopened.PendingEntries(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, id, pending[0].TargetID())

	version, err := reopened.GetSchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, version)
}

func TestStorage_Encryption(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "encrypted.db")

	store, err := New(ctx, dbPath, WithPassphrase("s3cret"))
	require.NoError(t, err)
	assert.True(t, store.Encrypted())

	id, err := store.SaveRecordWithSync(ctx, models.CollectionPatients,
		models.Record{"full_name": "Confidential Name", "notes": "diabetes"}, models.OperationCreate)
	require.NoError(t, err)

	// Значения в bucket не содержат открытого текста
	err = store.db.View(func(tx *bbolt.Tx) error {
		raw := tx.Bucket(bucketPatients).Get([]byte(id))
		assert.NotContains(t, string(raw), "Confidential Name")
		return tx.Bucket(bucketSyncQueue).ForEach(func(_, v []byte) error {
			assert.NotContains(t, string(v), "diabetes")
			return nil
		})
	})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	t.Run("reopen with same passphrase", func(t *testing.T) {
		s, err := New(ctx, dbPath, WithPassphrase("s3cret"))
		require.NoError(t, err)
		defer s.Close()

		rec, err := s.GetRecord(ctx, models.CollectionPatients, id)
		require.NoError(t, err)
		assert.Equal(t, "Confidential Name", rec.String("full_name"))
	})

	t.Run("wrong passphrase", func(t *testing.T) {
		s, err := New(ctx, dbPath, WithPassphrase("wrong"))
		assert.ErrorIs(t, err, storage.ErrEncryptionMismatch)
		assert.Nil(t, s)
	})

	t.Run("missing passphrase", func(t *testing.T) {
		s, err := New(ctx, dbPath)
		assert.ErrorIs(t, err, storage.ErrEncryptionMismatch)
		assert.Nil(t, s)
	})
}

func TestStorage_EncryptionOverPlainData(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "plain.db")

	store, err := New(ctx, dbPath)
	require.NoError(t, err)
	_, err = store.PutRecord(ctx, models.CollectionPatients, models.Record{"full_name": "Ana"})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	s, err := New(ctx, dbPath, WithPassphrase("late"))
	assert.ErrorIs(t, err, storage.ErrEncryptionMismatch)
	assert.Nil(t, s)
}
