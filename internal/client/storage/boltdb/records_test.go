package boltdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/medfichas/internal/client/storage"
	"github.com/iudanet/medfichas/internal/models"
)

func TestStorage_PutGetRecord(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	tests := []struct {
		name   string
		rec    models.Record
		wantID string
	}{
		{
			name:   "record with id",
			rec:    models.Record{"id": "p-1", "full_name": "Ana"},
			wantID: "p-1",
		},
		{
			name: "record without id gets uuid",
			rec:  models.Record{"full_name": "Bruno"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := store.PutRecord(ctx, models.CollectionPatients, tt.rec)
			require.NoError(t, err)
			require.NotEmpty(t, id)
			if tt.wantID != "" {
				assert.Equal(t, tt.wantID, id)
			}

			got, err := store.GetRecord(ctx, models.CollectionPatients, id)
			require.NoError(t, err)
			assert.Equal(t, id, got.ID())
			assert.Equal(t, tt.rec["full_name"], got["full_name"])
		})
	}

	// PutRecord не должен создавать записи в очереди
	pending, err := store.PendingEntries(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestStorage_PutRecord_DoesNotMutateInput(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	rec := models.Record{"full_name": "Ana"}
	_, err := store.PutRecord(ctx, models.CollectionPatients, rec)
	require.NoError(t, err)

	assert.NotContains(t, rec, "id")
}

func TestStorage_PutRecord_Upsert(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	_, err := store.PutRecord(ctx, models.CollectionPatients, models.Record{"id": "p-1", "full_name": "Old"})
	require.NoError(t, err)
	_, err = store.PutRecord(ctx, models.CollectionPatients, models.Record{"id": "p-1", "full_name": "New"})
	require.NoError(t, err)

	all, err := store.ListRecords(ctx, models.CollectionPatients)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "New", all[0].String("full_name"))
}

func TestStorage_GetRecord_NotFound(t *testing.T) {
	store := newTestStorage(t)

	_, err := store.GetRecord(context.Background(), models.CollectionPatients, "missing")
	assert.ErrorIs(t, err, storage.ErrRecordNotFound)
}

func TestStorage_UnknownCollection(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	_, err := store.GetRecord(ctx, "appointments", "x")
	assert.ErrorIs(t, err, storage.ErrUnknownCollection)

	_, err = store.PutRecord(ctx, "appointments", models.Record{})
	assert.ErrorIs(t, err, storage.ErrUnknownCollection)

	_, err = store.ListRecords(ctx, "appointments")
	assert.ErrorIs(t, err, storage.ErrUnknownCollection)
}

func TestStorage_DeleteRecord(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	id, err := store.PutRecord(ctx, models.CollectionPatients, models.Record{"full_name": "Ana"})
	require.NoError(t, err)

	require.NoError(t, store.DeleteRecord(ctx, models.CollectionPatients, id))

	_, err = store.GetRecord(ctx, models.CollectionPatients, id)
	assert.ErrorIs(t, err, storage.ErrRecordNotFound)

	// Повторное удаление - не ошибка
	assert.NoError(t, store.DeleteRecord(ctx, models.CollectionPatients, id))

	count, err := store.CountPending(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestStorage_ListRecords_Empty(t *testing.T) {
	store := newTestStorage(t)

	all, err := store.ListRecords(context.Background(), models.CollectionPatients)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestStorage_SaveRecordWithSync(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	id, err := store.SaveRecordWithSync(ctx, models.CollectionPatients, models.Record{"full_name": "Ana"}, models.OperationCreate)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := store.GetRecord(ctx, models.CollectionPatients, id)
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.String("full_name"))

	pending, err := store.PendingEntries(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	entry := pending[0]
	assert.Equal(t, models.OperationCreate, entry.Operation)
	assert.Equal(t, models.CollectionPatients, entry.TableName)
	assert.Equal(t, id, entry.TargetID())
	assert.Equal(t, "Ana", entry.Data.String("full_name"))
	assert.False(t, entry.Synced)
}

func TestStorage_SaveRecordWithSync_InvalidOperation(t *testing.T) {
	store := newTestStorage(t)

	_, err := store.SaveRecordWithSync(context.Background(), models.CollectionPatients, models.Record{}, models.OperationDelete)
	require.Error(t, err)

	count, err := store.CountPending(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestStorage_SaveRecordWithSync_UnknownCollectionLeavesQueueUntouched(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	_, err := store.SaveRecordWithSync(ctx, "appointments", models.Record{"id": "a"}, models.OperationCreate)
	assert.ErrorIs(t, err, storage.ErrUnknownCollection)

	count, err := store.CountPending(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestStorage_DeleteRecordWithSync(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	id, err := store.PutRecord(ctx, models.CollectionPatients, models.Record{"full_name": "Ana"})
	require.NoError(t, err)

	require.NoError(t, store.DeleteRecordWithSync(ctx, models.CollectionPatients, id))

	_, err = store.GetRecord(ctx, models.CollectionPatients, id)
	assert.ErrorIs(t, err, storage.ErrRecordNotFound)

	pending, err := store.PendingEntries(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, models.OperationDelete, pending[0].Operation)
	assert.Equal(t, id, pending[0].TargetID())

	assert.Error(t, store.DeleteRecordWithSync(ctx, models.CollectionPatients, ""))
}
