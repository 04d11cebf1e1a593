package migrate

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/medfichas/internal/client/connectivity"
	"github.com/iudanet/medfichas/internal/client/storage/boltdb"
	clientsync "github.com/iudanet/medfichas/internal/client/sync"
	"github.com/iudanet/medfichas/internal/models"
)

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T) *boltdb.Storage {
	t.Helper()
	store, err := boltdb.New(context.Background(), filepath.Join(t.TempDir(), "migrate_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func okSyncer() *clientsync.ServiceMock {
	return &clientsync.ServiceMock{
		SyncWithRemoteFunc: func(ctx context.Context) *clientsync.SyncResult {
			return &clientsync.SyncResult{Success: true}
		},
	}
}

func TestMigrator_IsMigrationNeeded(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	m := NewMigrator(store, okSyncer(), connectivity.NewSwitch(false), models.SystemOwner, setupTestLogger())

	stored, err := m.StoredVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stored)
	assert.Equal(t, models.CurrentSchemaVersion, m.TargetVersion())

	needed, err := m.IsMigrationNeeded(ctx)
	require.NoError(t, err)
	assert.True(t, needed)

	assert.True(t, m.RunIfNeeded(ctx))

	needed, err = m.IsMigrationNeeded(ctx)
	require.NoError(t, err)
	assert.False(t, needed)

	stored, err = m.StoredVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stored)
}

func TestMigrator_SanitizesPendingEntries(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	legacy := models.NewQueueEntry(models.OperationCreate, models.CollectionPatients, models.Record{
		"id":        "p-1",
		"full_name": "Ana",
		"age":       41.0,
		"lastVisit": "2023-10-01",
	}, time.Now())
	require.NoError(t, store.Enqueue(ctx, legacy))

	owned := models.NewQueueEntry(models.OperationUpdate, models.CollectionPatients, models.Record{
		"id":      "p-2",
		"user_id": "clinic_01",
	}, time.Now())
	require.NoError(t, store.Enqueue(ctx, owned))

	m := NewMigrator(store, okSyncer(), connectivity.NewSwitch(false), models.SystemOwner, setupTestLogger())
	require.True(t, m.RunIfNeeded(ctx))

	pending, err := store.PendingEntries(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)

	assert.Equal(t, models.Record{"id": "p-1", "full_name": "Ana", "user_id": "system"}, pending[0].Data)
	// Существующая метка владельца сохраняется
	assert.Equal(t, "clinic_01", pending[1].Data.String("user_id"))
	// Порядок очереди не меняется
	assert.Equal(t, legacy.ID, pending[0].ID)
	assert.Equal(t, owned.ID, pending[1].ID)
}

func TestMigrator_SyncsBeforeMigratingWhenOnline(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	syncer := okSyncer()

	m := NewMigrator(store, syncer, connectivity.NewSwitch(true), models.SystemOwner, setupTestLogger())
	require.True(t, m.RunIfNeeded(ctx))
	assert.Len(t, syncer.SyncWithRemoteCalls(), 1)

	// Повторный запуск ничего не делает
	require.True(t, m.RunIfNeeded(ctx))
	assert.Len(t, syncer.SyncWithRemoteCalls(), 1)
}

func TestMigrator_OfflineSkipsSync(t *testing.T) {
	syncer := okSyncer()
	m := NewMigrator(newTestStore(t), syncer, connectivity.NewSwitch(false), models.SystemOwner, setupTestLogger())

	require.True(t, m.RunIfNeeded(context.Background()))
	assert.Empty(t, syncer.SyncWithRemoteCalls())
}

func TestMigrator_FailedSyncDoesNotBlockMigration(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	syncer := &clientsync.ServiceMock{
		SyncWithRemoteFunc: func(ctx context.Context) *clientsync.SyncResult {
			return &clientsync.SyncResult{Success: false, Errors: []string{"boom"}}
		},
	}

	m := NewMigrator(store, syncer, connectivity.NewSwitch(true), models.SystemOwner, setupTestLogger())
	assert.True(t, m.RunIfNeeded(ctx))

	stored, err := m.StoredVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stored)
}

func TestMigrator_StepFailureReportsFalse(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	m := NewMigrator(store, okSyncer(), connectivity.NewSwitch(false), models.SystemOwner, setupTestLogger())
	m.steps[1] = func(ctx context.Context, m *Migrator) error {
		return errors.New("disk full")
	}

	assert.False(t, m.RunIfNeeded(ctx))

	// Маркер не сдвинулся
	needed, err := m.IsMigrationNeeded(ctx)
	require.NoError(t, err)
	assert.True(t, needed)
}

func TestMigrator_StoreClosed(t *testing.T) {
	store, err := boltdb.New(context.Background(), filepath.Join(t.TempDir(), "closed.db"))
	require.NoError(t, err)
	require.NoError(t, store.Close())

	m := NewMigrator(store, okSyncer(), connectivity.NewSwitch(false), models.SystemOwner, setupTestLogger())
	assert.False(t, m.RunIfNeeded(context.Background()))

	_, err = m.IsMigrationNeeded(context.Background())
	assert.Error(t, err)
}

func TestMigrator_MultipleSteps(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	m := NewMigrator(store, okSyncer(), connectivity.NewSwitch(false), models.SystemOwner, setupTestLogger())
	var ran []int
	m.target = 3
	m.steps = map[int]Step{
		1: func(ctx context.Context, m *Migrator) error { ran = append(ran, 1); return nil },
		3: func(ctx context.Context, m *Migrator) error { ran = append(ran, 3); return nil },
	}

	require.True(t, m.RunIfNeeded(ctx))
	assert.Equal(t, []int{1, 3}, ran)

	stored, err := m.StoredVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stored)
}
