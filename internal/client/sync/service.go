package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/iudanet/medfichas/internal/client/api"
	"github.com/iudanet/medfichas/internal/client/storage"
	"github.com/iudanet/medfichas/internal/models"
	pkgapi "github.com/iudanet/medfichas/pkg/api"
)

// ErrOffline строка ошибки, которую возвращает проход без сети
const ErrOffline = "offline"

//go:generate moq -out service_mock.go . Service

// Service определяет интерфейс Sync Engine
type Service interface {
	// SyncWithRemote replays pending queue entries against the remote system of record.
	SyncWithRemote(ctx context.Context) *SyncResult

	// LoadFromRemote refreshes the Local Store with the remote collection (cache fill).
	LoadFromRemote(ctx context.Context) *LoadResult

	// PendingCount returns the number of queue entries waiting for replay.
	PendingCount(ctx context.Context) (int, error)
}

// Connectivity reports whether the remote system of record is reachable.
type Connectivity interface {
	IsOnline() bool
}

// Store is the part of the Local Store the engine works with.
type Store interface {
	storage.RecordStorage
	storage.QueueStorage
	storage.MetadataStorage
}

// SyncResult contains sync operation results
type SyncResult struct {
	Errors  []string // Errors по одной строке на каждую неудачную запись
	Synced  int      // Synced количество записей, подтвержденных удаленно
	Failed  int      // Failed количество записей, оставшихся в очереди
	Purged  int      // Purged количество удаленных из очереди записей
	Success bool     // Success true, если ни одна запись не завершилась ошибкой
	Skipped bool     // Skipped true, если проход не выполнялся (уже идет другой)
}

// LoadResult contains cache fill results
type LoadResult struct {
	Error   string // Error описание ошибки, если загрузка не удалась
	Loaded  int    // Loaded количество записей, записанных в локальное хранилище
	Pruned  int    // Pruned количество локальных записей, удаленных на сервере
	Success bool
}

type service struct {
	remote  api.Remote
	store   Store
	conn    Connectivity
	logger  *slog.Logger
	now     func() time.Time
	owner   string
	running atomic.Bool
}

// NewService creates a new sync service.
// owner is the ownership tag written into every replayed payload.
func NewService(remote api.Remote, store Store, conn Connectivity, owner string, logger *slog.Logger) Service {
	if owner == "" {
		owner = models.SystemOwner
	}
	return &service{
		remote: remote,
		store:  store,
		conn:   conn,
		owner:  owner,
		logger: logger,
		now:    time.Now,
	}
}

// SyncWithRemote replays the queue in FIFO order.
// Per-entry failures never abort the pass; an entry is marked synced right after
// its remote operation succeeds and synced entries are purged after the loop.
func (s *service) SyncWithRemote(ctx context.Context) *SyncResult {
	if !s.conn.IsOnline() {
		s.logger.Info("Cannot sync: device is offline")
		return &SyncResult{Success: false, Errors: []string{ErrOffline}}
	}

	// Таймер, ручной запуск и переподключение могут вызвать синхронизацию одновременно
	if !s.running.CompareAndSwap(false, true) {
		s.logger.Debug("Sync already in progress, skipping")
		return &SyncResult{Success: true, Skipped: true}
	}
	defer s.running.Store(false)

	result := &SyncResult{}

	pending, err := s.store.PendingEntries(ctx)
	if err != nil {
		s.logger.Error("Failed to read sync queue", "error", err)
		result.Errors = append(result.Errors, fmt.Sprintf("failed to read sync queue: %v", err))
		return result
	}

	s.logger.Info("Starting synchronization", "pending", len(pending))

	for _, entry := range pending {
		if err := s.replay(ctx, entry); err != nil {
			s.logger.Warn("Failed to sync queue entry",
				"entry_id", entry.ID,
				"operation", entry.Operation,
				"record_id", entry.TargetID(),
				"kind", api.KindOf(err),
				"error", err)
			result.Failed++
			result.Errors = append(result.Errors, entryError(entry, err))
			continue
		}

		// Отмечаем сразу: подтвержденная запись больше не будет отправлена повторно
		if err := s.store.MarkSynced(ctx, entry.ID); err != nil {
			s.logger.Error("Failed to mark entry as synced", "entry_id", entry.ID, "error", err)
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("failed to mark entry %s as synced: %v", entry.ID, err))
			continue
		}
		result.Synced++
	}

	purged, err := s.store.PurgeSynced(ctx)
	if err != nil {
		s.logger.Error("Failed to purge synced entries", "error", err)
		result.Errors = append(result.Errors, fmt.Sprintf("failed to purge synced entries: %v", err))
	}
	result.Purged = purged

	result.Success = len(result.Errors) == 0
	if result.Success {
		if err := s.store.SaveLastSyncTimestamp(ctx, s.now().UnixMilli()); err != nil {
			s.logger.Warn("Failed to save last sync timestamp", "error", err)
		}
	}

	s.logger.Info("Synchronization completed",
		"synced", result.Synced,
		"failed", result.Failed,
		"purged", result.Purged)

	return result
}

// LoadFromRemote fetches the remote collection (newest first) and writes every row
// through the non-queuing path. Rows with unsynced queue entries keep their local copy.
// Local rows absent from the remote collection and not pending are removed.
func (s *service) LoadFromRemote(ctx context.Context) *LoadResult {
	if !s.conn.IsOnline() {
		return &LoadResult{Success: false, Error: ErrOffline}
	}

	rows, err := s.remote.Select(ctx, models.CollectionPatients, pkgapi.OrderCreatedAtDesc)
	if err != nil {
		s.logger.Warn("Failed to load patients from remote", "error", err)
		return &LoadResult{Success: false, Error: err.Error()}
	}

	pending, err := s.pendingIDs(ctx)
	if err != nil {
		s.logger.Error("Failed to read sync queue", "error", err)
		return &LoadResult{Success: false, Error: err.Error()}
	}

	result := &LoadResult{}
	remoteIDs := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		rec := models.FromRemote(row)
		if rec.ID() == "" {
			s.logger.Warn("Skipping remote row without id")
			continue
		}
		remoteIDs[rec.ID()] = struct{}{}
		if _, ok := pending[rec.ID()]; ok {
			// Несинхронизированная локальная правка важнее удаленной копии
			s.logger.Debug("Keeping pending local copy", "record_id", rec.ID())
			continue
		}
		if _, err := s.store.PutRecord(ctx, models.CollectionPatients, rec); err != nil {
			s.logger.Error("Failed to store remote row", "record_id", rec.ID(), "error", err)
			result.Error = fmt.Sprintf("failed to store patient %s: %v", rec.ID(), err)
			return result
		}
		result.Loaded++
	}

	pruned, err := s.pruneMissing(ctx, remoteIDs, pending)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.Pruned = pruned

	s.logger.Info("Loaded patients from remote", "count", result.Loaded, "pruned", result.Pruned)
	result.Success = true
	return result
}

func (s *service) pendingIDs(ctx context.Context) (map[string]struct{}, error) {
	entries, err := s.store.PendingEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read pending entries: %w", err)
	}
	ids := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if e.TableName == models.CollectionPatients {
			ids[e.TargetID()] = struct{}{}
		}
	}
	return ids, nil
}

// pruneMissing удаляет локальные строки, которых больше нет удаленно (удалены другим клиентом)
func (s *service) pruneMissing(ctx context.Context, remoteIDs, pending map[string]struct{}) (int, error) {
	local, err := s.store.ListRecords(ctx, models.CollectionPatients)
	if err != nil {
		return 0, fmt.Errorf("failed to list local patients: %w", err)
	}

	pruned := 0
	for _, rec := range local {
		id := rec.ID()
		if _, ok := remoteIDs[id]; ok {
			continue
		}
		if _, ok := pending[id]; ok {
			continue
		}
		if err := s.store.DeleteRecord(ctx, models.CollectionPatients, id); err != nil {
			return pruned, fmt.Errorf("failed to prune patient %s: %w", id, err)
		}
		pruned++
	}
	return pruned, nil
}

// PendingCount returns the number of unsynced queue entries
func (s *service) PendingCount(ctx context.Context) (int, error) {
	count, err := s.store.CountPending(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count pending entries: %w", err)
	}
	return count, nil
}

// replay отправляет одну запись очереди в удаленную систему
func (s *service) replay(ctx context.Context, entry *models.QueueEntry) error {
	if entry.TargetID() == "" {
		return errors.New("queue entry has no record id")
	}

	switch entry.Operation {
	case models.OperationCreate, models.OperationUpdate:
		return s.replayUpsert(ctx, entry)
	case models.OperationDelete:
		return s.replayDelete(ctx, entry)
	default:
		return fmt.Errorf("unknown operation %q", entry.Operation)
	}
}

func (s *service) replayUpsert(ctx context.Context, entry *models.QueueEntry) error {
	payload := models.ToRemote(entry.Data, s.owner)

	_, err := s.remote.Upsert(ctx, entry.TableName, payload)
	if err == nil {
		return nil
	}

	switch upsertPolicy.actionFor(api.KindOf(err)) {
	case ActionRetryReduced:
		s.logger.Warn("Remote schema rejected payload, retrying with safe fields",
			"entry_id", entry.ID, "record_id", entry.TargetID(), "error", err)
		if _, retryErr := s.remote.Upsert(ctx, entry.TableName, models.ToSafeRemote(payload)); retryErr != nil {
			return retryErr
		}
		return nil
	case ActionIgnore:
		return nil
	default:
		if api.KindOf(err) == api.ErrorKindAccessControl {
			s.logger.Error("Row level policy rejected the payload, check remote access policies",
				"entry_id", entry.ID, "owner", s.owner)
		}
		return err
	}
}

func (s *service) replayDelete(ctx context.Context, entry *models.QueueEntry) error {
	err := s.remote.Delete(ctx, entry.TableName, entry.TargetID())
	if err == nil {
		return nil
	}

	switch deletePolicy.actionFor(api.KindOf(err)) {
	case ActionIgnore:
		// Запись уже удалена удаленно - повторное удаление считается успехом
		s.logger.Debug("Remote row already deleted", "record_id", entry.TargetID())
		return nil
	default:
		return err
	}
}

func entryError(entry *models.QueueEntry, err error) string {
	verb := "syncing"
	if entry.Operation == models.OperationDelete {
		verb = "deleting"
	}
	return fmt.Sprintf("Error %s %s %s: %v", verb, entry.TableName, entry.TargetID(), err)
}
