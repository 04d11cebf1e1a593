// Package migrate upgrades the Local Store schema version before other components use it.
package migrate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/iudanet/medfichas/internal/client/storage"
	clientsync "github.com/iudanet/medfichas/internal/client/sync"
	"github.com/iudanet/medfichas/internal/models"
)

// Syncer drains pending work before the schema changes meaning.
type Syncer interface {
	SyncWithRemote(ctx context.Context) *clientsync.SyncResult
}

// Connectivity reports whether the remote system of record is reachable.
type Connectivity interface {
	IsOnline() bool
}

// Store is the part of the Local Store the migrator touches.
type Store interface {
	storage.QueueStorage
	storage.MetadataStorage
}

// Step upgrades the store from version-1 to version.
type Step func(ctx context.Context, m *Migrator) error

// Migrator runs schema steps between the stored version and the target version.
type Migrator struct {
	store  Store
	syncer Syncer
	conn   Connectivity
	logger *slog.Logger
	steps  map[int]Step
	owner  string
	target int
}

// NewMigrator creates a migrator targeting models.CurrentSchemaVersion.
func NewMigrator(store Store, syncer Syncer, conn Connectivity, owner string, logger *slog.Logger) *Migrator {
	if owner == "" {
		owner = models.SystemOwner
	}
	return &Migrator{
		store:  store,
		syncer: syncer,
		conn:   conn,
		owner:  owner,
		logger: logger,
		target: models.CurrentSchemaVersion,
		steps: map[int]Step{
			1: sanitizeQueue,
		},
	}
}

// StoredVersion returns the version marker kept in the Local Store.
func (m *Migrator) StoredVersion(ctx context.Context) (int, error) {
	return m.store.GetSchemaVersion(ctx)
}

// TargetVersion returns the version the code expects.
func (m *Migrator) TargetVersion() int {
	return m.target
}

// IsMigrationNeeded reports whether the stored version is behind the target.
func (m *Migrator) IsMigrationNeeded(ctx context.Context) (bool, error) {
	stored, err := m.StoredVersion(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to read schema version: %w", err)
	}
	return stored < m.target, nil
}

// RunIfNeeded migrates when needed. Failures are logged and reported as false;
// the caller is expected to keep running in a degraded state.
func (m *Migrator) RunIfNeeded(ctx context.Context) bool {
	if err := m.Migrate(ctx); err != nil {
		m.logger.Error("Schema migration failed", "error", err)
		return false
	}
	return true
}

// Migrate runs every step between the stored and the target version.
// Before each step a best-effort sync drains the queue when online;
// the marker advances only after the step succeeded.
func (m *Migrator) Migrate(ctx context.Context) error {
	stored, err := m.StoredVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if stored >= m.target {
		m.logger.Debug("Schema is current", "version", stored)
		return nil
	}

	m.logger.Info("Migrating local schema", "from", stored, "to", m.target)

	for version := stored + 1; version <= m.target; version++ {
		if m.conn.IsOnline() {
			result := m.syncer.SyncWithRemote(ctx)
			if !result.Success {
				// Несинхронизированные записи будут очищены шагом миграции
				m.logger.Warn("Pre-migration sync incomplete", "version", version, "errors", result.Errors)
			}
		}

		if step, ok := m.steps[version]; ok {
			if err := step(ctx, m); err != nil {
				return fmt.Errorf("migration to version %d failed: %w", version, err)
			}
		}

		if err := m.store.SaveSchemaVersion(ctx, version); err != nil {
			return fmt.Errorf("failed to save schema version %d: %w", version, err)
		}
		m.logger.Info("Schema migrated", "version", version)
	}

	return nil
}

// sanitizeQueue проецирует payload каждой ожидающей записи на поля текущей схемы
func sanitizeQueue(ctx context.Context, m *Migrator) error {
	pending, err := m.store.PendingEntries(ctx)
	if err != nil {
		return fmt.Errorf("failed to read pending entries: %w", err)
	}

	for _, entry := range pending {
		sanitized := models.Sanitize(entry.Data, m.owner)
		if dropped := entry.Data.UnknownFields(models.PatientFields); len(dropped) > 0 {
			m.logger.Info("Sanitized queue entry", "entry_id", entry.ID, "dropped", dropped)
		}
		err := m.store.UpdateEntryPayload(ctx, entry.ID, sanitized)
		switch {
		case errors.Is(err, storage.ErrQueueEntryNotFound):
			// Запись успели синхронизировать и удалить после чтения очереди
			continue
		case err != nil:
			return fmt.Errorf("failed to sanitize entry %s: %w", entry.ID, err)
		}
	}

	return nil
}
