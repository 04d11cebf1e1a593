package storage

import (
	"context"

	"github.com/iudanet/medfichas/internal/models"
)

//go:generate moq -out queuestorage_mock.go . QueueStorage

// QueueStorage persists the sync queue: an append-only, insertion-ordered log of
// pending mutations.
type QueueStorage interface {
	// Enqueue appends the entry at the tail of the queue and sets entry.Seq.
	Enqueue(ctx context.Context, entry *models.QueueEntry) error

	// PendingEntries returns unsynced entries in insertion order.
	PendingEntries(ctx context.Context) ([]*models.QueueEntry, error)

	// ListEntries returns every entry, synced or not, in insertion order.
	ListEntries(ctx context.Context) ([]*models.QueueEntry, error)

	// CountPending returns the number of unsynced entries.
	CountPending(ctx context.Context) (int, error)

	// MarkSynced flips the entry's synced flag. Marking an already synced entry is a no-op.
	// Returns ErrQueueEntryNotFound if the entry does not exist.
	MarkSynced(ctx context.Context, entryID string) error

	// PurgeSynced removes synced entries and returns how many were removed.
	PurgeSynced(ctx context.Context) (int, error)

	// PurgeAll discards every entry without replay and returns how many were removed.
	PurgeAll(ctx context.Context) (int, error)

	// UpdateEntryPayload replaces the payload snapshot of an entry.
	// Returns ErrQueueEntryNotFound if the entry does not exist.
	UpdateEntryPayload(ctx context.Context, entryID string, payload models.Record) error
}
