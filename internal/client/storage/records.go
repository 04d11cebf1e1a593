package storage

import (
	"context"

	"github.com/iudanet/medfichas/internal/models"
)

//go:generate moq -out recordstorage_mock.go . RecordStorage

// RecordStorage is the non-queuing half of the Local Store.
// Writes through this interface never produce sync queue entries; it is used for
// cache fills from the remote system of record and for mirroring confirmed remote writes.
type RecordStorage interface {
	// GetRecord returns the record with the given id.
	// Returns ErrRecordNotFound if it is absent.
	GetRecord(ctx context.Context, collection, id string) (models.Record, error)

	// ListRecords returns every record of the collection in key order.
	ListRecords(ctx context.Context, collection string) ([]models.Record, error)

	// PutRecord upserts the record keyed by its id, assigning a new UUID when
	// the id is absent. Returns the id.
	PutRecord(ctx context.Context, collection string, rec models.Record) (string, error)

	// DeleteRecord removes the record. Deleting an absent record is not an error.
	DeleteRecord(ctx context.Context, collection, id string) error
}

//go:generate moq -out syncwriter_mock.go . SyncWriter

// SyncWriter is the queuing half of the Local Store: each call changes the record
// and appends the matching sync queue entry in one transaction.
type SyncWriter interface {
	// SaveRecordWithSync upserts the record and enqueues op (create or update)
	// with a snapshot of the stored record. Returns the id.
	SaveRecordWithSync(ctx context.Context, collection string, rec models.Record, op models.Operation) (string, error)

	// DeleteRecordWithSync removes the record and enqueues a delete entry.
	DeleteRecordWithSync(ctx context.Context, collection, id string) error
}
