package api

import (
	"context"

	"github.com/iudanet/medfichas/internal/models"
)

//go:generate moq -out remote_mock.go . Remote

// Remote is the narrow contract of the remote system of record:
// select, upsert and delete against a named collection.
type Remote interface {
	// Select returns every row of the collection visible to the caller, in the given order.
	Select(ctx context.Context, collection, order string) ([]models.Record, error)

	// SelectByID returns one row. A missing row is a RemoteError of ErrorKindNotFound.
	SelectByID(ctx context.Context, collection, id string) (models.Record, error)

	// Upsert inserts or replaces the row keyed by its id and returns the stored row.
	Upsert(ctx context.Context, collection string, rec models.Record) (models.Record, error)

	// Delete removes the row. Deleting an absent row succeeds.
	Delete(ctx context.Context, collection, id string) error
}
