package storage

import "context"

//go:generate moq -out metadata_mock.go . MetadataStorage

// MetadataStorage defines interface for storing client metadata
type MetadataStorage interface {
	// SaveLastSyncTimestamp saves the timestamp (unix ms) of the last successful sync
	SaveLastSyncTimestamp(ctx context.Context, timestamp int64) error

	// GetLastSyncTimestamp retrieves the timestamp of the last successful sync
	// Returns 0 if no sync has been performed yet
	GetLastSyncTimestamp(ctx context.Context) (int64, error)

	// GetSchemaVersion returns the last migrated schema version, 0 if none is stored
	GetSchemaVersion(ctx context.Context) (int, error)

	// SaveSchemaVersion stores the schema version marker.
	// The marker never moves backwards: a lower version is ignored.
	SaveSchemaVersion(ctx context.Context, version int) error
}
