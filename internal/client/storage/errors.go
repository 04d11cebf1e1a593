package storage

import "errors"

// Common client storage errors
var (
	// ErrAuthNotFound indicates that no authentication data exists
	ErrAuthNotFound = errors.New("authentication data not found")

	// ErrRecordNotFound indicates that a record is absent from the local collection
	ErrRecordNotFound = errors.New("record not found")

	// ErrQueueEntryNotFound indicates that a sync queue entry does not exist
	ErrQueueEntryNotFound = errors.New("queue entry not found")

	// ErrUnknownCollection indicates that the collection has no bucket in the local store
	ErrUnknownCollection = errors.New("unknown collection")

	// ErrEncryptionMismatch indicates that the store was opened with a missing or wrong passphrase
	ErrEncryptionMismatch = errors.New("local store encryption key mismatch")

	// ErrStorageClosed indicates that storage is closed
	ErrStorageClosed = errors.New("storage is closed")
)
