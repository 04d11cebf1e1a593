package boltdb

import (
	"context"
	"encoding/binary"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/medfichas/internal/client/storage"
)

const (
	keyLastSyncTimestamp = "last_sync_timestamp"
	keySchemaVersion     = "schemaVersion"
)

// SaveLastSyncTimestamp saves the timestamp of the last successful sync
func (s *Storage) SaveLastSyncTimestamp(ctx context.Context, timestamp int64) error {
	return s.putUint64(keyLastSyncTimestamp, uint64(timestamp))
}

// GetLastSyncTimestamp retrieves the timestamp of the last successful sync
// Returns 0 if no sync has been performed yet
func (s *Storage) GetLastSyncTimestamp(ctx context.Context) (int64, error) {
	v, err := s.getUint64(keyLastSyncTimestamp)
	if err != nil {
		return 0, fmt.Errorf("failed to get last sync timestamp: %w", err)
	}
	return int64(v), nil
}

// GetSchemaVersion returns the stored schema version marker, 0 when absent
func (s *Storage) GetSchemaVersion(ctx context.Context) (int, error) {
	v, err := s.getUint64(keySchemaVersion)
	if err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return int(v), nil
}

// SaveSchemaVersion stores the schema version marker. Lower versions are ignored.
func (s *Storage) SaveSchemaVersion(ctx context.Context, version int) error {
	if version < 0 {
		return fmt.Errorf("schema version cannot be negative: %d", version)
	}
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}

		// Маркер версии только растет
		if current := bucket.Get([]byte(keySchemaVersion)); current != nil {
			if binary.BigEndian.Uint64(current) >= uint64(version) {
				return nil
			}
		}

		if err := bucket.Put([]byte(keySchemaVersion), uint64Bytes(uint64(version))); err != nil {
			return fmt.Errorf("failed to save schema version: %w", err)
		}
		return nil
	})
}

func (s *Storage) putUint64(key string, v uint64) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}

		if err := bucket.Put([]byte(key), uint64Bytes(v)); err != nil {
			return fmt.Errorf("failed to save %s: %w", key, err)
		}

		return nil
	})
}

func (s *Storage) getUint64(key string) (uint64, error) {
	if s.db == nil {
		return 0, storage.ErrStorageClosed
	}

	var v uint64
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}

		// Отсутствующее значение читается как 0
		if data := bucket.Get([]byte(key)); data != nil {
			v = binary.BigEndian.Uint64(data)
		}
		return nil
	})

	return v, err
}

func uint64Bytes(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}
