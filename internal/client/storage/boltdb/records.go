package boltdb

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"

	"github.com/iudanet/medfichas/internal/client/storage"
	"github.com/iudanet/medfichas/internal/models"
)

// GetRecord retrieves a record by ID
func (s *Storage) GetRecord(ctx context.Context, collection, id string) (models.Record, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var rec models.Record

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket, err := collectionBucket(tx, collection)
		if err != nil {
			return err
		}

		data := bucket.Get([]byte(id))
		if data == nil {
			return storage.ErrRecordNotFound
		}

		return s.decode([]byte(id), data, &rec)
	})

	if err != nil {
		return nil, err
	}

	return rec, nil
}

// ListRecords returns all records of the collection
func (s *Storage) ListRecords(ctx context.Context, collection string) ([]models.Record, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var records []models.Record

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket, err := collectionBucket(tx, collection)
		if err != nil {
			return err
		}

		return bucket.ForEach(func(k, v []byte) error {
			var rec models.Record
			if err := s.decode(k, v, &rec); err != nil {
				return fmt.Errorf("record %s: %w", k, err)
			}
			records = append(records, rec)
			return nil
		})
	})

	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	return records, nil
}

// PutRecord upserts a record without touching the sync queue
func (s *Storage) PutRecord(ctx context.Context, collection string, rec models.Record) (string, error) {
	if s.db == nil {
		return "", storage.ErrStorageClosed
	}

	var id string
	err := s.db.Update(func(tx *bbolt.Tx) error {
		var err error
		id, _, err = s.putRecordTx(tx, collection, rec)
		return err
	})

	if err != nil {
		return "", fmt.Errorf("transaction failed: %w", err)
	}

	return id, nil
}

// DeleteRecord removes a record without touching the sync queue
func (s *Storage) DeleteRecord(ctx context.Context, collection, id string) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := collectionBucket(tx, collection)
		if err != nil {
			return err
		}
		return bucket.Delete([]byte(id))
	})

	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}

	return nil
}

// SaveRecordWithSync upserts the record and appends a queue entry in the same transaction
func (s *Storage) SaveRecordWithSync(ctx context.Context, collection string, rec models.Record, op models.Operation) (string, error) {
	if s.db == nil {
		return "", storage.ErrStorageClosed
	}
	if op != models.OperationCreate && op != models.OperationUpdate {
		return "", fmt.Errorf("operation %q cannot be used to save a record", op)
	}

	var id string
	err := s.db.Update(func(tx *bbolt.Tx) error {
		var (
			stored models.Record
			err    error
		)
		id, stored, err = s.putRecordTx(tx, collection, rec)
		if err != nil {
			return err
		}

		// В очередь попадает полный снимок записи, а не diff
		entry := models.NewQueueEntry(op, collection, stored, s.now())
		return s.enqueueTx(tx, entry)
	})

	if err != nil {
		return "", fmt.Errorf("transaction failed: %w", err)
	}

	return id, nil
}

// DeleteRecordWithSync removes the record and appends a delete entry in the same transaction
func (s *Storage) DeleteRecordWithSync(ctx context.Context, collection, id string) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}
	if id == "" {
		return fmt.Errorf("record id cannot be empty")
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := collectionBucket(tx, collection)
		if err != nil {
			return err
		}
		if err := bucket.Delete([]byte(id)); err != nil {
			return fmt.Errorf("failed to delete record: %w", err)
		}

		entry := models.NewQueueEntry(models.OperationDelete, collection, models.Record{models.FieldID: id}, s.now())
		return s.enqueueTx(tx, entry)
	})

	if err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}

	return nil
}

// putRecordTx назначает id при необходимости и сохраняет копию записи
func (s *Storage) putRecordTx(tx *bbolt.Tx, collection string, rec models.Record) (string, models.Record, error) {
	bucket, err := collectionBucket(tx, collection)
	if err != nil {
		return "", nil, err
	}

	stored := rec.Clone()
	if stored == nil {
		stored = models.Record{}
	}
	id := stored.ID()
	if id == "" {
		id = uuid.New().String()
		stored.SetID(id)
	}

	data, err := s.encode([]byte(id), stored)
	if err != nil {
		return "", nil, err
	}

	if err := bucket.Put([]byte(id), data); err != nil {
		return "", nil, fmt.Errorf("failed to save record: %w", err)
	}

	return id, stored, nil
}
