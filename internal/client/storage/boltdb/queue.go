package boltdb

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"

	"github.com/iudanet/medfichas/internal/client/storage"
	"github.com/iudanet/medfichas/internal/models"
)

// Ключи syncQueue - порядковые номера bbolt (big-endian), поэтому порядок курсора
// совпадает с порядком вставки. syncQueueIndex хранит entryID -> ключ очереди.

// Enqueue appends an entry at the tail of the sync queue
func (s *Storage) Enqueue(ctx context.Context, entry *models.QueueEntry) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		return s.enqueueTx(tx, entry)
	})

	if err != nil {
		return fmt.Errorf("failed to enqueue entry: %w", err)
	}

	return nil
}

// PendingEntries returns unsynced entries in FIFO order
func (s *Storage) PendingEntries(ctx context.Context) ([]*models.QueueEntry, error) {
	var pending []*models.QueueEntry

	err := s.forEachEntry(func(_ []byte, entry *models.QueueEntry) error {
		if !entry.Synced {
			pending = append(pending, entry)
		}
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to read pending entries: %w", err)
	}

	return pending, nil
}

// ListEntries returns all entries in FIFO order
func (s *Storage) ListEntries(ctx context.Context) ([]*models.QueueEntry, error) {
	var entries []*models.QueueEntry

	err := s.forEachEntry(func(_ []byte, entry *models.QueueEntry) error {
		entries = append(entries, entry)
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	return entries, nil
}

// CountPending returns the number of unsynced entries
func (s *Storage) CountPending(ctx context.Context) (int, error) {
	count := 0

	err := s.forEachEntry(func(_ []byte, entry *models.QueueEntry) error {
		if !entry.Synced {
			count++
		}
		return nil
	})

	if err != nil {
		return 0, fmt.Errorf("failed to count pending entries: %w", err)
	}

	return count, nil
}

// MarkSynced sets the synced flag of an entry
func (s *Storage) MarkSynced(ctx context.Context, entryID string) error {
	return s.updateEntry(entryID, func(entry *models.QueueEntry) bool {
		if entry.Synced {
			return false
		}
		entry.Synced = true
		return true
	})
}

// UpdateEntryPayload replaces the payload snapshot of an entry
func (s *Storage) UpdateEntryPayload(ctx context.Context, entryID string, payload models.Record) error {
	return s.updateEntry(entryID, func(entry *models.QueueEntry) bool {
		entry.Data = payload.Clone()
		return true
	})
}

// PurgeSynced removes synced entries from the queue
func (s *Storage) PurgeSynced(ctx context.Context) (int, error) {
	return s.purge(func(entry *models.QueueEntry) bool {
		return entry.Synced
	})
}

// PurgeAll discards every entry, pending ones included
func (s *Storage) PurgeAll(ctx context.Context) (int, error) {
	return s.purge(func(*models.QueueEntry) bool {
		return true
	})
}

// enqueueTx добавляет запись в хвост очереди внутри открытой транзакции
func (s *Storage) enqueueTx(tx *bbolt.Tx, entry *models.QueueEntry) error {
	if entry == nil {
		return fmt.Errorf("queue entry cannot be nil")
	}
	if !entry.Operation.Valid() {
		return fmt.Errorf("invalid queue operation %q", entry.Operation)
	}
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}

	queue := tx.Bucket(bucketSyncQueue)
	index := tx.Bucket(bucketSyncQueueIndex)
	if queue == nil || index == nil {
		return fmt.Errorf("sync queue bucket not found")
	}

	if index.Get([]byte(entry.ID)) != nil {
		return fmt.Errorf("queue entry %s already exists", entry.ID)
	}

	seq, err := queue.NextSequence()
	if err != nil {
		return fmt.Errorf("failed to allocate queue sequence: %w", err)
	}
	entry.Seq = seq
	key := uint64Bytes(seq)

	data, err := s.encode(key, entry)
	if err != nil {
		return err
	}

	if err := queue.Put(key, data); err != nil {
		return fmt.Errorf("failed to save queue entry: %w", err)
	}
	if err := index.Put([]byte(entry.ID), key); err != nil {
		return fmt.Errorf("failed to index queue entry: %w", err)
	}

	return nil
}

// forEachEntry обходит очередь в порядке вставки
func (s *Storage) forEachEntry(fn func(key []byte, entry *models.QueueEntry) error) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.db.View(func(tx *bbolt.Tx) error {
		queue := tx.Bucket(bucketSyncQueue)
		if queue == nil {
			return fmt.Errorf("sync queue bucket not found")
		}

		return queue.ForEach(func(k, v []byte) error {
			var entry models.QueueEntry
			if err := s.decode(k, v, &entry); err != nil {
				return fmt.Errorf("queue entry %d: %w", binary.BigEndian.Uint64(k), err)
			}
			return fn(k, &entry)
		})
	})
}

// updateEntry читает запись по id, применяет mutate и сохраняет, если mutate вернул true
func (s *Storage) updateEntry(entryID string, mutate func(*models.QueueEntry) bool) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		queue := tx.Bucket(bucketSyncQueue)
		index := tx.Bucket(bucketSyncQueueIndex)
		if queue == nil || index == nil {
			return fmt.Errorf("sync queue bucket not found")
		}

		key := index.Get([]byte(entryID))
		if key == nil {
			return storage.ErrQueueEntryNotFound
		}
		// Ключ из bbolt валиден только внутри транзакции
		key = append([]byte(nil), key...)

		data := queue.Get(key)
		if data == nil {
			return storage.ErrQueueEntryNotFound
		}

		var entry models.QueueEntry
		if err := s.decode(key, data, &entry); err != nil {
			return err
		}

		if !mutate(&entry) {
			return nil
		}

		updated, err := s.encode(key, &entry)
		if err != nil {
			return err
		}
		if err := queue.Put(key, updated); err != nil {
			return fmt.Errorf("failed to update queue entry: %w", err)
		}
		return nil
	})
}

// purge удаляет записи, для которых match вернул true
func (s *Storage) purge(match func(*models.QueueEntry) bool) (int, error) {
	if s.db == nil {
		return 0, storage.ErrStorageClosed
	}

	removed := 0
	err := s.db.Update(func(tx *bbolt.Tx) error {
		queue := tx.Bucket(bucketSyncQueue)
		index := tx.Bucket(bucketSyncQueueIndex)
		if queue == nil || index == nil {
			return fmt.Errorf("sync queue bucket not found")
		}

		// Удалять во время ForEach нельзя, поэтому сначала собираем ключи
		type victim struct {
			key []byte
			id  string
		}
		var victims []victim

		err := queue.ForEach(func(k, v []byte) error {
			var entry models.QueueEntry
			if err := s.decode(k, v, &entry); err != nil {
				return err
			}
			if match(&entry) {
				victims = append(victims, victim{key: append([]byte(nil), k...), id: entry.ID})
			}
			return nil
		})
		if err != nil {
			return err
		}

		for _, v := range victims {
			if err := queue.Delete(v.key); err != nil {
				return fmt.Errorf("failed to delete queue entry: %w", err)
			}
			if err := index.Delete([]byte(v.id)); err != nil {
				return fmt.Errorf("failed to delete queue index: %w", err)
			}
		}
		removed = len(victims)
		return nil
	})

	if err != nil {
		return 0, fmt.Errorf("failed to purge queue: %w", err)
	}

	return removed, nil
}
