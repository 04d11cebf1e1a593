package boltdb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/iudanet/medfichas/internal/client/storage"
	"github.com/iudanet/medfichas/internal/crypto"
	"github.com/iudanet/medfichas/internal/models"
)

var (
	// BoltDB bucket names
	bucketAuth           = []byte("auth")
	bucketMetadata       = []byte("meta")
	bucketSyncQueue      = []byte("syncQueue")
	bucketSyncQueueIndex = []byte("syncQueueIndex")
	bucketPatients       = []byte(models.CollectionPatients)

	keyEncryptionSalt  = []byte("encryption_salt")
	keyEncryptionCheck = []byte("encryption_check")
)

// encryptionCheckValue шифруется при создании хранилища, по нему проверяется пароль при открытии
var encryptionCheckValue = []byte("medfichas")

// collections сопоставляет имя коллекции и bucket с записями
var collections = map[string][]byte{
	models.CollectionPatients: bucketPatients,
}

// Storage represents BoltDB storage implementation for client.
// A single file holds the patient records, the sync queue, the schema version marker
// and the bearer session.
type Storage struct {
	db     *bbolt.DB
	sealer *crypto.Sealer
	now    func() time.Time
}

// Option configures Storage
type Option func(*options)

type options struct {
	now        func() time.Time
	passphrase string
}

// WithPassphrase enables at-rest encryption of records, queue entries and the session.
func WithPassphrase(passphrase string) Option {
	return func(o *options) {
		o.passphrase = passphrase
	}
}

// WithClock overrides the clock used to timestamp queue entries.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// New creates a new BoltDB storage instance
// dbPath is the path to the BoltDB database file
func New(ctx context.Context, dbPath string, opts ...Option) (*Storage, error) {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	// Открываем BoltDB
	db, err := bbolt.Open(dbPath, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	s := &Storage{db: db, now: o.now}

	// Инициализируем buckets
	if err := s.initBuckets(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize buckets: %w", err)
	}

	if err := s.initEncryption(o.passphrase); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Encrypted reports whether values are sealed at rest.
func (s *Storage) Encrypted() bool {
	return s.sealer != nil
}

// initBuckets создает необходимые buckets если они не существуют
func (s *Storage) initBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketAuth, bucketMetadata, bucketSyncQueue, bucketSyncQueueIndex, bucketPatients} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("failed to create %s bucket: %w", name, err)
			}
		}
		return nil
	})
}

// initEncryption сверяет пароль с состоянием файла.
// Соль и контрольное значение лежат в meta; их наличие означает, что файл зашифрован.
func (s *Storage) initEncryption(passphrase string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		meta := tx.Bucket(bucketMetadata)
		salt := meta.Get(keyEncryptionSalt)

		if passphrase == "" {
			if salt != nil {
				return fmt.Errorf("store is encrypted but no passphrase was given: %w", storage.ErrEncryptionMismatch)
			}
			return nil
		}

		if salt == nil {
			// Нельзя включить шифрование поверх уже записанных открытых данных
			if hasData(tx) {
				return fmt.Errorf("store holds unencrypted data: %w", storage.ErrEncryptionMismatch)
			}

			newSalt, err := crypto.GenerateSalt()
			if err != nil {
				return err
			}
			sealer, err := newSealer(passphrase, newSalt)
			if err != nil {
				return err
			}
			check, err := sealer.Seal(encryptionCheckValue, keyEncryptionCheck)
			if err != nil {
				return fmt.Errorf("failed to seal encryption check: %w", err)
			}
			if err := meta.Put(keyEncryptionSalt, newSalt); err != nil {
				return fmt.Errorf("failed to save encryption salt: %w", err)
			}
			if err := meta.Put(keyEncryptionCheck, check); err != nil {
				return fmt.Errorf("failed to save encryption check: %w", err)
			}
			s.sealer = sealer
			return nil
		}

		sealer, err := newSealer(passphrase, salt)
		if err != nil {
			return err
		}
		plain, err := sealer.Open(meta.Get(keyEncryptionCheck), keyEncryptionCheck)
		if err != nil || !bytes.Equal(plain, encryptionCheckValue) {
			return fmt.Errorf("wrong passphrase: %w", storage.ErrEncryptionMismatch)
		}
		s.sealer = sealer
		return nil
	})
}

func newSealer(passphrase string, salt []byte) (*crypto.Sealer, error) {
	key, err := crypto.DeriveStorageKey(passphrase, salt)
	if err != nil {
		return nil, fmt.Errorf("failed to derive storage key: %w", err)
	}
	return crypto.NewSealer(key)
}

func hasData(tx *bbolt.Tx) bool {
	for _, name := range [][]byte{bucketAuth, bucketSyncQueue, bucketPatients} {
		if k, _ := tx.Bucket(name).Cursor().First(); k != nil {
			return true
		}
	}
	return false
}

// encode сериализует значение в JSON и, если включено шифрование, запечатывает его.
// Ключ bucket используется как additional data.
func (s *Storage) encode(key []byte, v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal value: %w", err)
	}
	if s.sealer == nil {
		return data, nil
	}
	return s.sealer.Seal(data, key)
}

// decode обратная операция к encode
func (s *Storage) decode(key, data []byte, v any) error {
	if s.sealer != nil {
		plain, err := s.sealer.Open(data, key)
		if err != nil {
			return err
		}
		data = plain
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal value: %w", err)
	}
	return nil
}

// collectionBucket возвращает bucket коллекции внутри транзакции
func collectionBucket(tx *bbolt.Tx, collection string) (*bbolt.Bucket, error) {
	name, ok := collections[collection]
	if !ok {
		return nil, fmt.Errorf("%w: %q", storage.ErrUnknownCollection, collection)
	}
	bucket := tx.Bucket(name)
	if bucket == nil {
		return nil, fmt.Errorf("%s bucket not found", name)
	}
	return bucket, nil
}
