package store

import (
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/cleared-dev/elmledger/internal/model"
)

// BucketAccounts holds the record set.
const BucketAccounts = "accounts"

// BoltStore keeps the record set in a bbolt database.
type BoltStore struct {
	db *bolt.DB
}

// OpenBolt opens or creates the database at path.
func OpenBolt(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(BucketAccounts)); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", BucketAccounts, err)
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Get() (model.Store, bool, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketAccounts))
		if b == nil {
			return fmt.Errorf("bucket %s not found", BucketAccounts)
		}
		if v := b.Get([]byte(Key)); v != nil {
			// v is only valid inside the transaction.
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil || data == nil {
		return nil, false, err
	}

	st, err := decode(data)
	if err != nil {
		return nil, false, err
	}
	return st, true, nil
}

func (s *BoltStore) Set(st model.Store) error {
	data, err := encode(st)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketAccounts))
		if b == nil {
			return fmt.Errorf("bucket %s not found", BucketAccounts)
		}
		return b.Put([]byte(Key), data)
	})
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
