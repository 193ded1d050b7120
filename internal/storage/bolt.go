package storage

import (
	"context"
	"time"

	"go.etcd.io/bbolt"
)

const boltBucket = "kv" // key: slot name -> raw value

// Bolt is a KeyValue backed by a single bbolt file.
type Bolt struct {
	db *bbolt.DB
}

// NewBolt opens (or creates) the bbolt database at path.
func NewBolt(path string) (*Bolt, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(boltBucket))
		return err
	}); err != nil {
		_ = db.Close()

		return nil, err
	}

	return &Bolt{db: db}, nil
}

func (b *Bolt) Get(_ context.Context, key string) (string, bool, error) {
	var (
		value string
		ok    bool
	)

	err := b.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket([]byte(boltBucket)).Get([]byte(key))
		if v != nil {
			// v is only valid inside the transaction
			value, ok = string(v), true
		}
		return nil
	})

	return value, ok, err
}

func (b *Bolt) Set(_ context.Context, key, value string) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(boltBucket)).Put([]byte(key), []byte(value))
	})
}

func (b *Bolt) Close() error {
	return b.db.Close()
}
