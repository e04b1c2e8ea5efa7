package settings

import (
	"context"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

var settingsBucket = []byte("settings")

var _ Backend = (*BoltStore)(nil)

// BoltStore keeps settings in a bbolt database.
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore opens or creates the database at path.
func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, newStoreError("bolt", "open", "", fmt.Errorf("opening database: %w", err))
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, createErr := tx.CreateBucketIfNotExists(settingsBucket)
		return createErr
	})
	if err != nil {
		db.Close()
		return nil, newStoreError("bolt", "open", "", fmt.Errorf("creating bucket: %w", err))
	}

	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

func (s *BoltStore) Get(_ context.Context, name string) (string, error) {
	var value string
	found := false
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(settingsBucket).Get([]byte(name))
		if data != nil {
			value, found = string(data), true
		}
		return nil
	})
	if err != nil {
		return "", newStoreError("bolt", "get", name, err)
	}
	if !found {
		return "", ErrNotSet
	}
	return value, nil
}

func (s *BoltStore) Set(_ context.Context, name, value string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(settingsBucket).Put([]byte(name), []byte(value))
	})
	if err != nil {
		return newStoreError("bolt", "set", name, err)
	}
	return nil
}

func (s *BoltStore) Clear(_ context.Context, name string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(settingsBucket).Delete([]byte(name))
	})
	if err != nil {
		return newStoreError("bolt", "clear", name, err)
	}
	return nil
}

func (s *BoltStore) List(_ context.Context) (map[string]string, error) {
	values := map[string]string{}
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(settingsBucket).ForEach(func(k, v []byte) error {
			values[string(k)] = string(v)
			return nil
		})
	})
	if err != nil {
		return nil, newStoreError("bolt", "list", "", err)
	}
	return values, nil
}
