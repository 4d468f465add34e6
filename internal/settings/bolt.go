package settings

import (
	"fmt"

	bolt "go.etcd.io/bbolt"
)

var bucketName = []byte("settings")

// Defaults applied when a slot has never been written.
const (
	DefaultSteer    int8 = 50
	DefaultThrottle int8 = 40
)

func defaultFor(s Slot) int8 {
	if s == SlotThrottle {
		return DefaultThrottle
	}
	return DefaultSteer
}

// BoltStore keeps the sensitivity slots in a local bbolt database, one
// byte per slot key.
type BoltStore struct {
	db *bolt.DB
}

func OpenBolt(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("settings: open %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("settings: init bucket: %w", err)
	}
	return &BoltStore{db: db}, nil
}

func (b *BoltStore) Load(s Slot) (int8, error) {
	if err := checkSlot(s); err != nil {
		return 0, err
	}
	v := defaultFor(s)
	err := b.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucketName).Get([]byte{byte(s)})
		if len(raw) == 1 {
			v = int8(raw[0])
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("settings: load %s: %w", s, err)
	}
	if err := checkValue(v); err != nil {
		// Corrupt cell; fall back rather than propagate garbage.
		return defaultFor(s), nil
	}
	return v, nil
}

func (b *BoltStore) Save(s Slot, v int8) error {
	if err := checkSlot(s); err != nil {
		return err
	}
	if err := checkValue(v); err != nil {
		return err
	}
	err := b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte{byte(s)}, []byte{byte(v)})
	})
	if err != nil {
		return fmt.Errorf("settings: save %s: %w", s, err)
	}
	return nil
}

func (b *BoltStore) Close() error { return b.db.Close() }
