package storage

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	responseBucket   = "responses"
	expiryValueBytes = 8
)

var errBucketMissing = errors.New("response bucket missing")

// boltStore implements a Store backed by BoltDB.
// Each value is prefixed with its big-endian unix expiry.
type boltStore struct {
	db              *bolt.DB
	cleanupMu       sync.Mutex
	lastCleanup     atomic.Int64
	ttl             time.Duration
	cleanupInterval time.Duration
	now             func() time.Time
}

// openBolt initializes a BoltDB-backed Store.
func openBolt(path string, opts Options) (Store, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(responseBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	store := &boltStore{
		db:              db,
		ttl:             opts.TTL,
		cleanupInterval: opts.CleanupInterval,
		now:             time.Now,
	}
	store.lastCleanup.Store(store.now().Unix())
	return store, nil
}

// Close closes the BoltDB store.
func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// Get returns the value stored under key if it has not expired.
// Expired entries are deleted on read.
func (b *boltStore) Get(key string) ([]byte, bool, error) {
	if b == nil || b.db == nil {
		return nil, false, nil
	}

	now := b.now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return nil, false, err
	}

	var (
		out   []byte
		found bool
	)
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket, err := responses(tx)
		if err != nil {
			return err
		}

		k := []byte(key)
		raw := bucket.Get(k)
		if raw == nil {
			return nil
		}

		expiry, ok := decodeExpiry(raw)
		if !ok || !expiry.After(now) {
			return bucket.Delete(k)
		}

		// bbolt memory is only valid inside the transaction.
		out = make([]byte, len(raw)-expiryValueBytes)
		copy(out, raw[expiryValueBytes:])
		found = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return out, found, nil
}

// Put stores value under key for the configured TTL.
func (b *boltStore) Put(key string, value []byte) error {
	if b == nil || b.db == nil {
		return nil
	}

	now := b.now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return err
	}

	return b.db.Update(func(tx *bolt.Tx) error {
		bucket, err := responses(tx)
		if err != nil {
			return err
		}
		buf := make([]byte, expiryValueBytes, expiryValueBytes+len(value))
		binary.BigEndian.PutUint64(buf, uint64(now.Add(b.ttl).Unix()))
		return bucket.Put([]byte(key), append(buf, value...))
	})
}

// maybeCleanupExpired removes expired responses on a fixed cadence to avoid unbounded growth.
func (b *boltStore) maybeCleanupExpired(now time.Time) error {
	last := time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < b.cleanupInterval {
		return nil
	}

	b.cleanupMu.Lock()
	defer b.cleanupMu.Unlock()

	last = time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < b.cleanupInterval {
		return nil
	}

	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket, err := responses(tx)
		if err != nil {
			return err
		}

		cursor := bucket.Cursor()
		for k, v := cursor.First(); k != nil; k, v = cursor.Next() {
			expiry, ok := decodeExpiry(v)
			if !ok || !expiry.After(now) {
				if err := cursor.Delete(); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err == nil {
		b.lastCleanup.Store(now.Unix())
	}
	return err
}

func responses(tx *bolt.Tx) (*bolt.Bucket, error) {
	bucket := tx.Bucket([]byte(responseBucket))
	if bucket == nil {
		return nil, errBucketMissing
	}
	return bucket, nil
}

// decodeExpiry decodes the expiry prefix of a stored value.
func decodeExpiry(value []byte) (time.Time, bool) {
	if len(value) < expiryValueBytes {
		return time.Time{}, false
	}
	unix := int64(binary.BigEndian.Uint64(value[:expiryValueBytes]))
	if unix <= 0 {
		return time.Time{}, false
	}
	return time.Unix(unix, 0), true
}
