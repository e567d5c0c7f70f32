package cache

import (
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

// bucketName is the bbolt bucket holding one JSON entry per disk record.
const bucketName = "records"

// IndexEntry is the metadata kept per cached record. The index is purely
// advisory: the payload records on disk are the source of truth, and a
// lost or stale index only degrades reporting, never correctness.
type IndexEntry struct {
	// Name is the logical shader name the record was stored under.
	Name string `json:"name"`

	// Key is the hex-encoded cache key.
	Key string `json:"key"`

	// Size is the payload length in bytes.
	Size int `json:"size"`

	// CreatedAt is when the record was written.
	CreatedAt time.Time `json:"created_at"`
}

// Index tracks disk-cache records in a bbolt database.
type Index struct {
	db *bbolt.DB
}

func openIndex(path string) (*Index, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open index database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create index bucket: %w", err)
	}

	return &Index{db: db}, nil
}

// Record stores or replaces the metadata entry for (name, key).
func (i *Index) Record(name string, key Key, size int) error {
	entry := IndexEntry{
		Name:      name,
		Key:       key.Hex(),
		Size:      size,
		CreatedAt: time.Now(),
	}

	return i.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))

		data, err := json.Marshal(entry)
		if err != nil {
			return err
		}

		return b.Put([]byte(entry.Key), data)
	})
}

// Entries returns all metadata entries.
func (i *Index) Entries() ([]IndexEntry, error) {
	var entries []IndexEntry

	err := i.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))

		return b.ForEach(func(_, v []byte) error {
			var entry IndexEntry
			if err := json.Unmarshal(v, &entry); err != nil {
				return err
			}

			entries = append(entries, entry)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return entries, nil
}

// Stats returns the record count and total payload size.
func (i *Index) Stats() (int, int64, error) {
	entries, err := i.Entries()
	if err != nil {
		return 0, 0, err
	}

	var total int64
	for _, e := range entries {
		total += int64(e.Size)
	}

	return len(entries), total, nil
}

// Reset drops and recreates the record bucket.
func (i *Index) Reset() error {
	return i.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket([]byte(bucketName)); err != nil {
			return err
		}

		_, err := tx.CreateBucket([]byte(bucketName))
		return err
	})
}

// Close closes the index database.
func (i *Index) Close() error {
	return i.db.Close()
}
