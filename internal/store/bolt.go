// Package store persists the small bits of state that outlive a run: the
// stats cache and the check command's watermark. Everything lives in one
// bbolt file under the XDG cache directory.
package store

import (
	"encoding/json"
	"time"

	"github.com/adrg/xdg"
	"go.etcd.io/bbolt"
)

const (
	bucketStats = "stats" // key: slug -> StatsEntry JSON
	bucketState = "state" // key: "checked_after" -> RFC 3339 timestamp
)

const keyCheckedAfter = "checked_after"

// StatsEntry is one cached stats record for a repository.
type StatsEntry struct {
	UpdatedAt time.Time `json:"updated_at"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Store wraps the bbolt database.
type Store struct {
	db *bbolt.DB
}

// Open opens (creating if needed) the cache database in the XDG cache dir.
func Open() (*Store, error) {
	path, err := xdg.CacheFile("gh-archive/gh-archive.db")
	if err != nil {
		return nil, err
	}

	return OpenAt(path)
}

// OpenAt opens a store at an explicit path. Tests use this.
func OpenAt(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(bucketStats)); err != nil {
			return err
		}

		_, err := tx.CreateBucketIfNotExists([]byte(bucketState))

		return err
	}); err != nil {
		_ = db.Close()

		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// PutStats writes one stats entry, overwriting any previous record for the
// slug.
func (s *Store) PutStats(slug string, entry StatsEntry) error {
	data, err := json.Marshal(&entry)
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketStats)).Put([]byte(slug), data)
	})
}

// GetStats reads the cached entry for a slug. The second return is false
// when no entry exists.
func (s *Store) GetStats(slug string) (StatsEntry, bool, error) {
	var (
		entry StatsEntry
		found bool
	)

	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(bucketStats)).Get([]byte(slug))
		if data == nil {
			return nil
		}

		found = true

		return json.Unmarshal(data, &entry)
	})

	return entry, found, err
}

// Watermark returns the check command's persisted checked-after timestamp,
// or the zero time when none has been written yet.
func (s *Store) Watermark() (time.Time, error) {
	var t time.Time

	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(bucketState)).Get([]byte(keyCheckedAfter))
		if data == nil {
			return nil
		}

		parsed, err := time.Parse(time.RFC3339Nano, string(data))
		if err != nil {
			return err
		}

		t = parsed

		return nil
	})

	return t, err
}

// SetWatermark persists the checked-after timestamp.
func (s *Store) SetWatermark(t time.Time) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketState)).
			Put([]byte(keyCheckedAfter), []byte(t.Format(time.RFC3339Nano)))
	})
}
