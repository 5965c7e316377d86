package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"

	"github.com/chess-tournament-radar/backend/pkg/logger"
	"github.com/chess-tournament-radar/backend/pkg/models"
)

const (
	// BoltDB bucket names
	FeedBucket   = "feed"
	AnchorBucket = "anchor"

	// Fixed keys inside the buckets; each bucket holds a single record.
	feedKey   = "snapshot"
	anchorKey = "city"
)

// Store is the durable key-value substrate: one slot for the cached feed
// snapshot, one for the persisted city anchor. Records that fail to
// unmarshal are treated as absent.
type Store interface {
	Feed() (models.FeedSnapshot, bool, error)
	SaveFeed(snapshot models.FeedSnapshot) error
	Anchor() (*models.CityAnchor, error)
	SaveAnchor(anchor models.CityAnchor) error
	ClearAnchor() error
	Close() error
}

// BoltStore implements Store using BoltDB for persistence
type BoltStore struct {
	db *bbolt.DB
}

// NewBoltStore creates a new BoltDB-backed store
func NewBoltStore(dbPath string) (*BoltStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory %s: %w", dir, err)
	}

	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open BoltDB at %s: %w", dbPath, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, bucket := range []string{FeedBucket, AnchorBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(bucket)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create buckets: %w", err)
	}

	logger.Info("BoltDB store initialized at: %s", dbPath)
	return &BoltStore{db: db}, nil
}

// Feed returns the cached feed snapshot. An unparsable record degrades to a
// cache miss rather than an error.
func (s *BoltStore) Feed() (models.FeedSnapshot, bool, error) {
	var snapshot models.FeedSnapshot
	var found bool

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(FeedBucket))
		if bucket == nil {
			return nil
		}
		data := bucket.Get([]byte(feedKey))
		if data == nil {
			return nil
		}
		if err := json.Unmarshal(data, &snapshot); err != nil {
			logger.Warn("Cached feed snapshot unparsable, treating as miss: %v", err)
			snapshot = models.FeedSnapshot{}
			return nil
		}
		found = true
		return nil
	})
	if err != nil {
		return models.FeedSnapshot{}, false, fmt.Errorf("failed to read feed snapshot: %w", err)
	}
	return snapshot, found, nil
}

// SaveFeed persists the feed snapshot, replacing any previous one.
func (s *BoltStore) SaveFeed(snapshot models.FeedSnapshot) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(FeedBucket))
		if bucket == nil {
			return fmt.Errorf("bucket %s does not exist", FeedBucket)
		}
		data, err := json.Marshal(snapshot)
		if err != nil {
			return fmt.Errorf("failed to marshal feed snapshot: %w", err)
		}
		return bucket.Put([]byte(feedKey), data)
	})
}

// Anchor returns the persisted city anchor, nil when absent or unparsable.
func (s *BoltStore) Anchor() (*models.CityAnchor, error) {
	var anchor *models.CityAnchor

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(AnchorBucket))
		if bucket == nil {
			return nil
		}
		data := bucket.Get([]byte(anchorKey))
		if data == nil {
			return nil
		}
		var a models.CityAnchor
		if err := json.Unmarshal(data, &a); err != nil {
			logger.Warn("Persisted city anchor unparsable, treating as absent: %v", err)
			return nil
		}
		anchor = &a
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read city anchor: %w", err)
	}
	return anchor, nil
}

// SaveAnchor persists the city anchor.
func (s *BoltStore) SaveAnchor(anchor models.CityAnchor) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(AnchorBucket))
		if bucket == nil {
			return fmt.Errorf("bucket %s does not exist", AnchorBucket)
		}
		data, err := json.Marshal(anchor)
		if err != nil {
			return fmt.Errorf("failed to marshal city anchor: %w", err)
		}
		return bucket.Put([]byte(anchorKey), data)
	})
}

// ClearAnchor removes the persisted city anchor.
func (s *BoltStore) ClearAnchor() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(AnchorBucket))
		if bucket == nil {
			return nil
		}
		return bucket.Delete([]byte(anchorKey))
	})
}

// Close closes the BoltDB database
func (s *BoltStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
