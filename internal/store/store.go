package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/mosaic/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketHistory = []byte("history")
)

// DefaultHistoryLimit caps the number of remembered URLs
const DefaultHistoryLimit = 200

// errEmptyURL is returned when recording a blank URL
var errEmptyURL = errors.New("empty url")

var _ domain.HistoryStore = (*HistoryStore)(nil)

// HistoryStore implements domain.HistoryStore using BoltDB.
type HistoryStore struct {
	db    *bolt.DB
	mu    sync.RWMutex // Protects memory cache
	wmu   sync.Mutex   // Serialises writers so Record's read-modify-write is atomic
	limit int
	now   func() time.Time

	// In memory-only mode this is the whole history; otherwise it holds
	// entries promoted on access.
	cache map[string][]byte
}

// NewHistoryStore opens (or creates) history.db under dir. An empty dir
// keeps everything in memory.
func NewHistoryStore(dir string, limit int) (*HistoryStore, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	s := &HistoryStore{
		limit: limit,
		now:   time.Now,
		cache: make(map[string][]byte),
	}
	if dir == "" {
		return s, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "history.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketHistory)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	s.db = db
	return s, nil
}

// MemoryOnly reports whether the store has no database behind it
func (s *HistoryStore) MemoryOnly() bool {
	return s.db == nil
}

func (s *HistoryStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Generic helpers ===

func cacheKey(bucket []byte, key string) string {
	return string(bucket) + ":" + key
}

func (s *HistoryStore) get(bucket []byte, key string, dest interface{}) bool {
	ck := cacheKey(bucket, key)

	// Check memory cache first
	s.mu.RLock()
	if data, ok := s.cache[ck]; ok {
		s.mu.RUnlock()
		return json.Unmarshal(data, dest) == nil
	}
	s.mu.RUnlock()

	if s.db == nil {
		return false
	}

	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})

	if data == nil {
		return false
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[ck] = data
	s.mu.Unlock()

	return json.Unmarshal(data, dest) == nil
}

func (s *HistoryStore) set(bucket []byte, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.cache[cacheKey(bucket, key)] = data
	s.mu.Unlock()

	if s.db == nil {
		return nil // Memory-only mode
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).Put([]byte(key), data)
	})
}

func (s *HistoryStore) delete(bucket []byte, keys ...string) error {
	s.mu.Lock()
	for _, key := range keys {
		delete(s.cache, cacheKey(bucket, key))
	}
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		for _, key := range keys {
			if err := b.Delete([]byte(key)); err != nil {
				return err
			}
		}
		return nil
	})
}

// scan decodes every value in a bucket
func (s *HistoryStore) scan(bucket []byte, fn func(data []byte) error) error {
	if s.db == nil {
		prefix := string(bucket) + ":"
		s.mu.RLock()
		defer s.mu.RUnlock()
		for k, v := range s.cache {
			if strings.HasPrefix(k, prefix) {
				if err := fn(v); err != nil {
					return err
				}
			}
		}
		return nil
	}

	return s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		return b.ForEach(func(_, v []byte) error {
			return fn(v)
		})
	})
}

// === History ===

// Record remembers url, bumping its count and last-used time
func (s *HistoryStore) Record(url string) (domain.HistoryEntry, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return domain.HistoryEntry{}, errEmptyURL
	}

	s.wmu.Lock()
	defer s.wmu.Unlock()

	now := s.now()
	var entry domain.HistoryEntry
	if !s.get(bucketHistory, url, &entry) {
		entry = domain.HistoryEntry{URL: url, FirstAt: now}
	}
	entry.Count++
	entry.LastAt = now

	if err := s.set(bucketHistory, url, entry); err != nil {
		return domain.HistoryEntry{}, fmt.Errorf("failed to record url: %w", err)
	}
	if err := s.prune(); err != nil {
		return entry, err
	}
	return entry, nil
}

// Recent returns entries most recently used first
func (s *HistoryStore) Recent(limit int) ([]domain.HistoryEntry, error) {
	entries, err := s.all()
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// Forget removes a single URL
func (s *HistoryStore) Forget(url string) error {
	s.wmu.Lock()
	defer s.wmu.Unlock()
	return s.delete(bucketHistory, strings.TrimSpace(url))
}

// Clear wipes the whole history
func (s *HistoryStore) Clear() error {
	s.wmu.Lock()
	defer s.wmu.Unlock()

	s.mu.Lock()
	s.cache = make(map[string][]byte)
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketHistory); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
			return err
		}
		_, err := tx.CreateBucket(bucketHistory)
		return err
	})
}

// all returns every entry sorted newest first, ties broken by URL
func (s *HistoryStore) all() ([]domain.HistoryEntry, error) {
	var entries []domain.HistoryEntry
	err := s.scan(bucketHistory, func(data []byte) error {
		var e domain.HistoryEntry
		if err := json.Unmarshal(data, &e); err != nil {
			return nil // skip corrupt rows
		}
		entries = append(entries, e)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].LastAt.Equal(entries[j].LastAt) {
			return entries[i].LastAt.After(entries[j].LastAt)
		}
		return entries[i].URL < entries[j].URL
	})
	return entries, nil
}

// prune drops the least recently used entries beyond the limit
func (s *HistoryStore) prune() error {
	entries, err := s.all()
	if err != nil || len(entries) <= s.limit {
		return err
	}
	stale := make([]string, 0, len(entries)-s.limit)
	for _, e := range entries[s.limit:] {
		stale = append(stale, e.URL)
	}
	return s.delete(bucketHistory, stale...)
}
