// Package disk keeps document summaries across runs so re-analysing an
// unchanged repository does not call the summarization model again.
package disk

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

const (
	indexName         = "index.json"
	DefaultMaxEntries = 10000
	DefaultTTL        = 30 * 24 * time.Hour
)

type Config struct {
	Dir        string
	MaxEntries int
	// MaxBytes caps the summed size of all summaries; 0 means no cap.
	MaxBytes int64
	TTL      time.Duration
}

type record struct {
	File     string    `json:"file"`
	Size     int64     `json:"size"`
	Expires  time.Time `json:"expires"`
	LastUsed time.Time `json:"last_used"`
}

type index struct {
	Records map[string]record `json:"records"`
}

// Store is a summary cache on disk. Each value lives in its own file under
// Dir/blobs and index.json tracks expiry and last use for LRU eviction.
type Store struct {
	mu sync.Mutex

	blobs     string
	indexPath string
	cfg       Config

	bytes   int64
	records map[string]record
	now     func() time.Time
}

// Open loads (or creates) the cache rooted at cfg.Dir and drops entries that
// expired or lost their blob since the last run.
func Open(cfg Config) (*Store, error) {
	cfg.Dir = strings.TrimSpace(cfg.Dir)
	if cfg.Dir == "" {
		return nil, errors.New("disk cache: dir is required")
	}
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = DefaultMaxEntries
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	s := &Store{
		blobs:     filepath.Join(cfg.Dir, "blobs"),
		indexPath: filepath.Join(cfg.Dir, indexName),
		cfg:       cfg,
		records:   map[string]record{},
		now:       time.Now,
	}
	if err := os.MkdirAll(s.blobs, 0o755); err != nil {
		return nil, fmt.Errorf("disk cache: %w", err)
	}
	if err := s.load(); err != nil {
		return nil, fmt.Errorf("disk cache: load index: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.pruneLocked(); err != nil {
		return nil, err
	}
	return s, s.saveLocked()
}

// Get returns the cached value for key. A missing or expired entry is a miss,
// not an error.
func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	if key == "" {
		return nil, false, errors.New("disk cache: empty key")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[key]
	if !ok {
		return nil, false, nil
	}
	now := s.now()
	if now.After(rec.Expires) {
		s.dropLocked(key, rec)
		return nil, false, s.saveLocked()
	}
	raw, err := os.ReadFile(filepath.Join(s.blobs, rec.File))
	if errors.Is(err, os.ErrNotExist) {
		s.dropLocked(key, rec)
		return nil, false, s.saveLocked()
	}
	if err != nil {
		return nil, false, err
	}
	rec.LastUsed = now
	s.records[key] = rec
	return raw, true, s.saveLocked()
}

// Set stores value under key, refreshing its TTL, then evicts the least
// recently used entries beyond the configured limits.
func (s *Store) Set(_ context.Context, key string, value []byte) error {
	if key == "" {
		return errors.New("disk cache: empty key")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	file := blobName(key)
	if err := os.WriteFile(filepath.Join(s.blobs, file), value, 0o644); err != nil {
		return err
	}
	if old, ok := s.records[key]; ok {
		s.bytes -= old.Size
	}
	now := s.now()
	s.records[key] = record{File: file, Size: int64(len(value)), Expires: now.Add(s.cfg.TTL), LastUsed: now}
	s.bytes += int64(len(value))

	if err := s.pruneLocked(); err != nil {
		return err
	}
	return s.saveLocked()
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[key]
	if !ok {
		return nil
	}
	s.dropLocked(key, rec)
	return s.saveLocked()
}

// Len reports the number of indexed entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

func (s *Store) load() error {
	raw, err := os.ReadFile(s.indexPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	var idx index
	if err := json.Unmarshal(raw, &idx); err != nil {
		return err
	}
	for k, rec := range idx.Records {
		s.records[k] = rec
		s.bytes += rec.Size
	}
	return nil
}

func (s *Store) pruneLocked() error {
	now := s.now()
	for key, rec := range s.records {
		if now.After(rec.Expires) {
			s.dropLocked(key, rec)
			continue
		}
		if _, err := os.Stat(filepath.Join(s.blobs, rec.File)); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return err
			}
			s.dropLocked(key, rec)
		}
	}
	if !s.overLocked() {
		return nil
	}

	keys := make([]string, 0, len(s.records))
	for k := range s.records {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := s.records[keys[i]].LastUsed, s.records[keys[j]].LastUsed
		if a.Equal(b) {
			return keys[i] < keys[j]
		}
		return a.Before(b)
	})
	for _, k := range keys {
		if !s.overLocked() {
			break
		}
		s.dropLocked(k, s.records[k])
	}
	return nil
}

func (s *Store) overLocked() bool {
	if len(s.records) > s.cfg.MaxEntries {
		return true
	}
	return s.cfg.MaxBytes > 0 && s.bytes > s.cfg.MaxBytes
}

func (s *Store) dropLocked(key string, rec record) {
	delete(s.records, key)
	s.bytes = max(0, s.bytes-rec.Size)
	_ = os.Remove(filepath.Join(s.blobs, rec.File))
}

// saveLocked rewrites the index atomically via a temp file and rename.
func (s *Store) saveLocked() error {
	raw, err := json.MarshalIndent(index{Records: s.records}, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.indexPath + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.indexPath)
}

func blobName(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}
