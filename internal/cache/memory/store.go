// Package memory holds summaries for the lifetime of one process.
package memory

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	DefaultMaxEntries = 4096
	DefaultTTL        = time.Hour
)

// Store is a threadsafe LRU of summary bytes with a per-entry TTL.
type Store struct {
	lru *expirable.LRU[string, []byte]
}

// New returns a Store. Non-positive arguments select the defaults.
func New(maxEntries int, ttl time.Duration) *Store {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{lru: expirable.NewLRU[string, []byte](maxEntries, nil, ttl)}
}

func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := s.lru.Get(key)
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.lru.Add(key, append([]byte(nil), value...))
	return nil
}

// Len reports the number of live entries.
func (s *Store) Len() int { return s.lru.Len() }
