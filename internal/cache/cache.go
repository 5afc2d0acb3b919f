// Package cache stores serialized extraction results keyed by document
// content hash, so re-converting an unchanged PDF skips the pipeline.
package cache

import (
	"crypto/sha256"
	"encoding/hex"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache is the extraction-result store. Implementations must be safe for
// concurrent use.
type Cache interface {
	Get(key string) ([]byte, bool)
	Put(key string, value []byte)
}

// Key derives the cache key for a document's raw bytes.
func Key(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Memory is an in-process LRU cache.
type Memory struct {
	entries *lru.Cache[string, []byte]
}

// NewMemory creates a memory cache holding up to size entries.
func NewMemory(size int) (*Memory, error) {
	entries, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, err
	}
	return &Memory{entries: entries}, nil
}

// Get returns the cached value for key.
func (m *Memory) Get(key string) ([]byte, bool) {
	return m.entries.Get(key)
}

// Put stores value under key, evicting the least recently used entry when
// full.
func (m *Memory) Put(key string, value []byte) {
	m.entries.Add(key, value)
}

// Nop is a cache that stores nothing.
type Nop struct{}

func (Nop) Get(string) ([]byte, bool) { return nil, false }
func (Nop) Put(string, []byte)       {}
