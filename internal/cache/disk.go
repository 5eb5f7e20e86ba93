package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// DiskCache persists JSON-encoded values, one file per key
type DiskCache[V any] struct {
	dir string
	ttl time.Duration
}

// NewDiskCache creates a new disk cache rooted at dir
func NewDiskCache[V any](dir string, ttl time.Duration) *DiskCache[V] {
	return &DiskCache[V]{
		dir: dir,
		ttl: ttl,
	}
}

type diskEntry[V any] struct {
	Value     V         `json:"value"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Get retrieves a value; expired or unreadable entries are misses
func (c *DiskCache[V]) Get(key string) (V, bool) {
	var zero V
	path := c.path(key)

	data, err := os.ReadFile(path)
	if err != nil {
		return zero, false
	}

	var entry diskEntry[V]
	if err := json.Unmarshal(data, &entry); err != nil {
		_ = os.Remove(path)
		return zero, false
	}

	if time.Now().After(entry.ExpiresAt) {
		_ = os.Remove(path)
		return zero, false
	}

	return entry.Value, true
}

// Set writes the value through a temp file so readers never see a partial entry
func (c *DiskCache[V]) Set(key string, value V, ttl time.Duration) error {
	if ttl == 0 {
		ttl = c.ttl
	}

	data, err := json.Marshal(diskEntry[V]{
		Value:     value,
		ExpiresAt: time.Now().Add(ttl),
	})
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}

	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	tmp, err := os.CreateTemp(c.dir, "entry-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close cache file: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.path(key)); err != nil {
		return fmt.Errorf("rename cache file: %w", err)
	}

	return nil
}

// Delete removes a value; deleting a missing key is not an error
func (c *DiskCache[V]) Delete(key string) error {
	if err := os.Remove(c.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete cache file: %w", err)
	}
	return nil
}

// Clear removes all cached files
func (c *DiskCache[V]) Clear() error {
	return os.RemoveAll(c.dir)
}

func (c *DiskCache[V]) path(key string) string {
	return filepath.Join(c.dir, filepath.Base(key)+".json")
}
