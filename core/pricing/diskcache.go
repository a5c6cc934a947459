// Package pricing - Local persistent price cache
// A single JSON file keyed by canonical price key, written atomically
// via temp-file rename. Entries do not expire within a batch run;
// freshness policy is an external concern.
package pricing

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const cacheFileName = "prices.json"

type diskEntry struct {
	Rate        string    `json:"rate"`
	RetrievedAt time.Time `json:"retrieved_at"`
}

// DiskCache persists resolved rates across runs
type DiskCache struct {
	mu      sync.Mutex
	path    string
	entries map[string]diskEntry
	log     *zap.Logger
}

// OpenDiskCache opens or creates the cache under dir. A corrupted cache
// file is discarded with a warning; it never fails a run.
func OpenDiskCache(dir string, log *zap.Logger) (*DiskCache, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	c := &DiskCache{
		path:    filepath.Join(dir, cacheFileName),
		entries: make(map[string]diskEntry),
		log:     log,
	}

	data, err := os.ReadFile(c.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn("failed to read price cache, starting empty", zap.Error(err))
		}
		return c, nil
	}
	if err := json.Unmarshal(data, &c.entries); err != nil {
		log.Warn("corrupted price cache, starting empty", zap.String("path", c.path), zap.Error(err))
		c.entries = make(map[string]diskEntry)
	}
	return c, nil
}

// GetRate returns the cached rate for a canonical key
func (c *DiskCache) GetRate(key string) (decimal.Decimal, time.Time, bool) {
	c.mu.Lock()
	entry, ok := c.entries[key]
	c.mu.Unlock()
	if !ok {
		return decimal.Zero, time.Time{}, false
	}

	rate, err := decimal.NewFromString(entry.Rate)
	if err != nil {
		c.log.Warn("unparseable cached rate", zap.String("key", key), zap.String("rate", entry.Rate))
		return decimal.Zero, time.Time{}, false
	}
	return rate, entry.RetrievedAt, true
}

// PutRate stores a rate and persists the cache file atomically.
// Last writer wins for concurrent writes of the same key.
func (c *DiskCache) PutRate(key string, rate decimal.Decimal, at time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = diskEntry{Rate: rate.String(), RetrievedAt: at}
	return c.save()
}

// Len returns the number of cached entries
func (c *DiskCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// save must be called with the mutex held
func (c *DiskCache) save() error {
	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return err
	}

	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, c.path)
}
