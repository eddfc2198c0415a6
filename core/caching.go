package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/huangsam/hoursight/internal/contract"
	"github.com/huangsam/hoursight/internal/decode"
	"github.com/huangsam/hoursight/schema"
)

// currentCacheVersion defines the version of the cached dataset envelope
const currentCacheVersion = 1

// Raw dataset cache policy.
const (
	RemoteCacheKey = "REMOTE_CACHE"       // sentinel key of the remote source, never evicted
	fileCacheTTL   = 24 * time.Hour       // cached files expire after a day
	remoteCacheTTL = 365 * 24 * time.Hour // the remote snapshot lives for a year
	maxCachedFiles = 5
)

// ErrNoInput is returned when no file is given and no cached dataset is available.
var ErrNoInput = errors.New("no input file given and no cached dataset available")

// cacheTTL returns the time-to-live for a cache key.
func cacheTTL(key string) time.Duration {
	if key == RemoteCacheKey {
		return remoteCacheTTL
	}
	return fileCacheTTL
}

// loadDataset reads the configured input file, or falls back to the newest cached dataset.
func loadDataset(cfg *contract.Config, mgr contract.CacheManager) (*Dataset, error) {
	store := datasetStore(cfg, mgr)
	if cfg.InputPath == "" {
		if store == nil {
			return nil, ErrNoInput
		}
		cached := latestCachedDataset(store, time.Now())
		if cached == nil {
			return nil, ErrNoInput
		}
		return datasetFromCache(cached)
	}

	data, err := os.ReadFile(cfg.InputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	name := filepath.Base(cfg.InputPath)
	rows, err := decode.DecodeFile(name, data)
	if err != nil {
		return nil, err
	}
	ds, err := NewDataset(name, schema.FileSource, rows)
	if err != nil {
		return nil, err
	}

	if store != nil {
		envelope := schema.CachedDataset{Name: name, Source: schema.FileSource, RowCount: len(rows), Data: data}
		if err := storeDataset(store, name, envelope, time.Now()); err != nil {
			contract.LogWarn("Failed to cache dataset", err)
		}
	}
	return ds, nil
}

// datasetStore returns the dataset cache store, or nil when caching is off.
func datasetStore(cfg *contract.Config, mgr contract.CacheManager) contract.CacheStore {
	if cfg.NoCache || mgr == nil {
		return nil
	}
	return mgr.GetDatasetStore()
}

// datasetFromCache rebuilds a Dataset from a cached envelope.
func datasetFromCache(cached *schema.CachedDataset) (*Dataset, error) {
	rows := cached.Rows
	if cached.Source != schema.RemoteSource {
		var err error
		rows, err = decode.DecodeFile(cached.Name, cached.Data)
		if err != nil {
			return nil, err
		}
	}
	return NewDataset(cached.Name, cached.Source, rows)
}

// checkCacheHit attempts to retrieve and validate a cached dataset
func checkCacheHit(store contract.CacheStore, key string, now time.Time) *schema.CachedDataset {
	data, version, ts, err := store.Get(key)
	if err != nil {
		return nil // Cache miss
	}

	// Validate version and staleness
	if version != currentCacheVersion || now.Sub(time.Unix(ts, 0)) > cacheTTL(key) {
		_ = store.Delete(key)
		return nil
	}

	var result schema.CachedDataset
	if err := json.Unmarshal(data, &result); err != nil {
		return nil
	}
	return &result
}

// latestCachedDataset returns the most recently stored valid dataset.
func latestCachedDataset(store contract.CacheStore, now time.Time) *schema.CachedDataset {
	entries, err := store.List()
	if err != nil {
		return nil
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})
	for _, entry := range entries {
		if cached := checkCacheHit(store, entry.Key, now); cached != nil {
			return cached
		}
	}
	return nil
}

// storeDataset writes the envelope under key and evicts the oldest file entries.
func storeDataset(store contract.CacheStore, key string, envelope schema.CachedDataset, now time.Time) error {
	data, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	if err := store.Set(key, data, currentCacheVersion, now.Unix()); err != nil {
		return err
	}
	return evictOldFiles(store)
}

// evictOldFiles keeps at most maxCachedFiles file entries. The remote sentinel is exempt.
func evictOldFiles(store contract.CacheStore) error {
	entries, err := store.List()
	if err != nil {
		return err
	}
	files := make([]schema.CacheEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.Key != RemoteCacheKey {
			files = append(files, entry)
		}
	}
	if len(files) <= maxCachedFiles {
		return nil
	}
	sort.Slice(files, func(i, j int) bool {
		return files[i].Timestamp.After(files[j].Timestamp)
	})
	for _, entry := range files[maxCachedFiles:] {
		if err := store.Delete(entry.Key); err != nil {
			return err
		}
	}
	return nil
}
