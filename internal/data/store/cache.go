package store

import (
	"sync"

	"github.com/clarkeh/go-time-ledger/internal/core/schema"
	"github.com/clarkeh/go-time-ledger/internal/util"
)

// CachedStore layers an in-memory row cache over a Store. Entries are
// invalidated when the shard watcher reports an external change, and
// refreshed on the store's own writes.
type CachedStore struct {
	store   *Store
	watcher *ShardWatcher

	mu    sync.RWMutex
	cache map[string][]schema.Row
}

// NewCached wraps a store with a cache. When watch is set, a filesystem
// watcher on the data directory keeps the cache honest against external
// writers (Dropbox sync); without it the cache is refreshed only by this
// process's own saves.
func NewCached(s *Store, watch bool) (*CachedStore, error) {
	cs := &CachedStore{
		store: s,
		cache: make(map[string][]schema.Row),
	}

	if watch {
		watcher, err := NewShardWatcher(s.dataDir)
		if err != nil {
			return nil, err
		}
		cs.watcher = watcher
		go cs.consumeEvents()
	}

	return cs, nil
}

func (cs *CachedStore) consumeEvents() {
	for event := range cs.watcher.Events() {
		util.LogDebug("invalidating shard cache",
			util.F("shard", event.Shard), util.F("op", event.Operation))
		cs.Invalidate(event.Shard)
	}
}

// Load returns a shard's rows, from cache when possible. Callers must not
// mutate the returned slice; Append copies before merging.
func (cs *CachedStore) Load(shard string) ([]schema.Row, error) {
	cs.mu.RLock()
	if rows, ok := cs.cache[shard]; ok {
		cs.mu.RUnlock()
		return rows, nil
	}
	cs.mu.RUnlock()

	rows, err := cs.store.Load(shard)
	if err != nil {
		return nil, err
	}

	cs.mu.Lock()
	cs.cache[shard] = rows
	cs.mu.Unlock()
	return rows, nil
}

// Save rewrites the shard and updates the cache with the written rows.
func (cs *CachedStore) Save(shard string, rows []schema.Row) error {
	if err := cs.store.Save(shard, rows); err != nil {
		// The file state is unknown after a failed rewrite.
		cs.Invalidate(shard)
		return err
	}

	cs.mu.Lock()
	cs.cache[shard] = rows
	cs.mu.Unlock()
	return nil
}

// Invalidate drops a shard's cached rows.
func (cs *CachedStore) Invalidate(shard string) {
	cs.mu.Lock()
	delete(cs.cache, shard)
	cs.mu.Unlock()
}

// Close stops the watcher, if any.
func (cs *CachedStore) Close() error {
	if cs.watcher != nil {
		return cs.watcher.Close()
	}
	return nil
}
