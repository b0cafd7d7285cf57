// Package cache implements the four typed caches of C4: decompile results,
// instruction analyses, inventory snapshots, and query results. Each is a
// Typed[K, V] wrapping an expirable approximate-LRU store plus a
// singleflight group for get-or-load coalescing.
package cache

import (
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"github.com/tha23rd/recaf-mcp-sub000/internal/logging"
)

// Config mirrors config.CacheConfig, duplicated here to avoid an import
// cycle between internal/config and internal/cache.
type Config struct {
	Enabled    bool
	TTL        time.Duration
	MaxEntries int
}

// Typed is a single cache instance keyed by K, holding values of type V.
// When Config.Enabled is false, every call bypasses the store but still
// invokes the loader — matching §4.C4's documented bypass behavior.
type Typed[K comparable, V any] struct {
	name   string
	config Config
	store  *lru.LRU[K, V]
	group  singleflight.Group
}

// NewTyped creates a typed cache. name is used only for logging.
func NewTyped[K comparable, V any](name string, config Config) *Typed[K, V] {
	t := &Typed[K, V]{name: name, config: config}
	if config.Enabled {
		t.store = lru.NewLRU[K, V](config.MaxEntries, nil, config.TTL)
	}
	return t
}

// GetOrLoad returns the cached value for key, or invokes loader exactly
// once on a miss; concurrent callers for the same key observe the same
// loaded value or the same loader error. A successful value is stored; a
// failed load is not, so the next call invokes the loader again.
func (t *Typed[K, V]) GetOrLoad(key K, loader func() (V, error)) (V, error) {
	if !t.config.Enabled || t.store == nil {
		logging.CacheDebug("%s: disabled, invoking loader directly", t.name)
		return loader()
	}

	if v, ok := t.store.Get(key); ok {
		logging.CacheDebug("%s: hit", t.name)
		return v, nil
	}

	sfKey := fmt.Sprintf("%s|%v", t.name, key)
	v, err, shared := t.group.Do(sfKey, func() (interface{}, error) {
		if v, ok := t.store.Get(key); ok {
			return v, nil
		}
		loaded, err := loader()
		if err != nil {
			return loaded, err
		}
		t.store.Add(key, loaded)
		return loaded, nil
	})
	if shared {
		logging.CacheDebug("%s: coalesced concurrent load", t.name)
	}
	if err != nil {
		var zero V
		return zero, err
	}
	return v.(V), nil
}

// Purge removes every entry matching pred. Used to drop entries whose
// key's workspace identity is no longer observed.
func (t *Typed[K, V]) Purge(pred func(K) bool) {
	if t.store == nil {
		return
	}
	for _, k := range t.store.Keys() {
		if pred(k) {
			t.store.Remove(k)
		}
	}
}

// Len returns the number of entries currently stored.
func (t *Typed[K, V]) Len() int {
	if t.store == nil {
		return 0
	}
	return t.store.Len()
}
