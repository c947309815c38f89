package notifications

import (
	"strings"

	"github.com/dmitrymomot/notifeed/pkg/cache"
)

type viewKey struct {
	version uint64
	query   Query
}

// ViewCache memoizes query results per store version. Views computed for an
// older version are discarded as soon as a newer version is seen.
type ViewCache struct {
	store *Store
	views *cache.LRUCache[viewKey, []Notification]
}

// NewViewCache creates a cache over store keeping at most capacity views.
// It panics if capacity is not positive.
func NewViewCache(store *Store, capacity int) *ViewCache {
	return &ViewCache{
		store: store,
		views: cache.NewLRUCache[viewKey, []Notification](capacity),
	}
}

// Run returns the result of q over the current store contents. The returned
// slice is shared between callers and must not be modified.
func (c *ViewCache) Run(q Query) []Notification {
	q.Search = strings.TrimSpace(q.Search)
	if q.Order == "" {
		q.Order = OrderNewest
	}
	if q.Filter == "" {
		q.Filter = FilterAll
	}

	version := c.store.Version()
	key := viewKey{version: version, query: q}
	if view, ok := c.views.Get(key); ok {
		return view
	}

	c.views.RemoveFunc(func(k viewKey, _ []Notification) bool {
		return k.version < version
	})

	// The snapshot may already be newer than version; the next call then misses.
	view := Run(c.store.Snapshot(), q)
	c.views.Put(key, view)
	return view
}

func (c *ViewCache) Len() int {
	return c.views.Len()
}
