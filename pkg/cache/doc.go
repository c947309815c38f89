// Package cache provides a generic, thread-safe LRU cache.
//
// When the cache is full, Put evicts the least recently used entry. Get and
// Put mark an entry as recently used; Peek does not.
//
//	views := cache.NewLRUCache[string, []byte](128)
//	views.Put("warning|match", rendered)
//	if v, ok := views.Get("warning|match"); ok {
//		// ...
//	}
//
// RemoveFunc drops every entry matching a predicate, which is how callers
// invalidate a whole generation of keys at once.
package cache
