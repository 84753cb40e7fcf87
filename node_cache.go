package router

import lru "github.com/hashicorp/golang-lru"

// NodeCache memoizes values derived from immutable tree nodes, keyed by the
// node itself. It must be safe for concurrent use.
type NodeCache interface {
	// Add records the value derived from key.
	Add(key, value interface{})
	// Contains indicates a value for key has already been recorded.
	Contains(key interface{}) bool
	// Get retrieves the value recorded for key, if cached.
	Get(key interface{}) (value interface{}, ok bool)
}

// NewNodeCache creates a new ARC-based node cache of the given size. One
// cache can be shared by any number of reducers.
func NewNodeCache(size int) NodeCache {
	cache, err := lru.NewARC(size)
	if err != nil {
		panic(err)
	}
	return cache
}
