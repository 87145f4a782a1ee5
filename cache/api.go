package cache

import "github.com/dualcache/dualcache/index"

// Interface is the behavioral surface of Cache[K,V], split out the way
// the teacher separates its Cache interface from the unexported cache
// struct — useful for callers that want to mock a cache or depend on
// it without committing to the concrete type.
type Interface[K comparable, V any] interface {
	Put(k K, v V)
	Get(k K) (V, bool)
	ContainsKey(k K) bool
	Remove(k K) (V, bool)
	Clear()
	ClearWeak()

	Size() int
	StrongCount() int
	WeakCount() int
	IsWeak(k K) (weak bool, found bool)

	Register(idx interface {
		index.Binding[K, V]
		index.Seeder[K, V]
	}) error

	Keys() KeySet[K, V]
	Values() ValueCollection[K, V]
	Entries() EntrySet[K, V]
}

var _ Interface[string, int] = (*Cache[string, int])(nil)
