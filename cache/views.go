package cache

import (
	"reflect"

	"github.com/dualcache/dualcache/cacheerr"
)

// Entry is a (key, value) pair as produced by an EntrySet iterator.
type Entry[K comparable, V any] struct {
	Key   K
	Value V
}

// cellIter walks the access-order list from most- to least-recently
// touched, lazily reaping any cell it discovers has been reclaimed
// along the way so every view presents only live entries.
type cellIter[K comparable, V any] struct {
	c       *Cache[K, V]
	next    *node[K, V]
	current *node[K, V]
}

func newCellIter[K comparable, V any](c *Cache[K, V]) *cellIter[K, V] {
	return &cellIter[K, V]{c: c, next: c.list.head_()}
}

func (it *cellIter[K, V]) skipDead() {
	for it.next != nil {
		if _, live := it.next.c.value(); live {
			return
		}
		dead := it.next
		it.next = it.next.next
		it.current = nil
		it.c.reapCell(dead.c)
	}
}

func (it *cellIter[K, V]) hasNext() bool {
	it.skipDead()
	return it.next != nil
}

func (it *cellIter[K, V]) advance() *cell[K, V] {
	it.skipDead()
	if it.next == nil {
		return nil
	}
	it.current = it.next
	it.next = it.next.next
	return it.current.c
}

// remove deletes the element the most recent advance() produced. It
// fails with IllegalIteratorState if called before any advance(), if
// called twice in a row for the same element, if the iterator has
// skipped a reclaimed cell since advance() returned the element, or if
// the element was discovered reclaimed (by some other path) since
// advance() returned it.
func (it *cellIter[K, V]) remove() error {
	if it.current == nil {
		return cacheerr.NewIllegalIteratorState("Remove called before Next, or after the current element was already removed")
	}
	cur := it.current
	it.current = nil
	if _, live := cur.c.value(); !live {
		it.c.reapCell(cur.c)
		return cacheerr.NewIllegalIteratorState("current element was reclaimed before Remove could run")
	}
	it.c.detachCell(cur.c, nil)
	return nil
}

// KeyIterator walks a KeySet in access-list order.
type KeyIterator[K comparable, V any] struct{ it *cellIter[K, V] }

func (it *KeyIterator[K, V]) HasNext() bool { return it.it.hasNext() }

func (it *KeyIterator[K, V]) Next() K {
	c := it.it.advance()
	if c == nil {
		var zero K
		return zero
	}
	return c.key
}

// Remove deletes the key Next most recently returned.
func (it *KeyIterator[K, V]) Remove() error { return it.it.remove() }

// ValueIterator walks a ValueCollection in access-list order.
type ValueIterator[K comparable, V any] struct{ it *cellIter[K, V] }

func (it *ValueIterator[K, V]) HasNext() bool { return it.it.hasNext() }

func (it *ValueIterator[K, V]) Next() V {
	c := it.it.advance()
	if c == nil {
		var zero V
		return zero
	}
	v, _ := c.value()
	return v
}

// Remove deletes the entry Next most recently returned.
func (it *ValueIterator[K, V]) Remove() error { return it.it.remove() }

// EntryIterator walks an EntrySet in access-list order.
type EntryIterator[K comparable, V any] struct{ it *cellIter[K, V] }

func (it *EntryIterator[K, V]) HasNext() bool { return it.it.hasNext() }

func (it *EntryIterator[K, V]) Next() Entry[K, V] {
	c := it.it.advance()
	if c == nil {
		var zero Entry[K, V]
		return zero
	}
	v, _ := c.value()
	return Entry[K, V]{Key: c.key, Value: v}
}

// Remove deletes the entry Next most recently returned.
func (it *EntryIterator[K, V]) Remove() error { return it.it.remove() }

// KeySet is a live view over a Cache's keys, in access-list order.
type KeySet[K comparable, V any] struct{ c *Cache[K, V] }

// Keys returns a view over c's keys.
func (c *Cache[K, V]) Keys() KeySet[K, V] { return KeySet[K, V]{c: c} }

func (s KeySet[K, V]) Len() int            { return s.c.Size() }
func (s KeySet[K, V]) Contains(k K) bool   { return s.c.ContainsKey(k) }
func (s KeySet[K, V]) Remove(k K) bool     { _, ok := s.c.Remove(k); return ok }
func (s KeySet[K, V]) Iterator() *KeyIterator[K, V] {
	return &KeyIterator[K, V]{it: newCellIter(s.c)}
}

// ValueCollection is a live view over a Cache's values, in access-list
// order. Unlike KeySet it is not a set: two keys may carry equal values.
type ValueCollection[K comparable, V any] struct{ c *Cache[K, V] }

// Values returns a view over c's values.
func (c *Cache[K, V]) Values() ValueCollection[K, V] { return ValueCollection[K, V]{c: c} }

func (s ValueCollection[K, V]) Len() int { return s.c.Size() }

// Contains reports whether any live value deep-equals v.
func (s ValueCollection[K, V]) Contains(v V) bool {
	it := s.Iterator()
	for it.HasNext() {
		if reflect.DeepEqual(it.Next(), v) {
			return true
		}
	}
	return false
}

func (s ValueCollection[K, V]) Iterator() *ValueIterator[K, V] {
	return &ValueIterator[K, V]{it: newCellIter(s.c)}
}

// EntrySet is a live view over a Cache's (key, value) pairs, in
// access-list order.
type EntrySet[K comparable, V any] struct{ c *Cache[K, V] }

// Entries returns a view over c's entries.
func (c *Cache[K, V]) Entries() EntrySet[K, V] { return EntrySet[K, V]{c: c} }

func (s EntrySet[K, V]) Len() int { return s.c.Size() }

// Contains reports whether k is live and its value deep-equals v.
func (s EntrySet[K, V]) Contains(e Entry[K, V]) bool {
	v, ok := s.c.peek(e.Key)
	return ok && reflect.DeepEqual(v, e.Value)
}

// Remove deletes k's entry if it is live and its value deep-equals e.Value.
func (s EntrySet[K, V]) Remove(e Entry[K, V]) bool {
	if !s.Contains(e) {
		return false
	}
	_, ok := s.c.Remove(e.Key)
	return ok
}

func (s EntrySet[K, V]) Iterator() *EntryIterator[K, V] {
	return &EntryIterator[K, V]{it: newCellIter(s.c)}
}
