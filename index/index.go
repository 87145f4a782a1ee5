// Package index implements the secondary-index component of spec.md
// §4.5: registered mappings from a value-derived attribute to the
// cell(s) that carry it, kept coherent with the primary store's
// Put/Remove/Clear without either package importing the other — each
// side declares only the narrow interface it needs from the other,
// the same small-interface discipline the teacher's policy package
// uses for Hooks/Policy.
package index

import (
	"container/list"
	"fmt"

	"github.com/dualcache/dualcache/cacheerr"
)

// Attribute derives a secondary key of type D from a value of type V.
// A false second return means "not indexed under this attribute" —
// spec.md §4.5: "Values that return absent from a are simply not
// indexed." Attribute must be pure for as long as the value it was
// computed from remains in the cache (spec.md §4.5); the cache and
// this package both take that as a caller obligation.
type Attribute[V any, D comparable] func(v V) (D, bool)

// Accessor is the slice of Cache[K,V] a registered index needs to
// perform a policy-notifying lookup or removal by primary key. Index
// lookups go through it rather than touching the cache's internals
// directly (spec.md §4.5: "accessing it through the same
// policy-notifying path as a primary get").
type Accessor[K comparable, V any] interface {
	Get(k K) (V, bool)
	Remove(k K) (V, bool)
}

// Binding is what a cache needs from a registered index to keep it
// coherent: notification of every Put/Remove/Clear. OnPut may demand
// that the cache evict one or more keys outright — the unique variant
// returns both sides of an attribute conflict (spec.md §4.5: "both
// entries are removed from the primary store").
type Binding[K comparable, V any] interface {
	OnPut(k K, v V) (evict []K)
	OnRemove(k K, v V)
	OnClear()
}

// Seeder lets a cache populate a freshly registered index from the
// entries already resident, and — for the unique variant — detect a
// pre-existing AttributeConflict before the registration is allowed to
// take effect (spec.md §7: registration is all-or-nothing).
type Seeder[K comparable, V any] interface {
	Seed(pairs []Pair[K, V]) error
}

// Pair is a (key, value) snapshot handed to Seed.
type Pair[K comparable, V any] struct {
	Key   K
	Value V
}

// Unique is the one-to-one secondary index variant of spec.md §4.5: at
// most one cell per derived key. Registering a Unique index against a
// cache whose live entries already collide under the attribute reports
// cacheerr.AttributeConflict.
type Unique[K comparable, V any, D comparable] struct {
	attr    Attribute[V, D]
	byAttr  map[D]K
	ofKey   map[K]D
}

// NewUnique constructs a Unique index over the given attribute. It is
// not bound to any cache until passed to Cache.Register.
func NewUnique[K comparable, V any, D comparable](attr Attribute[V, D]) *Unique[K, V, D] {
	return &Unique[K, V, D]{attr: attr, byAttr: make(map[D]K), ofKey: make(map[K]D)}
}

// Seed rebuilds the index from a fresh snapshot, reporting
// AttributeConflict if two distinct keys in the snapshot share a
// derived key. The index's prior state is left untouched on error.
func (u *Unique[K, V, D]) Seed(pairs []Pair[K, V]) error {
	byAttr := make(map[D]K, len(pairs))
	ofKey := make(map[K]D, len(pairs))
	for _, p := range pairs {
		d, ok := u.attr(p.Value)
		if !ok {
			continue
		}
		if existing, has := byAttr[d]; has && existing != p.Key {
			return cacheerr.NewAttributeConflict(fmt.Sprintf(
				"keys %v and %v both derive %v", existing, p.Key, d))
		}
		byAttr[d] = p.Key
		ofKey[p.Key] = d
	}
	u.byAttr, u.ofKey = byAttr, ofKey
	return nil
}

// OnPut updates the index for a write of (k, v). If the new attribute
// collides with a different, currently indexed key, neither key is
// installed and both are returned for the cache to evict entirely —
// spec.md §4.5's "both entries are removed from the primary store".
func (u *Unique[K, V, D]) OnPut(k K, v V) (evict []K) {
	if oldD, had := u.ofKey[k]; had {
		if cur, ok := u.byAttr[oldD]; ok && cur == k {
			delete(u.byAttr, oldD)
		}
		delete(u.ofKey, k)
	}
	d, ok := u.attr(v)
	if !ok {
		return nil
	}
	if existing, has := u.byAttr[d]; has && existing != k {
		delete(u.byAttr, d)
		return []K{k, existing}
	}
	u.byAttr[d] = k
	u.ofKey[k] = d
	return nil
}

// OnRemove drops k's entry, if any.
func (u *Unique[K, V, D]) OnRemove(k K, _ V) {
	if d, had := u.ofKey[k]; had {
		if cur, ok := u.byAttr[d]; ok && cur == k {
			delete(u.byAttr, d)
		}
		delete(u.ofKey, k)
	}
}

// OnClear empties the index.
func (u *Unique[K, V, D]) OnClear() {
	u.byAttr = make(map[D]K)
	u.ofKey = make(map[K]D)
}

// Get resolves d to its cell's value through c's normal Get, which
// refreshes recency/strength exactly like a primary lookup.
func (u *Unique[K, V, D]) Get(c Accessor[K, V], d D) (V, bool) {
	k, ok := u.byAttr[d]
	if !ok {
		var zero V
		return zero, false
	}
	return c.Get(k)
}

// Remove deletes the cell under d from the cache entirely (primary
// store, access list, and every other registered index).
func (u *Unique[K, V, D]) Remove(c Accessor[K, V], d D) (V, bool) {
	k, ok := u.byAttr[d]
	if !ok {
		var zero V
		return zero, false
	}
	return c.Remove(k)
}

// Len reports the number of derived keys currently indexed.
func (u *Unique[K, V, D]) Len() int { return len(u.byAttr) }

// Multi is the one-to-many secondary index variant of spec.md §4.5:
// each derived key maps to an ordered set of cells, insertion-ordered
// within the bucket. Bucket membership reuses the teacher's 2Q
// technique of pairing a container/list.List with a map for O(1)
// removal (policy/twoq.go's inIdx/ghostIdx pattern), generalized from
// ghost-key bookkeeping to index buckets.
type Multi[K comparable, V any, D comparable] struct {
	attr    Attribute[V, D]
	buckets map[D]*list.List
	elem    map[K]*list.Element
	keyD    map[K]D
}

// NewMulti constructs a Multi index over the given attribute.
func NewMulti[K comparable, V any, D comparable](attr Attribute[V, D]) *Multi[K, V, D] {
	return &Multi[K, V, D]{
		attr:    attr,
		buckets: make(map[D]*list.List),
		elem:    make(map[K]*list.Element),
		keyD:    make(map[K]D),
	}
}

// Seed rebuilds the index from a fresh snapshot. The multi variant has
// no conflict concept, so Seed never errors.
func (m *Multi[K, V, D]) Seed(pairs []Pair[K, V]) error {
	m.buckets = make(map[D]*list.List)
	m.elem = make(map[K]*list.Element)
	m.keyD = make(map[K]D)
	for _, p := range pairs {
		m.OnPut(p.Key, p.Value)
	}
	return nil
}

// OnPut updates the index for a write of (k, v), moving k to the
// bucket for its current attribute if it changed.
func (m *Multi[K, V, D]) OnPut(k K, v V) (evict []K) {
	m.detach(k)
	d, ok := m.attr(v)
	if !ok {
		return nil
	}
	b, ok := m.buckets[d]
	if !ok {
		b = list.New()
		m.buckets[d] = b
	}
	m.elem[k] = b.PushBack(k)
	m.keyD[k] = d
	return nil
}

// OnRemove drops k from whichever bucket it is in, if any.
func (m *Multi[K, V, D]) OnRemove(k K, _ V) { m.detach(k) }

// OnClear empties every bucket.
func (m *Multi[K, V, D]) OnClear() {
	m.buckets = make(map[D]*list.List)
	m.elem = make(map[K]*list.Element)
	m.keyD = make(map[K]D)
}

func (m *Multi[K, V, D]) detach(k K) {
	d, had := m.keyD[k]
	if !had {
		return
	}
	if el, ok := m.elem[k]; ok {
		if b, ok := m.buckets[d]; ok {
			b.Remove(el)
			if b.Len() == 0 {
				delete(m.buckets, d)
			}
		}
	}
	delete(m.elem, k)
	delete(m.keyD, k)
}

// Get returns every live value currently indexed under d, in
// insertion order, each resolved through c's normal Get.
func (m *Multi[K, V, D]) Get(c Accessor[K, V], d D) []V {
	b, ok := m.buckets[d]
	if !ok {
		return nil
	}
	out := make([]V, 0, b.Len())
	for e := b.Front(); e != nil; e = e.Next() {
		if v, ok := c.Get(e.Value.(K)); ok {
			out = append(out, v)
		}
	}
	return out
}

// Remove deletes every cell indexed under d from the cache entirely.
func (m *Multi[K, V, D]) Remove(c Accessor[K, V], d D) int {
	b, ok := m.buckets[d]
	if !ok {
		return 0
	}
	keys := make([]K, 0, b.Len())
	for e := b.Front(); e != nil; e = e.Next() {
		keys = append(keys, e.Value.(K))
	}
	n := 0
	for _, k := range keys {
		if _, ok := c.Remove(k); ok {
			n++
		}
		m.detach(k)
	}
	return n
}

// Len reports the number of distinct derived keys with at least one
// bucketed cell.
func (m *Multi[K, V, D]) Len() int { return len(m.buckets) }
