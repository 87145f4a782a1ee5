package cache

import (
	"runtime"
	"weak"

	"github.com/dualcache/dualcache/internal/queue"
)

// strength is a cell's retention tier (spec.md §3/§4.1).
type strength uint8

const (
	strong strength = iota
	weak_
)

// cell is the reference cell from spec.md §4.1: a mutable holder of a
// value that is either strong (unconditionally retained) or weak
// (retained only as long as the Go runtime's garbage collector chooses
// to keep the boxed value reachable). The weak tier is a direct use of
// Go's weak package plus runtime.AddCleanup as the "memory manager
// contract" spec.md §6 asks for — the same pairing
// _examples/other_examples' alternatethree/registry.go uses to let a
// promise's liveness be GC-driven instead of refcounted by hand.
type cell[K comparable, V any] struct {
	key K

	strength strength

	// strongVal holds the value directly while strength == strong.
	strongVal *V

	// weakVal holds a GC-visible weak reference to a once-strong value.
	// Valid only once the cell has been weakened at least once.
	weakVal  weak.Pointer[V]
	everWeak bool

	// reclaimed latches true once the weak value has been observed
	// gone (either by direct probing or by the cleanup notification).
	reclaimed bool

	n *node[K, V]
}

func newStrongCell[K comparable, V any](k K, v V) *cell[K, V] {
	val := v
	return &cell[K, V]{key: k, strength: strong, strongVal: &val}
}

// Key and Strong satisfy policy.Cell[K].
func (c *cell[K, V]) Key() K      { return c.key }
func (c *cell[K, V]) Strong() bool { return c.strength == strong }

// value returns the cell's value if still retained. A weak cell whose
// value has been collected returns (_, false) and latches reclaimed so
// the caller can treat it as gone without waiting for the cleanup
// notification to arrive.
func (c *cell[K, V]) value() (V, bool) {
	if c.strength == strong {
		return *c.strongVal, true
	}
	if c.reclaimed {
		var zero V
		return zero, false
	}
	if p := c.weakVal.Value(); p != nil {
		return *p, true
	}
	c.reclaimed = true
	var zero V
	return zero, false
}

// strengthen switches a weak, unreclaimed cell to strong (spec.md
// §4.1). No-op if already strong; treated as a (silent) reclaim if the
// weak handle has already been collected.
func (c *cell[K, V]) strengthen() {
	if c.strength == strong {
		return
	}
	if c.reclaimed {
		return
	}
	p := c.weakVal.Value()
	if p == nil {
		c.reclaimed = true
		return
	}
	v := *p
	c.strongVal = &v
	c.strength = strong
}

// overwrite installs a brand-new strong value into c, discarding
// whatever weak reference and reclaimed latch it may have carried.
// Used when Put targets a key that already has a live cell.
func (c *cell[K, V]) overwrite(v V) {
	val := v
	c.strongVal = &val
	c.strength = strong
	c.reclaimed = false
}

// weaken switches a strong cell to weak, boxing its value behind a
// weak.Pointer and registering a runtime cleanup that enqueues this
// cell's key onto q once the box becomes unreachable. q is drained
// synchronously at the top of every public cache operation
// (spec.md §4.1, §9) — the cleanup itself must never touch the cache.
func (c *cell[K, V]) weaken(q *queue.Reclaims[K]) {
	if c.strength == weak_ {
		return
	}
	box := new(V)
	*box = *c.strongVal
	c.weakVal = weak.Make(box)
	c.everWeak = true
	c.strongVal = nil
	c.strength = weak_
	key := c.key
	runtime.AddCleanup(box, func(k K) { q.Notify(k) }, key)
}
