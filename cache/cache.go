// Package cache implements the two-tier strong/weak in-process cache:
// every resident entry is either strongly referenced (kept alive
// unconditionally) or weakly referenced (kept alive only as long as
// the Go runtime's garbage collector leaves the underlying value
// reachable), with a pluggable RetentionPolicy deciding, on every
// access and mutation, which cells belong in which tier. The overall
// shape — a small struct owning a map and an intrusive access-order
// list, with eviction delegated to a pluggable policy object — follows
// the teacher's shard/policy split (cache/shard.go, policy/policy.go)
// generalized from a cost/TTL-bounded single tier to the two-tier
// strong/weak population this cache implements instead.
package cache

import (
	"github.com/dualcache/dualcache/index"
	"github.com/dualcache/dualcache/internal/queue"
	"github.com/dualcache/dualcache/policy"
	"github.com/dualcache/dualcache/policy/fraction"
)

// Cache is a two-tier strong/weak cache keyed by K holding values of
// type V. It has no internal synchronization: like the design this
// generalizes, it is meant to be driven from a single goroutine (or
// externally serialized by the caller), with the one piece of
// asynchrony — the garbage collector reclaiming a weak value — folded
// back onto that single goroutine via a notification queue drained at
// the top of every public method.
type Cache[K comparable, V any] struct {
	store     map[K]*cell[K, V]
	list      *list[K, V]
	policy    policy.RetentionPolicy[K]
	hooks     *cacheHooks[K, V]
	reclaims  *queue.Reclaims[K]
	bindings  []index.Binding[K, V]
	onReclaim func(K)
	metrics   Metrics
}

// New builds a Cache from opts. A nil Policy selects policy/fraction
// with a 50% target weak fraction (softness 0.5), a floor of two strong
// cells and no ceiling on either tier; a nil Metrics selects NoopMetrics.
func New[K comparable, V any](opts Options[K, V]) *Cache[K, V] {
	c := &Cache[K, V]{
		store:     make(map[K]*cell[K, V]),
		list:      &list[K, V]{},
		reclaims:  &queue.Reclaims[K]{},
		onReclaim: opts.OnReclaim,
		metrics:   opts.Metrics,
	}
	c.hooks = &cacheHooks[K, V]{c: c}

	pf := opts.Policy
	if pf == nil {
		var err error
		pf, err = fraction.New[K](fraction.Params{Softness: 0.5, MinHard: 2})
		if err != nil {
			panic(err) // the default params are always valid
		}
	}
	c.policy = pf.New(c.hooks)

	if c.metrics == nil {
		c.metrics = NoopMetrics{}
	}
	return c
}

func newCellNode[K comparable, V any](k K, v V) *cell[K, V] {
	c := newStrongCell[K, V](k, v)
	c.n = &node[K, V]{c: c}
	return c
}

// Put installs v under k. A key with no live cell gets a brand-new
// strong cell; a key whose cell is still live has its value replaced
// and is reset to strong, refreshing its recency either way. Any
// registered unique index whose attribute now collides with a
// different key evicts both keys entirely — a Put-time collision is
// not an error, unlike registering an index against an already
// colliding cache.
func (c *Cache[K, V]) Put(k K, v V) {
	c.drainReclaims()

	if existing, ok := c.store[k]; ok {
		if _, live := existing.value(); live {
			wasWeak := !existing.Strong()
			existing.overwrite(v)
			if wasWeak {
				c.list.strengthenTier(existing.n)
			}
			c.policy.OnAccess(c.hooks, existing)
			c.afterPut(k)
			return
		}
		c.reapCell(existing)
	}

	cc := newCellNode(k, v)
	c.store[k] = cc
	c.policy.OnInsert(c.hooks, cc)
	c.afterPut(k)
}

// Get returns k's value and whether it is still live. A weak cell whose
// value has been collected is treated as absent and torn down
// immediately rather than waiting for the collector's notification to
// arrive. A successful Get always refreshes recency; whether it also
// promotes the cell to strong is entirely up to the policy.
func (c *Cache[K, V]) Get(k K) (V, bool) {
	c.drainReclaims()

	cc, ok := c.store[k]
	if !ok {
		c.metrics.Miss()
		var zero V
		return zero, false
	}
	v, live := cc.value()
	if !live {
		c.reapCell(cc)
		c.metrics.Miss()
		var zero V
		return zero, false
	}
	c.policy.OnAccess(c.hooks, cc)
	c.metrics.Hit()
	return v, true
}

// ContainsKey reports whether k has a live cell, without refreshing its
// recency or strength — a containment check is not an access.
func (c *Cache[K, V]) ContainsKey(k K) bool {
	c.drainReclaims()

	cc, ok := c.store[k]
	if !ok {
		return false
	}
	if _, live := cc.value(); !live {
		c.reapCell(cc)
		return false
	}
	return true
}

// peek returns k's value without refreshing recency or strength,
// tearing down the cell first if it is found reclaimed. Used by the
// collection views, whose Contains checks are not themselves accesses.
func (c *Cache[K, V]) peek(k K) (V, bool) {
	c.drainReclaims()
	cc, ok := c.store[k]
	if !ok {
		var zero V
		return zero, false
	}
	v, live := cc.value()
	if !live {
		c.reapCell(cc)
		var zero V
		return zero, false
	}
	return v, true
}

// Remove deletes k's cell, if any, returning its value and whether it
// was still live at the time of removal.
func (c *Cache[K, V]) Remove(k K) (V, bool) {
	c.drainReclaims()

	cc, ok := c.store[k]
	if !ok {
		var zero V
		return zero, false
	}
	v, live := cc.value()
	c.detachCell(cc, nil)
	if !live {
		var zero V
		return zero, false
	}
	return v, true
}

// Clear removes every entry, strong and weak alike. Every live cell is
// run through the policy's OnRemove first, so a policy carrying its own
// per-cell bookkeeping (policy/lfu's frequency map and heaps, for
// instance) doesn't leak stale entries across the reset.
func (c *Cache[K, V]) Clear() {
	c.drainReclaims()
	for _, cc := range c.store {
		c.policy.OnRemove(c.hooks, cc)
	}
	c.store = make(map[K]*cell[K, V])
	c.list = &list[K, V]{}
	for _, b := range c.bindings {
		b.OnClear()
	}
}

// ClearWeak removes every currently weak entry, leaving strong entries
// untouched.
func (c *Cache[K, V]) ClearWeak() {
	c.drainReclaims()
	victims := make([]*cell[K, V], 0, c.list.weakCount())
	for n := c.list.weakHead; n != nil; n = n.tierNext {
		victims = append(victims, n.c)
	}
	for _, cc := range victims {
		c.detachCell(cc, nil)
	}
}

// Size returns the total number of live entries, strong plus weak.
func (c *Cache[K, V]) Size() int {
	c.drainReclaims()
	return len(c.store)
}

// StrongCount returns the number of strong entries.
func (c *Cache[K, V]) StrongCount() int {
	c.drainReclaims()
	return c.list.strongCount()
}

// WeakCount returns the number of weak entries.
func (c *Cache[K, V]) WeakCount() int {
	c.drainReclaims()
	return c.list.weakCount()
}

// IsWeak reports whether k's cell is currently weak, and whether k has
// a live cell at all.
func (c *Cache[K, V]) IsWeak(k K) (weak bool, found bool) {
	c.drainReclaims()

	cc, ok := c.store[k]
	if !ok {
		return false, false
	}
	if _, live := cc.value(); !live {
		c.reapCell(cc)
		return false, false
	}
	return !cc.Strong(), true
}

// Register seeds idx from the entries currently live and binds it to
// receive every future Put/Remove/Clear. For a *index.Unique index,
// Seed reports cacheerr.AttributeConflict (and leaves idx unbound) if
// two distinct live keys already share a derived attribute.
func (c *Cache[K, V]) Register(idx interface {
	index.Binding[K, V]
	index.Seeder[K, V]
}) error {
	c.drainReclaims()

	pairs := make([]index.Pair[K, V], 0, len(c.store))
	for k, cc := range c.store {
		if v, live := cc.value(); live {
			pairs = append(pairs, index.Pair[K, V]{Key: k, Value: v})
		}
	}
	if err := idx.Seed(pairs); err != nil {
		return err
	}
	c.bindings = append(c.bindings, idx)
	return nil
}

// afterPut notifies every registered index about the write at k,
// hard-evicting any keys an index demands (a unique-index attribute
// collision) from every other index and the primary store alike.
func (c *Cache[K, V]) afterPut(k K) {
	for _, b := range c.bindings {
		cc, ok := c.store[k]
		if !ok {
			return
		}
		v, _ := cc.value()
		if evict := b.OnPut(k, v); len(evict) > 0 {
			c.evictKeys(evict, b)
		}
	}
}

func (c *Cache[K, V]) evictKeys(keys []K, skip index.Binding[K, V]) {
	for _, k := range keys {
		if cc, ok := c.store[k]; ok {
			c.detachCell(cc, skip)
		}
	}
}

// detachCell removes cc from the store, the access list, and the
// policy's bookkeeping, and notifies every registered index except
// skip (already consistent because it triggered the removal itself).
func (c *Cache[K, V]) detachCell(cc *cell[K, V], skip index.Binding[K, V]) {
	delete(c.store, cc.key)
	c.list.remove(cc.n)
	c.policy.OnRemove(c.hooks, cc)
	for _, b := range c.bindings {
		if b == skip {
			continue
		}
		v, _ := cc.value()
		b.OnRemove(cc.key, v)
	}
}

// reapCell tears down a cell whose weak value is gone, reporting it
// through Metrics.Reclaim and the configured OnReclaim callback.
func (c *Cache[K, V]) reapCell(cc *cell[K, V]) {
	c.detachCell(cc, nil)
	c.metrics.Reclaim()
	if c.onReclaim != nil {
		c.onReclaim(cc.key)
	}
}

// drainReclaims processes every key the garbage collector has notified
// since the last drain. A key already strengthened again before the
// cleanup fired, or already removed by some other path, is skipped.
func (c *Cache[K, V]) drainReclaims() {
	for _, k := range c.reclaims.Drain() {
		cc, ok := c.store[k]
		if !ok || cc.Strong() {
			continue
		}
		if _, live := cc.value(); live {
			continue
		}
		c.reapCell(cc)
	}
}

// cacheHooks adapts a Cache's list and cell operations to the narrow
// interface a RetentionPolicy is written against (policy.Hooks), the
// same indirection the teacher uses (shard.go's shardHooks) to keep
// eviction disciplines decoupled from storage internals.
type cacheHooks[K comparable, V any] struct {
	c *Cache[K, V]
}

func (h *cacheHooks[K, V]) MoveToHead(pc policy.Cell[K]) {
	h.c.list.moveToHead(pc.(*cell[K, V]).n)
}

func (h *cacheHooks[K, V]) PushHead(pc policy.Cell[K]) {
	h.c.list.insertNew(pc.(*cell[K, V]).n)
}

func (h *cacheHooks[K, V]) Strengthen(pc policy.Cell[K]) {
	cc := pc.(*cell[K, V])
	cc.strengthen()
	if !cc.Strong() {
		// The weak value was already collected: tear the cell down as a
		// reclaim instead of moving a dead cell into the strong tier.
		h.c.reapCell(cc)
		return
	}
	h.c.list.strengthenTier(cc.n)
	h.c.metrics.Strengthen()
}

func (h *cacheHooks[K, V]) Weaken(pc policy.Cell[K]) {
	cc := pc.(*cell[K, V])
	cc.weaken(h.c.reclaims)
	h.c.list.weakenTier(cc.n)
	h.c.metrics.Weaken()
}

func (h *cacheHooks[K, V]) Evict(pc policy.Cell[K]) {
	h.c.detachCell(pc.(*cell[K, V]), nil)
}

func (h *cacheHooks[K, V]) Head() policy.Cell[K] { return wrapNode[K, V](h.c.list.head_()) }
func (h *cacheHooks[K, V]) Tail() policy.Cell[K] { return wrapNode[K, V](h.c.list.tail_()) }
func (h *cacheHooks[K, V]) OldestStrong() policy.Cell[K] {
	return wrapNode[K, V](h.c.list.oldestStrong())
}
func (h *cacheHooks[K, V]) NewestWeak() policy.Cell[K] {
	return wrapNode[K, V](h.c.list.newestWeak())
}
func (h *cacheHooks[K, V]) OldestWeak() policy.Cell[K] {
	return wrapNode[K, V](h.c.list.oldestWeak())
}

func (h *cacheHooks[K, V]) ByKey(k K) (policy.Cell[K], bool) {
	cc, ok := h.c.store[k]
	if !ok {
		return nil, false
	}
	return cc, true
}

func (h *cacheHooks[K, V]) StrongCount() int { return h.c.list.strongCount() }
func (h *cacheHooks[K, V]) WeakCount() int   { return h.c.list.weakCount() }

func wrapNode[K comparable, V any](n *node[K, V]) policy.Cell[K] {
	if n == nil {
		return nil
	}
	return n.c
}
