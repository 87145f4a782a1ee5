// Package policy defines the pluggable retention-policy contract consumed
// by the cache: the narrow interface that decides, on every access and
// every mutation, which cells are strong and which are weak.
package policy

// Cell is the minimal read-only view of a cache entry a policy needs:
// its key and its current strength. Policies never see the value itself
// (it is opaque to retention decisions) and never mutate a cell directly
// — all transitions go through Hooks so the cache stays the single
// source of truth for recency and strength.
type Cell[K comparable] interface {
	Key() K
	Strong() bool
}

// Hooks exposes the O(1) operations a policy needs on the cache's
// access-order list and strength state. Implementations are provided by
// the cache; all hook calls happen during a single public operation, so
// they never need their own synchronization.
type Hooks[K comparable] interface {
	// MoveToHead promotes c to the most-recently-touched position.
	MoveToHead(c Cell[K])
	// PushHead inserts a newly created cell at the most-recently-touched
	// position.
	PushHead(c Cell[K])
	// Strengthen switches c from weak to strong. No-op if already
	// strong; if c was weak and has since been reclaimed, c is removed
	// from the cache as a reclaim instead.
	Strengthen(c Cell[K])
	// Weaken switches c from strong to weak. No-op if already weak.
	Weaken(c Cell[K])
	// Evict hard-removes c from the cache entirely: primary store,
	// access list, and every secondary index.
	Evict(c Cell[K])
	// Head returns the most-recently-touched cell, or nil if empty.
	Head() Cell[K]
	// Tail returns the least-recently-touched cell, or nil if empty.
	Tail() Cell[K]
	// OldestStrong returns the strong cell closest to the tail (the
	// natural demotion candidate), or nil if no cell is strong.
	OldestStrong() Cell[K]
	// NewestWeak returns the weak cell closest to the head (the
	// natural promotion candidate), or nil if no cell is weak.
	NewestWeak() Cell[K]
	// OldestWeak returns the weak cell closest to the tail (the
	// natural hard-eviction candidate when maxSoft is exceeded), or
	// nil if no cell is weak.
	OldestWeak() Cell[K]
	// ByKey resolves a live cell by key, for policies that track their
	// own per-key bookkeeping (e.g. access frequency) and need to act
	// on a cell other than the one passed into a callback.
	ByKey(k K) (Cell[K], bool)
	// StrongCount and WeakCount report the live counters the policy
	// must keep consistent with spec.md §3 invariant 5.
	StrongCount() int
	WeakCount() int
}

// RetentionPolicy is the per-cache-instance policy object bound to a
// cache's Hooks. All three callbacks run to completion inside whichever
// public cache operation triggered them (spec.md §5: no suspension
// points inside the cache).
type RetentionPolicy[K comparable] interface {
	// OnAccess runs after a successful Get, and after a Put that
	// overwrote an existing, live cell.
	OnAccess(h Hooks[K], c Cell[K])
	// OnInsert runs after a brand-new cell has been added (including a
	// Put that revived a key whose previous cell had been reclaimed).
	OnInsert(h Hooks[K], c Cell[K])
	// OnRemove runs after a cell has been removed, whether by explicit
	// Remove, by Clear/ClearWeak, or by the reclaim drain.
	OnRemove(h Hooks[K], c Cell[K])
}

// Policy is a factory that builds a RetentionPolicy bound to a
// particular cache's Hooks. Cache.New calls Policy.New exactly once.
type Policy[K comparable] interface {
	New(h Hooks[K]) RetentionPolicy[K]
}
