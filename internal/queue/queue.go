// Package queue implements the reclaim-notification queue spec.md §4.1
// and §9 require: a mutex-protected mailbox that runtime.AddCleanup
// callbacks post into from an arbitrary GC goroutine, and that the
// cache drains synchronously at the top of every public operation.
// The mutex exists solely to make Notify safe to call from the
// runtime's cleanup goroutine — it is not part of the cache's own
// concurrency model, which spec.md §5 keeps single-threaded.
package queue

import "sync"

// Reclaims accumulates keys whose weak value has been collected by the
// garbage collector, for later synchronous draining by the cache that
// owns it.
type Reclaims[K comparable] struct {
	mu      sync.Mutex
	pending []K
}

// Notify enqueues k. Safe to call concurrently, and in particular safe
// to call from the goroutine the runtime invokes a cleanup on.
func (r *Reclaims[K]) Notify(k K) {
	r.mu.Lock()
	r.pending = append(r.pending, k)
	r.mu.Unlock()
}

// Drain removes and returns every key queued since the last Drain, in
// the order they were notified. Returns nil if nothing is pending.
func (r *Reclaims[K]) Drain() []K {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.pending) == 0 {
		return nil
	}
	out := r.pending
	r.pending = nil
	return out
}
