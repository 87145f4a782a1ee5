package cache

import "github.com/dualcache/dualcache/policy"

// Metrics exposes cache-level observability hooks, the generalization
// of the teacher's Hit/Miss/Evict/Size surface for a strength-based
// (rather than TTL/cost-based) cache: hits and misses as before, plus
// the two signals this spec's design actually produces — a strength
// flip and a reclaim-driven eviction. A NoopMetrics implementation is
// used by default.
type Metrics interface {
	Hit()
	Miss()
	Strengthen()
	Weaken()
	Reclaim()
}

// NoopMetrics discards every signal.
type NoopMetrics struct{}

func (NoopMetrics) Hit()        {}
func (NoopMetrics) Miss()       {}
func (NoopMetrics) Strengthen() {}
func (NoopMetrics) Weaken()     {}
func (NoopMetrics) Reclaim()    {}

// Options configures a Cache. Zero values are safe; New applies the
// documented defaults:
//   - nil Policy  => policy/fraction with its documented defaults
//   - nil Metrics => NoopMetrics
type Options[K comparable, V any] struct {
	// Policy is the pluggable retention discipline (spec.md §4.2); nil
	// selects policy/fraction with its documented defaults (softness
	// 0.5, minHard 2, maxHard/maxSoft unbounded).
	Policy policy.Policy[K]

	// OnReclaim, if set, is called once for every cell the reclaim
	// drain removes because its weak value was collected by the
	// runtime — the memory-pressure analogue of the teacher's OnEvict
	// callback, invoked synchronously from inside whichever public
	// operation performed the drain.
	OnReclaim func(k K)

	Metrics Metrics
}
