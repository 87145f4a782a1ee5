// Package fraction implements the default retention discipline from
// spec.md §4.2: the strong population is kept at a target fraction of
// the total live population, subject to hard floors/ceilings, with a
// separate hard ceiling on the weak population. It is grounded on the
// teacher's policy/lru.lruPolicy in shape (a ShardPolicy-equivalent
// driving a Hooks implementation) but the decision logic itself is new
// — the teacher's lru package has no notion of a two-tier population.
package fraction

import (
	"math"

	"github.com/dualcache/dualcache/cacheerr"
	"github.com/dualcache/dualcache/policy"
)

// Params configures the discipline.
type Params struct {
	// Softness is the target fraction, in [0, 1], of the live
	// population that should be held weak (spec.md §4.2: "target
	// fraction of total entries that should be weak"). 0 keeps
	// everything strong, subject to MaxHard; 1 keeps only MinHard cells
	// strong and weakens the rest.
	Softness float64

	// MinHard is the minimum number of cells kept strong whenever the
	// population is at least that large. 0 means no floor.
	MinHard int

	// MaxHard is the maximum number of cells allowed strong. <= 0
	// means unbounded.
	MaxHard int

	// MaxSoft is the maximum number of cells allowed weak before the
	// oldest weak cell is hard-evicted outright. <= 0 means unbounded.
	MaxSoft int
}

func (p Params) validate() error {
	if p.Softness < 0 || p.Softness > 1 {
		return cacheerr.NewIllegalArgument("fraction: Softness must be in [0,1]")
	}
	if p.MinHard < 0 {
		return cacheerr.NewIllegalArgument("fraction: MinHard must be >= 0")
	}
	if p.MaxHard > 0 && p.MinHard > p.MaxHard {
		return cacheerr.NewIllegalArgument("fraction: MinHard must not exceed MaxHard")
	}
	return nil
}

type factory[K comparable] struct {
	params Params
}

// New validates params and returns a policy.Policy factory implementing
// the fraction discipline. It is the cache's default when Options.Policy
// is left nil.
func New[K comparable](params Params) (policy.Policy[K], error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	return factory[K]{params: params}, nil
}

func (f factory[K]) New(h policy.Hooks[K]) policy.RetentionPolicy[K] {
	return &disc[K]{params: f.params}
}

type disc[K comparable] struct {
	params Params
}

func (d *disc[K]) OnInsert(h policy.Hooks[K], c policy.Cell[K]) {
	h.PushHead(c)
	d.enforce(h)
}

func (d *disc[K]) OnAccess(h policy.Hooks[K], c policy.Cell[K]) {
	h.MoveToHead(c)
	if !c.Strong() {
		h.Strengthen(c)
	}
	d.enforce(h)
}

func (d *disc[K]) OnRemove(h policy.Hooks[K], c policy.Cell[K]) {
	d.enforce(h)
}

// enforce rebalances the strong/weak split toward desiredStrong and
// then caps the weak population at MaxSoft, in that order: spec.md §8's
// worked scenario hard-evicts only after the strengthen/weaken pass has
// settled, never before.
func (d *disc[K]) enforce(h policy.Hooks[K]) {
	total := h.StrongCount() + h.WeakCount()
	want := d.desiredStrong(total)

	for h.StrongCount() > want {
		victim := h.OldestStrong()
		if victim == nil {
			break
		}
		h.Weaken(victim)
	}
	for h.StrongCount() < want {
		candidate := h.NewestWeak()
		if candidate == nil {
			break
		}
		h.Strengthen(candidate)
	}

	if d.params.MaxSoft > 0 {
		for h.WeakCount() > d.params.MaxSoft {
			victim := h.OldestWeak()
			if victim == nil {
				break
			}
			h.Evict(victim)
		}
	}
}

// desiredStrong turns the target-weak-fraction Softness into a strong
// count: targetWeak = round(Softness·n) (spec.md §4.2), so the strong
// target is whatever is left over, before the MinHard/MaxHard clamps.
func (d *disc[K]) desiredStrong(n int) int {
	targetWeak := int(math.Round(d.params.Softness * float64(n)))
	want := n - targetWeak
	if d.params.MinHard > 0 && want < d.params.MinHard {
		want = d.params.MinHard
	}
	if d.params.MaxHard > 0 && want > d.params.MaxHard {
		want = d.params.MaxHard
	}
	if want < 0 {
		want = 0
	}
	if want > n {
		want = n
	}
	return want
}
