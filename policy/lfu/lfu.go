// Package lfu implements a frequency-based retention discipline: the
// strong population is the MaxHard cells touched most often rather
// than the most recently touched. It is grounded on creachadair/cache's
// lfu package (other_examples/056c47fc_creachadair-cache__lfu-lfu.go.go),
// which keeps a min-heap of entries ordered by access count alongside a
// key->heap-index map for O(log n) arbitrary removal; this discipline
// keeps one such heap per strength tier — a min-heap over the strong
// tier to find the weakening candidate, a max-heap over the weak tier
// to find the strengthening candidate — since the two tiers need
// opposite extremes.
package lfu

import (
	"container/heap"

	"github.com/dualcache/dualcache/cacheerr"
	"github.com/dualcache/dualcache/policy"
)

// Params configures the discipline.
type Params struct {
	// MaxHard is the number of most-frequently-touched cells kept
	// strong. Must be >= 0.
	MaxHard int
	// MaxSoft caps the weak population; <= 0 means unbounded.
	MaxSoft int
}

func (p Params) validate() error {
	if p.MaxHard < 0 {
		return cacheerr.NewIllegalArgument("lfu: MaxHard must be >= 0")
	}
	return nil
}

type factory[K comparable] struct{ params Params }

// New validates params and returns a policy.Policy factory implementing
// the frequency-based discipline.
func New[K comparable](params Params) (policy.Policy[K], error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	return factory[K]{params: params}, nil
}

func (f factory[K]) New(h policy.Hooks[K]) policy.RetentionPolicy[K] {
	return &disc[K]{
		params: f.params,
		freq:   make(map[K]int),
		strong: newFreqHeap[K](false),
		weak:   newFreqHeap[K](true),
	}
}

type disc[K comparable] struct {
	params Params
	freq   map[K]int
	strong *freqHeap[K] // min-heap: Pop gives least-frequent strong cell
	weak   *freqHeap[K] // max-heap: Pop gives most-frequent weak cell
}

func (d *disc[K]) touch(k K) int {
	d.freq[k]++
	if i, ok := d.strong.pos[k]; ok {
		heap.Fix(d.strong, i)
	}
	if i, ok := d.weak.pos[k]; ok {
		heap.Fix(d.weak, i)
	}
	return d.freq[k]
}

func (d *disc[K]) OnInsert(h policy.Hooks[K], c policy.Cell[K]) {
	h.PushHead(c)
	d.freq[c.Key()] = 1
	d.strong.push(c, d.freq)
	d.enforce(h)
}

func (d *disc[K]) OnAccess(h policy.Hooks[K], c policy.Cell[K]) {
	h.MoveToHead(c)
	d.touch(c.Key())
	if !c.Strong() {
		d.tryPromote(h, c)
	}
}

// tryPromote lets a freshly-touched weak cell into the strong tier. If
// there is spare strong capacity, enforce already has it covered. If
// the strong tier is already full, this is the only path that can ever
// replace a strong cell once its access count has been overtaken, since
// enforce only reacts to count mismatches, never to a frequency
// reordering within a tier that is already at its target size.
func (d *disc[K]) tryPromote(h policy.Hooks[K], c policy.Cell[K]) {
	if h.StrongCount() < d.params.MaxHard {
		d.enforce(h)
		return
	}
	least := d.strong.peek()
	if least == nil || d.freq[c.Key()] <= d.freq[least.Key()] {
		return
	}
	d.strong.drop(least.Key())
	d.weak.push(least, d.freq)
	h.Weaken(least)

	d.weak.drop(c.Key())
	d.strong.push(c, d.freq)
	h.Strengthen(c)
}

func (d *disc[K]) OnRemove(h policy.Hooks[K], c policy.Cell[K]) {
	delete(d.freq, c.Key())
	d.strong.drop(c.Key())
	d.weak.drop(c.Key())
	d.enforce(h)
}

// enforce keeps the strong population at MaxHard by swapping the
// least-frequent strong cell for the most-frequent weak one, then caps
// the weak population at MaxSoft.
func (d *disc[K]) enforce(h policy.Hooks[K]) {
	for h.StrongCount() > d.params.MaxHard {
		e := d.strong.peek()
		if e == nil {
			break
		}
		d.strong.drop(e.Key())
		d.weak.push(e, d.freq)
		h.Weaken(e)
	}
	for h.StrongCount() < d.params.MaxHard {
		e := d.weak.peek()
		if e == nil {
			break
		}
		d.weak.drop(e.Key())
		d.strong.push(e, d.freq)
		h.Strengthen(e)
	}
	if d.params.MaxSoft > 0 {
		for h.WeakCount() > d.params.MaxSoft {
			e := d.leastFrequentWeak()
			if e == nil {
				e = h.OldestWeak()
			}
			if e == nil {
				break
			}
			d.weak.drop(e.Key())
			delete(d.freq, e.Key())
			h.Evict(e)
		}
	}
}

// leastFrequentWeak scans the (small) weak max-heap's backing slice
// directly rather than maintaining a third heap just for this rarer
// hard-eviction path.
func (d *disc[K]) leastFrequentWeak() policy.Cell[K] {
	var best policy.Cell[K]
	bestFreq := 0
	first := true
	for _, e := range d.weak.data {
		f := d.freq[e.Key()]
		if first || f < bestFreq {
			best, bestFreq, first = e, f, false
		}
	}
	return best
}

// freqHeap is a container/heap-backed priority queue over policy.Cell
// values, ordered by an external frequency map. max selects a max-heap
// (highest frequency first) instead of the default min-heap.
type freqHeap[K comparable] struct {
	data []policy.Cell[K]
	pos  map[K]int
	freq map[K]int
	max  bool
}

func newFreqHeap[K comparable](max bool) *freqHeap[K] {
	return &freqHeap[K]{pos: make(map[K]int), max: max}
}

func (h *freqHeap[K]) Len() int { return len(h.data) }
func (h *freqHeap[K]) Less(i, j int) bool {
	fi, fj := h.freq[h.data[i].Key()], h.freq[h.data[j].Key()]
	if h.max {
		return fi > fj
	}
	return fi < fj
}
func (h *freqHeap[K]) Swap(i, j int) {
	h.data[i], h.data[j] = h.data[j], h.data[i]
	h.pos[h.data[i].Key()] = i
	h.pos[h.data[j].Key()] = j
}
func (h *freqHeap[K]) Push(x interface{}) {
	c := x.(policy.Cell[K])
	h.pos[c.Key()] = len(h.data)
	h.data = append(h.data, c)
}
func (h *freqHeap[K]) Pop() interface{} {
	n := len(h.data)
	c := h.data[n-1]
	h.data = h.data[:n-1]
	delete(h.pos, c.Key())
	return c
}

// push adds c, remembering the shared frequency map so Less can read it.
func (h *freqHeap[K]) push(c policy.Cell[K], freq map[K]int) {
	h.freq = freq
	heap.Push(h, c)
}

// peek returns the extremal element without removing it, or nil if
// empty.
func (h *freqHeap[K]) peek() policy.Cell[K] {
	if len(h.data) == 0 {
		return nil
	}
	return h.data[0]
}

// drop removes k's entry, if present.
func (h *freqHeap[K]) drop(k K) {
	i, ok := h.pos[k]
	if !ok {
		return
	}
	heap.Remove(h, i)
}
