package fraction

import (
	"errors"
	"testing"

	"github.com/dualcache/dualcache/cacheerr"
	"github.com/dualcache/dualcache/policy"
)

type cell struct {
	k      string
	strong bool
}

func (c *cell) Key() string  { return c.k }
func (c *cell) Strong() bool { return c.strong }

type fakeHooks struct {
	order  []*cell
	byKeyM map[string]*cell
}

func newFakeHooks() *fakeHooks { return &fakeHooks{byKeyM: make(map[string]*cell)} }

func (h *fakeHooks) MoveToHead(c policy.Cell[string]) {
	k := c.Key()
	for i, o := range h.order {
		if o.k == k {
			h.order = append(h.order[:i], h.order[i+1:]...)
			break
		}
	}
	h.order = append([]*cell{h.byKeyM[k]}, h.order...)
}
func (h *fakeHooks) PushHead(c policy.Cell[string]) {
	cc := &cell{k: c.Key(), strong: c.Strong()}
	h.byKeyM[cc.k] = cc
	h.order = append([]*cell{cc}, h.order...)
}
func (h *fakeHooks) Strengthen(c policy.Cell[string]) {
	if cc, ok := h.byKeyM[c.Key()]; ok {
		cc.strong = true
	}
}
func (h *fakeHooks) Weaken(c policy.Cell[string]) {
	if cc, ok := h.byKeyM[c.Key()]; ok {
		cc.strong = false
	}
}
func (h *fakeHooks) Evict(c policy.Cell[string]) {
	delete(h.byKeyM, c.Key())
	for i, o := range h.order {
		if o.k == c.Key() {
			h.order = append(h.order[:i], h.order[i+1:]...)
			break
		}
	}
}
func (h *fakeHooks) Head() policy.Cell[string] {
	if len(h.order) == 0 {
		return nil
	}
	return h.order[0]
}
func (h *fakeHooks) Tail() policy.Cell[string] {
	if len(h.order) == 0 {
		return nil
	}
	return h.order[len(h.order)-1]
}
func (h *fakeHooks) OldestStrong() policy.Cell[string] {
	for i := len(h.order) - 1; i >= 0; i-- {
		if h.order[i].strong {
			return h.order[i]
		}
	}
	return nil
}
func (h *fakeHooks) NewestWeak() policy.Cell[string] {
	for _, o := range h.order {
		if !o.strong {
			return o
		}
	}
	return nil
}
func (h *fakeHooks) OldestWeak() policy.Cell[string] {
	for i := len(h.order) - 1; i >= 0; i-- {
		if !h.order[i].strong {
			return h.order[i]
		}
	}
	return nil
}
func (h *fakeHooks) ByKey(k string) (policy.Cell[string], bool) {
	c, ok := h.byKeyM[k]
	return c, ok
}
func (h *fakeHooks) StrongCount() int {
	n := 0
	for _, o := range h.order {
		if o.strong {
			n++
		}
	}
	return n
}
func (h *fakeHooks) WeakCount() int { return len(h.order) - h.StrongCount() }

func TestNew_RejectsInvalidParams(t *testing.T) {
	cases := []Params{
		{Softness: -0.1},
		{Softness: 1.1},
		{MinHard: -1},
		{MinHard: 3, MaxHard: 2},
	}
	for _, p := range cases {
		if _, err := New[string](p); !errors.Is(err, cacheerr.ErrIllegalArgument) {
			t.Fatalf("New(%+v) error = %v, want IllegalArgument", p, err)
		}
	}
}

// TestScenario_SoftnessHalf_MinMaxHardTwo_MaxSoftFour reproduces the
// cache's worked design example: with softness 0.5, minHard 2, maxHard
// 2, maxSoft 4, inserting four keys settles into exactly two strong
// (the two most recent) and two weak.
func TestScenario_SoftnessHalf_MinMaxHardTwo_MaxSoftFour(t *testing.T) {
	pf, err := New[string](Params{Softness: 0.5, MinHard: 2, MaxHard: 2, MaxSoft: 4})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	h := newFakeHooks()
	p := pf.New(h)

	for _, k := range []string{"a", "b", "c", "d"} {
		p.OnInsert(h, &cell{k: k, strong: true})
	}

	if got := h.StrongCount(); got != 2 {
		t.Fatalf("StrongCount = %d, want 2", got)
	}
	if got := h.WeakCount(); got != 2 {
		t.Fatalf("WeakCount = %d, want 2", got)
	}
	for _, k := range []string{"a", "b"} {
		if c, _ := h.ByKey(k); c.(*cell).strong {
			t.Fatalf("%s should be weak", k)
		}
	}
	for _, k := range []string{"c", "d"} {
		if c, _ := h.ByKey(k); !c.(*cell).strong {
			t.Fatalf("%s should be strong", k)
		}
	}
}

func TestEnforce_MaxSoftHardEvictsOldestWeak(t *testing.T) {
	pf, err := New[string](Params{Softness: 0, MinHard: 1, MaxHard: 1, MaxSoft: 2})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	h := newFakeHooks()
	p := pf.New(h)

	for _, k := range []string{"a", "b", "c", "d"} {
		p.OnInsert(h, &cell{k: k, strong: true})
	}

	if got := h.WeakCount(); got != 2 {
		t.Fatalf("WeakCount = %d, want 2 (maxSoft enforced)", got)
	}
	if _, ok := h.ByKey("a"); ok {
		t.Fatalf("a should have been hard-evicted as the oldest weak cell")
	}
}

// TestScenario_AccessOnWeakCellDemotesOldestStrong reproduces step 4 of
// the cache's worked design example: accessing a weak cell always
// promotes it, even when the strong population is already at its
// target, and enforce then demotes the tail-most strong cell to make
// room rather than leaving the accessed cell weak.
func TestScenario_AccessOnWeakCellDemotesOldestStrong(t *testing.T) {
	pf, err := New[string](Params{Softness: 0.5, MinHard: 2, MaxHard: 2, MaxSoft: 4})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	h := newFakeHooks()
	p := pf.New(h)

	for _, k := range []string{"1", "2", "3", "4"} {
		p.OnInsert(h, &cell{k: k, strong: true})
	}
	// After inserting 1,2,3,4: strong = {4,3}, weak = {2,1}.
	if c, _ := h.ByKey("1"); c.(*cell).strong {
		t.Fatalf("1 should be weak before access")
	}

	p.OnAccess(h, mustCell(h, "1"))

	if c, _ := h.ByKey("1"); !c.(*cell).strong {
		t.Fatalf("1 should be strong after access")
	}
	if c, _ := h.ByKey("3"); c.(*cell).strong {
		t.Fatalf("3 should have been demoted to make room")
	}
	if got := h.StrongCount(); got != 2 {
		t.Fatalf("StrongCount = %d, want 2", got)
	}
	if got := h.WeakCount(); got != 2 {
		t.Fatalf("WeakCount = %d, want 2", got)
	}
	wantOrder := []string{"1", "4", "3", "2"}
	for i, k := range wantOrder {
		if h.order[i].k != k {
			t.Fatalf("order[%d] = %s, want %s (order %v)", i, h.order[i].k, k, keysOf(h.order))
		}
	}
}

func mustCell(h *fakeHooks, k string) *cell {
	c, ok := h.ByKey(k)
	if !ok {
		panic("missing key " + k)
	}
	return c.(*cell)
}

func keysOf(cells []*cell) []string {
	ks := make([]string, len(cells))
	for i, c := range cells {
		ks[i] = c.k
	}
	return ks
}

func TestOnAccess_PromotesWeakCellWhenRoomExists(t *testing.T) {
	pf, err := New[string](Params{Softness: 0, MaxSoft: -1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	h := newFakeHooks()
	p := pf.New(h)

	// Softness 0 targets zero weak cells with no hard caps, so it keeps
	// everything strong; insert a cell already weak and confirm access
	// promotes it.
	c := &cell{k: "a", strong: false}
	h.byKeyM["a"] = c
	h.order = append(h.order, c)

	p.OnAccess(h, c)
	if !c.strong {
		t.Fatalf("OnAccess should have promoted a to strong")
	}
}

// TestDesiredStrong_SoftnessBoundaries locks in spec.md §8's two
// boundary behaviors directly against desiredStrong, independent of any
// MinHard/MaxHard clamp that could otherwise mask the fix: Softness 0
// is "no weak cells ever exist" (desiredStrong == n), and Softness 1 is
// "exactly MinHard cells are strong" (desiredStrong == MinHard).
func TestDesiredStrong_SoftnessBoundaries(t *testing.T) {
	allStrong := &disc[string]{params: Params{Softness: 0, MinHard: 2}}
	if got := allStrong.desiredStrong(5); got != 5 {
		t.Fatalf("desiredStrong(5) with Softness=0 = %d, want 5 (all strong)", got)
	}

	onlyMinHard := &disc[string]{params: Params{Softness: 1, MinHard: 2}}
	if got := onlyMinHard.desiredStrong(5); got != 2 {
		t.Fatalf("desiredStrong(5) with Softness=1 = %d, want 2 (MinHard)", got)
	}
}
