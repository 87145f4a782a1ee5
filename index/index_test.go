package index

import (
	"errors"
	"testing"

	"github.com/dualcache/dualcache/cacheerr"
)

// fakeCache is a minimal Accessor[K,V] backed by a plain map, enough to
// exercise index lookups without a real cache.
type fakeCache struct {
	m map[string]string
}

func (f *fakeCache) Get(k string) (string, bool) { v, ok := f.m[k]; return v, ok }
func (f *fakeCache) Remove(k string) (string, bool) {
	v, ok := f.m[k]
	delete(f.m, k)
	return v, ok
}

func byValue(v string) (string, bool) {
	if v == "" {
		return "", false
	}
	return v, true
}

func TestUnique_SeedConflict(t *testing.T) {
	idx := NewUnique[string, string, string](byValue)
	err := idx.Seed([]Pair[string, string]{
		{Key: "a", Value: "X"},
		{Key: "b", Value: "X"},
	})
	if !errors.Is(err, cacheerr.ErrAttributeConflict) {
		t.Fatalf("Seed error = %v, want AttributeConflict", err)
	}
}

func TestUnique_OnPutConflictEvictsBoth(t *testing.T) {
	idx := NewUnique[string, string, string](byValue)
	if err := idx.Seed(nil); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	if evict := idx.OnPut("a", "X"); evict != nil {
		t.Fatalf("first OnPut should not evict, got %v", evict)
	}
	evict := idx.OnPut("b", "X")
	if len(evict) != 2 {
		t.Fatalf("OnPut conflict should evict both keys, got %v", evict)
	}
}

func TestUnique_GetAndRemove(t *testing.T) {
	idx := NewUnique[string, string, string](byValue)
	_ = idx.Seed(nil)
	idx.OnPut("a", "X")

	fc := &fakeCache{m: map[string]string{"a": "X"}}
	v, ok := idx.Get(fc, "X")
	if !ok || v != "X" {
		t.Fatalf("Get(X) = %q, %v, want X, true", v, ok)
	}

	if _, ok := idx.Remove(fc, "X"); !ok {
		t.Fatalf("Remove(X) should succeed")
	}
	if _, ok := fc.Get("a"); ok {
		t.Fatalf("underlying cache entry should be gone after Remove")
	}
}

func byFirstChar(v string) (string, bool) {
	if v == "" {
		return "", false
	}
	return v[:1], true
}

func TestMulti_BucketsInInsertionOrder(t *testing.T) {
	idx := NewMulti[string, string, string](byFirstChar)
	idx.OnPut("k1", "apple")
	idx.OnPut("k2", "apricot")
	idx.OnPut("k3", "banana")

	fc := &fakeCache{m: map[string]string{"k1": "apple", "k2": "apricot", "k3": "banana"}}

	got := idx.Get(fc, "a")
	if len(got) != 2 || got[0] != "apple" || got[1] != "apricot" {
		t.Fatalf("Get(a) = %v, want [apple apricot]", got)
	}

	if n := idx.Remove(fc, "a"); n != 2 {
		t.Fatalf("Remove(a) = %d, want 2", n)
	}
	if idx.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 (only bucket b left)", idx.Len())
	}
}

func TestMulti_OnPutMovesBucketOnAttributeChange(t *testing.T) {
	idx := NewMulti[string, string, string](byFirstChar)
	idx.OnPut("k1", "apple")
	idx.OnPut("k1", "banana") // attribute changed from a -> b

	fc := &fakeCache{m: map[string]string{"k1": "banana"}}
	if got := idx.Get(fc, "a"); len(got) != 0 {
		t.Fatalf("bucket a should be empty after re-put, got %v", got)
	}
	if got := idx.Get(fc, "b"); len(got) != 1 {
		t.Fatalf("bucket b should contain k1, got %v", got)
	}
}
