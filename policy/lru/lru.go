// Package lru offers a classic recency-only retention discipline as a
// thin specialization of policy/fraction: nothing is preferentially
// kept strong beyond the hard floor/ceiling, so the strong population
// tracks exactly [minHard, maxHard] rather than a softness fraction.
package lru

import (
	"github.com/dualcache/dualcache/policy"
	"github.com/dualcache/dualcache/policy/fraction"
)

// New returns a Policy factory that keeps between minHard and maxHard
// cells strong (maxHard <= 0 means unbounded) and evicts outright once
// more than maxSoft cells are weak (maxSoft <= 0 means unbounded).
func New[K comparable](minHard, maxHard, maxSoft int) (policy.Policy[K], error) {
	return fraction.New[K](fraction.Params{
		Softness: 0,
		MinHard:  minHard,
		MaxHard:  maxHard,
		MaxSoft:  maxSoft,
	})
}
