package testutil

import (
	"math/rand"
	"sort"
	"strconv"
	"sync"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Uint64 returns a pseudo-random uint64.
func (r *RNG) Uint64() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Uint64()
}

// Mask returns a pseudo-random value restricted to the bits of limit.
func (r *RNG) Mask(limit uint64) uint64 {
	return r.Uint64() & limit
}

// SampleIDs returns k distinct ids drawn from [0, size), in ascending order.
// k is clamped to size.
func (r *RNG) SampleIDs(size, k int) []int {
	if k > size {
		k = size
	}
	if k <= 0 {
		return nil
	}

	r.mu.Lock()
	perm := r.rand.Perm(size)
	r.mu.Unlock()

	ids := perm[:k]
	sort.Ints(ids)
	return ids
}

// FlagNames returns n distinct flag names with the given prefix:
// prefix0, prefix1, ...
func FlagNames(prefix string, n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = prefix + strconv.Itoa(i)
	}
	return names
}
