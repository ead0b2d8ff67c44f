// Package testutil provides testing utilities for flagmask.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded, thread-safe RNG plus helpers for generating entity id
// samples, random masks and flag names.
//
//	rng := testutil.NewRNG(seed)
//	ids := rng.SampleIDs(size, 100) // 100 distinct ids in [0, size), ascending
//	mask := rng.Mask(0xFF)          // random bits within the low byte
package testutil
