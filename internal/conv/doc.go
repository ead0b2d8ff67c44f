// Package conv provides checked integer conversions for values decoded from
// snapshots and for entity ids handed to 32-bit bitmaps.
//
// Conversions that are provably safe (loop indices, bit positions below 64)
// use direct casts instead.
package conv
