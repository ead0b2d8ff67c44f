// Package flagmask manages named boolean flags for a fixed population of
// entities, packed into one bitmask per entity.
//
// Flags are registered by name and handed out as one-hot Masks. Masks are
// combined with ordinary bitwise operators and passed to the store
// operations, which never look at names.
//
// # Quick Start
//
//	fm, _ := flagmask.New(1000)
//
//	sea, _ := fm.Flag("sea")
//	river, _ := fm.Flag("river")
//	_ = fm.Set(sea, 56, 100)
//	_ = fm.Set(river, 56, 110)
//
//	for id := range fm.FilterAll(sea | river) {
//	    fmt.Println("both", id) // 56
//	}
//
// # Bit Allocation
//
// Register and Flag always take the lowest free bit position. Removing a flag
// clears it on every entity and frees its position, so a later registration
// may receive the same bit. Re-fetch masks with Flag after a Remove instead of
// caching them.
//
// # Strip Width
//
// Each entity's flags live in an unsigned integer of the current strip width:
// 8, 16, 32 or 64 bits. The store starts at 8 bits and doubles when a
// registration needs a position the current width cannot hold, rebuilding
// every entity's value at the new width. The width never shrinks. Once 64
// positions are in use, registration fails with ErrCapacityExceeded.
//
// # Queries
//
//	isRed := fm.Has(red)             // any bit of the mask
//	isYellow := fm.HasAll(red|green) // every bit of the mask
//	for id := range fm.FilterAny(red | green) { ... }
//	for id := range fm.Filter(func(v flagmask.Mask) bool { return v&red != 0 && v&blue != 0 }) { ... }
//
// Predicates report false for ids outside [0, Size()). Mutations with such ids
// fail with an *OutOfRangeError and leave every entity unchanged.
//
// # Bitmaps and Snapshots
//
// FilterBitmap materializes a selection as a roaring bitmap, scanning large
// populations in parallel. MarshalBinary and UnmarshalBinary encode the whole
// manager, optionally LZ4 or ZSTD compressed, for hosts that persist it
// themselves.
//
// # Concurrency
//
// A Manager is not safe for concurrent use. Guard it with a single mutex when
// it is shared.
package flagmask
