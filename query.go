package flagmask

import "iter"

// Has returns a predicate reporting whether an entity carries at least one
// flag of mask. Ids outside [0, Size()) report false.
//
// The predicate reads the live store, so it observes later mutations and
// promotions.
func (m *Manager) Has(mask Mask) func(id int) bool {
	return func(id int) bool {
		return m.inRange(id) && Mask(m.lanes.Get(id))&mask != 0
	}
}

// HasAll returns a predicate reporting whether an entity carries every flag
// of mask. Ids outside [0, Size()) report false.
func (m *Manager) HasAll(mask Mask) func(id int) bool {
	return func(id int) bool {
		return m.inRange(id) && Mask(m.lanes.Get(id))&mask == mask
	}
}

// HasNot is an alias of HasAll.
//
// It tests that no bit of mask is missing from the entity, ^v&mask == 0,
// which is the same condition as v&mask == mask.
func (m *Manager) HasNot(mask Mask) func(id int) bool {
	return m.HasAll(mask)
}

// FilterAny yields, in ascending order, the ids of entities carrying at
// least one flag of mask.
func (m *Manager) FilterAny(mask Mask) iter.Seq[int] {
	return m.Filter(func(v Mask) bool { return v&mask != 0 })
}

// FilterAll yields, in ascending order, the ids of entities carrying every
// flag of mask.
func (m *Manager) FilterAll(mask Mask) iter.Seq[int] {
	return m.Filter(func(v Mask) bool { return v&mask == mask })
}

// Filter yields, in ascending order, the ids of entities whose stored value
// satisfies pred. The sequence is lazy and can be ranged over repeatedly.
func (m *Manager) Filter(pred func(v Mask) bool) iter.Seq[int] {
	return func(yield func(int) bool) {
		for id := 0; id < m.size; id++ {
			if pred(Mask(m.lanes.Get(id))) && !yield(id) {
				return
			}
		}
	}
}

// Count returns the number of entities carrying every flag of mask.
func (m *Manager) Count(mask Mask) int {
	n := 0
	for range m.FilterAll(mask) {
		n++
	}
	return n
}

// CountAny returns the number of entities carrying at least one flag of mask.
func (m *Manager) CountAny(mask Mask) int {
	n := 0
	for range m.FilterAny(mask) {
		n++
	}
	return n
}
