package flagmask

import (
	"fmt"
	"math/bits"
	"sort"
)

// Register allocates the lowest free bit position for name and returns its
// one-hot mask. The store is promoted to the next width first when every
// position of the current width is taken.
//
// Register fails with ErrFlagExists when name is already registered and with
// ErrCapacityExceeded when all 64 positions are in use. Use Flag for the
// idempotent lookup-or-register behaviour.
func (m *Manager) Register(name string) (Mask, error) {
	if _, ok := m.bits[name]; ok {
		return 0, fmt.Errorf("register %q: %w", name, ErrFlagExists)
	}
	return m.register(name)
}

func (m *Manager) register(name string) (Mask, error) {
	pos := bits.TrailingZeros64(^m.used)

	var err error
	switch {
	case pos >= MaxFlags:
		err = fmt.Errorf("register %q: %w", name, ErrCapacityExceeded)
	case pos >= int(m.lanes.Width()):
		if perr := m.promote(); perr != nil {
			err = fmt.Errorf("register %q: %w", name, perr)
		}
	}

	m.opts.metricsCollector.RecordRegister(err)
	m.opts.logger.LogRegister(name, pos, m.lanes.Width(), err)
	if err != nil {
		return 0, err
	}

	m.bits[name] = uint8(pos)
	m.used |= 1 << uint(pos)
	return Mask(1) << uint(pos), nil
}

// Flag returns the mask of name, registering it first if needed.
// Calling Flag twice without an intervening Remove returns the same mask.
func (m *Manager) Flag(name string) (Mask, error) {
	if pos, ok := m.bits[name]; ok {
		return Mask(1) << pos, nil
	}
	return m.register(name)
}

// MustFlag is like Flag but panics if the flag cannot be registered.
func (m *Manager) MustFlag(name string) Mask {
	mask, err := m.Flag(name)
	if err != nil {
		panic(err)
	}
	return mask
}

// Mask returns the union of Flag(name) for every name.
func (m *Manager) Mask(names ...string) (Mask, error) {
	var mask Mask
	for _, name := range names {
		f, err := m.Flag(name)
		if err != nil {
			return 0, err
		}
		mask |= f
	}
	return mask, nil
}

// Lookup returns the mask of a registered flag without registering it.
func (m *Manager) Lookup(name string) (Mask, bool) {
	pos, ok := m.bits[name]
	if !ok {
		return 0, false
	}
	return Mask(1) << pos, true
}

// Remove clears name on every entity and frees its bit position for reuse.
// Removing an unknown name is a no-op. The strip width is never reduced.
func (m *Manager) Remove(name string) {
	pos, ok := m.bits[name]
	if !ok {
		return
	}

	m.ClearAll(Mask(1) << pos)
	delete(m.bits, name)
	m.used &^= 1 << pos

	m.opts.metricsCollector.RecordRemove()
	m.opts.logger.LogRemove(name, int(pos))
}

// Len returns the number of registered flags.
func (m *Manager) Len() int { return len(m.bits) }

// Names returns the registered flag names ordered by bit position.
func (m *Manager) Names() []string {
	return m.Describe(Mask(m.used))
}

// Describe returns the names of the registered flags included in mask,
// ordered by bit position. Bits with no registered flag are ignored.
func (m *Manager) Describe(mask Mask) []string {
	names := make([]string, 0, bits.OnesCount64(uint64(mask)&m.used))
	for name, pos := range m.bits {
		if mask&(Mask(1)<<pos) != 0 {
			names = append(names, name)
		}
	}
	sort.Slice(names, func(i, j int) bool {
		return m.bits[names[i]] < m.bits[names[j]]
	})
	return names
}
