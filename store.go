package flagmask

// Set adds the flags in mask to every listed entity.
//
// All ids are validated before any entity is touched; an id outside
// [0, Size()) fails the call with an *OutOfRangeError and nothing changes.
func (m *Manager) Set(mask Mask, ids ...int) error {
	if err := m.checkIDs(OpSet, ids); err != nil {
		return err
	}
	for _, id := range ids {
		m.lanes.Or(id, uint64(mask))
	}
	m.opts.metricsCollector.RecordMutation(OpSet, len(ids), nil)
	return nil
}

// SetAll adds the flags in mask to every entity.
func (m *Manager) SetAll(mask Mask) {
	m.lanes.OrAll(uint64(mask))
	m.opts.metricsCollector.RecordMutation(OpSetAll, m.size, nil)
}

// Clear removes the flags in mask from every listed entity.
// Ids are validated as in Set.
func (m *Manager) Clear(mask Mask, ids ...int) error {
	if err := m.checkIDs(OpClear, ids); err != nil {
		return err
	}
	for _, id := range ids {
		m.lanes.AndNot(id, uint64(mask))
	}
	m.opts.metricsCollector.RecordMutation(OpClear, len(ids), nil)
	return nil
}

// ClearAll removes the flags in mask from every entity.
func (m *Manager) ClearAll(mask Mask) {
	m.lanes.AndNotAll(uint64(mask))
	m.opts.metricsCollector.RecordMutation(OpClearAll, m.size, nil)
}

// Value returns the raw bitmask stored for id.
func (m *Manager) Value(id int) (Mask, error) {
	if !m.inRange(id) {
		return 0, &OutOfRangeError{ID: id, Size: m.size}
	}
	return Mask(m.lanes.Get(id)), nil
}

func (m *Manager) checkIDs(op Op, ids []int) error {
	for _, id := range ids {
		if !m.inRange(id) {
			err := &OutOfRangeError{ID: id, Size: m.size}
			m.opts.metricsCollector.RecordMutation(op, len(ids), err)
			m.opts.logger.LogMutation(op, len(ids), err)
			return err
		}
	}
	return nil
}
