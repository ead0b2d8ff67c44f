package flagmask

import (
	"fmt"
	"time"

	"github.com/hupe1980/flagmask/internal/lane"
)

// Mask addresses one or more flags. Bit i is set when the flag registered at
// position i is included. Masks are combined with the ordinary bitwise
// operators (|, &, &^).
type Mask uint64

// Width is the number of flag bits stored per entity.
type Width = lane.Width

const (
	Width8  Width = lane.W8
	Width16 Width = lane.W16
	Width32 Width = lane.W32
	// Width64 is terminal: no further promotion is possible.
	Width64 Width = lane.W64
)

// MaxFlags is the maximum number of live flags per Manager.
const MaxFlags = 64

// Manager owns a flag registry and the packed per-entity bitmask store for a
// population of fixed size.
//
// A Manager is not safe for concurrent use. Hosts that share one across
// goroutines must guard it with a single mutex: a width promotion rewrites
// every entity and must not interleave with Set or Clear.
type Manager struct {
	size  int
	lanes lane.Lane
	bits  map[string]uint8
	used  uint64 // bit i set when position i is allocated
	opts  options
}

// New creates a Manager for entities 0..size-1 with every flag cleared.
func New(size int, optFns ...Option) (*Manager, error) {
	if size < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}

	opts, err := newOptions(optFns)
	if err != nil {
		return nil, err
	}

	lanes, err := lane.New(opts.initialWidth, size)
	if err != nil {
		return nil, err
	}

	return &Manager{
		size:  size,
		lanes: lanes,
		bits:  make(map[string]uint8),
		opts:  opts,
	}, nil
}

// Size returns the population size.
func (m *Manager) Size() int { return m.size }

// Width returns the current strip width.
func (m *Manager) Width() Width { return m.lanes.Width() }

// promote doubles the strip width, rebuilding the store at the new width.
// On failure the store is left untouched.
func (m *Manager) promote() error {
	from := m.lanes.Width()
	to, ok := from.Next()
	if !ok {
		return ErrCapacityExceeded
	}

	start := time.Now()
	widened, err := m.lanes.Widen(to)
	if err != nil {
		return err
	}
	m.lanes = widened

	m.opts.metricsCollector.RecordPromotion(from, to, time.Since(start))
	m.opts.logger.LogPromotion(from, to, m.size)
	return nil
}

func (m *Manager) inRange(id int) bool {
	return id >= 0 && id < m.size
}
