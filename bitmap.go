package flagmask

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"github.com/RoaringBitmap/roaring/v2"
	"golang.org/x/sync/errgroup"
)

// cancelCheckInterval is how many entities a scan visits between context checks.
const cancelCheckInterval = 4096

// FilterBitmap returns the ids of entities carrying every flag of mask as a
// roaring bitmap, for combining flag selections with other id sets.
//
// Populations of at least the parallel threshold are scanned in chunks
// concurrently. The scan stops with ctx.Err() when ctx is cancelled.
func (m *Manager) FilterBitmap(ctx context.Context, mask Mask) (*roaring.Bitmap, error) {
	return m.scanBitmap(ctx, func(v Mask) bool { return v&mask == mask })
}

// FilterAnyBitmap is the FilterAny counterpart of FilterBitmap.
func (m *Manager) FilterAnyBitmap(ctx context.Context, mask Mask) (*roaring.Bitmap, error) {
	return m.scanBitmap(ctx, func(v Mask) bool { return v&mask != 0 })
}

// SetBitmap adds the flags in mask to every entity in ids.
// Like Set, it fails without mutating anything if any id is out of range.
func (m *Manager) SetBitmap(mask Mask, ids *roaring.Bitmap) error {
	if ids == nil || ids.IsEmpty() {
		return nil
	}
	if err := m.checkBitmap(OpSetBitmap, ids); err != nil {
		return err
	}
	it := ids.Iterator()
	for it.HasNext() {
		m.lanes.Or(int(it.Next()), uint64(mask))
	}
	m.opts.metricsCollector.RecordMutation(OpSetBitmap, int(ids.GetCardinality()), nil)
	return nil
}

// ClearBitmap removes the flags in mask from every entity in ids.
func (m *Manager) ClearBitmap(mask Mask, ids *roaring.Bitmap) error {
	if ids == nil || ids.IsEmpty() {
		return nil
	}
	if err := m.checkBitmap(OpClearBitmap, ids); err != nil {
		return err
	}
	it := ids.Iterator()
	for it.HasNext() {
		m.lanes.AndNot(int(it.Next()), uint64(mask))
	}
	m.opts.metricsCollector.RecordMutation(OpClearBitmap, int(ids.GetCardinality()), nil)
	return nil
}

// checkBitmap expects a non-empty ids.
func (m *Manager) checkBitmap(op Op, ids *roaring.Bitmap) error {
	if last := int(ids.Maximum()); last >= m.size {
		err := &OutOfRangeError{ID: last, Size: m.size}
		m.opts.metricsCollector.RecordMutation(op, int(ids.GetCardinality()), err)
		m.opts.logger.LogMutation(op, int(ids.GetCardinality()), err)
		return err
	}
	return nil
}

func (m *Manager) scanBitmap(ctx context.Context, pred func(Mask) bool) (*roaring.Bitmap, error) {
	if uint64(m.size) > math.MaxUint32+1 {
		return nil, fmt.Errorf("population of %d entities exceeds the 32-bit bitmap id space", m.size)
	}

	chunk := m.opts.parallelThreshold
	if chunk <= 0 || m.size < chunk {
		return m.scanRange(ctx, pred, 0, m.size)
	}

	parts := make([]*roaring.Bitmap, (m.size+chunk-1)/chunk)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i := range parts {
		g.Go(func() error {
			lo := i * chunk
			hi := min(lo+chunk, m.size)
			rb, err := m.scanRange(gctx, pred, lo, hi)
			if err != nil {
				return err
			}
			parts[i] = rb
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return roaring.FastOr(parts...), nil
}

func (m *Manager) scanRange(ctx context.Context, pred func(Mask) bool, lo, hi int) (*roaring.Bitmap, error) {
	rb := roaring.New()
	for id := lo; id < hi; id++ {
		if (id-lo)%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if pred(Mask(m.lanes.Get(id))) {
			rb.Add(uint32(id))
		}
	}
	return rb, nil
}
