package flagmask

import (
	"sync/atomic"
	"time"
)

// Op names a store mutation for metrics and logging.
type Op string

const (
	OpSet         Op = "set"
	OpSetAll      Op = "set_all"
	OpClear       Op = "clear"
	OpClearAll    Op = "clear_all"
	OpSetBitmap   Op = "set_bitmap"
	OpClearBitmap Op = "clear_bitmap"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordRegister is called after each attempt to allocate a new flag.
	RecordRegister(err error)

	// RecordRemove is called after a registered flag is removed.
	RecordRemove()

	// RecordPromotion is called after the strip width grows.
	// duration covers the lane rebuild.
	RecordPromotion(from, to Width, duration time.Duration)

	// RecordMutation is called after each store mutation.
	// ids is the number of entities addressed (the population size for *All ops).
	RecordMutation(op Op, ids int, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordRegister(error)                        {}
func (NoopMetricsCollector) RecordRemove()                               {}
func (NoopMetricsCollector) RecordPromotion(Width, Width, time.Duration) {}
func (NoopMetricsCollector) RecordMutation(Op, int, error)               {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	RegisterCount       atomic.Int64
	RegisterErrors      atomic.Int64
	RemoveCount         atomic.Int64
	PromotionCount      atomic.Int64
	PromotionTotalNanos atomic.Int64
	CurrentWidth        atomic.Int64
	MutationCount       atomic.Int64
	MutationIDs         atomic.Int64
	MutationErrors      atomic.Int64
}

// RecordRegister implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRegister(err error) {
	b.RegisterCount.Add(1)
	if err != nil {
		b.RegisterErrors.Add(1)
	}
}

// RecordRemove implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRemove() {
	b.RemoveCount.Add(1)
}

// RecordPromotion implements MetricsCollector.
func (b *BasicMetricsCollector) RecordPromotion(_, to Width, duration time.Duration) {
	b.PromotionCount.Add(1)
	b.PromotionTotalNanos.Add(duration.Nanoseconds())
	b.CurrentWidth.Store(int64(to))
}

// RecordMutation implements MetricsCollector.
func (b *BasicMetricsCollector) RecordMutation(_ Op, ids int, err error) {
	b.MutationCount.Add(1)
	if err != nil {
		b.MutationErrors.Add(1)
		return
	}
	b.MutationIDs.Add(int64(ids))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		RegisterCount:     b.RegisterCount.Load(),
		RegisterErrors:    b.RegisterErrors.Load(),
		RemoveCount:       b.RemoveCount.Load(),
		PromotionCount:    b.PromotionCount.Load(),
		PromotionAvgNanos: b.getAvgPromotionNanos(),
		CurrentWidth:      b.CurrentWidth.Load(),
		MutationCount:     b.MutationCount.Load(),
		MutationIDs:       b.MutationIDs.Load(),
		MutationErrors:    b.MutationErrors.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgPromotionNanos() int64 {
	count := b.PromotionCount.Load()
	if count == 0 {
		return 0
	}
	return b.PromotionTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	RegisterCount     int64
	RegisterErrors    int64
	RemoveCount       int64
	PromotionCount    int64
	PromotionAvgNanos int64
	CurrentWidth      int64
	MutationCount     int64
	MutationIDs       int64
	MutationErrors    int64
}
