package flagmask

import (
	"fmt"
	"log/slog"

	"github.com/hupe1980/flagmask/codec"
	"github.com/hupe1980/flagmask/internal/blockcodec"
)

// DefaultParallelThreshold is the population size from which bitmap scans
// are split across goroutines.
const DefaultParallelThreshold = 1 << 16

// Compression selects how snapshot payloads are compressed.
type Compression = blockcodec.Type

const (
	// CompressionNone stores snapshot payloads raw.
	CompressionNone Compression = blockcodec.None
	// CompressionLZ4 compresses snapshot payloads with LZ4.
	CompressionLZ4 Compression = blockcodec.LZ4
	// CompressionZSTD compresses snapshot payloads with ZSTD.
	CompressionZSTD Compression = blockcodec.ZSTD
)

type options struct {
	logger            *Logger
	metricsCollector  MetricsCollector
	initialWidth      Width
	parallelThreshold int
	codec             codec.Codec
	compression       Compression
}

func defaultOptions() options {
	return options{
		logger:            NoopLogger(),
		metricsCollector:  NoopMetricsCollector{},
		initialWidth:      Width8,
		parallelThreshold: DefaultParallelThreshold,
		codec:             codec.Default,
		compression:       CompressionLZ4,
	}
}

func newOptions(optFns []Option) (options, error) {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	if !opts.initialWidth.Valid() {
		return opts, fmt.Errorf("%w: %d", ErrInvalidWidth, opts.initialWidth)
	}
	if !opts.compression.Valid() {
		return opts, fmt.Errorf("unknown compression type %d", opts.compression)
	}
	return opts, nil
}

// Option configures a Manager.
type Option func(*options)

// WithLogger configures structured logging.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := flagmask.NewJSONLogger(slog.LevelDebug)
//	fm, _ := flagmask.New(1000, flagmask.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetricsCollector configures a metrics collector.
// Pass nil to disable metrics collection.
//
//	metrics := &flagmask.BasicMetricsCollector{}
//	fm, _ := flagmask.New(1000, flagmask.WithMetricsCollector(metrics))
//	// ... use fm ...
//	fmt.Println(metrics.GetStats().PromotionCount)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithInitialWidth starts the store at w instead of 8 bits per entity.
// Hosts that know they need more than 8 flags skip the early promotions.
func WithInitialWidth(w Width) Option {
	return func(o *options) {
		o.initialWidth = w
	}
}

// WithParallelThreshold sets the population size from which FilterBitmap and
// FilterAnyBitmap scan chunks concurrently. n <= 0 disables parallel scans.
func WithParallelThreshold(n int) Option {
	return func(o *options) {
		o.parallelThreshold = n
	}
}

// WithCodec configures the codec used for the flag table in snapshots.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithCompression configures snapshot payload compression.
func WithCompression(c Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}
