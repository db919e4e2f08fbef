package faiss

import (
	"log/slog"
	"sync"

	"github.com/hupe1980/go-faiss/native"
	"github.com/hupe1980/go-faiss/native/reference"
	"github.com/hupe1980/go-faiss/resource"
)

var defaultEngine = sync.OnceValue(func() native.Engine { return reference.New() })

// DefaultEngine returns the engine used when no WithEngine option is given.
// It is a process-wide pure-Go reference engine.
func DefaultEngine() native.Engine { return defaultEngine() }

type options struct {
	engine           native.Engine
	metricsCollector MetricsCollector
	logger           *Logger
	resources        *resource.Controller
	reentrantReads   bool
	maxResultBytes   int64
}

// Option configures index constructors.
type Option func(*options)

// WithEngine selects the engine that creates and serves the index.
//
// Example with the native library:
//
//	eng, _ := faissc.Open()
//	idx, _ := faiss.IndexFactory(128, "IVF256,Flat", faiss.MetricL2, faiss.WithEngine(eng))
//
// If nil is passed, DefaultEngine is used.
func WithEngine(e native.Engine) Option {
	return func(o *options) {
		if e == nil {
			e = DefaultEngine()
		}
		o.engine = e
	}
}

// WithMetricsCollector reports every operation to mc. nil restores the
// no-op collector.
//
//	metrics := &faiss.BasicMetricsCollector{}
//	idx, _ := faiss.NewFlatIndexL2(64, faiss.WithMetricsCollector(metrics))
//	// ... use idx ...
//	stats := metrics.GetStats()
//	fmt.Printf("Searches: %d, Avg latency: %dns\n", stats.SearchCount, stats.SearchAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger sets the logger. nil silences logging.
//
//	logger := faiss.NewJSONLogger(slog.LevelDebug)
//	idx, _ := faiss.NewFlatIndexL2(64, faiss.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel is shorthand for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithResourceController bounds the memory used by result buffers.
// A search whose result would exceed the controller's memory limit fails
// with ErrResourceExhausted. Several indexes may share one controller.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.resources = rc
	}
}

// WithReentrantReads declares that the read path of a factory-built index
// is safe to call from several goroutines at once, which makes
// IndexImpl.Concurrent report the concurrent facet. Only set it for
// descriptions whose engine implementation is known to be reentrant.
func WithReentrantReads() Option {
	return func(o *options) {
		o.reentrantReads = true
	}
}

// DefaultMaxResultBytes bounds the result buffers of one Search or Assign
// call unless WithMaxResultBytes says otherwise.
const DefaultMaxResultBytes = 4 << 30

// WithMaxResultBytes bounds the result buffers of a single Search or Assign
// call (12 bytes per query and neighbor). Larger requests fail with
// ErrResourceExhausted instead of allocating. 0 or less removes the bound;
// only overflow is then rejected.
func WithMaxResultBytes(n int64) Option {
	return func(o *options) {
		o.maxResultBytes = n
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		engine:           DefaultEngine(),
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		maxResultBytes:   DefaultMaxResultBytes,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
