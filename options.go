package bitspin

import (
	"log/slog"

	"github.com/hupe1980/bitspin/bitmatrix"
	"github.com/hupe1980/bitspin/blobstore"
	"github.com/hupe1980/bitspin/codec"
	"github.com/hupe1980/bitspin/resource"
	"github.com/hupe1980/bitspin/rotate"
)

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
	store            blobstore.BlobStore
	codec            codec.Codec
	resources        resource.Config
	rotator          rotate.Func
	reference        rotate.Func
	seed             int64
	seeded           bool
	heapBuffers      bool
}

func defaultOptions() options {
	return options{
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
		store:            blobstore.NewLocalStore(""),
		rotator:          rotate.Rotate,
		reference:        bitmatrix.RotateReference,
	}
}

// Option configures a Tester.
type Option func(*options)

// WithLogger sets the logger used for run, tier and file events.
//
// If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithLogLevel installs a text logger on stderr at the given level.
//
// Example:
//
//	t, _ := bitspin.New(bitspin.WithLogLevel(slog.LevelDebug))
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetricsCollector sets the collector notified of rotations, tier probes
// and correctness rounds.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithBlobStore sets the store RunFile reads from and writes to.
//
// The default is a LocalStore without root, so names are plain file paths.
func WithBlobStore(s blobstore.BlobStore) Option {
	return func(o *options) {
		if s != nil {
			o.store = s
		}
	}
}

// WithCodec forces the codec used by RunFile instead of picking one from the
// file extension.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		o.codec = c
	}
}

// WithResources bounds the memory, worker slots and IO bandwidth of the
// Tester.
//
// Example:
//
//	bitspin.WithResources(resource.Config{
//	    MemoryLimitBytes: 1 << 30,
//	    MaxWorkers:       4,
//	})
func WithResources(cfg resource.Config) Option {
	return func(o *options) {
		o.resources = cfg
	}
}

// WithRotator sets the rotation under test. The default is rotate.Rotate.
func WithRotator(fn rotate.Func) Option {
	return func(o *options) {
		if fn != nil {
			o.rotator = fn
		}
	}
}

// WithReference sets the rotation results are checked against. The default
// is bitmatrix.RotateReference.
func WithReference(fn rotate.Func) Option {
	return func(o *options) {
		if fn != nil {
			o.reference = fn
		}
	}
}

// WithSeed makes generated matrices reproducible. Without it every Tester
// draws a fresh seed, which is logged with each run.
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.seed = seed
		o.seeded = true
	}
}

// WithHeapBuffers allocates the tier search matrix on the heap instead of an
// anonymous memory mapping.
func WithHeapBuffers() Option {
	return func(o *options) {
		o.heapBuffers = true
	}
}
