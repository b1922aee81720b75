package graph

import (
	"runtime"

	"github.com/go-logr/logr"
)

// Config defines engine settings.
type Config struct {
	SampleRate float64
	BlockSize  int
	// Concurrency bounds the nodes processed at once within one level.
	Concurrency int
	Logger      logr.Logger
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns defaults for offline and streaming use.
func DefaultConfig() Config {
	return Config{
		SampleRate:  48000,
		BlockSize:   256,
		Concurrency: runtime.GOMAXPROCS(0),
		Logger:      logr.Discard(),
	}
}

// WithSampleRate sets the processing sample rate.
func WithSampleRate(sampleRate float64) Option {
	return func(cfg *Config) {
		if sampleRate > 0 {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithBlockSize sets the processing block size.
func WithBlockSize(blockSize int) Option {
	return func(cfg *Config) {
		if blockSize > 0 {
			cfg.BlockSize = blockSize
		}
	}
}

// WithConcurrency bounds parallel node processing. 1 processes nodes
// sequentially in topological order.
func WithConcurrency(n int) Option {
	return func(cfg *Config) {
		if n > 0 {
			cfg.Concurrency = n
		}
	}
}

// WithLogger sets the logger. Topology changes are logged at V(1).
func WithLogger(log logr.Logger) Option {
	return func(cfg *Config) {
		cfg.Logger = log
	}
}

// ApplyOptions applies zero or more options to the default config.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
