package gen

import (
	"github.com/cwbudde/algo-proc/proc/unit"
	"github.com/go-logr/logr"
)

// Config holds generator settings.
type Config struct {
	// Strategy is used by units whose directive names none.
	Strategy unit.Strategy
	// Command is named in the generated file header.
	Command string
	Logger  logr.Logger
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns the generator defaults.
func DefaultConfig() Config {
	return Config{
		Strategy: unit.Accumulate,
		Command:  "procgen",
		Logger:   logr.Discard(),
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

// WithStrategy sets the default strategy.
func WithStrategy(s unit.Strategy) Option {
	return func(cfg *Config) {
		cfg.Strategy = s
	}
}

// WithCommand sets the command named in the generated header.
func WithCommand(name string) Option {
	return func(cfg *Config) {
		if name != "" {
			cfg.Command = name
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log logr.Logger) Option {
	return func(cfg *Config) {
		cfg.Logger = log
	}
}
