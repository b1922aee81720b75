package unit

import (
	"fmt"

	"github.com/cwbudde/algo-proc/proc/define"
	"github.com/go-logr/logr"
)

// Strategy selects how Process walks a block.
type Strategy uint8

const (
	// Accumulate fetches every input's whole-block view before the loop and
	// latches from the slices inside it.
	Accumulate Strategy = iota
	// PerSample acquires one exclusive view per channel before the loop and
	// reads and writes through per-index handles.
	PerSample
)

func (s Strategy) String() string {
	switch s {
	case Accumulate:
		return "accumulate"
	case PerSample:
		return "persample"
	default:
		return fmt.Sprintf("strategy(%d)", uint8(s))
	}
}

// ParseStrategy maps "accumulate" or "persample" to its Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "accumulate":
		return Accumulate, nil
	case "persample":
		return PerSample, nil
	default:
		return Accumulate, fmt.Errorf("unknown strategy %q", s)
	}
}

type binding struct {
	role define.Role
	name string
}

// Config holds unit construction settings.
type Config struct {
	Strategy Strategy
	// Name overrides the unit name.
	Name string
	// Allocate and Resize are invoked verbatim by the matching hooks.
	Allocate func(sampleRate float64, blockSize int)
	Resize   func(sampleRate float64, blockSize int)
	Logger   logr.Logger

	bindings []binding
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns the accumulate strategy and a discarding logger.
func DefaultConfig() Config {
	return Config{
		Strategy: Accumulate,
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

// WithStrategy sets the processing strategy.
func WithStrategy(s Strategy) Option {
	return func(cfg *Config) {
		cfg.Strategy = s
	}
}

// WithName sets the name reported by the unit.
func WithName(name string) Option {
	return func(cfg *Config) {
		cfg.Name = name
	}
}

// WithAllocate installs the Allocate hook.
func WithAllocate(fn func(sampleRate float64, blockSize int)) Option {
	return func(cfg *Config) {
		cfg.Allocate = fn
	}
}

// WithResize installs the ResizeBuffers hook.
func WithResize(fn func(sampleRate float64, blockSize int)) Option {
	return func(cfg *Config) {
		cfg.Resize = fn
	}
}

// WithLogger sets the logger. Construction and failed blocks are logged at
// V(1).
func WithLogger(log logr.Logger) Option {
	return func(cfg *Config) {
		cfg.Logger = log
	}
}

// State binds the next function parameter as state.
func State(name string) Option {
	return bind(define.RoleState, name)
}

// Input binds the next function parameter as an input channel.
func Input(name string) Option {
	return bind(define.RoleInput, name)
}

// Output binds the next function parameter as an output channel.
func Output(name string) Option {
	return bind(define.RoleOutput, name)
}

func bind(role define.Role, name string) Option {
	return func(cfg *Config) {
		cfg.bindings = append(cfg.bindings, binding{role: role, name: name})
	}
}
