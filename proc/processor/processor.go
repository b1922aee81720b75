package processor

import (
	"fmt"

	"github.com/cwbudde/algo-proc/proc/signal"
)

// Processor is the per-node contract consumed by the engine.
type Processor interface {
	// Name returns a stable identifier derived from the unit definition.
	Name() string
	// InputSpec returns the ordered input channels. It is pure.
	InputSpec() []SignalSpec
	// OutputSpec returns the ordered output channels. It is pure.
	OutputSpec() []SignalSpec
	// CreateOutputBuffers returns fresh zeroed buffers, one per output
	// spec, each holding size samples.
	CreateOutputBuffers(size int) []signal.Buffer
	// Process runs one block.
	Process(in Inputs, out Outputs) error
}

// Allocator is implemented by processors that need to prepare for a sample
// rate and block size before the first block.
type Allocator interface {
	Allocate(sampleRate float64, blockSize int)
}

// Resizer is implemented by processors that react to block size or sample
// rate changes.
type Resizer interface {
	ResizeBuffers(sampleRate float64, blockSize int)
}

// Allocate calls p.Allocate if p implements Allocator.
func Allocate(p Processor, sampleRate float64, blockSize int) {
	if a, ok := p.(Allocator); ok {
		a.Allocate(sampleRate, blockSize)
	}
}

// ResizeBuffers calls p.ResizeBuffers if p implements Resizer.
func ResizeBuffers(p Processor, sampleRate float64, blockSize int) {
	if r, ok := p.(Resizer); ok {
		r.ResizeBuffers(sampleRate, blockSize)
	}
}

// Validate checks that in and out carry one buffer per spec of p and that
// every connected buffer has the declared kind.
func Validate(p Processor, in Inputs, out Outputs) error {
	inSpec := p.InputSpec()
	if len(in.Buffers) != len(inSpec) {
		return fmt.Errorf("%w: %s expects %d inputs, got %d", ErrChannelCount, p.Name(), len(inSpec), len(in.Buffers))
	}

	outSpec := p.OutputSpec()
	if len(out.Buffers) != len(outSpec) {
		return fmt.Errorf("%w: %s expects %d outputs, got %d", ErrChannelCount, p.Name(), len(outSpec), len(out.Buffers))
	}

	for i, spec := range inSpec {
		buf := in.Buffers[i]
		if buf == nil {
			continue
		}
		if buf.Kind() != spec.Kind {
			return fmt.Errorf("%w: %s input %q wants %s, got %s", signal.ErrTypeMismatch, p.Name(), spec.Name, spec.Kind, buf.Kind())
		}
	}

	for i, spec := range outSpec {
		buf := out.Buffers[i]
		if buf == nil {
			return fmt.Errorf("%w: %s output %q has no buffer", ErrChannelCount, p.Name(), spec.Name)
		}
		if buf.Kind() != spec.Kind {
			return fmt.Errorf("%w: %s output %q wants %s, got %s", signal.ErrTypeMismatch, p.Name(), spec.Name, spec.Kind, buf.Kind())
		}
	}

	return nil
}
