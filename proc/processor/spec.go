package processor

import (
	"fmt"

	"github.com/cwbudde/algo-proc/proc/signal"
)

// SignalSpec names one channel and its kind.
type SignalSpec struct {
	Name string
	Kind signal.Kind
}

// NewSignalSpec returns a SignalSpec.
func NewSignalSpec(name string, kind signal.Kind) SignalSpec {
	return SignalSpec{Name: name, Kind: kind}
}

func (s SignalSpec) String() string {
	return fmt.Sprintf("%s:%s", s.Name, s.Kind)
}

// Inputs are the input views of one Process call.
type Inputs struct {
	Specs []SignalSpec
	// Buffers holds one buffer per spec. A nil entry is an unconnected
	// input: absent at every index.
	Buffers []signal.Buffer
	Env     Env
}

// BlockSize returns the number of samples to process.
func (in Inputs) BlockSize() int {
	return in.Env.BlockSize
}

// Len returns the number of input channels.
func (in Inputs) Len() int {
	return len(in.Buffers)
}

// Input returns the buffer of channel i, or nil if the channel is
// unconnected or out of range.
func (in Inputs) Input(i int) signal.Buffer {
	if i < 0 || i >= len(in.Buffers) {
		return nil
	}
	return in.Buffers[i]
}

// Outputs are the output views of one Process call. Every entry must be
// non-nil and distinct.
type Outputs struct {
	Specs   []SignalSpec
	Buffers []signal.Buffer
}

// Len returns the number of output channels.
func (out Outputs) Len() int {
	return len(out.Buffers)
}

// Output returns the buffer of channel i, or nil if out of range.
func (out Outputs) Output(i int) signal.Buffer {
	if i < 0 || i >= len(out.Buffers) {
		return nil
	}
	return out.Buffers[i]
}
