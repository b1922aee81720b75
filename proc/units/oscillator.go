package units

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-proc/proc/processor"
	"github.com/cwbudde/algo-proc/proc/unit"
)

// Oscillator is a sine oscillator. Phase is in cycles.
type Oscillator struct {
	Phase float64 `proc:"state,phase"`
	Freq  float64 `proc:"input,freq"`
	Gate  bool    `proc:"input,gate"`
	Out   float64 `proc:"output,out"`
}

// Update advances the phase by one sample. A closed gate outputs silence
// and keeps the phase.
func (o *Oscillator) Update(env processor.Env) error {
	if !o.Gate {
		o.Out = 0
		return nil
	}
	if env.SampleRate <= 0 {
		return fmt.Errorf("oscillator: invalid sample rate %v", env.SampleRate)
	}

	o.Out = math.Sin(2 * math.Pi * o.Phase)
	o.Phase += o.Freq / env.SampleRate
	o.Phase -= math.Floor(o.Phase)
	return nil
}

// NewOscillator returns an oscillator unit starting at freq Hz with its
// gate open. Both values are replaced once their inputs carry samples.
func NewOscillator(freq float64, opts ...unit.Option) (*unit.Unit, error) {
	return unit.FromStruct(&Oscillator{Freq: freq, Gate: true}, opts...)
}
