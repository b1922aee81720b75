package units

import "github.com/cwbudde/algo-proc/proc/unit"

func gain(in, level float64, out *float64) error {
	*out = in * level
	return nil
}

// NewGain returns a unit multiplying its in and level inputs sample by
// sample.
func NewGain(opts ...unit.Option) (*unit.Unit, error) {
	opts = append([]unit.Option{
		unit.Input("in"),
		unit.Input("level"),
		unit.Output("out"),
		unit.WithStrategy(unit.PerSample),
	}, opts...)
	return unit.FromFunc("gain", gain, opts...)
}

// NewScale returns a unit multiplying its input by the constant k.
func NewScale(k float64, opts ...unit.Option) (*unit.Unit, error) {
	scale := func(in float64, out *float64) error {
		*out = in * k
		return nil
	}
	opts = append([]unit.Option{unit.Input("in"), unit.Output("out")}, opts...)
	return unit.FromFunc("scale", scale, opts...)
}
