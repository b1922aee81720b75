package units

import (
	"fmt"

	"github.com/cwbudde/algo-proc/proc/graph"
	"github.com/cwbudde/algo-proc/proc/processor"
	"github.com/cwbudde/algo-proc/proc/signal"
)

// Register adds the stock units to reg:
//
//	feed        params: kind (bool, float, int, midi; default float)
//	notefreq
//	oscillator  params: freq (default 440)
//	gain
//	scale       params: gain (default 1)
//	peak        params: size (default 1024)
func Register(reg *graph.Registry) error {
	factories := map[string]graph.Factory{
		"feed": func(p graph.Params) (processor.Processor, error) {
			k, err := parseKind(p.GetStr("kind", "float"))
			if err != nil {
				return nil, err
			}
			return graph.NewFeed(p.GetStr("name", p.ID), k), nil
		},
		"notefreq": func(graph.Params) (processor.Processor, error) {
			return NewNoteFreq()
		},
		"oscillator": func(p graph.Params) (processor.Processor, error) {
			return NewOscillator(p.GetNum("freq", 440))
		},
		"gain": func(graph.Params) (processor.Processor, error) {
			return NewGain()
		},
		"scale": func(p graph.Params) (processor.Processor, error) {
			return NewScale(p.GetNum("gain", 1))
		},
		"peak": func(p graph.Params) (processor.Processor, error) {
			return NewPeak(int(p.GetNum("size", DefaultPeakSize)))
		},
	}

	for name, f := range factories {
		if err := reg.Register(name, f); err != nil {
			return err
		}
	}
	return nil
}

// NewRegistry returns a registry holding the stock units.
func NewRegistry() *graph.Registry {
	reg := graph.NewRegistry()
	if err := Register(reg); err != nil {
		panic("units: " + err.Error())
	}
	return reg
}

func parseKind(s string) (signal.Kind, error) {
	for _, k := range signal.Kinds() {
		if k.String() == s {
			return k, nil
		}
	}
	return signal.KindInvalid, fmt.Errorf("units: unknown signal kind %q", s)
}
