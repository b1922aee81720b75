package units

import (
	"github.com/cwbudde/algo-proc/proc/note"
	"github.com/cwbudde/algo-proc/proc/signal"
	"github.com/cwbudde/algo-proc/proc/unit"
)

// noteFreq follows the most recent note-on. A note-off only closes the
// gate if it ends the sounding note.
func noteFreq(current *int64, ev signal.Midi, freq *float64, gate *bool, velocity *float64) error {
	switch {
	case ev.IsNoteOn():
		*current = int64(ev.Note())
		*freq = note.Frequency(ev.Note())
		*velocity = float64(ev.Velocity()) / 127
		*gate = true
	case ev.IsNoteOff() && int64(ev.Note()) == *current:
		*gate = false
	}
	return nil
}

// NewNoteFreq returns a unit turning a MIDI stream into the frequency,
// gate and normalized velocity of the sounding note.
func NewNoteFreq(opts ...unit.Option) (*unit.Unit, error) {
	opts = append([]unit.Option{
		unit.State("note"),
		unit.Input("midi"),
		unit.Output("freq"),
		unit.Output("gate"),
		unit.Output("velocity"),
	}, opts...)
	return unit.FromFunc("noteFreq", noteFreq, opts...)
}
