package signal

// MIDI status nibbles understood by the helpers below.
const (
	StatusNoteOff uint8 = 0x80
	StatusNoteOn  uint8 = 0x90
	StatusCC      uint8 = 0xB0
)

// Midi is a single three-byte MIDI channel message.
type Midi struct {
	Status uint8
	Data1  uint8
	Data2  uint8
}

// NoteOn returns a note-on message on channel ch (0-15).
func NoteOn(ch, note, velocity uint8) Midi {
	return Midi{Status: StatusNoteOn | ch&0x0F, Data1: note & 0x7F, Data2: velocity & 0x7F}
}

// NoteOff returns a note-off message on channel ch (0-15).
func NoteOff(ch, note uint8) Midi {
	return Midi{Status: StatusNoteOff | ch&0x0F, Data1: note & 0x7F}
}

// Channel returns the message channel (0-15).
func (m Midi) Channel() uint8 {
	return m.Status & 0x0F
}

// IsNoteOn reports whether m starts a note. A note-on with zero velocity
// is a note-off by convention.
func (m Midi) IsNoteOn() bool {
	return m.Status&0xF0 == StatusNoteOn && m.Data2 > 0
}

// IsNoteOff reports whether m ends a note.
func (m Midi) IsNoteOff() bool {
	return m.Status&0xF0 == StatusNoteOff || (m.Status&0xF0 == StatusNoteOn && m.Data2 == 0)
}

// Note returns the note number of a note message.
func (m Midi) Note() uint8 {
	return m.Data1
}

// Velocity returns the velocity of a note message.
func (m Midi) Velocity() uint8 {
	return m.Data2
}
