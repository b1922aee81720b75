package signal

import (
	"errors"
	"fmt"
)

// Kind identifies the value domain of a channel.
type Kind uint8

const (
	// KindInvalid is the zero Kind. No channel has this kind.
	KindInvalid Kind = iota
	// KindBool is a boolean gate or trigger signal.
	KindBool
	// KindFloat is a floating-point audio or control signal.
	KindFloat
	// KindInt is a 64-bit integer signal.
	KindInt
	// KindMidi is a MIDI event signal.
	KindMidi
)

// ErrTypeMismatch is returned when a buffer or value is accessed as a
// different kind than the one it holds.
var ErrTypeMismatch = errors.New("signal: type mismatch")

// Kinds lists all valid kinds in declaration order.
func Kinds() []Kind {
	return []Kind{KindBool, KindFloat, KindInt, KindMidi}
}

// Valid reports whether k is one of the defined kinds.
func (k Kind) Valid() bool {
	return k >= KindBool && k <= KindMidi
}

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindFloat:
		return "float"
	case KindInt:
		return "int"
	case KindMidi:
		return "midi"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Sample is the set of element types a Block can hold. Each kind has
// exactly one element type.
type Sample interface {
	bool | float64 | int64 | Midi
}

// KindFor returns the kind stored by blocks of T.
func KindFor[T Sample]() Kind {
	var zero T
	switch any(zero).(type) {
	case bool:
		return KindBool
	case float64:
		return KindFloat
	case int64:
		return KindInt
	case Midi:
		return KindMidi
	default:
		return KindInvalid
	}
}

func mismatch(want, got Kind) error {
	return fmt.Errorf("%w: want %s, got %s", ErrTypeMismatch, want, got)
}
