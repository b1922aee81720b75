package signal

import "fmt"

// Value is one dynamically typed sample. The zero Value has KindInvalid and
// stands for an absent sample.
type Value struct {
	kind Kind
	b    bool
	f    float64
	i    int64
	m    Midi
}

// BoolValue returns a KindBool value.
func BoolValue(v bool) Value { return Value{kind: KindBool, b: v} }

// FloatValue returns a KindFloat value.
func FloatValue(v float64) Value { return Value{kind: KindFloat, f: v} }

// IntValue returns a KindInt value.
func IntValue(v int64) Value { return Value{kind: KindInt, i: v} }

// MidiValue returns a KindMidi value.
func MidiValue(v Midi) Value { return Value{kind: KindMidi, m: v} }

// ValueOf wraps a typed sample.
func ValueOf[T Sample](v T) Value {
	switch x := any(v).(type) {
	case bool:
		return BoolValue(x)
	case float64:
		return FloatValue(x)
	case int64:
		return IntValue(x)
	case Midi:
		return MidiValue(x)
	default:
		return Value{}
	}
}

// ValueAs unwraps v as T. It fails with ErrTypeMismatch if v holds another
// kind, including the absent zero Value.
func ValueAs[T Sample](v Value) (T, error) {
	var zero T
	if want := KindFor[T](); v.kind != want {
		return zero, mismatch(want, v.kind)
	}
	var out any
	switch v.kind {
	case KindBool:
		out = v.b
	case KindFloat:
		out = v.f
	case KindInt:
		out = v.i
	case KindMidi:
		out = v.m
	}
	return out.(T), nil
}

// Kind returns the kind of v.
func (v Value) Kind() Kind { return v.kind }

// IsValid reports whether v holds a sample.
func (v Value) IsValid() bool { return v.kind.Valid() }

// Bool returns the boolean payload; false for other kinds.
func (v Value) Bool() bool { return v.b }

// Float returns the float payload; 0 for other kinds.
func (v Value) Float() float64 { return v.f }

// Int returns the integer payload; 0 for other kinds.
func (v Value) Int() int64 { return v.i }

// Midi returns the MIDI payload; the zero message for other kinds.
func (v Value) Midi() Midi { return v.m }

func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return fmt.Sprintf("bool(%t)", v.b)
	case KindFloat:
		return fmt.Sprintf("float(%g)", v.f)
	case KindInt:
		return fmt.Sprintf("int(%d)", v.i)
	case KindMidi:
		return fmt.Sprintf("midi(%02x %02x %02x)", v.m.Status, v.m.Data1, v.m.Data2)
	default:
		return "absent"
	}
}
