package signal

import (
	"errors"
	"testing"
)

func TestKindFor(t *testing.T) {
	if KindFor[bool]() != KindBool {
		t.Error("bool should map to KindBool")
	}
	if KindFor[float64]() != KindFloat {
		t.Error("float64 should map to KindFloat")
	}
	if KindFor[int64]() != KindInt {
		t.Error("int64 should map to KindInt")
	}
	if KindFor[Midi]() != KindMidi {
		t.Error("Midi should map to KindMidi")
	}
}

func TestKindString(t *testing.T) {
	tests := map[Kind]string{
		KindBool:    "bool",
		KindFloat:   "float",
		KindInt:     "int",
		KindMidi:    "midi",
		KindInvalid: "kind(0)",
	}
	for k, want := range tests {
		if got := k.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", k, got, want)
		}
	}
}

func TestValueRoundTrip(t *testing.T) {
	m := NoteOn(0, 60, 100)

	v := ValueOf(m)
	if v.Kind() != KindMidi {
		t.Fatalf("Kind() = %s, want midi", v.Kind())
	}
	got, err := ValueAs[Midi](v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != m {
		t.Fatalf("ValueAs = %+v, want %+v", got, m)
	}
}

func TestValueAsRejectsAbsent(t *testing.T) {
	var v Value
	if v.IsValid() {
		t.Fatal("zero Value should be invalid")
	}
	if _, err := ValueAs[int64](v); !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("expected ErrTypeMismatch, got %v", err)
	}
}

func TestMidiHelpers(t *testing.T) {
	on := NoteOn(3, 64, 90)
	if !on.IsNoteOn() || on.IsNoteOff() {
		t.Fatalf("NoteOn flags wrong: %+v", on)
	}
	if on.Channel() != 3 || on.Note() != 64 || on.Velocity() != 90 {
		t.Fatalf("NoteOn fields wrong: %+v", on)
	}
	if !NoteOff(3, 64).IsNoteOff() {
		t.Fatal("NoteOff should be a note-off")
	}
	if !NoteOn(0, 64, 0).IsNoteOff() {
		t.Fatal("zero-velocity note-on should be a note-off")
	}
}
