// Package note parses note names such as C4, C#4 and Bb3 into MIDI note
// numbers.
package note

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalid is returned for malformed names and notes outside 0..127.
var ErrInvalid = errors.New("note: invalid note")

var steps = map[byte]int{
	'C': 0,
	'D': 2,
	'E': 4,
	'F': 5,
	'G': 7,
	'A': 9,
	'B': 11,
}

// Parse returns the MIDI note number of name. The letter is followed by
// any number of # (up) or b (down) accidentals and an optional octave from
// -1 to 9; C4 is 60. Without an octave the note lies in octave -1. Case is
// ignored.
func Parse(name string) (uint8, error) {
	s := strings.ToUpper(strings.TrimSpace(name))
	if s == "" {
		return 0, fmt.Errorf("%w: empty name", ErrInvalid)
	}

	n, ok := steps[s[0]]
	if !ok {
		return 0, fmt.Errorf("%w: %q has no note letter", ErrInvalid, name)
	}

	i := 1
	for ; i < len(s); i++ {
		switch s[i] {
		case '#':
			n++
			continue
		case 'B':
			n--
			continue
		}
		break
	}

	octave := 0
	switch rest := s[i:]; {
	case rest == "":
	case rest == "-1":
		octave = 0
	case len(rest) == 1 && rest[0] >= '0' && rest[0] <= '9':
		octave = int(rest[0]-'0') + 1
	default:
		return 0, fmt.Errorf("%w: %q has bad octave %q", ErrInvalid, name, rest)
	}

	n += octave * 12
	if n < 0 || n > 127 {
		return 0, fmt.Errorf("%w: %q is outside 0..127", ErrInvalid, name)
	}
	return uint8(n), nil
}

// ParseList parses whitespace-separated note names.
func ParseList(names string) ([]uint8, error) {
	fields := strings.Fields(names)
	out := make([]uint8, 0, len(fields))
	for _, f := range fields {
		n, err := Parse(f)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// MustParse is like Parse but panics on error.
func MustParse(name string) uint8 {
	n, err := Parse(name)
	if err != nil {
		panic(err)
	}
	return n
}

// Frequency returns the equal-tempered frequency of note n in Hz with
// A4 (69) at 440 Hz.
func Frequency(n uint8) float64 {
	return 440 * math.Exp2((float64(n)-69)/12)
}
