package define

import (
	"go/token"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cwbudde/algo-proc/proc/processor"
	"github.com/cwbudde/algo-proc/proc/signal"
)

// Field is a validated parameter.
type Field struct {
	Param
	// Index is the position of the parameter in Definition.Params.
	Index int
	// Kind is the signal kind of inputs and outputs.
	Kind signal.Kind
	// GoName is the stored field identifier.
	GoName string
}

// Unit is a validated definition, ready for emission.
type Unit struct {
	// Name is the exported unit name reported by the processor.
	Name string
	// Source is the identifier of the definition.
	Source  string
	Variant Variant
	// Params holds every parameter in declaration order, including the
	// environment, so front ends can rebuild the call.
	Params []Field
	// EnvIndex is the position of the environment parameter, or -1.
	EnvIndex int
	State    []Field
	Inputs   []Field
	Outputs  []Field
	// TypeParams are the definition's type parameters; Phantom lists those
	// not referenced by any stored field.
	TypeParams   []TypeParam
	Phantom      []TypeParam
	ReturnsError bool
	Pos          token.Position
}

// InputSpec returns the ordered input channel specs. Every call returns a
// fresh slice with identical contents.
func (u *Unit) InputSpec() []processor.SignalSpec {
	return specs(u.Inputs)
}

// OutputSpec returns the ordered output channel specs.
func (u *Unit) OutputSpec() []processor.SignalSpec {
	return specs(u.Outputs)
}

func specs(fields []Field) []processor.SignalSpec {
	out := make([]processor.SignalSpec, len(fields))
	for i, f := range fields {
		out[i] = processor.NewSignalSpec(f.Name, f.Kind)
	}
	return out
}

// Stored returns the state, input and output fields in that order.
func (u *Unit) Stored() []Field {
	out := make([]Field, 0, len(u.State)+len(u.Inputs)+len(u.Outputs))
	out = append(out, u.State...)
	out = append(out, u.Inputs...)
	return append(out, u.Outputs...)
}

// ExportName converts an identifier to an exported Go name:
// addToCounter and add_to_counter both become AddToCounter.
func ExportName(name string) string {
	var b strings.Builder
	for _, part := range strings.Split(name, "_") {
		if part == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(part)
		b.WriteRune(unicode.ToUpper(r))
		b.WriteString(part[size:])
	}
	return b.String()
}

// references reports whether the type expression typ mentions ident.
func references(typ, ident string) bool {
	words := strings.FieldsFunc(typ, func(r rune) bool {
		return !(r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r))
	})
	for _, w := range words {
		if w == ident {
			return true
		}
	}
	return false
}
