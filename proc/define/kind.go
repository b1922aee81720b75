package define

import (
	"fmt"
	"reflect"

	"github.com/cwbudde/algo-proc/proc/processor"
	"github.com/cwbudde/algo-proc/proc/signal"
)

// Canonical names of the designated types, as written with the default
// package names.
const (
	EnvType  = "processor.Env"
	MidiType = "signal.Midi"
)

var kindsByName = map[string]signal.Kind{
	"bool":    signal.KindBool,
	"float32": signal.KindFloat,
	"float64": signal.KindFloat,
	"int64":   signal.KindInt,
	MidiType:  signal.KindMidi,
}

var kindsByType = map[reflect.Type]signal.Kind{
	reflect.TypeFor[bool]():        signal.KindBool,
	reflect.TypeFor[float32]():     signal.KindFloat,
	reflect.TypeFor[float64]():     signal.KindFloat,
	reflect.TypeFor[int64]():       signal.KindInt,
	reflect.TypeFor[signal.Midi](): signal.KindMidi,
}

var envRType = reflect.TypeFor[processor.Env]()

// KindOf maps a canonical type name to its signal kind.
func KindOf(typeName string) (signal.Kind, error) {
	k, ok := kindsByName[typeName]
	if !ok {
		return signal.KindInvalid, fmt.Errorf("%w: %s", ErrUnmappedType, typeName)
	}
	return k, nil
}

// KindOfType maps an exact Go type to its signal kind. Named types are not
// mapped even if their underlying type is.
func KindOfType(t reflect.Type) (signal.Kind, error) {
	k, ok := kindsByType[t]
	if !ok {
		return signal.KindInvalid, fmt.Errorf("%w: %v", ErrUnmappedType, t)
	}
	return k, nil
}

// ElemType returns the Go element type name of buffers of kind k.
func ElemType(k signal.Kind) string {
	switch k {
	case signal.KindBool:
		return "bool"
	case signal.KindFloat:
		return "float64"
	case signal.KindInt:
		return "int64"
	case signal.KindMidi:
		return MidiType
	default:
		return ""
	}
}

// IsEnvType reports whether t is the environment type.
func IsEnvType(t reflect.Type) bool {
	return t == envRType
}

func (p Param) kind() (signal.Kind, error) {
	if p.RType != nil {
		return KindOfType(p.RType)
	}
	return KindOf(p.Type)
}

func (p Param) isEnv() bool {
	if p.RType != nil {
		return IsEnvType(p.RType)
	}
	return p.Type == EnvType
}
