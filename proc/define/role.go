package define

import "fmt"

// Role classifies one parameter of a unit definition.
type Role uint8

const (
	RoleNone Role = iota
	RoleEnv
	RoleState
	RoleInput
	RoleOutput
)

func (r Role) String() string {
	switch r {
	case RoleEnv:
		return "env"
	case RoleState:
		return "state"
	case RoleInput:
		return "input"
	case RoleOutput:
		return "output"
	default:
		return "none"
	}
}

// ParseRole maps a role tag to its Role.
func ParseRole(tag string) (Role, error) {
	switch tag {
	case "env":
		return RoleEnv, nil
	case "state":
		return RoleState, nil
	case "input":
		return RoleInput, nil
	case "output":
		return RoleOutput, nil
	default:
		return RoleNone, fmt.Errorf("%w %q: only env, state, input and output are supported", ErrUnknownRole, tag)
	}
}

// Shape is the declared reference shape of a parameter.
type Shape uint8

const (
	// ShapeValue is a read-only reference: Go passes the value by copy.
	ShapeValue Shape = iota
	// ShapePointer is a mutable reference.
	ShapePointer
)

func (s Shape) String() string {
	if s == ShapePointer {
		return "pointer"
	}
	return "value"
}

// Variant selects how a definition declares its parameters.
type Variant uint8

const (
	// VariantFunc is a transform function whose parameters carry the roles.
	VariantFunc Variant = iota
	// VariantStruct is a struct whose fields carry the roles and whose
	// Update method is the transform.
	VariantStruct
)

func (v Variant) String() string {
	if v == VariantStruct {
		return "struct"
	}
	return "func"
}
