package define

import (
	"go/token"
	"reflect"
)

// Param is one declared parameter (function variant) or field (struct
// variant) of a definition, as seen by a front end.
type Param struct {
	// Name is the declared identifier. It becomes the channel name.
	Name string
	// Field is the Go identifier of the stored field. Empty means
	// ExportName(Name).
	Field string
	// Tag is the role tag as written; empty if the parameter has none.
	Tag string
	// Role presets the role. RoleNone lets Parse resolve Tag, or detect the
	// environment by type.
	Role Role
	// Type is the canonical element type name with the reference removed.
	Type string
	// RType is the element type, set by the runtime front end only.
	RType reflect.Type
	// Shape is the declared reference shape.
	Shape Shape
	// Wrapped records that one transparent wrapper level was removed.
	Wrapped bool
	Pos     token.Position
}

// TypeParam is a type parameter of a generic definition.
type TypeParam struct {
	Name       string
	Constraint string
}

// Definition is the front-end-neutral description of a unit.
type Definition struct {
	// Name is the source identifier of the function or struct.
	Name       string
	Variant    Variant
	Params     []Param
	TypeParams []TypeParam
	// Results lists the result types of a function definition.
	Results []string
	Pos     token.Position
}
