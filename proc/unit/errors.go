package unit

import "errors"

var (
	// ErrNotFunc is returned when FromFunc is given something other than a
	// non-variadic function.
	ErrNotFunc = errors.New("unit: not a function")
	// ErrNotStruct is returned when FromStruct is given something other
	// than a non-nil pointer to a struct.
	ErrNotStruct = errors.New("unit: not a pointer to a struct")
	// ErrNoUpdate is returned when a struct does not implement Updater.
	ErrNoUpdate = errors.New("unit: struct has no Update method")
	// ErrBindings is returned when role bindings do not match the
	// parameters.
	ErrBindings = errors.New("unit: bindings do not match parameters")
)
