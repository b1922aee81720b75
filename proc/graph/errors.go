package graph

import "errors"

var (
	// ErrUnknownNode is returned when a port names a node that is not in
	// the graph.
	ErrUnknownNode = errors.New("graph: unknown node")
	// ErrDuplicateNode is returned when a node ID is already taken.
	ErrDuplicateNode = errors.New("graph: duplicate node")
	// ErrPort is returned when a port index is out of range.
	ErrPort = errors.New("graph: no such port")
	// ErrFanIn is returned when a second connection targets a non-float
	// input.
	ErrFanIn = errors.New("graph: input accepts one connection")
	// ErrCycle is returned when a connection would close a cycle.
	ErrCycle = errors.New("graph: cycle")
	// ErrUnknownType is returned when a description references an
	// unregistered node type.
	ErrUnknownType = errors.New("graph: unknown node type")
)
