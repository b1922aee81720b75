// Package graph is a small block-based engine for processing units.
//
// A Graph stores processor.Processor nodes and the connections between
// their channels, orders them topologically and runs one block per Process
// call. Nodes of one topological level run concurrently. An input fed by
// several float outputs receives their average; other kinds accept a
// single connection. An unconnected input is passed to its unit as a nil
// buffer, so the unit keeps its held value.
//
// Graphs can be described in JSON and built through a Registry of node
// factories with Load.
package graph
