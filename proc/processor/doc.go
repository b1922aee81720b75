// Package processor defines the contract between processing units and the
// signal-graph engine that drives them.
//
// An engine constructs a unit once, asks it for its channel specs and output
// buffers, optionally calls the Allocate and ResizeBuffers hooks when the
// sample rate or block size changes, and then calls Process once per block.
// Process is never called concurrently on the same unit; distinct units may
// run concurrently and share no mutable state.
//
// Channels are addressed by position only: input i of a unit is
// InputSpec()[i] and Inputs.Buffers[i] on every call.
package processor
