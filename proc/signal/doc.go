// Package signal defines the value domain of processing-unit channels: the
// closed set of signal kinds, the dynamically typed Value, and the Buffer
// abstraction the engine hands to units on every block.
//
// A buffer tracks presence per sample index. An absent index carries no
// value for that sample; consumers hold their previous value instead of
// reading zero. Block is the concrete generic buffer and offers both
// whole-slice access (Samples, Present) and checked per-index access.
package signal
