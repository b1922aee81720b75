// Package units provides stock processing units for the reference graph:
// note tracking, a sine oscillator, gain stages and a spectral peak
// tracker. Register adds them to a graph.Registry under their type names.
package units
