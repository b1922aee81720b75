// Package testutil provides signal fixtures and assertions shared by the
// package tests.
package testutil

import (
	"math"

	"github.com/cwbudde/algo-proc/proc/signal"
)

// Sine returns a fully present block holding a sine wave that starts at
// phase zero.
func Sine(freqHz, sampleRate, amplitude float64, length int) *signal.Block[float64] {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return signal.FromSlice(out)
}

// DC returns a fully present block holding value at every index.
func DC(value float64, length int) *signal.Block[float64] {
	b := signal.NewBlock[float64](length)
	b.Fill(value)
	return b
}

// Sparse returns a block of the given length that is present only at the
// keys of values.
func Sparse[T signal.Sample](length int, values map[int]T) *signal.Block[T] {
	b := signal.NewSparseBlock[T](length)
	for i, v := range values {
		if i >= 0 && i < length {
			b.Set(i, v)
		}
	}
	return b
}

// Impulse returns a sparse block present only at pos.
func Impulse[T signal.Sample](length, pos int, v T) *signal.Block[T] {
	return Sparse(length, map[int]T{pos: v})
}
