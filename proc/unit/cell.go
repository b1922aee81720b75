package unit

import (
	"fmt"
	"reflect"

	"github.com/cwbudde/algo-proc/proc/signal"
	"github.com/cwbudde/algo-proc/proc/zip"
)

// binder binds channel i of a block and returns the per-index step.
type binder func(b *zip.Builder, i int, s Strategy) func(idx int)

var inputBinders = map[signal.Kind]func(reflect.Value) binder{
	signal.KindBool:  inputBinder[bool],
	signal.KindFloat: inputBinder[float64],
	signal.KindInt:   inputBinder[int64],
	signal.KindMidi:  inputBinder[signal.Midi],
}

var outputBinders = map[signal.Kind]func(reflect.Value) binder{
	signal.KindBool:  outputBinder[bool],
	signal.KindFloat: outputBinder[float64],
	signal.KindInt:   outputBinder[int64],
	signal.KindMidi:  outputBinder[signal.Midi],
}

// inputBinder latches present samples into the field behind ptr.
func inputBinder[T signal.Sample](ptr reflect.Value) binder {
	set := store[T](ptr)
	return func(b *zip.Builder, i int, s Strategy) func(int) {
		h := zip.In[T](b, i)
		if !h.Connected() {
			return func(int) {}
		}
		if s == PerSample {
			return func(int) {
				if v, ok := h.Value(); ok {
					set(v)
				}
			}
		}
		samples, present := h.Block().Samples(), h.Block().Present()
		return func(idx int) {
			if present[idx] {
				set(samples[idx])
			}
		}
	}
}

// outputBinder writes the field behind ptr into the output buffer.
func outputBinder[T signal.Sample](ptr reflect.Value) binder {
	get := load[T](ptr)
	return func(b *zip.Builder, i int, s Strategy) func(int) {
		h := zip.Out[T](b, i)
		if s == PerSample {
			return func(int) { h.Set(get()) }
		}
		blk := h.Block()
		if blk == nil {
			return func(int) {}
		}
		return func(idx int) { blk.Set(idx, get()) }
	}
}

// store returns a setter for a held field of canonical type T, converting
// to float32 when the field is declared that way.
func store[T signal.Sample](ptr reflect.Value) func(T) {
	switch p := ptr.Interface().(type) {
	case *T:
		return func(v T) { *p = v }
	case *float32:
		return func(v T) { *p = float32(any(v).(float64)) }
	default:
		panic(fmt.Sprintf("unit: field %v cannot hold %s", ptr.Type().Elem(), signal.KindFor[T]()))
	}
}

// load returns a getter for a held field as canonical type T.
func load[T signal.Sample](ptr reflect.Value) func() T {
	switch p := ptr.Interface().(type) {
	case *T:
		return func() T { return *p }
	case *float32:
		return func() T { return any(float64(*p)).(T) }
	default:
		panic(fmt.Sprintf("unit: field %v cannot hold %s", ptr.Type().Elem(), signal.KindFor[T]()))
	}
}
