package zip

import "github.com/cwbudde/algo-proc/proc/signal"

// Input is a checked view of one input channel.
type Input[T signal.Sample] struct {
	cur   *cursor
	block *signal.Block[T]
}

// Value returns the sample at the current index and whether it is present.
func (h *Input[T]) Value() (T, bool) {
	return h.block.At(h.cur.i)
}

// At returns the sample at index i.
func (h *Input[T]) At(i int) (T, bool) {
	return h.block.At(i)
}

// Block returns the whole-block view, or nil if the input is unconnected.
func (h *Input[T]) Block() *signal.Block[T] {
	return h.block
}

// Connected reports whether a buffer is bound.
func (h *Input[T]) Connected() bool {
	return h.block != nil
}

// AnyInput is a type-erased view of one input channel.
type AnyInput struct {
	cur *cursor
	buf signal.Buffer
}

// Value returns the sample at the current index, or the absent Value.
func (h *AnyInput) Value() signal.Value {
	if h.buf == nil {
		return signal.Value{}
	}
	v, _ := h.buf.Value(h.cur.i)
	return v
}

// Kind returns the runtime kind of the bound buffer, or KindInvalid if
// the input is unconnected.
func (h *AnyInput) Kind() signal.Kind {
	if h.buf == nil {
		return signal.KindInvalid
	}
	return h.buf.Kind()
}

// Connected reports whether a buffer is bound.
func (h *AnyInput) Connected() bool {
	return h.buf != nil
}

// Output is a checked, exclusive view of one output channel.
type Output[T signal.Sample] struct {
	cur   *cursor
	block *signal.Block[T]
}

// Set writes v at the current index.
func (h *Output[T]) Set(v T) {
	h.block.Set(h.cur.i, v)
}

// Clear marks the current index absent.
func (h *Output[T]) Clear() {
	h.block.Clear(h.cur.i)
}

// Block returns the whole-block view.
func (h *Output[T]) Block() *signal.Block[T] {
	return h.block
}

// AnyOutput is a type-erased, exclusive view of one output channel.
type AnyOutput struct {
	cur *cursor
	buf signal.Buffer
}

// Set writes v at the current index. It fails with signal.ErrTypeMismatch
// if v is of another kind than the buffer.
func (h *AnyOutput) Set(v signal.Value) error {
	return h.buf.SetValue(h.cur.i, v)
}

// Clear marks the current index absent.
func (h *AnyOutput) Clear() {
	h.buf.Clear(h.cur.i)
}

// Kind returns the kind of the bound buffer.
func (h *AnyOutput) Kind() signal.Kind {
	return h.buf.Kind()
}
