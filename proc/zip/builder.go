package zip

import (
	"fmt"

	"github.com/cwbudde/algo-proc/proc/processor"
	"github.com/cwbudde/algo-proc/proc/signal"
)

// cursor is the sample index shared by an Iter and its handles.
type cursor struct {
	i int
}

// Builder collects channel bindings for one block.
type Builder struct {
	in   processor.Inputs
	out  processor.Outputs
	size int
	cur  *cursor

	inputs  []signal.Buffer
	outputs []signal.Buffer
	outIdx  []int

	err   error
	built bool
}

// New returns a Builder over the given views. The block size is
// in.Env.BlockSize.
func New(in processor.Inputs, out processor.Outputs) *Builder {
	size := in.BlockSize()
	if size < 0 {
		size = 0
	}
	return &Builder{in: in, out: out, size: size, cur: &cursor{i: -1}}
}

// Size returns the block size.
func (b *Builder) Size() int {
	return b.size
}

func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

func (b *Builder) input(i int) (signal.Buffer, bool) {
	if i < 0 || i >= b.in.Len() {
		b.fail(fmt.Errorf("%w: input %d of %d", ErrChannel, i, b.in.Len()))
		return nil, false
	}
	return b.in.Buffers[i], true
}

func (b *Builder) output(i int) (signal.Buffer, bool) {
	if i < 0 || i >= b.out.Len() {
		b.fail(fmt.Errorf("%w: output %d of %d", ErrChannel, i, b.out.Len()))
		return nil, false
	}
	buf := b.out.Buffers[i]
	if buf == nil {
		b.fail(fmt.Errorf("%w: output %d has no buffer", ErrChannel, i))
		return nil, false
	}
	return buf, true
}

// checkSpec verifies the declared kind of an unconnected input.
func (b *Builder) checkSpec(specs []processor.SignalSpec, i int, want signal.Kind, dir string) bool {
	if i >= len(specs) || specs[i].Kind == want {
		return true
	}
	b.fail(fmt.Errorf("%w: %s %d (%s) is %s, bound as %s",
		signal.ErrTypeMismatch, dir, i, specs[i].Name, specs[i].Kind, want))
	return false
}

// In binds input channel i with element type T. An unconnected input
// yields a handle that is absent at every index.
func In[T signal.Sample](b *Builder, i int) *Input[T] {
	h := &Input[T]{cur: b.cur}
	buf, ok := b.input(i)
	if !ok {
		return h
	}
	if buf == nil {
		b.checkSpec(b.in.Specs, i, signal.KindFor[T](), "input")
		b.inputs = append(b.inputs, nil)
		return h
	}
	blk, err := signal.As[T](buf)
	if err != nil {
		b.fail(fmt.Errorf("input %d: %w", i, err))
		return h
	}
	h.block = blk
	b.inputs = append(b.inputs, buf)
	return h
}

// InAny binds input channel i without a type check.
func InAny(b *Builder, i int) *AnyInput {
	h := &AnyInput{cur: b.cur}
	buf, ok := b.input(i)
	if !ok {
		return h
	}
	h.buf = buf
	b.inputs = append(b.inputs, buf)
	return h
}

// Out binds output channel i with element type T. The handle is the only
// view of that buffer for the lifetime of the Iter.
func Out[T signal.Sample](b *Builder, i int) *Output[T] {
	h := &Output[T]{cur: b.cur}
	buf, ok := b.output(i)
	if !ok {
		return h
	}
	blk, err := signal.As[T](buf)
	if err != nil {
		b.fail(fmt.Errorf("output %d: %w", i, err))
		return h
	}
	h.block = blk
	b.bindOutput(i, buf)
	return h
}

// OutAny binds output channel i without a type check. Writes of another
// kind fail at Set.
func OutAny(b *Builder, i int) *AnyOutput {
	h := &AnyOutput{cur: b.cur}
	buf, ok := b.output(i)
	if !ok {
		return h
	}
	h.buf = buf
	b.bindOutput(i, buf)
	return h
}

func (b *Builder) bindOutput(i int, buf signal.Buffer) {
	b.outputs = append(b.outputs, buf)
	b.outIdx = append(b.outIdx, i)
}

// Build validates the bindings and returns the iterator. It reports the
// first binding error. A Builder can be built once.
func (b *Builder) Build() (*Iter, error) {
	if b.built {
		return nil, ErrRebuilt
	}
	b.built = true

	if b.err != nil {
		return nil, b.err
	}

	for j, buf := range b.outputs {
		for k := range j {
			if b.outputs[k] == buf {
				return nil, fmt.Errorf("%w: outputs %d and %d", ErrAliasedOutput, b.outIdx[k], b.outIdx[j])
			}
		}
	}

	it := &Iter{
		cur:     b.cur,
		size:    b.size,
		limit:   b.size,
		inputs:  b.inputs,
		outputs: b.outputs,
	}

	for _, buf := range b.inputs {
		it.clamp(buf, "input")
	}
	for _, buf := range b.outputs {
		it.clamp(buf, "output")
	}

	return it, nil
}
