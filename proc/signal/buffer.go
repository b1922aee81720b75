package signal

import "fmt"

// Buffer is a type-erased block of samples of a single kind with
// per-index presence. Engines pass buffers to units without knowing their
// element type; units recover the typed Block with As.
type Buffer interface {
	Kind() Kind
	Len() int
	// Has reports whether index i holds a sample.
	Has(i int) bool
	// Value returns the sample at i, or the absent Value and false.
	Value(i int) (Value, bool)
	// SetValue stores v at i and marks it present. It fails with
	// ErrTypeMismatch if v is of another kind.
	SetValue(i int, v Value) error
	// Clear marks i absent and zeroes its sample.
	Clear(i int)
	// ClearAll marks every index absent.
	ClearAll()
	// Reset zeroes every sample and marks every index present.
	Reset()
	// Resize sets the length to n. New indices are zero and present.
	Resize(n int)
}

// Block is the generic Buffer implementation.
type Block[T Sample] struct {
	samples []T
	present []bool
}

var (
	_ Buffer = (*Block[bool])(nil)
	_ Buffer = (*Block[float64])(nil)
	_ Buffer = (*Block[int64])(nil)
	_ Buffer = (*Block[Midi])(nil)
)

// NewBlock returns a zero-filled block of length n with every index present.
func NewBlock[T Sample](n int) *Block[T] {
	if n < 0 {
		n = 0
	}
	b := &Block[T]{samples: make([]T, n), present: make([]bool, n)}
	for i := range b.present {
		b.present[i] = true
	}
	return b
}

// NewSparseBlock returns a zero-filled block of length n with every index
// absent.
func NewSparseBlock[T Sample](n int) *Block[T] {
	if n < 0 {
		n = 0
	}
	return &Block[T]{samples: make([]T, n), present: make([]bool, n)}
}

// FromSlice wraps s without copying. Every index is present.
// Mutations to s are visible through the Block and vice versa.
func FromSlice[T Sample](s []T) *Block[T] {
	present := make([]bool, len(s))
	for i := range present {
		present[i] = true
	}
	return &Block[T]{samples: s, present: present}
}

// NewBuffer returns a zero-filled, fully present block of kind k.
// It panics if k is not a valid kind.
func NewBuffer(k Kind, n int) Buffer {
	switch k {
	case KindBool:
		return NewBlock[bool](n)
	case KindFloat:
		return NewBlock[float64](n)
	case KindInt:
		return NewBlock[int64](n)
	case KindMidi:
		return NewBlock[Midi](n)
	default:
		panic(fmt.Sprintf("signal: no buffer for %s", k))
	}
}

// As returns buf as a *Block[T]. A nil buf yields a nil block and no error,
// so unconnected channels pass through unchanged.
func As[T Sample](buf Buffer) (*Block[T], error) {
	if buf == nil {
		return nil, nil
	}
	want := KindFor[T]()
	if got := buf.Kind(); got != want {
		return nil, mismatch(want, got)
	}
	b, ok := buf.(*Block[T])
	if !ok {
		return nil, fmt.Errorf("%w: %T is not a %s block", ErrTypeMismatch, buf, want)
	}
	return b, nil
}

// Kind returns the kind of T.
func (b *Block[T]) Kind() Kind {
	return KindFor[T]()
}

// Len returns the number of samples. A nil block has length 0.
func (b *Block[T]) Len() int {
	if b == nil {
		return 0
	}
	return len(b.samples)
}

// Has reports whether index i holds a sample. It is safe on a nil block.
func (b *Block[T]) Has(i int) bool {
	return b != nil && i >= 0 && i < len(b.samples) && b.present[i]
}

// At returns the sample at i and whether it is present. It is safe on a
// nil block and out-of-range indices.
func (b *Block[T]) At(i int) (T, bool) {
	if !b.Has(i) {
		var zero T
		return zero, false
	}
	return b.samples[i], true
}

// Set stores v at i and marks it present.
func (b *Block[T]) Set(i int, v T) {
	b.samples[i] = v
	b.present[i] = true
}

// Samples returns the underlying sample slice. Absent indices hold zero.
func (b *Block[T]) Samples() []T {
	if b == nil {
		return nil
	}
	return b.samples
}

// Present returns the underlying presence slice.
func (b *Block[T]) Present() []bool {
	if b == nil {
		return nil
	}
	return b.present
}

// Fill sets every sample to v and marks it present.
func (b *Block[T]) Fill(v T) {
	for i := range b.samples {
		b.samples[i] = v
		b.present[i] = true
	}
}

func (b *Block[T]) Value(i int) (Value, bool) {
	v, ok := b.At(i)
	if !ok {
		return Value{}, false
	}
	return ValueOf(v), true
}

func (b *Block[T]) SetValue(i int, v Value) error {
	x, err := ValueAs[T](v)
	if err != nil {
		return err
	}
	b.Set(i, x)
	return nil
}

func (b *Block[T]) Clear(i int) {
	var zero T
	b.samples[i] = zero
	b.present[i] = false
}

func (b *Block[T]) ClearAll() {
	var zero T
	for i := range b.samples {
		b.samples[i] = zero
		b.present[i] = false
	}
}

func (b *Block[T]) Reset() {
	var zero T
	for i := range b.samples {
		b.samples[i] = zero
		b.present[i] = true
	}
}

// Resize sets the length to n, reusing existing capacity when possible.
// New indices are zeroed and marked present.
func (b *Block[T]) Resize(n int) {
	if n < 0 {
		n = 0
	}
	oldLen := len(b.samples)
	if n <= cap(b.samples) && n <= cap(b.present) {
		b.samples = b.samples[:n]
		b.present = b.present[:n]
	} else {
		s := make([]T, n)
		p := make([]bool, n)
		copy(s, b.samples)
		copy(p, b.present)
		b.samples = s
		b.present = p
	}
	// Zero any newly exposed elements that may have stale data from
	// previous use of the backing arrays.
	var zero T
	for i := oldLen; i < n; i++ {
		b.samples[i] = zero
		b.present[i] = true
	}
}

// Copy returns a deep copy of the block.
func (b *Block[T]) Copy() *Block[T] {
	s := make([]T, len(b.samples))
	p := make([]bool, len(b.present))
	copy(s, b.samples)
	copy(p, b.present)
	return &Block[T]{samples: s, present: p}
}
