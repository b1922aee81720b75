package zip

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-proc/proc/processor"
	"github.com/cwbudde/algo-proc/proc/signal"
)

func views(size int, in []signal.Buffer, out []signal.Buffer) (processor.Inputs, processor.Outputs) {
	return processor.Inputs{Buffers: in, Env: processor.Env{SampleRate: 48000, BlockSize: size}},
		processor.Outputs{Buffers: out}
}

func TestTwoCheckedInputsOneErasedOutput(t *testing.T) {
	a := signal.FromSlice([]float64{0.5, 1, 1.5, 2})
	gate := signal.FromSlice([]bool{true, false, true, false})
	dst := signal.NewBlock[float64](4)

	in, out := views(4, []signal.Buffer{a, gate}, []signal.Buffer{dst})
	b := New(in, out)
	ha := In[float64](b, 0)
	hg := In[bool](b, 1)
	ho := OutAny(b, 0)

	it, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	var indices []int
	for it.Next() {
		indices = append(indices, it.Index())
		x, _ := ha.Value()
		open, _ := hg.Value()
		if !open {
			x = 0
		}
		if err := ho.Set(signal.FloatValue(x)); err != nil {
			t.Fatalf("Set: %v", err)
		}
	}
	if err := it.Err(); err != nil {
		t.Fatalf("Err: %v", err)
	}

	if len(indices) != 4 {
		t.Fatalf("got %d tuples, want 4", len(indices))
	}
	for i, idx := range indices {
		if idx != i {
			t.Fatalf("index %d = %d, want increasing order", i, idx)
		}
	}

	want := []float64{0.5, 0, 1.5, 0}
	for i, w := range want {
		if got := dst.Samples()[i]; got != w {
			t.Errorf("dst[%d] = %v, want %v", i, got, w)
		}
	}

	if it.Next() {
		t.Fatal("iterator must not restart")
	}
}

func TestTuples(t *testing.T) {
	a := signal.NewSparseBlock[int64](3)
	a.Set(1, 7)
	dst := signal.NewBlock[int64](3)

	in, out := views(3, []signal.Buffer{a, nil}, []signal.Buffer{dst})
	b := New(in, out)
	InAny(b, 0)
	InAny(b, 1)
	OutAny(b, 0)

	it, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	n := 0
	for tup := range it.All() {
		if tup.Index != n {
			t.Fatalf("tuple index = %d, want %d", tup.Index, n)
		}
		if len(tup.Inputs) != 2 || len(tup.Outputs) != 1 {
			t.Fatalf("tuple arity = %d+%d, want 2+1", len(tup.Inputs), len(tup.Outputs))
		}
		if tup.Inputs[1].IsValid() {
			t.Fatal("unconnected input must be absent")
		}
		if n == 1 {
			if tup.Inputs[0].Int() != 7 {
				t.Fatalf("input at 1 = %v, want int(7)", tup.Inputs[0])
			}
		} else if tup.Inputs[0].IsValid() {
			t.Fatalf("input at %d should be absent, got %v", n, tup.Inputs[0])
		}
		if err := tup.Outputs[0].Set(signal.IntValue(int64(n * 10))); err != nil {
			t.Fatalf("Set: %v", err)
		}
		n++
	}
	if n != 3 {
		t.Fatalf("got %d tuples, want 3", n)
	}
	if got := dst.Samples(); got[2] != 20 {
		t.Fatalf("dst = %v", got)
	}
}

func TestCheckedTypeMismatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		bind func(*Builder)
	}{
		{"input", func(b *Builder) { In[bool](b, 0) }},
		{"output", func(b *Builder) { Out[int64](b, 0) }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			in, out := views(2,
				[]signal.Buffer{signal.NewBlock[float64](2)},
				[]signal.Buffer{signal.NewBlock[float64](2)})
			b := New(in, out)
			tc.bind(b)

			if _, err := b.Build(); !errors.Is(err, signal.ErrTypeMismatch) {
				t.Fatalf("expected ErrTypeMismatch, got %v", err)
			}
		})
	}
}

func TestUnconnectedInputChecksSpec(t *testing.T) {
	in, out := views(2, []signal.Buffer{nil}, nil)
	in.Specs = []processor.SignalSpec{processor.NewSignalSpec("x", signal.KindInt)}

	b := New(in, out)
	h := In[float64](b, 0)
	if h.Connected() {
		t.Fatal("nil buffer must be unconnected")
	}
	if _, err := b.Build(); !errors.Is(err, signal.ErrTypeMismatch) {
		t.Fatalf("expected ErrTypeMismatch, got %v", err)
	}
}

func TestErasedOutputRejectsOtherKind(t *testing.T) {
	dst := signal.NewBlock[bool](1)
	in, out := views(1, nil, []signal.Buffer{dst})

	b := New(in, out)
	h := OutAny(b, 0)
	it, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	it.Next()
	if err := h.Set(signal.FloatValue(1)); !errors.Is(err, signal.ErrTypeMismatch) {
		t.Fatalf("expected ErrTypeMismatch, got %v", err)
	}
}

func TestLengthMismatch(t *testing.T) {
	a := signal.FromSlice([]float64{1, 2})
	dst := signal.NewBlock[float64](4)

	in, out := views(4, []signal.Buffer{a}, []signal.Buffer{dst})
	b := New(in, out)
	ha := In[float64](b, 0)
	ho := Out[float64](b, 0)

	it, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if it.Limit() != 2 {
		t.Fatalf("Limit = %d, want 2", it.Limit())
	}

	n := 0
	for it.Next() {
		v, _ := ha.Value()
		ho.Set(v)
		n++
	}
	if n != 2 {
		t.Fatalf("yielded %d indices, want 2", n)
	}
	if !errors.Is(it.Err(), processor.ErrLengthMismatch) {
		t.Fatalf("expected ErrLengthMismatch, got %v", it.Err())
	}
}

func TestBindingErrors(t *testing.T) {
	t.Parallel()

	shared := signal.NewBlock[float64](2)

	tests := []struct {
		name string
		out  []signal.Buffer
		bind func(*Builder)
		want error
	}{
		{
			name: "input out of range",
			bind: func(b *Builder) { In[float64](b, 3) },
			want: ErrChannel,
		},
		{
			name: "negative output",
			out:  []signal.Buffer{shared},
			bind: func(b *Builder) { OutAny(b, -1) },
			want: ErrChannel,
		},
		{
			name: "nil output",
			out:  []signal.Buffer{nil},
			bind: func(b *Builder) { Out[float64](b, 0) },
			want: ErrChannel,
		},
		{
			name: "same channel twice",
			out:  []signal.Buffer{signal.NewBlock[float64](2)},
			bind: func(b *Builder) {
				Out[float64](b, 0)
				OutAny(b, 0)
			},
			want: ErrAliasedOutput,
		},
		{
			name: "shared buffer",
			out:  []signal.Buffer{shared, shared},
			bind: func(b *Builder) {
				Out[float64](b, 0)
				Out[float64](b, 1)
			},
			want: ErrAliasedOutput,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			in, out := views(2, []signal.Buffer{signal.NewBlock[float64](2)}, tc.out)
			b := New(in, out)
			tc.bind(b)

			it, err := b.Build()
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if it != nil {
				t.Fatal("no iterator may be returned on error")
			}
		})
	}
}

func TestBuildTwice(t *testing.T) {
	in, out := views(1, nil, nil)
	b := New(in, out)
	if _, err := b.Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, err := b.Build(); !errors.Is(err, ErrRebuilt) {
		t.Fatalf("expected ErrRebuilt, got %v", err)
	}
}

func TestZeroChannels(t *testing.T) {
	in, out := views(5, nil, nil)
	it, err := New(in, out).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	n := 0
	for it.Next() {
		n++
	}
	if n != 5 {
		t.Fatalf("yielded %d indices, want 5", n)
	}
}

func TestAccumulateView(t *testing.T) {
	a := signal.FromSlice([]int64{3, 4})
	in, out := views(2, []signal.Buffer{a}, nil)

	b := New(in, out)
	h := In[int64](b, 0)
	if got := h.Block().Samples(); len(got) != 2 || got[1] != 4 {
		t.Fatalf("Block() = %v", got)
	}
	if v, ok := h.At(0); !ok || v != 3 {
		t.Fatalf("At(0) = %v, %v", v, ok)
	}
	if _, ok := h.Value(); ok {
		t.Fatal("no value before the first Next")
	}
}
