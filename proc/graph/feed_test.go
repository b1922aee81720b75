package graph

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-proc/proc/processor"
	"github.com/cwbudde/algo-proc/proc/signal"
)

func TestFeedPartialPopulation(t *testing.T) {
	t.Parallel()

	f := NewFeed("gate", signal.KindBool)
	if err := f.Set(1, signal.BoolValue(true)); err != nil {
		t.Fatal(err)
	}
	if err := f.Set(9, signal.BoolValue(true)); err != nil {
		t.Fatal(err)
	}

	out := f.CreateOutputBuffers(3)
	err := f.Process(
		processor.Inputs{Env: processor.Env{BlockSize: 3}},
		processor.Outputs{Specs: f.OutputSpec(), Buffers: out},
	)
	if err != nil {
		t.Fatal(err)
	}

	for i, want := range []bool{false, true, false} {
		if out[0].Has(i) != want {
			t.Fatalf("Has(%d) = %v", i, !want)
		}
	}
}

func TestFeedRejectsWrongKind(t *testing.T) {
	t.Parallel()

	f := NewFeed("x", signal.KindFloat)
	if err := f.Set(0, signal.IntValue(1)); !errors.Is(err, signal.ErrTypeMismatch) {
		t.Fatalf("Set = %v", err)
	}
	if err := f.Fill(signal.BoolValue(true)); !errors.Is(err, signal.ErrTypeMismatch) {
		t.Fatalf("Fill = %v", err)
	}
	if err := f.Set(-1, signal.FloatValue(1)); !errors.Is(err, ErrPort) {
		t.Fatalf("Set(-1) = %v", err)
	}
}

func TestFeedCarriesValuesPastTheBlock(t *testing.T) {
	t.Parallel()

	f := NewFeed("x", signal.KindInt)
	for i, v := range map[int]int64{1: 10, 4: 40, 8: 80} {
		if err := f.Set(i, signal.IntValue(v)); err != nil {
			t.Fatal(err)
		}
	}

	run := func() signal.Buffer {
		t.Helper()
		out := f.CreateOutputBuffers(3)
		err := f.Process(
			processor.Inputs{Env: processor.Env{BlockSize: 3}},
			processor.Outputs{Specs: f.OutputSpec(), Buffers: out},
		)
		if err != nil {
			t.Fatal(err)
		}
		return out[0]
	}

	for block, want := range []map[int]int64{{1: 10}, {1: 40}, {2: 80}, {}} {
		buf := run()
		for i := range 3 {
			v, ok := buf.Value(i)
			w, present := want[i]
			if ok != present || (ok && v.Int() != w) {
				t.Fatalf("block %d index %d = %v, %v; want %d, %v", block, i, v, ok, w, present)
			}
		}
	}
}
