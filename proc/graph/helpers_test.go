package graph

import (
	"context"
	"testing"

	"github.com/cwbudde/algo-proc/proc/processor"
	"github.com/cwbudde/algo-proc/proc/signal"
	"github.com/cwbudde/algo-proc/proc/unit"
)

func addToCounter(counter *int64, a, b int64, out *int64) error {
	*counter += a + b
	*out = *counter
	return nil
}

func pass(in float64, out *float64) error {
	*out = in
	return nil
}

func newCounter(t *testing.T) *unit.Unit {
	t.Helper()

	u, err := unit.FromFunc("addToCounter", addToCounter,
		unit.State("counter"), unit.Input("a"), unit.Input("b"), unit.Output("out"))
	if err != nil {
		t.Fatalf("FromFunc: %v", err)
	}
	return u
}

func newPass(t *testing.T, opts ...unit.Option) *unit.Unit {
	t.Helper()

	opts = append([]unit.Option{unit.Input("in"), unit.Output("out")}, opts...)
	u, err := unit.FromFunc("pass", pass, opts...)
	if err != nil {
		t.Fatalf("FromFunc: %v", err)
	}
	return u
}

func add(t *testing.T, g *Graph, p processor.Processor) processor.NodeID {
	t.Helper()

	id, err := g.AddNode(p)
	if err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	return id
}

func connect(t *testing.T, g *Graph, from processor.NodeID, to processor.NodeID, input int) {
	t.Helper()

	err := g.Connect(processor.Port{Node: from}, processor.Port{Node: to, Index: input})
	if err != nil {
		t.Fatalf("Connect %s -> %s[%d]: %v", from, to, input, err)
	}
}

func process(t *testing.T, g *Graph) {
	t.Helper()

	if err := g.Process(context.Background()); err != nil {
		t.Fatalf("Process: %v", err)
	}
}

func samples[T signal.Sample](t *testing.T, g *Graph, id processor.NodeID) *signal.Block[T] {
	t.Helper()

	buf, err := g.Output(id, 0)
	if err != nil {
		t.Fatalf("Output: %v", err)
	}
	blk, err := signal.As[T](buf)
	if err != nil {
		t.Fatalf("As: %v", err)
	}
	return blk
}

func equal[T comparable](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
