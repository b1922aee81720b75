package processor

import (
	"errors"
	"testing"
)

func TestWire(t *testing.T) {
	t.Parallel()

	t.Run("connects sources positionally", func(t *testing.T) {
		t.Parallel()

		g := &recordingGraph{}
		src := Port{Node: "src", Index: 1}

		id, err := Wire(g, twoInOneOut(), src, Port{Node: "other"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if id != "n1" {
			t.Fatalf("id = %q, want n1", id)
		}
		if len(g.edges) != 2 {
			t.Fatalf("edges = %d, want 2", len(g.edges))
		}
		if g.edges[0][0] != src || g.edges[0][1] != (Port{Node: id, Index: 0}) {
			t.Errorf("edge 0 = %v", g.edges[0])
		}
		if g.edges[1][1].Index != 1 {
			t.Errorf("edge 1 target index = %d, want 1", g.edges[1][1].Index)
		}
	})

	t.Run("nil sources stay unconnected", func(t *testing.T) {
		t.Parallel()

		g := &recordingGraph{}
		var missing *Port

		_, err := Wire(g, twoInOneOut(), nil, missing)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(g.edges) != 0 {
			t.Fatalf("edges = %d, want 0", len(g.edges))
		}
		if len(g.nodes) != 1 {
			t.Fatalf("nodes = %d, want 1", len(g.nodes))
		}
	})

	t.Run("rejects extra sources", func(t *testing.T) {
		t.Parallel()

		g := &recordingGraph{}
		_, err := Wire(g, twoInOneOut(), nil, nil, Port{})
		if !errors.Is(err, ErrChannelCount) {
			t.Fatalf("expected ErrChannelCount, got %v", err)
		}
		if len(g.nodes) != 0 {
			t.Fatal("no node should be added on error")
		}
	})

	t.Run("propagates connect errors", func(t *testing.T) {
		t.Parallel()

		cause := errors.New("kind mismatch")
		g := &recordingGraph{connectErr: cause}
		_, err := Wire(g, twoInOneOut(), Port{Node: "x"})
		if !errors.Is(err, cause) {
			t.Fatalf("expected connect error, got %v", err)
		}
	})

	t.Run("does not process", func(t *testing.T) {
		t.Parallel()

		p := twoInOneOut()
		if _, err := Wire(&recordingGraph{}, p); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.processCalls != 0 {
			t.Fatal("Wire must not call Process")
		}
	})
}
