package processor

import (
	"fmt"

	"github.com/cwbudde/algo-proc/proc/signal"
)

// stubProcessor reports fixed specs and records Process calls.
type stubProcessor struct {
	in, out      []SignalSpec
	processCalls int
	allocCalls   int
}

func (s *stubProcessor) Name() string             { return "stub" }
func (s *stubProcessor) InputSpec() []SignalSpec  { return s.in }
func (s *stubProcessor) OutputSpec() []SignalSpec { return s.out }

func (s *stubProcessor) CreateOutputBuffers(size int) []signal.Buffer {
	bufs := make([]signal.Buffer, len(s.out))
	for i, spec := range s.out {
		bufs[i] = signal.NewBuffer(spec.Kind, size)
	}
	return bufs
}

func (s *stubProcessor) Process(Inputs, Outputs) error {
	s.processCalls++
	return nil
}

func (s *stubProcessor) Allocate(float64, int) {
	s.allocCalls++
}

// recordingGraph records wiring calls.
type recordingGraph struct {
	nodes      []Processor
	edges      [][2]Port
	connectErr error
}

func (g *recordingGraph) AddNode(p Processor) (NodeID, error) {
	g.nodes = append(g.nodes, p)
	return NodeID(fmt.Sprintf("n%d", len(g.nodes))), nil
}

func (g *recordingGraph) Connect(from, to Port) error {
	if g.connectErr != nil {
		return g.connectErr
	}
	g.edges = append(g.edges, [2]Port{from, to})
	return nil
}
