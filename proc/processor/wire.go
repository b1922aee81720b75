package processor

import "fmt"

// NodeID identifies a node inside a Graph.
type NodeID string

// Port addresses one channel of a node: an output when used as a Source,
// an input when used as a connection target.
type Port struct {
	Node  NodeID
	Index int
}

// OutputPort implements Source.
func (p Port) OutputPort() Port {
	return p
}

func (p Port) String() string {
	return fmt.Sprintf("%s[%d]", p.Node, p.Index)
}

// Source is anything that can feed a node input.
type Source interface {
	OutputPort() Port
}

// Graph is the engine surface used for wiring.
type Graph interface {
	AddNode(p Processor) (NodeID, error)
	// Connect feeds input to.Index of node to.Node from output from.Index of
	// node from.Node.
	Connect(from, to Port) error
}

// Wire inserts p into g and connects sources[i] to input i. A nil source
// leaves its input unconnected: the channel stays absent on every block and
// the unit keeps its held value. Nothing is processed at wiring time.
func Wire(g Graph, p Processor, sources ...Source) (NodeID, error) {
	inputs := p.InputSpec()
	if len(sources) > len(inputs) {
		return "", fmt.Errorf("%w: %s has %d inputs, got %d sources", ErrChannelCount, p.Name(), len(inputs), len(sources))
	}

	id, err := g.AddNode(p)
	if err != nil {
		return "", fmt.Errorf("add %s: %w", p.Name(), err)
	}

	for i, src := range sources {
		if isNilSource(src) {
			continue
		}
		err := g.Connect(src.OutputPort(), Port{Node: id, Index: i})
		if err != nil {
			return id, fmt.Errorf("connect %s input %q: %w", p.Name(), inputs[i].Name, err)
		}
	}

	return id, nil
}

func isNilSource(src Source) bool {
	if src == nil {
		return true
	}
	p, ok := src.(*Port)
	return ok && p == nil
}
