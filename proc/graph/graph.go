package graph

import (
	"fmt"
	"slices"
	"sync"

	"github.com/cwbudde/algo-proc/proc/processor"
	"github.com/cwbudde/algo-proc/proc/signal"
	"github.com/go-logr/logr"
	"github.com/rs/xid"
)

type node struct {
	id    processor.NodeID
	proc  processor.Processor
	seq   int
	in    []processor.SignalSpec
	out   []processor.SignalSpec
	srcs  [][]processor.Port
	views []signal.Buffer

	outputs   []signal.Buffer
	allocated bool
}

// Graph owns a set of processing units and the connections between them.
// All methods are safe for concurrent use; Process serializes with
// topology changes.
type Graph struct {
	mu  sync.Mutex
	cfg Config
	log logr.Logger

	nodes  map[processor.NodeID]*node
	seq    int
	levels [][]*node
	dirty  bool
	resize bool
	frame  int64

	pool *signal.Pool[float64]
}

var _ processor.Graph = (*Graph)(nil)

// New creates an empty Graph.
func New(opts ...Option) *Graph {
	cfg := ApplyOptions(opts...)
	return &Graph{
		cfg:   cfg,
		log:   cfg.Logger,
		nodes: make(map[processor.NodeID]*node),
		pool:  signal.NewPool[float64](),
	}
}

// Config returns the current settings.
func (g *Graph) Config() Config {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cfg
}

// AddNode adds p under a fresh ID.
func (g *Graph) AddNode(p processor.Processor) (processor.NodeID, error) {
	return g.AddNodeWithID(processor.NodeID(xid.New().String()), p)
}

// AddNodeWithID adds p under id.
func (g *Graph) AddNodeWithID(id processor.NodeID, p processor.Processor) (processor.NodeID, error) {
	if id == "" {
		return "", fmt.Errorf("%w: empty id", ErrUnknownNode)
	}
	if p == nil {
		return "", fmt.Errorf("graph: nil processor for node %s", id)
	}

	in, out := p.InputSpec(), p.OutputSpec()
	for _, s := range slices.Concat(in, out) {
		if !s.Kind.Valid() {
			return "", fmt.Errorf("graph: %s channel %q has invalid kind", p.Name(), s.Name)
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.nodes[id]; exists {
		return "", fmt.Errorf("%w: %s", ErrDuplicateNode, id)
	}

	g.seq++
	g.nodes[id] = &node{
		id:    id,
		proc:  p,
		seq:   g.seq,
		in:    in,
		out:   out,
		srcs:  make([][]processor.Port, len(in)),
		views: make([]signal.Buffer, len(in)),
	}
	g.dirty = true

	g.log.V(1).Info("node added", "id", string(id), "unit", p.Name(), "inputs", len(in), "outputs", len(out))
	return id, nil
}

// Connect feeds input to.Index of node to.Node from output from.Index of
// node from.Node. The channel kinds must match. Float inputs accept several
// connections and receive their average.
func (g *Graph) Connect(from, to processor.Port) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	src, ok := g.nodes[from.Node]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownNode, from.Node)
	}
	dst, ok := g.nodes[to.Node]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownNode, to.Node)
	}
	if from.Index < 0 || from.Index >= len(src.out) {
		return fmt.Errorf("%w: %s has %d outputs", ErrPort, from, len(src.out))
	}
	if to.Index < 0 || to.Index >= len(dst.in) {
		return fmt.Errorf("%w: %s has %d inputs", ErrPort, to, len(dst.in))
	}

	want, got := dst.in[to.Index].Kind, src.out[from.Index].Kind
	if want != got {
		return fmt.Errorf("%w: %s (%s) -> %s (%s)", signal.ErrTypeMismatch, from, got, to, want)
	}

	existing := dst.srcs[to.Index]
	if slices.Contains(existing, from) {
		return nil
	}
	if len(existing) > 0 && want != signal.KindFloat {
		return fmt.Errorf("%w: %s is %s", ErrFanIn, to, want)
	}
	if from.Node == to.Node || g.reaches(to.Node, from.Node) {
		return fmt.Errorf("%w: %s -> %s", ErrCycle, from, to)
	}

	dst.srcs[to.Index] = append(existing, from)
	g.dirty = true

	g.log.V(1).Info("connected", "from", from.String(), "to", to.String(), "kind", want.String())
	return nil
}

// Disconnect removes every connection into input to.
func (g *Graph) Disconnect(to processor.Port) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	dst, ok := g.nodes[to.Node]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownNode, to.Node)
	}
	if to.Index < 0 || to.Index >= len(dst.in) {
		return fmt.Errorf("%w: %s has %d inputs", ErrPort, to, len(dst.in))
	}
	dst.srcs[to.Index] = nil
	g.dirty = true
	return nil
}

// reaches reports whether a path of connections leads from a to b.
func (g *Graph) reaches(a, b processor.NodeID) bool {
	seen := map[processor.NodeID]bool{}
	stack := []processor.NodeID{a}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if id == b {
			return true
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		for _, n := range g.nodes {
			for _, srcs := range n.srcs {
				for _, p := range srcs {
					if p.Node == id {
						stack = append(stack, n.id)
					}
				}
			}
		}
	}
	return false
}

// compile orders the nodes into topological levels with Kahn's algorithm.
// Nodes within a level have no connections between them.
func (g *Graph) compile() error {
	if !g.dirty {
		return nil
	}

	indegree := make(map[processor.NodeID]int, len(g.nodes))
	outgoing := make(map[processor.NodeID][]processor.NodeID, len(g.nodes))
	for _, n := range g.nodes {
		parents := map[processor.NodeID]bool{}
		for _, srcs := range n.srcs {
			for _, p := range srcs {
				parents[p.Node] = true
			}
		}
		indegree[n.id] = len(parents)
		for p := range parents {
			outgoing[p] = append(outgoing[p], n.id)
		}
	}

	var level []*node
	for _, n := range g.nodes {
		if indegree[n.id] == 0 {
			level = append(level, n)
		}
	}

	var levels [][]*node
	visited := 0
	for len(level) > 0 {
		slices.SortFunc(level, func(a, b *node) int { return a.seq - b.seq })
		levels = append(levels, level)
		visited += len(level)

		var next []*node
		for _, n := range level {
			for _, child := range outgoing[n.id] {
				indegree[child]--
				if indegree[child] == 0 {
					next = append(next, g.nodes[child])
				}
			}
		}
		level = next
	}

	if visited != len(g.nodes) {
		return ErrCycle
	}

	g.levels = levels
	g.dirty = false
	return nil
}

// Order returns the node IDs in processing order.
func (g *Graph) Order() ([]processor.NodeID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.compile(); err != nil {
		return nil, err
	}
	var ids []processor.NodeID
	for _, level := range g.levels {
		for _, n := range level {
			ids = append(ids, n.id)
		}
	}
	return ids, nil
}

// Node returns the processor stored under id.
func (g *Graph) Node(id processor.NodeID) (processor.Processor, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	n, ok := g.nodes[id]
	if !ok {
		return nil, false
	}
	return n.proc, true
}

// Output returns output buffer index of node id as of the last Process.
// The buffer is owned by the graph and overwritten by the next block.
func (g *Graph) Output(id processor.NodeID, index int) (signal.Buffer, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}
	if index < 0 || index >= len(n.out) {
		return nil, fmt.Errorf("%w: %s[%d]", ErrPort, id, index)
	}
	if n.outputs == nil {
		return nil, fmt.Errorf("graph: node %s has not been processed", id)
	}
	return n.outputs[index], nil
}

// SetBlockSize changes the block size from the next Process on. Units are
// notified through their ResizeBuffers hook.
func (g *Graph) SetBlockSize(n int) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if n > 0 && n != g.cfg.BlockSize {
		g.cfg.BlockSize = n
		g.resize = true
	}
}

// SetSampleRate changes the sample rate from the next Process on.
func (g *Graph) SetSampleRate(sr float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if sr > 0 && sr != g.cfg.SampleRate {
		g.cfg.SampleRate = sr
		g.resize = true
	}
}

// Frame returns the absolute index of the first sample of the next block.
func (g *Graph) Frame() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.frame
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.nodes)
}
