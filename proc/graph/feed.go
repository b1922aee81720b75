package graph

import (
	"fmt"
	"sync"

	"github.com/cwbudde/algo-proc/proc/processor"
	"github.com/cwbudde/algo-proc/proc/signal"
	"github.com/cwbudde/algo-proc/proc/zip"
)

// Feed is a source node with one output whose samples are pushed by the
// host. Values queued with Set or Fill are emitted by the next processed
// block; every other index of that block is absent. A value queued past
// the end of that block is carried to the block containing its index.
type Feed struct {
	name string
	kind signal.Kind

	mu      sync.Mutex
	pending map[int]signal.Value
	carry   map[int]signal.Value
	fill    signal.Value
}

var _ processor.Processor = (*Feed)(nil)

// NewFeed returns a Feed emitting samples of kind k on a channel named name.
func NewFeed(name string, k signal.Kind) *Feed {
	return &Feed{
		name:    name,
		kind:    k,
		pending: make(map[int]signal.Value),
		carry:   make(map[int]signal.Value),
	}
}

// Set queues v at index i counted from the start of the next block.
func (f *Feed) Set(i int, v signal.Value) error {
	if v.Kind() != f.kind {
		return fmt.Errorf("%w: feed %s is %s, got %s", signal.ErrTypeMismatch, f.name, f.kind, v.Kind())
	}
	if i < 0 {
		return fmt.Errorf("%w: feed %s index %d", ErrPort, f.name, i)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending[i] = v
	return nil
}

// Fill queues v at every index of the next block. Values queued with Set
// take precedence.
func (f *Feed) Fill(v signal.Value) error {
	if v.Kind() != f.kind {
		return fmt.Errorf("%w: feed %s is %s, got %s", signal.ErrTypeMismatch, f.name, f.kind, v.Kind())
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.fill = v
	return nil
}

func (f *Feed) Name() string { return "feed" }

func (f *Feed) InputSpec() []processor.SignalSpec { return nil }

func (f *Feed) OutputSpec() []processor.SignalSpec {
	return []processor.SignalSpec{processor.NewSignalSpec(f.name, f.kind)}
}

func (f *Feed) CreateOutputBuffers(size int) []signal.Buffer {
	buf := signal.NewBuffer(f.kind, size)
	buf.ClearAll()
	return []signal.Buffer{buf}
}

func (f *Feed) Process(in processor.Inputs, out processor.Outputs) error {
	if err := processor.Validate(f, in, out); err != nil {
		return err
	}

	b := zip.New(in, out)
	o := zip.OutAny(b, 0)
	it, err := b.Build()
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	for it.Next() {
		v, ok := f.pending[it.Index()]
		if !ok {
			v = f.fill
		}
		if !v.IsValid() {
			o.Clear()
			continue
		}
		if err := o.Set(v); err != nil {
			return processor.Fail(f.Name(), it.Index(), err)
		}
	}

	n := b.Size()
	for i, v := range f.pending {
		delete(f.pending, i)
		if i >= n {
			f.carry[i-n] = v
		}
	}
	f.pending, f.carry = f.carry, f.pending
	f.fill = signal.Value{}
	return it.Err()
}
