package zip

import (
	"fmt"
	"iter"

	"github.com/cwbudde/algo-proc/proc/processor"
	"github.com/cwbudde/algo-proc/proc/signal"
)

// Iter advances every bound channel in lockstep.
type Iter struct {
	cur   *cursor
	size  int
	limit int
	short error
	err   error
	done  bool

	inputs  []signal.Buffer
	outputs []signal.Buffer
}

func (it *Iter) clamp(buf signal.Buffer, dir string) {
	if buf == nil || buf.Len() >= it.limit {
		return
	}
	it.limit = buf.Len()
	it.short = fmt.Errorf("%w: %s buffer holds %d samples, block is %d",
		processor.ErrLengthMismatch, dir, buf.Len(), it.size)
}

// Next advances to the next index. It returns false once the block, or
// the shortest bound buffer, is exhausted, and on every later call.
func (it *Iter) Next() bool {
	if it.done {
		return false
	}
	if it.cur.i+1 >= it.limit {
		it.done = true
		it.err = it.short
		return false
	}
	it.cur.i++
	return true
}

// Index returns the current sample index; -1 before the first Next.
func (it *Iter) Index() int {
	return it.cur.i
}

// Limit returns the number of indices the iterator yields.
func (it *Iter) Limit() int {
	return it.limit
}

// Err returns the error that stopped iteration early, if any. It is only
// meaningful after Next has returned false.
func (it *Iter) Err() error {
	return it.err
}

// Slot is a type-erased write view of one output at one index.
type Slot struct {
	buf   signal.Buffer
	index int
}

// Kind returns the output kind.
func (s Slot) Kind() signal.Kind {
	return s.buf.Kind()
}

// Set writes v into the slot.
func (s Slot) Set(v signal.Value) error {
	return s.buf.SetValue(s.index, v)
}

// Value returns what the slot currently holds.
func (s Slot) Value() (signal.Value, bool) {
	return s.buf.Value(s.index)
}

// Clear marks the slot absent.
func (s Slot) Clear() {
	s.buf.Clear(s.index)
}

// Tuple is the type-erased content of every bound channel at one index,
// in binding order.
type Tuple struct {
	Index   int
	Inputs  []signal.Value
	Outputs []Slot
}

// Tuple returns the tuple at the current index.
func (it *Iter) Tuple() Tuple {
	i := it.cur.i
	t := Tuple{
		Index:   i,
		Inputs:  make([]signal.Value, len(it.inputs)),
		Outputs: make([]Slot, len(it.outputs)),
	}
	for k, buf := range it.inputs {
		if buf != nil {
			t.Inputs[k], _ = buf.Value(i)
		}
	}
	for k, buf := range it.outputs {
		t.Outputs[k] = Slot{buf: buf, index: i}
	}
	return t
}

// All returns the remaining tuples as a sequence. Check Err after ranging.
func (it *Iter) All() iter.Seq[Tuple] {
	return func(yield func(Tuple) bool) {
		for it.Next() {
			if !yield(it.Tuple()) {
				return
			}
		}
	}
}
