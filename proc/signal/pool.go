package signal

import "sync"

// Pool provides sync.Pool-based Block reuse to reduce GC pressure
// in real-time processing loops.
type Pool[T Sample] struct {
	pool sync.Pool
}

// NewPool returns a Pool ready for use.
func NewPool[T Sample]() *Pool[T] {
	return &Pool[T]{
		pool: sync.Pool{
			New: func() any {
				return NewBlock[T](0)
			},
		},
	}
}

// Get returns a zeroed, fully present Block with the requested length.
// Callers must return it via Put when done.
func (p *Pool[T]) Get(length int) *Block[T] {
	b := p.pool.Get().(*Block[T])
	b.Resize(length)
	b.Reset()
	return b
}

// Put returns a Block to the pool for reuse.
// The caller must not use the block after calling Put.
func (p *Pool[T]) Put(b *Block[T]) {
	if b == nil {
		return
	}
	p.pool.Put(b)
}
