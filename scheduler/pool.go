package scheduler

import "sync"

// Pool is a free-list of pooled *T values, borrowed and returned by
// reference rather than allocated fresh per draw/batch — the
// dense-index free-list shape of wgpu-core's track/allocator.go,
// generalized from its id-indexed slab to a plain LIFO stack of
// pointers, since DrawCall/BatchData records are reused by reference
// (spec.md §3), not looked up by an external id.
type Pool[T any] struct {
	mu   sync.Mutex
	free []*T
	new  func() *T
}

// NewPool creates a Pool whose Borrow calls newFn on an empty pool.
func NewPool[T any](newFn func() *T) *Pool[T] {
	return &Pool[T]{new: newFn}
}

// Borrow returns a pooled value, allocating a new one if the pool is
// empty.
func (p *Pool[T]) Borrow() *T {
	p.mu.Lock()
	n := len(p.free)
	if n == 0 {
		p.mu.Unlock()
		return p.new()
	}
	v := p.free[n-1]
	p.free = p.free[:n-1]
	p.mu.Unlock()
	return v
}

// Release returns v to the pool for reuse by a future Borrow.
func (p *Pool[T]) Release(v *T) {
	p.mu.Lock()
	p.free = append(p.free, v)
	p.mu.Unlock()
}
