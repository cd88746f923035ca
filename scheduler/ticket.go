// Package scheduler turns one draw() call into the batched, ticket-
// ordered parallel work spec.md §4.H describes: partition a draw's
// primitive range into batches, run vertex/setup per batch, then
// serialize each batch's pixel phase against the previous batch's
// while fanning pixel work itself across screen-space clusters.
package scheduler

import "sync"

// Ticket is one FIFO reservation token drawn from a Queue. Wait blocks
// until every lower-numbered ticket has Retired; Retire advances the
// queue so the next waiter can proceed. Per spec.md §3's Ticket queue
// invariant, a draw's tickets are taken and retired in batch order.
type Ticket struct {
	q *Queue
	n uint64
}

// Wait blocks until all tickets numbered below this one have retired.
func (t Ticket) Wait() { t.q.waitFor(t.n) }

// Retire marks this ticket done, unblocking the next ticket's Wait.
func (t Ticket) Retire() { t.q.retire(t.n) }

// Queue is a FIFO of monotonically numbered reservation tokens, shared
// by one Renderer across every draw() call so that two draws touching
// overlapping screen regions retire their pixel writes in submission
// order (spec.md §5's cross-draw ordering guarantee).
type Queue struct {
	mu      sync.Mutex
	cond    *sync.Cond
	next    uint64 // next ticket number Reserve will hand out
	retired uint64 // count of tickets fully retired so far
}

// NewQueue creates an empty ticket queue.
func NewQueue() *Queue {
	q := &Queue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Reserve hands out n consecutive tickets covering one draw's batches.
func (q *Queue) Reserve(n int) []Ticket {
	q.mu.Lock()
	start := q.next
	q.next += uint64(n)
	q.mu.Unlock()

	tickets := make([]Ticket, n)
	for i := range tickets {
		tickets[i] = Ticket{q: q, n: start + uint64(i)}
	}
	return tickets
}

func (q *Queue) waitFor(n uint64) {
	q.mu.Lock()
	for q.retired < n {
		q.cond.Wait()
	}
	q.mu.Unlock()
}

// retire advances the retired count to n+1. Tickets retire in
// increasing order by construction (a batch's Wait blocks until its
// predecessor retires before it can itself retire), so a plain
// assignment is sufficient.
func (q *Queue) retire(n uint64) {
	q.mu.Lock()
	q.retired = n + 1
	q.mu.Unlock()
	q.cond.Broadcast()
}

// Synchronize reserves and immediately waits on one ticket, guaranteeing
// every previously-reserved ticket has retired before it returns — the
// barrier spec.md §4.H's synchronize() needs before e.g. reading back a
// render target.
func (q *Queue) Synchronize() {
	t := q.Reserve(1)[0]
	t.Wait()
	t.Retire()
}
