// Package task implements coroutine.Runtime with one goroutine per
// coroutine that, unlike coroutine/fiber's, is not pinned to an OS
// thread. Goroutines are not pooled or reused — Go offers no way to
// pause a function mid-stack onto a borrowed worker — but a semaphore
// gates how many coroutine bodies may be actively executing between
// resumes, so a large number of short-lived coroutines does not mean a
// large number of simultaneously runnable goroutines all at once.
package task

import (
	"sync"

	"github.com/gogpu/swr/coroutine"
)

// Runtime is the pool-backed coroutine.Runtime.
type Runtime struct {
	sem chan struct{}
}

// New returns a task Runtime that allows at most concurrency
// coroutines to be actively stepping at once; additional Resume calls
// block until a slot frees up. concurrency <= 0 means unbounded.
func New(concurrency int) *Runtime {
	r := &Runtime{}
	if concurrency > 0 {
		r.sem = make(chan struct{}, concurrency)
	}
	return r
}

func (r *Runtime) acquire() {
	if r.sem != nil {
		r.sem <- struct{}{}
	}
}

func (r *Runtime) release() {
	if r.sem != nil {
		<-r.sem
	}
}

func (r *Runtime) New(body coroutine.Body) coroutine.Handle {
	h := &handle{
		rt:    r,
		stepC: make(chan struct{}),
		replyC: make(chan yielded),
	}
	go h.run(body)
	return h
}

type yielded struct {
	value any
	done  bool
}

type handle struct {
	rt     *Runtime
	stepC  chan struct{}
	replyC chan yielded
	once   sync.Once
	done   bool
}

func (h *handle) run(body coroutine.Body) {
	<-h.stepC
	h.rt.acquire()
	body(func(v any) {
		h.rt.release()
		h.replyC <- yielded{value: v}
		<-h.stepC
		h.rt.acquire()
	})
	h.rt.release()
	h.replyC <- yielded{done: true}
}

func (h *handle) Resume() (any, bool) {
	if h.done {
		return nil, false
	}
	h.stepC <- struct{}{}
	y := <-h.replyC
	if y.done {
		h.done = true
		return nil, false
	}
	return y.value, true
}

func (h *handle) IsDone() bool { return h.done }

// Stop marks the coroutine abandoned. Unlike fiber, a task coroutine
// parked between resumes holds no OS thread, only a blocked goroutine
// waiting on stepC; that goroutine leaks until the process exits if
// Resume is never called again. Callers that Stop a coroutine early
// should expect this and prefer draining it to IsDone when possible.
func (h *handle) Stop() {
	h.once.Do(func() {
		h.done = true
	})
}
