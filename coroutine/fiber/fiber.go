// Package fiber implements coroutine.Runtime by pinning each coroutine
// to its own OS thread for its whole lifetime, the same runtime.LockOSThread
// pattern a GPU API's context-affine render thread would use. Go has no
// stackful-fiber primitive to switch between without assembly, so "fiber"
// here means one dedicated, OS-thread-pinned goroutine per coroutine,
// suspended and resumed over a pair of unbuffered channels rather than a
// context switch — cooperative in effect (only one side runs at a time)
// even though the mechanism is channel handoff, not a stack swap.
package fiber

import (
	"runtime"
	"sync"

	"github.com/gogpu/swr/coroutine"
)

// Runtime is the fiber-backed coroutine.Runtime.
type Runtime struct{}

// New returns a fiber Runtime, suitable for coroutine.SetRuntime.
func New() Runtime { return Runtime{} }

func (Runtime) New(body coroutine.Body) coroutine.Handle {
	h := &handle{
		resumeC: make(chan struct{}),
		yieldC:  make(chan yielded),
		stopC:   make(chan struct{}),
	}
	go h.run(body)
	return h
}

type yielded struct {
	value any
	done  bool
}

type handle struct {
	resumeC chan struct{}
	yieldC  chan yielded
	stopC   chan struct{}
	once    sync.Once
	done    bool
}

func (h *handle) run(body coroutine.Body) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	select {
	case <-h.resumeC: // wait for the first Resume before doing any work
	case <-h.stopC:
		return
	}
	body(func(v any) {
		select {
		case h.yieldC <- yielded{value: v}:
		case <-h.stopC:
			runtime.Goexit()
		}
		select {
		case <-h.resumeC:
		case <-h.stopC:
			runtime.Goexit()
		}
	})
	h.yieldC <- yielded{done: true}
}

func (h *handle) Resume() (any, bool) {
	if h.done {
		return nil, false
	}
	h.resumeC <- struct{}{}
	y := <-h.yieldC
	if y.done {
		h.done = true
		return nil, false
	}
	return y.value, true
}

func (h *handle) IsDone() bool {
	return h.done
}

// Stop abandons the coroutine's goroutine, whether it is parked
// waiting for its first Resume or mid-Yield. Safe to call more than
// once or after natural completion.
func (h *handle) Stop() {
	h.once.Do(func() {
		if !h.done {
			close(h.stopC)
			h.done = true
		}
	})
}
