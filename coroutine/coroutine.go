// Package coroutine abstracts a cooperative generator: a body yields
// values one at a time and the consumer pulls each with Resume instead
// of waiting for the body to return. No stage or scheduler code in this
// module runs on it. Two interchangeable implementations are provided —
// coroutine/fiber (one OS-thread-pinned goroutine per coroutine) and
// coroutine/task (one goroutine per coroutine, with a semaphore bounding
// how many run between resumes) — selected process-wide through
// SetRuntime, mirroring SwiftShader's build-time choice
// between WIN32_FIBERS/UCONTEXT/PTHREADS in
// original_source/src/Reactor/CoroutineRuntime.cpp.
package coroutine

import "sync"

// Yield is the function a coroutine body calls once per produced value;
// it blocks until the consumer calls Resume again.
type Yield func(value any)

// Body is the function a coroutine runs. It must return when done
// producing values; Runtime implementations treat that return as the
// coroutine's completion.
type Body func(yield Yield)

// Handle drives one coroutine instance.
type Handle interface {
	// Resume runs the coroutine until its next Yield or completion.
	// ok is false once the body has returned; value is the zero value
	// in that case.
	Resume() (value any, ok bool)

	// IsDone reports whether the coroutine has completed, without
	// resuming it.
	IsDone() bool

	// Stop abandons the coroutine before it completes naturally. Safe
	// to call after completion. The fiber runtime ends the coroutine's
	// goroutine; the task runtime leaves a coroutine parked between
	// resumes blocked on its goroutine until the process exits.
	Stop()
}

// Runtime creates coroutine instances using one concrete scheduling
// strategy.
type Runtime interface {
	New(body Body) Handle
}

var (
	mu      sync.Mutex
	runtime Runtime
)

// SetRuntime installs the process-wide coroutine implementation. No
// package of this module calls it; calling it again after coroutines
// are already running leaves those in flight on the old runtime.
func SetRuntime(r Runtime) {
	mu.Lock()
	defer mu.Unlock()
	runtime = r
}

// New starts body as a coroutine on the installed runtime. Panics if
// no runtime has been installed; Renderer construction does not
// install one.
func New(body Body) Handle {
	mu.Lock()
	r := runtime
	mu.Unlock()
	if r == nil {
		panic("coroutine: New called before SetRuntime")
	}
	return r.New(body)
}
