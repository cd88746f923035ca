package reactor

import "github.com/gogpu/swr/execmem"

// NativeFunc is the calling convention every emitted Routine exposes: a
// flat array of argument words and a return word, matching the uniform
// ABI spec.md §4.B requires so the scheduler can invoke a vertex, setup,
// or pixel routine without per-signature dispatch code.
type NativeFunc func(args []uint64) uint64

// Routine is a finished, callable function produced by a Backend. It
// owns a reference-counted block of executable memory; the routine
// itself is immutable and safely shared across goroutines (data model
// §3: "Routine is the only type safe to share across goroutines without
// external synchronization").
type Routine struct {
	name string
	mem  *execmem.RefCountedBlock
	call NativeFunc
}

// NewRoutine wraps a block of already-marked-executable memory and its
// callable entry point. Backends call this once lowering finishes.
func NewRoutine(name string, mem *execmem.RefCountedBlock, call NativeFunc) *Routine {
	return &Routine{name: name, mem: mem, call: call}
}

// Name is the identifier Emit was given, used in logging and cache
// diagnostics.
func (r *Routine) Name() string { return r.name }

// Call invokes the routine with the given argument words.
func (r *Routine) Call(args []uint64) uint64 {
	return r.call(args)
}

// Retain adds a reference, e.g. when a draw call keeps a routine alive
// beyond a cache eviction.
func (r *Routine) Retain() {
	r.mem.Retain()
}

// Release drops a reference, freeing the routine's executable memory
// when it reaches zero.
func (r *Routine) Release() error {
	_, err := r.mem.Release()
	return err
}
