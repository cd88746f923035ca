// Package execmem delivers page-granular regions of memory that can be
// written to, then marked executable, then freed, for the routines the
// reactor package JITs. Pages are never writable and executable at the
// same time (W^X): Allocate returns writable pages, MarkExecutable
// revokes write permission while granting execute permission.
//
// Grounded on SwiftShader's Reactor/ExecutableMemory.hpp (allocateExecutable
// / markExecutable / deallocateExecutable) and on the teacher's per-OS
// split between hal/dx12 (golang.org/x/sys/windows) and the POSIX
// backends — here expressed as memory_unix.go / memory_windows.go build
// tag variants of the same three primitives.
package execmem

import (
	"fmt"
	"sync/atomic"
)

// Block is a page-aligned region obtained from Allocate. It starts out
// writable and non-executable; MarkExecutable transitions it.
type Block struct {
	data       []byte
	executable bool
}

// Bytes returns the underlying memory. While the block is executable the
// slice must not be mutated: doing so violates the W^X invariant the
// platform enforces with SIGSEGV/access violation, but callers that
// bypass MarkExecutable's bookkeeping can still corrupt the mapping.
func (b *Block) Bytes() []byte {
	return b.data
}

// Executable reports whether MarkExecutable has been called on this
// block.
func (b *Block) Executable() bool {
	return b.executable
}

// Len is the page-rounded size of the block in bytes.
func (b *Block) Len() int {
	return len(b.data)
}

// PageSize returns the platform's memory page granularity. Allocate
// always rounds up to a multiple of this value.
func PageSize() int {
	return pageSize()
}

// Allocate reserves at least n bytes of writable, non-executable memory,
// rounded up to a whole number of pages.
func Allocate(n int) (*Block, error) {
	if n <= 0 {
		return nil, fmt.Errorf("execmem: allocation size must be positive, got %d", n)
	}
	ps := pageSize()
	rounded := ((n + ps - 1) / ps) * ps
	data, err := mapWritable(rounded)
	if err != nil {
		return nil, fmt.Errorf("execmem: allocate %d bytes: %w", rounded, err)
	}
	return &Block{data: data}, nil
}

// MarkExecutable transitions the block from writable to read+execute.
// On Windows this also flushes the instruction cache for the block's
// range; on other targets no instruction-cache flush is performed.
// After this call the block must not be written to.
func (b *Block) MarkExecutable() error {
	if b.executable {
		return nil
	}
	if err := protectExecutable(b.data); err != nil {
		return fmt.Errorf("execmem: mark executable: %w", err)
	}
	flushInstructionCache(b.data)
	b.executable = true
	return nil
}

// Deallocate releases the block's pages. The block must not be used
// afterwards.
func (b *Block) Deallocate() error {
	if b.data == nil {
		return nil
	}
	err := unmap(b.data)
	b.data = nil
	if err != nil {
		return fmt.Errorf("execmem: deallocate: %w", err)
	}
	return nil
}

// RefCountedBlock wraps a Block with a reference count so a Routine held
// by both a RoutineCache entry and one or more in-flight draws is freed
// exactly once, when the last holder releases it (data model §3,
// "Ownership rules").
type RefCountedBlock struct {
	block *Block
	refs  atomic.Int32
}

// NewRefCounted wraps an allocated block with an initial reference count
// of one, representing the caller's own reference.
func NewRefCounted(b *Block) *RefCountedBlock {
	rc := &RefCountedBlock{block: b}
	rc.refs.Store(1)
	return rc
}

// Retain adds a reference, e.g. when a draw call captures a routine
// that is also held by the cache.
func (rc *RefCountedBlock) Retain() {
	rc.refs.Add(1)
}

// Release drops a reference, deallocating the underlying pages when the
// count reaches zero. Returns whether this call freed the block.
func (rc *RefCountedBlock) Release() (bool, error) {
	if rc.refs.Add(-1) > 0 {
		return false, nil
	}
	return true, rc.block.Deallocate()
}

// Block returns the wrapped block for reading its bytes or entry offsets.
// Valid only while the reference count is above zero.
func (rc *RefCountedBlock) Block() *Block {
	return rc.block
}
