//go:build !windows

package execmem

import (
	"golang.org/x/sys/unix"
)

func pageSize() int {
	return unix.Getpagesize()
}

func mapWritable(n int) ([]byte, error) {
	return unix.Mmap(-1, 0, n, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
}

func protectExecutable(data []byte) error {
	return unix.Mprotect(data, unix.PROT_READ|unix.PROT_EXEC)
}

func unmap(data []byte) error {
	return unix.Munmap(data)
}

// flushInstructionCache is a no-op on every non-Windows target,
// whatever the architecture; this package has no arch-specific flush.
func flushInstructionCache(_ []byte) {}
