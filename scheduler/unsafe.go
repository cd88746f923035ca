package scheduler

import "unsafe"

// ptrOf returns the address of b's first byte as the uint64 a
// generated routine's Call expects for a TypePointer argument. b must
// be non-empty.
func ptrOf(b []byte) uint64 {
	return uint64(uintptr(unsafe.Pointer(&b[0])))
}
