//go:build windows

package execmem

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

func pageSize() int {
	var info windows.SystemInfo
	windows.GetSystemInfo(&info)
	return int(info.PageSize)
}

func mapWritable(n int) ([]byte, error) {
	addr, err := windows.VirtualAlloc(0, uintptr(n), windows.MEM_COMMIT|windows.MEM_RESERVE, windows.PAGE_READWRITE)
	if err != nil {
		return nil, err
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), n), nil
}

func protectExecutable(data []byte) error {
	var old uint32
	addr := uintptr(unsafe.Pointer(&data[0]))
	return windows.VirtualProtect(addr, uintptr(len(data)), windows.PAGE_EXECUTE_READ, &old)
}

func unmap(data []byte) error {
	addr := uintptr(unsafe.Pointer(&data[0]))
	return windows.VirtualFree(addr, 0, windows.MEM_RELEASE)
}

func flushInstructionCache(data []byte) {
	h := windows.CurrentProcess()
	addr := unsafe.Pointer(&data[0])
	_ = windows.FlushInstructionCache(h, addr, uintptr(len(data)))
}
