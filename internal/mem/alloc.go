package mem

import (
	"unsafe"
)

// Alignment is the byte alignment of buffers returned by AllocAligned.
// It matches the cache line size of current x86-64 and arm64 cores.
const Alignment = 64

// AllocAligned allocates a zeroed byte slice of the given size whose first
// byte sits at an address divisible by Alignment.
//
// Note: This function allocates Alignment extra bytes to find an aligned
// offset. The underlying array is kept alive by the returned slice.
func AllocAligned(size int) []byte {
	if size <= 0 {
		return nil
	}

	buf := make([]byte, size+Alignment)

	ptr := unsafe.Pointer(&buf[0]) //nolint:gosec // unsafe is required for memory alignment
	addr := uintptr(ptr)
	offset := int((Alignment - (addr & (Alignment - 1))) & (Alignment - 1))

	return buf[offset : offset+size : offset+size]
}

// IsAligned reports whether the first byte of buf is Alignment-aligned.
func IsAligned(buf []byte) bool {
	if len(buf) == 0 {
		return true
	}
	return uintptr(unsafe.Pointer(&buf[0]))&(Alignment-1) == 0 //nolint:gosec // address inspection only
}
