// Package mmap maps matrix files and large scratch matrices outside the Go heap.
//
// Open maps a file read-only so a local blob can be decoded without first
// copying it through a read buffer. MapAnon returns a zeroed read-write
// anonymous mapping; the tier search uses one for its largest matrix, which
// can exceed a gigabyte and would otherwise be scanned by the garbage
// collector on every cycle.
//
//	m, err := mmap.MapAnon(size)
//	if err != nil { ... }
//	defer m.Close()
//	_ = m.Advise(mmap.AccessSequential)
//	buf := m.Bytes()
//
// On Unix the package uses mmap(2) and madvise(2). On Windows it uses
// MapViewOfFile for files and VirtualAlloc for anonymous memory, and Advise
// is a no-op.
//
// Close is idempotent. Slices returned by Bytes must not be used after Close.
package mmap
