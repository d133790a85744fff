// Package rotate implements an in-place 90 degree clockwise rotation of a
// square bit matrix.
//
// # Layout
//
// A matrix of N x N bits (N a positive multiple of 64) is a packed, row-major
// byte buffer with a row stride of N/8 bytes. Cell (r, c) lives in byte
// r*(N/8) + c/8 at bit 7 - c%8, so the most significant bit of a byte holds
// the lowest column. The engine reads the buffer as little-endian 64-bit
// words, which keeps the word view identical on every host.
//
// # Algorithm
//
// The matrix is tiled by a size x size grid of 64x64-bit blocks
// (size = N/64). Each block is 64 words, one per block row, and consecutive
// block rows sit size words apart in the buffer.
//
// For every quadrant tuple (r, c), (c, size-1-r), (size-1-r, size-1-c),
// (size-1-c, r) with r < ceil(size/2) and c < size/2 the engine
//
//  1. loads the four blocks into a fixed [4]Block scratch array,
//  2. runs the six-stage exchange network of [Transpose] on each,
//  3. stores each block with its rows reversed into the slot of the next
//     block of the tuple.
//
// For an odd size the center block is rotated in place. Extra memory is the
// 2 KiB scratch array regardless of N; nothing is allocated on the heap.
//
//	buf := make([]byte, n*n/8)
//	// ... fill buf ...
//	rotate.Rotate(buf, n)
//
// [Rotate] does not validate its arguments. Use [RotateChecked] or [Validate]
// at API boundaries.
package rotate
