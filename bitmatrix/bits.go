package bitmatrix

// RowStride returns the number of bytes in one row of an n x n matrix.
func RowStride(n int) int {
	return n / 8
}

// ByteLen returns the buffer length of an n x n matrix.
func ByteLen(n int) int {
	return n * RowStride(n)
}

// Get reports the cell at (row, col) of the n x n matrix in buf.
func Get(buf []byte, n, row, col int) bool {
	return buf[row*RowStride(n)+col>>3]>>(7-uint(col&7))&1 == 1
}

// Set sets the cell at (row, col) of the n x n matrix in buf to v.
func Set(buf []byte, n, row, col int, v bool) {
	i := row*RowStride(n) + col>>3
	m := byte(1) << (7 - uint(col&7))
	if v {
		buf[i] |= m
	} else {
		buf[i] &^= m
	}
}

// RotateReference turns the n x n matrix in buf 90 degrees clockwise one bit
// at a time. Each cell of the top-left quadrant carries its value through the
// cycle (r, c) -> (c, n-1-r) -> (n-1-r, n-1-c) -> (n-1-c, r) -> (r, c).
func RotateReference(buf []byte, n int) {
	half := n / 2
	for row := 0; row < half; row++ {
		for col := 0; col < half; col++ {
			r, c := row, col
			carry := Get(buf, n, r, c)
			for q := 0; q < 4; q++ {
				nr, nc := c, n-1-r
				next := Get(buf, n, nr, nc)
				Set(buf, n, nr, nc, carry)
				carry = next
				r, c = nr, nc
			}
		}
	}
}
