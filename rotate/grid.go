package rotate

import "fmt"

// Position is the (row, column) coordinate of a block in the grid.
type Position struct {
	Row int
	Col int
}

// GridSize returns the number of blocks along one edge of an n x n matrix.
func GridSize(n int) int {
	return n / BlockSize
}

// WordOffset returns the index, in 64-bit words, of the first row of block
// (blockRow, blockCol) in a grid of size x size blocks. Row k of that block is
// at WordOffset(...) + k*size.
//
// WordOffset panics if either coordinate is outside [0, size).
func WordOffset(blockRow, blockCol, size int) int {
	if blockRow < 0 || blockRow >= size || blockCol < 0 || blockCol >= size {
		panic(fmt.Sprintf("rotate: block (%d, %d) outside %dx%d grid", blockRow, blockCol, size, size))
	}
	return blockRow*BlockSize*size + blockCol
}

// Quadrant returns the four grid positions that a quarter turn cycles into
// one another, starting at (r, c). The content of element i moves to the
// slot of element (i+1)%4.
func Quadrant(r, c, size int) [4]Position {
	last := size - 1
	return [4]Position{
		{Row: r, Col: c},
		{Row: c, Col: last - r},
		{Row: last - r, Col: last - c},
		{Row: last - c, Col: r},
	}
}
