package rotate

// BlockSize is the edge length of a block in bits.
const BlockSize = 64

// Block is a 64x64-bit submatrix held as one word per block row.
type Block [BlockSize]uint64

// firstStageMask selects the upper half of every word for the shift=32 stage.
const firstStageMask uint64 = 0xFFFFFFFF00000000

// lane returns the word bit that holds block column col.
func lane(col int) uint {
	return uint(col&^7 | (7 - col&7))
}

// Bit reports the cell at (row, col) of the block.
func (b *Block) Bit(row, col int) bool {
	return b[row]>>lane(col)&1 == 1
}

// SetBit sets the cell at (row, col) of the block to v.
func (b *Block) SetBit(row, col int, v bool) {
	m := uint64(1) << lane(col)
	if v {
		b[row] |= m
	} else {
		b[row] &^= m
	}
}

// swapAcross exchanges the bit groups selected by mask between a and b
// shifted by shift. Used for shifts that move bits between bytes.
func swapAcross(a, b uint64, shift uint, mask uint64) (uint64, uint64) {
	t := (a ^ (b << shift)) & mask
	return a ^ t, b ^ (t >> shift)
}

// swapWithin is the mirror of swapAcross for shifts that stay inside a byte.
func swapWithin(a, b uint64, shift uint, mask uint64) (uint64, uint64) {
	t := (a ^ (b >> shift)) & mask
	return a ^ t, b ^ (t << shift)
}

// Transpose runs the six-stage exchange network over b in place.
//
// The shift=32, 16 and 8 stages move bit groups across byte boundaries and
// the shift=4, 2 and 1 stages move them inside bytes. The two families use
// opposite shift directions because a byte stores its lowest column in the
// most significant bit while the word stores its lowest byte first.
//
// In (row, column) terms b is reflected across its anti-diagonal:
// afterwards cell (i, j) holds the former cell (63-j, 63-i). Counting columns
// from the most significant lane this is the ordinary transpose, and reading
// the result with reversed rows gives a clockwise quarter turn of the block.
// Applying Transpose twice restores b.
func Transpose(b *Block) {
	mask := firstStageMask
	shift := uint(BlockSize / 2)

	for shift != 4 {
		s := int(shift)
		for k := 0; k < BlockSize; k += 2 * s {
			for i := k; i < k+s; i++ {
				b[i+s], b[i] = swapAcross(b[i+s], b[i], shift, mask)
			}
		}
		shift >>= 1
		mask ^= mask >> shift
	}

	mask >>= shift
	for shift != 0 {
		s := int(shift)
		for k := 0; k < BlockSize; k += 2 * s {
			for i := k; i < k+s; i++ {
				b[i+s], b[i] = swapWithin(b[i+s], b[i], shift, mask)
			}
		}
		shift >>= 1
		mask ^= mask << shift
	}
}
