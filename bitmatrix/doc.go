// Package bitmatrix provides the square bit matrix type rotated by package
// rotate, together with the naive reference rotator it is validated against.
//
// # Bit Convention
//
// The convention is fixed once here and shared by every rotator, codec and
// test in the module:
//
//   - rows are stored top to bottom, each N/8 bytes long;
//   - cell (r, c) is bit 7 - c%8 of byte r*(N/8) + c/8, i.e. the most
//     significant bit of a byte is its lowest column.
//
// This is the pixel order of an uncompressed 1-bit BMP row.
//
// # Reference Rotation
//
// RotateReference moves one bit at a time through the four-way cycle
// (r, c) -> (c, N-1-r) using Get and Set. It is deliberately slow and exists
// only to check the output of the engine:
//
//	want := m.Clone()
//	want.RotateReference()
//	m.Rotate()
//	if !m.Equal(want) {
//	    diff, _ := bitmatrix.Diff(m, want)
//	    // diff holds the flat indices r*N+c of every mismatched cell
//	}
package bitmatrix
