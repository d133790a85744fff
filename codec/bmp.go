package codec

import (
	"encoding/binary"
	"fmt"
	"image/color"
	"io"

	"github.com/hupe1980/bitspin/bitmatrix"
)

const (
	bmpFileHeaderSize = 14
	bmpInfoHeaderSize = 40
	bmpPaletteSize    = 2 * 4
	bmpDataOffset     = bmpFileHeaderSize + bmpInfoHeaderSize + bmpPaletteSize
	bmpPixelsPerMeter = 2835 // 72 DPI
)

// Palette is the two-entry color table of a 1-bit bitmap. Entry 0 colors
// clear cells, entry 1 colors set cells.
type Palette [2]color.RGBA

// DefaultPalette maps clear cells to black and set cells to white.
var DefaultPalette = Palette{
	{R: 0x00, G: 0x00, B: 0x00, A: 0xFF},
	{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF},
}

// BMP reads and writes uncompressed 1-bit Windows bitmaps.
//
// Row 0 of the matrix is the top row of the image and column 0 its leftmost
// pixel, so rotating the matrix rotates the picture. Decode accepts bottom-up
// and top-down files; Encode always writes bottom-up.
type BMP struct {
	// Palette is written by Encode. The zero value selects DefaultPalette.
	Palette Palette
}

// Encode writes m as a 1-bit bitmap.
func (c BMP) Encode(w io.Writer, m *bitmatrix.BitMatrix) error {
	n := m.N()
	stride := bitmatrix.RowStride(n)
	imageSize := stride * n

	palette := c.Palette
	if palette == (Palette{}) {
		palette = DefaultPalette
	}

	hdr := make([]byte, bmpDataOffset)
	hdr[0], hdr[1] = 'B', 'M'
	binary.LittleEndian.PutUint32(hdr[2:], uint32(bmpDataOffset+imageSize))
	binary.LittleEndian.PutUint32(hdr[10:], bmpDataOffset)

	info := hdr[bmpFileHeaderSize:]
	binary.LittleEndian.PutUint32(info[0:], bmpInfoHeaderSize)
	binary.LittleEndian.PutUint32(info[4:], uint32(n))
	binary.LittleEndian.PutUint32(info[8:], uint32(n))
	binary.LittleEndian.PutUint16(info[12:], 1) // planes
	binary.LittleEndian.PutUint16(info[14:], 1) // bits per pixel
	binary.LittleEndian.PutUint32(info[20:], uint32(imageSize))
	binary.LittleEndian.PutUint32(info[24:], bmpPixelsPerMeter)
	binary.LittleEndian.PutUint32(info[28:], bmpPixelsPerMeter)
	binary.LittleEndian.PutUint32(info[32:], 2)

	pal := hdr[bmpFileHeaderSize+bmpInfoHeaderSize:]
	for i, e := range palette {
		pal[4*i+0] = e.B
		pal[4*i+1] = e.G
		pal[4*i+2] = e.R
	}

	if _, err := w.Write(hdr); err != nil {
		return err
	}

	data := m.Bytes()
	for row := n - 1; row >= 0; row-- {
		if _, err := w.Write(data[row*stride : (row+1)*stride]); err != nil {
			return err
		}
	}
	return nil
}

// Decode reads a 1-bit bitmap and discards its palette.
func (BMP) Decode(r io.Reader) (*bitmatrix.BitMatrix, error) {
	m, _, err := DecodeBMP(r)
	return m, err
}

// Name returns "bmp".
func (BMP) Name() string { return "bmp" }

// Extension returns ".bmp".
func (BMP) Extension() string { return ".bmp" }

// DecodeAlloc reads a 1-bit bitmap into a matrix obtained from alloc and
// discards its palette.
func (BMP) DecodeAlloc(r io.Reader, alloc Allocator) (*bitmatrix.BitMatrix, error) {
	m, _, err := DecodeBMPAlloc(r, alloc)
	return m, err
}

// DecodeBMP reads a 1-bit bitmap and returns the matrix with its palette.
//
// The image must be square with a side that is a positive multiple of 64 no
// larger than bitmatrix.MaxDimension.
func DecodeBMP(r io.Reader) (*bitmatrix.BitMatrix, Palette, error) {
	return DecodeBMPAlloc(r, bitmatrix.New)
}

// DecodeBMPAlloc is DecodeBMP into a matrix obtained from alloc. alloc runs
// once every header is read and checked.
func DecodeBMPAlloc(r io.Reader, alloc Allocator) (*bitmatrix.BitMatrix, Palette, error) {
	var palette Palette

	var hdr [bmpFileHeaderSize + bmpInfoHeaderSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, palette, fmt.Errorf("%w: bmp header: %w", ErrFormat, err)
	}
	if hdr[0] != 'B' || hdr[1] != 'M' {
		return nil, palette, fmt.Errorf("%w: not a bmp file", ErrFormat)
	}
	dataOffset := int64(binary.LittleEndian.Uint32(hdr[10:]))

	info := hdr[bmpFileHeaderSize:]
	infoSize := int64(binary.LittleEndian.Uint32(info[0:]))
	width := int64(int32(binary.LittleEndian.Uint32(info[4:])))
	height := int64(int32(binary.LittleEndian.Uint32(info[8:])))
	bpp := binary.LittleEndian.Uint16(info[14:])
	compression := binary.LittleEndian.Uint32(info[16:])
	colors := int64(binary.LittleEndian.Uint32(info[32:]))

	if infoSize < bmpInfoHeaderSize {
		return nil, palette, fmt.Errorf("%w: bmp info header of %d bytes", ErrUnsupported, infoSize)
	}
	if bpp != 1 {
		return nil, palette, fmt.Errorf("%w: %d bits per pixel", ErrUnsupported, bpp)
	}
	if compression != 0 {
		return nil, palette, fmt.Errorf("%w: bmp compression %d", ErrUnsupported, compression)
	}

	topDown := height < 0
	if topDown {
		height = -height
	}
	if width != height {
		return nil, palette, fmt.Errorf("%w: %dx%d", ErrNotSquare, width, height)
	}
	n := int(width)
	if err := bitmatrix.ValidateDimension(n); err != nil {
		return nil, palette, fmt.Errorf("%w: %w", ErrFormat, err)
	}
	stride := bitmatrix.RowStride(n)
	if rowSize := ((n + 31) / 32) * 4; rowSize != stride {
		return nil, palette, fmt.Errorf("%w: row size %d for width %d", ErrFormat, rowSize, n)
	}

	pos := int64(len(hdr))
	if err := skip(r, infoSize-bmpInfoHeaderSize); err != nil {
		return nil, palette, err
	}
	pos += infoSize - bmpInfoHeaderSize

	if colors == 0 || colors > 2 {
		colors = 2
	}
	pal := make([]byte, 4*colors)
	if _, err := io.ReadFull(r, pal); err != nil {
		return nil, palette, fmt.Errorf("%w: bmp palette: %w", ErrFormat, err)
	}
	pos += int64(len(pal))
	for i := range int(colors) {
		palette[i] = color.RGBA{R: pal[4*i+2], G: pal[4*i+1], B: pal[4*i], A: 0xFF}
	}

	if dataOffset < pos {
		return nil, palette, fmt.Errorf("%w: pixel data at %d overlaps headers", ErrFormat, dataOffset)
	}
	if err := skip(r, dataOffset-pos); err != nil {
		return nil, palette, err
	}

	m, err := alloc(n)
	if err != nil {
		return nil, palette, err
	}
	if err := checkAllocated(m, n); err != nil {
		return nil, palette, err
	}
	data := m.Bytes()
	for i := range n {
		row := n - 1 - i
		if topDown {
			row = i
		}
		if _, err := io.ReadFull(r, data[row*stride:(row+1)*stride]); err != nil {
			return nil, palette, fmt.Errorf("%w: bmp pixel data: %w", ErrFormat, err)
		}
	}
	return m, palette, nil
}

func skip(r io.Reader, k int64) error {
	if k <= 0 {
		return nil
	}
	if _, err := io.CopyN(io.Discard, r, k); err != nil {
		return fmt.Errorf("%w: bmp: %w", ErrFormat, err)
	}
	return nil
}
