// Package codec centralizes how bit matrices are stored as bytes.
//
// Built-in codecs:
//
//   - "raw"  (.bsm): container with the matrix bytes stored as-is
//   - "zstd" (.bsz): container with a zstd-compressed payload
//   - "lz4"  (.bsl): container with an LZ4 block payload
//   - "bmp"  (.bmp): uncompressed 1-bit Windows bitmap
//
// Every container carries the dimension and a CRC32C of the uncompressed
// matrix, so a corrupt or truncated file is rejected before any rotation runs.
package codec

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/hupe1980/bitspin/bitmatrix"
)

var (
	// ErrFormat is returned for data that is not a valid container or bitmap.
	ErrFormat = errors.New("codec: malformed data")
	// ErrChecksum is returned when the payload does not match the stored checksum.
	ErrChecksum = errors.New("codec: checksum mismatch")
	// ErrNotSquare is returned for bitmaps whose width and height differ.
	ErrNotSquare = errors.New("codec: matrix is not square")
	// ErrUnsupported is returned for valid files using features the codec does not implement.
	ErrUnsupported = errors.New("codec: unsupported format variant")
)

// Codec encodes/decodes bit matrices.
// Implementations must be safe for concurrent use.
type Codec interface {
	Encode(w io.Writer, m *bitmatrix.BitMatrix) error
	Decode(r io.Reader) (*bitmatrix.BitMatrix, error)
	// Name returns the stable codec name.
	Name() string
	// Extension returns the file extension, including the dot.
	Extension() string
}

// Allocator returns the matrix a decoder fills once the header has given the
// dimension. Decoders call it at most once, after the header is validated and
// before any payload is read.
type Allocator func(n int) (*bitmatrix.BitMatrix, error)

// AllocDecoder is implemented by codecs that let the caller supply the matrix.
type AllocDecoder interface {
	DecodeAlloc(r io.Reader, alloc Allocator) (*bitmatrix.BitMatrix, error)
}

// DecodeAlloc decodes r with c into a matrix obtained from alloc. Errors
// returned by alloc are passed through unwrapped.
//
// Codecs that do not implement AllocDecoder decode into their own matrix,
// which is then copied into the one alloc returns.
func DecodeAlloc(c Codec, r io.Reader, alloc Allocator) (*bitmatrix.BitMatrix, error) {
	if d, ok := c.(AllocDecoder); ok {
		return d.DecodeAlloc(r, alloc)
	}

	m, err := c.Decode(r)
	if err != nil {
		return nil, err
	}
	dst, err := alloc(m.N())
	if err != nil {
		return nil, err
	}
	if err := checkAllocated(dst, m.N()); err != nil {
		return nil, err
	}
	copy(dst.Bytes(), m.Bytes())
	return dst, nil
}

func checkAllocated(m *bitmatrix.BitMatrix, n int) error {
	if m == nil || m.N() != n {
		return fmt.Errorf("codec: allocator returned a matrix of the wrong dimension for N=%d", n)
	}
	return nil
}

// Default is the codec used when neither a name nor an extension selects one.
var Default Codec = Zstd{}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch strings.ToLower(name) {
	case "raw":
		return Raw{}, true
	case "zstd":
		return Zstd{}, true
	case "lz4":
		return LZ4{}, true
	case "bmp":
		return BMP{}, true
	default:
		return nil, false
	}
}

// ByExtension returns the built-in codec for the extension of path.
func ByExtension(path string) (Codec, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bsm":
		return Raw{}, true
	case ".bsz":
		return Zstd{}, true
	case ".bsl":
		return LZ4{}, true
	case ".bmp":
		return BMP{}, true
	default:
		return nil, false
	}
}

// Names lists the built-in codec names.
func Names() []string {
	return []string{"raw", "zstd", "lz4", "bmp"}
}

// MustEncode is a helper for internal tests/benchmarks.
func MustEncode(c Codec, w io.Writer, m *bitmatrix.BitMatrix) {
	if c == nil {
		c = Default
	}
	if err := c.Encode(w, m); err != nil {
		panic(fmt.Errorf("codec %s encode failed: %w", c.Name(), err))
	}
}
