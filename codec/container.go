package codec

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/hupe1980/bitspin/bitmatrix"
	"github.com/hupe1980/bitspin/internal/hash"
)

// Container layout (little endian):
//
//	magic "BSPN" | version u8 | compression u8 | reserved u16 |
//	N u32 | payload length u32 | CRC32C of the matrix bytes u32 | payload
const (
	containerVersion    = 1
	containerHeaderSize = 20
)

var containerMagic = [4]byte{'B', 'S', 'P', 'N'}

// Header is the fixed-size prefix of a matrix container.
type Header struct {
	Version     uint8
	Compression Compression
	N           uint32
	PayloadLen  uint32
	Checksum    uint32
}

func (h *Header) marshal() []byte {
	buf := make([]byte, containerHeaderSize)
	copy(buf[0:4], containerMagic[:])
	buf[4] = h.Version
	buf[5] = byte(h.Compression)
	binary.LittleEndian.PutUint32(buf[8:], h.N)
	binary.LittleEndian.PutUint32(buf[12:], h.PayloadLen)
	binary.LittleEndian.PutUint32(buf[16:], h.Checksum)
	return buf
}

// ReadHeader reads and validates a container header.
func ReadHeader(r io.Reader) (*Header, error) {
	var buf [containerHeaderSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, fmt.Errorf("%w: header: %w", ErrFormat, err)
	}
	if [4]byte(buf[0:4]) != containerMagic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrFormat, buf[0:4])
	}

	h := &Header{
		Version:     buf[4],
		Compression: Compression(buf[5]),
		N:           binary.LittleEndian.Uint32(buf[8:]),
		PayloadLen:  binary.LittleEndian.Uint32(buf[12:]),
		Checksum:    binary.LittleEndian.Uint32(buf[16:]),
	}
	if h.Version != containerVersion {
		return nil, fmt.Errorf("%w: container version %d", ErrUnsupported, h.Version)
	}
	if err := bitmatrix.ValidateDimension(int(h.N)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFormat, err)
	}
	// Encoders fall back to CompressionNone when compression does not help,
	// so a payload is never larger than the matrix.
	if uint64(h.PayloadLen) > uint64(bitmatrix.ByteLen(int(h.N))) {
		return nil, fmt.Errorf("%w: payload of %d bytes for N=%d", ErrFormat, h.PayloadLen, h.N)
	}
	return h, nil
}

// container implements the shared encode/decode path of Raw, Zstd and LZ4.
type container struct {
	compression Compression
}

func (c container) encode(w io.Writer, m *bitmatrix.BitMatrix) error {
	data := m.Bytes()
	payload, used, err := compress(data, c.compression)
	if err != nil {
		return err
	}

	h := Header{
		Version:     containerVersion,
		Compression: used,
		N:           uint32(m.N()),
		PayloadLen:  uint32(len(payload)),
		Checksum:    hash.CRC32C(data),
	}
	if _, err := w.Write(h.marshal()); err != nil {
		return err
	}
	_, err = w.Write(payload)
	return err
}

func (c container) decode(r io.Reader, alloc Allocator) (*bitmatrix.BitMatrix, error) {
	h, err := ReadHeader(r)
	if err != nil {
		return nil, err
	}
	n := int(h.N)

	switch h.Compression {
	case CompressionNone:
		if int(h.PayloadLen) != bitmatrix.ByteLen(n) {
			return nil, fmt.Errorf("%w: uncompressed payload of %d bytes for N=%d", ErrFormat, h.PayloadLen, h.N)
		}
	case CompressionLZ4, CompressionZSTD:
	default:
		return nil, fmt.Errorf("%w: compression %d", ErrUnsupported, h.Compression)
	}

	m, err := alloc(n)
	if err != nil {
		return nil, err
	}
	if err := checkAllocated(m, n); err != nil {
		return nil, err
	}

	if h.Compression == CompressionNone {
		if _, err := io.ReadFull(r, m.Bytes()); err != nil {
			return nil, fmt.Errorf("%w: payload: %w", ErrFormat, err)
		}
	} else {
		// ReadAll grows with the input, so a truncated stream never allocates
		// the full declared payload.
		payload, err := io.ReadAll(io.LimitReader(r, int64(h.PayloadLen)))
		if err != nil {
			return nil, fmt.Errorf("%w: payload: %w", ErrFormat, err)
		}
		if len(payload) != int(h.PayloadLen) {
			return nil, fmt.Errorf("%w: payload truncated at %d of %d bytes", ErrFormat, len(payload), h.PayloadLen)
		}
		if err := decompress(m.Bytes(), payload, h.Compression); err != nil {
			return nil, err
		}
	}

	if sum := m.Checksum(); sum != h.Checksum {
		return nil, fmt.Errorf("%w: stored %08x, computed %08x", ErrChecksum, h.Checksum, sum)
	}
	return m, nil
}

// Raw stores the matrix bytes uncompressed.
type Raw struct{}

// Encode writes m as an uncompressed container.
func (Raw) Encode(w io.Writer, m *bitmatrix.BitMatrix) error {
	return container{CompressionNone}.encode(w, m)
}

// Decode reads any container; the compression is taken from the header.
func (Raw) Decode(r io.Reader) (*bitmatrix.BitMatrix, error) {
	return container{}.decode(r, bitmatrix.New)
}

// DecodeAlloc is Decode into a matrix obtained from alloc.
func (Raw) DecodeAlloc(r io.Reader, alloc Allocator) (*bitmatrix.BitMatrix, error) {
	return container{}.decode(r, alloc)
}

// Name returns "raw".
func (Raw) Name() string { return "raw" }

// Extension returns ".bsm".
func (Raw) Extension() string { return ".bsm" }

// Zstd stores the matrix as a zstd frame.
type Zstd struct{}

// Encode writes m as a zstd container.
func (Zstd) Encode(w io.Writer, m *bitmatrix.BitMatrix) error {
	return container{CompressionZSTD}.encode(w, m)
}

// Decode reads any container; the compression is taken from the header.
func (Zstd) Decode(r io.Reader) (*bitmatrix.BitMatrix, error) {
	return container{}.decode(r, bitmatrix.New)
}

// DecodeAlloc is Decode into a matrix obtained from alloc.
func (Zstd) DecodeAlloc(r io.Reader, alloc Allocator) (*bitmatrix.BitMatrix, error) {
	return container{}.decode(r, alloc)
}

// Name returns "zstd".
func (Zstd) Name() string { return "zstd" }

// Extension returns ".bsz".
func (Zstd) Extension() string { return ".bsz" }

// LZ4 stores the matrix as a single LZ4 block.
type LZ4 struct{}

// Encode writes m as an LZ4 container.
func (LZ4) Encode(w io.Writer, m *bitmatrix.BitMatrix) error {
	return container{CompressionLZ4}.encode(w, m)
}

// Decode reads any container; the compression is taken from the header.
func (LZ4) Decode(r io.Reader) (*bitmatrix.BitMatrix, error) {
	return container{}.decode(r, bitmatrix.New)
}

// DecodeAlloc is Decode into a matrix obtained from alloc.
func (LZ4) DecodeAlloc(r io.Reader, alloc Allocator) (*bitmatrix.BitMatrix, error) {
	return container{}.decode(r, alloc)
}

// Name returns "lz4".
func (LZ4) Name() string { return "lz4" }

// Extension returns ".bsl".
func (LZ4) Extension() string { return ".bsl" }
