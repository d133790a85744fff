package codec

import (
	"bytes"
	"errors"
	"io"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression identifies the payload encoding of a container.
type Compression uint8

const (
	// CompressionNone stores the matrix bytes as-is.
	CompressionNone Compression = 0
	// CompressionLZ4 stores one LZ4 block (fast, good for dense random data).
	CompressionLZ4 Compression = 1
	// CompressionZSTD stores one zstd frame (better ratio for sparse images).
	CompressionZSTD Compression = 2
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return "unknown"
	}
}

// zstdMaxWindow bounds the history a frame may ask the decoder to keep.
const zstdMaxWindow = 1 << 25

// ZSTD encoder/decoder pools for efficiency
var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func putZstdEncoder(enc *zstd.Encoder) {
	zstdEncoderPool.Put(enc)
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderMaxWindow(zstdMaxWindow),
	)
	return dec
}

func putZstdDecoder(dec *zstd.Decoder) {
	_ = dec.Reset(nil)
	zstdDecoderPool.Put(dec)
}

// compress encodes data with the requested algorithm. It reports
// CompressionNone, and returns data unchanged, when compression does not
// shrink the payload.
func compress(data []byte, c Compression) ([]byte, Compression, error) {
	var out []byte

	switch c {
	case CompressionLZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, buf, nil)
		if err != nil {
			return nil, CompressionNone, err
		}
		out = buf[:n]
	case CompressionZSTD:
		enc := getZstdEncoder()
		out = enc.EncodeAll(data, nil)
		putZstdEncoder(enc)
	default:
		return data, CompressionNone, nil
	}

	// n == 0 means LZ4 found the block incompressible.
	if len(out) == 0 || len(out) >= len(data) {
		return data, CompressionNone, nil
	}
	return out, c, nil
}

// decompress decodes payload into dst, which must have the uncompressed size.
func decompress(dst, payload []byte, c Compression) error {
	switch c {
	case CompressionNone:
		if len(payload) != len(dst) {
			return ErrFormat
		}
		copy(dst, payload)
		return nil

	case CompressionLZ4:
		n, err := lz4.UncompressBlock(payload, dst)
		if err != nil {
			return ErrFormat
		}
		if n != len(dst) {
			return ErrFormat
		}
		return nil

	case CompressionZSTD:
		var fh zstd.Header
		if err := fh.Decode(payload); err != nil {
			return ErrFormat
		}
		if fh.HasFCS && fh.FrameContentSize != uint64(len(dst)) {
			return ErrFormat
		}

		dec := getZstdDecoder()
		defer putZstdDecoder(dec)

		// Streaming into dst stops output at len(dst) bytes, whatever the
		// frames claim.
		if err := dec.Reset(bytes.NewReader(payload)); err != nil {
			return ErrFormat
		}
		if _, err := io.ReadFull(dec, dst); err != nil {
			return ErrFormat
		}
		var extra [1]byte
		if n, err := dec.Read(extra[:]); n != 0 || !errors.Is(err, io.EOF) {
			return ErrFormat
		}
		return nil

	default:
		return ErrUnsupported
	}
}
