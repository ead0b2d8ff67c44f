// Package blockcodec frames a byte block with a size header and optionally
// compresses it with LZ4 or ZSTD.
//
// Frame format: [UncompressedSize uint32][CompressedSize uint32][Data...].
// A CompressedSize of 0 means Data is stored raw.
package blockcodec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Type selects the compression algorithm.
type Type uint8

const (
	// None stores the block raw.
	None Type = 0
	// LZ4 uses LZ4 block compression (fast).
	LZ4 Type = 1
	// ZSTD uses ZSTD (better ratio).
	ZSTD Type = 2
)

// HeaderSize is the size of the frame header in bytes.
const HeaderSize = 8

// Largest expansion a compressed block can produce. An LZ4 length byte covers
// at most 255 output bytes; a 4-byte zstd RLE block covers at most 128 KiB.
const (
	lz4MaxRatio  = 255
	zstdMaxRatio = 1 << 15
)

var (
	// ErrShortFrame is returned when a frame is truncated.
	ErrShortFrame = errors.New("blockcodec: frame truncated")
	// ErrSizeMismatch is returned when the decoded size disagrees with the header.
	ErrSizeMismatch = errors.New("blockcodec: decompressed size mismatch")
)

func (t Type) String() string {
	switch t {
	case None:
		return "none"
	case LZ4:
		return "lz4"
	case ZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("Type(%d)", uint8(t))
	}
}

// Valid reports whether t is a known compression type.
func (t Type) Valid() bool { return t <= ZSTD }

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

func putZstdEncoder(enc *zstd.Encoder) { zstdEncoderPool.Put(enc) }

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil, zstd.WithDecodeAllCapLimit(true))
	return dec
}

func putZstdDecoder(dec *zstd.Decoder) { zstdDecoderPool.Put(dec) }

// Encode frames data, compressing it with t when that shrinks it by at least 10%.
func Encode(data []byte, t Type) ([]byte, error) {
	if len(data) > math.MaxUint32 {
		return nil, fmt.Errorf("blockcodec: block of %d bytes exceeds frame limit", len(data))
	}

	var compressed []byte
	switch t {
	case None:
	case LZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, buf, nil)
		if err != nil {
			return nil, err
		}
		compressed = buf[:n] // n == 0 means incompressible
	case ZSTD:
		enc := getZstdEncoder()
		compressed = enc.EncodeAll(data, nil)
		putZstdEncoder(enc)
	default:
		return nil, fmt.Errorf("blockcodec: unknown compression type %d", t)
	}

	if len(compressed) == 0 || float64(len(compressed)) > float64(len(data))*0.9 {
		out := make([]byte, HeaderSize+len(data))
		binary.LittleEndian.PutUint32(out[0:], uint32(len(data)))
		binary.LittleEndian.PutUint32(out[4:], 0)
		copy(out[HeaderSize:], data)
		return out, nil
	}

	out := make([]byte, HeaderSize+len(compressed))
	binary.LittleEndian.PutUint32(out[0:], uint32(len(data)))
	binary.LittleEndian.PutUint32(out[4:], uint32(len(compressed)))
	copy(out[HeaderSize:], compressed)
	return out, nil
}

// Decode reads one frame from the start of data and returns its payload and
// the number of bytes the frame occupied.
func Decode(data []byte, t Type) ([]byte, int, error) {
	if len(data) < HeaderSize {
		return nil, 0, ErrShortFrame
	}

	rawSize := binary.LittleEndian.Uint32(data[0:])
	packedSize := binary.LittleEndian.Uint32(data[4:])

	if packedSize == 0 {
		end := HeaderSize + int(rawSize)
		if len(data) < end {
			return nil, 0, ErrShortFrame
		}
		return data[HeaderSize:end], end, nil
	}

	end := HeaderSize + int(packedSize)
	if len(data) < end {
		return nil, 0, ErrShortFrame
	}
	packed := data[HeaderSize:end]

	switch t {
	case LZ4:
		if uint64(rawSize) > uint64(packedSize)*lz4MaxRatio {
			return nil, 0, fmt.Errorf("%w: %d bytes cannot expand to %d", ErrSizeMismatch, packedSize, rawSize)
		}
		out := make([]byte, rawSize)
		n, err := lz4.UncompressBlock(packed, out)
		if err != nil {
			return nil, 0, err
		}
		if uint32(n) != rawSize {
			return nil, 0, ErrSizeMismatch
		}
		return out, end, nil
	case ZSTD:
		if uint64(rawSize) > uint64(packedSize)*zstdMaxRatio {
			return nil, 0, fmt.Errorf("%w: %d bytes cannot expand to %d", ErrSizeMismatch, packedSize, rawSize)
		}
		dec := getZstdDecoder()
		defer putZstdDecoder(dec)

		out, err := dec.DecodeAll(packed, make([]byte, 0, rawSize))
		if err != nil {
			return nil, 0, err
		}
		if uint32(len(out)) != rawSize {
			return nil, 0, ErrSizeMismatch
		}
		return out, end, nil
	default:
		return nil, 0, fmt.Errorf("blockcodec: compressed frame with compression type %s", t)
	}
}
