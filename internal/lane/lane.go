// Package lane implements the packed per-entity flag storage.
//
// A Lane is a fixed-length array of unsigned integers of one Width. The
// concrete element type (uint8, uint16, uint32 or uint64) is selected when the
// lane is created or widened, and every bitwise operation is carried out on
// that element type. Masks cross the package boundary as uint64 so that bit 63
// stays addressable once the lane reaches W64.
package lane

import (
	"encoding/binary"
	"fmt"
)

// Lane is the storage for one population of entity bitmasks.
//
// Index arguments are not bounds-checked beyond Go's own slice checks;
// callers validate ids before mutating.
type Lane interface {
	// Width returns the element width of the lane.
	Width() Width
	// Len returns the population size.
	Len() int
	// Get returns the value stored for entity i.
	Get(i int) uint64
	// Or sets the bits of m on entity i.
	Or(i int, m uint64)
	// AndNot clears the bits of m on entity i.
	AndNot(i int, m uint64)
	// OrAll sets the bits of m on every entity.
	OrAll(m uint64)
	// AndNotAll clears the bits of m on every entity.
	AndNotAll(m uint64)
	// Widen returns a new lane of width to holding the same values.
	// The receiver is left untouched.
	Widen(to Width) (Lane, error)
	// AppendLE appends the little-endian encoding of every value to dst.
	AppendLE(dst []byte) []byte
}

type unsigned interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

type typed[T unsigned] struct {
	width  Width
	values []T
}

// New returns a zeroed lane of width w for n entities.
func New(w Width, n int) (Lane, error) {
	if n < 0 {
		return nil, fmt.Errorf("lane: negative length %d", n)
	}
	switch w {
	case W8:
		return &typed[uint8]{width: w, values: make([]uint8, n)}, nil
	case W16:
		return &typed[uint16]{width: w, values: make([]uint16, n)}, nil
	case W32:
		return &typed[uint32]{width: w, values: make([]uint32, n)}, nil
	case W64:
		return &typed[uint64]{width: w, values: make([]uint64, n)}, nil
	default:
		return nil, fmt.Errorf("lane: unsupported width %d", w)
	}
}

func (l *typed[T]) Width() Width { return l.width }

func (l *typed[T]) Len() int { return len(l.values) }

func (l *typed[T]) Get(i int) uint64 { return uint64(l.values[i]) }

func (l *typed[T]) Or(i int, m uint64) { l.values[i] |= T(m) }

func (l *typed[T]) AndNot(i int, m uint64) { l.values[i] &^= T(m) }

func (l *typed[T]) OrAll(m uint64) {
	t := T(m)
	if t == 0 {
		return
	}
	for i := range l.values {
		l.values[i] |= t
	}
}

func (l *typed[T]) AndNotAll(m uint64) {
	t := T(m)
	if t == 0 {
		return
	}
	for i := range l.values {
		l.values[i] &^= t
	}
}

func (l *typed[T]) Widen(to Width) (Lane, error) {
	if to <= l.width {
		return nil, fmt.Errorf("lane: cannot widen %s to %s", l.width, to)
	}
	switch to {
	case W16:
		return &typed[uint16]{width: to, values: widen[T, uint16](l.values)}, nil
	case W32:
		return &typed[uint32]{width: to, values: widen[T, uint32](l.values)}, nil
	case W64:
		return &typed[uint64]{width: to, values: widen[T, uint64](l.values)}, nil
	default:
		return nil, fmt.Errorf("lane: unsupported width %d", to)
	}
}

// widen copies src into a freshly allocated slice of the wider type,
// in ascending index order.
func widen[S, D unsigned](src []S) []D {
	dst := make([]D, len(src))
	for i, v := range src {
		dst[i] = D(v)
	}
	return dst
}

func (l *typed[T]) AppendLE(dst []byte) []byte {
	for _, v := range l.values {
		switch l.width {
		case W8:
			dst = append(dst, uint8(v))
		case W16:
			dst = binary.LittleEndian.AppendUint16(dst, uint16(v))
		case W32:
			dst = binary.LittleEndian.AppendUint32(dst, uint32(v))
		default:
			dst = binary.LittleEndian.AppendUint64(dst, uint64(v))
		}
	}
	return dst
}

// DecodeLE builds a lane of width w from n little-endian values in src.
func DecodeLE(w Width, n int, src []byte) (Lane, error) {
	if !w.Valid() {
		return nil, fmt.Errorf("lane: unsupported width %d", w)
	}
	if n < 0 || len(src) != n*w.Bytes() {
		return nil, fmt.Errorf("lane: expected %d bytes for %d %s values, got %d", n*w.Bytes(), n, w, len(src))
	}
	l, err := New(w, n)
	if err != nil {
		return nil, err
	}
	step := w.Bytes()
	for i := 0; i < n; i++ {
		b := src[i*step : (i+1)*step]
		var v uint64
		switch w {
		case W8:
			v = uint64(b[0])
		case W16:
			v = uint64(binary.LittleEndian.Uint16(b))
		case W32:
			v = uint64(binary.LittleEndian.Uint32(b))
		default:
			v = binary.LittleEndian.Uint64(b)
		}
		l.Or(i, v)
	}
	return l, nil
}
