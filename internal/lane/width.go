package lane

import "strconv"

// Width is the number of flag bits stored per entity.
type Width uint8

const (
	// W8 stores up to 8 flags per entity (uint8 lanes).
	W8 Width = 8
	// W16 stores up to 16 flags per entity (uint16 lanes).
	W16 Width = 16
	// W32 stores up to 32 flags per entity (uint32 lanes).
	W32 Width = 32
	// W64 stores up to 64 flags per entity (uint64 lanes). Terminal width.
	W64 Width = 64
)

// Valid reports whether w is one of the supported lane widths.
func (w Width) Valid() bool {
	switch w {
	case W8, W16, W32, W64:
		return true
	default:
		return false
	}
}

// Next returns the width a full lane of width w promotes to.
// ok is false once w is W64.
func (w Width) Next() (next Width, ok bool) {
	switch w {
	case W8:
		return W16, true
	case W16:
		return W32, true
	case W32:
		return W64, true
	default:
		return w, false
	}
}

// Bytes returns the encoded size of a single lane value.
func (w Width) Bytes() int { return int(w) / 8 }

func (w Width) String() string {
	if !w.Valid() {
		return "Width(" + strconv.Itoa(int(w)) + ")"
	}
	return "uint" + strconv.Itoa(int(w))
}
