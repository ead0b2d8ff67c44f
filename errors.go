package flagmask

import (
	"errors"
	"fmt"
)

var (
	// ErrCapacityExceeded is returned when a flag is registered while all 64
	// bit positions are in use.
	ErrCapacityExceeded = errors.New("maximum flag count reached")

	// ErrOutOfRange is returned when an entity id lies outside [0, size).
	ErrOutOfRange = errors.New("entity id out of range")

	// ErrFlagExists is returned by Register for a name that is already registered.
	ErrFlagExists = errors.New("flag already registered")

	// ErrInvalidSize is returned by New for a negative population size.
	ErrInvalidSize = errors.New("invalid population size")

	// ErrInvalidWidth is returned for a strip width outside {8, 16, 32, 64}.
	ErrInvalidWidth = errors.New("invalid strip width")

	// ErrCorruptSnapshot is returned when a snapshot cannot be decoded.
	ErrCorruptSnapshot = errors.New("corrupt snapshot")
)

// OutOfRangeError reports the first invalid entity id of a mutation.
//
// errors.Is(err, ErrOutOfRange) holds for every OutOfRangeError.
type OutOfRangeError struct {
	ID   int
	Size int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("entity id %d out of range [0, %d)", e.ID, e.Size)
}

func (e *OutOfRangeError) Unwrap() error { return ErrOutOfRange }

func corrupt(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrCorruptSnapshot, fmt.Sprintf(format, args...))
}
