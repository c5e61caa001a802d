package arena

import "github.com/cockroachdb/errors"

var (
	// ErrOutOfMemory is returned when a request does not fit in the
	// remaining capacity of a Storage. It is never retried internally.
	ErrOutOfMemory = errors.New("arena: out of memory")

	// ErrBadAlign is returned for a Layout whose alignment is not a power of two.
	ErrBadAlign = errors.New("arena: alignment must be a power of two")

	// ErrPointerType is returned by allocators over a Storage whose element
	// type holds pointers, strings, slices, maps, channels, functions or
	// interfaces. Such values must come from the heap.
	ErrPointerType = errors.New("arena: element type holds pointers")

	// ErrOverflow is returned when size*count does not fit in a uintptr.
	// Errors carrying it also match ErrOutOfMemory.
	ErrOverflow = errors.New("arena: allocation size overflows")
)

// outOfMemory wraps ErrOutOfMemory with the request that failed.
func outOfMemory(size, offset uintptr, remaining int) error {
	return errors.Wrapf(ErrOutOfMemory,
		"%d bytes requested at offset %d, %d remaining", size, offset, remaining)
}

// overflow reports a size computation that wrapped around.
func overflow(size uintptr, count int) error {
	err := errors.Wrapf(ErrOverflow, "%d elements of %d bytes", count, size)
	return errors.Mark(err, ErrOutOfMemory)
}
