package arena

import (
	"unsafe"

	"github.com/cockroachdb/errors"
)

// wordSize is the alignment guaranteed for the base of every Storage block.
const wordSize = unsafe.Sizeof(uint64(0))

// zeroBase is handed out for zero-byte requests so that they never point
// past the end of a block.
var zeroBase uint64

// Storage is a fixed-size block of memory with a single growing cursor.
// Bytes are never returned individually; the block goes away as a whole
// when the Storage is released or becomes unreachable.
//
// Storage is not goroutine-safe. Every allocator and container built on a
// Storage must not outlive it.
type Storage struct {
	buf    []byte  // backing memory, nil after Release
	cursor uintptr // first free byte in buf

	allocs    uint64  // successful reservations
	failures  uint64  // reservations rejected for lack of space
	abandoned uintptr // bytes handed back through Return
	released  bool
}

// NewStorage creates a Storage holding capacity bytes. A negative capacity
// is treated as zero.
func NewStorage(capacity int) *Storage {
	if capacity < 0 {
		capacity = 0
	}
	s := &Storage{}
	if capacity > 0 {
		// Back the block with words so its base is 8-byte aligned.
		words := make([]uint64, (uintptr(capacity)+wordSize-1)/wordSize)
		s.buf = unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(words))), capacity)
	}
	return s
}

// Reserve claims room for l from the block and returns its address.
//
// The returned address satisfies l.Align. If the request does not fit, the
// error wraps ErrOutOfMemory and the cursor is left exactly where it was.
// Allocators call Reserve; it is the only way the cursor moves.
func (s *Storage) Reserve(l Layout) (unsafe.Pointer, error) {
	s.panicIfReleased()

	align := l.Align
	if align == 0 {
		align = 1
	}
	if !validAlign(align) {
		return nil, errors.Wrapf(ErrBadAlign, "alignment %d", align)
	}
	size, err := l.Bytes()
	if err != nil {
		s.failures++
		return nil, err
	}
	if size == 0 {
		return unsafe.Pointer(&zeroBase), nil
	}

	// Align against the absolute address, not the offset.
	base := uintptr(unsafe.Pointer(unsafe.SliceData(s.buf)))
	off := alignUp(base+s.cursor, align) - base

	limit := uintptr(len(s.buf))
	if off > limit || size > limit-off {
		s.failures++
		return nil, outOfMemory(size, off, s.Remaining())
	}

	p := unsafe.Pointer(&s.buf[off])
	s.cursor = off + size
	s.allocs++
	return p, nil
}

// Return accepts memory obtained from Reserve. The bytes are not reused;
// they are only counted as abandoned.
func (s *Storage) Return(p unsafe.Pointer, l Layout) {
	if p == nil || s.released {
		return
	}
	if size, err := l.Bytes(); err == nil {
		s.abandoned += size
	}
}

// Used returns the number of bytes consumed, alignment padding included.
func (s *Storage) Used() int {
	return int(s.cursor)
}

// Remaining returns the number of bytes left after the cursor.
func (s *Storage) Remaining() int {
	return len(s.buf) - int(s.cursor)
}

// Cap returns the fixed capacity of the block.
func (s *Storage) Cap() int {
	return len(s.buf)
}

// Release drops the block and makes the Storage unusable. Any pointer
// previously handed out becomes invalid. Further reservations panic.
func (s *Storage) Release() {
	s.buf = nil
	s.cursor = 0
	s.released = true
}

func (s *Storage) panicIfReleased() {
	if s.released {
		panic("arena: use after Release()")
	}
}
