package arena

import (
	"reflect"
	"unsafe"

	"github.com/cockroachdb/errors"
)

var errNoStorage = errors.New("arena: allocator has no storage")

// Source is a memory resource that allocators draw from. *Storage and Heap
// are the two sources shipped with the package. Implementations should be
// comparable, typically pointers; see Equal.
type Source interface {
	// Reserve returns memory for l, aligned to l.Align.
	Reserve(l Layout) (unsafe.Pointer, error)
	// Return hands back memory obtained from Reserve with the same layout.
	Return(p unsafe.Pointer, l Layout)
}

// Allocator is the capability set a container consumes to obtain storage
// for values of type T.
type Allocator[T any] interface {
	// Allocate returns n contiguous zeroed slots. A failure leaves the
	// underlying source unchanged.
	Allocate(n int) ([]T, error)

	// Deallocate releases slots obtained from Allocate. It may be a no-op.
	Deallocate(p []T)

	// Construct initializes the slot at p by calling init, which may be nil.
	// If init fails or panics, the slot is reset to the zero value before
	// the failure propagates.
	Construct(p *T, init func(*T) error) error

	// Destroy resets the slot at p, dropping any references it holds.
	Destroy(p *T)

	// Source returns the resource the allocator draws from. Two allocators
	// are interchangeable iff their sources are equal.
	Source() Source

	// PropagateOnCopy reports whether a copied container keeps using this
	// allocator. When false, the copy gets a fresh default allocator.
	PropagateOnCopy() bool
}

// StackAllocator is a lightweight handle that bump-allocates from a
// Storage. Copies share the same Storage; Deallocate never reclaims space.
//
// T must not hold pointers other than pointers to T itself; see
// ErrPointerType.
type StackAllocator[T any] struct {
	stor *Storage
	err  error // non-nil when T cannot live in the block
}

// NewStackAllocator returns an allocator for T drawing from s. If T holds
// pointers the allocator is still returned, but every Allocate fails with
// an error wrapping ErrPointerType.
func NewStackAllocator[T any](s *Storage) StackAllocator[T] {
	return StackAllocator[T]{stor: s, err: checkElem[T]()}
}

// Allocate reserves room for n values of T in the storage. It returns nil
// if n <= 0.
func (a StackAllocator[T]) Allocate(n int) ([]T, error) {
	if a.err != nil {
		return nil, a.err
	}
	if n <= 0 {
		return nil, nil
	}
	if a.stor == nil {
		return nil, errNoStorage
	}
	p, err := a.stor.Reserve(rawLayout[T](n))
	if err != nil {
		return nil, err
	}
	return unsafe.Slice((*T)(p), n), nil
}

// Deallocate is a no-op: bump storage is only reclaimed as a whole.
func (a StackAllocator[T]) Deallocate(p []T) {
	if len(p) == 0 || a.stor == nil {
		return
	}
	a.stor.Return(unsafe.Pointer(unsafe.SliceData(p)), rawLayout[T](len(p)))
}

// Construct initializes *p with init.
func (a StackAllocator[T]) Construct(p *T, init func(*T) error) error {
	return construct(p, init)
}

// Destroy zeroes *p.
func (a StackAllocator[T]) Destroy(p *T) {
	destroy(p)
}

// Source returns the referenced Storage.
func (a StackAllocator[T]) Source() Source {
	return a.stor
}

// PropagateOnCopy is true: a copied container shares the arena.
func (a StackAllocator[T]) PropagateOnCopy() bool {
	return true
}

// Storage returns the referenced Storage.
func (a StackAllocator[T]) Storage() *Storage {
	return a.stor
}

// Cap returns the capacity of the referenced Storage in bytes.
func (a StackAllocator[T]) Cap() int {
	if a.stor == nil {
		return 0
	}
	return a.stor.Cap()
}

// Heap is the garbage collected Go heap used as a Source.
type Heap struct{}

// Reserve allocates l with full type information. Layouts built without
// LayoutOf cannot be served.
func (Heap) Reserve(l Layout) (unsafe.Pointer, error) {
	if _, err := l.Bytes(); err != nil {
		return nil, err
	}
	if l.Count <= 0 {
		return unsafe.Pointer(&zeroBase), nil
	}
	p := l.New()
	if p == nil {
		return nil, errors.Newf("arena: layout of %d bytes carries no type", l.Size)
	}
	return p, nil
}

// Return leaves the memory to the garbage collector.
func (Heap) Return(unsafe.Pointer, Layout) {}

// HeapAllocator is the general-purpose allocator. Its zero value is ready
// to use and all instances are interchangeable.
type HeapAllocator[T any] struct{}

// Allocate returns n zeroed values from the Go heap.
func (HeapAllocator[T]) Allocate(n int) ([]T, error) {
	if n <= 0 {
		return nil, nil
	}
	return make([]T, n), nil
}

// Deallocate leaves p to the garbage collector.
func (HeapAllocator[T]) Deallocate([]T) {}

// Construct initializes *p with init.
func (HeapAllocator[T]) Construct(p *T, init func(*T) error) error {
	return construct(p, init)
}

// Destroy zeroes *p so that it no longer keeps anything alive.
func (HeapAllocator[T]) Destroy(p *T) {
	destroy(p)
}

// Source returns Heap.
func (HeapAllocator[T]) Source() Source {
	return Heap{}
}

// PropagateOnCopy is true.
func (HeapAllocator[T]) PropagateOnCopy() bool {
	return true
}

// sourceAllocator serves any other Source.
type sourceAllocator[T any] struct {
	src Source
}

func (a sourceAllocator[T]) Allocate(n int) ([]T, error) {
	if n <= 0 {
		return nil, nil
	}
	p, err := a.src.Reserve(LayoutOf[T](n))
	if err != nil {
		return nil, err
	}
	return unsafe.Slice((*T)(p), n), nil
}

func (a sourceAllocator[T]) Deallocate(p []T) {
	if len(p) == 0 {
		return
	}
	a.src.Return(unsafe.Pointer(unsafe.SliceData(p)), rawLayout[T](len(p)))
}

func (a sourceAllocator[T]) Construct(p *T, init func(*T) error) error {
	return construct(p, init)
}

func (a sourceAllocator[T]) Destroy(p *T) { destroy(p) }

func (a sourceAllocator[T]) Source() Source { return a.src }

func (a sourceAllocator[T]) PropagateOnCopy() bool { return true }

// Bind returns an allocator for T that draws from src. A nil source means
// the heap.
func Bind[T any](src Source) Allocator[T] {
	switch s := src.(type) {
	case nil, Heap:
		return HeapAllocator[T]{}
	case *Storage:
		return NewStackAllocator[T](s)
	default:
		return sourceAllocator[T]{src: src}
	}
}

// Rebind returns an allocator for U sharing a's source. Containers use it
// to turn an element allocator into a node allocator.
func Rebind[U, T any](a Allocator[T]) Allocator[U] {
	if a == nil {
		return HeapAllocator[U]{}
	}
	return Bind[U](a.Source())
}

// Equal reports whether a and b draw from the same source, in which case
// memory allocated by one may be released through the other.
//
// Sources are compared with ==, so a Source should be a pointer or another
// comparable type. Allocators over a source of an incomparable type are
// never equal.
func Equal[T, U any](a Allocator[T], b Allocator[U]) bool {
	sa, sb := a.Source(), b.Source()
	if !comparableSource(sa) || !comparableSource(sb) {
		return false
	}
	return sa == sb
}

func comparableSource(src Source) bool {
	t := reflect.TypeOf(src)
	return t == nil || t.Comparable()
}

// SelectOnCopy returns the allocator a container copy should use: a itself
// when it propagates, otherwise a fresh heap allocator.
func SelectOnCopy[T any](a Allocator[T]) Allocator[T] {
	if a != nil && a.PropagateOnCopy() {
		return a
	}
	return HeapAllocator[T]{}
}

// New allocates one zeroed T from a.
func New[T any](a Allocator[T]) (*T, error) {
	s, err := a.Allocate(1)
	if err != nil {
		return nil, err
	}
	return &s[0], nil
}

// Delete destroys *p and hands it back to a.
func Delete[T any](a Allocator[T], p *T) {
	if p == nil {
		return
	}
	a.Destroy(p)
	a.Deallocate(unsafe.Slice(p, 1))
}

func construct[T any](p *T, init func(*T) error) error {
	var zero T
	*p = zero
	if init == nil {
		return nil
	}
	ok := false
	defer func() {
		if !ok {
			*p = zero
		}
	}()
	if err := init(p); err != nil {
		return err
	}
	ok = true
	return nil
}

func destroy[T any](p *T) {
	var zero T
	*p = zero
}
