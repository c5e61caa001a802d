package arena

import (
	"math/bits"
	"unsafe"
)

// Layout describes a request for Count contiguous elements of one type.
type Layout struct {
	Size  uintptr // size of one element
	Align uintptr // required alignment of the first element
	Count int     // number of elements

	// make allocates the request on the garbage collected heap with full
	// type information. Nil for layouts built without a type.
	make func() unsafe.Pointer
}

// LayoutOf returns the layout of n values of type T.
func LayoutOf[T any](n int) Layout {
	var zero T
	return Layout{
		Size:  unsafe.Sizeof(zero),
		Align: unsafe.Alignof(zero),
		Count: n,
		make: func() unsafe.Pointer {
			return unsafe.Pointer(unsafe.SliceData(make([]T, n)))
		},
	}
}

// rawLayout is LayoutOf without the heap constructor, for sources that
// only need size and alignment.
func rawLayout[T any](n int) Layout {
	var zero T
	return Layout{Size: unsafe.Sizeof(zero), Align: unsafe.Alignof(zero), Count: n}
}

// Bytes returns Size*Count, or an error if the product overflows.
func (l Layout) Bytes() (uintptr, error) {
	if l.Count <= 0 {
		return 0, nil
	}
	hi, lo := bits.Mul64(uint64(l.Size), uint64(l.Count))
	if hi != 0 || lo > uint64(^uintptr(0)) {
		return 0, overflow(l.Size, l.Count)
	}
	return uintptr(lo), nil
}

// New allocates the layout on the Go heap. It returns nil for layouts that
// carry no type information.
func (l Layout) New() unsafe.Pointer {
	if l.make == nil || l.Count <= 0 {
		return nil
	}
	return l.make()
}

// alignUp rounds off up to the next multiple of align, which must be a
// power of two.
func alignUp(off, align uintptr) uintptr {
	mask := align - 1
	return (off + mask) &^ mask
}

// validAlign reports whether align is a usable alignment.
func validAlign(align uintptr) bool {
	return align != 0 && align&(align-1) == 0
}
