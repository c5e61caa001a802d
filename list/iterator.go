package list

import "iter"

// Iterator designates a position in a List: an element or the end
// sentinel. Iterators stay valid until their element is erased; Swap and
// Assign invalidate all of them.
type Iterator[T any] struct {
	list *List[T]
	n    *node[T]
}

// Begin returns an iterator to the first element, or End if the list is
// empty.
func (l *List[T]) Begin() Iterator[T] {
	l.lazyInit()
	return Iterator[T]{list: l, n: l.root.next}
}

// End returns the past-the-end iterator. It must not be dereferenced.
func (l *List[T]) End() Iterator[T] {
	l.lazyInit()
	return Iterator[T]{list: l, n: &l.root}
}

// RBegin returns an iterator to the last element, the start of a reverse
// walk with Prev.
func (l *List[T]) RBegin() Iterator[T] {
	l.lazyInit()
	return Iterator[T]{list: l, n: l.root.prev}
}

// REnd returns the end of a reverse walk. It is the same sentinel as End.
func (l *List[T]) REnd() Iterator[T] {
	return l.End()
}

// Next returns the iterator to the following position. Next of the last
// element is End; Next of End wraps to the first element.
func (it Iterator[T]) Next() Iterator[T] {
	return Iterator[T]{list: it.list, n: it.n.next}
}

// Prev returns the iterator to the preceding position. Prev of the first
// element is End; Prev of End is the last element.
func (it Iterator[T]) Prev() Iterator[T] {
	return Iterator[T]{list: it.list, n: it.n.prev}
}

// IsEnd reports whether it is the sentinel position.
func (it Iterator[T]) IsEnd() bool {
	return it.list == nil || it.n == &it.list.root
}

// Equal reports whether both iterators designate the same position.
func (it Iterator[T]) Equal(o Iterator[T]) bool {
	return it.n == o.n
}

// Value returns the element at it.
func (it Iterator[T]) Value() T {
	return *it.Ptr()
}

// Ptr returns a pointer to the element at it, valid until the element is
// erased.
func (it Iterator[T]) Ptr() *T {
	if it.IsEnd() || it.n == nil {
		panic("list: dereference of end iterator")
	}
	return &it.n.value
}

// Set overwrites the element at it.
func (it Iterator[T]) Set(v T) {
	*it.Ptr() = v
}

// All returns the elements front to back. The sequence is lazy and may be
// ranged over any number of times.
func (l *List[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		l.lazyInit()
		for n := l.root.next; n != &l.root; {
			next := n.next
			if !yield(n.value) {
				return
			}
			n = next
		}
	}
}

// Backward returns the elements back to front.
func (l *List[T]) Backward() iter.Seq[T] {
	return func(yield func(T) bool) {
		l.lazyInit()
		for n := l.root.prev; n != &l.root; {
			prev := n.prev
			if !yield(n.value) {
				return
			}
			n = prev
		}
	}
}

// Enumerate returns the elements front to back with their index.
func (l *List[T]) Enumerate() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		i := 0
		for v := range l.All() {
			if !yield(i, v) {
				return
			}
			i++
		}
	}
}

// Values returns the elements front to back as a slice.
func (l *List[T]) Values() []T {
	out := make([]T, 0, l.len)
	for v := range l.All() {
		out = append(out, v)
	}
	return out
}
