package list

import (
	"iter"
	"unsafe"

	arena "github.com/pavanmanishd/stackarena"
)

// node is one link of the ring. The sentinel is a node that never holds
// a value.
type node[T any] struct {
	next, prev *node[T]
	value      T
}

// List is a doubly linked list whose nodes all come from an
// arena.Allocator. The zero value is an empty list backed by the Go heap.
//
// A List must not be copied by value after first use; use Clone or Assign.
// It is not goroutine-safe.
type List[T any] struct {
	alloc arena.Allocator[T]       // allocator the list was built with
	nodes arena.Allocator[node[T]] // alloc rebound to the node type
	root  node[T]                  // sentinel: root.next is the first element, root.prev the last
	len   int
}

// NodeSize returns the number of bytes one element of a List[T] takes
// from an arena. Nodes of one type pack without padding, so a Storage of
// n*NodeSize[T]() bytes holds exactly n elements.
func NodeSize[T any]() int {
	return int(unsafe.Sizeof(node[T]{}))
}

// New returns an empty list drawing nodes from a. A nil allocator means
// the Go heap.
func New[T any](a arena.Allocator[T]) *List[T] {
	l := &List[T]{}
	l.init(a)
	return l
}

// NewN returns a list of n zero values. If any node cannot be allocated,
// every node allocated by the call is released and the error is returned.
func NewN[T any](a arena.Allocator[T], n int) (*List[T], error) {
	l := New(a)
	if err := l.fill(n, func(*T) error { return nil }); err != nil {
		return nil, err
	}
	return l, nil
}

// NewFilled returns a list of n copies of v, with the same unwinding
// guarantee as NewN.
func NewFilled[T any](a arena.Allocator[T], n int, v T) (*List[T], error) {
	l := New(a)
	if err := l.fill(n, func(dst *T) error { return copyValue(dst, v) }); err != nil {
		return nil, err
	}
	return l, nil
}

// From returns a list holding the values of seq in order.
func From[T any](a arena.Allocator[T], seq iter.Seq[T]) (*List[T], error) {
	l := New(a)
	if err := l.appendSeq(seq); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *List[T]) init(a arena.Allocator[T]) {
	if a == nil {
		a = arena.HeapAllocator[T]{}
	}
	l.alloc = a
	l.nodes = arena.Rebind[node[T]](a)
	l.root.next = &l.root
	l.root.prev = &l.root
	l.len = 0
}

// lazyInit sets up a zero List on first use.
func (l *List[T]) lazyInit() {
	if l.root.next == nil {
		l.init(l.alloc)
	}
}

// Len returns the number of elements. O(1).
func (l *List[T]) Len() int { return l.len }

// Front returns the first element, or false if the list is empty.
func (l *List[T]) Front() (T, bool) {
	if l.len == 0 {
		var zero T
		return zero, false
	}
	return l.root.next.value, true
}

// Back returns the last element, or false if the list is empty.
func (l *List[T]) Back() (T, bool) {
	if l.len == 0 {
		var zero T
		return zero, false
	}
	return l.root.prev.value, true
}

// Allocator returns the allocator the list draws from.
func (l *List[T]) Allocator() arena.Allocator[T] {
	l.lazyInit()
	return l.alloc
}

// PushFront inserts a copy of v at the front. On error the list is
// unchanged.
func (l *List[T]) PushFront(v T) error {
	l.lazyInit()
	_, err := l.insertValue(l.root.next, v)
	return err
}

// PushBack inserts a copy of v at the back. On error the list is
// unchanged.
func (l *List[T]) PushBack(v T) error {
	l.lazyInit()
	_, err := l.insertValue(&l.root, v)
	return err
}

// PopFront removes and returns the first element. The list must not be
// empty.
func (l *List[T]) PopFront() T {
	if l.len == 0 {
		panic("list: PopFront on empty list")
	}
	return l.remove(l.root.next)
}

// PopBack removes and returns the last element. The list must not be
// empty.
func (l *List[T]) PopBack() T {
	if l.len == 0 {
		panic("list: PopBack on empty list")
	}
	return l.remove(l.root.prev)
}

// Insert inserts a copy of v before pos and returns an iterator to it.
// pos may be End. On error the list is unchanged.
func (l *List[T]) Insert(pos Iterator[T], v T) (Iterator[T], error) {
	l.lazyInit()
	l.check(pos)
	nd, err := l.insertValue(pos.n, v)
	if err != nil {
		return pos, err
	}
	return Iterator[T]{list: l, n: nd}, nil
}

// Erase removes the element at pos and returns an iterator to the element
// that followed it. Only iterators to the removed element are invalidated.
func (l *List[T]) Erase(pos Iterator[T]) Iterator[T] {
	l.lazyInit()
	l.check(pos)
	if pos.n == &l.root {
		panic("list: Erase of end iterator")
	}
	next := pos.n.next
	l.remove(pos.n)
	return Iterator[T]{list: l, n: next}
}

// Clear destroys every element and hands every node back to the
// allocator.
func (l *List[T]) Clear() {
	for l.len > 0 {
		l.remove(l.root.prev)
	}
}

// check panics unless pos is a live position in l.
func (l *List[T]) check(pos Iterator[T]) {
	if pos.list != l {
		panic("list: iterator does not belong to this list")
	}
	if pos.n == nil || pos.n.next == nil {
		panic("list: invalid iterator")
	}
}

func (l *List[T]) insertValue(at *node[T], v T) (*node[T], error) {
	return l.insertBefore(at, func(dst *T) error { return copyValue(dst, v) })
}

// insertBefore links a node built by ctor in front of at.
func (l *List[T]) insertBefore(at *node[T], ctor func(*T) error) (*node[T], error) {
	nd, err := l.newNode(ctor)
	if err != nil {
		return nil, err
	}
	nd.prev = at.prev
	nd.next = at
	at.prev.next = nd
	at.prev = nd
	l.len++
	return nd, nil
}

// newNode allocates and constructs one node. If construction fails or
// panics, the node is handed back before the failure propagates.
func (l *List[T]) newNode(ctor func(*T) error) (*node[T], error) {
	nd, err := arena.New(l.nodes)
	if err != nil {
		return nil, err
	}
	ok := false
	defer func() {
		if !ok {
			arena.Delete(l.nodes, nd)
		}
	}()
	err = l.nodes.Construct(nd, func(n *node[T]) error { return ctor(&n.value) })
	if err != nil {
		return nil, err
	}
	ok = true
	return nd, nil
}

// remove unlinks nd, destroys it and hands it back.
func (l *List[T]) remove(nd *node[T]) T {
	nd.prev.next = nd.next
	nd.next.prev = nd.prev
	v := nd.value
	arena.Delete(l.nodes, nd)
	l.len--
	return v
}

// fill appends n nodes built by ctor, all or nothing.
func (l *List[T]) fill(n int, ctor func(*T) error) error {
	l.lazyInit()
	g := l.guard()
	defer g.rollback()
	for i := 0; i < n; i++ {
		if _, err := l.insertBefore(&l.root, ctor); err != nil {
			return err
		}
	}
	g.commit()
	return nil
}

// appendSeq appends the values of seq, all or nothing. seq must not walk
// l itself.
func (l *List[T]) appendSeq(seq iter.Seq[T]) error {
	l.lazyInit()
	g := l.guard()
	defer g.rollback()
	var err error
	for v := range seq {
		if _, err = l.insertValue(&l.root, v); err != nil {
			break
		}
	}
	if err != nil {
		return err
	}
	g.commit()
	return nil
}

// guard undoes appends made after it was taken unless committed. It runs
// on error returns and panics alike.
type guard[T any] struct {
	l    *List[T]
	len  int
	done bool
}

func (l *List[T]) guard() guard[T] {
	return guard[T]{l: l, len: l.len}
}

func (g *guard[T]) commit() { g.done = true }

func (g *guard[T]) rollback() {
	if g.done {
		return
	}
	for g.l.len > g.len {
		g.l.remove(g.l.root.prev)
	}
}
