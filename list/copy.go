package list

import arena "github.com/pavanmanishd/stackarena"

// Cloner is implemented by element types whose copies can fail. The list
// calls Clone every time it stores a copy of such a value.
type Cloner[T any] interface {
	Clone() (T, error)
}

func copyValue[T any](dst *T, v T) error {
	c, ok := any(v).(Cloner[T])
	if !ok {
		*dst = v
		return nil
	}
	cp, err := c.Clone()
	if err != nil {
		return err
	}
	*dst = cp
	return nil
}

// Clone returns a deep copy of l. The copy keeps l's allocator when it
// propagates on copy and uses the heap otherwise. If any element fails to
// copy, every node allocated by the call is released.
func (l *List[T]) Clone() (*List[T], error) {
	c := New(arena.SelectOnCopy(l.Allocator()))
	if err := c.appendSeq(l.All()); err != nil {
		return nil, err
	}
	return c, nil
}

// Assign replaces the contents of l with copies of the elements of src.
// l adopts src's allocator when it propagates on copy. On error l is left
// exactly as it was.
func (l *List[T]) Assign(src *List[T]) error {
	if l == src {
		return nil
	}
	a := l.Allocator()
	if sa := src.Allocator(); sa.PropagateOnCopy() {
		a = sa
	}
	tmp := New(a)
	if err := tmp.appendSeq(src.All()); err != nil {
		return err
	}
	l.Clear()
	l.adopt(tmp)
	return nil
}

// Swap exchanges the contents and allocators of l and o in O(1).
func (l *List[T]) Swap(o *List[T]) {
	if l == o {
		return
	}
	l.lazyInit()
	o.lazyInit()
	var tmp List[T]
	tmp.adopt(l)
	l.adopt(o)
	o.adopt(&tmp)
}

// adopt takes over o's nodes and allocator, leaving o empty.
func (l *List[T]) adopt(o *List[T]) {
	l.alloc, l.nodes, l.len = o.alloc, o.nodes, o.len
	if o.len == 0 {
		l.root.next, l.root.prev = &l.root, &l.root
	} else {
		l.root.next, l.root.prev = o.root.next, o.root.prev
		l.root.next.prev = &l.root
		l.root.prev.next = &l.root
	}
	o.root.next, o.root.prev = &o.root, &o.root
	o.len = 0
}
