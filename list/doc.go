// Package list implements a doubly linked list that takes every node from
// an arena.Allocator.
//
// Nodes form a ring around a sentinel held inside the List, so the end
// position costs nothing and the empty list needs no special cases. The
// list owns its nodes but not its allocator: with an arena.StackAllocator
// the nodes live in a Storage that must outlive the list, and erased nodes
// are never reclaimed until that Storage goes away. Element types that hold
// pointers cannot be placed in a Storage; pushes into such a list fail with
// arena.ErrPointerType.
//
//	stor := arena.NewStorage(64 << 10)
//	l := list.New(arena.NewStackAllocator[int](stor))
//	if err := l.PushBack(1); errors.Is(err, arena.ErrOutOfMemory) {
//		// the arena is full; l is unchanged
//	}
//	for v := range l.All() {
//		fmt.Println(v)
//	}
//
// Every operation that allocates either succeeds or leaves the list as it
// was: a node whose element fails to copy (see Cloner) is handed back
// before the error is returned, and bulk operations release every node
// they allocated. Popping an empty list, dereferencing End and passing an
// iterator of another list are programming errors and panic.
package list
