package list_test

import (
	"fmt"

	"github.com/cockroachdb/errors"

	arena "github.com/pavanmanishd/stackarena"
	"github.com/pavanmanishd/stackarena/list"
)

func Example() {
	stor := arena.NewStorage(1024)
	defer stor.Release()

	l := list.New[int](arena.NewStackAllocator[int](stor))
	l.PushBack(2)
	l.PushBack(3)
	l.PushFront(1)

	for v := range l.All() {
		fmt.Println(v)
	}
	fmt.Println("len:", l.Len())

	// Output:
	// 1
	// 2
	// 3
	// len: 3
}

func ExampleList_Erase() {
	l := list.New[int](nil)
	for i := 1; i <= 6; i++ {
		l.PushBack(i)
	}

	// Drop the odd values while walking.
	for it := l.Begin(); !it.IsEnd(); {
		if it.Value()%2 == 1 {
			it = l.Erase(it)
			continue
		}
		it = it.Next()
	}
	fmt.Println(l.Values())

	// Output:
	// [2 4 6]
}

func ExampleList_PushBack_exhaustion() {
	// Room for two nodes of an int list on 64-bit platforms.
	stor := arena.NewStorage(48)
	l := list.New[int](arena.NewStackAllocator[int](stor))

	for i := 0; i < 3; i++ {
		if err := l.PushBack(i); errors.Is(err, arena.ErrOutOfMemory) {
			fmt.Println("push", i, "failed:", l.Len(), "elements kept")
		}
	}

	// Output:
	// push 2 failed: 2 elements kept
}

func ExampleList_Clone() {
	stor := arena.NewStorage(1024)
	l := list.New[int](arena.NewStackAllocator[int](stor))
	l.PushBack(1)
	l.PushBack(2)

	c, err := l.Clone()
	if err != nil {
		panic(err)
	}
	c.Begin().Set(10)

	fmt.Println(l.Values(), c.Values())
	fmt.Println("same arena:", arena.Equal(l.Allocator(), c.Allocator()))

	// Output:
	// [1 2] [10 2]
	// same arena: true
}

func ExampleList_Backward() {
	l := list.New[rune](nil)
	for _, r := range "abc" {
		l.PushBack(r)
	}
	for r := range l.Backward() {
		fmt.Print(string(r))
	}
	fmt.Println()

	// Output:
	// cba
}
