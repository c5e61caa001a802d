package list

import (
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"

	arena "github.com/pavanmanishd/stackarena"
)

var errClone = errors.New("clone failed")

func nodeSize[T any]() int { return NodeSize[T]() }

// checkRing verifies the ring invariants of l.
func checkRing[T any](t require.TestingT, l *List[T]) {
	if l.root.next == nil {
		require.Zero(t, l.len, "uninitialized list with elements")
		return
	}
	n, count := &l.root, 0
	for {
		require.Same(t, n, n.next.prev, "next.prev does not point back")
		n = n.next
		if n == &l.root {
			break
		}
		count++
		require.LessOrEqual(t, count, l.len, "forward walk longer than Len")
	}
	require.Equal(t, l.len, count, "forward walk")

	count = 0
	for n = l.root.prev; n != &l.root; n = n.prev {
		require.Same(t, n, n.prev.next, "prev.next does not point back")
		count++
		require.LessOrEqual(t, count, l.len, "backward walk longer than Len")
	}
	require.Equal(t, l.len, count, "backward walk")
}

// countingSource serves heap memory and tracks how many elements are
// outstanding. It fails the failAt-th reservation and every one after.
type countingSource struct {
	live     int
	reserves int
	failAt   int
}

func (c *countingSource) Reserve(l arena.Layout) (unsafe.Pointer, error) {
	c.reserves++
	if c.failAt > 0 && c.reserves >= c.failAt {
		return nil, errors.Wrap(arena.ErrOutOfMemory, "counting source")
	}
	p, err := arena.Heap{}.Reserve(l)
	if err != nil {
		return nil, err
	}
	c.live += l.Count
	return p, nil
}

func (c *countingSource) Return(_ unsafe.Pointer, l arena.Layout) {
	c.live -= l.Count
}

// flaky is an element whose copies succeed while *budget lasts.
type flaky struct {
	v      int
	budget *int
}

func (f flaky) Clone() (flaky, error) {
	if f.budget != nil {
		if *f.budget == 0 {
			return flaky{}, errClone
		}
		*f.budget--
	}
	return f, nil
}

// grenade panics instead of failing.
type grenade struct {
	v    int
	live bool
}

func (g grenade) Clone() (grenade, error) {
	if g.live {
		panic("grenade")
	}
	return g, nil
}

// at returns the iterator i steps past Begin.
func at[T any](l *List[T], i int) Iterator[T] {
	it := l.Begin()
	for ; i > 0; i-- {
		it = it.Next()
	}
	return it
}

// noPropagate is a heap allocator that asks copies for a fresh allocator.
type noPropagate[T any] struct{ arena.HeapAllocator[T] }

func (noPropagate[T]) PropagateOnCopy() bool { return false }
