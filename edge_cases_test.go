package arena_test

import (
	"math"
	"runtime"
	"testing"
	"unsafe"

	"github.com/cockroachdb/errors"

	arena "github.com/pavanmanishd/stackarena"
	"github.com/pavanmanishd/stackarena/list"
)

// TestEdgeCases covers edge cases of the public API
func TestEdgeCases(t *testing.T) {
	t.Run("LargeAllocations", func(t *testing.T) {
		s := arena.NewStorage(1 << 20)
		defer s.Release()

		a := arena.NewStackAllocator[byte](s)
		large, err := a.Allocate(1 << 20)
		if err != nil {
			t.Fatalf("Allocation of the whole block failed: %v", err)
		}
		if len(large) != 1<<20 {
			t.Errorf("Large allocation: got %d, want %d", len(large), 1<<20)
		}

		// Nothing is left, not even one byte.
		if _, err := a.Allocate(1); !errors.Is(err, arena.ErrOutOfMemory) {
			t.Errorf("Allocation after full block: got %v, want ErrOutOfMemory", err)
		}
	})

	t.Run("IntegerOverflowProtection", func(t *testing.T) {
		s := arena.NewStorage(1024)
		defer s.Release()

		a := arena.NewStackAllocator[[1 << 20]byte](s)
		_, err := a.Allocate(math.MaxInt)
		if !errors.Is(err, arena.ErrOutOfMemory) {
			t.Errorf("Overflowing allocation: got %v, want ErrOutOfMemory", err)
		}
		if s.Used() != 0 {
			t.Errorf("Used after overflow: got %d, want 0", s.Used())
		}
	})

	t.Run("AlignmentEdgeCases", func(t *testing.T) {
		s := arena.NewStorage(1024)
		defer s.Release()

		// Test alignment with various types
		type AlignTest1 struct{ a int8 }
		type AlignTest2 struct{ a int64 }
		type AlignTest3 struct {
			a int8
			b int64
		}

		p1, _ := arena.New[AlignTest1](arena.NewStackAllocator[AlignTest1](s))
		p2, _ := arena.New[AlignTest2](arena.NewStackAllocator[AlignTest2](s))
		p3, _ := arena.New[AlignTest3](arena.NewStackAllocator[AlignTest3](s))

		if addr := uintptr(unsafe.Pointer(p1)); addr%unsafe.Alignof(AlignTest1{}) != 0 {
			t.Errorf("AlignTest1 not properly aligned: %x", addr)
		}
		if addr := uintptr(unsafe.Pointer(p2)); addr%unsafe.Alignof(AlignTest2{}) != 0 {
			t.Errorf("AlignTest2 not properly aligned: %x", addr)
		}
		if addr := uintptr(unsafe.Pointer(p3)); addr%unsafe.Alignof(AlignTest3{}) != 0 {
			t.Errorf("AlignTest3 not properly aligned: %x", addr)
		}
	})

	t.Run("UseAfterRelease", func(t *testing.T) {
		s := arena.NewStorage(1024)
		a := arena.NewStackAllocator[int](s)
		s.Release()

		testPanic := func(name string, fn func()) {
			defer func() {
				if r := recover(); r == nil {
					t.Errorf("%s: expected panic after Release()", name)
				}
			}()
			fn()
		}

		testPanic("Reserve", func() { s.Reserve(arena.LayoutOf[int](1)) })
		testPanic("Allocate", func() { a.Allocate(1) })
		testPanic("New", func() { arena.New[int](a) })
	})

	t.Run("MultipleReleases", func(t *testing.T) {
		s := arena.NewStorage(1024)
		s.Release()
		// Multiple releases should be safe
		s.Release()
		s.Release()
	})

	t.Run("EmptySliceAllocations", func(t *testing.T) {
		s := arena.NewStorage(1024)
		defer s.Release()

		a := arena.NewStackAllocator[int](s)
		s1, _ := a.Allocate(0)
		s2, _ := a.Allocate(-1)
		if s1 != nil || s2 != nil {
			t.Error("Empty slice allocations should return nil")
		}
	})
}

// TestDisjointReservations fills a block with interleaved requests of
// different widths and checks that no two of them share a byte.
func TestDisjointReservations(t *testing.T) {
	s := arena.NewStorage(4096)
	defer s.Release()

	type span struct{ lo, hi uintptr }
	var spans []span
	record := func(p unsafe.Pointer, size uintptr) {
		lo := uintptr(p)
		spans = append(spans, span{lo, lo + size})
	}

	bytes := arena.NewStackAllocator[[3]byte](s)
	words := arena.NewStackAllocator[int64](s)
	halves := arena.NewStackAllocator[[5]int16](s)
	for i := 0; ; i++ {
		var err error
		switch i % 3 {
		case 0:
			var b []([3]byte)
			if b, err = bytes.Allocate(1 + i%4); err == nil {
				record(unsafe.Pointer(&b[0]), uintptr(len(b))*3)
			}
		case 1:
			var w []int64
			if w, err = words.Allocate(1); err == nil {
				record(unsafe.Pointer(&w[0]), 8)
			}
		case 2:
			var h [][5]int16
			if h, err = halves.Allocate(2); err == nil {
				record(unsafe.Pointer(&h[0]), 20)
			}
		}
		if err != nil {
			if !errors.Is(err, arena.ErrOutOfMemory) {
				t.Fatalf("request %d: %v", i, err)
			}
			break
		}
	}

	for i := 1; i < len(spans); i++ {
		if spans[i].lo < spans[i-1].hi {
			t.Errorf("reservation %d [%#x,%#x) overlaps the previous one ending at %#x",
				i, spans[i].lo, spans[i].hi, spans[i-1].hi)
		}
	}
	if last := spans[len(spans)-1]; last.hi-spans[0].lo > uintptr(s.Cap()) {
		t.Errorf("reservations span %d bytes of a %d byte block", last.hi-spans[0].lo, s.Cap())
	}
}

// TestTypeSpecificAllocations tests allocation of various Go types
func TestTypeSpecificAllocations(t *testing.T) {
	s := arena.NewStorage(4096)
	defer s.Release()

	t.Run("BasicTypes", func(t *testing.T) {
		pBool, _ := arena.New[bool](arena.NewStackAllocator[bool](s))
		pInt8, _ := arena.New[int8](arena.NewStackAllocator[int8](s))
		pInt16, _ := arena.New[int16](arena.NewStackAllocator[int16](s))
		pInt32, _ := arena.New[int32](arena.NewStackAllocator[int32](s))
		pInt64, _ := arena.New[int64](arena.NewStackAllocator[int64](s))
		pFloat32, _ := arena.New[float32](arena.NewStackAllocator[float32](s))
		pFloat64, _ := arena.New[float64](arena.NewStackAllocator[float64](s))

		// Verify zero initialization
		if *pBool || *pInt8 != 0 || *pInt16 != 0 || *pInt32 != 0 || *pInt64 != 0 ||
			*pFloat32 != 0 || *pFloat64 != 0 {
			t.Error("Basic types not properly zero-initialized")
		}

		// Verify writability
		*pBool = true
		*pInt64 = 12345
		*pFloat64 = 3.14159

		if !*pBool || *pInt64 != 12345 || *pFloat64 != 3.14159 {
			t.Error("Could not write to allocated basic types")
		}
	})

	t.Run("ArraysAndSlices", func(t *testing.T) {
		pArray, _ := arena.New[[10]int](arena.NewStackAllocator[[10]int](s))
		for i := range pArray {
			if pArray[i] != 0 {
				t.Errorf("Array element %d not zero-initialized: %d", i, pArray[i])
			}
			pArray[i] = i * 2
		}

		slice, _ := arena.NewStackAllocator[int](s).Allocate(20)
		if len(slice) != 20 || cap(slice) != 20 {
			t.Errorf("Slice allocation failed: len=%d, cap=%d", len(slice), cap(slice))
		}
		for i := range slice {
			slice[i] = i * 3
		}
		for i := range slice {
			if slice[i] != i*3 {
				t.Errorf("Slice element %d: got %d, want %d", i, slice[i], i*3)
			}
		}
	})
}

// TestDroppedStoragesAreCollected builds arena-backed lists on many
// short-lived storages and checks that none of the blocks stay reachable
// once the lists are gone, while a list still in use keeps its own block.
func TestDroppedStoragesAreCollected(t *testing.T) {
	if testing.Short() {
		t.Skip("allocates about 64 MiB")
	}
	const (
		rounds = 256
		block  = 256 << 10
	)

	kept := list.New[int64](arena.NewStackAllocator[int64](arena.NewStorage(block)))
	for i := int64(0); i < 1000; i++ {
		if err := kept.PushBack(i); err != nil {
			t.Fatal(err)
		}
	}

	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)

	for i := 0; i < rounds; i++ {
		l := list.New[int64](arena.NewStackAllocator[int64](arena.NewStorage(block)))
		for {
			if err := l.PushBack(int64(i)); err != nil {
				break
			}
		}
		if i%2 == 0 {
			l.Clear()
		}
	}

	runtime.GC()
	runtime.ReadMemStats(&after)

	if grown := int64(after.HeapAlloc) - int64(before.HeapAlloc); grown > 8*block {
		t.Errorf("live heap grew by %d bytes after dropping %d storages", grown, rounds)
	}

	// The surviving list was not disturbed by the collections.
	n := int64(0)
	for v := range kept.All() {
		if v != n {
			t.Fatalf("kept[%d] = %d after GC", n, v)
		}
		n++
	}
	if n != 1000 {
		t.Errorf("kept list has %d elements, want 1000", n)
	}
}
