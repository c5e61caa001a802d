// Package arena implements a fixed-capacity bump allocator (memory arena)
// and the allocator interface containers use to draw storage from it.
//
// # Overview
//
// A Storage is a single block of memory with a cursor that only moves
// forward. Allocators borrow from it by bumping the cursor; nothing is
// reclaimed until the whole block is released. This trades reuse for
// speed and zero bookkeeping, which suits:
//
//   - Containers whose nodes all die together
//   - Request-scoped scratch structures
//   - Workloads with a known upper bound on memory
//
// # Basic Usage
//
//	stor := arena.NewStorage(4096)
//	defer stor.Release()
//
//	a := arena.NewStackAllocator[int64](stor)
//	xs, err := a.Allocate(16)
//	if errors.Is(err, arena.ErrOutOfMemory) {
//		// the block is full
//	}
//
// # Allocators
//
// Allocator is the capability set a container consumes: Allocate,
// Deallocate, Construct, Destroy, Source and PropagateOnCopy.
// StackAllocator serves it from a Storage and HeapAllocator from the Go
// heap. Rebind turns an allocator for one type into an allocator for
// another type over the same source; Equal reports whether two allocators
// share a source.
//
// # Failure Semantics
//
// A request that does not fit fails with an error wrapping ErrOutOfMemory
// and leaves the cursor untouched. Failures are never retried.
//
// # Important Notes
//
//   - Storage is not goroutine-safe; concurrent use is unsupported
//   - Allocators and containers must not outlive their Storage
//   - Arena memory is not scanned by the garbage collector, so a
//     StackAllocator refuses element types that hold pointers
//     (ErrPointerType); pointers to the element type itself are allowed as
//     links within one Storage
//   - Use after Release panics
//
// # Metrics
//
//	m := stor.Metrics()
//	fmt.Printf("Utilization: %.2f%%\n", m.Utilization*100)
//	fmt.Printf("Abandoned: %d bytes\n", m.Abandoned)
package arena
