package arena

// Allocations returns the number of successful reservations.
func (s *Storage) Allocations() uint64 {
	return s.allocs
}

// Failures returns the number of reservations rejected for lack of space.
func (s *Storage) Failures() uint64 {
	return s.failures
}

// Abandoned returns the number of bytes handed back through deallocation.
// They stay consumed until the Storage is released.
func (s *Storage) Abandoned() int {
	return int(s.abandoned)
}

// Utilization returns the ratio of bytes used to capacity (0.0 to 1.0).
// Returns 0.0 if the storage has no capacity.
func (s *Storage) Utilization() float64 {
	capacity := s.Cap()
	if capacity == 0 {
		return 0
	}
	return float64(s.Used()) / float64(capacity)
}

// Metrics returns a snapshot of storage statistics.
func (s *Storage) Metrics() Metrics {
	return Metrics{
		Used:        s.Used(),
		Capacity:    s.Cap(),
		Remaining:   s.Remaining(),
		Abandoned:   s.Abandoned(),
		Allocations: s.Allocations(),
		Failures:    s.Failures(),
		Utilization: s.Utilization(),
	}
}

// Metrics contains statistical information about a Storage.
type Metrics struct {
	Used        int     // Bytes consumed, padding included
	Capacity    int     // Fixed capacity in bytes
	Remaining   int     // Bytes left
	Abandoned   int     // Bytes deallocated but not reclaimed
	Allocations uint64  // Successful reservations
	Failures    uint64  // Reservations that ran out of memory
	Utilization float64 // Ratio of used to capacity (0.0-1.0)
}
