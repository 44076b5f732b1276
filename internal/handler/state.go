package handler

// StateAllocator is a linear per-solve arena for handler-private scratch
// (spec §9 "Handler private state"): handlers request typed slices during
// Initialize and own them for the rest of the solve, eliminating per-node
// heap traffic. Reset() is called once at the start of a solve.
type StateAllocator struct {
	u32Pool []uint32
	intPool []int
}

// NewStateAllocator builds an empty arena.
func NewStateAllocator() *StateAllocator {
	return &StateAllocator{}
}

// Reset discards all outstanding allocations, reusing the backing arrays'
// capacity for the next solve.
func (a *StateAllocator) Reset() {
	a.u32Pool = a.u32Pool[:0]
	a.intPool = a.intPool[:0]
}

// Uint32Slice hands out a zeroed []uint32 of length n, carved from the arena.
func (a *StateAllocator) Uint32Slice(n int) []uint32 {
	start := len(a.u32Pool)
	a.u32Pool = append(a.u32Pool, make([]uint32, n)...)
	return a.u32Pool[start : start+n : start+n]
}

// IntSlice hands out a zeroed []int of length n, carved from the arena.
func (a *StateAllocator) IntSlice(n int) []int {
	start := len(a.intPool)
	a.intPool = append(a.intPool, make([]int, n)...)
	return a.intPool[start : start+n : start+n]
}
