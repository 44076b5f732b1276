// Package grid implements the candidate mask buffer and its depth-indexed
// snapshot stack (spec §3, §4.1, §9 "snapshot stack").
package grid

import "github.com/rawblock/sudoku-engine/internal/shape"

// Grid is a flat per-cell candidate-mask buffer for one depth level.
type Grid struct {
	masks []uint32
}

// NewGrid allocates a grid with every cell set to allValues.
func NewGrid(numCells int, allValues uint32) Grid {
	masks := make([]uint32, numCells)
	for i := range masks {
		masks[i] = allValues
	}
	return Grid{masks: masks}
}

// Get returns the candidate mask of a cell.
func (g Grid) Get(cell int) uint32 { return g.masks[cell] }

// Set overwrites the candidate mask of a cell.
func (g Grid) Set(cell int, mask uint32) { g.masks[cell] = mask }

// Intersect narrows a cell's mask, returning the new mask and whether it
// actually changed. A handler calls this and, on change, re-enqueues anyone
// who needs to re-run.
func (g Grid) Intersect(cell int, mask uint32) (uint32, bool) {
	before := g.masks[cell]
	after := before & mask
	if after == before {
		return before, false
	}
	g.masks[cell] = after
	return after, true
}

// Len is the number of cells.
func (g Grid) Len() int { return len(g.masks) }

// CopyFrom overwrites g's buffer with src's contents; both must be the same
// length. Used to clone level d into level d+1 before a branch (spec §9:
// "copies only the mask array").
func (g Grid) CopyFrom(src Grid) { copy(g.masks, src.masks) }

// Clone allocates an independent copy (used by Or/And's sandboxed branches,
// spec §4.2, §9).
func (g Grid) Clone() Grid {
	cp := make([]uint32, len(g.masks))
	copy(cp, g.masks)
	return Grid{masks: cp}
}

// Stack is the numCells+1 rolling snapshot levels used during search. Level
// d is the grid as of just before the d-th branching decision.
type Stack struct {
	levels    []Grid
	allValues uint32
}

// NewStack allocates numCells+1 levels, all initialized to allValues.
func NewStack(numCells int, allValues uint32) *Stack {
	s := &Stack{levels: make([]Grid, numCells+1), allValues: allValues}
	for i := range s.levels {
		s.levels[i] = NewGrid(numCells, allValues)
	}
	return s
}

// Level returns the grid at a given depth.
func (s *Stack) Level(depth int) Grid { return s.levels[depth] }

// Descend copies level d into level d+1 ("push a level" in spec §4.4 step 5).
// Restoring a prior depth needs no action: the driver simply moves its
// depth cursor back down and the next Descend overwrites the stale level.
func (s *Stack) Descend(depth int) {
	s.levels[depth+1].CopyFrom(s.levels[depth])
}

// NumCells reports the per-level cell count.
func (s *Stack) NumCells() int {
	if len(s.levels) == 0 {
		return 0
	}
	return s.levels[0].Len()
}

// ForShape is a convenience constructor mirroring the grid dimensions.
func ForShape(gs shape.Grid) *Stack {
	return NewStack(gs.NumCells(), gs.AllValues())
}
