package handlers

import (
	"github.com/rawblock/sudoku-engine/internal/grid"
	"github.com/rawblock/sudoku-engine/internal/handler"
	"github.com/rawblock/sudoku-engine/internal/shape"
)

// Indexing requires that the v-th cell of a row/column equals the
// column/row index of value v: for every value v, if the cell at position
// v (1-based) in IndexCells holds value w, then the cell at position w
// holds value v, and vice versa. Grounded on script_analysis.go's
// positional-index lookup table.
type Indexing struct {
	handler.Base

	NumValues int
}

// NewIndexing takes the ordered house cells (position i holds the value
// that names the index) and enforces mutual implication.
func NewIndexing(houseCells []int, numValues int) *Indexing {
	return &Indexing{
		Base:      handler.Base{CellList: houseCells, IsEssential: true},
		NumValues: numValues,
	}
}

func (h *Indexing) Initialize(g grid.Grid, _ *handler.CellExclusions, _ shape.Grid, _ *handler.StateAllocator) bool {
	return h.enforce(g, nil)
}

func (h *Indexing) EnforceConsistency(g grid.Grid, acc *handler.Accumulator) bool {
	return h.enforce(g, acc)
}

// enforce implements: cell[pos] == value  <=>  cell[value] can hold pos.
// For each position pos (1-based, cell h.CellList[pos-1]), if cell[pos] is
// fixed to w, then cell[w] must be restricted to {pos} candidates only if
// w is itself forced; more generally we narrow cell[w]'s candidates to
// exclude values v where cell[v] cannot hold w, and symmetrically.
func (h *Indexing) enforce(g grid.Grid, acc *handler.Accumulator) bool {
	n := len(h.CellList)
	changed := false
	for pos := 1; pos <= n; pos++ {
		posCell := h.CellList[pos-1]
		posMask := g.Get(posCell)
		if posMask == 0 {
			return false
		}
		// For each candidate value w at position pos, the cell at position w
		// must itself be able to hold pos — else w is not a valid candidate here.
		var allowed uint32
		for w := 1; w <= h.NumValues; w++ {
			if posMask&bitFor(w) == 0 {
				continue
			}
			if w < 1 || w > n {
				continue
			}
			wCell := h.CellList[w-1]
			if g.Get(wCell)&bitFor(pos) != 0 {
				allowed |= bitFor(w)
			}
		}
		after, did := g.Intersect(posCell, allowed)
		if after == 0 {
			return false
		}
		if did {
			changed = true
		}
	}
	if changed && acc != nil {
		acc.AddForCells(h.CellList)
	}
	return true
}
