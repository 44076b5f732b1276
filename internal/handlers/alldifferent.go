package handlers

import (
	"github.com/rawblock/sudoku-engine/internal/grid"
	"github.com/rawblock/sudoku-engine/internal/handler"
	"github.com/rawblock/sudoku-engine/internal/shape"
)

// AllDifferent requires ≤ numValues cells to hold pairwise-distinct values.
// It advertises ExclusionCells, which feed the shared CellExclusions graph
// (spec §4.2 table), and prunes only by removing a fixed cell's value from
// the other cells: grounded on topology_analysis.go's adjacency-set
// construction. When its cell count equals numValues it is
// degenerate with House — the optimizer promotes those to a real House.
type AllDifferent struct {
	handler.Base
}

func NewAllDifferent(cells []int) *AllDifferent {
	return &AllDifferent{Base: handler.Base{CellList: cells, IsEssential: true}}
}

func (h *AllDifferent) Initialize(grid.Grid, *handler.CellExclusions, shape.Grid, *handler.StateAllocator) bool {
	return true
}

// EnforceConsistency does the naked-singleton propagation AllDifferent is
// directly responsible for: a fixed cell's value is removed from the
// candidates of every other cell in the set. The search driver runs no
// separate CellExclusions pruning pass; this is all the pruning the
// handler does.
func (h *AllDifferent) EnforceConsistency(g grid.Grid, acc *handler.Accumulator) bool {
	for _, c := range h.CellList {
		v := singleValue(g.Get(c))
		if v == 0 {
			continue
		}
		bit := bitFor(v)
		for _, other := range h.CellList {
			if other == c {
				continue
			}
			after, changed := g.Intersect(other, ^bit)
			if after == 0 {
				return false
			}
			if changed && acc != nil {
				acc.AddForCells([]int{other})
			}
		}
	}
	return true
}

func (h *AllDifferent) ExclusionCells() []int { return h.CellList }
