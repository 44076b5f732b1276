// Package handlers implements the ~30 concrete constraint kinds of spec
// §4.2, each satisfying the handler.Handler contract.
package handlers

import (
	"github.com/rawblock/sudoku-engine/internal/grid"
	"github.com/rawblock/sudoku-engine/internal/handler"
	"github.com/rawblock/sudoku-engine/internal/shape"
)

// GivenCandidates restricts each of its cells to an externally supplied
// mask. It is always registered as the per-cell SINGLETON_HANDLER (spec
// §4.2 table): grounded on the teacher's address_watchlist.go "exact match
// against a pinned external fact" lookup.
type GivenCandidates struct {
	handler.Base

	Masks []uint32 // parallel to CellList
}

func NewGivenCandidates(cells []int, masks []uint32) *GivenCandidates {
	return &GivenCandidates{
		Base:  handler.Base{CellList: cells, IsEssential: true},
		Masks: masks,
	}
}

func (h *GivenCandidates) Initialize(g grid.Grid, _ *handler.CellExclusions, _ shape.Grid, _ *handler.StateAllocator) bool {
	for i, c := range h.CellList {
		after, _ := g.Intersect(c, h.Masks[i])
		if after == 0 {
			return false
		}
	}
	return true
}

func (h *GivenCandidates) EnforceConsistency(g grid.Grid, acc *handler.Accumulator) bool {
	for i, c := range h.CellList {
		after, changed := g.Intersect(c, h.Masks[i])
		if after == 0 {
			return false
		}
		if changed && acc != nil {
			acc.AddForCells([]int{c})
		}
	}
	return true
}
