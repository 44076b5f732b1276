package handlers

import (
	"github.com/rawblock/sudoku-engine/internal/grid"
	"github.com/rawblock/sudoku-engine/internal/handler"
	"github.com/rawblock/sudoku-engine/internal/shape"
)

// Or requires at least one branch's handler set to remain consistent; a
// candidate survives in a cell only if some branch, run over a sandboxed
// clone of the grid, keeps it. And requires every branch to hold against
// the very same grid (no sandbox needed — a conjunction's branches already
// share the one world they must all agree on). Grounded on
// realtime_risk.go's "evaluate N branches against a cloned snapshot, merge
// surviving state" shape (spec §4.2, §4.4 "sandboxed grids").
type Or struct {
	handler.Base

	Branches [][]handler.Handler
}

func NewOr(cells []int, branches [][]handler.Handler) *Or {
	return &Or{Base: handler.Base{CellList: cells, IsEssential: true}, Branches: branches}
}

func (h *Or) Initialize(g grid.Grid, _ *handler.CellExclusions, _ shape.Grid, _ *handler.StateAllocator) bool {
	return h.enforce(g, nil)
}

func (h *Or) EnforceConsistency(g grid.Grid, acc *handler.Accumulator) bool {
	return h.enforce(g, acc)
}

func (h *Or) enforce(g grid.Grid, acc *handler.Accumulator) bool {
	if len(h.Branches) == 0 {
		return true // an Or with no branches is vacuously satisfied -- callers should prefer NewFalse instead
	}

	survivors := make(map[int]uint32, len(h.CellList))
	anyBranchSurvived := false
	for _, branch := range h.Branches {
		sandbox := g.Clone()
		if !runToFixpoint(sandbox, branch) {
			continue
		}
		anyBranchSurvived = true
		for _, c := range h.CellList {
			survivors[c] |= sandbox.Get(c)
		}
	}
	if !anyBranchSurvived {
		return false
	}

	changed := false
	for _, c := range h.CellList {
		mask := g.Get(c)
		after, did := g.Intersect(c, mask&survivors[c])
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

// And requires every branch's handler set to remain consistent against the
// outer grid directly: no cloning, since a conjunction's branches narrow
// the same world together rather than compete across alternate worlds.
type And struct {
	handler.Base

	Branches [][]handler.Handler
}

func NewAnd(cells []int, branches [][]handler.Handler) *And {
	return &And{Base: handler.Base{CellList: cells, IsEssential: true}, Branches: branches}
}

func (h *And) Initialize(g grid.Grid, _ *handler.CellExclusions, _ shape.Grid, _ *handler.StateAllocator) bool {
	return h.enforce(g, nil)
}

func (h *And) EnforceConsistency(g grid.Grid, acc *handler.Accumulator) bool {
	return h.enforce(g, acc)
}

func (h *And) enforce(g grid.Grid, acc *handler.Accumulator) bool {
	for _, branch := range h.Branches {
		if !runToFixpoint(g, branch) {
			return false
		}
	}
	if acc != nil {
		acc.AddForCells(h.CellList)
	}
	return true
}

// runToFixpoint repeatedly runs every handler's EnforceConsistency until no
// cell among them changes mask, or one reports a contradiction. This is a
// local propagation loop, independent of the search driver's own work
// queue — Or/And branches are evaluated in isolation and never need to
// re-enqueue handlers outside themselves.
func runToFixpoint(g grid.Grid, handlers []handler.Handler) bool {
	cells := map[int]bool{}
	for _, h := range handlers {
		for _, c := range h.Cells() {
			cells[c] = true
		}
	}
	for {
		before := make(map[int]uint32, len(cells))
		for c := range cells {
			before[c] = g.Get(c)
		}
		for _, h := range handlers {
			if !h.EnforceConsistency(g, nil) {
				return false
			}
		}
		changed := false
		for c := range cells {
			if g.Get(c) != before[c] {
				changed = true
				break
			}
		}
		if !changed {
			return true
		}
	}
}
