package handlers

import (
	"github.com/rawblock/sudoku-engine/internal/grid"
	"github.com/rawblock/sudoku-engine/internal/handler"
	"github.com/rawblock/sudoku-engine/internal/nfa"
	"github.com/rawblock/sudoku-engine/internal/shape"
)

// NFAConstraint requires the value sequence along Cells to be accepted by a
// compiled state machine (spec §4.2 table, §4.6). Grounded on
// factor_graph.go's dependency-group fusion shape, generalized from "fuse
// evidence edges into one posterior" to "fuse forward/backward reachable
// state-sets into one allowed-symbol mask per position."
type NFAConstraint struct {
	handler.Base

	Machine *nfa.NFA
}

func NewNFAConstraint(cells []int, machine *nfa.NFA) *NFAConstraint {
	return &NFAConstraint{
		Base:    handler.Base{CellList: cells, IsEssential: true},
		Machine: machine,
	}
}

func (h *NFAConstraint) Initialize(g grid.Grid, _ *handler.CellExclusions, _ shape.Grid, _ *handler.StateAllocator) bool {
	return h.enforce(g, nil)
}

func (h *NFAConstraint) EnforceConsistency(g grid.Grid, acc *handler.Accumulator) bool {
	return h.enforce(g, acc)
}

func (h *NFAConstraint) enforce(g grid.Grid, acc *handler.Accumulator) bool {
	candidates := make([]uint32, len(h.CellList))
	for i, c := range h.CellList {
		mask := g.Get(c)
		if mask == 0 {
			return false
		}
		candidates[i] = mask
	}
	allowed, ok := h.Machine.Simulate(candidates)
	if !ok {
		return false
	}

	changed := false
	for i, c := range h.CellList {
		after, did := g.Intersect(c, allowed[i])
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
