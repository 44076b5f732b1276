package handlers

import (
	"github.com/rawblock/sudoku-engine/internal/grid"
	"github.com/rawblock/sudoku-engine/internal/handler"
	"github.com/rawblock/sudoku-engine/internal/shape"
)

// Priority advertises a branch-priority boost for a cell set without
// enforcing anything itself (spec §4.2 table: "non-enforcing"). Grounded
// on risk_roles.go's role-tagging-without-enforcement pattern: a role label
// that downstream scoring reads but that never rejects a transaction on
// its own.
type Priority struct {
	handler.Base

	Boost int
}

func NewPriority(cells []int, boost int) *Priority {
	return &Priority{Base: handler.Base{CellList: cells, IsEssential: false}, Boost: boost}
}

func (h *Priority) Initialize(grid.Grid, *handler.CellExclusions, shape.Grid, *handler.StateAllocator) bool {
	return true
}

func (h *Priority) EnforceConsistency(grid.Grid, *handler.Accumulator) bool { return true }

// Priority overrides Base's len(CellList) default with the declared boost.
func (h *Priority) Priority() int { return h.Boost }

// True is the identity handler: it never narrows anything and never fails.
// Used by the optimizer/resolver as a neutral placeholder (spec §4.4:
// "And with no branches is True").
type True struct {
	handler.Base
}

func NewTrue() *True { return &True{} }

func (h *True) Initialize(grid.Grid, *handler.CellExclusions, shape.Grid, *handler.StateAllocator) bool {
	return true
}
func (h *True) EnforceConsistency(grid.Grid, *handler.Accumulator) bool { return true }

// False always fails initialization — the resolver's output for a
// constraint tree recognized as unsatisfiable up front.
type False struct {
	handler.Base
}

func NewFalse() *False { return &False{} }

func (h *False) Initialize(grid.Grid, *handler.CellExclusions, shape.Grid, *handler.StateAllocator) bool {
	return false
}
func (h *False) EnforceConsistency(grid.Grid, *handler.Accumulator) bool { return false }

// NewContainer builds a named region with all-different semantics — the
// resolver's target for the `Container` constraint kind, which is AllDifferent
// under a different clue vocabulary (spec §6.2 kind list).
func NewContainer(cells []int) *AllDifferent {
	return NewAllDifferent(cells)
}

// NewNumberedRoom builds a "numbered room" clue: the digit at the position
// named by the border clue states its own position, the same mutual
// implication Indexing already generalizes.
func NewNumberedRoom(houseCells []int, numValues int) *Indexing {
	return NewIndexing(houseCells, numValues)
}
