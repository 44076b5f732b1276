// Package handler defines the uniform constraint-handler contract (spec
// §4, §3 "Handler") and the supporting registry/work-queue/exclusion-graph
// machinery the search driver and optimizer build on.
package handler

import (
	"github.com/rawblock/sudoku-engine/internal/grid"
	"github.com/rawblock/sudoku-engine/internal/shape"
)

// ID is a handler's index into a HandlerSet's arena. Cells reference
// handlers by ID, never by pointer, so the grid snapshot stack (which
// copies only mask arrays) never aliases handler state (spec §9).
type ID int

// Handler is the uniform contract every constraint kind implements (spec
// §4.2). A nil CandidateFinders/ExclusionCells is valid — most handlers
// only need Initialize and EnforceConsistency.
type Handler interface {
	// Cells lists the cell indices this handler constrains, fixed after Initialize.
	Cells() []int

	// Essential reports whether this handler contributes soundness (true)
	// or speed only (false — optimizer-synthesized, spec §4.3).
	Essential() bool

	// Initialize prunes the initial grid and allocates private scratch from
	// alloc. Returns false on immediate contradiction.
	Initialize(g grid.Grid, excl *CellExclusions, gs shape.Grid, alloc *StateAllocator) bool

	// EnforceConsistency re-derives local consistency from the current grid,
	// narrowing only cells in Cells() (or additional cells it has declared
	// via Cells() up front, for SameValues-like handlers). Returns false on
	// contradiction. Must be idempotent at fixpoint (spec §4.2).
	EnforceConsistency(g grid.Grid, acc *Accumulator) bool

	// PostInitialize is called once initialization of every handler has
	// reached fixpoint, with a read-only view of level 0.
	PostInitialize(g grid.Grid)

	// Priority defaults to len(Cells()) when a handler doesn't override it;
	// embed DefaultPriority to get that behavior for free.
	Priority() int

	// ExclusionCells returns cell-pairs/sets that must differ, for handlers
	// that contribute to the CellExclusions closure (House, AllDifferent).
	// Returns nil for handlers that don't.
	ExclusionCells() []int

	// CandidateFinders lets a handler re-order or restrict the candidate
	// values offered for one of its cells during branch-cell selection.
	// Returns nil to defer to the default ordering.
	CandidateFinders(g grid.Grid, gs shape.Grid) map[int][]int
}

// Base is embedded by concrete handlers to satisfy the parts of Handler
// that are the same for almost every kind: the cell list, the
// essential/auxiliary tag, the len(cells) default priority, and the no-op
// defaults for ExclusionCells/CandidateFinders/PostInitialize. A handler
// overrides whichever method its semantics actually need (Go's method
// shadowing on embedding makes this a plain override, not a flag check).
type Base struct {
	CellList     []int
	IsEssential  bool
}

func (b Base) Cells() []int    { return b.CellList }
func (b Base) Essential() bool { return b.IsEssential }
func (b Base) Priority() int   { return len(b.CellList) }

func (Base) ExclusionCells() []int                                    { return nil }
func (Base) CandidateFinders(grid.Grid, shape.Grid) map[int][]int { return nil }
func (Base) PostInitialize(grid.Grid)                                 {}
