// Package search implements the DFS branching driver and its five solve
// modes (spec §4.4), generalized from the teacher's cpsat_solver.go
// backtracking loop: try a candidate, propagate, recurse, backtrack on
// contradiction. The branch-cell and branch-value ordering is grounded on
// privacy_score.go's weighted-signal ranking, adapted from "rank a
// transaction by its highest-weighted signal" to "rank a cell by its
// highest-priority touching handler."
package search

import (
	"math/bits"

	"github.com/rawblock/sudoku-engine/internal/grid"
	"github.com/rawblock/sudoku-engine/internal/handler"
	"github.com/rawblock/sudoku-engine/internal/shape"
)

func bitFor(v int) uint32 { return 1 << uint(v-1) }

// selectBranchCell picks the next cell to branch on: highest handler
// priority first, tie-broken by minimum remaining candidates (spec §4.4
// step 2). Returns ok=false when every cell already holds a singleton mask.
func selectBranchCell(g grid.Grid, hs *handler.HandlerSet) (cell int, ok bool) {
	bestCell := -1
	bestPriority := -1
	bestRemaining := 1 << 30
	for c := 0; c < g.Len(); c++ {
		n := bits.OnesCount32(g.Get(c))
		if n <= 1 {
			continue
		}
		p := cellPriority(hs, c)
		if p > bestPriority || (p == bestPriority && n < bestRemaining) {
			bestPriority = p
			bestRemaining = n
			bestCell = c
		}
	}
	if bestCell == -1 {
		return 0, false
	}
	return bestCell, true
}

// cellPriority is the max Priority() over every handler touching the cell,
// the candidate-selector's tie-breaking weight (spec §4.4 step 2a).
func cellPriority(hs *handler.HandlerSet, cell int) int {
	best := 0
	for _, id := range hs.HandlersForCell(cell) {
		if p := hs.Get(id).Priority(); p > best {
			best = p
		}
	}
	return best
}

// orderedValues returns the candidate values to try at cell, lowest-bit
// first by default (spec §5 ordering guarantee), unless some touching
// handler's CandidateFinders overrides the order for this cell.
func orderedValues(g grid.Grid, gs shape.Grid, hs *handler.HandlerSet, cell int) []int {
	for _, id := range hs.HandlersForCell(cell) {
		finders := hs.Get(id).CandidateFinders(g, gs)
		if finders == nil {
			continue
		}
		if vals, ok := finders[cell]; ok && len(vals) > 0 {
			return vals
		}
	}
	mask := g.Get(cell)
	out := make([]int, 0, gs.NumValues)
	for v := 1; v <= gs.NumValues; v++ {
		if mask&bitFor(v) != 0 {
			out = append(out, v)
		}
	}
	return out
}

// countUnresolved reports how many cells still hold more than one candidate.
func countUnresolved(g grid.Grid) int {
	n := 0
	for c := 0; c < g.Len(); c++ {
		if bits.OnesCount32(g.Get(c)) > 1 {
			n++
		}
	}
	return n
}
