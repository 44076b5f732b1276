package handlers

import (
	"github.com/rawblock/sudoku-engine/internal/grid"
	"github.com/rawblock/sudoku-engine/internal/handler"
	"github.com/rawblock/sudoku-engine/internal/shape"
)

// CountingCircles marks certain cells on a line as "circled": a circled
// cell's value must equal the number of cells on the line (itself
// included) whose value is less than or equal to its own. Grounded on
// behavioral_analysis.go's rank-within-window tally, restricted to a
// single line instead of a cross-account comparison.
type CountingCircles struct {
	handler.Base // CellList is the full line, in order

	Circled   []int // subset of CellList that carries a rank clue
	NumValues int
}

func NewCountingCircles(line []int, circled []int, numValues int) *CountingCircles {
	return &CountingCircles{
		Base:      handler.Base{CellList: line, IsEssential: true},
		Circled:   circled,
		NumValues: numValues,
	}
}

func (h *CountingCircles) Initialize(g grid.Grid, _ *handler.CellExclusions, _ shape.Grid, _ *handler.StateAllocator) bool {
	return h.enforce(g, nil)
}

func (h *CountingCircles) EnforceConsistency(g grid.Grid, acc *handler.Accumulator) bool {
	return h.enforce(g, acc)
}

// enforce prunes each circled cell's candidate rank values: for a
// candidate v, at least v cells (out of the whole line) must be able to
// hold a value <= v, and at most v cells may already be forced to a value
// <= v — otherwise v can't be its own rank.
func (h *CountingCircles) enforce(g grid.Grid, acc *handler.Accumulator) bool {
	n := len(h.CellList)
	changed := false
	for _, circ := range h.Circled {
		mask := g.Get(circ)
		if mask == 0 {
			return false
		}
		var allowed uint32
		for v := 1; v <= h.NumValues; v++ {
			if mask&bitFor(v) == 0 {
				continue
			}
			if v > n {
				continue
			}
			forcedLE, possibleLE := 0, 0
			for _, c := range h.CellList {
				cm := g.Get(c)
				cmin, cmax := minMax(cm, h.NumValues)
				if cmin == 0 {
					return false
				}
				if cmin <= v {
					possibleLE++
				}
				if cmax <= v {
					forcedLE++
				}
			}
			// v is feasible as the tally only if enough cells could still
			// supply it (possibleLE >= v) and the cells already locked below
			// v don't already overshoot it (forcedLE <= v).
			if possibleLE >= v && forcedLE <= v {
				allowed |= bitFor(v)
			}
		}
		after, did := g.Intersect(circ, mask&allowed)
		if after == 0 {
			return false
		}
		if did {
			changed = true
		}
	}
	if changed && acc != nil {
		acc.AddForCells(h.Circled)
	}
	return true
}
