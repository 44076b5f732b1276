package handlers

import (
	"github.com/rawblock/sudoku-engine/internal/grid"
	"github.com/rawblock/sudoku-engine/internal/handler"
	"github.com/rawblock/sudoku-engine/internal/shape"
)

// Renban requires its cells to hold a contiguous run of distinct values in
// any order (e.g. {4,5,6} for a 3-cell line). The resolver also attaches a
// plain AllDifferent over the same cells for the uniqueness half; Renban
// itself only narrows the achievable window. Grounded on
// consolidation_analysis.go's sliding-window range check.
type Renban struct {
	handler.Base

	NumValues int
}

func NewRenban(cells []int, numValues int) *Renban {
	return &Renban{
		Base:      handler.Base{CellList: cells, IsEssential: true},
		NumValues: numValues,
	}
}

func (h *Renban) Initialize(g grid.Grid, _ *handler.CellExclusions, _ shape.Grid, _ *handler.StateAllocator) bool {
	return h.enforce(g, nil)
}

func (h *Renban) EnforceConsistency(g grid.Grid, acc *handler.Accumulator) bool {
	return h.enforce(g, acc)
}

// enforce computes the union's overall [min,max]; if it's already exactly
// n wide the window is fixed and every cell narrows to it. Otherwise it
// restricts each cell to the widest window that could still fit: no value
// more than n-1 away from the tightest achievable min/max pair.
func (h *Renban) enforce(g grid.Grid, acc *handler.Accumulator) bool {
	n := len(h.CellList)
	var union uint32
	for _, c := range h.CellList {
		mask := g.Get(c)
		if mask == 0 {
			return false
		}
		union |= mask
	}
	lo, hi := minMax(union, h.NumValues)
	if hi-lo+1 < n {
		return false
	}

	// The window can start anywhere from hi-n+1 down to lo, so a value v is
	// reachable only if some window [s, s+n-1] containing v fits inside
	// [lo,hi]: s in [max(lo, v-n+1), min(hi-n+1, v)].
	var allowed uint32
	for v := lo; v <= hi; v++ {
		sMin := v - n + 1
		if sMin < lo {
			sMin = lo
		}
		sMax := v
		if sMax > hi-n+1 {
			sMax = hi - n + 1
		}
		if sMin <= sMax {
			allowed |= bitFor(v)
		}
	}

	changed := false
	for _, c := range h.CellList {
		mask := g.Get(c)
		after, did := g.Intersect(c, mask&allowed)
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
