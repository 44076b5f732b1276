package handlers

import (
	"github.com/rawblock/sudoku-engine/internal/grid"
	"github.com/rawblock/sudoku-engine/internal/handler"
	"github.com/rawblock/sudoku-engine/internal/shape"
)

// WeightedSum requires sum(coefficient[i] * value(cell[i])) == Target.
// Backs LittleKiller (diagonal, arbitrary coefficients) and PillArrow
// (positional digit weights, e.g. 10, 1 for a two-digit bulb). Grounded on
// fee_analysis.go's coefficient-weighted balance check, generalized from a
// fixed +1/-1 weight vector to arbitrary integer coefficients.
type WeightedSum struct {
	handler.Base

	Coefficients []int
	Target       int
	NumValues    int
}

func NewWeightedSum(cells []int, coefficients []int, target, numValues int) *WeightedSum {
	return &WeightedSum{
		Base:         handler.Base{CellList: cells, IsEssential: true},
		Coefficients: coefficients,
		Target:       target,
		NumValues:    numValues,
	}
}

func (h *WeightedSum) Initialize(g grid.Grid, _ *handler.CellExclusions, _ shape.Grid, _ *handler.StateAllocator) bool {
	return h.enforce(g, nil)
}

func (h *WeightedSum) EnforceConsistency(g grid.Grid, acc *handler.Accumulator) bool {
	return h.enforce(g, acc)
}

func (h *WeightedSum) enforce(g grid.Grid, acc *handler.Accumulator) bool {
	n := len(h.CellList)
	minTotal, maxTotal := 0, 0
	bounds := make([][2]int, n)
	for i, c := range h.CellList {
		mn, mx := minMax(g.Get(c), h.NumValues)
		if mn == 0 {
			return false
		}
		w := h.Coefficients[i]
		lo, hi := w*mn, w*mx
		if w < 0 {
			lo, hi = w*mx, w*mn
		}
		bounds[i] = [2]int{lo, hi}
		minTotal += lo
		maxTotal += hi
	}
	if minTotal > h.Target || maxTotal < h.Target {
		return false
	}

	changed := false
	for i, c := range h.CellList {
		w := h.Coefficients[i]
		restMin := minTotal - bounds[i][0]
		restMax := maxTotal - bounds[i][1]
		mask := g.Get(c)
		var allowed uint32
		for v := 1; v <= h.NumValues; v++ {
			bit := bitFor(v)
			if mask&bit == 0 {
				continue
			}
			contribution := w * v
			if contribution+restMin <= h.Target && contribution+restMax >= h.Target {
				allowed |= bit
			}
		}
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
