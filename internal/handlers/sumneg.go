package handlers

import (
	"github.com/rawblock/sudoku-engine/internal/grid"
	"github.com/rawblock/sudoku-engine/internal/handler"
	"github.com/rawblock/sudoku-engine/internal/shape"
)

// SumWithNegative requires sum(PositiveCells) - sum(NegativeCells) == Offset.
// Grounded on fee_analysis.go's coefficient-weighted balance check
// (input total - output total - fee == 0, generalized to an arbitrary
// offset). Used directly by Arrow/PillArrow and by the optimizer's
// innie/outie synthesis (spec §4.3).
type SumWithNegative struct {
	handler.Base

	Positive  []int
	Negative  []int
	Offset    int
	NumValues int
}

func NewSumWithNegative(positive, negative []int, offset, numValues int) *SumWithNegative {
	return &SumWithNegative{
		Base:      handler.Base{CellList: append(append([]int{}, positive...), negative...), IsEssential: true},
		Positive:  positive,
		Negative:  negative,
		Offset:    offset,
		NumValues: numValues,
	}
}

func (h *SumWithNegative) Initialize(g grid.Grid, _ *handler.CellExclusions, _ shape.Grid, _ *handler.StateAllocator) bool {
	return h.enforce(g, nil)
}

func (h *SumWithNegative) EnforceConsistency(g grid.Grid, acc *handler.Accumulator) bool {
	return h.enforce(g, acc)
}

// enforce does bound propagation over the signed sum: each positive cell's
// allowed range is tightened against the negatives' range and vice versa.
func (h *SumWithNegative) enforce(g grid.Grid, acc *handler.Accumulator) bool {
	posMin, posMax := 0, 0
	for _, c := range h.Positive {
		mn, mx := minMax(g.Get(c), h.NumValues)
		if mn == 0 {
			return false
		}
		posMin += mn
		posMax += mx
	}
	negMin, negMax := 0, 0
	for _, c := range h.Negative {
		mn, mx := minMax(g.Get(c), h.NumValues)
		if mn == 0 {
			return false
		}
		negMin += mn
		negMax += mx
	}
	// Need posSum - negSum == Offset, i.e. posSum == Offset + negSum.
	if posMax < h.Offset+negMin || posMin > h.Offset+negMax {
		return false
	}

	changed := false
	for _, c := range h.Positive {
		restMin, restMax := posMin-mn1(g, c, h.NumValues), posMax-mx1(g, c, h.NumValues)
		loTarget := h.Offset + negMin - restMax
		hiTarget := h.Offset + negMax - restMin
		if !narrowToRange(g, c, h.NumValues, loTarget, hiTarget, acc, &changed) {
			return false
		}
	}
	for _, c := range h.Negative {
		restMin, restMax := negMin-mn1(g, c, h.NumValues), negMax-mx1(g, c, h.NumValues)
		loTarget := posMin - h.Offset - restMax
		hiTarget := posMax - h.Offset - restMin
		if !narrowToRange(g, c, h.NumValues, loTarget, hiTarget, acc, &changed) {
			return false
		}
	}
	return true
}

func mn1(g grid.Grid, c, numValues int) int { mn, _ := minMax(g.Get(c), numValues); return mn }
func mx1(g grid.Grid, c, numValues int) int { _, mx := minMax(g.Get(c), numValues); return mx }

func narrowToRange(g grid.Grid, c, numValues, lo, hi int, acc *handler.Accumulator, changedOut *bool) bool {
	mask := g.Get(c)
	var allowed uint32
	for v := 1; v <= numValues; v++ {
		if v >= lo && v <= hi {
			allowed |= bitFor(v)
		}
	}
	after, changed := g.Intersect(c, mask&allowed)
	if after == 0 {
		return false
	}
	if changed {
		*changedOut = true
		if acc != nil {
			acc.AddForCells([]int{c})
		}
	}
	return true
}
