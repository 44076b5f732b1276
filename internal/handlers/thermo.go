package handlers

import (
	"github.com/rawblock/sudoku-engine/internal/grid"
	"github.com/rawblock/sudoku-engine/internal/handler"
	"github.com/rawblock/sudoku-engine/internal/shape"
)

// Thermo requires strictly increasing values along Cells (bulb to tip).
// Grounded on peel_chain.go's ordered-chain walk: each hop along the chain
// only narrows based on its immediate neighbor's bound, exactly like a
// thermometer's low-push-forward / high-push-backward pass.
type Thermo struct {
	handler.Base

	NumValues int
}

func NewThermo(cells []int, numValues int) *Thermo {
	return &Thermo{
		Base:      handler.Base{CellList: cells, IsEssential: true},
		NumValues: numValues,
	}
}

func (h *Thermo) Initialize(g grid.Grid, _ *handler.CellExclusions, _ shape.Grid, _ *handler.StateAllocator) bool {
	return h.enforce(g, nil)
}

func (h *Thermo) EnforceConsistency(g grid.Grid, acc *handler.Accumulator) bool {
	return h.enforce(g, acc)
}

func (h *Thermo) enforce(g grid.Grid, acc *handler.Accumulator) bool {
	n := len(h.CellList)
	if n == 0 {
		return true
	}

	// Forward pass: cell i's minimum value must exceed cell i-1's minimum.
	lowFloor := 1
	for i := 0; i < n; i++ {
		c := h.CellList[i]
		mn, _ := minMax(g.Get(c), h.NumValues)
		if mn == 0 {
			return false
		}
		if mn < lowFloor {
			if !clampLow(g, c, h.NumValues, lowFloor, acc) {
				return false
			}
			mn = lowFloor
		}
		mn, _ = minMax(g.Get(c), h.NumValues)
		lowFloor = mn + 1
	}

	// Backward pass: cell i's maximum value must be below cell i+1's maximum.
	highCeil := h.NumValues
	for i := n - 1; i >= 0; i-- {
		c := h.CellList[i]
		_, mx := minMax(g.Get(c), h.NumValues)
		if mx > highCeil {
			if !clampHigh(g, c, h.NumValues, highCeil, acc) {
				return false
			}
		}
		_, mx = minMax(g.Get(c), h.NumValues)
		if mx == 0 {
			return false
		}
		highCeil = mx - 1
	}
	return true
}

func clampLow(g grid.Grid, c, numValues, floor int, acc *handler.Accumulator) bool {
	mask := g.Get(c)
	var allowed uint32
	for v := floor; v <= numValues; v++ {
		allowed |= bitFor(v)
	}
	after, changed := g.Intersect(c, mask&allowed)
	if after == 0 {
		return false
	}
	if changed && acc != nil {
		acc.AddForCells([]int{c})
	}
	return true
}

func clampHigh(g grid.Grid, c, numValues, ceil int, acc *handler.Accumulator) bool {
	mask := g.Get(c)
	var allowed uint32
	for v := 1; v <= ceil; v++ {
		allowed |= bitFor(v)
	}
	after, changed := g.Intersect(c, mask&allowed)
	if after == 0 {
		return false
	}
	if changed && acc != nil {
		acc.AddForCells([]int{c})
	}
	return true
}
