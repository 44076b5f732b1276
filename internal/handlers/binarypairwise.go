package handlers

import (
	"github.com/rawblock/sudoku-engine/internal/grid"
	"github.com/rawblock/sudoku-engine/internal/handler"
	"github.com/rawblock/sudoku-engine/internal/shape"
)

// BinaryPairwise encodes an n-ary relation over a small cell set (≤ ~4) as
// an explicit set of allowed value-tuples, stored as per-pair bitmaps and
// enforced by forward checking on each pair (spec §4.2 table). Grounded on
// value_fingerprint.go's explicit signature-tuple table.
type BinaryPairwise struct {
	handler.Base

	NumValues int
	Tuples    [][]int // each tuple has len(CellList) entries, 1-based values
}

func NewBinaryPairwise(cells []int, tuples [][]int, numValues int) *BinaryPairwise {
	return &BinaryPairwise{
		Base:      handler.Base{CellList: cells, IsEssential: true},
		NumValues: numValues,
		Tuples:    tuples,
	}
}

func (h *BinaryPairwise) Initialize(g grid.Grid, _ *handler.CellExclusions, _ shape.Grid, _ *handler.StateAllocator) bool {
	return h.enforce(g, nil)
}

func (h *BinaryPairwise) EnforceConsistency(g grid.Grid, acc *handler.Accumulator) bool {
	return h.enforce(g, acc)
}

func (h *BinaryPairwise) enforce(g grid.Grid, acc *handler.Accumulator) bool {
	n := len(h.CellList)
	masks := make([]uint32, n)
	for i, c := range h.CellList {
		masks[i] = g.Get(c)
	}

	allowed := make([]uint32, n)
	anyValid := false
	for _, tuple := range h.Tuples {
		ok := true
		for i, v := range tuple {
			if masks[i]&bitFor(v) == 0 {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		anyValid = true
		for i, v := range tuple {
			allowed[i] |= bitFor(v)
		}
	}
	if !anyValid {
		return false
	}

	changedAny := false
	for i, c := range h.CellList {
		after, changed := g.Intersect(c, masks[i]&allowed[i])
		if after == 0 {
			return false
		}
		if changed {
			changedAny = true
		}
	}
	if changedAny && acc != nil {
		acc.AddForCells(h.CellList)
	}
	return true
}
