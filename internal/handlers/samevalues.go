package handlers

import (
	"github.com/rawblock/sudoku-engine/internal/grid"
	"github.com/rawblock/sudoku-engine/internal/handler"
	"github.com/rawblock/sudoku-engine/internal/shape"
)

// SameValues requires two disjoint cell sets to hold the same multiset of
// values. Strict mode additionally requires each side to be all-different
// (a house-subset). Grounded on wallet_fingerprint.go's set-equivalence
// check between two address clusters' behavioral signatures. This is the
// optimizer's primary jigsaw-intersection / law-of-leftovers output
// (spec §4.3 steps 4-5, 7).
type SameValues struct {
	handler.Base // CellList holds the first side

	Second    []int
	Strict    bool // consumed by the resolver: a strict side also gets a House handler
	NumValues int
}

func NewSameValues(first, second []int, strict bool, numValues int) *SameValues {
	return &SameValues{
		Base:      handler.Base{CellList: first, IsEssential: true},
		Second:    second,
		Strict:    strict,
		NumValues: numValues,
	}
}

func (h *SameValues) Initialize(g grid.Grid, _ *handler.CellExclusions, _ shape.Grid, _ *handler.StateAllocator) bool {
	return h.enforce(g, nil)
}

func (h *SameValues) EnforceConsistency(g grid.Grid, acc *handler.Accumulator) bool {
	return h.enforce(g, acc)
}

func (h *SameValues) enforce(g grid.Grid, acc *handler.Accumulator) bool {
	var unionFirst, unionSecond uint32
	for _, c := range h.CellList {
		mask := g.Get(c)
		if mask == 0 {
			return false
		}
		unionFirst |= mask
	}
	for _, c := range h.Second {
		mask := g.Get(c)
		if mask == 0 {
			return false
		}
		unionSecond |= mask
	}

	shared := unionFirst & unionSecond
	changed := false
	for _, c := range h.CellList {
		after, did := g.Intersect(c, shared)
		if after == 0 {
			return false
		}
		if did {
			changed = true
		}
	}
	for _, c := range h.Second {
		after, did := g.Intersect(c, shared)
		if after == 0 {
			return false
		}
		if did {
			changed = true
		}
	}
	if changed && acc != nil {
		acc.AddForCells(append(append([]int{}, h.CellList...), h.Second...))
	}
	return true
}
