package handlers

import (
	"github.com/rawblock/sudoku-engine/internal/grid"
	"github.com/rawblock/sudoku-engine/internal/handler"
	"github.com/rawblock/sudoku-engine/internal/shape"
)

// Quad requires every value in Required to appear in at least one of the
// (usually four) cells it covers; cells may also hold values outside
// Required. Grounded on topology_analysis.go's "cluster contains at least
// one of these addresses" membership check. This enforces union coverage
// only, not a full matching — a quad rarely has enough cells for the
// difference to matter in practice, and narrowing beyond coverage would
// need the same Hall's-theorem search Sum.enforceCombinations does.
type Quad struct {
	handler.Base

	Required []int // 1-based values that must appear somewhere in CellList
}

func NewQuad(cells []int, required []int) *Quad {
	return &Quad{
		Base:     handler.Base{CellList: cells, IsEssential: true},
		Required: required,
	}
}

func (h *Quad) Initialize(g grid.Grid, _ *handler.CellExclusions, _ shape.Grid, _ *handler.StateAllocator) bool {
	return h.enforce(g, nil)
}

func (h *Quad) EnforceConsistency(g grid.Grid, acc *handler.Accumulator) bool {
	return h.enforce(g, acc)
}

func (h *Quad) enforce(g grid.Grid, acc *handler.Accumulator) bool {
	var union uint32
	for _, c := range h.CellList {
		mask := g.Get(c)
		if mask == 0 {
			return false
		}
		union |= mask
	}
	for _, v := range h.Required {
		if union&bitFor(v) == 0 {
			return false
		}
	}
	// A required value with exactly one carrying cell left, and that cell
	// has no other required value competing for it, can be locked.
	changed := false
	for _, v := range h.Required {
		var onlyCell, count int
		for _, c := range h.CellList {
			if g.Get(c)&bitFor(v) != 0 {
				count++
				onlyCell = c
			}
		}
		if count != 1 {
			continue
		}
		// Only lock if no other required value is also confined to this
		// same sole cell (that would be an over-constraint we can't resolve
		// without a full matching search).
		exclusive := true
		for _, other := range h.Required {
			if other == v {
				continue
			}
			if g.Get(onlyCell)&bitFor(other) != 0 {
				soleForOther := true
				for _, c := range h.CellList {
					if c == onlyCell {
						continue
					}
					if g.Get(c)&bitFor(other) != 0 {
						soleForOther = false
						break
					}
				}
				if soleForOther {
					exclusive = false
					break
				}
			}
		}
		if !exclusive {
			continue
		}
		after, did := g.Intersect(onlyCell, bitFor(v))
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
