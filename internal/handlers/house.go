package handlers

import (
	"github.com/rawblock/sudoku-engine/internal/grid"
	"github.com/rawblock/sudoku-engine/internal/handler"
	"github.com/rawblock/sudoku-engine/internal/shape"
)

// House enforces that exactly NumValues cells contain every value exactly
// once: a row, column, box, diagonal, Windoku region, or jigsaw region.
// Grounded on consolidation_analysis.go's grouping-then-closure-scan shape.
type House struct {
	handler.Base
	numValues int
}

func NewHouse(cells []int, numValues int) *House {
	return &House{
		Base:      handler.Base{CellList: cells, IsEssential: true},
		numValues: numValues,
	}
}

func (h *House) Initialize(g grid.Grid, _ *handler.CellExclusions, _ shape.Grid, _ *handler.StateAllocator) bool {
	return h.scan(g, nil)
}

func (h *House) EnforceConsistency(g grid.Grid, acc *handler.Accumulator) bool {
	return h.scan(g, acc)
}

// scan implements the union check plus hidden-single lock described in
// spec §4.2: a fixed cell's value is first removed from every other cell
// (naked singles); then, if the union of candidates misses a value,
// contradiction; any bit appearing in exactly one cell is a hidden single
// and gets locked.
func (h *House) scan(g grid.Grid, acc *handler.Accumulator) bool {
	for _, c := range h.CellList {
		bit := g.Get(c)
		if popcount(bit) != 1 {
			continue
		}
		for _, other := range h.CellList {
			if other == c {
				continue
			}
			if after, changed := g.Intersect(other, ^bit); after == 0 {
				return false
			} else if changed && acc != nil {
				acc.AddForCells([]int{other})
			}
		}
	}

	var union uint32
	var bitCount [17]int // bitCount[v] = how many cells carry bit v (1-indexed)
	for _, c := range h.CellList {
		mask := g.Get(c)
		if mask == 0 {
			return false
		}
		union |= mask
		for v := 1; v <= h.numValues; v++ {
			if mask&(1<<uint(v-1)) != 0 {
				bitCount[v]++
			}
		}
	}
	allValues := uint32(1)<<uint(h.numValues) - 1
	if union&allValues != allValues {
		return false
	}

	// Hidden singles: a value present in exactly one cell's candidates must
	// be fixed there.
	for _, c := range h.CellList {
		mask := g.Get(c)
		if popcount(mask) == 1 {
			continue // already fixed
		}
		for v := 1; v <= h.numValues; v++ {
			bit := uint32(1) << uint(v-1)
			if mask&bit != 0 && bitCount[v] == 1 {
				after, changed := g.Intersect(c, bit)
				if after == 0 {
					return false
				}
				if changed && acc != nil {
					acc.AddForCells([]int{c})
				}
			}
		}
	}
	return true
}

func (h *House) ExclusionCells() []int { return h.CellList }

func (h *House) CandidateFinders(grid.Grid, shape.Grid) map[int][]int { return nil }

func (h *House) PostInitialize(grid.Grid) {}
