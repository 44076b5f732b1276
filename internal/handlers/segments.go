package handlers

import (
	"github.com/rawblock/sudoku-engine/internal/grid"
	"github.com/rawblock/sudoku-engine/internal/handler"
	"github.com/rawblock/sudoku-engine/internal/shape"
)

// EqualSegmentSums requires every segment's cell-value total to equal the
// same (unknown in advance) target. RegionSumLine's segments are the runs
// of a line inside each box it crosses; Zipper's segments are the
// symmetric cell pairs from each end toward the center (a lone middle cell
// on an odd-length line is its own one-cell segment). Grounded on
// fee_analysis.go's cross-bucket balance check, generalized from "equal to
// a known fee" to "equal to each other."
type EqualSegmentSums struct {
	handler.Base

	Segments  [][]int
	NumValues int
}

func newEqualSegmentSums(segments [][]int, numValues int) *EqualSegmentSums {
	var cells []int
	for _, s := range segments {
		cells = append(cells, s...)
	}
	return &EqualSegmentSums{
		Base:      handler.Base{CellList: cells, IsEssential: true},
		Segments:  segments,
		NumValues: numValues,
	}
}

// NewRegionSumLine takes the line's cells pre-split into per-box runs.
func NewRegionSumLine(segments [][]int, numValues int) *EqualSegmentSums {
	return newEqualSegmentSums(segments, numValues)
}

// NewZipperLine pairs cells from both ends of the line inward; an odd
// center cell becomes a one-cell segment.
func NewZipperLine(cells []int, numValues int) *EqualSegmentSums {
	n := len(cells)
	var segments [][]int
	for i, j := 0, n-1; i <= j; i, j = i+1, j-1 {
		if i == j {
			segments = append(segments, []int{cells[i]})
		} else {
			segments = append(segments, []int{cells[i], cells[j]})
		}
	}
	return newEqualSegmentSums(segments, numValues)
}

func (h *EqualSegmentSums) Initialize(g grid.Grid, _ *handler.CellExclusions, _ shape.Grid, _ *handler.StateAllocator) bool {
	return h.enforce(g, nil)
}

func (h *EqualSegmentSums) EnforceConsistency(g grid.Grid, acc *handler.Accumulator) bool {
	return h.enforce(g, acc)
}

// enforce narrows the shared target to the intersection of every segment's
// achievable sum range, then bounds-prunes each segment's cells against it
// — the same per-cell bound check Sum.enforceBounds uses, run once per
// segment against the shared [lo,hi] instead of a fixed Target.
func (h *EqualSegmentSums) enforce(g grid.Grid, acc *handler.Accumulator) bool {
	lo, hi := 0, 1<<30
	ranges := make([][2]int, len(h.Segments))
	for i, seg := range h.Segments {
		segLo, segHi := 0, 0
		for _, c := range seg {
			mn, mx := minMax(g.Get(c), h.NumValues)
			if mn == 0 {
				return false
			}
			segLo += mn
			segHi += mx
		}
		ranges[i] = [2]int{segLo, segHi}
		if segLo > lo {
			lo = segLo
		}
		if segHi < hi {
			hi = segHi
		}
	}
	if lo > hi {
		return false
	}

	changed := false
	for _, seg := range h.Segments {
		segLo, segHi := 0, 0
		bounds := make([][2]int, len(seg))
		for i, c := range seg {
			mn, mx := minMax(g.Get(c), h.NumValues)
			bounds[i] = [2]int{mn, mx}
			segLo += mn
			segHi += mx
		}
		for i, c := range seg {
			restLo := segLo - bounds[i][0]
			restHi := segHi - bounds[i][1]
			mask := g.Get(c)
			var allowed uint32
			for v := 1; v <= h.NumValues; v++ {
				bit := bitFor(v)
				if mask&bit == 0 {
					continue
				}
				total := restLo + v
				totalHi := restHi + v
				if totalHi < lo || total > hi {
					continue
				}
				allowed |= bit
			}
			after, did := g.Intersect(c, mask&allowed)
			if after == 0 {
				return false
			}
			if did {
				changed = true
			}
		}
	}
	if changed && acc != nil {
		acc.AddForCells(h.CellList)
	}
	return true
}
