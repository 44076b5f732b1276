package handlers

import (
	"github.com/rawblock/sudoku-engine/internal/grid"
	"github.com/rawblock/sudoku-engine/internal/handler"
	"github.com/rawblock/sudoku-engine/internal/shape"
)

// GroupPartitionLine generalizes the family of line constraints where every
// window of cells must contain one value from each of a fixed partition of
// values into groups: Modular (groups are residues mod k, window size k)
// and Entropic (groups are low/mid/high thirds of the range, window size 3)
// are the same propagation with a different GroupOf. Grounded on
// consolidation_analysis.go's per-group completeness scan — the same shape
// House uses, generalized from "value" to "group of value".
type GroupPartitionLine struct {
	handler.Base

	Windows   [][]int
	NumGroups int
	GroupOf   func(value int) int
	NumValues int
}

// NewModularLine builds a GroupPartitionLine where consecutive windows of
// modulus cells must each carry one value of every residue class mod modulus.
func NewModularLine(cells []int, modulus, numValues int) *GroupPartitionLine {
	return newGroupPartitionLine(cells, modulus, modulus, func(v int) int {
		return (v - 1) % modulus
	}, numValues)
}

// NewEntropicLine builds a GroupPartitionLine where every 3 consecutive
// cells must carry one low, one mid, and one high value (thirds of 1..numValues).
func NewEntropicLine(cells []int, numValues int) *GroupPartitionLine {
	third := (numValues + 2) / 3
	return newGroupPartitionLine(cells, 3, 3, func(v int) int {
		g := (v - 1) / third
		if g > 2 {
			g = 2
		}
		return g
	}, numValues)
}

// newGroupPartitionLine is the shared constructor: it slices cells into
// non-overlapping windows of size windowSize and wires groupOf.
func newGroupPartitionLine(cells []int, windowSize, numGroups int, groupOf func(int) int, numValues int) *GroupPartitionLine {
	var windows [][]int
	for i := 0; i+windowSize <= len(cells); i += windowSize {
		windows = append(windows, cells[i:i+windowSize])
	}
	return &GroupPartitionLine{
		Base:      handler.Base{CellList: cells, IsEssential: true},
		Windows:   windows,
		NumGroups: numGroups,
		GroupOf:   groupOf,
		NumValues: numValues,
	}
}

func (h *GroupPartitionLine) Initialize(g grid.Grid, _ *handler.CellExclusions, _ shape.Grid, _ *handler.StateAllocator) bool {
	return h.enforce(g, nil)
}

func (h *GroupPartitionLine) EnforceConsistency(g grid.Grid, acc *handler.Accumulator) bool {
	return h.enforce(g, acc)
}

// groupMask returns the bitmask of group ids a cell's mask can still reach.
func (h *GroupPartitionLine) groupMask(mask uint32) uint32 {
	var gm uint32
	for v := 1; v <= h.NumValues; v++ {
		if mask&bitFor(v) != 0 {
			gm |= 1 << uint(h.GroupOf(v))
		}
	}
	return gm
}

// valuesInGroup returns the submask of mask restricted to values in group g.
func (h *GroupPartitionLine) valuesInGroup(mask uint32, group int) uint32 {
	var out uint32
	for v := 1; v <= h.NumValues; v++ {
		if mask&bitFor(v) != 0 && h.GroupOf(v) == group {
			out |= bitFor(v)
		}
	}
	return out
}

func (h *GroupPartitionLine) enforce(g grid.Grid, acc *handler.Accumulator) bool {
	changed := false
	for _, window := range h.Windows {
		var unionGroups uint32
		var countForGroup [32]int
		for _, c := range window {
			mask := g.Get(c)
			if mask == 0 {
				return false
			}
			gm := h.groupMask(mask)
			unionGroups |= gm
			for grp := 0; grp < h.NumGroups; grp++ {
				if gm&(1<<uint(grp)) != 0 {
					countForGroup[grp]++
				}
			}
		}
		full := uint32(1)<<uint(h.NumGroups) - 1
		if unionGroups&full != full {
			return false
		}
		for _, c := range window {
			mask := g.Get(c)
			gm := h.groupMask(mask)
			for grp := 0; grp < h.NumGroups; grp++ {
				if gm&(1<<uint(grp)) != 0 && countForGroup[grp] == 1 {
					restricted := mask & h.valuesInGroup(mask, grp)
					after, did := g.Intersect(c, restricted)
					if after == 0 {
						return false
					}
					if did {
						changed = true
					}
				}
			}
		}
	}
	if changed && acc != nil {
		acc.AddForCells(h.CellList)
	}
	return true
}
