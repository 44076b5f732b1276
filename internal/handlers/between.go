package handlers

import (
	"github.com/rawblock/sudoku-engine/internal/grid"
	"github.com/rawblock/sudoku-engine/internal/handler"
	"github.com/rawblock/sudoku-engine/internal/shape"
)

// Between requires every middle cell's value to lie strictly between the
// two pole cells' values (whichever pole ends up higher). Lockout is the
// complement: every middle cell's value must lie outside the poles' range,
// and the poles themselves must differ by at least MinGap. Both are the
// same pole/middle decomposition with an inverted membership test, grounded
// on lightning_detection.go's "inside/outside the funnel's observed range"
// branch.
type Between struct {
	handler.Base // CellList holds the middle cells

	PoleA, PoleB int
	Exclude      bool // true for Lockout: middle values must be OUTSIDE (poleA,poleB)
	MinGap       int  // Lockout only: minimum |poleA-poleB|
	NumValues    int
}

func NewBetweenLine(poleA int, middle []int, poleB int, numValues int) *Between {
	return &Between{
		Base:      handler.Base{CellList: middle, IsEssential: true},
		PoleA:     poleA,
		PoleB:     poleB,
		NumValues: numValues,
	}
}

func NewLockoutLine(poleA int, middle []int, poleB int, minGap, numValues int) *Between {
	return &Between{
		Base:      handler.Base{CellList: middle, IsEssential: true},
		PoleA:     poleA,
		PoleB:     poleB,
		Exclude:   true,
		MinGap:    minGap,
		NumValues: numValues,
	}
}

func (h *Between) Cells() []int {
	return append(append([]int{h.PoleA, h.PoleB}, h.CellList...))
}

func (h *Between) Initialize(g grid.Grid, _ *handler.CellExclusions, _ shape.Grid, _ *handler.StateAllocator) bool {
	return h.enforce(g, nil)
}

func (h *Between) EnforceConsistency(g grid.Grid, acc *handler.Accumulator) bool {
	return h.enforce(g, acc)
}

func (h *Between) enforce(g grid.Grid, acc *handler.Accumulator) bool {
	maskA := g.Get(h.PoleA)
	maskB := g.Get(h.PoleB)
	if maskA == 0 || maskB == 0 {
		return false
	}

	if h.Exclude && h.MinGap > 0 {
		feasible := false
		for a := 1; a <= h.NumValues && !feasible; a++ {
			if maskA&bitFor(a) == 0 {
				continue
			}
			for b := 1; b <= h.NumValues; b++ {
				if maskB&bitFor(b) == 0 {
					continue
				}
				d := a - b
				if d < 0 {
					d = -d
				}
				if d >= h.MinGap {
					feasible = true
					break
				}
			}
		}
		if !feasible {
			return false
		}
	}

	var allowedMiddle uint32
	for a := 1; a <= h.NumValues; a++ {
		if maskA&bitFor(a) == 0 {
			continue
		}
		for b := 1; b <= h.NumValues; b++ {
			if maskB&bitFor(b) == 0 {
				continue
			}
			lo, hi := a, b
			if lo > hi {
				lo, hi = hi, lo
			}
			for v := 1; v <= h.NumValues; v++ {
				inside := v > lo && v < hi
				if inside != h.Exclude {
					allowedMiddle |= bitFor(v)
				}
			}
		}
	}

	changed := false
	for _, c := range h.CellList {
		mask := g.Get(c)
		after, did := g.Intersect(c, mask&allowedMiddle)
		if after == 0 {
			return false
		}
		if did {
			changed = true
		}
	}
	if changed && acc != nil {
		acc.AddForCells(h.Cells())
	}
	return true
}
