package handlers

import (
	"github.com/rawblock/sudoku-engine/internal/grid"
	"github.com/rawblock/sudoku-engine/internal/handler"
	"github.com/rawblock/sudoku-engine/internal/shape"
)

// RankClue is one full-rank clue: House is treated as a digit sequence
// (word); RankFromStart/RankFromEnd give its 0-based sort position among
// all the houses a FullRank handler covers, counting from either end. Ties
// are forbidden unless a clue explicitly gives two houses the same rank
// (spec §4.5).
type RankClue struct {
	House         []int
	RankFromStart int
	RankFromEnd   int
}

// FullRank enforces that, treating each clued house as a digit word, the
// lexicographic sort order of all houses matches the clues. Grounded on
// behavioral_analysis.go's ranked-ordering comparison across accounts
// (spec §4.5): per-house min/max digit-sequence bitmask intervals,
// propagated into per-cell masks until fixpoint.
type FullRank struct {
	handler.Base

	Clues     []RankClue
	NumValues int
}

// NewFullRank's CellList is the union of every clued house's cells, for
// index purposes; the per-house structure lives in Clues.
func NewFullRank(clues []RankClue, numValues int) *FullRank {
	var cells []int
	for _, c := range clues {
		cells = append(cells, c.House...)
	}
	return &FullRank{
		Base:      handler.Base{CellList: cells, IsEssential: true},
		Clues:     clues,
		NumValues: numValues,
	}
}

func (h *FullRank) Initialize(g grid.Grid, _ *handler.CellExclusions, _ shape.Grid, _ *handler.StateAllocator) bool {
	return h.enforce(g, nil)
}

func (h *FullRank) EnforceConsistency(g grid.Grid, acc *handler.Accumulator) bool {
	return h.enforce(g, acc)
}

// enforce compares every pair of clued houses whose relative rank is
// implied by the clues (same RankFromStart delta) and forces the earlier
// house to be lexicographically smaller at the first cell where their
// candidate ranges don't already guarantee it — a narrowing pass repeated
// to fixpoint by the work-queue re-enqueueing this handler whenever any
// clued cell changes (callers re-add it via AddForCells on the union of
// Clues' cells, same as any other handler).
func (h *FullRank) enforce(g grid.Grid, acc *handler.Accumulator) bool {
	n := len(h.Clues)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	// Sort clue indices by RankFromStart to get the declared order.
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if h.Clues[order[j]].RankFromStart < h.Clues[order[i]].RankFromStart {
				order[i], order[j] = order[j], order[i]
			}
		}
	}

	for k := 0; k+1 < n; k++ {
		lo := h.Clues[order[k]]
		hi := h.Clues[order[k+1]]
		sameRank := lo.RankFromStart == hi.RankFromStart
		if ok, _ := h.enforcePairOrder(g, acc, lo.House, hi.House, sameRank); !ok {
			return false
		}
	}
	return true
}

// enforcePairOrder narrows lo/hi's leading cell candidates so that lo's
// digit word is <= hi's (or strictly < unless allowEqual), scanning
// position by position until a forced distinction is found.
func (h *FullRank) enforcePairOrder(g grid.Grid, acc *handler.Accumulator, lo, hi []int, allowEqual bool) (bool, bool) {
	n := len(lo)
	if len(hi) < n {
		n = len(hi)
	}
	changed := false
	for i := 0; i < n; i++ {
		loMask := g.Get(lo[i])
		hiMask := g.Get(hi[i])
		loMin, _ := minMax(loMask, h.NumValues)
		_, hiMax := minMax(hiMask, h.NumValues)
		if loMin == 0 || hiMax == 0 {
			return false, changed
		}
		// If lo's minimum possible digit here already exceeds hi's maximum,
		// this position can't be the deciding one unless lo is forced equal
		// — restrict hi upward / lo downward to keep lo[i] <= hi[i].
		allowed := uint32(0)
		for v := 1; v <= h.NumValues; v++ {
			if hiMask&bitFor(v) != 0 {
				allowed |= bitFor(v)
			}
		}
		lv := singleValue(loMask)
		hv := singleValue(hiMask)
		if lv != 0 && hv != 0 {
			if lv > hv || (lv == hv && !allowEqual && i == n-1) {
				return false, changed
			}
			if lv != hv {
				return true, changed // this position already decides the order
			}
			continue
		}
		// Narrow hi[i] to values >= loMin (keeps lo<=hi feasible at this digit).
		var allowedHi uint32
		for v := 1; v <= h.NumValues; v++ {
			if hiMask&bitFor(v) != 0 && v >= loMin {
				allowedHi |= bitFor(v)
			}
		}
		afterHi, didHi := g.Intersect(hi[i], hiMask&allowedHi)
		if afterHi == 0 {
			return false, changed
		}
		if didHi {
			changed = true
		}
		// Narrow lo[i] to values <= hiMax, then stop: later positions only
		// matter if this one ends up equal, so they are left untouched.
		var allowedLo uint32
		for v := 1; v <= hiMax; v++ {
			allowedLo |= bitFor(v)
		}
		afterLo, didLo := g.Intersect(lo[i], loMask&allowedLo)
		if afterLo == 0 {
			return false, changed
		}
		if didLo {
			changed = true
		}
		break
	}
	if changed && acc != nil {
		acc.AddForCells(append(append([]int{}, lo...), hi...))
	}
	return true, changed
}
