package handlers

import (
	"github.com/rawblock/sudoku-engine/internal/grid"
	"github.com/rawblock/sudoku-engine/internal/handler"
	"github.com/rawblock/sudoku-engine/internal/shape"
)

// combinationCellThreshold caps when Sum switches from the tight min/max
// bound check to full combinatorial enumeration (spec §4.2: "when size ≤
// small threshold, iterate precomputed combinations").
const combinationCellThreshold = 6

// Sum requires its cells to sum to Target. Grounded on cpsat_solver.go's
// backtracking-with-pruning solver (same "prune partial sum against a
// tolerance band" shape, here exact equality) and ssmp.go's
// meet-in-the-middle subset-sum matcher, which grounded the precomputed
// combination-table approach for small cell counts.
type Sum struct {
	handler.Base

	Target    int
	NumValues int
	tables    *shape.Tables

	// AllowRepeats, when true, treats this as the "duplicate-cell" variant
	// (spec §4.2): no all-different requirement among Cells, so the
	// combination enumeration (which assumes distinct values) is skipped
	// in favor of pairwise min/max bound propagation only.
	AllowRepeats bool

	// complementCells, when set by the optimizer (spec §4.3 "complement
	// cells"), are the cells of the enclosing house not in this Sum;
	// pruneComplement removes this Sum's fixed values from them.
	complementCells []int
}

func NewSum(cells []int, target, numValues int, allowRepeats bool) *Sum {
	return &Sum{
		Base:         handler.Base{CellList: cells, IsEssential: true},
		Target:       target,
		NumValues:    numValues,
		tables:       shape.For(numValues),
		AllowRepeats: allowRepeats,
	}
}

// SetComplementCells wires the optimizer-derived complement region (§4.3).
func (h *Sum) SetComplementCells(cells []int) { h.complementCells = cells }

func (h *Sum) Initialize(g grid.Grid, _ *handler.CellExclusions, _ shape.Grid, _ *handler.StateAllocator) bool {
	return h.enforce(g, nil)
}

func (h *Sum) EnforceConsistency(g grid.Grid, acc *handler.Accumulator) bool {
	return h.enforce(g, acc)
}

func (h *Sum) enforce(g grid.Grid, acc *handler.Accumulator) bool {
	n := len(h.CellList)

	minSum, maxSum := 0, 0
	for _, c := range h.CellList {
		mn, mx := minMax(g.Get(c), h.NumValues)
		if mn == 0 {
			return false // empty candidate mask
		}
		minSum += mn
		maxSum += mx
	}
	if minSum > h.Target || maxSum < h.Target {
		return false
	}

	if h.AllowRepeats || n > combinationCellThreshold {
		return h.enforceBounds(g, acc, minSum, maxSum)
	}
	return h.enforceCombinations(g, acc)
}

// enforceBounds does the cheap tight min/max-sum check only, narrowing
// each cell's mask to values that keep the overall sum achievable.
func (h *Sum) enforceBounds(g grid.Grid, acc *handler.Accumulator, minSum, maxSum int) bool {
	for _, c := range h.CellList {
		mask := g.Get(c)
		mn, mx := minMax(mask, h.NumValues)
		restMin := minSum - mn
		restMax := maxSum - mx
		var allowed uint32
		for v := 1; v <= h.NumValues; v++ {
			bit := bitFor(v)
			if mask&bit == 0 {
				continue
			}
			if v+restMin <= h.Target && v+restMax >= h.Target {
				allowed |= bit
			}
		}
		after, changed := g.Intersect(c, allowed)
		if after == 0 {
			return false
		}
		if changed && acc != nil {
			acc.AddForCells([]int{c})
		}
	}
	return true
}

// enforceCombinations intersects each cell's mask with the union of every
// precomputed n-count sum-Target combination consistent with the other
// cells' candidates — the combinatorial-enumeration path (spec §4.2).
func (h *Sum) enforceCombinations(g grid.Grid, acc *handler.Accumulator) bool {
	n := len(h.CellList)
	combos := h.tables.CombinationsForCountAndSum(n, h.Target)
	if len(combos) == 0 {
		return false
	}

	cellMasks := make([]uint32, n)
	for i, c := range h.CellList {
		cellMasks[i] = g.Get(c)
	}

	allowed := make([]uint32, n)
	anyValid := false
	for _, combo := range combos {
		if !canAssign(combo, cellMasks, h.NumValues) {
			continue
		}
		anyValid = true
		for i := range allowed {
			allowed[i] |= combo
		}
	}
	if !anyValid {
		return false
	}

	for i, c := range h.CellList {
		after, changed := g.Intersect(c, allowed[i]&cellMasks[i])
		if after == 0 {
			return false
		}
		if changed && acc != nil {
			acc.AddForCells([]int{c})
		}
	}

	if len(h.complementCells) > 0 {
		return h.pruneComplement(g, acc)
	}
	return true
}

// canAssign reports whether there exists a bijection from combo's value
// bits onto cellMasks such that each cell gets a value it still allows —
// a small bipartite-matching check (Hall's theorem via greedy + mask union
// since combo sizes are bounded by combinationCellThreshold).
func canAssign(combo uint32, cellMasks []uint32, numValues int) bool {
	var union uint32
	for _, m := range cellMasks {
		if m&combo != 0 {
			union |= m & combo
		}
	}
	if union != combo {
		return false // some value in combo isn't candidate-compatible with any cell
	}
	// Each cell must be able to take at least one value from combo, and
	// the per-cell candidate sets intersected with combo must admit a
	// perfect matching. A simple sufficient check for small n: every
	// non-empty subset of cells' (mask&combo) union must have size >= subset size.
	masks := make([]uint32, len(cellMasks))
	for i, m := range cellMasks {
		masks[i] = m & combo
		if masks[i] == 0 {
			return false
		}
	}
	return hallSatisfied(masks)
}

func hallSatisfied(masks []uint32) bool {
	n := len(masks)
	for sub := 1; sub < (1 << uint(n)); sub++ {
		var union uint32
		size := 0
		for i := 0; i < n; i++ {
			if sub&(1<<uint(i)) != 0 {
				union |= masks[i]
				size++
			}
		}
		if popcount(union) < size {
			return false
		}
	}
	return true
}

func (h *Sum) pruneComplement(g grid.Grid, acc *handler.Accumulator) bool {
	used := uint32(0)
	for _, c := range h.CellList {
		if v := singleValue(g.Get(c)); v != 0 {
			used |= bitFor(v)
		}
	}
	if used == 0 {
		return true
	}
	for _, c := range h.complementCells {
		after, changed := g.Intersect(c, ^used)
		if after == 0 {
			return false
		}
		if changed && acc != nil {
			acc.AddForCells([]int{c})
		}
	}
	return true
}
