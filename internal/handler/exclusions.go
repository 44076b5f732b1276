package handler

import "sort"

// CellExclusions is the derived "must differ" graph (spec §3): for each
// cell, the sorted set of cells that must hold a different value, built
// once after every House/AllDifferent handler's ExclusionCells() has been
// collected. It also answers "which cells see both a and b" via a cached
// pairExclusions lookup, used by the optimizer's jigsaw-intersection and
// law-of-leftovers passes.
type CellExclusions struct {
	differs [][]int // differs[cell] = sorted distinct cells that must differ from cell

	pairCache map[[2]int][]int
}

// NewCellExclusions allocates an empty graph sized for numCells.
func NewCellExclusions(numCells int) *CellExclusions {
	return &CellExclusions{
		differs:   make([][]int, numCells),
		pairCache: make(map[[2]int][]int),
	}
}

// AddGroup records that every pair of cells within group must differ —
// the shape emitted by a House or AllDifferent handler's ExclusionCells().
func (ce *CellExclusions) AddGroup(group []int) {
	for i, a := range group {
		for j, b := range group {
			if i == j {
				continue
			}
			ce.add(a, b)
		}
	}
}

func (ce *CellExclusions) add(a, b int) {
	for _, existing := range ce.differs[a] {
		if existing == b {
			return
		}
	}
	ce.differs[a] = append(ce.differs[a], b)
}

// Finalize sorts every cell's exclusion list, making MustDiffer binary-searchable.
func (ce *CellExclusions) Finalize() {
	for i := range ce.differs {
		sort.Ints(ce.differs[i])
	}
}

// Peers returns the sorted cells that must differ from cell.
func (ce *CellExclusions) Peers(cell int) []int { return ce.differs[cell] }

// MustDiffer reports whether a and b are known to require different values.
func (ce *CellExclusions) MustDiffer(a, b int) bool {
	peers := ce.differs[a]
	i := sort.SearchInts(peers, b)
	return i < len(peers) && peers[i] == b
}

// SeeBoth returns every cell that must differ from both a and b, memoized.
func (ce *CellExclusions) SeeBoth(a, b int) []int {
	key := [2]int{a, b}
	if a > b {
		key = [2]int{b, a}
	}
	if cached, ok := ce.pairCache[key]; ok {
		return cached
	}
	var out []int
	for _, c := range ce.differs[a] {
		if ce.MustDiffer(b, c) {
			out = append(out, c)
		}
	}
	ce.pairCache[key] = out
	return out
}
