package handlers

import (
	"github.com/rawblock/sudoku-engine/internal/grid"
	"github.com/rawblock/sudoku-engine/internal/handler"
	"github.com/rawblock/sudoku-engine/internal/shape"
)

// BinaryConstraint encodes a pairwise relation between two cells as a
// (numValues x numValues) allowed-pair bitmap: Table[v-1] is the mask of
// values the other cell may hold when this cell holds v. Used directly by
// Kropki/XV/AntiConsecutive and as the optimizer's 2-cell-Sum replacement
// (spec §4.3). Grounded on exchange_detection.go / value_fingerprint.go's
// "table of allowed (a,b) signatures" lookup.
type BinaryConstraint struct {
	handler.Base

	A, B      int
	Table     []uint32 // Table[v-1] = allowed mask for the other cell when this cell == v
	NumValues int
}

// NewBinaryConstraint builds a symmetric binary handler over cells a and b.
func NewBinaryConstraint(a, b int, table []uint32, numValues int) *BinaryConstraint {
	return &BinaryConstraint{
		Base:      handler.Base{CellList: []int{a, b}, IsEssential: true},
		A:         a,
		B:         b,
		Table:     table,
		NumValues: numValues,
	}
}

func (h *BinaryConstraint) Initialize(g grid.Grid, _ *handler.CellExclusions, _ shape.Grid, _ *handler.StateAllocator) bool {
	return h.enforce(g, nil)
}

func (h *BinaryConstraint) EnforceConsistency(g grid.Grid, acc *handler.Accumulator) bool {
	return h.enforce(g, acc)
}

func (h *BinaryConstraint) enforce(g grid.Grid, acc *handler.Accumulator) bool {
	maskA := g.Get(h.A)
	maskB := g.Get(h.B)

	var allowedForB uint32
	for v := 1; v <= h.NumValues; v++ {
		if maskA&bitFor(v) != 0 {
			allowedForB |= h.Table[v-1]
		}
	}
	afterB, changedB := g.Intersect(h.B, maskB&allowedForB)
	if afterB == 0 {
		return false
	}

	var allowedForA uint32
	for v := 1; v <= h.NumValues; v++ {
		if maskB&bitFor(v) != 0 {
			for a := 1; a <= h.NumValues; a++ {
				if h.Table[a-1]&bitFor(v) != 0 {
					allowedForA |= bitFor(a)
				}
			}
		}
	}
	afterA, changedA := g.Intersect(h.A, maskA&allowedForA)
	if afterA == 0 {
		return false
	}

	if (changedA || changedB) && acc != nil {
		acc.AddForCells([]int{h.A, h.B})
	}
	return true
}

// BuildDiffTable returns a BinaryConstraint table where two values are
// compatible iff |a-b| == diff (Kropki white dot diff=1 style usages pass
// diff=1; XV's "V" pairing passes a sum-based table via BuildSumTable).
func BuildDiffTable(numValues, diff int) []uint32 {
	table := make([]uint32, numValues)
	for a := 1; a <= numValues; a++ {
		var allowed uint32
		if b := a + diff; b >= 1 && b <= numValues {
			allowed |= bitFor(b)
		}
		if b := a - diff; b >= 1 && b <= numValues {
			allowed |= bitFor(b)
		}
		table[a-1] = allowed
	}
	return table
}

// BuildRatioTable returns a table where two values are compatible iff
// b == a*ratio or a == b*ratio (Kropki black dot, ratio=2).
func BuildRatioTable(numValues, ratio int) []uint32 {
	table := make([]uint32, numValues)
	for a := 1; a <= numValues; a++ {
		var allowed uint32
		if b := a * ratio; b >= 1 && b <= numValues {
			allowed |= bitFor(b)
		}
		if a%ratio == 0 {
			if b := a / ratio; b >= 1 {
				allowed |= bitFor(b)
			}
		}
		table[a-1] = allowed
	}
	return table
}

// BuildSumTable returns a table where two values are compatible iff a+b == sum.
func BuildSumTable(numValues, sum int) []uint32 {
	table := make([]uint32, numValues)
	for a := 1; a <= numValues; a++ {
		if b := sum - a; b >= 1 && b <= numValues {
			table[a-1] = bitFor(b)
		}
	}
	return table
}

// BuildNotEqualTable returns a table excluding only a == b, the
// AntiConsecutive complement / plain "different value" relation.
func BuildNotEqualTable(numValues int) []uint32 {
	table := make([]uint32, numValues)
	full := uint32(1)<<uint(numValues) - 1
	for a := 1; a <= numValues; a++ {
		table[a-1] = full &^ bitFor(a)
	}
	return table
}

// BuildNotConsecutiveTable returns a table excluding |a-b| == 1 (AntiConsecutive).
func BuildNotConsecutiveTable(numValues int) []uint32 {
	table := make([]uint32, numValues)
	full := uint32(1)<<uint(numValues) - 1
	for a := 1; a <= numValues; a++ {
		excl := uint32(0)
		if a > 1 {
			excl |= bitFor(a - 1)
		}
		if a < numValues {
			excl |= bitFor(a + 1)
		}
		table[a-1] = full &^ excl
	}
	return table
}
