package handlers

import (
	"testing"

	"github.com/rawblock/sudoku-engine/internal/grid"
	"github.com/rawblock/sudoku-engine/internal/shape"
)

func maskAll(numValues int) uint32 { return 1<<uint(numValues) - 1 }

func newTestGrid(numCells, numValues int) grid.Grid {
	return grid.NewGrid(numCells, maskAll(numValues))
}

func TestHouseNakedSingle(t *testing.T) {
	g := newTestGrid(3, 3)
	g.Set(0, bitFor(1))
	g.Set(1, maskAll(3))
	g.Set(2, maskAll(3))
	h := NewHouse([]int{0, 1, 2}, 3)
	if ok := h.Initialize(g, nil, shape.Grid{}, nil); !ok {
		t.Fatalf("expected Initialize to succeed")
	}
	if g.Get(0) != bitFor(1) {
		t.Errorf("cell 0 changed unexpectedly: %b", g.Get(0))
	}
	if g.Get(1)&bitFor(1) != 0 {
		t.Errorf("cell 1 still carries value 1 used by cell 0: %b", g.Get(1))
	}
}

func TestHouseContradictionOnMissingValue(t *testing.T) {
	g := newTestGrid(3, 3)
	g.Set(0, bitFor(1))
	g.Set(1, bitFor(1))
	g.Set(2, bitFor(1)|bitFor(2))
	h := NewHouse([]int{0, 1, 2}, 3)
	if ok := h.EnforceConsistency(g, nil); ok {
		t.Errorf("expected contradiction: union of candidates can't cover all 3 values")
	}
}

func TestAllDifferentRemovesFixedValue(t *testing.T) {
	g := newTestGrid(3, 4)
	g.Set(0, bitFor(2))
	h := NewAllDifferent([]int{0, 1, 2})
	if ok := h.EnforceConsistency(g, nil); !ok {
		t.Fatalf("unexpected contradiction")
	}
	if g.Get(1)&bitFor(2) != 0 {
		t.Errorf("cell 1 should no longer carry value 2")
	}
}

func TestSumBoundsPrunesOutOfRange(t *testing.T) {
	g := newTestGrid(2, 9)
	h := NewSum([]int{0, 1}, 4, 9, false)
	if ok := h.Initialize(g, nil, shape.Grid{}, nil); !ok {
		t.Fatalf("unexpected contradiction")
	}
	for v := 4; v <= 9; v++ {
		if g.Get(0)&bitFor(v) != 0 {
			t.Errorf("value %d should have been pruned from cell 0 (sum target 4, min partner 1)", v)
		}
	}
}

func TestSumOneCellMatchesGiven(t *testing.T) {
	g := newTestGrid(1, 9)
	h := NewSum([]int{0}, 7, 9, false)
	if ok := h.Initialize(g, nil, shape.Grid{}, nil); !ok {
		t.Fatalf("unexpected contradiction")
	}
	if g.Get(0) != bitFor(7) {
		t.Errorf("single-cell sum should behave like GivenCandidates(7): got %b", g.Get(0))
	}
}

func TestThermoMonotoneIncreasing(t *testing.T) {
	g := newTestGrid(3, 9)
	g.Set(1, bitFor(5))
	h := NewThermo([]int{0, 1, 2}, 9)
	if ok := h.Initialize(g, nil, shape.Grid{}, nil); !ok {
		t.Fatalf("unexpected contradiction")
	}
	for v := 5; v <= 9; v++ {
		if g.Get(0)&bitFor(v) != 0 {
			t.Errorf("bulb cell before a 5 must be < 5, still carries %d", v)
		}
	}
	for v := 1; v <= 5; v++ {
		if g.Get(2)&bitFor(v) != 0 {
			t.Errorf("cell after a 5 must be > 5, still carries %d", v)
		}
	}
}

func TestBinaryConstraintDiffTable(t *testing.T) {
	g := newTestGrid(2, 9)
	g.Set(0, bitFor(1))
	h := NewBinaryConstraint(0, 1, BuildDiffTable(9, 1), 9)
	if ok := h.Initialize(g, nil, shape.Grid{}, nil); !ok {
		t.Fatalf("unexpected contradiction")
	}
	if g.Get(1) != bitFor(2) {
		t.Errorf("partner of a fixed 1 under diff=1 should be exactly {2}, got %b", g.Get(1))
	}
}

func TestKropkiBlackRatio(t *testing.T) {
	g := newTestGrid(2, 9)
	g.Set(0, bitFor(3))
	h := NewKropkiBlack(0, 1, 9)
	if ok := h.Initialize(g, nil, shape.Grid{}, nil); !ok {
		t.Fatalf("unexpected contradiction")
	}
	want := bitFor(6)
	if g.Get(1) != want {
		t.Errorf("black dot partner of 3 should be exactly {6}, got %b", g.Get(1))
	}
}

func TestRenbanFixesWindowWhenUnionIsExact(t *testing.T) {
	g := newTestGrid(3, 9)
	g.Set(0, bitFor(4)|bitFor(5))
	g.Set(1, bitFor(4)|bitFor(5)|bitFor(6))
	g.Set(2, bitFor(6))
	h := NewRenban([]int{0, 1, 2}, 9)
	if ok := h.Initialize(g, nil, shape.Grid{}, nil); !ok {
		t.Fatalf("unexpected contradiction")
	}
	want := bitFor(4) | bitFor(5) | bitFor(6)
	if g.Get(1) != want {
		t.Errorf("middle cell should be restricted to the exact 3-wide window, got %b want %b", g.Get(1), want)
	}
}

func TestRenbanContradictsWhenWindowTooNarrow(t *testing.T) {
	g := newTestGrid(3, 9)
	g.Set(0, bitFor(1))
	g.Set(1, bitFor(1)|bitFor(2))
	g.Set(2, bitFor(1)|bitFor(2))
	h := NewRenban([]int{0, 1, 2}, 9)
	if ok := h.Initialize(g, nil, shape.Grid{}, nil); ok {
		t.Errorf("expected contradiction: union only spans 2 values for a 3-cell run")
	}
}

func TestBetweenRestrictsToOpenInterval(t *testing.T) {
	g := newTestGrid(3, 9)
	g.Set(0, bitFor(2))
	g.Set(2, bitFor(8))
	h := NewBetweenLine(0, []int{1}, 2, 9)
	if ok := h.Initialize(g, nil, shape.Grid{}, nil); !ok {
		t.Fatalf("unexpected contradiction")
	}
	for _, v := range []int{1, 2, 8, 9} {
		if g.Get(1)&bitFor(v) != 0 {
			t.Errorf("middle cell must be strictly between 2 and 8, still carries %d", v)
		}
	}
	if g.Get(1)&bitFor(5) == 0 {
		t.Errorf("middle cell should still allow 5")
	}
}

func TestLockoutRequiresGapAndExcludesRange(t *testing.T) {
	g := newTestGrid(3, 9)
	g.Set(0, bitFor(2))
	g.Set(2, bitFor(3))
	h := NewLockoutLine(0, []int{1}, 2, 4, 9)
	if ok := h.Initialize(g, nil, shape.Grid{}, nil); ok {
		t.Errorf("expected contradiction: poles fixed to 2 and 3 can't reach the required gap of 4")
	}
}

func TestModularLineRequiresAllResidues(t *testing.T) {
	g := newTestGrid(3, 9)
	g.Set(0, bitFor(3)) // residue 0 mod 3
	g.Set(1, bitFor(3)) // also residue 0 -- contradiction, window needs residues 0,1,2
	g.Set(2, bitFor(3))
	h := NewModularLine([]int{0, 1, 2}, 3, 9)
	if ok := h.Initialize(g, nil, shape.Grid{}, nil); ok {
		t.Errorf("expected contradiction: all three cells stuck on the same residue")
	}
}

func TestZipperLineEqualPairSums(t *testing.T) {
	g := newTestGrid(4, 9)
	g.Set(0, bitFor(3))
	g.Set(3, bitFor(5))
	h := NewZipperLine([]int{0, 1, 2, 3}, 9)
	if ok := h.Initialize(g, nil, shape.Grid{}, nil); !ok {
		t.Fatalf("unexpected contradiction")
	}
	// Pair (0,3) sums to 8, so pair (1,2) must also sum to 8.
	for v := 1; v <= 9; v++ {
		partner := 8 - v
		if g.Get(1)&bitFor(v) != 0 && (partner < 1 || partner > 9 || g.Get(2)&bitFor(partner) == 0) {
			t.Errorf("cell 1 candidate %d has no feasible partner in cell 2 for target 8", v)
		}
	}
}

func TestFullRankOrdersHousesLexicographically(t *testing.T) {
	g := newTestGrid(4, 9)
	g.Set(0, bitFor(5))
	g.Set(2, bitFor(5))
	clues := []RankClue{
		{House: []int{0, 1}, RankFromStart: 0},
		{House: []int{2, 3}, RankFromStart: 1},
	}
	h := NewFullRank(clues, 9)
	g.Set(1, bitFor(9))
	g.Set(3, bitFor(1))
	if ok := h.Initialize(g, nil, shape.Grid{}, nil); ok {
		t.Errorf("expected contradiction: house [5,9] is not <= house [5,1] lexicographically")
	}
}

func TestIndexingMutualImplication(t *testing.T) {
	g := newTestGrid(3, 3)
	g.Set(0, bitFor(2)) // position 1 holds value 2
	h := NewIndexing([]int{0, 1, 2}, 3)
	if ok := h.Initialize(g, nil, shape.Grid{}, nil); !ok {
		t.Fatalf("unexpected contradiction")
	}
	if g.Get(1)&bitFor(1) == 0 {
		t.Errorf("position 2 (cell 1) must be able to hold 1, since position 1 holds 2")
	}
}

func TestQuadRequiresCoverage(t *testing.T) {
	g := newTestGrid(4, 4)
	g.Set(0, bitFor(1))
	g.Set(1, bitFor(1))
	g.Set(2, bitFor(1))
	g.Set(3, bitFor(1))
	h := NewQuad([]int{0, 1, 2, 3}, []int{2, 3})
	if ok := h.Initialize(g, nil, shape.Grid{}, nil); ok {
		t.Errorf("expected contradiction: no cell can reach required values 2 or 3")
	}
}

func TestCountingCirclesPrunesInfeasibleRank(t *testing.T) {
	line := []int{0, 1, 2}
	g := newTestGrid(3, 3)
	h := NewCountingCircles(line, []int{0}, 3)
	if ok := h.Initialize(g, nil, shape.Grid{}, nil); !ok {
		t.Fatalf("unexpected contradiction")
	}
	if g.Get(0) == 0 {
		t.Errorf("circled cell should retain at least one feasible rank value")
	}
}

