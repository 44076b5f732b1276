package solver

import (
	"testing"

	"github.com/rawblock/sudoku-engine/internal/handler"
	"github.com/rawblock/sudoku-engine/internal/handlers"
	"github.com/rawblock/sudoku-engine/internal/shape"
	"github.com/rawblock/sudoku-engine/pkg/models"
)

func TestSplitPolesRequiresAtLeastTwoCells(t *testing.T) {
	if _, _, _, err := splitPoles([]int{0}); err == nil {
		t.Errorf("expected an error for a between/lockout clue with fewer than 2 cells")
	}
}

func TestSplitPolesSeparatesEndsFromMiddle(t *testing.T) {
	poleA, middle, poleB, err := splitPoles([]int{5, 1, 2, 3, 9})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if poleA != 5 || poleB != 9 {
		t.Errorf("expected poles 5 and 9, got %d and %d", poleA, poleB)
	}
	if len(middle) != 3 || middle[0] != 1 || middle[2] != 3 {
		t.Errorf("expected middle {1,2,3}, got %v", middle)
	}
}

func TestSplitPolesTwoCellsLeavesMiddleEmpty(t *testing.T) {
	poleA, middle, poleB, err := splitPoles([]int{4, 7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if poleA != 4 || poleB != 7 || len(middle) != 0 {
		t.Errorf("expected poles 4,7 and no middle cells, got %d %v %d", poleA, middle, poleB)
	}
}

func TestSplitByBoxGroupsConsecutiveRunsSharingABox(t *testing.T) {
	gs := shape.New(4, 4, 4, 2, 2)
	// Row 1, left to right: cells 4,5 sit in box 0, cells 6,7 sit in box 1.
	line := []int{4, 5, 6, 7}
	segments := splitByBox(line, gs)
	if len(segments) != 2 {
		t.Fatalf("expected 2 box-runs, got %d: %v", len(segments), segments)
	}
	if segments[0][0] != 4 || segments[0][1] != 5 {
		t.Errorf("expected the first run to be cells 4,5 got %v", segments[0])
	}
	if segments[1][0] != 6 || segments[1][1] != 7 {
		t.Errorf("expected the second run to be cells 6,7 got %v", segments[1])
	}
}

func TestSplitByBoxFallsBackToOneSegmentWithoutBoxes(t *testing.T) {
	gs := shape.Grid{NumRows: 1, NumCols: 4, NumValues: 4} // BoxWidth/Height unset: HasBoxes() false
	segments := splitByBox([]int{0, 1, 2, 3}, gs)
	if len(segments) != 1 || len(segments[0]) != 4 {
		t.Fatalf("expected one whole-line segment, got %v", segments)
	}
}

func TestUnionTablesOrsEveryBit(t *testing.T) {
	a := []uint32{0b0001, 0b0010}
	b := []uint32{0b0100, 0b0000}
	out := unionTables(a, b)
	if out[0] != 0b0101 || out[1] != 0b0010 {
		t.Errorf("expected bitwise union, got %v", out)
	}
}

func TestOnesVectorFillsWithOnes(t *testing.T) {
	v := onesVector(3)
	for _, x := range v {
		if x != 1 {
			t.Fatalf("expected every coefficient to be 1, got %v", v)
		}
	}
}

func TestSumHandlersNonStrictIsBareSum(t *testing.T) {
	gs := shape.Grid{NumRows: 1, NumCols: 2, NumValues: 3}
	out := sumHandlers(models.ConstraintNode{Cells: []int{0, 1}, Sum: 4, Strict: false}, gs)
	if len(out) != 1 {
		t.Fatalf("expected exactly one handler for a non-strict sum, got %d", len(out))
	}
	sum, ok := out[0].(*handlers.Sum)
	if !ok {
		t.Fatalf("expected a *handlers.Sum, got %T", out[0])
	}
	if !sum.AllowRepeats {
		t.Errorf("expected a non-strict sum to allow repeated values")
	}
}

func TestSumHandlersStrictAddsAllDifferentAndForbidsRepeats(t *testing.T) {
	gs := shape.Grid{NumRows: 1, NumCols: 2, NumValues: 3}
	out := sumHandlers(models.ConstraintNode{Cells: []int{0, 1}, Sum: 4, Strict: true}, gs)
	if len(out) != 2 {
		t.Fatalf("expected a sum plus an all-different for a strict sum, got %d", len(out))
	}
	sum, ok := out[0].(*handlers.Sum)
	if !ok {
		t.Fatalf("expected the first handler to be a *handlers.Sum, got %T", out[0])
	}
	if sum.AllowRepeats {
		t.Errorf("expected a strict sum to forbid repeated values")
	}
	if _, ok := out[1].(*handlers.AllDifferent); !ok {
		t.Fatalf("expected the second handler to be a *handlers.AllDifferent, got %T", out[1])
	}
}

func TestPairwiseOffsetsDedupsUnorderedPairs(t *testing.T) {
	gs := shape.Grid{NumRows: 2, NumCols: 2, NumValues: 4}
	var pairs [][2]int
	pairwiseOffsets(gs, [][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}, func(a, b int) handler.Handler {
		pairs = append(pairs, [2]int{a, b})
		return handlers.NewAllDifferent([]int{a, b})
	})
	if len(pairs) != 2 {
		t.Fatalf("expected the two diagonals of a 2x2 grid (0-3 and 1-2), got %v", pairs)
	}
}

func TestAntiKnightHandlersOnFourByFourGrid(t *testing.T) {
	gs := shape.New(4, 4, 4, 2, 2)
	out := antiKnightHandlers(gs)
	for _, h := range out {
		ad, ok := h.(*handlers.AllDifferent)
		if !ok {
			t.Fatalf("expected every anti-knight handler to be an AllDifferent, got %T", h)
		}
		if len(ad.CellList) != 2 {
			t.Errorf("expected a knight pair to cover exactly 2 cells, got %v", ad.CellList)
		}
	}
	if len(out) == 0 {
		t.Errorf("expected at least one knight pair on a 4x4 grid")
	}
}

func TestAntiKingHandlersOnlyUsesDiagonalOffsets(t *testing.T) {
	gs := shape.New(2, 2, 4, 2, 1)
	out := antiKingHandlers(gs)
	if len(out) != 2 {
		// (0,0)-(1,1) and (0,1)-(1,0): the two diagonals of a 2x2 grid.
		t.Fatalf("expected exactly 2 diagonal pairs on a 2x2 grid, got %d", len(out))
	}
}

func TestAntiConsecutiveExplicitPairsUseGivenTable(t *testing.T) {
	gs := shape.Grid{NumRows: 1, NumCols: 4, NumValues: 4}
	out := antiConsecutiveHandlers(models.ConstraintNode{Cells: []int{0, 1, 2, 3}}, gs)
	if len(out) != 2 {
		t.Fatalf("expected 2 pair handlers for 4 explicit cells, got %d", len(out))
	}
}

func TestAntiConsecutiveEmptyCellsExpandsOrthogonalNeighbors(t *testing.T) {
	gs := shape.Grid{NumRows: 1, NumCols: 3, NumValues: 3}
	out := antiConsecutiveHandlers(models.ConstraintNode{}, gs)
	if len(out) != 2 {
		t.Fatalf("expected the 2 adjacent pairs of a 1x3 strip, got %d", len(out))
	}
}

func TestBuildHandlersArrowRequiresExactlyOneBulbCell(t *testing.T) {
	gs := shape.Grid{NumRows: 1, NumCols: 3, NumValues: 9}
	_, err := buildHandlers(models.ConstraintNode{Kind: models.KindArrow, Cells: []int{0, 1, 2}, NegativeCells: []int{0, 1}}, gs)
	if err == nil {
		t.Errorf("expected an error when an arrow clue names more than one bulb cell")
	}
}

func TestBuildHandlersNFAWithoutSpecErrors(t *testing.T) {
	gs := shape.Grid{NumRows: 1, NumCols: 3, NumValues: 9}
	_, err := buildHandlers(models.ConstraintNode{Kind: models.KindNFA, Cells: []int{0, 1, 2}}, gs)
	if err == nil {
		t.Errorf("expected an error when an NFA clue is missing its nfaSpec")
	}
}

func TestBuildHandlersBadRegexErrors(t *testing.T) {
	gs := shape.Grid{NumRows: 1, NumCols: 3, NumValues: 9}
	_, err := buildHandlers(models.ConstraintNode{Kind: models.KindRegex, Cells: []int{0, 1, 2}, Pattern: "("}, gs)
	if err == nil {
		t.Errorf("expected an error for an unparseable regex clue")
	}
}

func TestBuildHandlersUnknownKindErrors(t *testing.T) {
	gs := shape.Grid{NumRows: 1, NumCols: 3, NumValues: 9}
	_, err := buildHandlers(models.ConstraintNode{Kind: models.Kind("NotARealKind"), Cells: []int{0}}, gs)
	if err == nil {
		t.Errorf("expected an error for an unrecognized constraint kind")
	}
}

func TestBuildHandlersFullRankConvertsWireClues(t *testing.T) {
	gs := shape.Grid{NumRows: 1, NumCols: 2, NumValues: 2}
	out, err := buildHandlers(models.ConstraintNode{
		Kind:      models.KindFullRank,
		RankClues: []models.RankClue{{House: []int{0, 1}, RankFromStart: 0, RankFromEnd: 1}},
	}, gs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fr, ok := out[0].(*handlers.FullRank)
	if !ok {
		t.Fatalf("expected a *handlers.FullRank, got %T", out[0])
	}
	if len(fr.Clues) != 1 || fr.Clues[0].RankFromStart != 0 || fr.Clues[0].RankFromEnd != 1 {
		t.Fatalf("expected the wire RankClue to carry over unchanged, got %+v", fr.Clues)
	}
}

func TestBuildHandlersOrRecursesIntoChildren(t *testing.T) {
	gs := shape.Grid{NumRows: 1, NumCols: 2, NumValues: 9}
	node := models.ConstraintNode{
		Kind:  models.KindOr,
		Cells: []int{0, 1},
		Children: []models.ConstraintNode{
			{Kind: models.KindSum, Cells: []int{0, 1}, Sum: 3},
			{Kind: models.KindSum, Cells: []int{0, 1}, Sum: 5},
		},
	}
	out, err := buildHandlers(node, gs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	or, ok := out[0].(*handlers.Or)
	if !ok {
		t.Fatalf("expected a *handlers.Or, got %T", out[0])
	}
	if len(or.Branches) != 2 {
		t.Fatalf("expected 2 branches, got %d", len(or.Branches))
	}
}

func TestBuildHandlersOrChildErrorPropagates(t *testing.T) {
	gs := shape.Grid{NumRows: 1, NumCols: 2, NumValues: 9}
	node := models.ConstraintNode{
		Kind: models.KindOr,
		Children: []models.ConstraintNode{
			{Kind: models.KindRegex, Cells: []int{0}, Pattern: "("},
		},
	}
	if _, err := buildHandlers(node, gs); err == nil {
		t.Errorf("expected a bad child clue to fail the enclosing Or")
	}
}
