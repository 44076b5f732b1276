package search

import (
	"testing"

	"github.com/rawblock/sudoku-engine/internal/grid"
	"github.com/rawblock/sudoku-engine/internal/handler"
	"github.com/rawblock/sudoku-engine/internal/handlers"
	"github.com/rawblock/sudoku-engine/internal/shape"
	"github.com/rawblock/sudoku-engine/pkg/models"
)

// latinSquare2x2 builds the smallest nontrivial puzzle exercising real
// branching: a 2x2 grid whose two rows and two columns must each hold
// {1,2}. It has exactly two solutions ("1221" and "2112" in ShortString
// form), which is small enough to hand-verify without running the search.
func latinSquare2x2() (shape.Grid, *handler.HandlerSet, grid.Grid) {
	gs := shape.New(2, 2, 2, 1, 2)
	hs := handler.NewHandlerSet(gs.NumCells())
	hs.Add(handlers.NewAllDifferent([]int{0, 1}), false) // row 0
	hs.Add(handlers.NewAllDifferent([]int{2, 3}), false) // row 1
	hs.Add(handlers.NewAllDifferent([]int{0, 2}), false) // col 0
	hs.Add(handlers.NewAllDifferent([]int{1, 3}), false) // col 1
	level0 := grid.NewGrid(gs.NumCells(), gs.AllValues())
	return gs, hs, level0
}

func TestCountSolutionsFindsBothLatinSquares(t *testing.T) {
	gs, hs, level0 := latinSquare2x2()
	d := NewDriver(gs, hs, nil, level0, nil)
	counters, aborted := d.CountSolutions()
	if aborted {
		t.Fatalf("expected an unabridged run")
	}
	if counters.Solutions != 2 {
		t.Errorf("expected exactly 2 solutions for a 2x2 latin square, got %d", counters.Solutions)
	}
	if counters.Guesses == 0 {
		t.Errorf("expected at least one guess to have been counted")
	}
}

func TestNthSolutionReturnsDistinctAssignments(t *testing.T) {
	gs, hs, level0 := latinSquare2x2()
	d := NewDriver(gs, hs, nil, level0, nil)
	first, ok, aborted := d.NthSolution(0)
	if aborted || !ok {
		t.Fatalf("expected a first solution to exist")
	}

	gs2, hs2, level02 := latinSquare2x2()
	d2 := NewDriver(gs2, hs2, nil, level02, nil)
	second, ok, aborted := d2.NthSolution(1)
	if aborted || !ok {
		t.Fatalf("expected a second solution to exist")
	}
	if first.ShortString() == second.ShortString() {
		t.Errorf("expected the two distinct latin-square assignments, got the same one twice: %s", first.ShortString())
	}
	for _, sol := range []models.Solution{first, second} {
		if sol.Values[0] == sol.Values[1] || sol.Values[0] == sol.Values[2] {
			t.Errorf("expected row/col all-different to hold in %v", sol.Values)
		}
	}
}

func TestNthSolutionOutOfRangeReportsNotFound(t *testing.T) {
	gs, hs, level0 := latinSquare2x2()
	d := NewDriver(gs, hs, nil, level0, nil)
	_, ok, aborted := d.NthSolution(2)
	if aborted {
		t.Fatalf("expected an unabridged run")
	}
	if ok {
		t.Errorf("expected no 3rd solution to exist for a 2x2 latin square")
	}
}

func TestSolveAllPossibilitiesUnionsEverySolution(t *testing.T) {
	gs, hs, level0 := latinSquare2x2()
	d := NewDriver(gs, hs, nil, level0, nil)
	mask, aborted := d.SolveAllPossibilities()
	if aborted {
		t.Fatalf("expected an unabridged run")
	}
	for c, m := range mask.Masks {
		if m != gs.AllValues() {
			t.Errorf("expected cell %d to show both candidates across all solutions, got %b", c, m)
		}
	}
}

func TestValidateLayoutSucceedsWhenASolutionExists(t *testing.T) {
	gs, hs, level0 := latinSquare2x2()
	d := NewDriver(gs, hs, nil, level0, nil)
	valid, aborted := d.ValidateLayout()
	if aborted {
		t.Fatalf("expected an unabridged run")
	}
	if !valid {
		t.Errorf("expected the 2x2 latin square layout to validate")
	}
}

func TestValidateLayoutFailsWhenContradictory(t *testing.T) {
	gs := shape.New(1, 2, 2, 1, 2)
	hs := handler.NewHandlerSet(gs.NumCells())
	hs.Add(handlers.NewGivenCandidates([]int{0}, []uint32{bitFor(1)}), true)
	hs.Add(handlers.NewGivenCandidates([]int{1}, []uint32{bitFor(1)}), true)
	hs.Add(handlers.NewAllDifferent([]int{0, 1}), false)
	level0 := grid.NewGrid(gs.NumCells(), gs.AllValues())
	d := NewDriver(gs, hs, nil, level0, nil)
	valid, aborted := d.ValidateLayout()
	if aborted {
		t.Fatalf("expected an unabridged run")
	}
	if valid {
		t.Errorf("expected two cells pinned to the same value under AllDifferent to be unsatisfiable")
	}
}

func TestNthStepCapturesPartialAssignmentAndHalts(t *testing.T) {
	gs, hs, level0 := latinSquare2x2()
	d := NewDriver(gs, hs, nil, level0, nil)
	snap, found, aborted := d.NthStep(0)
	if aborted {
		t.Fatalf("expected NthStep to halt by its own capture, not cancellation")
	}
	if !found {
		t.Fatalf("expected at least one value-try decision to exist")
	}
	if snap.Sample == nil {
		t.Fatalf("expected a partial-assignment sample")
	}
	resolved := 0
	for _, v := range snap.Sample.Values {
		if v != 0 {
			resolved++
		}
	}
	if resolved == 0 {
		t.Errorf("expected the captured step to have at least one cell assigned")
	}
	if snap.Counters.ValuesTried != 1 {
		t.Errorf("expected exactly 1 value-try to have been counted at step 0, got %d", snap.Counters.ValuesTried)
	}
}

func TestCancelStopsSearchEarly(t *testing.T) {
	gs, hs, level0 := latinSquare2x2()
	d := NewDriver(gs, hs, nil, level0, nil)
	d.Cancel()
	counters, aborted := d.CountSolutions()
	if !aborted {
		t.Errorf("expected a pre-cancelled driver to report aborted")
	}
	if counters.Solutions != 0 {
		t.Errorf("expected no solutions once cancelled before the first node, got %d", counters.Solutions)
	}
}

func TestProgressCallbackCanCancelMidSearch(t *testing.T) {
	gs, hs, level0 := latinSquare2x2()
	d := NewDriver(gs, hs, nil, level0, nil)
	d.LogUpdateFrequency = 1
	calls := 0
	d.OnProgress = func(models.StateSnapshot) bool {
		calls++
		return true
	}
	_, aborted := d.CountSolutions()
	if !aborted {
		t.Errorf("expected the progress callback's cancel request to abort the run")
	}
	if calls == 0 {
		t.Errorf("expected the progress callback to fire at least once")
	}
}
