package handlers

import (
	"testing"

	"github.com/rawblock/sudoku-engine/internal/handler"
	"github.com/rawblock/sudoku-engine/internal/shape"
)

func TestOrUnionsSurvivingBranchCandidates(t *testing.T) {
	g := newTestGrid(1, 3)
	branchA := []handler.Handler{NewGivenCandidates([]int{0}, []uint32{bitFor(1)})}
	branchB := []handler.Handler{NewGivenCandidates([]int{0}, []uint32{bitFor(2)})}
	or := NewOr([]int{0}, [][]handler.Handler{branchA, branchB})
	if ok := or.Initialize(g, nil, shape.Grid{}, nil); !ok {
		t.Fatalf("expected Or to succeed when either branch is viable")
	}
	if got := g.Get(0); got != bitFor(1)|bitFor(2) {
		t.Errorf("expected cell to keep candidates from both surviving branches, got %b", got)
	}
}

func TestOrFailsWhenEveryBranchFails(t *testing.T) {
	g := newTestGrid(1, 3)
	g.Set(0, bitFor(3))
	branchA := []handler.Handler{NewGivenCandidates([]int{0}, []uint32{bitFor(1)})}
	branchB := []handler.Handler{NewGivenCandidates([]int{0}, []uint32{bitFor(2)})}
	or := NewOr([]int{0}, [][]handler.Handler{branchA, branchB})
	if ok := or.EnforceConsistency(g, nil); ok {
		t.Errorf("expected contradiction: cell 0 is fixed to 3, neither branch offers 3")
	}
}

func TestOrSingleBranchActsAsThatBranch(t *testing.T) {
	g := newTestGrid(1, 3)
	branch := []handler.Handler{NewGivenCandidates([]int{0}, []uint32{bitFor(2)})}
	or := NewOr([]int{0}, [][]handler.Handler{branch})
	if ok := or.Initialize(g, nil, shape.Grid{}, nil); !ok {
		t.Fatalf("expected Or to succeed")
	}
	if got := g.Get(0); got != bitFor(2) {
		t.Errorf("expected single-branch Or to inline its branch, got %b", got)
	}
}

func TestOrDoesNotMutateOuterGridOnFailedBranch(t *testing.T) {
	g := newTestGrid(2, 3)
	// Branch fixes cell 0 to 1 and cell 1 to 1 -- internally contradictory
	// since both share a cell list via AllDifferent, so the branch as a
	// whole must fail without leaking its partial narrowing back out.
	branch := []handler.Handler{
		NewGivenCandidates([]int{0}, []uint32{bitFor(1)}),
		NewAllDifferent([]int{0, 1}),
		NewGivenCandidates([]int{1}, []uint32{bitFor(1)}),
	}
	other := []handler.Handler{NewGivenCandidates([]int{0}, []uint32{bitFor(2)})}
	or := NewOr([]int{0, 1}, [][]handler.Handler{branch, other})
	if ok := or.Initialize(g, nil, shape.Grid{}, nil); !ok {
		t.Fatalf("expected the surviving branch to keep Or satisfiable")
	}
	if got := g.Get(0); got != bitFor(2) {
		t.Errorf("expected only the surviving branch's candidates to remain, got %b", got)
	}
}

func TestAndRequiresEveryBranchToHold(t *testing.T) {
	g := newTestGrid(1, 3)
	branchA := []handler.Handler{NewGivenCandidates([]int{0}, []uint32{bitFor(1) | bitFor(2)})}
	branchB := []handler.Handler{NewGivenCandidates([]int{0}, []uint32{bitFor(2) | bitFor(3)})}
	and := NewAnd([]int{0}, [][]handler.Handler{branchA, branchB})
	if ok := and.Initialize(g, nil, shape.Grid{}, nil); !ok {
		t.Fatalf("expected And to succeed: both branches agree value 2 is possible")
	}
	if got := g.Get(0); got != bitFor(2) {
		t.Errorf("expected And to narrow to the intersection of both branches, got %b", got)
	}
}

func TestAndFailsWhenBranchesConflict(t *testing.T) {
	g := newTestGrid(1, 3)
	branchA := []handler.Handler{NewGivenCandidates([]int{0}, []uint32{bitFor(1)})}
	branchB := []handler.Handler{NewGivenCandidates([]int{0}, []uint32{bitFor(2)})}
	and := NewAnd([]int{0}, [][]handler.Handler{branchA, branchB})
	if ok := and.Initialize(g, nil, shape.Grid{}, nil); ok {
		t.Errorf("expected contradiction: branches disagree on cell 0's only possible value")
	}
}

func TestAndWithNoBranchesActsAsTrue(t *testing.T) {
	g := newTestGrid(1, 3)
	and := NewAnd([]int{0}, nil)
	if ok := and.Initialize(g, nil, shape.Grid{}, nil); !ok {
		t.Fatalf("expected an empty And to be vacuously satisfied")
	}
	if got := g.Get(0); got != maskAll(3) {
		t.Errorf("expected an empty And to leave candidates untouched, got %b", got)
	}
}
