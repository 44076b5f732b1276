package handlers

import (
	"testing"

	"github.com/rawblock/sudoku-engine/internal/shape"
)

func TestPriorityNeverNarrowsButReportsItsBoost(t *testing.T) {
	g := newTestGrid(2, 3)
	h := NewPriority([]int{0, 1}, 7)
	if ok := h.Initialize(g, nil, shape.Grid{}, nil); !ok {
		t.Fatalf("expected Priority to never fail Initialize")
	}
	if ok := h.EnforceConsistency(g, nil); !ok {
		t.Fatalf("expected Priority to never fail EnforceConsistency")
	}
	if g.Get(0) != maskAll(3) || g.Get(1) != maskAll(3) {
		t.Errorf("expected Priority to leave candidates untouched")
	}
	if got := h.Priority(); got != 7 {
		t.Errorf("expected Priority() to report the declared boost, got %d", got)
	}
}

func TestTrueNeverFails(t *testing.T) {
	g := newTestGrid(1, 3)
	h := NewTrue()
	if ok := h.Initialize(g, nil, shape.Grid{}, nil); !ok {
		t.Errorf("expected True.Initialize to always succeed")
	}
	if ok := h.EnforceConsistency(g, nil); !ok {
		t.Errorf("expected True.EnforceConsistency to always succeed")
	}
}

func TestFalseAlwaysFails(t *testing.T) {
	g := newTestGrid(1, 3)
	h := NewFalse()
	if ok := h.Initialize(g, nil, shape.Grid{}, nil); ok {
		t.Errorf("expected False.Initialize to always fail")
	}
	if ok := h.EnforceConsistency(g, nil); ok {
		t.Errorf("expected False.EnforceConsistency to always fail")
	}
}

func TestContainerBehavesAsAllDifferent(t *testing.T) {
	g := newTestGrid(2, 3)
	g.Set(0, bitFor(1))
	h := NewContainer([]int{0, 1})
	if ok := h.EnforceConsistency(g, nil); !ok {
		t.Fatalf("expected Container's AllDifferent semantics to hold")
	}
	if g.Get(1)&bitFor(1) != 0 {
		t.Errorf("expected Container to remove cell 0's fixed value from cell 1, got %b", g.Get(1))
	}
}

func TestNumberedRoomBehavesAsIndexing(t *testing.T) {
	g := newTestGrid(3, 3)
	// Cell 0 holds the border clue's own index+1 under Indexing's mutual
	// implication: fixing cell 0 to 2 is consistent as long as cell 1
	// (index 2-1) can still carry the clue's own value back.
	g.Set(0, bitFor(2))
	h := NewNumberedRoom([]int{0, 1, 2}, 3)
	if ok := h.EnforceConsistency(g, nil); !ok {
		t.Fatalf("expected NumberedRoom's Indexing semantics to hold")
	}
}
