package handler

import (
	"testing"

	"github.com/rawblock/sudoku-engine/internal/grid"
	"github.com/rawblock/sudoku-engine/internal/shape"
)

type stubHandler struct {
	Base
}

func (stubHandler) Initialize(grid.Grid, *CellExclusions, shape.Grid, *StateAllocator) bool {
	return true
}

func (stubHandler) EnforceConsistency(grid.Grid, *Accumulator) bool { return true }

func TestBaseDefaults(t *testing.T) {
	b := Base{CellList: []int{1, 2, 3}, IsEssential: true}
	if len(b.Cells()) != 3 {
		t.Errorf("expected 3 cells")
	}
	if !b.Essential() {
		t.Errorf("expected essential true")
	}
	if b.Priority() != 3 {
		t.Errorf("expected default priority == len(cells), got %d", b.Priority())
	}
	if b.ExclusionCells() != nil {
		t.Errorf("expected nil default exclusion cells")
	}
}

func TestAccumulatorFIFOAndDedup(t *testing.T) {
	set := NewHandlerSet(4)
	acc := NewAccumulator(set)

	acc.Add(ID(2))
	acc.Add(ID(0))
	acc.Add(ID(2)) // duplicate, no-op

	first, ok := acc.Dequeue()
	if !ok || first != ID(2) {
		t.Fatalf("expected first dequeue to be id 2, got %d ok=%v", first, ok)
	}
	second, ok := acc.Dequeue()
	if !ok || second != ID(0) {
		t.Fatalf("expected second dequeue to be id 0, got %d ok=%v", second, ok)
	}
	if !acc.Empty() {
		t.Errorf("expected queue empty after draining")
	}
}

func TestHandlerSetSingletonBeforeOrdinary(t *testing.T) {
	set := NewHandlerSet(2)
	ordinaryID := set.Add(stubHandlerWith([]int{0}, true), false)
	singletonID := set.Add(stubHandlerWith([]int{0}, true), true)

	ids := set.HandlersForCell(0)
	if len(ids) != 2 || ids[0] != singletonID || ids[1] != ordinaryID {
		t.Errorf("expected singleton first, got %v", ids)
	}
}

func TestCellExclusionsPeersAndMustDiffer(t *testing.T) {
	ce := NewCellExclusions(4)
	ce.AddGroup([]int{0, 1, 2})
	ce.Finalize()

	if !ce.MustDiffer(0, 1) || !ce.MustDiffer(1, 2) {
		t.Errorf("expected all pairs within the group to differ")
	}
	if ce.MustDiffer(0, 3) {
		t.Errorf("cell 3 was never added to the group, should not differ")
	}
	peers := ce.Peers(0)
	if len(peers) != 2 {
		t.Errorf("expected 2 peers for cell 0, got %v", peers)
	}
}

func stubHandlerWith(cells []int, essential bool) stubHandler {
	return stubHandler{Base{CellList: cells, IsEssential: essential}}
}
