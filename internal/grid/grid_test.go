package grid

import "testing"

func TestGridIntersectNarrowsAndReportsChange(t *testing.T) {
	g := NewGrid(3, 0x1FF)
	after, changed := g.Intersect(0, 0x007)
	if !changed {
		t.Fatalf("expected Intersect to report a change")
	}
	if after != 0x007 {
		t.Errorf("expected mask 0x007, got %#x", after)
	}

	_, changedAgain := g.Intersect(0, 0x007)
	if changedAgain {
		t.Errorf("expected idempotent Intersect with same mask to report no change")
	}
}

func TestGridIntersectNeverWidens(t *testing.T) {
	g := NewGrid(1, 0x1FF)
	g.Intersect(0, 0x003)
	after, _ := g.Intersect(0, 0x1FF)
	if after&^uint32(0x003) != 0 {
		t.Errorf("Intersect must never widen a mask, got %#x", after)
	}
}

func TestStackDescendCopiesLevel(t *testing.T) {
	s := NewStack(2, 0x1FF)
	s.Level(0).Set(0, 0x001)
	s.Descend(0)
	if got := s.Level(1).Get(0); got != 0x001 {
		t.Errorf("expected descend to copy level 0 into level 1, got %#x", got)
	}

	// Mutating level 1 must not affect level 0.
	s.Level(1).Set(0, 0x002)
	if got := s.Level(0).Get(0); got != 0x001 {
		t.Errorf("level 0 mutated after independent level 1 write: got %#x", got)
	}
}

func TestGridCloneIsIndependent(t *testing.T) {
	g := NewGrid(1, 0x1FF)
	clone := g.Clone()
	clone.Set(0, 0x001)
	if g.Get(0) == 0x001 {
		t.Errorf("expected Clone to be independent of the source grid")
	}
}
