package nfa

import "testing"

func bit(v int) uint32 { return 1 << uint(v-1) }

func fullMask(numValues int) uint32 { return 1<<uint(numValues) - 1 }

func TestBuildLiteralAccepts(t *testing.T) {
	n, err := Build("12", 2)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !n.Accepts([]int{1, 2}) {
		t.Errorf("expected [1,2] to be accepted")
	}
	if n.Accepts([]int{2, 1}) {
		t.Errorf("did not expect [2,1] to be accepted")
	}
}

func TestBuildAlternationAcceptsEitherBranch(t *testing.T) {
	n, err := Build("1|2", 2)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !n.Accepts([]int{1}) || !n.Accepts([]int{2}) {
		t.Errorf("expected both single-symbol branches to accept")
	}
	if n.Accepts([]int{1, 2}) {
		t.Errorf("did not expect a 2-symbol sequence to accept a 1-symbol alternation")
	}
}

func TestStarAcceptsEmptySequence(t *testing.T) {
	n, err := Build("(1|2)*", 2)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !n.Accepts(nil) {
		t.Errorf("expected star of an alternation to accept the empty sequence")
	}
	if !n.Accepts([]int{1, 2, 1, 1, 2}) {
		t.Errorf("expected (1|2)* to accept any sequence over {1,2}")
	}
}

func TestPlusRejectsEmptySequence(t *testing.T) {
	n, err := Build("1+", 2)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if n.Accepts(nil) {
		t.Errorf("+ should require at least one repetition")
	}
	if !n.Accepts([]int{1, 1, 1}) {
		t.Errorf("expected 1+ to accept three 1s")
	}
}

func TestBraceQuantifierExactCount(t *testing.T) {
	n, err := Build("1{2}", 2)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if n.Accepts([]int{1}) {
		t.Errorf("1{2} should reject a single 1")
	}
	if !n.Accepts([]int{1, 1}) {
		t.Errorf("1{2} should accept exactly two 1s")
	}
	if n.Accepts([]int{1, 1, 1}) {
		t.Errorf("1{2} should reject three 1s")
	}
}

func TestCharacterClassRange(t *testing.T) {
	n, err := Build("[1-3]", 4)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for v := 1; v <= 3; v++ {
		if !n.Accepts([]int{v}) {
			t.Errorf("expected [1-3] to accept %d", v)
		}
	}
	if n.Accepts([]int{4}) {
		t.Errorf("did not expect [1-3] to accept 4")
	}
}

func TestNegatedCharacterClass(t *testing.T) {
	n, err := Build("[^2]", 3)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if n.Accepts([]int{2}) {
		t.Errorf("expected [^2] to reject 2")
	}
	if !n.Accepts([]int{1}) || !n.Accepts([]int{3}) {
		t.Errorf("expected [^2] to accept 1 and 3")
	}
}

func TestSimulatePrunesValuesGreaterThanTwo(t *testing.T) {
	// (1|2)* over 3 cells, all values initially open (spec §8 example).
	n, err := Build("(1|2)*", 3)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	candidates := []uint32{fullMask(3), fullMask(3), fullMask(3)}
	allowed, ok := n.Simulate(candidates)
	if !ok {
		t.Fatalf("expected a feasible simulation")
	}
	for i, mask := range allowed {
		if mask&bit(3) != 0 {
			t.Errorf("position %d should have pruned value 3, got mask %b", i, mask)
		}
		if mask&(bit(1)|bit(2)) == 0 {
			t.Errorf("position %d should still allow 1 or 2", i)
		}
	}
}

func TestSimulateContradictionWhenSequenceCannotMatch(t *testing.T) {
	n, err := Build("12", 2)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	// Force position 0 to value 2: "12" requires position 0 to be 1.
	candidates := []uint32{bit(2), fullMask(2)}
	if _, ok := n.Simulate(candidates); ok {
		t.Errorf("expected contradiction: literal 1 forced at position 0 conflicts with fixed candidate 2")
	}
}

func TestOptimizeShrinksStatesAndPreservesAcceptance(t *testing.T) {
	n, err := Build("(1|2)*", 2)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	opt := Optimize(n)
	if len(opt.States) == 0 {
		t.Fatalf("optimized NFA has no states")
	}
	if !opt.Accepts(nil) {
		t.Errorf("optimized NFA should still accept the empty sequence")
	}
	if !opt.Accepts([]int{1, 2, 2, 1}) {
		t.Errorf("optimized NFA should still accept sequences over {1,2}")
	}
}

func TestOptimizeDropsUnreachableStates(t *testing.T) {
	n, err := Build("1{3,}", 1)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	opt := Optimize(n)
	if !opt.Accepts([]int{1, 1, 1, 1, 1}) {
		t.Errorf("expected 1{3,} to accept five 1s after optimization")
	}
	if opt.Accepts([]int{1, 1}) {
		t.Errorf("expected 1{3,} to still reject two 1s after optimization")
	}
}
