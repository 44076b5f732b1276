package handlers

// This file collects the pairwise dot/letter variants: each is a thin
// constructor over BinaryConstraint (spec §4.2 table) or, for a full line of
// dots, a slice of BinaryConstraint instances covering successive pairs.
// Grounded on exchange_detection.go's adjacent-pair signature table, same
// as BinaryConstraint itself.

// NewKropkiWhite builds a white-dot pair: the two values are consecutive.
func NewKropkiWhite(a, b, numValues int) *BinaryConstraint {
	return NewBinaryConstraint(a, b, BuildDiffTable(numValues, 1), numValues)
}

// NewKropkiBlack builds a black-dot pair: one value is double the other.
func NewKropkiBlack(a, b, numValues int) *BinaryConstraint {
	return NewBinaryConstraint(a, b, BuildRatioTable(numValues, 2), numValues)
}

// NewXVSum builds an XV pair constrained to the given total (10 for "X", 5
// for "V" in the classic variant, but the resolver passes whatever the
// puzzle's clue encodes).
func NewXVSum(a, b, sum, numValues int) *BinaryConstraint {
	return NewBinaryConstraint(a, b, BuildSumTable(numValues, sum), numValues)
}

// NewWhisperLine builds a German Whispers line: every adjacent pair along
// cells must differ by at least minDiff. Returns one BinaryConstraint per
// adjacent pair (spec §4.2: "decomposes into adjacent-pair BinaryConstraints").
func NewWhisperLine(cells []int, minDiff, numValues int) []*BinaryConstraint {
	table := buildMinDiffTable(numValues, minDiff)
	out := make([]*BinaryConstraint, 0, len(cells)-1)
	for i := 0; i+1 < len(cells); i++ {
		out = append(out, NewBinaryConstraint(cells[i], cells[i+1], table, numValues))
	}
	return out
}

// buildMinDiffTable allows (a,b) iff |a-b| >= minDiff.
func buildMinDiffTable(numValues, minDiff int) []uint32 {
	table := make([]uint32, numValues)
	for a := 1; a <= numValues; a++ {
		var allowed uint32
		for b := 1; b <= numValues; b++ {
			d := a - b
			if d < 0 {
				d = -d
			}
			if d >= minDiff {
				allowed |= bitFor(b)
			}
		}
		table[a-1] = allowed
	}
	return table
}
