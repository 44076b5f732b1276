package models

import "strings"

// digitAlphabet renders values 1-16 the way the teacher renders short ids:
// digits first, then capital letters, smallest-width representation.
const digitAlphabet = "123456789ABCDEFG"

// Solution is one assignment of every cell to a 1..numValues value.
type Solution struct {
	Values []int `json:"values"`
}

// ShortString renders the solution as a single string, one character per
// cell, digits 1-9 then A-G for numValues up to 16 (spec §6.2).
func (s Solution) ShortString() string {
	var b strings.Builder
	b.Grow(len(s.Values))
	for _, v := range s.Values {
		if v <= 0 || v > len(digitAlphabet) {
			b.WriteByte('.')
			continue
		}
		b.WriteByte(digitAlphabet[v-1])
	}
	return b.String()
}

// PencilmarkMask is the result of solveAllPossibilities: one candidate
// bitmask per cell, the union-of-values across every solution.
type PencilmarkMask struct {
	Masks []uint32 `json:"masks"`
}
