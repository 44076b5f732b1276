package handlers

// NewPalindromeLine mirrors a line about its center: cell i must equal its
// mirror cell len(cells)-1-i. Decomposes into one SameValues pair per
// mirrored position (the center cell of an odd-length line has no partner
// and is left unconstrained), same decomposition style as NewWhisperLine.
func NewPalindromeLine(cells []int, numValues int) []*SameValues {
	n := len(cells)
	out := make([]*SameValues, 0, n/2)
	for i := 0; i < n/2; i++ {
		j := n - 1 - i
		out = append(out, NewSameValues([]int{cells[i]}, []int{cells[j]}, false, numValues))
	}
	return out
}
