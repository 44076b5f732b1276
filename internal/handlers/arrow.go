package handlers

// NewArrow builds an Arrow constraint (sum of shaft cells equals the
// bulb's value) as a SumWithNegative with the bulb cell negated and offset
// 0 (spec §4.2 table). Grounded on lightning_detection.go's "funnel total
// equals terminal node" reasoning.
func NewArrow(shaft []int, bulb int, numValues int) *SumWithNegative {
	return NewSumWithNegative(shaft, []int{bulb}, 0, numValues)
}

// NewPillArrow builds a multi-digit-bulb Arrow: the bulb cells form a
// base-10-ish number via positional Coefficients (e.g. [10, 1] for a
// two-digit pill), and the shaft sums to that number. Implemented as a
// WeightedSum over shaft (+1 each) and bulb (negative positional weights).
func NewPillArrow(shaft []int, bulb []int, bulbWeights []int, numValues int) *WeightedSum {
	cells := append(append([]int{}, shaft...), bulb...)
	coeffs := make([]int, 0, len(cells))
	for range shaft {
		coeffs = append(coeffs, 1)
	}
	for _, w := range bulbWeights {
		coeffs = append(coeffs, -w)
	}
	return NewWeightedSum(cells, coeffs, 0, numValues)
}
