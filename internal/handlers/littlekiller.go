package handlers

// LittleKiller builds a coefficient-weighted Sum over a diagonal (spec
// §4.2: "Dedicated Sum over diagonal cells; supports non-unit
// coefficients"). Grounded on fee_analysis.go's weighted-balance check.
//
// The "two separately named LittleKiller-sum handlers" open question (spec
// §9) is resolved by unifying on a single weighted Sum: a plain diagonal
// sum is just NewLittleKiller with every coefficient 1.
func NewLittleKiller(cells []int, coefficients []int, target, numValues int) *WeightedSum {
	return NewWeightedSum(cells, coefficients, target, numValues)
}
