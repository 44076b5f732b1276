// Package models defines the wire-level types exchanged between the solver
// façade and its external collaborators: the resolved constraint tree that
// drives a solve, and the solution/snapshot/counter types it produces.
package models

// Kind names a constraint variant. The set is closed — see spec §6.1.
type Kind string

const (
	KindGivens          Kind = "Givens"
	KindHouse           Kind = "House"
	KindAllDifferent    Kind = "AllDifferent"
	KindSum             Kind = "Sum"
	KindSumWithNegative Kind = "SumWithNegative"
	KindThermo          Kind = "Thermo"
	KindArrow           Kind = "Arrow"
	KindPillArrow       Kind = "PillArrow"
	KindLittleKiller    Kind = "LittleKiller"
	KindCage            Kind = "Cage"
	KindWhispers        Kind = "Whispers"
	KindRenban          Kind = "Renban"
	KindPalindrome      Kind = "Palindrome"
	KindModular         Kind = "Modular"
	KindEntropic        Kind = "Entropic"
	KindBetween         Kind = "Between"
	KindLockout         Kind = "Lockout"
	KindRegionSumLine   Kind = "RegionSumLine"
	KindZipper          Kind = "Zipper"
	KindIndexing        Kind = "Indexing"
	KindFullRank        Kind = "FullRank"
	KindNumberedRoom    Kind = "NumberedRoom"
	KindCountingCircles Kind = "CountingCircles"
	KindQuad            Kind = "Quad"
	KindDotBlack        Kind = "DotBlack"
	KindDotWhite        Kind = "DotWhite"
	KindXV              Kind = "XV"
	KindKropki          Kind = "Kropki"
	KindAntiKnight      Kind = "AntiKnight"
	KindAntiKing        Kind = "AntiKing"
	KindAntiConsecutive Kind = "AntiConsecutive"
	KindDiagonalPos     Kind = "DiagonalPos"
	KindDiagonalNeg     Kind = "DiagonalNeg"
	KindJigsaw          Kind = "Jigsaw"
	KindWindoku         Kind = "Windoku"
	KindDisjointSets    Kind = "DisjointSets"
	KindNFA             Kind = "NFA"
	KindRegex           Kind = "Regex"
	KindBinaryPairwise  Kind = "BinaryPairwise"
	KindOr              Kind = "Or"
	KindAnd             Kind = "And"
	KindContainer       Kind = "Container"
	KindPriority        Kind = "Priority"
)

// Cell addresses a cell as a linear index into a numRows*numCols grid.
type Cell = int

// ConstraintNode is one node of the resolved constraint tree handed to the
// solver façade. Leaves name a Kind and carry its parameters; Or/And carry
// child nodes in Children. Only the fields relevant to Kind are populated —
// the façade's resolver (internal/solver/resolve.go) switches on Kind.
type ConstraintNode struct {
	Kind Kind `json:"kind" validate:"required"`

	// Cells lists the cell indices this node constrains, for kinds whose
	// semantics are "these cells, in this order" (House, AllDifferent, Sum,
	// Thermo, LittleKiller coefficients, Indexing, etc).
	Cells []Cell `json:"cells,omitempty"`

	// Sum is the target value for Sum/SumWithNegative/Cage/LittleKiller.
	Sum int `json:"sum,omitempty"`

	// NegativeCells lists cells subtracted in SumWithNegative/Arrow (bulb).
	NegativeCells []Cell `json:"negativeCells,omitempty"`

	// Coefficients parallels Cells for weighted sums (LittleKiller, PillArrow
	// positional digits). Nil means all-ones.
	Coefficients []int `json:"coefficients,omitempty"`

	// GivenMask is the allowed-value bitmask for a Givens leaf, keyed by the
	// position of the corresponding entry in Cells.
	GivenMask []uint32 `json:"givenMask,omitempty"`

	// SecondCells is a second operand cell-set; resolve.go reads it as
	// CountingCircles' circled subset.
	SecondCells []Cell `json:"secondCells,omitempty"`
	Strict      bool   `json:"strict,omitempty"`

	// Table is the allowed-pair bitmap for BinaryConstraint-shaped kinds
	// (DotWhite, DotBlack, XV, Kropki, AntiConsecutive), indexed [valueA-1] ->
	// bitmask of allowed valueB bits.
	Table []uint32 `json:"table,omitempty"`

	// Tuples holds explicit allowed value-tuples for BinaryPairwise over
	// more than two cells.
	Tuples [][]int `json:"tuples,omitempty"`

	// RankClues parameterizes FullRank: (house cells, rankFromStart, rankFromEnd).
	RankClues []RankClue `json:"rankClues,omitempty"`

	// Pattern is the regex source for KindRegex; NFASpec wires up a
	// literal NFA for KindNFA (see internal/nfa).
	Pattern   string     `json:"pattern,omitempty"`
	NFASpec   *NFASpec   `json:"nfaSpec,omitempty"`

	// Priority boosts branch-selection for a cell set (Priority structural kind).
	Priority int `json:"priority,omitempty"`

	// Children holds subordinate constraint trees for Or/And.
	Children []ConstraintNode `json:"children,omitempty"`
}

// RankClue is one FullRank clue: house, 0-based rank from the start, and
// 0-based rank from the end of the sort order over all houses of its kind.
type RankClue struct {
	House         []Cell `json:"house"`
	RankFromStart int    `json:"rankFromStart"`
	RankFromEnd   int    `json:"rankFromEnd"`
}

// NFASpec describes a literal NFA: states, per-state per-symbol transitions,
// epsilon edges, start and accept states. Symbols are value-bitmasks.
type NFASpec struct {
	NumStates   int           `json:"numStates"`
	Start       int           `json:"start"`
	Accept      []int         `json:"accept"`
	Transitions []NFAEdge     `json:"transitions"`
	Epsilons    [][2]int      `json:"epsilons,omitempty"`
}

// NFAEdge is one (from, symbolMask, to) transition.
type NFAEdge struct {
	From   int    `json:"from"`
	Symbol uint32 `json:"symbol"`
	To     int    `json:"to"`
}

// PuzzleSpec is the top-level input to the solver façade: grid shape plus
// the resolved constraint forest (each top-level node is implicitly AND-ed).
type PuzzleSpec struct {
	NumRows     int              `json:"numRows" validate:"required,min=1,max=16"`
	NumCols     int              `json:"numCols" validate:"required,min=1,max=16"`
	NumValues   int              `json:"numValues" validate:"required,min=1,max=16"`
	BoxWidth    int              `json:"boxWidth,omitempty"`
	BoxHeight   int              `json:"boxHeight,omitempty"`
	Constraints []ConstraintNode `json:"constraints"`
}
