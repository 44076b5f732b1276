package solver

import (
	"fmt"

	"github.com/rawblock/sudoku-engine/internal/handler"
	"github.com/rawblock/sudoku-engine/internal/handlers"
	"github.com/rawblock/sudoku-engine/internal/nfa"
	"github.com/rawblock/sudoku-engine/internal/shape"
	"github.com/rawblock/sudoku-engine/pkg/models"
)

// buildHandlers resolves one constraint-tree node into the concrete
// handlers it expands to (spec §6.2). Most kinds emit exactly one handler;
// a few decompose into several (Whispers, Palindrome); Renban, and Sum or
// Cage with Strict set, additionally emit an AllDifferent over the same
// cells. Or/And
// recurse into Children, each child forming one branch.
func buildHandlers(node models.ConstraintNode, gs shape.Grid) ([]handler.Handler, error) {
	switch node.Kind {
	case models.KindGivens:
		return []handler.Handler{handlers.NewGivenCandidates(node.Cells, node.GivenMask)}, nil

	case models.KindHouse, models.KindJigsaw, models.KindWindoku, models.KindDisjointSets,
		models.KindDiagonalPos, models.KindDiagonalNeg:
		return []handler.Handler{handlers.NewHouse(node.Cells, gs.NumValues)}, nil

	case models.KindAllDifferent:
		return []handler.Handler{handlers.NewAllDifferent(node.Cells)}, nil

	case models.KindContainer:
		return []handler.Handler{handlers.NewContainer(node.Cells)}, nil

	case models.KindPriority:
		return []handler.Handler{handlers.NewPriority(node.Cells, node.Priority)}, nil

	case models.KindSum, models.KindCage:
		return sumHandlers(node, gs), nil

	case models.KindSumWithNegative:
		return []handler.Handler{handlers.NewSumWithNegative(node.Cells, node.NegativeCells, node.Sum, gs.NumValues)}, nil

	case models.KindThermo:
		return []handler.Handler{handlers.NewThermo(node.Cells, gs.NumValues)}, nil

	case models.KindArrow:
		if len(node.NegativeCells) != 1 {
			return nil, fmt.Errorf("arrow clue needs exactly one bulb cell, got %d", len(node.NegativeCells))
		}
		return []handler.Handler{handlers.NewArrow(node.Cells, node.NegativeCells[0], gs.NumValues)}, nil

	case models.KindPillArrow:
		return []handler.Handler{handlers.NewPillArrow(node.Cells, node.NegativeCells, node.Coefficients, gs.NumValues)}, nil

	case models.KindLittleKiller:
		coeffs := node.Coefficients
		if coeffs == nil {
			coeffs = onesVector(len(node.Cells))
		}
		return []handler.Handler{handlers.NewLittleKiller(node.Cells, coeffs, node.Sum, gs.NumValues)}, nil

	case models.KindWhispers:
		lines := handlers.NewWhisperLine(node.Cells, node.Sum, gs.NumValues)
		out := make([]handler.Handler, len(lines))
		for i, bc := range lines {
			out[i] = bc
		}
		return out, nil

	case models.KindRenban:
		return []handler.Handler{
			handlers.NewRenban(node.Cells, gs.NumValues),
			handlers.NewAllDifferent(node.Cells),
		}, nil

	case models.KindPalindrome:
		pairs := handlers.NewPalindromeLine(node.Cells, gs.NumValues)
		out := make([]handler.Handler, len(pairs))
		for i, sv := range pairs {
			out[i] = sv
		}
		return out, nil

	case models.KindModular:
		return []handler.Handler{handlers.NewModularLine(node.Cells, node.Sum, gs.NumValues)}, nil

	case models.KindEntropic:
		return []handler.Handler{handlers.NewEntropicLine(node.Cells, gs.NumValues)}, nil

	case models.KindBetween:
		poleA, middle, poleB, err := splitPoles(node.Cells)
		if err != nil {
			return nil, err
		}
		return []handler.Handler{handlers.NewBetweenLine(poleA, middle, poleB, gs.NumValues)}, nil

	case models.KindLockout:
		poleA, middle, poleB, err := splitPoles(node.Cells)
		if err != nil {
			return nil, err
		}
		return []handler.Handler{handlers.NewLockoutLine(poleA, middle, poleB, node.Sum, gs.NumValues)}, nil

	case models.KindRegionSumLine:
		return []handler.Handler{handlers.NewRegionSumLine(splitByBox(node.Cells, gs), gs.NumValues)}, nil

	case models.KindZipper:
		return []handler.Handler{handlers.NewZipperLine(node.Cells, gs.NumValues)}, nil

	case models.KindIndexing:
		return []handler.Handler{handlers.NewIndexing(node.Cells, gs.NumValues)}, nil

	case models.KindNumberedRoom:
		return []handler.Handler{handlers.NewNumberedRoom(node.Cells, gs.NumValues)}, nil

	case models.KindFullRank:
		clues := make([]handlers.RankClue, len(node.RankClues))
		for i, c := range node.RankClues {
			clues[i] = handlers.RankClue{House: c.House, RankFromStart: c.RankFromStart, RankFromEnd: c.RankFromEnd}
		}
		return []handler.Handler{handlers.NewFullRank(clues, gs.NumValues)}, nil

	case models.KindCountingCircles:
		return []handler.Handler{handlers.NewCountingCircles(node.Cells, node.SecondCells, gs.NumValues)}, nil

	case models.KindQuad:
		return []handler.Handler{handlers.NewQuad(node.Cells, node.Coefficients)}, nil

	case models.KindDotWhite:
		if node.Table != nil {
			return []handler.Handler{handlers.NewBinaryConstraint(node.Cells[0], node.Cells[1], node.Table, gs.NumValues)}, nil
		}
		return []handler.Handler{handlers.NewKropkiWhite(node.Cells[0], node.Cells[1], gs.NumValues)}, nil

	case models.KindDotBlack:
		if node.Table != nil {
			return []handler.Handler{handlers.NewBinaryConstraint(node.Cells[0], node.Cells[1], node.Table, gs.NumValues)}, nil
		}
		return []handler.Handler{handlers.NewKropkiBlack(node.Cells[0], node.Cells[1], gs.NumValues)}, nil

	case models.KindXV:
		if node.Table != nil {
			return []handler.Handler{handlers.NewBinaryConstraint(node.Cells[0], node.Cells[1], node.Table, gs.NumValues)}, nil
		}
		return []handler.Handler{handlers.NewXVSum(node.Cells[0], node.Cells[1], node.Sum, gs.NumValues)}, nil

	case models.KindKropki:
		table := node.Table
		if table == nil {
			table = unionTables(handlers.BuildDiffTable(gs.NumValues, 1), handlers.BuildRatioTable(gs.NumValues, 2))
		}
		return []handler.Handler{handlers.NewBinaryConstraint(node.Cells[0], node.Cells[1], table, gs.NumValues)}, nil

	case models.KindAntiConsecutive:
		return antiConsecutiveHandlers(node, gs), nil

	case models.KindAntiKnight:
		return antiKnightHandlers(gs), nil

	case models.KindAntiKing:
		return antiKingHandlers(gs), nil

	case models.KindBinaryPairwise:
		return []handler.Handler{handlers.NewBinaryPairwise(node.Cells, node.Tuples, gs.NumValues)}, nil

	case models.KindNFA:
		if node.NFASpec == nil {
			return nil, fmt.Errorf("NFA clue missing its nfaSpec")
		}
		edges := make([]nfa.EdgeSpec, len(node.NFASpec.Transitions))
		for i, e := range node.NFASpec.Transitions {
			edges[i] = nfa.EdgeSpec{From: e.From, To: e.To, Symbol: e.Symbol}
		}
		machine := nfa.FromLiteral(node.NFASpec.NumStates, node.NFASpec.Start, node.NFASpec.Accept, edges, node.NFASpec.Epsilons, gs.NumValues)
		return []handler.Handler{handlers.NewNFAConstraint(node.Cells, machine)}, nil

	case models.KindRegex:
		machine, err := nfa.Build(node.Pattern, gs.NumValues)
		if err != nil {
			return nil, fmt.Errorf("compiling regex clue %q: %w", node.Pattern, err)
		}
		return []handler.Handler{handlers.NewNFAConstraint(node.Cells, machine)}, nil

	case models.KindOr, models.KindAnd:
		branches := make([][]handler.Handler, len(node.Children))
		for i, child := range node.Children {
			branch, err := buildHandlers(child, gs)
			if err != nil {
				return nil, err
			}
			branches[i] = branch
		}
		if node.Kind == models.KindOr {
			return []handler.Handler{handlers.NewOr(node.Cells, branches)}, nil
		}
		return []handler.Handler{handlers.NewAnd(node.Cells, branches)}, nil

	default:
		return nil, fmt.Errorf("unknown constraint kind %q", node.Kind)
	}
}

// sumHandlers backs both Sum and Cage (spec §4.2 table: "Cage = Sum +
// House/AllDifferent composition"): Strict requests an additional
// AllDifferent over the same cells and, symmetrically, forbids Sum's own
// combination search from treating a repeated value as valid. A bare sum
// leaves Strict false and so allows repeated digits among its cells.
func sumHandlers(node models.ConstraintNode, gs shape.Grid) []handler.Handler {
	sum := handlers.NewSum(node.Cells, node.Sum, gs.NumValues, !node.Strict)
	if !node.Strict {
		return []handler.Handler{sum}
	}
	return []handler.Handler{sum, handlers.NewAllDifferent(node.Cells)}
}

func onesVector(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = 1
	}
	return out
}

// splitPoles treats a Between/Lockout node's Cells as [poleA, middle..., poleB].
func splitPoles(cells []int) (poleA int, middle []int, poleB int, err error) {
	if len(cells) < 2 {
		return 0, nil, 0, fmt.Errorf("between/lockout clue needs at least 2 cells (two poles), got %d", len(cells))
	}
	return cells[0], cells[1 : len(cells)-1], cells[len(cells)-1], nil
}

// splitByBox groups a region-sum line's cells into runs that share a box,
// in line order, the segmentation EqualSegmentSums expects for RegionSumLine.
func splitByBox(cells []int, gs shape.Grid) [][]int {
	if !gs.HasBoxes() || len(cells) == 0 {
		return [][]int{cells}
	}
	var segments [][]int
	var current []int
	currentBox := gs.BoxIndex(cells[0])
	for _, c := range cells {
		box := gs.BoxIndex(c)
		if box != currentBox && len(current) > 0 {
			segments = append(segments, current)
			current = nil
		}
		current = append(current, c)
		currentBox = box
	}
	if len(current) > 0 {
		segments = append(segments, current)
	}
	return segments
}

func unionTables(a, b []uint32) []uint32 {
	out := make([]uint32, len(a))
	for i := range a {
		out[i] = a[i] | b[i]
	}
	return out
}

// antiConsecutiveHandlers accepts either an explicit list of pole pairs
// (Cells taken two at a time) or, when Cells is empty, generates the
// constraint for every orthogonally adjacent pair in the grid.
func antiConsecutiveHandlers(node models.ConstraintNode, gs shape.Grid) []handler.Handler {
	table := node.Table
	if table == nil {
		table = handlers.BuildNotConsecutiveTable(gs.NumValues)
	}
	if len(node.Cells) >= 2 {
		out := make([]handler.Handler, 0, len(node.Cells)/2)
		for i := 0; i+1 < len(node.Cells); i += 2 {
			out = append(out, handlers.NewBinaryConstraint(node.Cells[i], node.Cells[i+1], table, gs.NumValues))
		}
		return out
	}
	offsets := [][2]int{{0, 1}, {1, 0}}
	return pairwiseOffsets(gs, offsets, func(a, b int) handler.Handler {
		return handlers.NewBinaryConstraint(a, b, table, gs.NumValues)
	})
}

func antiKnightHandlers(gs shape.Grid) []handler.Handler {
	offsets := [][2]int{{1, 2}, {1, -2}, {-1, 2}, {-1, -2}, {2, 1}, {2, -1}, {-2, 1}, {-2, -1}}
	return pairwiseOffsets(gs, offsets, func(a, b int) handler.Handler {
		return handlers.NewAllDifferent([]int{a, b})
	})
}

// antiKingHandlers only needs the diagonal neighbor offsets: orthogonal
// neighbors are already forced distinct wherever row/column houses exist.
func antiKingHandlers(gs shape.Grid) []handler.Handler {
	offsets := [][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	return pairwiseOffsets(gs, offsets, func(a, b int) handler.Handler {
		return handlers.NewAllDifferent([]int{a, b})
	})
}

// pairwiseOffsets emits one handler per unordered cell pair at any of the
// given row/col offsets from some cell in the grid.
func pairwiseOffsets(gs shape.Grid, offsets [][2]int, build func(a, b int) handler.Handler) []handler.Handler {
	var out []handler.Handler
	for r := 0; r < gs.NumRows; r++ {
		for c := 0; c < gs.NumCols; c++ {
			a := gs.CellAt(r, c)
			for _, off := range offsets {
				r2, c2 := r+off[0], c+off[1]
				if r2 < 0 || r2 >= gs.NumRows || c2 < 0 || c2 >= gs.NumCols {
					continue
				}
				b := gs.CellAt(r2, c2)
				if b <= a {
					continue
				}
				out = append(out, build(a, b))
			}
		}
	}
	return out
}
