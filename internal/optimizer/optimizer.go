// Package optimizer runs the seven-step auxiliary-handler synthesis pass
// (spec §4.3) once over a frozen HandlerSet, before a solve begins.
// Grounded on factor_graph.go's grouping-then-fusion pipeline: group
// related signals (here, overlapping Sum/House handlers), derive a fused
// signal from the group (a complementary Sum, a SameValues pair, a merged
// FullRank), and feed the fused signal back into the same propagation
// loop as an ordinary, if non-essential, participant.
package optimizer

import (
	"math"
	"sort"

	"github.com/rawblock/sudoku-engine/internal/handler"
	"github.com/rawblock/sudoku-engine/internal/handlers"
	"github.com/rawblock/sudoku-engine/internal/shape"
)

// synthesizedSumSizeLimit and skewThreshold implement the size heuristic:
// a synthesized Sum over more than this many cells is worth the
// propagation cost only when its average value is far from the grid's
// midpoint (spec §4.3 "Size heuristic").
const (
	synthesizedSumSizeLimit = 6
	skewThreshold           = 2.0
)

// Optimize mutates hs in place: handlers it synthesizes are tagged
// essential=false, while handlers it swaps in for existing ones (House
// promotion, small-Sum replacement, FullRank fusion) keep the essential
// flag their constructor or the replaced Sum gives them. excl must already reflect every essential handler's
// ExclusionCells (the façade builds it before calling Optimize); gs is the
// frozen puzzle shape.
func Optimize(hs *handler.HandlerSet, excl *handler.CellExclusions, gs shape.Grid) {
	promoteAllDifferentToHouse(hs, excl, gs)
	houses := collectHouses(hs)
	sums := collectSums(hs)

	sums = pickNonOverlappingAndSynthesizeComplement(hs, gs, sums)
	synthesizeInnieOutie(hs, gs, houses, sums)
	synthesizeHiddenCage(hs, gs, houses, sums)
	replaceSmallSumsWithDirectHandlers(hs, gs, collectSums(hs))

	recordComplementCells(hs, houses, collectSums(hs))
	emitJigsawIntersections(hs, gs, houses)
	emitLawOfLeftovers(hs, gs)
	fuseFullRank(hs)
	emitBoxLineIntersections(hs, gs, houses)
}

// --- step 1: House-from-AllDifferent promotion ---

func promoteAllDifferentToHouse(hs *handler.HandlerSet, excl *handler.CellExclusions, gs shape.Grid) {
	for _, id := range hs.All() {
		ad, ok := hs.Get(id).(*handlers.AllDifferent)
		if !ok {
			continue
		}
		cells := ad.CellList
		if len(cells) != gs.NumValues {
			continue
		}
		if !allPairsExcluded(excl, cells) {
			continue
		}
		hs.Replace(id, handlers.NewHouse(append([]int{}, cells...), gs.NumValues), false)
	}
}

func allPairsExcluded(excl *handler.CellExclusions, cells []int) bool {
	for i, a := range cells {
		for j, b := range cells {
			if i == j {
				continue
			}
			if !excl.MustDiffer(a, b) {
				return false
			}
		}
	}
	return true
}

// --- collection helpers ---

func collectHouses(hs *handler.HandlerSet) []handler.ID {
	var out []handler.ID
	for _, id := range hs.All() {
		if _, ok := hs.Get(id).(*handlers.House); ok {
			out = append(out, id)
		}
	}
	return out
}

func collectSums(hs *handler.HandlerSet) []handler.ID {
	var out []handler.ID
	for _, id := range hs.All() {
		if _, ok := hs.Get(id).(*handlers.Sum); ok {
			out = append(out, id)
		}
	}
	return out
}

// --- step 2a/2b: greedy bin-pack + complementary Sum ---

func pickNonOverlappingAndSynthesizeComplement(hs *handler.HandlerSet, gs shape.Grid, sumIDs []handler.ID) []handler.ID {
	if len(sumIDs) == 0 {
		return sumIDs
	}
	sort.Slice(sumIDs, func(i, j int) bool {
		return len(hs.Get(sumIDs[i]).(*handlers.Sum).CellList) < len(hs.Get(sumIDs[j]).(*handlers.Sum).CellList)
	})

	covered := make(map[int]bool)
	var pickedSum int
	var picked []handler.ID
	for _, id := range sumIDs {
		s := hs.Get(id).(*handlers.Sum)
		overlaps := false
		for _, c := range s.CellList {
			if covered[c] {
				overlaps = true
				break
			}
		}
		if overlaps {
			continue
		}
		for _, c := range s.CellList {
			covered[c] = true
		}
		pickedSum += s.Target
		picked = append(picked, id)
	}

	var missing []int
	for c := 0; c < gs.NumCells(); c++ {
		if !covered[c] {
			missing = append(missing, c)
		}
	}
	if len(missing) == 0 || len(missing) >= gs.NumValues {
		return sumIDs
	}
	gridTotal := gs.NumRows * gs.MaxSum()
	target := gridTotal - pickedSum
	if !keepSynthesizedSum(missing, target, gs.NumValues) {
		return sumIDs
	}
	s := handlers.NewSum(missing, target, gs.NumValues, false)
	s.IsEssential = false
	id := hs.Add(s, false)
	return append(sumIDs, id)
}

func keepSynthesizedSum(cells []int, target, numValues int) bool {
	if len(cells) <= synthesizedSumSizeLimit {
		return true
	}
	avg := float64(target) / float64(len(cells))
	mid := float64(numValues+1) / 2
	return math.Abs(avg-mid) >= skewThreshold
}

// --- step 2c: innie/outie ---

func synthesizeInnieOutie(hs *handler.HandlerSet, gs shape.Grid, houseIDs, sumIDs []handler.ID) {
	for _, hid := range houseIDs {
		house := hs.Get(hid).(*handlers.House)
		for _, sid := range sumIDs {
			s, ok := hs.Get(sid).(*handlers.Sum)
			if !ok {
				continue
			}
			cageOutside := diff(s.CellList, house.CellList)
			houseOutside := diff(house.CellList, s.CellList)
			if len(cageOutside) == 0 || len(houseOutside) == 0 {
				continue // cage fully inside (handled by hidden-cage) or fully outside (no relation)
			}
			offset := s.Target - gs.MaxSum()
			sn := handlers.NewSumWithNegative(cageOutside, houseOutside, offset, gs.NumValues)
			sn.IsEssential = false
			hs.Add(sn, false)
		}
	}
}

// --- step 2d: hidden cage ---

func synthesizeHiddenCage(hs *handler.HandlerSet, gs shape.Grid, houseIDs, sumIDs []handler.ID) {
	for _, hid := range houseIDs {
		house := hs.Get(hid).(*handlers.House)
		var containedCells []int
		sigma := 0
		seen := make(map[int]bool)
		for _, sid := range sumIDs {
			s := hs.Get(sid).(*handlers.Sum)
			if !subsetOf(s.CellList, house.CellList) {
				continue
			}
			overlapsPrior := false
			for _, c := range s.CellList {
				if seen[c] {
					overlapsPrior = true
					break
				}
			}
			if overlapsPrior {
				continue
			}
			for _, c := range s.CellList {
				seen[c] = true
			}
			containedCells = append(containedCells, s.CellList...)
			sigma += s.Target
		}
		remaining := diff(house.CellList, containedCells)
		if len(remaining) == 0 || len(containedCells) == 0 {
			continue
		}
		target := gs.MaxSum() - sigma
		if !keepSynthesizedSum(remaining, target, gs.NumValues) {
			continue
		}
		s := handlers.NewSum(remaining, target, gs.NumValues, false)
		s.IsEssential = false
		hs.Add(s, false)
	}
}

// --- step 2e: 1/2-cell Sum replacement ---

func replaceSmallSumsWithDirectHandlers(hs *handler.HandlerSet, gs shape.Grid, sumIDs []handler.ID) {
	for _, id := range sumIDs {
		s, ok := hs.Get(id).(*handlers.Sum)
		if !ok {
			continue
		}
		switch len(s.CellList) {
		case 1:
			mask := bitForValue(s.Target)
			g := handlers.NewGivenCandidates(s.CellList, []uint32{mask})
			g.IsEssential = s.Essential()
			hs.Replace(id, g, false)
		case 2:
			table := handlers.BuildSumTable(gs.NumValues, s.Target)
			b := handlers.NewBinaryConstraint(s.CellList[0], s.CellList[1], table, gs.NumValues)
			b.IsEssential = s.Essential()
			hs.Replace(id, b, false)
		}
	}
}

func bitForValue(v int) uint32 { return 1 << uint(v-1) }

// --- step 3: complement cells ---

// recordComplementCells wires each Sum fully inside a House to the rest
// of that house's cells, so the Sum's own Initialize/EnforceConsistency
// (handlers.Sum.pruneComplement) can narrow them once the Sum's cells are
// all fixed — distinct from the hidden-cage step, which instead
// synthesizes a brand new Sum over the gap.
func recordComplementCells(hs *handler.HandlerSet, houseIDs, sumIDs []handler.ID) {
	for _, hid := range houseIDs {
		house := hs.Get(hid).(*handlers.House)
		for _, sid := range sumIDs {
			s, ok := hs.Get(sid).(*handlers.Sum)
			if !ok || !subsetOf(s.CellList, house.CellList) {
				continue
			}
			s.SetComplementCells(diff(house.CellList, s.CellList))
		}
	}
}

// --- step 4: jigsaw intersections ---

func emitJigsawIntersections(hs *handler.HandlerSet, gs shape.Grid, houseIDs []handler.ID) {
	seen := make(map[[2]handler.ID]bool)
	for i, aID := range houseIDs {
		for _, bID := range houseIDs[i+1:] {
			if seen[[2]handler.ID{aID, bID}] {
				continue
			}
			a := hs.Get(aID).(*handlers.House)
			b := hs.Get(bID).(*handlers.House)
			ov := overlap(a.CellList, b.CellList)
			if len(ov) == 0 {
				continue
			}
			if gs.HasBoxes() && (len(ov) == gs.BoxWidth || len(ov) == gs.BoxHeight) {
				continue // reserved for the box-intersection pass (step 7)
			}
			diffA := diff(a.CellList, ov)
			diffB := diff(b.CellList, ov)
			if len(diffA) == 0 || len(diffB) == 0 {
				continue
			}
			sv := handlers.NewSameValues(diffA, diffB, false, gs.NumValues)
			sv.IsEssential = false
			hs.Add(sv, false)
			seen[[2]handler.ID{aID, bID}] = true
		}
	}
}

// --- step 5: law of leftovers ---

// emitLawOfLeftovers exploits the fact that any two House partitions of
// the grid (rows vs cols, rows vs boxes, cols vs boxes) each contain every
// value exactly once per house: summing k houses from either partition
// yields the same per-value multiplicity (k), so after removing the
// shared cells the remaining ("leftover") cells on both sides carry the
// same multiset of values (spec §4.3 step 5).
func emitLawOfLeftovers(hs *handler.HandlerSet, gs shape.Grid) {
	rows := make([][]int, gs.NumRows)
	for r := range rows {
		rows[r] = gs.Row(r)
	}
	cols := make([][]int, gs.NumCols)
	for c := range cols {
		cols[c] = gs.Col(c)
	}
	pairs := [][2][][]int{{rows, cols}}
	if gs.HasBoxes() {
		numBoxes := (gs.NumCols / gs.BoxWidth) * (gs.NumRows / gs.BoxHeight)
		boxes := make([][]int, numBoxes)
		for b := range boxes {
			boxes[b] = gs.Box(b)
		}
		pairs = append(pairs, [2][][]int{rows, boxes}, [2][][]int{cols, boxes})
	}
	for _, pair := range pairs {
		emitLeftoverPrefixes(hs, gs, pair[0], pair[1])
	}
}

func emitLeftoverPrefixes(hs *handler.HandlerSet, gs shape.Grid, familyA, familyB [][]int) {
	n := len(familyA)
	if len(familyB) < n {
		n = len(familyB)
	}
	for k := 1; k < n; k++ {
		unionA := unionOf(familyA[:k])
		unionB := unionOf(familyB[:k])
		leftoverA := diff(unionA, unionB)
		leftoverB := diff(unionB, unionA)
		if len(leftoverA) == 0 || len(leftoverB) == 0 || len(leftoverA) != len(leftoverB) {
			continue
		}
		sv := handlers.NewSameValues(leftoverA, leftoverB, false, gs.NumValues)
		sv.IsEssential = false
		hs.Add(sv, false)
	}
}

// --- step 6: full-rank fusion ---

func fuseFullRank(hs *handler.HandlerSet) {
	var ids []handler.ID
	for _, id := range hs.All() {
		if _, ok := hs.Get(id).(*handlers.FullRank); ok {
			ids = append(ids, id)
		}
	}
	if len(ids) <= 1 {
		return
	}
	first := hs.Get(ids[0]).(*handlers.FullRank)
	merged := append([]handlers.RankClue{}, first.Clues...)
	for _, id := range ids[1:] {
		fr := hs.Get(id).(*handlers.FullRank)
		merged = append(merged, fr.Clues...)
		hs.Replace(id, handlers.NewTrue(), false)
	}
	fused := handlers.NewFullRank(merged, first.NumValues)
	hs.Replace(ids[0], fused, false)
}

// --- step 7: house-intersection SameValues (box row/col) ---

func emitBoxLineIntersections(hs *handler.HandlerSet, gs shape.Grid, houseIDs []handler.ID) {
	if !gs.HasBoxes() {
		return
	}
	seen := make(map[[2]handler.ID]bool)
	for i, aID := range houseIDs {
		for _, bID := range houseIDs[i+1:] {
			if seen[[2]handler.ID{aID, bID}] {
				continue
			}
			a := hs.Get(aID).(*handlers.House)
			b := hs.Get(bID).(*handlers.House)
			ov := overlap(a.CellList, b.CellList)
			if len(ov) != gs.BoxWidth && len(ov) != gs.BoxHeight {
				continue
			}
			diffA := diff(a.CellList, ov)
			diffB := diff(b.CellList, ov)
			if len(diffA) == 0 || len(diffB) == 0 {
				continue
			}
			sv := handlers.NewSameValues(diffA, diffB, false, gs.NumValues)
			sv.IsEssential = false
			hs.Add(sv, false)
			seen[[2]handler.ID{aID, bID}] = true
		}
	}
}

// --- set helpers ---

func overlap(a, b []int) []int {
	set := make(map[int]bool, len(b))
	for _, c := range b {
		set[c] = true
	}
	var out []int
	for _, c := range a {
		if set[c] {
			out = append(out, c)
		}
	}
	return out
}

func diff(a, b []int) []int {
	set := make(map[int]bool, len(b))
	for _, c := range b {
		set[c] = true
	}
	var out []int
	for _, c := range a {
		if !set[c] {
			out = append(out, c)
		}
	}
	return out
}

func subsetOf(a, b []int) bool {
	set := make(map[int]bool, len(b))
	for _, c := range b {
		set[c] = true
	}
	for _, c := range a {
		if !set[c] {
			return false
		}
	}
	return true
}

func unionOf(groups [][]int) []int {
	set := make(map[int]bool)
	for _, g := range groups {
		for _, c := range g {
			set[c] = true
		}
	}
	out := make([]int, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Ints(out)
	return out
}
