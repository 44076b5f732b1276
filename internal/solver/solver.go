// Package solver is the façade a caller drives a solve through (spec §6):
// it resolves a wire-level PuzzleSpec into handlers, closes the exclusion
// graph, runs the optimizer, initializes every handler to its level-0
// fixpoint once, and hands out fresh search.Driver instances over that
// shared compiled state for however many solve operations the caller needs.
package solver

import (
	"fmt"
	"sync"

	"github.com/rawblock/sudoku-engine/internal/debug"
	"github.com/rawblock/sudoku-engine/internal/grid"
	"github.com/rawblock/sudoku-engine/internal/handler"
	"github.com/rawblock/sudoku-engine/internal/optimizer"
	"github.com/rawblock/sudoku-engine/internal/search"
	"github.com/rawblock/sudoku-engine/internal/shape"
	"github.com/rawblock/sudoku-engine/pkg/models"
)

// Solver owns one compiled puzzle: its shape, handler set, exclusion
// graph, and the already-initialized level-0 grid a fresh Driver can be
// built from at any time.
type Solver struct {
	gs     shape.Grid
	hs     *handler.HandlerSet
	excl   *handler.CellExclusions
	level0 grid.Grid
	logger *debug.Logger

	mu        sync.Mutex
	lastDrive *search.Driver
}

// layoutKinds names the constraint kinds ValidateLayout restricts itself
// to (spec §4.4: "ignores non-layout handlers") — the grid's shape clues,
// not its arithmetic or sequence clues.
var layoutKinds = map[models.Kind]bool{
	models.KindGivens:       true,
	models.KindHouse:        true,
	models.KindAllDifferent: true,
	models.KindContainer:    true,
	models.KindJigsaw:       true,
	models.KindWindoku:      true,
	models.KindDisjointSets: true,
	models.KindDiagonalPos:  true,
	models.KindDiagonalNeg:  true,
	models.KindAntiKnight:   true,
	models.KindAntiKing:     true,
}

// Compile resolves every constraint in spec into handlers, closes the
// exclusion graph, runs the optimizer, and initializes the grid to its
// level-0 fixpoint. ok is false (with a nil error) for a spec that is
// immediately contradictory; err is non-nil for a malformed spec (a bad
// regex pattern, a missing NFA spec, an out-of-range clue shape).
func Compile(spec models.PuzzleSpec, logger *debug.Logger) (s *Solver, ok bool, err error) {
	return compile(spec, logger, nil)
}

// CompileLayout is Compile restricted to layoutKinds, the façade's
// building block for ValidateLayout (spec §4.4).
func CompileLayout(spec models.PuzzleSpec, logger *debug.Logger) (*Solver, bool, error) {
	return compile(spec, logger, layoutKinds)
}

func compile(spec models.PuzzleSpec, logger *debug.Logger, keep map[models.Kind]bool) (*Solver, bool, error) {
	gs := shape.New(spec.NumRows, spec.NumCols, spec.NumValues, spec.BoxWidth, spec.BoxHeight)
	hs := handler.NewHandlerSet(gs.NumCells())

	for _, node := range spec.Constraints {
		if keep != nil && !keep[node.Kind] {
			continue
		}
		built, err := buildHandlers(node, gs)
		if err != nil {
			return nil, false, fmt.Errorf("resolving %s clue: %w", node.Kind, err)
		}
		for _, h := range built {
			hs.Add(h, node.Kind == models.KindGivens)
		}
	}

	excl := handler.NewCellExclusions(gs.NumCells())
	for _, id := range hs.All() {
		if group := hs.Get(id).ExclusionCells(); group != nil {
			excl.AddGroup(group)
		}
	}
	excl.Finalize()

	optimizer.Optimize(hs, excl, gs)

	level0 := grid.NewGrid(gs.NumCells(), gs.AllValues())
	alloc := handler.NewStateAllocator()
	for _, id := range hs.All() {
		if !hs.Get(id).Initialize(level0, excl, gs, alloc) {
			return nil, false, nil
		}
	}

	acc := handler.NewAccumulator(hs)
	for _, id := range hs.All() {
		acc.Add(id)
	}
	for {
		id, pending := acc.Dequeue()
		if !pending {
			break
		}
		if !hs.Get(id).EnforceConsistency(level0, acc) {
			return nil, false, nil
		}
	}

	for _, id := range hs.All() {
		hs.Get(id).PostInitialize(level0)
	}

	return &Solver{gs: gs, hs: hs, excl: excl, level0: level0, logger: logger}, true, nil
}

func (s *Solver) newDriver() *search.Driver {
	d := search.NewDriver(s.gs, s.hs, s.excl, s.level0, s.logger)
	s.mu.Lock()
	s.lastDrive = d
	s.mu.Unlock()
	return d
}

// NewRun hands the caller a fresh Driver over the compiled state, for
// callers that need to set LogUpdateFrequency/OnProgress/Cancel
// themselves before driving it (the progress-streaming solve endpoint).
func (s *Solver) NewRun() *search.Driver {
	return s.newDriver()
}

// Solve returns the first solution found, same as NthSolution(0).
func (s *Solver) Solve() (models.Solution, bool, bool) {
	return s.newDriver().NthSolution(0)
}

// NthSolution returns the 0-indexed n-th solution (spec §6.3 "nthSolution").
func (s *Solver) NthSolution(n int) (models.Solution, bool, bool) {
	return s.newDriver().NthSolution(n)
}

// CountSolutions runs the search to exhaustion and returns the final counters.
func (s *Solver) CountSolutions() (models.Counters, bool) {
	return s.newDriver().CountSolutions()
}

// SolveAllPossibilities unions every solution's values into a per-cell
// pencilmark.
func (s *Solver) SolveAllPossibilities() (models.PencilmarkMask, bool) {
	return s.newDriver().SolveAllPossibilities()
}

// ValidateLayout reports whether the grid's shape clues alone (not its
// arithmetic/sequence clues) admit at least one solution. Callers should
// use a Solver built by CompileLayout for this, so only layout handlers
// are registered in the first place.
func (s *Solver) ValidateLayout() (bool, bool) {
	return s.newDriver().ValidateLayout()
}

// NthStep halts the search at the n-th (0-indexed) value-try decision and
// returns a snapshot of the grid at that moment (spec §6.3 "nthStep").
func (s *Solver) NthStep(n int) (models.StateSnapshot, bool, bool) {
	return s.newDriver().NthStep(n)
}

// LatestStats returns the counters of the most recently started run
// (spec §6.5 "latestStats"). The mutex guards only which driver is the
// latest; the counters themselves are read without synchronization, so
// the read is safe once that run has returned or from its own progress
// callback, not from another goroutine while it is searching. Returns the
// zero value before any run has started.
func (s *Solver) LatestStats() models.Counters {
	s.mu.Lock()
	d := s.lastDrive
	s.mu.Unlock()
	if d == nil {
		return models.Counters{}
	}
	return d.Counters()
}
