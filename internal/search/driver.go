package search

import (
	"sync/atomic"
	"time"

	"github.com/rawblock/sudoku-engine/internal/debug"
	"github.com/rawblock/sudoku-engine/internal/grid"
	"github.com/rawblock/sudoku-engine/internal/handler"
	"github.com/rawblock/sudoku-engine/internal/shape"
	"github.com/rawblock/sudoku-engine/pkg/models"
)

// DefaultLogUpdateFrequency is the default node interval between progress
// callback invocations (spec §5: "every 2^14 nodes").
const DefaultLogUpdateFrequency = 1 << 14

// Driver is the single-threaded DFS branching engine (spec §4.4). It owns
// the grid snapshot stack and the shared work-queue accumulator; handlers
// and HandlerSet are supplied already initialized by the solver façade.
type Driver struct {
	gs       shape.Grid
	handlers *handler.HandlerSet
	excl     *handler.CellExclusions
	stack    *grid.Stack
	acc      *handler.Accumulator
	logger   *debug.Logger

	cancelled int32

	LogUpdateFrequency int
	OnProgress         func(models.StateSnapshot) (cancel bool)

	counters  models.Counters
	startedAt time.Time

	// pencilmark accumulates the union-of-values mask per cell during
	// solveAllPossibilities; nil for every other mode.
	pencilmark []uint32

	// currentDepth is the live recursion depth, used only to compute
	// progressRatio from a progress callback fired mid-search.
	currentDepth int

	// captureStep, when >= 0, is the 0-indexed ValuesTried count at which
	// NthStep should snapshot state and halt the search early.
	captureStep  int
	captured     models.StateSnapshot
	haveCaptured bool
}

// NewDriver builds a driver over an already-initialized level-0 grid: gs is
// the puzzle shape, hs the frozen (post-optimizer) handler set, excl the
// closed CellExclusions graph, and level0 the grid state after every
// handler's Initialize has already run (the façade's job, not the
// driver's).
func NewDriver(gs shape.Grid, hs *handler.HandlerSet, excl *handler.CellExclusions, level0 grid.Grid, logger *debug.Logger) *Driver {
	stack := grid.NewStack(gs.NumCells(), gs.AllValues())
	stack.Level(0).CopyFrom(level0)
	return &Driver{
		gs:                 gs,
		handlers:           hs,
		excl:               excl,
		stack:              stack,
		acc:                handler.NewAccumulator(hs),
		logger:             logger,
		LogUpdateFrequency: DefaultLogUpdateFrequency,
		captureStep:        -1,
	}
}

// Cancel requests the driver stop at its next safe point (spec §5
// "terminate() sets a flag; the driver polls it at each node").
func (d *Driver) Cancel() { atomic.StoreInt32(&d.cancelled, 1) }

func (d *Driver) isCancelled() bool { return atomic.LoadInt32(&d.cancelled) != 0 }

// Counters returns a copy of the driver's running counters (spec §6.5
// "latestStats"); safe to call after the run completes or, from a
// progress callback, mid-run.
func (d *Driver) Counters() models.Counters { return d.counters }

// sink is invoked once per fully-assigned grid found; it returns whether
// the search should keep exploring further solutions.
type sink func(sol models.Solution) (keepGoing bool)

// run drives the DFS from depth 0 to exhaustion, cancellation, or sink
// refusal. allPossibilities enables the solveAllPossibilities short-circuit
// and pencilmark accumulation.
func (d *Driver) run(allPossibilities bool, s sink) (aborted bool) {
	d.startedAt = time.Now()
	if allPossibilities {
		d.pencilmark = make([]uint32, d.stack.NumCells())
	}
	d.acc.Reset()
	for _, id := range d.handlers.All() {
		d.acc.Add(id)
	}
	stop := d.step(0, allPossibilities, s)
	return stop && d.isCancelled()
}

// step implements the per-node algorithm of spec §4.4 steps 1-6.
func (d *Driver) step(depth int, allPossibilities bool, s sink) (stop bool) {
	d.currentDepth = depth
	d.counters.NodesSearched++
	if d.LogUpdateFrequency > 0 && d.counters.NodesSearched%int64(d.LogUpdateFrequency) == 0 {
		if d.emitProgress(false) {
			d.Cancel()
		}
	}
	if d.isCancelled() {
		return true
	}

	g := d.stack.Level(depth)
	if !d.propagateToFixpoint(g) {
		d.counters.Backtracks++
		return false
	}

	cell, ok := selectBranchCell(g, d.handlers)
	if !ok {
		sol := extractSolution(g, d.gs)
		d.counters.Solutions++
		if allPossibilities {
			for i, v := range sol.Values {
				d.pencilmark[i] |= bitFor(v)
			}
		}
		return !s(sol)
	}

	lastOpenCell := allPossibilities && countUnresolved(g) == 1
	values := orderedValues(g, d.gs, d.handlers, cell)
	isGuess := len(values) > 1
	if isGuess {
		d.counters.Guesses++
	}

	for _, v := range values {
		if d.isCancelled() {
			return true
		}
		if lastOpenCell && d.pencilmark[cell]&bitFor(v) != 0 {
			d.counters.BranchesIgnored++
			continue
		}
		d.counters.ValuesTried++

		d.stack.Descend(depth)
		next := d.stack.Level(depth + 1)
		next.Set(cell, bitFor(v))

		if d.captureStep >= 0 && int(d.counters.ValuesTried)-1 == d.captureStep {
			sample := extractPartialSolution(next, d.gs)
			d.captured = models.StateSnapshot{
				Counters: d.counters,
				Sample:   &sample,
				Done:     false,
			}
			d.haveCaptured = true
			return true
		}

		d.acc.Reset()
		d.acc.AddForCells([]int{cell})

		if d.step(depth+1, allPossibilities, s) {
			return true
		}
	}
	return false
}

// propagateToFixpoint drains the accumulator against g, applying §4.1's
// loop: dequeue a handler, run it, re-enqueue on change, stop at an empty
// queue (fixpoint) or the first contradiction.
func (d *Driver) propagateToFixpoint(g grid.Grid) bool {
	for {
		if d.isCancelled() {
			return false
		}
		id, ok := d.acc.Dequeue()
		if !ok {
			return true
		}
		d.counters.ConstraintsProcessed++
		if !d.handlers.Get(id).EnforceConsistency(g, d.acc) {
			return false
		}
	}
}

func extractSolution(g grid.Grid, gs shape.Grid) models.Solution {
	values := make([]int, gs.NumCells())
	for c := range values {
		mask := g.Get(c)
		for v := 1; v <= gs.NumValues; v++ {
			if mask&bitFor(v) != 0 {
				values[c] = v
				break
			}
		}
	}
	return models.Solution{Values: values}
}

// extractPartialSolution reports each cell's forced value, or 0 for a cell
// still holding more than one candidate (spec §6.3 "Sample": "unresolved
// cells render as 0").
func extractPartialSolution(g grid.Grid, gs shape.Grid) models.Solution {
	values := make([]int, gs.NumCells())
	for c := range values {
		if v := singletonValue(g.Get(c)); v != 0 {
			values[c] = v
		}
	}
	return models.Solution{Values: values}
}

func singletonValue(mask uint32) int {
	if mask == 0 || mask&(mask-1) != 0 {
		return 0
	}
	for v := 1; v <= 32; v++ {
		if mask&bitFor(v) != 0 {
			return v
		}
	}
	return 0
}

// progressRatio reports the fraction of cells at the current depth whose
// candidate mask is narrower than the full value set. It is not the
// per-level tried/initial sum over the live stack (the driver keeps no
// per-depth candidate counts), and it can fall when the search backtracks
// to a shallower depth.
func (d *Driver) progressRatio() float64 {
	total := d.stack.NumCells()
	if total == 0 {
		return 0
	}
	g := d.stack.Level(d.currentDepth)
	resolved := 0
	for c := 0; c < g.Len(); c++ {
		if g.Get(c) != d.gs.AllValues() {
			resolved++
		}
	}
	ratio := float64(resolved) / float64(total)
	if ratio > 1 {
		ratio = 1
	}
	return ratio
}

func (d *Driver) emitProgress(done bool) (cancel bool) {
	if d.OnProgress == nil {
		return false
	}
	snap := models.StateSnapshot{
		Counters: d.counters,
		TimeMs:   time.Since(d.startedAt).Milliseconds(),
		Done:     done,
		Aborted:  d.isCancelled(),
	}
	snap.Counters.ProgressRatio = d.progressRatio()
	return d.OnProgress(snap)
}

// NthSolution runs until the n-th (0-indexed) solution is produced,
// returning it, or ok=false if fewer than n+1 solutions exist.
func (d *Driver) NthSolution(n int) (sol models.Solution, ok bool, aborted bool) {
	var found models.Solution
	var have bool
	aborted = d.run(false, func(s models.Solution) bool {
		if int(d.counters.Solutions-1) == n {
			found = s
			have = true
			return false
		}
		return true
	})
	d.emitProgress(true)
	return found, have, aborted
}

// CountSolutions runs to exhaustion, returning the final counters.
func (d *Driver) CountSolutions() (counters models.Counters, aborted bool) {
	aborted = d.run(false, func(models.Solution) bool { return true })
	d.emitProgress(true)
	return d.counters, aborted
}

// SolveAllPossibilities runs to exhaustion, OR-ing every solution's values
// into a per-cell pencilmark, applying the last-open-cell short-circuit.
func (d *Driver) SolveAllPossibilities() (mask models.PencilmarkMask, aborted bool) {
	aborted = d.run(true, func(models.Solution) bool { return true })
	d.emitProgress(true)
	return models.PencilmarkMask{Masks: d.pencilmark}, aborted
}

// ValidateLayout runs like NthSolution(0) but the caller is responsible
// for having registered only layout (house/all-different/jigsaw) handlers
// with the driver's HandlerSet (spec §4.4: "ignores non-layout handlers").
func (d *Driver) ValidateLayout() (valid bool, aborted bool) {
	_, ok, aborted := d.NthSolution(0)
	return ok, aborted
}

// NthStep runs the search and halts at the n-th (0-indexed) value-try
// decision, returning a snapshot of the grid/counters at that exact
// moment — values of 0 in the snapshot's Sample represent cells still
// unresolved (spec §4.4 "nthStep single-step debugging").
func (d *Driver) NthStep(n int) (snap models.StateSnapshot, found bool, aborted bool) {
	d.captureStep = n
	aborted = d.run(false, func(models.Solution) bool { return true })
	if !d.haveCaptured {
		return models.StateSnapshot{Counters: d.counters, Done: true, Aborted: aborted}, false, aborted
	}
	d.captured.Aborted = aborted
	return d.captured, true, aborted
}
