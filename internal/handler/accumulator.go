package handler

// Accumulator is the work-queue of pending handler-ids to re-run (spec §3
// "HandlerAccumulator"). It is an ordered set: Add is a no-op if the
// handler is already queued, and Dequeue drains in insertion order — this
// FIFO-ness is what makes a given initial grid always reach the same
// fixpoint (spec §5 ordering guarantees).
type Accumulator struct {
	set   *HandlerSet
	queue []ID
	queued map[ID]bool
}

// NewAccumulator builds an empty work-queue bound to a HandlerSet (needed
// so AddForCells can resolve cells to handler-ids).
func NewAccumulator(set *HandlerSet) *Accumulator {
	return &Accumulator{set: set, queued: make(map[ID]bool)}
}

// Add enqueues a handler-id if it isn't already pending.
func (a *Accumulator) Add(id ID) {
	if a.queued[id] {
		return
	}
	a.queued[id] = true
	a.queue = append(a.queue, id)
}

// AddForCells enqueues every handler (ordinary + singleton + auxiliary)
// that touches any of the given cells.
func (a *Accumulator) AddForCells(cells []int) {
	for _, c := range cells {
		for _, id := range a.set.HandlersForCell(c) {
			a.Add(id)
		}
	}
}

// Dequeue pops the next pending handler-id in FIFO order. ok is false when
// the queue is empty (propagation has reached fixpoint).
func (a *Accumulator) Dequeue() (id ID, ok bool) {
	if len(a.queue) == 0 {
		return 0, false
	}
	id = a.queue[0]
	a.queue = a.queue[1:]
	delete(a.queued, id)
	return id, true
}

// Empty reports whether the queue has drained.
func (a *Accumulator) Empty() bool { return len(a.queue) == 0 }

// Reset clears the queue, reusing its backing array.
func (a *Accumulator) Reset() {
	a.queue = a.queue[:0]
	for k := range a.queued {
		delete(a.queued, k)
	}
}
