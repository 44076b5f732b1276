package handler

// HandlerSet owns every handler in a solve and maintains the cell-indexed
// lookup structures the propagation loop and optimizer need (spec §3
// "HandlerSet"): an ordinary-cell index, a singleton index (at most one
// SINGLETON_HANDLER per cell, always run first), and an auxiliary index
// for optimizer-synthesized non-essential handlers.
type HandlerSet struct {
	handlers []Handler

	// singleton[cell] is the id of the at-most-one singleton handler (e.g.
	// GivenCandidates) touching that cell, or -1.
	singleton []ID

	// ordinary[cell] lists every non-singleton handler-id touching that cell.
	ordinary [][]ID

	// auxiliary marks which ids are optimizer-synthesized (non-essential).
	auxiliary map[ID]bool
}

// NewHandlerSet builds an empty set sized for numCells.
func NewHandlerSet(numCells int) *HandlerSet {
	s := &HandlerSet{
		singleton: make([]ID, numCells),
		ordinary:  make([][]ID, numCells),
		auxiliary: make(map[ID]bool),
	}
	for i := range s.singleton {
		s.singleton[i] = -1
	}
	return s
}

// NoSingleton is the id stored for a cell that has no singleton handler
// (handlers are marked singleton via Add's isSingleton parameter).
const NoSingleton = -1

// Add registers a handler, returning its id. isSingleton marks it as the
// (at most one) per-cell singleton handler for every cell it touches.
func (s *HandlerSet) Add(h Handler, isSingleton bool) ID {
	id := ID(len(s.handlers))
	s.handlers = append(s.handlers, h)
	if !h.Essential() {
		s.auxiliary[id] = true
	}
	s.reindexCellsFor(id, h.Cells(), isSingleton)
	return id
}

func (s *HandlerSet) reindexCellsFor(id ID, cells []int, isSingleton bool) {
	for _, c := range cells {
		if isSingleton {
			s.singleton[c] = id
		} else {
			s.ordinary[c] = append(s.ordinary[c], id)
		}
	}
}

// Get returns the handler for an id.
func (s *HandlerSet) Get(id ID) Handler { return s.handlers[id] }

// Len is the number of registered handlers.
func (s *HandlerSet) Len() int { return len(s.handlers) }

// All returns every handler-id in registration order.
func (s *HandlerSet) All() []ID {
	ids := make([]ID, len(s.handlers))
	for i := range ids {
		ids[i] = ID(i)
	}
	return ids
}

// IsAuxiliary reports whether id was synthesized by the optimizer.
func (s *HandlerSet) IsAuxiliary(id ID) bool { return s.auxiliary[id] }

// SingletonFor returns the singleton handler-id for a cell, or -1.
func (s *HandlerSet) SingletonFor(cell int) ID {
	return s.singleton[cell]
}

// HandlersForCell returns every handler touching a cell, singleton first
// (spec §4.1: "Singleton handlers for a given cell are drained to
// completion before ordinary handlers fire for that cell").
func (s *HandlerSet) HandlersForCell(cell int) []ID {
	var out []ID
	if id := s.singleton[cell]; id != -1 {
		out = append(out, id)
	}
	out = append(out, s.ordinary[cell]...)
	return out
}

// Replace swaps an existing handler for a new one in place, preserving its
// id, then rebuilds the cell indices for the cells either one touches
// (spec §3: "Handlers can be replaced... during optimization; indices are
// rebuilt").
func (s *HandlerSet) Replace(old ID, replacement Handler, isSingleton bool) {
	oldHandler := s.handlers[old]
	s.unindexCells(old, oldHandler.Cells())
	s.handlers[old] = replacement
	if replacement.Essential() {
		delete(s.auxiliary, old)
	} else {
		s.auxiliary[old] = true
	}
	s.reindexCellsFor(old, replacement.Cells(), isSingleton)
}

func (s *HandlerSet) unindexCells(id ID, cells []int) {
	for _, c := range cells {
		if s.singleton[c] == id {
			s.singleton[c] = -1
		}
		filtered := s.ordinary[c][:0]
		for _, other := range s.ordinary[c] {
			if other != id {
				filtered = append(filtered, other)
			}
		}
		s.ordinary[c] = filtered
	}
}
