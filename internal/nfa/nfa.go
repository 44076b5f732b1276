// Package nfa implements the small state-machine engine NFAConstraint uses
// for regex/sequence clues (spec §4.6): build an NFA over value-bitmask
// symbols, then run a forward/backward reachability pass over a fixed
// sequence of cells to derive the per-position allowed symbol set.
package nfa

// StateID indexes into an NFA's state slice.
type StateID int

// State holds a value-symbol transition table plus a list of epsilon
// targets. Transitions[v] lists the states reachable on value v (1-based,
// index 0 unused) — kept as a slice-of-slices rather than a map since
// numValues is small and bounded (spec §1: bit-16 ceiling).
type State struct {
	Transitions [][]StateID
	Epsilons    []StateID
	Accept      bool
}

// NFA is an immutable compiled state machine plus the value-alphabet size
// it was built for.
type NFA struct {
	States    []State
	Start     StateID
	NumValues int
}

func newNFA(numValues int) *NFA {
	return &NFA{NumValues: numValues}
}

func (n *NFA) addState() StateID {
	n.States = append(n.States, State{Transitions: make([][]StateID, n.NumValues+1)})
	return StateID(len(n.States) - 1)
}

func (n *NFA) addEpsilon(from, to StateID) {
	n.States[from].Epsilons = append(n.States[from].Epsilons, to)
}

func (n *NFA) addTransition(from StateID, value int, to StateID) {
	n.States[from].Transitions[value] = append(n.States[from].Transitions[value], to)
}

// epsilonClosure returns the set of states reachable from seed via zero or
// more epsilon transitions, as a state-index bitmask (len(States) bits).
func (n *NFA) epsilonClosure(seed []StateID) []bool {
	reached := make([]bool, len(n.States))
	stack := append([]StateID{}, seed...)
	for _, s := range seed {
		reached[s] = true
	}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, e := range n.States[s].Epsilons {
			if !reached[e] {
				reached[e] = true
				stack = append(stack, e)
			}
		}
	}
	return reached
}

// reverseClosure grows set in place with every state that reaches a member
// of set through epsilon transitions alone.
func (n *NFA) reverseClosure(set []bool) []bool {
	for changed := true; changed; {
		changed = false
		for s := range n.States {
			for _, e := range n.States[s].Epsilons {
				if set[e] && !set[s] {
					set[s], changed = true, true
				}
			}
		}
	}
	return set
}

func toStateIDs(set []bool) []StateID {
	var out []StateID
	for i, on := range set {
		if on {
			out = append(out, StateID(i))
		}
	}
	return out
}

// stepForward advances a state set through one value, given the candidate
// mask available at that position: a transition on value v only fires if
// candidates & bitFor(v) != 0.
func (n *NFA) stepForward(from []bool, candidates uint32) []bool {
	var seed []StateID
	for s, on := range from {
		if !on {
			continue
		}
		for v := 1; v <= n.NumValues; v++ {
			if candidates&(1<<uint(v-1)) == 0 {
				continue
			}
			seed = append(seed, n.States[s].Transitions[v]...)
		}
	}
	return n.epsilonClosure(seed)
}

// predecessors returns, for every state in `to`, which states in the whole
// machine have a direct transition into it under some value allowed by
// candidates — used by the backward pass (spec §4.6 "predecessors under
// candidates[i]").
func (n *NFA) predecessors(to []bool, candidates uint32) []bool {
	reached := make([]bool, len(n.States))
	for s := range n.States {
		for v := 1; v <= n.NumValues; v++ {
			if candidates&(1<<uint(v-1)) == 0 {
				continue
			}
			for _, target := range n.States[s].Transitions[v] {
				if to[target] {
					reached[s] = true
				}
			}
		}
	}
	return reached
}

func andSets(a, b []bool) []bool {
	out := make([]bool, len(a))
	for i := range a {
		out[i] = a[i] && b[i]
	}
	return out
}

func any(set []bool) bool {
	for _, v := range set {
		if v {
			return true
		}
	}
	return false
}

// Simulate runs the forward/backward reachability pass over candidates (one
// mask per cell in sequence) and returns the allowed-symbol mask per
// position; ok is false the moment any position's allowed mask would be
// empty (spec §4.6: "if any position becomes empty, report contradiction").
func (n *NFA) Simulate(candidates []uint32) (allowed []uint32, ok bool) {
	k := len(candidates)
	allowed = make([]uint32, k)

	forward := make([][]bool, k+1)
	forward[0] = n.epsilonClosure([]StateID{n.Start})
	for i := 0; i < k; i++ {
		forward[i+1] = n.stepForward(forward[i], candidates[i])
	}

	final := make([]bool, len(n.States))
	for s, st := range n.States {
		final[s] = st.Accept
	}
	backward := make([][]bool, k+1)
	backward[k] = n.reverseClosure(final)
	for i := k - 1; i >= 0; i-- {
		backward[i] = n.reverseClosure(n.predecessors(backward[i+1], candidates[i]))
	}

	for i := 0; i < k; i++ {
		live := andSets(forward[i], backward[i])
		if !any(live) {
			return allowed, false
		}
		var mask uint32
		for s, on := range live {
			if !on {
				continue
			}
			for v := 1; v <= n.NumValues; v++ {
				if candidates[i]&(1<<uint(v-1)) == 0 {
					continue
				}
				for _, target := range n.States[s].Transitions[v] {
					if backward[i+1][target] {
						mask |= 1 << uint(v-1)
					}
				}
			}
		}
		if mask == 0 {
			return allowed, false
		}
		allowed[i] = mask
	}
	return allowed, true
}

// Accepts reports whether the fully-fixed value sequence is accepted —
// used by tests and by validateLayout-style callers that already have a
// complete assignment.
func (n *NFA) Accepts(values []int) bool {
	current := n.epsilonClosure([]StateID{n.Start})
	for _, v := range values {
		current = n.stepForward(current, uint32(1)<<uint(v-1))
		if !any(current) {
			return false
		}
	}
	for s, on := range current {
		if on && n.States[s].Accept {
			return true
		}
	}
	return false
}
