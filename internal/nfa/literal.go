package nfa

// EdgeSpec is one literal transition: value v fires from->to whenever
// Symbol has bit 1<<(v-1) set, letting a single edge cover several values
// at once (used when a clue's sequence constraint groups values, e.g. "any
// even digit").
type EdgeSpec struct {
	From, To int
	Symbol   uint32
}

// FromLiteral builds an *NFA directly from explicit state/transition data —
// the counterpart to Build's regex compiler, for callers that already hold
// a fully specified machine (spec §4.6) rather than pattern text. Grounded
// on Build's own addState/addTransition/addEpsilon sequence, generalized
// from "compiled from a parsed regex" to "compiled from a literal spec".
func FromLiteral(numStates, start int, accept []int, edges []EdgeSpec, epsilons [][2]int, numValues int) *NFA {
	n := newNFA(numValues)
	for i := 0; i < numStates; i++ {
		n.addState()
	}
	for _, a := range accept {
		st := n.States[a]
		st.Accept = true
		n.States[a] = st
	}
	for _, e := range edges {
		for v := 1; v <= numValues; v++ {
			if e.Symbol&(1<<uint(v-1)) != 0 {
				n.addTransition(StateID(e.From), v, StateID(e.To))
			}
		}
	}
	for _, ep := range epsilons {
		n.addEpsilon(StateID(ep[0]), StateID(ep[1]))
	}
	n.Start = StateID(start)
	return n
}
