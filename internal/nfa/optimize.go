package nfa

// Optimize runs the post-construction cleanup pass spec §4.6 describes:
// epsilon-closure inlining, unreachable-state removal, dead-state removal,
// and simulation-based equivalence merging. Returns a new NFA; the input is
// left untouched.
func Optimize(n *NFA) *NFA {
	inlined := inlineEpsilons(n)
	reachable := removeUnreachable(inlined)
	live := removeDead(reachable)
	return mergeEquivalent(live)
}

// inlineEpsilons replaces every epsilon transition with direct transitions
// on the epsilon-closure's outgoing edges, and propagates Accept through
// epsilon reachability, then drops the epsilon lists entirely.
func inlineEpsilons(n *NFA) *NFA {
	out := &NFA{NumValues: n.NumValues, Start: n.Start}
	out.States = make([]State, len(n.States))
	for i := range n.States {
		out.States[i].Transitions = make([][]StateID, n.NumValues+1)
	}

	for s := range n.States {
		closure := n.epsilonClosure([]StateID{StateID(s)})
		for t, on := range closure {
			if !on {
				continue
			}
			if n.States[t].Accept {
				out.States[s].Accept = true
			}
			for v := 1; v <= n.NumValues; v++ {
				out.States[s].Transitions[v] = append(out.States[s].Transitions[v], n.States[t].Transitions[v]...)
			}
		}
		out.States[s].Transitions = dedupTargets(out.States[s].Transitions)
	}
	return out
}

func dedupTargets(transitions [][]StateID) [][]StateID {
	for v := range transitions {
		if len(transitions[v]) < 2 {
			continue
		}
		seen := make(map[StateID]bool, len(transitions[v]))
		out := transitions[v][:0]
		for _, t := range transitions[v] {
			if !seen[t] {
				seen[t] = true
				out = append(out, t)
			}
		}
		transitions[v] = out
	}
	return transitions
}

// removeUnreachable drops every state not reachable from Start by walking
// the (already epsilon-free) transition graph.
func removeUnreachable(n *NFA) *NFA {
	reached := make([]bool, len(n.States))
	stack := []StateID{n.Start}
	reached[n.Start] = true
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for v := 1; v <= n.NumValues; v++ {
			for _, t := range n.States[s].Transitions[v] {
				if !reached[t] {
					reached[t] = true
					stack = append(stack, t)
				}
			}
		}
	}
	return remap(n, reached)
}

// removeDead drops every state that cannot reach an accept state.
func removeDead(n *NFA) *NFA {
	canAccept := make([]bool, len(n.States))
	for s, st := range n.States {
		if st.Accept {
			canAccept[s] = true
		}
	}
	// Iterate to a fixpoint: a state is alive if it has a transition into a
	// live state.
	changed := true
	for changed {
		changed = false
		for s := range n.States {
			if canAccept[s] {
				continue
			}
			for v := 1; v <= n.NumValues && !canAccept[s]; v++ {
				for _, t := range n.States[s].Transitions[v] {
					if canAccept[t] {
						canAccept[s] = true
						changed = true
						break
					}
				}
			}
		}
	}
	if !canAccept[n.Start] {
		// Whole machine is dead; keep just the start state with no accept.
		return &NFA{NumValues: n.NumValues, Start: 0, States: []State{{Transitions: make([][]StateID, n.NumValues+1)}}}
	}
	return remap(n, canAccept)
}

// remap builds a fresh NFA containing only the states flagged true in
// keep, renumbering transitions to the new indices and dropping targets
// that were filtered out.
func remap(n *NFA, keep []bool) *NFA {
	newIndex := make(map[StateID]StateID)
	var order []StateID
	for s, k := range keep {
		if k {
			newIndex[StateID(s)] = StateID(len(order))
			order = append(order, StateID(s))
		}
	}
	out := &NFA{NumValues: n.NumValues, Start: newIndex[n.Start]}
	out.States = make([]State, len(order))
	for newS, oldS := range order {
		out.States[newS].Accept = n.States[oldS].Accept
		out.States[newS].Transitions = make([][]StateID, n.NumValues+1)
		for v := 1; v <= n.NumValues; v++ {
			for _, t := range n.States[oldS].Transitions[v] {
				if mapped, ok := newIndex[t]; ok {
					out.States[newS].Transitions[v] = append(out.States[newS].Transitions[v], mapped)
				}
			}
		}
	}
	return out
}

// mergeEquivalent merges states whose transition behavior is
// indistinguishable: iterative partition refinement (a coarse
// Hopcroft-style pass), starting from the Accept/non-Accept split.
func mergeEquivalent(n *NFA) *NFA {
	numStates := len(n.States)
	if numStates == 0 {
		return n
	}
	class := make([]int, numStates)
	for s, st := range n.States {
		if st.Accept {
			class[s] = 1
		}
	}

	for {
		signature := make([]string, numStates)
		for s := range n.States {
			signature[s] = transitionSignature(n, class, s)
		}
		newClass := make([]int, numStates)
		seen := map[string]int{}
		changed := false
		for s, sig := range signature {
			id, ok := seen[sig]
			if !ok {
				id = len(seen)
				seen[sig] = id
			}
			newClass[s] = id
			if newClass[s] != class[s] {
				changed = true
			}
		}
		class = newClass
		if !changed {
			break
		}
	}

	numClasses := 0
	for _, c := range class {
		if c+1 > numClasses {
			numClasses = c + 1
		}
	}
	out := &NFA{NumValues: n.NumValues}
	out.States = make([]State, numClasses)
	representative := make([]StateID, numClasses)
	seenClass := make([]bool, numClasses)
	for s := range n.States {
		c := class[s]
		if !seenClass[c] {
			seenClass[c] = true
			representative[c] = StateID(s)
		}
	}
	for c, rep := range representative {
		out.States[c].Accept = n.States[rep].Accept
		out.States[c].Transitions = make([][]StateID, n.NumValues+1)
		for v := 1; v <= n.NumValues; v++ {
			seenTarget := map[int]bool{}
			for _, t := range n.States[rep].Transitions[v] {
				tc := class[t]
				if !seenTarget[tc] {
					seenTarget[tc] = true
					out.States[c].Transitions[v] = append(out.States[c].Transitions[v], StateID(tc))
				}
			}
		}
	}
	out.Start = StateID(class[n.Start])
	return out
}

func transitionSignature(n *NFA, class []int, s int) string {
	buf := make([]byte, 0, 32)
	if n.States[s].Accept {
		buf = append(buf, 'A')
	}
	for v := 1; v <= n.NumValues; v++ {
		seen := map[int]bool{}
		var classes []int
		for _, t := range n.States[s].Transitions[v] {
			c := class[t]
			if !seen[c] {
				seen[c] = true
				classes = append(classes, c)
			}
		}
		sortInts(classes)
		buf = append(buf, '|')
		for _, c := range classes {
			buf = appendInt(buf, c)
			buf = append(buf, ',')
		}
	}
	return string(buf)
}

func sortInts(s []int) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

func appendInt(buf []byte, v int) []byte {
	if v == 0 {
		return append(buf, '0')
	}
	neg := v < 0
	if neg {
		v = -v
		buf = append(buf, '-')
	}
	start := len(buf)
	for v > 0 {
		buf = append(buf, byte('0'+v%10))
		v /= 10
	}
	for i, j := start, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return buf
}
