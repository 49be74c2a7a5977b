package dfa

// Prune removes transitions into states from which no accepting state is
// reachable, then drops the states that become unreachable. The result is
// renumbered breadth-first from d.Base. If the root itself is dead the
// result is a single non-accepting state.
func Prune(d *DFA) *DFA {
	preds := make([][]int, len(d.States))
	for i, s := range d.States {
		for _, t := range s.Trans {
			j := t.Next - d.Base
			preds[j] = append(preds[j], i)
		}
	}
	live := make([]bool, len(d.States))
	var stack []int
	for i, s := range d.States {
		if s.Accept >= 0 {
			live[i] = true
			stack = append(stack, i)
		}
	}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, p := range preds[i] {
			if !live[p] {
				live[p] = true
				stack = append(stack, p)
			}
		}
	}

	states := make([]State, len(d.States))
	for i, s := range d.States {
		var trans []Transition
		if live[i] {
			for _, t := range s.Trans {
				if live[t.Next-d.Base] {
					trans = append(trans, t)
				}
			}
		}
		states[i] = State{ID: s.ID, Accept: s.Accept, Trans: trans}
	}
	return reorder(states, d.Root(), d.Base, d.Pattern)
}
