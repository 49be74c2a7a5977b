package dfa

import "slices"

// Span is one interval of a minimal covering: every symbol in [Lo, Hi] is
// covered by exactly the input ranges listed in From.
type Span struct {
	Lo, Hi int
	From   []int
}

type boundary struct {
	at    int
	index int
	open  bool
}

// Cover splits possibly overlapping inclusive ranges into the fewest
// disjoint intervals such that each interval is covered by a fixed subset
// of the inputs. Intervals covered by no input are omitted. lo[i] and hi[i]
// describe input i.
func Cover(lo, hi []int) []Span {
	if len(lo) == 0 {
		return nil
	}
	events := make([]boundary, 0, 2*len(lo))
	for i := range lo {
		events = append(events, boundary{lo[i], i, true}, boundary{hi[i] + 1, i, false})
	}
	slices.SortFunc(events, func(a, b boundary) int {
		return a.at - b.at
	})

	var spans []Span
	active := make(map[int]struct{})
	for i := 0; i < len(events); {
		at := events[i].at
		for ; i < len(events) && events[i].at == at; i++ {
			if events[i].open {
				active[events[i].index] = struct{}{}
			} else {
				delete(active, events[i].index)
			}
		}
		if len(active) == 0 || i == len(events) {
			continue
		}
		from := make([]int, 0, len(active))
		for k := range active {
			from = append(from, k)
		}
		slices.Sort(from)
		spans = append(spans, Span{Lo: at, Hi: events[i].at - 1, From: from})
	}
	return spans
}

// Compact merges adjacent character transitions with the same target.
// Wildcard and hook symbols are never merged with their neighbours.
func Compact(trans []Transition) []Transition {
	if len(trans) < 2 {
		return trans
	}
	out := trans[:1]
	for _, t := range trans[1:] {
		last := &out[len(out)-1]
		if last.Lo >= 0 && last.Hi+1 == t.Lo && last.Next == t.Next {
			last.Hi = t.Hi
			continue
		}
		out = append(out, t)
	}
	return out
}
