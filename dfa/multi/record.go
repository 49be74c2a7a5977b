package multi

import "sort"

// Hits returns the pattern indexes accepted by a combined record.
func Hits(rec []int) []int {
	return rec[1 : 1+rec[0]]
}

// Edges returns the (lo, hi, dest) triples of a combined record.
func Edges(rec []int) []int {
	return rec[1+rec[0]:]
}

// RawID returns the id of a raw record.
func RawID(rec []int) int { return rec[0] }

// RawAccept returns the pattern index accepted by a raw record, or -1.
func RawAccept(rec []int) int { return rec[1] }

// RawEdges returns the (lo, hi, dest) triples of a raw record.
func RawEdges(rec []int) []int { return rec[2:] }

// Step returns the dest of the triple covering sym, or -1. Triples are
// sorted and disjoint.
func Step(edges []int, sym int) int {
	n := len(edges) / 3
	i := sort.Search(n, func(i int) bool { return edges[3*i+1] >= sym })
	if i < n && edges[3*i] <= sym {
		return edges[3*i+2]
	}
	return -1
}

// HookEdges returns the leading triples labelled with hook symbols. Hook
// symbols sort below the wildcard and every character.
func HookEdges(edges []int) []int {
	n := 0
	for n < len(edges) && edges[n] <= -2 {
		n += 3
	}
	return edges[:n]
}

// FindRaw returns the index in raw of the record with the given id, or -1.
func FindRaw(raw [][]int, id int) int {
	i := sort.Search(len(raw), func(i int) bool { return raw[i][0] >= id })
	if i < len(raw) && raw[i][0] == id {
		return i
	}
	return -1
}

// Validate checks the record layouts and that every dest resolves.
func (t *Tables) Validate() error {
	states := t.StateCount() + len(t.Pending)
	if t.StateCount() == 0 {
		return errorf("no combined states")
	}
	for s, rec := range t.Combined {
		if len(rec) == 0 || rec[0] < 0 || 1+rec[0] > len(rec) || (len(rec)-1-rec[0])%3 != 0 {
			return errorf("combined state %d: malformed record", s)
		}
		if err := checkEdges(Edges(rec), func(dest int) bool { return dest >= 0 && dest < states }); err != nil {
			return errorf("combined state %d: %v", s, err)
		}
	}
	for k, set := range t.Pending {
		for _, id := range set {
			if FindRaw(t.Raw, id) < 0 {
				return errorf("pending state %d: raw state %d not retained", k, id)
			}
		}
	}
	for i, rec := range t.Raw {
		if len(rec) < 2 || (len(rec)-2)%3 != 0 {
			return errorf("raw record %d: malformed", i)
		}
		if i > 0 && t.Raw[i-1][0] >= rec[0] {
			return errorf("raw record %d: not sorted", i)
		}
		if err := checkEdges(RawEdges(rec), func(dest int) bool { return FindRaw(t.Raw, dest) >= 0 }); err != nil {
			return errorf("raw state %d: %v", rec[0], err)
		}
	}
	return nil
}

func checkEdges(edges []int, ok func(dest int) bool) error {
	for i := 0; i+2 < len(edges); i += 3 {
		if edges[i] > edges[i+1] || (i > 0 && edges[i-2] >= edges[i]) {
			return errorf("edges out of order")
		}
		if !ok(edges[i+2]) {
			return errorf("dest %d out of range", edges[i+2])
		}
	}
	return nil
}
