package dfa

import (
	"container/heap"
	"encoding/binary"
)

// block is one group of the partition.
type block struct {
	members []int
	version int
	queued  bool
}

// blockQueue orders blocks by size, then by how recently they were split.
type blockQueue struct {
	blocks []*block
	ids    []int
}

func (q *blockQueue) Len() int { return len(q.ids) }

func (q *blockQueue) Less(i, j int) bool {
	a, b := q.blocks[q.ids[i]], q.blocks[q.ids[j]]
	if len(a.members) != len(b.members) {
		return len(a.members) > len(b.members)
	}
	return a.version > b.version
}

func (q *blockQueue) Swap(i, j int) { q.ids[i], q.ids[j] = q.ids[j], q.ids[i] }

func (q *blockQueue) Push(x any) { q.ids = append(q.ids, x.(int)) }

func (q *blockQueue) Pop() any {
	n := len(q.ids)
	id := q.ids[n-1]
	q.ids = q.ids[:n-1]
	return id
}

// Minimize merges equivalent states by partition refinement. The initial
// partition groups states by accept label and out-degree; a block is split
// when its members disagree on the block reached by some symbol. Blocks
// are re-examined largest first and, among equal sizes, most recently split
// first. The result keeps d.Base and is renumbered breadth-first.
func Minimize(d *DFA) *DFA {
	n := len(d.States)
	if n < 2 {
		return reorder(d.States, d.Root(), d.Base, d.Pattern)
	}
	preds := make([][]int, n)
	for i, s := range d.States {
		for _, t := range s.Trans {
			j := t.Next - d.Base
			preds[j] = append(preds[j], i)
		}
	}

	of := make([]int, n)
	q := &blockQueue{}
	type initial struct{ accept, degree int }
	first := make(map[initial]int)
	for i, s := range d.States {
		k := initial{s.Accept, len(s.Trans)}
		b, ok := first[k]
		if !ok {
			b = len(q.blocks)
			first[k] = b
			q.blocks = append(q.blocks, &block{})
		}
		q.blocks[b].members = append(q.blocks[b].members, i)
		of[i] = b
	}
	push := func(b int) {
		if !q.blocks[b].queued {
			q.blocks[b].queued = true
			heap.Push(q, b)
		}
	}
	for b := range q.blocks {
		push(b)
	}

	version := 0
	var sig []byte
	for q.Len() > 0 {
		b := heap.Pop(q).(int)
		blk := q.blocks[b]
		blk.queued = false
		if len(blk.members) < 2 {
			continue
		}
		classes := make(map[string][]int)
		var order []string
		for _, m := range blk.members {
			sig = signature(sig[:0], d, m, of)
			k := string(sig)
			if _, ok := classes[k]; !ok {
				order = append(order, k)
			}
			classes[k] = append(classes[k], m)
		}
		if len(order) == 1 {
			continue
		}
		version++
		blk.members = classes[order[0]]
		blk.version = version
		touched := []int{b}
		for _, k := range order[1:] {
			nb := len(q.blocks)
			q.blocks = append(q.blocks, &block{members: classes[k], version: version})
			for _, m := range classes[k] {
				of[m] = nb
			}
			touched = append(touched, nb)
		}
		for _, t := range touched {
			push(t)
			for _, m := range q.blocks[t].members {
				for _, p := range preds[m] {
					push(of[p])
				}
			}
		}
	}

	// One representative per block, ids are block numbers.
	states := make([]State, len(q.blocks))
	for b, blk := range q.blocks {
		rep := d.States[blk.members[0]]
		trans := make([]Transition, len(rep.Trans))
		for j, t := range rep.Trans {
			trans[j] = Transition{t.Lo, t.Hi, of[t.Next-d.Base]}
		}
		states[b] = State{ID: b, Accept: rep.Accept, Trans: Compact(trans)}
	}
	out := reorder(states, of[0], d.Base, d.Pattern)
	return out
}

// signature encodes the transitions of state i in terms of blocks,
// merging adjacent character ranges that lead to the same block.
func signature(buf []byte, d *DFA, i int, of []int) []byte {
	var lo, hi, to int
	open := false
	flush := func() {
		if open {
			buf = binary.AppendVarint(buf, int64(lo))
			buf = binary.AppendVarint(buf, int64(hi))
			buf = binary.AppendVarint(buf, int64(to))
		}
	}
	for _, t := range d.States[i].Trans {
		b := of[t.Next-d.Base]
		if open && lo >= 0 && hi+1 == t.Lo && to == b {
			hi = t.Hi
			continue
		}
		flush()
		lo, hi, to, open = t.Lo, t.Hi, b, true
	}
	flush()
	return buf
}
