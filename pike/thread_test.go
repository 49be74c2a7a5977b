package pike

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func order(q *queue) []int {
	var pcs []int
	for pc := q.after(-1); pc >= 0; pc = q.after(pc) {
		pcs = append(pcs, pc)
	}
	return pcs
}

func TestQueuePriority(t *testing.T) {
	q := newQueue(10, 2)
	q.start(0)
	// the thread scheduled last right after 0 runs next
	q.now(0, 5, true)
	q.now(0, 3, false)
	if diff := cmp.Diff([]int{0, 3, 5}, order(q)); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
	if q.now(3, 5, false) {
		t.Error("scheduled pc 5 twice")
	}
	q.caps[3][0] = 9
	if q.caps[5][0] == 9 {
		t.Error("forked thread shares captures")
	}
	if q.caps[0][0] != 9 {
		t.Error("immediate thread does not share captures")
	}
}

func TestQueueShift(t *testing.T) {
	q := newQueue(10, 2)
	into := newQueue(10, 2)
	q.start(1)
	q.later(1, 4, q)
	q.later(1, 2, q)
	into.start(4)

	if pc := q.shift(into); pc != 1 {
		t.Fatalf("shift() = %d, want 1", pc)
	}
	// 4 is already in into, so it is dropped and 2 comes next
	if pc := q.shift(into); pc != 2 {
		t.Fatalf("shift() = %d, want 2", pc)
	}
	if pc := q.shift(into); pc != -1 || !q.empty() {
		t.Fatalf("shift() = %d on an empty queue", pc)
	}
	if diff := cmp.Diff([]int{4, 1, 2}, order(into)); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestQueueDropLater(t *testing.T) {
	q := newQueue(10, 2)
	q.start(0)
	for i, pc := range []int{1, 2, 3, 4} {
		q.now(pc-1, pc, true)
		q.caps[pc][0] = 1 + i%3 // starts 0, 1, 2, 0
	}
	q.caps[0][0] = 3
	q.dropLater(1)
	if diff := cmp.Diff([]int{1, 2, 4}, order(q)); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
	if q.head != 1 || q.scheduled(0) || q.scheduled(3) {
		t.Errorf("head = %d after removing the first thread", q.head)
	}
	q.dropLater(0)
	if diff := cmp.Diff([]int{1, 4}, order(q)); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
	q.caps[4][0] = 5
	q.dropLater(0)
	if q.tail != 1 || q.scheduled(4) {
		t.Errorf("tail = %d after removing the last thread", q.tail)
	}
	q.dropLater(-1)
	if !q.empty() {
		t.Errorf("queue not empty: %v", order(q))
	}
}
