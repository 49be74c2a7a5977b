package pike

import "slices"

// queue is an ordered list of threads keyed by program counter, highest
// priority first. The list lives in next, where next[pc] is one plus the pc
// of the following thread and zero for an unscheduled pc; tail marks the
// last thread. A pc holds at most one thread: whoever schedules it first has
// the higher priority.
//
// Capture slots hold offset+1 so zero means unset. A slot array is owned by
// exactly one live thread; forks copy it.
type queue struct {
	head, tail int
	next       []int
	caps       [][]int
	slots      int
}

func newQueue(size, slots int) *queue {
	return &queue{
		head:  -1,
		tail:  -1,
		next:  make([]int, size),
		caps:  make([][]int, size),
		slots: slots,
	}
}

// start makes pc the only thread, with fresh captures.
func (q *queue) start(pc int) {
	q.head, q.tail = pc, pc
	q.caps[pc] = make([]int, q.slots)
}

func (q *queue) empty() bool {
	return q.head < 0
}

func (q *queue) scheduled(pc int) bool {
	return pc == q.tail || q.next[pc] > 0
}

// after returns the thread following pc, or the head when pc is negative.
func (q *queue) after(pc int) int {
	if pc < 0 {
		return q.head
	}
	return q.next[pc] - 1
}

// now schedules pc right after cur in this step. With fork set the new
// thread gets its own copy of the captures.
func (q *queue) now(cur, pc int, fork bool) bool {
	if q.scheduled(pc) {
		return false
	}
	caps := q.caps[cur]
	if fork {
		caps = slices.Clone(caps)
	}
	if cur == q.tail {
		q.tail = pc
	} else {
		q.next[pc] = q.next[cur]
	}
	q.caps[pc] = caps
	q.next[cur] = pc + 1
	return true
}

// later appends pc to into, the queue of the following step, sharing the
// captures of cur.
func (q *queue) later(cur, pc int, into *queue) bool {
	if into.tail < 0 {
		into.head = pc
	} else if into.scheduled(pc) {
		return false
	} else {
		into.next[into.tail] = pc + 1
	}
	into.caps[pc] = q.caps[cur]
	into.tail = pc
	return true
}

// fork gives the thread at pc a private copy of its captures.
func (q *queue) fork(pc int) {
	if q.caps[pc] != nil {
		q.caps[pc] = slices.Clone(q.caps[pc])
	}
}

// shift moves the head thread into the tail of into and returns its pc, or
// -1 when no thread is left. Threads already scheduled in into are dropped.
func (q *queue) shift(into *queue) int {
	for q.head >= 0 {
		pc := q.head
		moved := q.later(pc, pc, into)
		if pc == q.tail {
			q.head, q.tail = -1, -1
		} else {
			q.head = q.next[pc] - 1
			q.next[pc] = 0
		}
		q.caps[pc] = nil
		if moved {
			return pc
		}
	}
	return -1
}

// dropLater drops every thread whose match started after start. Threads
// that started earlier outrank the match and keep running.
func (q *queue) dropLater(start int) {
	prev := -1
	for pc := q.head; pc >= 0; {
		next := q.next[pc] - 1
		if q.caps[pc][0]-1 <= start {
			prev = pc
		} else {
			q.next[pc] = 0
			q.caps[pc] = nil
			switch {
			case pc == q.tail:
				if prev < 0 {
					q.head, q.tail = -1, -1
				} else {
					q.next[prev] = 0
					q.tail = prev
				}
			case prev < 0:
				q.head = next
			default:
				q.next[prev] = next + 1
			}
		}
		pc = next
	}
}

// startOffset returns the start of the match the thread at pc belongs to.
func (q *queue) startOffset(pc int) int {
	return q.caps[pc][0] - 1
}

func (q *queue) clear() {
	for pc := q.head; pc >= 0; {
		next := q.next[pc] - 1
		q.next[pc] = 0
		q.caps[pc] = nil
		pc = next
	}
	q.head, q.tail = -1, -1
}
