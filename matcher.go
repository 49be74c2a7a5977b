package multiregex

import (
	"fmt"
	"unicode/utf8"

	"github.com/coregx/multiregex/dfa/multi"
	"github.com/coregx/multiregex/internal/sparse"
	"github.com/coregx/multiregex/nfa"
	"github.com/coregx/multiregex/pike"
	"github.com/coregx/multiregex/prefilter"
)

// HookKind tells a HookFunc which phase is asking.
type HookKind int

const (
	// HookDFA is the candidate scan. Combined states are shared between
	// patterns, so the pattern id is -1.
	HookDFA HookKind = iota
	// HookVM is the confirmation of a single pattern.
	HookVM
)

func (k HookKind) String() string {
	switch k {
	case HookDFA:
		return "DFA"
	case HookVM:
		return "VM"
	default:
		return fmt.Sprintf("HookKind(%d)", int(k))
	}
}

// Hook outcome codes. Any other code, as well as a nil HookFunc, fails the
// hook.
const (
	HookContinue     = pike.HookContinue
	HookDone         = pike.HookDone
	HookDoneContinue = pike.HookDoneContinue
)

// HookFunc decides \h{p1,p2} hooks. args holds p1, p2, the offset where the
// hook started and the offset of the code point being consumed. The same
// function must answer both phases consistently: a hook that can finish in
// the VM must be allowed to finish in the scan.
type HookFunc func(kind HookKind, patternID int, args [4]int) int

// Callback receives confirmed matches.
type Callback interface {
	// Hit is called once per pattern before its first match. Returning false
	// suppresses the details for that pattern.
	Hit(id int) bool
	// HitInfo reports one match. The slices are reused after the call.
	HitInfo(id int, starts, ends []int)
	// HitEnd is called after the last HitInfo of a pattern.
	HitEnd(id int)
}

// Funcs adapts functions to a Callback. Nil fields are skipped; a nil OnHit
// accepts every pattern.
type Funcs struct {
	OnHit     func(id int) bool
	OnHitInfo func(id int, starts, ends []int)
	OnHitEnd  func(id int)
}

func (f Funcs) Hit(id int) bool {
	if f.OnHit == nil {
		return true
	}
	return f.OnHit(id)
}

func (f Funcs) HitInfo(id int, starts, ends []int) {
	if f.OnHitInfo != nil {
		f.OnHitInfo(id, starts, ends)
	}
}

func (f Funcs) HitEnd(id int) {
	if f.OnHitEnd != nil {
		f.OnHitEnd(id)
	}
}

// hookInstance is a hook opened by the scan. dest is a combined id, or a
// raw record index when raw is set.
type hookInstance struct {
	p1, p2 int
	start  int
	dest   int
	raw    bool
}

// Matcher runs an Automaton over one input. It owns its scratch space and
// is not safe for concurrent use; create one per goroutine.
type Matcher struct {
	a     *Automaton
	input []byte
	cb    Callback
	hook  HookFunc

	states, next *sparse.Set // combined ids, pending ids included
	raw, nextRaw *sparse.Set // raw record indexes
	open, reopen []hookInstance
	seen         map[hookInstance]struct{}
	found        *sparse.Set // pattern indexes in discovery order

	trackers     []*prefilter.Tracker
	starts, ends []int
}

// NewMatcher returns a matcher of a over input. hook may be nil, in which
// case every hook fails. A nil cb only tracks whether anything matched.
func NewMatcher(a *Automaton, input []byte, cb Callback, hook HookFunc) *Matcher {
	if cb == nil {
		cb = Funcs{}
	}
	m := &Matcher{
		input: input,
		cb:    cb,
		hook:  hook,
		seen:  make(map[hookInstance]struct{}),
	}
	m.SwitchTo(a)
	return m
}

// SwitchTo makes m use a, keeping the input, callback and hook.
func (m *Matcher) SwitchTo(a *Automaton) {
	m.a = a
	n := a.tables.StateCount() + len(a.tables.Pending)
	m.states = resize(m.states, n)
	m.next = resize(m.next, n)
	m.raw = resize(m.raw, len(a.tables.Raw))
	m.nextRaw = resize(m.nextRaw, len(a.tables.Raw))
	m.found = resize(m.found, len(a.ids))
	m.trackers = make([]*prefilter.Tracker, len(a.ids))
	for i, pf := range a.prefilters {
		m.trackers[i] = prefilter.NewTracker(pf)
	}
}

func resize(s *sparse.Set, n int) *sparse.Set {
	if s == nil {
		return sparse.New(n)
	}
	s.Resize(n)
	return s
}

// Reset makes m search input.
func (m *Matcher) Reset(input []byte) {
	m.input = input
	m.found.Clear()
}

// Find runs both phases and reports whether any pattern matched, including
// patterns whose details Hit suppressed.
func (m *Matcher) Find() bool {
	m.scan()
	matched := false
	for _, idx := range m.found.Values() {
		if m.confirm(idx) {
			matched = true
		}
	}
	return matched
}

// Candidates returns the IDs of the patterns the last scan found, in
// discovery order.
func (m *Matcher) Candidates() []int {
	out := make([]int, m.found.Len())
	for i, idx := range m.found.Values() {
		out[i] = m.a.ids[idx]
	}
	return out
}

// scan is phase 1. Every active state follows both the edge of the current
// code point and the wildcard edge, so several states are active at once.
func (m *Matcher) scan() {
	t := m.a.tables
	m.found.Clear()
	m.states.Clear()
	m.raw.Clear()
	m.open = m.open[:0]
	m.states.Insert(0)

	for pos := 0; pos < len(m.input); {
		r, w := utf8.DecodeRune(m.input[pos:])
		m.next.Clear()
		m.nextRaw.Clear()
		m.reopen = m.reopen[:0]
		clear(m.seen)

		for _, h := range m.open {
			m.resume(h, pos)
		}
		m.expand()
		for _, s := range m.states.Values() {
			if s >= t.StateCount() {
				continue
			}
			rec := t.Combined[s]
			for _, p := range multi.Hits(rec) {
				m.found.Insert(p)
			}
			m.step(multi.Edges(rec), int(r), pos, false)
		}
		for _, i := range m.raw.Values() {
			rec := t.Raw[i]
			if p := multi.RawAccept(rec); p >= 0 {
				m.found.Insert(p)
			}
			m.step(multi.RawEdges(rec), int(r), pos, true)
		}

		m.states, m.next = m.next, m.states
		m.raw, m.nextRaw = m.nextRaw, m.raw
		m.open, m.reopen = m.reopen, m.open
		pos += w
		if m.states.IsEmpty() && m.raw.IsEmpty() && len(m.open) == 0 {
			return
		}
	}

	m.expand()
	for _, s := range m.states.Values() {
		if s < t.StateCount() {
			for _, p := range multi.Hits(t.Combined[s]) {
				m.found.Insert(p)
			}
		}
	}
	for _, i := range m.raw.Values() {
		if p := multi.RawAccept(t.Raw[i]); p >= 0 {
			m.found.Insert(p)
		}
	}
}

// expand adds the raw members of active pending states to the raw set.
func (m *Matcher) expand() {
	t := m.a.tables
	for _, s := range m.states.Values() {
		if s >= t.StateCount() {
			for _, id := range t.Pending[s-t.StateCount()] {
				m.raw.Insert(multi.FindRaw(t.Raw, id))
			}
		}
	}
}

func (m *Matcher) step(edges []int, r, pos int, raw bool) {
	hooks := multi.HookEdges(edges)
	for i := 0; i < len(hooks); i += 3 {
		h, ok := m.a.hooks.Lookup(hooks[i])
		if !ok {
			continue
		}
		dest := hooks[i+2]
		if raw {
			dest = multi.FindRaw(m.a.tables.Raw, dest)
		}
		m.resume(hookInstance{p1: h.P1, p2: h.P2, start: pos, dest: dest, raw: raw}, pos)
	}
	if d := multi.Step(edges, r); d >= 0 {
		m.advance(d, raw)
	}
	if d := multi.Step(edges, nfa.Wildcard); d >= 0 {
		m.advance(d, raw)
	}
}

func (m *Matcher) advance(dest int, raw bool) {
	if raw {
		m.nextRaw.Insert(multi.FindRaw(m.a.tables.Raw, dest))
		return
	}
	m.next.Insert(dest)
}

// resume feeds the code point at pos to a hook instance.
func (m *Matcher) resume(h hookInstance, pos int) {
	code := -1
	if m.hook != nil {
		code = m.hook(HookDFA, -1, [4]int{h.p1, h.p2, h.start, pos})
	}
	switch code {
	case HookContinue:
		m.keep(h)
	case HookDone:
		m.pass(h)
	case HookDoneContinue:
		m.pass(h)
		m.keep(h)
	}
}

func (m *Matcher) pass(h hookInstance) {
	if h.raw {
		m.nextRaw.Insert(h.dest)
		return
	}
	m.next.Insert(h.dest)
}

func (m *Matcher) keep(h hookInstance) {
	if _, ok := m.seen[h]; ok {
		return
	}
	m.seen[h] = struct{}{}
	m.reopen = append(m.reopen, h)
}

// confirm is phase 2 for pattern idx. It reports whether the VM matched,
// regardless of what Hit answered.
func (m *Matcher) confirm(idx int) bool {
	id := m.a.ids[idx]
	var hook pike.HookFunc
	if m.hook != nil {
		hook = func(args [4]int) int { return m.hook(HookVM, id, args) }
	}

	matched, report := false, false
	for at := 0; at <= len(m.input); {
		caps := m.exec(idx, at, hook)
		if caps == nil {
			break
		}
		if !matched {
			matched = true
			if report = m.cb.Hit(id); !report {
				break
			}
		}
		starts, ends := m.groups(caps)
		m.cb.HitInfo(id, starts, ends)
		start, end := caps[0], caps[1]
		if end >= len(m.input) {
			break
		}
		at = end
		if end == start {
			_, w := utf8.DecodeRune(m.input[end:])
			at += w
		}
	}
	if report {
		m.cb.HitEnd(id)
	}
	return matched
}

// exec returns the capture slots of the next match of pattern idx at or
// after at, consulting its prefilter while it stays effective. A retired
// literal prefilter still skips the VM when no literal is left.
func (m *Matcher) exec(idx, at int, hook pike.HookFunc) []int {
	vm := m.a.vms[idx]
	tr := m.trackers[idx]
	if tr == nil {
		return vm.Exec(m.input, at, hook)
	}
	if !tr.IsActive() {
		if lits, ok := tr.Inner().(*prefilter.Literals); ok && !lits.IsMatch(m.input, at) {
			return nil
		}
		return vm.Exec(m.input, at, hook)
	}
	pos := tr.Find(m.input, at)
	if pos < 0 {
		return nil
	}
	if pf := tr.Inner(); pf.IsComplete() {
		caps := make([]int, vm.Slots)
		for i := range caps {
			caps[i] = -1
		}
		caps[0], caps[1] = pos, pos+pf.LiteralLen()
		return caps
	}
	caps := vm.Exec(m.input, pos, hook)
	if caps != nil {
		tr.ConfirmMatch()
	}
	return caps
}

// groups splits capture slots into reused start and end slices.
func (m *Matcher) groups(caps []int) (starts, ends []int) {
	m.starts, m.ends = m.starts[:0], m.ends[:0]
	for i := 0; i+1 < len(caps); i += 2 {
		m.starts = append(m.starts, caps[i])
		m.ends = append(m.ends, caps[i+1])
	}
	return m.starts, m.ends
}
