package nfa

import (
	"strconv"
	"strings"
)

// digits builds the automaton for decimal numbers in [lo, hi]. Numbers are
// read most significant digit first; any number of leading zeros is
// accepted. Suffix states that accept k arbitrary digits are shared.
type digits struct {
	b   *Builder
	to  StateID
	any []StateID
}

// addIntRange wires from -> to through every digit string whose value lies
// in [lo, hi]. lo must not exceed hi and both must be non-negative.
func (b *Builder) addIntRange(from StateID, lo, hi int, to StateID) {
	d := &digits{b: b, to: to, any: []StateID{to}}
	b.AddRange(from, '0', '0', from)
	hs := strconv.Itoa(hi)
	floor := 0
	for n := len(strconv.Itoa(lo)); n <= len(hs); n++ {
		if n > 1 {
			floor = pow10(n - 1)
		}
		a, z := max(lo, floor), min(hi, pow10(n)-1)
		if a > z {
			continue
		}
		d.span(from, pad(a, n), pad(z, n))
	}
}

// span adds edges from -> ... -> d.to for every digit string s with
// lo <= s <= hi, where lo and hi have equal length.
func (d *digits) span(from StateID, lo, hi string) {
	if lo[0] == hi[0] {
		d.b.AddRange(from, int(lo[0]), int(lo[0]), d.into(lo[1:], hi[1:]))
		return
	}
	n := len(lo) - 1
	d.b.AddRange(from, int(lo[0]), int(lo[0]), d.into(lo[1:], strings.Repeat("9", n)))
	if lo[0]+1 < hi[0] {
		d.b.AddRange(from, int(lo[0]+1), int(hi[0]-1), d.anyOf(n))
	}
	d.b.AddRange(from, int(hi[0]), int(hi[0]), d.into(strings.Repeat("0", n), hi[1:]))
}

// into returns a state accepting the digit strings in [lo, hi].
func (d *digits) into(lo, hi string) StateID {
	if strings.Trim(lo, "0") == "" && strings.Trim(hi, "9") == "" {
		return d.anyOf(len(lo))
	}
	s := d.b.AddState()
	d.span(s, lo, hi)
	return s
}

// anyOf returns the shared state accepting exactly n more digits.
func (d *digits) anyOf(n int) StateID {
	for len(d.any) <= n {
		s := d.b.AddState()
		d.b.AddRange(s, '0', '9', d.any[len(d.any)-1])
		d.any = append(d.any, s)
	}
	return d.any[n]
}

func pow10(n int) int {
	p := 1
	for ; n > 0; n-- {
		p *= 10
	}
	return p
}

func pad(v, n int) string {
	s := strconv.Itoa(v)
	return strings.Repeat("0", n-len(s)) + s
}
