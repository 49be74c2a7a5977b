package pike

// body returns the bounds of the code between the preamble plus the group 0
// start save and the group 0 end save.
func (p *Program) body() (start, end int) {
	code := p.Code
	start, end = p.PrefixLen, len(code)
	if start+1 < end && code[start] == OpSave && code[start+1] == 0 {
		start += 2
	}
	if end > start+1 && code[end-2] == OpSave && code[end-1] == 1 {
		end -= 2
	}
	return start, end
}

func literal(code []int) (string, bool) {
	rs := make([]rune, len(code))
	for i, w := range code {
		if w < 0 {
			return "", false
		}
		rs[i] = rune(w)
	}
	return string(rs), true
}

// PlainString returns the literal matched by the program when the pattern
// is a plain non-empty string: no operators, no groups besides group 0.
func (p *Program) PlainString() (string, bool) {
	start, end := p.body()
	if start >= end {
		return "", false
	}
	return literal(p.Code[start:end])
}

// Literals returns the alternatives of a pattern that is an alternation of
// non-empty plain strings, such as "abc|abd". A plain string yields one
// literal.
func (p *Program) Literals() ([]string, bool) {
	code := p.Code
	start, end := p.body()
	var lits []string
	pc := start
	for pc < end && code[pc] == OpSplit {
		next := code[pc+1]
		j := pc + 2
		for j < end && code[j] >= 0 {
			j++
		}
		if j == pc+2 || j+1 >= end || code[j] != OpJmp || code[j+1] != end || next != j+2 {
			return nil, false
		}
		lit, _ := literal(code[pc+2 : j])
		lits = append(lits, lit)
		pc = next
	}
	if pc >= end {
		return nil, false
	}
	lit, ok := literal(code[pc:end])
	if !ok {
		return nil, false
	}
	return append(lits, lit), true
}
