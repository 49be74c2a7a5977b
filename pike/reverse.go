package pike

// reverse rewrites the program past the preamble so that it matches the
// reversed language, for running look-behind bodies backwards.
//
// Think of the code as a graph: plain instructions are nodes, jumps are
// arrows. Reversing turns every arrow around. Each jump target gets one
// jump per arrow arriving there, and JMP instructions, which cut the
// fall-through arrow into the next instruction, turn into a JMP at the
// reversed position. Capture positions do not survive reversal: "(a?)a?"
// captures "a" forwards but the empty string backwards, so look-around
// bodies never capture.
func (p *Program) reverse() {
	code := p.Code
	start, end := p.PrefixLen, len(code)

	// Pass 1: chain the jumps arriving at each pc. arrivals[pc] is one
	// plus the pc of the first jump to pc; arrivals[jump+1] continues the
	// chain. broken marks instructions not reachable by falling through.
	arrivals := make([]int, end+1)
	broken := make([]bool, end+1)
	for pc := start; pc < end; pc += width(code[pc]) {
		if isJump(code[pc]) {
			target := code[pc+1]
			arrivals[pc+1] = arrivals[target]
			arrivals[target] = pc + 1
			if code[pc] == OpJmp {
				broken[pc+2] = true
			}
		}
	}

	// Pass 2: find where each jump instruction lands in the new program.
	mapping := make([]int, end)
	mapped := end
	for pc := start; mapped > 0 && pc < end; pc += width(code[pc]) {
		for j := arrivals[pc]; j > 0; j = arrivals[j] {
			mapped -= 2
		}
		if !isJump(code[pc]) {
			mapped -= width(code[pc])
		}
		mapping[pc] = mapped
	}

	// Pass 3: write the new program from the back.
	out := make([]int, end)
	mapped = end
	for pc := start; mapped > start; pc += width(code[pc]) {
		brk := broken[pc]
		for j := arrivals[pc]; j > 0; j = arrivals[j] {
			mapped--
			out[mapped] = mapping[j-1]
			mapped--
			switch {
			case brk:
				out[mapped] = OpJmp
				brk = false
			case code[j-1] == OpSplitJmp:
				out[mapped] = OpSplitJmp
			default:
				out[mapped] = OpSplit
			}
		}
		if pc == end {
			break
		}
		if !isJump(code[pc]) {
			for i := width(code[pc]) - 1; i >= 0; i-- {
				mapped--
				out[mapped] = code[pc+i]
			}
		}
	}
	copy(code[start:], out[start:])
}
