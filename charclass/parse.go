package charclass

import (
	"fmt"
	"strconv"
	"unicode"
	"unicode/utf8"
)

// ParseError reports a malformed class or escape at byte offset Pos.
type ParseError struct {
	Msg string
	Pos int
}

// Error implements the error interface
func (e *ParseError) Error() string {
	return fmt.Sprintf("%s @%d", e.Msg, e.Pos)
}

func perlSet(c byte) (set, bool) {
	var s set
	switch c {
	case 'd', 'D':
		s.addRange('0', '9')
	case 's', 'S':
		for _, r := range " \t\n\x0B\f\r" {
			s.add(r)
		}
	case 'w', 'W':
		s.addRange('a', 'z')
		s.addRange('A', 'Z')
		s.addRange('0', '9')
		s.add('_')
	default:
		return set{}, false
	}
	s.inverse = c == 'D' || c == 'S' || c == 'W'
	return s, true
}

// IsPerl reports whether c introduces one of \d \D \s \S \w \W.
func IsPerl(c byte) bool {
	_, ok := perlSet(c)
	return ok
}

// ParseEscape parses a character escape. s[i] is the byte after the
// backslash. It returns the rune and the offset after the escape; ok is false
// when s[i] does not start a character escape, leaving class escapes and
// assertions to the caller.
func ParseEscape(s string, i int) (r rune, end int, ok bool, err error) {
	if i >= len(s) {
		return 0, i, false, &ParseError{Msg: "trailing backslash", Pos: i - 1}
	}
	c := s[i]
	switch c {
	case '0':
		n := digits(s, i+1, 3, 8)
		if n == 3 && s[i+1] > '3' {
			n--
		}
		if n == 0 {
			return 0, i + 1, true, nil
		}
		v, _ := strconv.ParseInt(s[i+1:i+1+n], 8, 32)
		return rune(v), i + 1 + n, true, nil
	case 'x', 'u':
		if c == 'x' && i+1 < len(s) && s[i+1] == '{' {
			n := digits(s, i+2, 6, 16)
			if n == 0 || i+2+n >= len(s) || s[i+2+n] != '}' {
				return 0, i, false, &ParseError{Msg: "invalid hex escape", Pos: i - 1}
			}
			v, _ := strconv.ParseInt(s[i+2:i+2+n], 16, 32)
			if v > unicode.MaxRune {
				return 0, i, false, &ParseError{Msg: "code point out of range", Pos: i - 1}
			}
			return rune(v), i + 3 + n, true, nil
		}
		width := 2
		if c == 'u' {
			width = 4
		}
		n := digits(s, i+1, width, 16)
		if n == 0 {
			return 0, i, false, &ParseError{Msg: "invalid hex escape", Pos: i - 1}
		}
		v, _ := strconv.ParseInt(s[i+1:i+1+n], 16, 32)
		return rune(v), i + 1 + n, true, nil
	case 'a':
		return 0x07, i + 1, true, nil
	case 'e':
		return 0x1B, i + 1, true, nil
	case 'f':
		return 0x0C, i + 1, true, nil
	case 'n':
		return 0x0A, i + 1, true, nil
	case 'r':
		return 0x0D, i + 1, true, nil
	case 't':
		return 0x09, i + 1, true, nil
	}
	if c < utf8.RuneSelf && (unicode.IsPunct(rune(c)) || unicode.IsSymbol(rune(c))) {
		return rune(c), i + 1, true, nil
	}
	return 0, i, false, nil
}

// digits counts the digits of the given base starting at s[i], up to max.
func digits(s string, i, max, base int) int {
	n := 0
	for n < max && i+n < len(s) {
		c := s[i+n]
		var v int
		switch {
		case c >= '0' && c <= '9':
			v = int(c - '0')
		case c >= 'a' && c <= 'z':
			v = int(c-'a') + 10
		case c >= 'A' && c <= 'Z':
			v = int(c-'A') + 10
		default:
			return n
		}
		if v >= base {
			return n
		}
		n++
	}
	return n
}

// Parse parses a bracket expression starting at s[i] == '[' or a Perl class
// escape starting at s[i] == '\\'. It returns the matcher and the offset
// after the class. A nil matcher with a nil error means s[i] does not start
// a class.
func Parse(s string, i int) (*Matcher, int, error) {
	st, end, err := parseSet(s, i)
	if err != nil || end == i {
		return nil, i, err
	}
	return st.matcher(), end, nil
}

func parseSet(s string, i int) (set, int, error) {
	if i >= len(s) {
		return set{}, i, nil
	}
	if s[i] == '\\' {
		if i+1 < len(s) {
			if st, ok := perlSet(s[i+1]); ok {
				return st, i + 2, nil
			}
		}
		return set{}, i, nil
	}
	if s[i] != '[' {
		return set{}, i, nil
	}
	return parseBracket(s, i)
}

func parseBracket(s string, start int) (set, int, error) {
	i := start + 1
	negate := false
	if i < len(s) && s[i] == '^' {
		negate = true
		i++
	}
	var acc set
	prev := rune(-1)
	for {
		if i >= len(s) {
			return set{}, i, &ParseError{Msg: "unterminated class", Pos: start}
		}
		c, w := utf8.DecodeRuneInString(s[i:])
		switch {
		case c == ']':
			if negate {
				acc = complement(acc)
			}
			return acc, i + 1, nil
		case c == '-' && prev >= 0 && i+1 < len(s) && s[i+1] != ']':
			hi, next, err := classRune(s, i+1)
			if err != nil {
				return set{}, i, err
			}
			if hi < prev {
				return set{}, i, &ParseError{Msg: "invalid range", Pos: i}
			}
			var r set
			r.addRange(prev, hi)
			acc = union(acc, r)
			prev = -1
			i = next
		case c == '\\':
			if i+1 < len(s) {
				if st, ok := perlSet(s[i+1]); ok {
					acc = union(acc, st)
					prev = -1
					i += 2
					continue
				}
			}
			r, next, ok, err := ParseEscape(s, i+1)
			if err != nil {
				return set{}, i, err
			}
			if !ok {
				return set{}, i, &ParseError{Msg: "invalid escape in class", Pos: i}
			}
			acc = union(acc, single(r))
			prev = r
			i = next
		case c == '[':
			sub, next, err := parseBracket(s, i)
			if err != nil {
				return set{}, i, err
			}
			acc = union(acc, sub)
			prev = -1
			i = next
		case c == '&' && i+2 < len(s) && s[i+1] == '&' && s[i+2] == '[':
			sub, next, err := parseBracket(s, i+2)
			if err != nil {
				return set{}, i, err
			}
			acc = intersect(acc, sub)
			prev = -1
			i = next
		default:
			acc = union(acc, single(c))
			prev = c
			i += w
		}
	}
}

func single(r rune) set {
	var s set
	s.add(r)
	return s
}

// classRune reads one literal or escaped rune inside a class.
func classRune(s string, i int) (rune, int, error) {
	if s[i] != '\\' {
		r, w := utf8.DecodeRuneInString(s[i:])
		return r, i + w, nil
	}
	r, next, ok, err := ParseEscape(s, i+1)
	if err != nil {
		return 0, i, err
	}
	if !ok {
		return 0, i, &ParseError{Msg: "invalid range", Pos: i}
	}
	return r, next, nil
}
