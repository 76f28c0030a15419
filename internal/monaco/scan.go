package monaco

import (
	"sort"
	"strings"
)

// opaqueRange is a byte range [start, end) of code that is not code: a
// comment, or a string, template or regular expression literal.
type opaqueRange struct {
	start, end int
}

type opaqueRanges []opaqueRange

// scanOpaque finds the comments and literals of a JavaScript source. It is a
// lexer, not a parser, so a `/` counts as the start of a regular expression
// only after punctuation or a keyword that cannot end an expression.
func scanOpaque(code string) opaqueRanges {
	var ranges opaqueRanges
	last := -1 // index of the last byte of code that was not opaque or space

	for i := 0; i < len(code); i++ {
		c := code[i]
		end := -1

		switch {
		case c == '/' && i+1 < len(code) && code[i+1] == '/':
			end = strings.IndexByte(code[i:], '\n')
			if end < 0 {
				end = len(code)
			} else {
				end += i
			}
		case c == '/' && i+1 < len(code) && code[i+1] == '*':
			end = strings.Index(code[i+2:], "*/")
			if end < 0 {
				end = len(code)
			} else {
				end += i + 4
			}
		case c == '"' || c == '\'' || c == '`':
			end = literalEnd(code, i)
		case c == '/' && regexAllowed(code, last):
			end = regexEnd(code, i)
		}

		if end > i {
			ranges = append(ranges, opaqueRange{i, end})
			last = end - 1
			i = end - 1
			continue
		}
		if !isSpace(c) {
			last = i
		}
	}

	return ranges
}

// contains reports whether at falls inside one of the ranges.
func (ranges opaqueRanges) contains(at int) bool {
	index := sort.Search(len(ranges), func(i int) bool { return ranges[i].end > at })
	return index < len(ranges) && ranges[index].start <= at
}

// closingParen returns the offset just past the `)` that closes the `(` at
// open, or -1 if the source ends first.
func (ranges opaqueRanges) closingParen(code string, open int) int {
	next := sort.Search(len(ranges), func(i int) bool { return ranges[i].end > open })

	depth := 0
	for i := open; i < len(code); i++ {
		if next < len(ranges) && ranges[next].start == i {
			i = ranges[next].end - 1
			next++
			continue
		}

		switch code[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return -1
}

// literalEnd returns the offset just past the string or template literal
// that starts at start.
func literalEnd(code string, start int) int {
	quote := code[start]
	for i := start + 1; i < len(code); i++ {
		switch c := code[i]; {
		case c == '\\':
			i++
		case c == quote:
			return i + 1
		case c == '\n' && quote != '`':
			return i
		case quote == '`' && c == '$' && i+1 < len(code) && code[i+1] == '{':
			i = substitutionEnd(code, i+2) - 1
		}
	}
	return len(code)
}

// substitutionEnd returns the offset just past the `}` closing a template
// substitution whose body starts at start.
func substitutionEnd(code string, start int) int {
	depth := 1
	for i := start; i < len(code); i++ {
		switch c := code[i]; c {
		case '"', '\'', '`':
			i = literalEnd(code, i) - 1
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return len(code)
}

// regexEnd returns the offset just past the flags of the regular expression
// literal at start, or start if the line ends first.
func regexEnd(code string, start int) int {
	inClass := false
	for i := start + 1; i < len(code); i++ {
		switch c := code[i]; {
		case c == '\\':
			i++
		case c == '\n':
			return start
		case c == '[':
			inClass = true
		case c == ']':
			inClass = false
		case c == '/' && !inClass:
			i++
			for i < len(code) && isIdentifierByte(code[i]) {
				i++
			}
			return i
		}
	}
	return start
}

var regexKeywords = map[string]bool{
	"return": true, "typeof": true, "instanceof": true, "in": true, "of": true,
	"new": true, "delete": true, "void": true, "throw": true, "case": true,
	"do": true, "else": true, "yield": true, "await": true,
}

func regexAllowed(code string, last int) bool {
	if last < 0 {
		return true
	}

	c := code[last]
	if strings.IndexByte("(,=:[!&|?{};+-*%<>~^", c) >= 0 {
		return true
	}
	if !isIdentifierByte(c) {
		return false
	}

	start := last
	for start > 0 && isIdentifierByte(code[start-1]) {
		start--
	}
	return regexKeywords[code[start:last+1]]
}

func isIdentifierByte(c byte) bool {
	return c == '_' || c == '$' || c >= 0x80 ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
