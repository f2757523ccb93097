package extract

import (
	"regexp"

	"github.com/gnolang/sift/internal/scope"
)

// The scanners below work on masked lines with 0-indexed line numbers and
// write 1-indexed positions into the candidate. A scope that is never
// closed is clamped to the end of the file and marked unterminated.

// scanBraces finds the brace that closes the first block opened at or
// after (line, char).
func scanBraces(c *candidate, lines []string, line, char int) bool {
	return scanBlock(c, lines, line, char, false)
}

// scanBracesOrSemicolon is scanBraces, except that a ';' seen before any
// block is opened ends the scope right there.
func scanBracesOrSemicolon(c *candidate, lines []string, line, char int) bool {
	return scanBlock(c, lines, line, char, true)
}

func scanBlock(c *candidate, lines []string, line, char int, semicolon bool) bool {
	depth := 0
	for l := line; l < len(lines); l++ {
		text := lines[l]
		start := 0
		if l == line {
			start = char
		}
		for p := start; p < len(text); p++ {
			switch text[p] {
			case '{':
				if depth == 0 && !c.Braced {
					c.Brace = at(l, p)
					c.Braced = true
				}
				depth++
			case '}':
				// a closing brace before anything was opened belongs to
				// an enclosing scope
				if depth == 0 {
					continue
				}
				depth--
				if depth == 0 {
					c.End = at(l, p)
					return true
				}
			case ';':
				if semicolon && depth == 0 {
					c.End = at(l, p)
					return true
				}
			}
		}
	}
	clampToEOF(c, lines)
	return false
}

// scanForHeader balances the parenthesized header starting at (line, char)
// and then looks for the body right after it, so the semicolons of the
// header are never taken for the end of the loop.
func scanForHeader(c *candidate, lines []string, line, char int) bool {
	depth := 0
	for l := line; l < len(lines); l++ {
		text := lines[l]
		start := 0
		if l == line {
			start = char
		}
		for p := start; p < len(text); p++ {
			switch text[p] {
			case '(':
				depth++
			case ')':
				if depth == 0 {
					continue
				}
				depth--
				if depth == 0 {
					return scanBracesOrSemicolon(c, lines, l, p+1)
				}
			}
		}
	}
	clampToEOF(c, lines)
	return false
}

var doWhileToken = regexp.MustCompile(`\b(do|while)\b`)

// scanDoWhile finds the while tail matching a do whose token ends right
// before (line, char). Nested do blocks consume their own tails first, and
// while loops (a while whose condition is not followed by ';') are skipped.
func scanDoWhile(c *candidate, lines []string, line, char int) bool {
	if l, p, ok := nextNonSpace(lines, line, char); ok && lines[l][p] == '{' {
		c.Brace = at(l, p)
		c.Braced = true
	}

	nested := 0
	for l := line; l < len(lines); l++ {
		text := lines[l]
		offset := 0
		if l == line {
			offset = min(char, len(text))
		}
		for _, loc := range doWhileToken.FindAllStringIndex(text[offset:], -1) {
			tokStart, tokEnd := offset+loc[0], offset+loc[1]
			if text[tokStart:tokEnd] == "do" {
				nested++
				continue
			}
			sl, sp, ok := doWhileTail(lines, l, tokEnd)
			if !ok {
				continue
			}
			if nested > 0 {
				nested--
				continue
			}
			c.End = at(sl, sp)
			return true
		}
	}
	clampToEOF(c, lines)
	return false
}

// doWhileTail reports whether the while token ending at (line, char) closes
// a do block: its balanced condition must be followed by ';'. The position
// of that semicolon is returned.
func doWhileTail(lines []string, line, char int) (int, int, bool) {
	depth := 0
	opened := false
	for l := line; l < len(lines); l++ {
		text := lines[l]
		start := 0
		if l == line {
			start = char
		}
		for p := start; p < len(text); p++ {
			ch := text[p]
			switch {
			case ch == ' ' || ch == '\t':
			case ch == '(':
				depth++
				opened = true
			case ch == ')':
				if depth == 0 {
					return 0, 0, false
				}
				depth--
				if depth == 0 {
					nl, np, ok := nextNonSpace(lines, l, p+1)
					if !ok || lines[nl][np] != ';' {
						return 0, 0, false
					}
					return nl, np, true
				}
			case !opened:
				return 0, 0, false
			}
		}
	}
	return 0, 0, false
}

// nextNonSpace returns the first character at or after (line, char) that is
// not a space or a tab.
func nextNonSpace(lines []string, line, char int) (int, int, bool) {
	for l := line; l < len(lines); l++ {
		text := lines[l]
		start := 0
		if l == line {
			start = char
		}
		for p := start; p < len(text); p++ {
			if text[p] != ' ' && text[p] != '\t' {
				return l, p, true
			}
		}
	}
	return 0, 0, false
}

func clampToEOF(c *candidate, lines []string) {
	c.Unterminated = true
	if len(lines) == 0 {
		c.End = at(0, 0)
		return
	}
	last := len(lines) - 1
	c.End = at(last, max(len(lines[last])-1, 0))
}

// at converts a 0-indexed line into a scope position.
func at(line, char int) scope.Position {
	return scope.Position{Line: line + 1, Char: char}
}
