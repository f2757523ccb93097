package extract

import (
	"regexp"
	"strings"
)

// match is what a single-line matcher recognized: where the construct
// starts on the line and the text it is known by.
type match struct {
	char    int
	name    string
	typ     string
	keyword string
	end     int // variables and declarations end on the same line
}

// Every matcher takes one masked line and reports at most one construct.
// Multi-line bounds are resolved afterwards by the scanners.

var defineRe = regexp.MustCompile(`^\s*#\s*define\b`)

func matchDefine(line string) (match, bool) {
	loc := defineRe.FindStringIndex(line)
	if loc == nil {
		return match{}, false
	}
	return match{char: strings.IndexByte(line, '#')}, true
}

var namespaceRe = regexp.MustCompile(`^\s*(?:inline\s+)?namespace(?:\s+(\w+(?:::\w+)*))?\s*(?:\{.*)?$`)

func matchNamespace(line string) (match, bool) {
	m := namespaceRe.FindStringSubmatchIndex(line)
	if m == nil {
		return match{}, false
	}
	return match{char: firstNonSpace(line), name: group(line, m, 1)}, true
}

var enumRe = regexp.MustCompile(`^\s*(?:typedef\s+)?enum(?:\s+(?:class|struct))?(?:\s+(\w+))?\s*(?::\s*[\w:\s]+?)?\s*(?:\{.*)?$`)

func matchEnum(line string) (match, bool) {
	m := enumRe.FindStringSubmatchIndex(line)
	if m == nil {
		return match{}, false
	}
	return match{char: firstNonSpace(line), name: group(line, m, 1)}, true
}

var classRe = regexp.MustCompile(`^\s*(?:typedef\s+)?(?:template\s*<.*>\s*)?(?:class|struct)(?:\s+(\w+))?(?:\s+final)?\s*(?::\s*[^{;]*)?(?:\{.*)?$`)

func matchClass(line string) (match, bool) {
	m := classRe.FindStringSubmatchIndex(line)
	if m == nil {
		return match{}, false
	}
	return match{char: firstNonSpace(line), name: group(line, m, 1)}, true
}

var functionRe = regexp.MustCompile(`^\s*((?:[\w:~]+(?:<[^;{}]*>)?[*&]*\s+)*[*&]*)([\w:~]+)\s*\((.*)\).*$`)

// statementKeywords start statements that look like calls but never
// declare a function.
var statementKeywords = map[string]bool{
	"if": true, "else": true, "for": true, "while": true, "do": true,
	"switch": true, "return": true, "throw": true, "case": true,
	"goto": true, "new": true, "delete": true, "sizeof": true,
	"co_return": true, "co_await": true, "co_yield": true,
}

// matchFunction inspects the statements of a line in order and decides on
// the first one that looks like a call or a signature.
func matchFunction(line string) (match, bool) {
	start := 0
	for start <= len(line) {
		end := strings.IndexAny(line[start:], "{};")
		if end < 0 {
			end = len(line)
		} else {
			end += start
		}
		segment := line[start:end]
		if m := functionRe.FindStringSubmatchIndex(segment); m != nil {
			if statementKeywords[firstWord(segment)] {
				return match{}, false
			}
			char := start + firstNonSpace(segment)
			res := match{
				char: char,
				name: group(segment, m, 2),
				typ:  strings.TrimSpace(group(segment, m, 1)),
				end:  -1,
			}
			// a ';' before any '{' makes this a declaration or a call
			if i := strings.IndexAny(line[char:], "{;"); i >= 0 && line[char+i] == ';' {
				res.end = char + i
			}
			return res, true
		}
		start = end + 1
	}
	return match{}, false
}

var variableRe = regexp.MustCompile(`^\s*((?:[\w:]+(?:<[^;{}]*>)?[*&]*\s+)+[*&]*)(\w+)\s*(?:\[[^\]]*\]\s*)*(?:=\s*[^;]*?|\{[^;]*\})?\s*(;)\s*$`)

// declarationKeywords never start a variable declaration.
var declarationKeywords = map[string]bool{
	"return": true, "delete": true, "throw": true, "goto": true,
	"case": true, "using": true, "typedef": true, "else": true,
	"co_return": true, "co_yield": true,
}

// forwardKeywords make a one-token type a forward declaration.
var forwardKeywords = map[string]bool{
	"class": true, "struct": true, "enum": true, "union": true,
	"namespace": true, "friend": true,
}

func matchVariable(line string) (match, bool) {
	m := variableRe.FindStringSubmatchIndex(line)
	if m == nil {
		return match{}, false
	}
	typ := strings.TrimSpace(group(line, m, 1))
	if declarationKeywords[firstWord(typ)] {
		return match{}, false
	}
	if fields := strings.Fields(typ); len(fields) == 1 && forwardKeywords[fields[0]] {
		return match{}, false
	}
	return match{
		char: firstNonSpace(line),
		name: group(line, m, 2),
		typ:  typ,
		end:  m[6],
	}, true
}

var conditionalRe = regexp.MustCompile(`(?:^|\W)(if|else|for|switch|while|do)(?:[({\s]|$)`)

// matchConditional finds the first control keyword on the line. The end of
// the keyword is returned in end.
func matchConditional(line string) (match, bool) {
	m := conditionalRe.FindStringSubmatchIndex(line)
	if m == nil {
		return match{}, false
	}
	return match{char: m[2], keyword: line[m[2]:m[3]], end: m[3]}, true
}

// isDirective reports whether a masked line is a preprocessor directive.
func isDirective(line string) bool {
	return strings.HasPrefix(strings.TrimLeft(line, " \t"), "#")
}

func group(s string, m []int, i int) string {
	if m[2*i] < 0 {
		return ""
	}
	return s[m[2*i]:m[2*i+1]]
}

func firstNonSpace(s string) int {
	return len(s) - len(strings.TrimLeft(s, " \t"))
}

func firstWord(s string) string {
	s = strings.TrimLeft(s, " \t")
	end := strings.IndexFunc(s, func(r rune) bool {
		return !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')
	})
	if end < 0 {
		return s
	}
	return s[:end]
}
