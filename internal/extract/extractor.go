package extract

import (
	"strings"

	"go.uber.org/zap"

	"github.com/gnolang/sift/internal/scope"
	tt "github.com/gnolang/sift/internal/types"
)

// provisional marks a candidate whose final kind depends on its parent.
type provisional uint8

const (
	settled provisional = iota
	variableCandidate
	functionCandidate
)

// candidate is a scope found by a detection pass before it has a parent.
type candidate struct {
	scope.Scope
	pending provisional
	// detected remembers the pass that found the candidate after pending
	// has been resolved.
	detected provisional
	order    int
}

// reservedNames are artifacts of the call and declaration patterns firing
// on control flow.
var reservedNames = map[string]bool{
	"if": true, "else": true, "else if": true, "while": true,
	"do": true, "new": true, "delete": true, "typedef": true,
}

// Extractor turns source files into scope trees. It holds no per-file
// state and is safe for concurrent use.
type Extractor struct {
	logger *zap.Logger
}

func New(logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{logger: logger}
}

// Extract builds the scope tree of file. Malformed input never fails:
// unterminated constructs extend to the end of the file.
func (e *Extractor) Extract(file *tt.SourceFile) *scope.Tree {
	code := maskLines(file.Lines)
	x := &extraction{raw: file.Lines, code: code}
	x.defines()
	x.scan = blankDefines(code, x.found)
	x.namespaces()
	x.enums()
	x.classes()
	x.functions()
	x.variables()
	x.conditionals()
	x.comments()

	kept := x.found[:0]
	for _, c := range x.found {
		if reservedNames[strings.TrimSpace(c.Name)] {
			continue
		}
		kept = append(kept, c)
	}
	for i, c := range kept {
		c.order = i
	}

	tree := reconstruct(file, code, kept)
	if ce := e.logger.Check(zap.DebugLevel, "scope tree"); ce != nil {
		ce.Write(
			zap.String("file", file.Path),
			zap.Int("scopes", tree.Len()),
			zap.String("tree", tree.String()),
		)
	}
	return tree
}

type extraction struct {
	raw  []string
	code []string
	// scan is code with every macro line blanked; the passes after
	// defines read it so macro bodies never become scopes.
	scan  []string
	found []*candidate
}

func (x *extraction) add(c *candidate) {
	c.detected = c.pending
	x.found = append(x.found, c)
}

func (x *extraction) defines() {
	for l := 0; l < len(x.code); l++ {
		m, ok := matchDefine(x.code[l])
		if !ok {
			continue
		}
		c := &candidate{Scope: scope.Scope{
			Range: scope.Range{Start: at(l, m.char)},
			Kind:  scope.GlobalDefine,
			Name:  strings.TrimSpace(x.raw[l]),
		}}
		end := l
		for continues(x.raw[end]) && end+1 < len(x.raw) {
			end++
		}
		c.MultiLine = end > l
		c.End = at(end, max(len(x.raw[end])-1, 0))
		x.add(c)
		l = end
	}
}

// blankDefines returns a copy of code in which the lines of every
// GlobalDefine candidate are replaced by spaces.
func blankDefines(code []string, found []*candidate) []string {
	scan := append([]string(nil), code...)
	for _, c := range found {
		if c.Kind != scope.GlobalDefine {
			continue
		}
		for l := c.Start.Line - 1; l < c.End.Line && l < len(scan); l++ {
			scan[l] = strings.Repeat(" ", len(scan[l]))
		}
	}
	return scan
}

func continues(line string) bool {
	return strings.HasSuffix(strings.TrimRight(line, " \t"), `\`)
}

func (x *extraction) namespaces() {
	for l, line := range x.scan {
		m, ok := matchNamespace(line)
		if !ok {
			continue
		}
		c := x.open(scope.Namespace, l, m)
		scanBraces(c, x.scan, l, m.char)
		x.add(c)
	}
}

func (x *extraction) enums() {
	for l := 0; l < len(x.scan); l++ {
		m, ok := matchEnum(x.scan[l])
		if !ok {
			continue
		}
		c := x.open(scope.Enum, l, m)
		scanBraces(c, x.scan, l, m.char)
		x.add(c)
		// enums do not nest, resume after the body
		l = max(l, c.End.Line-1)
	}
}

func (x *extraction) classes() {
	for l, line := range x.scan {
		m, ok := matchClass(line)
		if !ok {
			continue
		}
		c := x.open(scope.Class, l, m)
		scanBraces(c, x.scan, l, m.char)
		x.add(c)
	}
}

func (x *extraction) functions() {
	for l, line := range x.scan {
		if isDirective(line) {
			continue
		}
		m, ok := matchFunction(line)
		if !ok {
			continue
		}
		c := x.open(0, l, m)
		c.pending = functionCandidate
		if m.end >= 0 {
			c.End = at(l, m.end)
		} else {
			scanBraces(c, x.scan, l, m.char)
		}
		x.add(c)
	}
}

func (x *extraction) variables() {
	for l, line := range x.scan {
		if isDirective(line) {
			continue
		}
		m, ok := matchVariable(line)
		if !ok {
			continue
		}
		c := x.open(0, l, m)
		c.pending = variableCandidate
		c.End = at(l, m.end)
		x.add(c)
	}
}

// conditionals keeps scanning a line after a construct that ends on it, so
// that "if (a) { x(); } else { y(); }" yields both branches.
func (x *extraction) conditionals() {
	for l, line := range x.scan {
		if isDirective(line) {
			continue
		}
		for from := 0; from < len(line); {
			m, ok := matchConditional(line[from:])
			if !ok {
				break
			}
			m.char += from
			m.end += from
			from = m.end
			if m.keyword == "while" {
				if _, _, tail := doWhileTail(x.scan, l, m.end); tail {
					continue
				}
			}
			c := x.open(scope.Conditional, l, m)
			c.Keyword = m.keyword
			switch m.keyword {
			case "for":
				scanForHeader(c, x.scan, l, m.end)
			case "do":
				scanDoWhile(c, x.scan, l, m.end)
			default:
				scanBracesOrSemicolon(c, x.scan, l, m.end)
			}
			x.add(c)
			if c.End.Line-1 != l {
				break
			}
			from = max(from, c.End.Char+1)
		}
	}
}

// comments walks the raw lines once, tracking string literals so that
// comment markers inside them are ignored.
func (x *extraction) comments() {
	var block *candidate
	var body []string
	for l, line := range x.raw {
		var quote byte
		from := 0
		for p := 0; p < len(line); p++ {
			ch := line[p]
			if block != nil {
				if ch == '*' && p+1 < len(line) && line[p+1] == '/' {
					body = append(body, line[from:p+2])
					block.Name = strings.Join(body, "\n")
					block.End = at(l, p+1)
					block.MultiLine = block.End.Line > block.Start.Line
					x.add(block)
					block, body = nil, nil
					p++
				}
				continue
			}
			switch {
			case quote != 0:
				if ch == '\\' {
					p++
				} else if ch == quote {
					quote = 0
				}
			case ch == '"' || ch == '\'':
				quote = ch
			case ch == '/' && p+1 < len(line) && line[p+1] == '/':
				x.add(&candidate{Scope: scope.Scope{
					Range: scope.Range{Start: at(l, p), End: at(l, len(line)-1)},
					Kind:  scope.SingleLineComment,
					Name:  line[p:],
				}})
				p = len(line)
			case ch == '/' && p+1 < len(line) && line[p+1] == '*':
				block = &candidate{Scope: scope.Scope{
					Range: scope.Range{Start: at(l, p)},
					Kind:  scope.MultiLineComment,
				}}
				from = p
				p++
			}
		}
		if block != nil {
			body = append(body, line[from:])
			from = 0
		}
	}
	if block != nil {
		block.Name = strings.Join(body, "\n")
		block.MultiLine = true
		clampToEOF(block, x.raw)
		x.add(block)
	}
}

// open starts a candidate at the matched position.
func (x *extraction) open(kind scope.Kind, line int, m match) *candidate {
	return &candidate{Scope: scope.Scope{
		Range: scope.Range{Start: at(line, m.char)},
		Kind:  kind,
		Name:  m.name,
		Type:  m.typ,
	}}
}
