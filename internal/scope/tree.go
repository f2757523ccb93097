package scope

import (
	tt "github.com/gnolang/sift/internal/types"
)

// ID is a handle to a scope stored in a Tree.
type ID int

// None is the parent of the root scope.
const None ID = -1

// Scope is a named, typed and positioned region of a source file.
type Scope struct {
	Range

	Kind Kind
	// Name is the matched text. Comments carry their body, defines the
	// first physical line of the macro and conditionals no name at all.
	Name string
	// Type is the declared type of a variable or the qualifiers and return
	// type in front of a function name.
	Type string
	// Keyword is the control keyword of a Conditional.
	Keyword string

	// Brace is the opening brace of the body; only meaningful when Braced.
	Brace  Position
	Braced bool

	MultiLine    bool
	Unterminated bool

	parent   ID
	children []ID
}

// Tree owns every scope extracted from one file. Scopes reference each
// other through IDs, the root always has ID 0.
type Tree struct {
	File *tt.SourceFile
	// Code holds the lines of File with comments and the contents of
	// literals blanked out. It defaults to the raw lines.
	Code   []string
	scopes []Scope
}

// NewTree creates a tree holding only the Source root scope of file.
func NewTree(file *tt.SourceFile) *Tree {
	end := Position{Line: 1}
	if n := len(file.Lines); n > 0 {
		end = Position{Line: n, Char: len(file.Lines[n-1])}
	}
	root := Scope{
		Range:  Range{Start: Position{Line: 1}, End: end},
		Kind:   Source,
		Name:   file.Path,
		parent: None,
	}
	return &Tree{File: file, Code: file.Lines, scopes: []Scope{root}}
}

// Root returns the handle of the Source scope.
func (t *Tree) Root() ID { return 0 }

// Len returns the number of scopes including the root.
func (t *Tree) Len() int { return len(t.scopes) }

// Scope returns the scope behind id. The returned value must not be modified.
func (t *Tree) Scope(id ID) *Scope { return &t.scopes[id] }

// Parent returns the parent of id, or None for the root.
func (t *Tree) Parent(id ID) ID { return t.scopes[id].parent }

// Children returns the direct children of id in source order.
func (t *Tree) Children(id ID) []ID { return t.scopes[id].children }

// Add appends s as the last child of parent and returns its handle.
func (t *Tree) Add(parent ID, s Scope) ID {
	id := ID(len(t.scopes))
	s.parent = parent
	s.children = nil
	t.scopes = append(t.scopes, s)
	t.scopes[parent].children = append(t.scopes[parent].children, id)
	return id
}

// Walk visits every scope depth first, parents before children. Returning
// false from fn skips the children of that scope.
func (t *Tree) Walk(fn func(id ID, s *Scope) bool) {
	var visit func(id ID)
	visit = func(id ID) {
		if !fn(id, &t.scopes[id]) {
			return
		}
		for _, child := range t.scopes[id].children {
			visit(child)
		}
	}
	visit(t.Root())
}

// Collect returns, in traversal order, every scope whose kind satisfies match.
func (t *Tree) Collect(match func(Kind) bool) []ID {
	var ids []ID
	t.Walk(func(id ID, s *Scope) bool {
		if match(s.Kind) {
			ids = append(ids, id)
		}
		return true
	})
	return ids
}

// Contains reports whether the range of outer covers the range of inner.
func (t *Tree) Contains(outer, inner ID) bool {
	return t.scopes[outer].Range.Contains(t.scopes[inner].Range)
}

// Depth returns the number of ancestors of id.
func (t *Tree) Depth(id ID) int {
	depth := 0
	for p := t.scopes[id].parent; p != None; p = t.scopes[p].parent {
		depth++
	}
	return depth
}

// Lines returns the source lines the scope spans.
func (t *Tree) Lines(id ID) []string {
	s := &t.scopes[id]
	first, last := s.Start.Line-1, s.End.Line
	if first < 0 {
		first = 0
	}
	if last > len(t.File.Lines) {
		last = len(t.File.Lines)
	}
	if first >= last {
		return nil
	}
	return t.File.Lines[first:last]
}

// CodeBefore returns the position of the last code character strictly
// before p, skipping whitespace, comments and line breaks.
func (t *Tree) CodeBefore(p Position) (Position, bool) {
	for l := min(p.Line, len(t.Code)) - 1; l >= 0; l-- {
		text := t.Code[l]
		c := len(text) - 1
		if l == p.Line-1 {
			c = min(p.Char, len(text)) - 1
		}
		for ; c >= 0; c-- {
			if text[c] != ' ' && text[c] != '\t' {
				return Position{Line: l + 1, Char: c}, true
			}
		}
	}
	return Position{}, false
}

// CodeAfter returns the position of the first code character strictly
// after p.
func (t *Tree) CodeAfter(p Position) (Position, bool) {
	for l := max(p.Line-1, 0); l < len(t.Code); l++ {
		text := t.Code[l]
		c := 0
		if l == p.Line-1 {
			c = p.Char + 1
		}
		for ; c < len(text); c++ {
			if text[c] != ' ' && text[c] != '\t' {
				return Position{Line: l + 1, Char: c}, true
			}
		}
	}
	return Position{}, false
}
