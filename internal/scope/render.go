package scope

import (
	"fmt"
	"strconv"
	"strings"
)

const maxRenderedName = 40

// String renders the tree for debugging, one scope per line.
func (t *Tree) String() string {
	var b strings.Builder
	t.render(&b, t.Root(), "", "")
	return b.String()
}

func (t *Tree) render(b *strings.Builder, id ID, prefix, childPrefix string) {
	b.WriteString(prefix)
	b.WriteString(t.scopes[id].Label())
	b.WriteByte('\n')

	children := t.scopes[id].children
	for i, child := range children {
		if i == len(children)-1 {
			t.render(b, child, childPrefix+"└── ", childPrefix+"    ")
		} else {
			t.render(b, child, childPrefix+"├── ", childPrefix+"│   ")
		}
	}
}

// Label describes a single scope: kind, keyword, name and range.
func (s *Scope) Label() string {
	var b strings.Builder
	b.WriteString(s.Kind.String())
	if s.Keyword != "" {
		fmt.Fprintf(&b, "[%s]", s.Keyword)
	}
	if s.Name != "" {
		b.WriteByte(' ')
		b.WriteString(strconv.Quote(shorten(s.Name)))
	}
	b.WriteByte(' ')
	b.WriteString(s.Range.String())
	if s.Unterminated {
		b.WriteString(" (unterminated)")
	}
	return b.String()
}

func shorten(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	if len(name) > maxRenderedName {
		return name[:maxRenderedName-3] + "..."
	}
	return name
}
