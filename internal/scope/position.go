package scope

import "fmt"

// Position is a location in a source file. Line is 1-indexed, Char is the
// 0-indexed byte offset within that line.
type Position struct {
	Line int
	Char int
}

// Before reports whether p comes strictly before q.
func (p Position) Before(q Position) bool {
	if p.Line != q.Line {
		return p.Line < q.Line
	}
	return p.Char < q.Char
}

// IsValid reports whether p refers to a line.
func (p Position) IsValid() bool { return p.Line > 0 }

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Char)
}

// Range is an inclusive span between two positions.
type Range struct {
	Start Position
	End   Position
}

// Contains reports whether r fully covers o. Lines are compared first and
// characters break ties on the boundary lines.
func (r Range) Contains(o Range) bool {
	return !o.Start.Before(r.Start) && !r.End.Before(o.End)
}

// Lines returns the number of physical lines the range touches.
func (r Range) Lines() int {
	return r.End.Line - r.Start.Line + 1
}

func (r Range) String() string {
	return fmt.Sprintf("[%s-%s]", r.Start, r.End)
}
