package lints

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gnolang/sift/internal/scope"
)

// Finding is a violation found in one scope, not yet bound to a rule.
type Finding struct {
	Start   scope.Position
	End     scope.Position
	Message string
}

// Check inspects a single scope of a tree.
type Check func(tree *scope.Tree, id scope.ID) []Finding

func at(s *scope.Scope, format string, args ...any) []Finding {
	return []Finding{{Start: s.Start, End: s.End, Message: fmt.Sprintf(format, args...)}}
}

var macroNameRe = regexp.MustCompile(`^\s*(?:/\*.*?\*/\s*)?#\s*define\s+(\w+)`)

// Identifier is the name naming rules look at: the unqualified name of
// declarations, the macro name of defines and the body of comments.
// Conditionals have none.
func Identifier(s *scope.Scope) string {
	switch {
	case s.Kind == scope.Conditional || s.Kind == scope.Source:
		return ""
	case s.Kind == scope.GlobalDefine:
		if m := macroNameRe.FindStringSubmatch(s.Name); m != nil {
			return m[1]
		}
		return ""
	case s.Kind.IsComment():
		return s.Name
	}
	name := s.Name
	if i := strings.LastIndex(name, "::"); i >= 0 {
		name = name[i+2:]
	}
	return strings.TrimPrefix(name, "~")
}

// Describe names a scope in a message.
func Describe(s *scope.Scope) string {
	switch {
	case s.Kind == scope.Conditional:
		return fmt.Sprintf("%q statement", s.Keyword)
	case s.Kind == scope.Source:
		return "file"
	case s.Kind.IsComment():
		return "comment"
	}
	if id := Identifier(s); id != "" {
		return fmt.Sprintf("%s '%s'", s.Kind, id)
	}
	return "anonymous " + s.Kind.String()
}
