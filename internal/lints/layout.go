package lints

import (
	"fmt"
	"unicode/utf8"

	"github.com/gnolang/sift/internal/scope"
)

// DetectLongLines flags every line of the scope longer than limit
// characters.
func DetectLongLines(limit int) Check {
	return func(tree *scope.Tree, id scope.ID) []Finding {
		s := tree.Scope(id)
		var findings []Finding
		lines := tree.File.Lines
		for line := s.Start.Line; line <= s.End.Line && line <= len(lines); line++ {
			n := utf8.RuneCountInString(lines[line-1])
			if n <= limit {
				continue
			}
			findings = append(findings, Finding{
				Start:   scope.Position{Line: line, Char: 0},
				End:     scope.Position{Line: line, Char: len(lines[line-1]) - 1},
				Message: fmt.Sprintf("line %d has %d characters, limit is %d", line, n, limit),
			})
		}
		return findings
	}
}

// DetectOpeningBrace checks where the body of a scope opens. With sameLine
// the '{' must follow its header on the same line, otherwise it must start
// a line of its own.
func DetectOpeningBrace(sameLine bool) Check {
	return func(tree *scope.Tree, id scope.ID) []Finding {
		s := tree.Scope(id)
		if !s.Braced {
			return nil
		}
		prev, ok := tree.CodeBefore(s.Brace)
		if !ok || (prev.Line == s.Brace.Line) == sameLine {
			return nil
		}
		where := "on a separate line"
		if !sameLine {
			where = "on the line of its header"
		}
		return []Finding{{
			Start:   s.Brace,
			End:     s.Brace,
			Message: fmt.Sprintf("%s opens its curly bracket %s", Describe(s), where),
		}}
	}
}

// DetectClosingBrace checks where the body of a scope closes. With sameLine
// the '}' must follow the last statement on its line, otherwise it must
// start a line of its own. Empty bodies are never flagged.
func DetectClosingBrace(sameLine bool) Check {
	return func(tree *scope.Tree, id scope.ID) []Finding {
		s := tree.Scope(id)
		if !s.Braced || s.Unterminated || !isCloseBrace(tree, s.End) {
			return nil
		}
		prev, ok := tree.CodeBefore(s.End)
		if !ok || prev == s.Brace || (prev.Line == s.End.Line) == sameLine {
			return nil
		}
		where := "on a separate line"
		if !sameLine {
			where = "on the line of its last statement"
		}
		return []Finding{{
			Start:   s.End,
			End:     s.End,
			Message: fmt.Sprintf("%s closes its curly bracket %s", Describe(s), where),
		}}
	}
}

func isCloseBrace(tree *scope.Tree, p scope.Position) bool {
	if p.Line < 1 || p.Line > len(tree.Code) {
		return false
	}
	line := tree.Code[p.Line-1]
	return p.Char < len(line) && line[p.Char] == '}'
}

// DetectMissingBraces flags conditionals whose body is a single statement.
func DetectMissingBraces(tree *scope.Tree, id scope.ID) []Finding {
	s := tree.Scope(id)
	if s.Kind != scope.Conditional || s.Braced {
		return nil
	}
	return at(s, "%s has no curly brackets", Describe(s))
}
