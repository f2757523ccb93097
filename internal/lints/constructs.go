package lints

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gnolang/sift/internal/scope"
)

// DetectAuto flags variables declared with the auto placeholder type.
func DetectAuto(tree *scope.Tree, id scope.ID) []Finding {
	s := tree.Scope(id)
	if !s.Kind.IsVariable() {
		return nil
	}
	for _, field := range strings.Fields(s.Type) {
		if strings.TrimRight(field, "*&") == "auto" {
			return at(s, "%s is declared auto", Describe(s))
		}
	}
	return nil
}

// DetectDefine flags every macro definition.
func DetectDefine(tree *scope.Tree, id scope.ID) []Finding {
	s := tree.Scope(id)
	if s.Kind != scope.GlobalDefine {
		return nil
	}
	return at(s, "macro %s is defined", Identifier(s))
}

var macroFunctionRe = regexp.MustCompile(`#\s*define\s+\w+\(`)

// DetectMacroFunction flags macros taking a parameter list.
func DetectMacroFunction(tree *scope.Tree, id scope.ID) []Finding {
	s := tree.Scope(id)
	if s.Kind != scope.GlobalDefine || !macroFunctionRe.MatchString(s.Name) {
		return nil
	}
	return at(s, "macro %s is function-like", Identifier(s))
}

var constCastRe = regexp.MustCompile(`\bconst_cast\b`)

// DetectConstCast flags every line of the scope using const_cast. String
// literals and comments are not looked at.
func DetectConstCast(tree *scope.Tree, id scope.ID) []Finding {
	s := tree.Scope(id)
	var findings []Finding
	for line := s.Start.Line; line <= s.End.Line && line <= len(tree.Code); line++ {
		loc := constCastRe.FindStringIndex(tree.Code[line-1])
		if loc == nil {
			continue
		}
		findings = append(findings, Finding{
			Start:   scope.Position{Line: line, Char: loc[0]},
			End:     scope.Position{Line: line, Char: loc[1] - 1},
			Message: fmt.Sprintf("const_cast used on line %d", line),
		})
	}
	return findings
}
