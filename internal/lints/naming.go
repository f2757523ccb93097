package lints

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gnolang/sift/internal/scope"
)

// DetectMissingPrefix flags scopes whose name does not start with prefix.
func DetectMissingPrefix(prefix string) Check {
	return func(tree *scope.Tree, id scope.ID) []Finding {
		s := tree.Scope(id)
		name := Identifier(s)
		if name == "" || strings.HasPrefix(name, prefix) {
			return nil
		}
		return at(s, "%s should start with %q", Describe(s), prefix)
	}
}

// DetectMissingSuffix flags scopes whose name does not end with suffix.
func DetectMissingSuffix(suffix string) Check {
	return func(tree *scope.Tree, id scope.ID) []Finding {
		s := tree.Scope(id)
		name := Identifier(s)
		if name == "" || strings.HasSuffix(name, suffix) {
			return nil
		}
		return at(s, "%s should end with %q", Describe(s), suffix)
	}
}

// DetectLetterCase flags scopes whose name does not start with a letter of
// the requested case.
func DetectLetterCase(upper bool) Check {
	want := "a lower"
	if upper {
		want = "an upper"
	}
	return func(tree *scope.Tree, id scope.ID) []Finding {
		s := tree.Scope(id)
		name := Identifier(s)
		if name == "" {
			return nil
		}
		r, _ := utf8.DecodeRuneInString(name)
		if upper && unicode.IsUpper(r) || !upper && unicode.IsLower(r) {
			return nil
		}
		return at(s, "%s should start with %s case letter", Describe(s), want)
	}
}

// DetectLongName flags scopes whose name has more than limit characters.
func DetectLongName(limit int) Check {
	return func(tree *scope.Tree, id scope.ID) []Finding {
		s := tree.Scope(id)
		n := utf8.RuneCountInString(Identifier(s))
		if n <= limit {
			return nil
		}
		return at(s, "%s has %d characters, limit is %d", Describe(s), n, limit)
	}
}
