package nolint

import (
	"fmt"
	"go/token"
	"strings"

	"github.com/gnolang/sift/internal/scope"
)

const nolintPrefix = "nolint"

// Manager manages nolint scopes and checks if a position is nolinted.
type Manager struct {
	// scopes maps filename to a slice of nolint scopes.
	scopes map[string][]nolintScope
}

// nolintScope represents a range of lines where nolint applies.
type nolintScope struct {
	rules map[string]struct{}
	start int
	end   int
}

// ParseComments collects the nolint directives among the comment scopes
// of tree.
func ParseComments(tree *scope.Tree) *Manager {
	manager := &Manager{scopes: make(map[string][]nolintScope)}
	filename := tree.File.Path
	firstCode := firstCodeLine(tree)

	for _, id := range tree.Collect(scope.Kind.IsComment) {
		ns, err := parseComment(tree, id, firstCode)
		if err != nil {
			// ignore invalid nolint comments
			continue
		}
		manager.scopes[filename] = append(manager.scopes[filename], ns)
	}
	return manager
}

// parseComment parses a single nolint comment and determines the lines it
// covers.
func parseComment(tree *scope.Tree, id scope.ID, firstCode int) (nolintScope, error) {
	var ns nolintScope
	c := tree.Scope(id)
	if c.MultiLine {
		return ns, fmt.Errorf("nolint must be a single line comment")
	}

	text := strings.TrimPrefix(c.Name, "//")
	text = strings.TrimPrefix(text, "/*")
	text = strings.TrimSuffix(text, "*/")
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, nolintPrefix) {
		return ns, fmt.Errorf("invalid nolint comment")
	}

	rest := text[len(nolintPrefix):]
	// A nolint comment can either have a list of rules after a colon (:)
	// or if no rules are specified, it applies to all rules
	if len(rest) > 0 && rest[0] != ':' {
		if rest[0] != ' ' && rest[0] != '\t' {
			return ns, fmt.Errorf("invalid nolint comment format")
		}
		rest = ""
	}
	if strings.HasPrefix(rest, ":") {
		rest = strings.TrimSpace(rest[1:])
		if rest == "" {
			return ns, fmt.Errorf("invalid nolint comment: no rules specified after colon")
		}
		if i := strings.IndexAny(rest, " \t"); i >= 0 {
			rest = rest[:i]
		}
	}
	ns.rules = parseIgnoreRuleNames(rest)
	line := c.Start.Line

	// a directive above all code covers the whole file
	if firstCode == 0 || line < firstCode {
		ns.start, ns.end = 1, max(len(tree.File.Lines), 1)
		return ns, nil
	}

	// inline: covers the construct starting on this line, or the line itself
	if p, ok := tree.CodeBefore(c.Start); ok && p.Line == line {
		ns.start, ns.end = line, line
		if s := scopeStartingOn(tree, line); s != nil {
			ns.end = max(line, s.End.Line)
		}
		return ns, nil
	}

	// standalone: covers the comment line and the next construct
	next, ok := tree.CodeAfter(c.End)
	if !ok {
		ns.start, ns.end = line, line
		return ns, nil
	}
	ns.start, ns.end = line, next.Line
	if s := scopeStartingOn(tree, next.Line); s != nil {
		ns.end = max(next.Line, s.End.Line)
	}
	return ns, nil
}

// parseIgnoreRuleNames parses the rule list from the nolint comment.
// Names are compared case-insensitively.
func parseIgnoreRuleNames(text string) map[string]struct{} {
	rulesMap := make(map[string]struct{})
	if text == "" {
		return rulesMap
	}
	for _, rule := range strings.Split(text, ",") {
		rule = strings.TrimSpace(rule)
		if rule != "" {
			rulesMap[strings.ToLower(rule)] = struct{}{}
		}
	}
	return rulesMap
}

// firstCodeLine returns the first line holding code, or 0 when the file
// has none.
func firstCodeLine(tree *scope.Tree) int {
	for i, line := range tree.Code {
		if strings.TrimSpace(line) != "" {
			return i + 1
		}
	}
	return 0
}

// scopeStartingOn returns the outermost non-comment scope starting on line.
func scopeStartingOn(tree *scope.Tree, line int) *scope.Scope {
	var found *scope.Scope
	tree.Walk(func(id scope.ID, s *scope.Scope) bool {
		if found != nil || id == tree.Root() {
			return found == nil
		}
		if s.Start.Line > line || s.End.Line < line {
			return false
		}
		if s.Start.Line == line && !s.Kind.IsComment() {
			found = s
			return false
		}
		return true
	})
	return found
}

// IsNolint checks if a given position and rule are nolinted.
func (m *Manager) IsNolint(pos token.Position, ruleName string) bool {
	scopes, exists := m.scopes[pos.Filename]
	if !exists {
		return false
	}
	for _, ns := range scopes {
		if pos.Line < ns.start || pos.Line > ns.end {
			continue
		}
		// If the rules list is empty, nolint applies to all rules
		if len(ns.rules) == 0 {
			return true
		}
		if _, exists := ns.rules[strings.ToLower(ruleName)]; exists {
			return true
		}
	}
	return false
}
