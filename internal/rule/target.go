package rule

import (
	"fmt"
	"strings"

	"github.com/gnolang/sift/internal/scope"
)

// Target is the set of scope kinds a rule applies to.
type Target struct {
	mask uint16
	name string
}

// groups are target names that stand for several scope kinds.
var groups = map[string][]scope.Kind{
	"variable": {scope.GlobalVariable, scope.ClassVariable, scope.FunctionVariable},
	"function": {scope.ClassFunction, scope.FreeFunction},
	"comment":  {scope.SingleLineComment, scope.MultiLineComment},
	"any":      scope.Kinds(),
}

// TargetOf builds a target matching exactly the given kinds.
func TargetOf(kinds ...scope.Kind) Target {
	var t Target
	names := make([]string, 0, len(kinds))
	for _, k := range kinds {
		t.mask |= 1 << k
		names = append(names, k.String())
	}
	t.name = strings.Join(names, "|")
	return t
}

// ParseTarget resolves a scope kind or group name, ignoring case. Several
// names may be joined with '|'.
func ParseTarget(name string) (Target, error) {
	var t Target
	var names []string
	for _, part := range strings.Split(name, "|") {
		part = strings.TrimSpace(part)
		if k, ok := scope.ParseKind(part); ok {
			t.mask |= 1 << k
			names = append(names, k.String())
			continue
		}
		kinds, ok := groups[strings.ToLower(part)]
		if !ok {
			return Target{}, fmt.Errorf("%w: %q", ErrUnknownTarget, part)
		}
		for _, k := range kinds {
			t.mask |= 1 << k
		}
		names = append(names, strings.ToUpper(part[:1])+strings.ToLower(part[1:]))
	}
	t.name = strings.Join(names, "|")
	return t, nil
}

// Has reports whether scopes of kind k are visited by the rule.
func (t Target) Has(k scope.Kind) bool {
	return t.mask&(1<<k) != 0
}

// Empty reports whether the target matches no kind at all.
func (t Target) Empty() bool { return t.mask == 0 }

func (t Target) String() string { return t.name }
