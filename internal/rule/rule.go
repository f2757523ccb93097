// Package rule holds the configurable checks run against scope trees.
// Rules are plain data; the engine decides how each kind is evaluated.
package rule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tt "github.com/gnolang/sift/internal/types"
)

var (
	ErrUnknownKind      = errors.New("unknown rule type")
	ErrUnknownTarget    = errors.New("unknown scope type")
	ErrInvalidParameter = errors.New("invalid rule parameter")
)

// Definition is a rule as written in a configuration or rules file.
type Definition struct {
	AppliedTo string      `yaml:"appliedTo" json:"appliedTo"`
	Type      string      `yaml:"type" json:"type"`
	Parameter string      `yaml:"parameter,omitempty" json:"parameter,omitempty"`
	Severity  tt.Severity `yaml:"severity,omitempty" json:"severity,omitempty"`
}

// Rule binds a kind of check to the scopes it applies to.
type Rule struct {
	// ID identifies the rule within a rule set; messages are keyed by it.
	ID        int
	Target    Target
	Kind      Kind
	Parameter string
	Severity  tt.Severity
	// Problem explains why an Unknown rule could not be resolved.
	Problem string
}

// New resolves a definition. It never fails: definitions naming an unknown
// type or scope become Unknown rules that report the problem on every file.
func New(id int, def Definition) Rule {
	r := Rule{
		ID:        id,
		Parameter: strings.TrimSpace(def.Parameter),
		Severity:  def.Severity,
	}

	target, err := ParseTarget(def.AppliedTo)
	if err != nil {
		r.Problem = err.Error()
		return r
	}
	r.Target = target

	kind, ok := ParseKind(def.Type)
	if !ok {
		r.Problem = fmt.Errorf("%w: %q", ErrUnknownKind, def.Type).Error()
		return r
	}
	r.Kind = kind
	return r
}

// NewSet resolves definitions in order, numbering them from zero.
func NewSet(defs []Definition) []Rule {
	rules := make([]Rule, 0, len(defs))
	for i, def := range defs {
		rules = append(rules, New(i, def))
	}
	return rules
}

// Name is the rule kind name used in reports and nolint directives.
func (r Rule) Name() string { return r.Kind.String() }

// Description expands the description template of the rule kind.
func (r Rule) Description() string {
	if r.Kind == Unknown && r.Problem != "" {
		return r.Problem
	}
	param := r.Parameter
	if r.Kind.Parameter() == TextParameter {
		param = strconv.Quote(param)
	}
	desc := r.Kind.Description()
	desc = strings.Replace(desc, "%rs", r.Target.String(), 1)
	return strings.Replace(desc, "%rp", param, 1)
}

// Validate checks the parameter against what the kind expects.
func (r Rule) Validate() error {
	switch r.Kind.Parameter() {
	case TextParameter:
		if r.Parameter == "" {
			return fmt.Errorf("%w: %s requires a parameter", ErrInvalidParameter, r.Kind)
		}
	case IntParameter:
		if _, err := r.Limit(); err != nil {
			return err
		}
	}
	return nil
}

// Limit parses the parameter as a non-negative integer.
func (r Rule) Limit() (int, error) {
	n, err := strconv.Atoi(r.Parameter)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s expects a non-negative integer, got %q", ErrInvalidParameter, r.Kind, r.Parameter)
	}
	return n, nil
}

func (r Rule) String() string {
	if r.Parameter == "" {
		return fmt.Sprintf("%s(%s)", r.Kind, r.Target)
	}
	return fmt.Sprintf("%s(%s, %q)", r.Kind, r.Target, r.Parameter)
}
