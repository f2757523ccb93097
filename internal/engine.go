package internal

import (
	"errors"
	"fmt"
	"go/token"
	"strings"

	"go.uber.org/zap"

	"github.com/gnolang/sift/internal/extract"
	"github.com/gnolang/sift/internal/lints"
	"github.com/gnolang/sift/internal/nolint"
	"github.com/gnolang/sift/internal/rule"
	"github.com/gnolang/sift/internal/scope"
	tt "github.com/gnolang/sift/internal/types"
)

// Engine manages the linting process.
type Engine struct {
	logger       *zap.Logger
	extractor    *extract.Extractor
	rules        []rule.Rule
	ignoredRules map[string]bool
}

// NewEngine creates a new lint engine evaluating rules in order. The
// engine holds no per-file state and can lint files concurrently.
func NewEngine(logger *zap.Logger, rules []rule.Rule) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	for _, r := range rules {
		if r.Kind == rule.Unknown {
			logger.Warn("unresolved rule", zap.Int("id", r.ID), zap.String("problem", r.Description()))
		}
	}
	logger.Info("rules loaded", zap.Int("count", len(rules)))
	return &Engine{
		logger:    logger,
		extractor: extract.New(logger),
		rules:     rules,
	}
}

// Rules returns the rules evaluated by the engine.
func (e *Engine) Rules() []rule.Rule { return e.rules }

// IgnoreRule disables every rule of the named kind.
func (e *Engine) IgnoreRule(name string) {
	if e.ignoredRules == nil {
		e.ignoredRules = make(map[string]bool)
	}
	e.ignoredRules[strings.ToLower(name)] = true
}

// Run applies all rules to the given file and returns its issues in
// report order.
func (e *Engine) Run(filename string) ([]tt.Issue, error) {
	file, err := tt.ReadSourceFile(filename)
	if err != nil {
		return nil, err
	}
	_, stack := e.Lint(file)
	return stack.All(), nil
}

// RunSource applies all rules to source as if it was read from filename.
func (e *Engine) RunSource(filename string, source []byte) ([]tt.Issue, error) {
	_, stack := e.Lint(tt.NewSourceFile(filename, source))
	return stack.All(), nil
}

// Extract returns the scope tree of file without evaluating rules.
func (e *Engine) Extract(file *tt.SourceFile) *scope.Tree {
	return e.extractor.Extract(file)
}

// Lint extracts the scope tree of file and evaluates every enabled rule on
// it. Issues suppressed by nolint directives are dropped.
func (e *Engine) Lint(file *tt.SourceFile) (*scope.Tree, *MessageStack) {
	tree := e.extractor.Extract(file)
	stack := NewMessageStack(file.Path)
	nolintMgr := nolint.ParseComments(tree)

	for _, r := range e.rules {
		if r.Severity == tt.SeverityOff || e.ignoredRules[strings.ToLower(r.Name())] {
			continue
		}
		for _, issue := range Evaluate(tree, r) {
			if nolintMgr.IsNolint(issue.Start, issue.Rule) {
				continue
			}
			stack.Push(issue)
		}
	}

	e.logger.Debug("file linted",
		zap.String("file", file.Path),
		zap.Int("scopes", tree.Len()),
		zap.Int("issues", stack.Len()),
	)
	return tree, stack
}

// Evaluate runs a single rule over every scope of tree it targets, in
// traversal order. A rule that cannot run reports why once, at the top of
// the file. Identical findings from nested scopes are reported once.
func Evaluate(tree *scope.Tree, r rule.Rule) []tt.Issue {
	filename := tree.File.Path
	check, err := checkFor(r)
	if err != nil {
		top := scope.Position{Line: 1}
		return []tt.Issue{newIssue(filename, r, lints.Finding{Start: top, End: top, Message: err.Error()})}
	}

	var issues []tt.Issue
	seen := make(map[lints.Finding]bool)
	for _, id := range tree.Collect(r.Target.Has) {
		for _, f := range check(tree, id) {
			if seen[f] {
				continue
			}
			seen[f] = true
			issues = append(issues, newIssue(filename, r, f))
		}
	}
	return issues
}

// checkFor maps every rule kind to its check.
func checkFor(r rule.Rule) (lints.Check, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	switch r.Kind {
	case rule.Unknown:
		return nil, errors.New(r.Description())
	case rule.NoAuto:
		return lints.DetectAuto, nil
	case rule.NoDefine:
		return lints.DetectDefine, nil
	case rule.NoMacroFunctions:
		return lints.DetectMacroFunction, nil
	case rule.StartWithX:
		return lints.DetectMissingPrefix(r.Parameter), nil
	case rule.EndWithX:
		return lints.DetectMissingSuffix(r.Parameter), nil
	case rule.MaxCharactersPerLine:
		limit, _ := r.Limit()
		return lints.DetectLongLines(limit), nil
	case rule.CurlyBracketsOpenSameLine:
		return lints.DetectOpeningBrace(true), nil
	case rule.CurlyBracketsOpenSeperateLine:
		return lints.DetectOpeningBrace(false), nil
	case rule.CurlyBracketsCloseSameLine:
		return lints.DetectClosingBrace(true), nil
	case rule.CurlyBracketsCloseSeperateLine:
		return lints.DetectClosingBrace(false), nil
	case rule.AlwaysHaveCurlyBrackets:
		return lints.DetectMissingBraces, nil
	case rule.NoConstCast:
		return lints.DetectConstCast, nil
	case rule.StartWithLowerCase:
		return lints.DetectLetterCase(false), nil
	case rule.StartWithUpperCase:
		return lints.DetectLetterCase(true), nil
	case rule.NameMaxCharacter:
		limit, _ := r.Limit()
		return lints.DetectLongName(limit), nil
	}
	return nil, fmt.Errorf("%w: %s", rule.ErrUnknownKind, r.Kind)
}

func newIssue(filename string, r rule.Rule, f lints.Finding) tt.Issue {
	return tt.Issue{
		Rule:     r.Name(),
		RuleID:   r.ID,
		Category: r.Target.String(),
		Filename: filename,
		Message:  f.Message,
		Note:     r.Description(),
		Severity: r.Severity,
		Start:    position(filename, f.Start),
		End:      position(filename, f.End),
	}
}

func position(filename string, p scope.Position) token.Position {
	return token.Position{Filename: filename, Line: p.Line, Column: p.Char + 1}
}
