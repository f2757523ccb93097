// Package internal provides the core of the sift style linter for C-family
// sources.
//
// Source files are never parsed with a real grammar. The extractor in the
// extract package recognizes constructs with lexical heuristics and nests
// them into a scope tree; rules from the rule package are then evaluated
// against the scopes they apply to.
//
// Key components:
//
// Engine: resolves a rule set once and lints files with it. It holds no
// per-file state, so one engine can lint many files concurrently.
//
// MessageStack: the messages of one file keyed by the rule that produced
// them, in the order they were found.
//
// Cache: stores the issues of each file between runs, keyed by the content
// of the file and the rule set.
//
// Watcher: re-lints files as they are written.
//
// Usage:
//
//	rules := rule.NewSet([]rule.Definition{
//	    {AppliedTo: "GlobalVariable", Type: "StartWithX", Parameter: "m_"},
//	})
//	engine := internal.NewEngine(logger, rules)
//
//	issues, err := engine.Run("path/to/file.cpp")
//	if err != nil {
//	    // handle error
//	}
//
//	for _, issue := range issues {
//	    fmt.Printf("Found issue: %s at %s\n", issue.Message, issue.Start)
//	}
//
// This package is intended for internal use within the linting tool and should not be
// imported by external packages.
package internal
