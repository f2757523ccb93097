package formatter

import (
	"fmt"
	"io"

	tt "github.com/gnolang/sift/internal/types"
)

// WriteReport prints the issues file by file and, within a file, rule by
// rule:
//
//	+ src/main.cpp ----------
//	  StartWithX -- GlobalVariable names should start with "m_"
//	    2:1: GlobalVariable 'count' should start with "m_"
//
// Files without issues are not listed.
func WriteReport(w io.Writer, issues []tt.Issue) error {
	files, issuesByFile := GroupByFile(issues)
	for _, filename := range files {
		if _, err := fmt.Fprintln(w, fileStyle.Sprintf("+ %s ----------", filename)); err != nil {
			return err
		}
		for _, group := range groupByRule(issuesByFile[filename]) {
			first := group[0]
			if _, err := fmt.Fprintf(w, "  %s -- %s\n", ruleStyle.Sprint(first.Rule), first.Note); err != nil {
				return err
			}
			for _, issue := range group {
				style := severityStyle(issue.Severity.String())
				if _, err := fmt.Fprintf(w, "    %s %s\n",
					lineStyle.Sprintf("%d:%d:", issue.Start.Line, issue.Start.Column),
					style.Sprint(issue.Message)); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// groupByRule splits the issues of a file per rule, keeping the order in
// which rules first reported.
func groupByRule(issues []tt.Issue) [][]tt.Issue {
	index := make(map[int]int)
	var groups [][]tt.Issue
	for _, issue := range issues {
		i, ok := index[issue.RuleID]
		if !ok {
			i = len(groups)
			index[issue.RuleID] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], issue)
	}
	return groups
}
