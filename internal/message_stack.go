package internal

import (
	tt "github.com/gnolang/sift/internal/types"
)

// MessageStack collects the issues of one file, grouped by the rule that
// reported them. Rules keep the order in which they first reported and
// issues the order in which they were pushed.
type MessageStack struct {
	File   string
	order  []int
	issues map[int][]tt.Issue
}

func NewMessageStack(file string) *MessageStack {
	return &MessageStack{File: file, issues: make(map[int][]tt.Issue)}
}

// Push appends an issue under its rule.
func (m *MessageStack) Push(issue tt.Issue) {
	if _, ok := m.issues[issue.RuleID]; !ok {
		m.order = append(m.order, issue.RuleID)
	}
	m.issues[issue.RuleID] = append(m.issues[issue.RuleID], issue)
}

// RuleIDs returns the rules that reported at least one issue.
func (m *MessageStack) RuleIDs() []int { return m.order }

// Issues returns the issues reported by a rule.
func (m *MessageStack) Issues(ruleID int) []tt.Issue { return m.issues[ruleID] }

// Messages returns the messages reported by a rule.
func (m *MessageStack) Messages(ruleID int) []string {
	issues := m.issues[ruleID]
	msgs := make([]string, len(issues))
	for i, issue := range issues {
		msgs[i] = issue.Message
	}
	return msgs
}

// All flattens the stack, rule by rule.
func (m *MessageStack) All() []tt.Issue {
	var all []tt.Issue
	for _, id := range m.order {
		all = append(all, m.issues[id]...)
	}
	return all
}

// Len returns the number of issues on the stack.
func (m *MessageStack) Len() int {
	n := 0
	for _, issues := range m.issues {
		n += len(issues)
	}
	return n
}
