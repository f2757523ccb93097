package formatter

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"unicode"

	"github.com/fatih/color"

	"github.com/gnolang/sift/internal/rule"
	tt "github.com/gnolang/sift/internal/types"
)

const tabWidth = 8

var (
	errorStyle   = color.New(color.FgRed, color.Bold)
	warningStyle = color.New(color.FgHiYellow, color.Bold)
	infoStyle    = color.New(color.FgHiCyan, color.Bold)
	ruleStyle    = color.New(color.FgYellow, color.Bold)
	fileStyle    = color.New(color.FgCyan, color.Bold)
	lineStyle    = color.New(color.FgHiBlue, color.Bold)
	messageStyle = color.New(color.FgRed, color.Bold)
	noteStyle    = color.New(color.FgGreen, color.Bold)
)

// issueFormatter is the interface that wraps the issueTemplate method.
// Implementations of this interface are responsible for formatting specific types of lint issues.
type issueFormatter interface {
	IssueTemplate() string
}

// getIssueFormatter returns the formatter for an issue. Rules that could
// not be evaluated are shown without a snippet.
func getIssueFormatter(issue tt.Issue) issueFormatter {
	if isUnresolved(issue) {
		return &UnresolvedRuleFormatter{}
	}
	return &GeneralIssueFormatter{}
}

func isUnresolved(issue tt.Issue) bool {
	return issue.Rule == rule.Unknown.String() ||
		strings.HasPrefix(issue.Message, rule.ErrInvalidParameter.Error())
}

// GenerateFormattedIssue formats a slice of issues into a human-readable string.
// It uses the appropriate formatter for each issue based on its rule.
func GenerateFormattedIssue(issues []tt.Issue, file *tt.SourceFile) string {
	var builder strings.Builder
	for _, issue := range issues {
		formatter := getIssueFormatter(issue)
		builder.WriteString(buildIssue(issue, file, formatter))
	}
	return builder.String()
}

/***** Issue Formatter Builder *****/

type IssueData struct {
	Severity        string
	Rule            string
	Filename        string
	Padding         string
	StartLine       int
	StartColumn     int
	EndColumn       int
	MaxLineNumWidth int
	Message         string
	Note            string
	SnippetLines    []string
	CommonIndent    string
}

// buildIssue renders one issue. Only the first line of an issue spanning
// several lines is shown, underlined up to its end.
func buildIssue(issue tt.Issue, file *tt.SourceFile, formatter issueFormatter) string {
	startLine := issue.Start.Line
	endColumn := issue.End.Column
	if issue.End.Line != startLine && startLine > 0 && startLine <= len(file.Lines) {
		endColumn = len(file.Lines[startLine-1])
	}

	maxLineNumWidth := calculateMaxLineNumWidth(startLine)
	padding := strings.Repeat(" ", maxLineNumWidth+1)

	var commonIndent string
	if startLine > 0 && startLine <= len(file.Lines) {
		commonIndent = findCommonIndent(file.Lines[startLine-1 : startLine])
	}

	data := IssueData{
		Severity:        issue.Severity.String(),
		Rule:            issue.Rule,
		Filename:        issue.Filename,
		StartLine:       startLine,
		StartColumn:     issue.Start.Column,
		EndColumn:       endColumn,
		Message:         issue.Message,
		MaxLineNumWidth: maxLineNumWidth,
		Padding:         padding,
		CommonIndent:    commonIndent,
		SnippetLines:    file.Lines,
	}
	if issue.Note != issue.Message {
		data.Note = issue.Note
	}

	funcMap := template.FuncMap{
		"header":              header,
		"note":                note,
		"snippet":             codeSnippet,
		"underlineAndMessage": underlineAndMessage,
		"message":             message,
	}

	issueTemplate := formatter.IssueTemplate()
	tmpl := template.Must(template.New("issue").Funcs(funcMap).Parse(issueTemplate))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Sprintf("Error formatting issue: %v", err)
	}
	return buf.String()
}

// utils functions used in the text templates

func severityStyle(severity string) *color.Color {
	switch severity {
	case "WARNING":
		return warningStyle
	case "INFO":
		return infoStyle
	default:
		return errorStyle
	}
}

func header(rule string, severity string, maxLineNumWidth int, filename string, startLine int, startColumn int) string {
	endString := severityStyle(severity).Sprintf("%s: ", strings.ToLower(severity))
	endString += ruleStyle.Sprintf("%s\n", rule)

	padding := strings.Repeat(" ", maxLineNumWidth)
	endString += lineStyle.Sprintf("%s--> ", padding)
	endString += fileStyle.Sprintf("%s:%d:%d", filename, startLine, startColumn)

	return endString
}

func codeSnippet(snippetLines []string, line int, maxLineNumWidth int, commonIndent string, padding string) string {
	endString := lineStyle.Sprintf("%s|\n", padding)
	if line < 1 || line > len(snippetLines) {
		return endString
	}

	text := expandTabs(strings.TrimPrefix(snippetLines[line-1], commonIndent))
	lineNum := fmt.Sprintf("%*d", maxLineNumWidth, line)
	endString += lineStyle.Sprintf("%s | ", lineNum) + text + "\n"

	return endString
}

func underlineAndMessage(msg string, padding string, line int, startColumn int, endColumn int, snippetLines []string, commonIndent string) string {
	endString := lineStyle.Sprintf("%s| ", padding)

	if line < 1 || line > len(snippetLines) {
		endString += messageStyle.Sprintf("%s\n", msg)
		return endString
	}

	text := strings.TrimPrefix(snippetLines[line-1], commonIndent)
	shift := len(snippetLines[line-1]) - len(text)

	underlineStart := calculateVisualColumn(text, startColumn-shift)
	underlineEnd := calculateVisualColumn(text, endColumn-shift)
	underlineLength := max(underlineEnd-underlineStart+1, 1)

	endString += strings.Repeat(" ", underlineStart)
	endString += messageStyle.Sprintf("%s\n", strings.Repeat("~", underlineLength))

	endString += lineStyle.Sprintf("%s= ", padding)
	endString += messageStyle.Sprintf("%s\n", msg)

	return endString
}

func message(msg string, padding string) string {
	return lineStyle.Sprintf("%s= ", padding) + messageStyle.Sprintf("%s\n", msg)
}

func note(note string, padding string) string {
	return lineStyle.Sprintf("%s= ", padding) + noteStyle.Sprint("note: ") + note + "\n"
}

func calculateMaxLineNumWidth(line int) int {
	return len(fmt.Sprintf("%d", line))
}

// calculateVisualColumn returns the visual width of the text in front of
// the 1-indexed byte column, taking tab stops into account.
func calculateVisualColumn(line string, column int) int {
	if column < 1 {
		return 0
	}
	visualColumn := 0
	for i, ch := range line {
		if i+1 >= column {
			break
		}
		if ch == '\t' {
			visualColumn += tabWidth - (visualColumn % tabWidth)
		} else {
			visualColumn++
		}
	}
	return visualColumn
}

func expandTabs(line string) string {
	var expanded strings.Builder
	visualColumn := 0
	for _, ch := range line {
		if ch == '\t' {
			spaceCount := tabWidth - (visualColumn % tabWidth)
			expanded.WriteString(strings.Repeat(" ", spaceCount))
			visualColumn += spaceCount
			continue
		}
		expanded.WriteRune(ch)
		visualColumn++
	}
	return expanded.String()
}

// findCommonIndent finds the common indent in the code snippet.
func findCommonIndent(lines []string) string {
	if len(lines) == 0 {
		return ""
	}

	// find first non-empty line's indent
	firstIndent := make([]rune, 0)
	for _, line := range lines {
		trimmed := strings.TrimLeftFunc(line, unicode.IsSpace)
		if trimmed != "" {
			firstIndent = []rune(line[:len(line)-len(trimmed)])
			break
		}
	}

	if len(firstIndent) == 0 {
		return ""
	}

	// search common indent for all non-empty lines
	for _, line := range lines {
		trimmed := strings.TrimLeftFunc(line, unicode.IsSpace)
		if trimmed == "" {
			continue
		}

		currentIndent := []rune(line[:len(line)-len(trimmed)])
		firstIndent = commonPrefix(firstIndent, currentIndent)

		if len(firstIndent) == 0 {
			break
		}
	}

	return string(firstIndent)
}

// commonPrefix finds the common prefix of two strings.
func commonPrefix(a, b []rune) []rune {
	minLen := min(len(a), len(b))
	for i := 0; i < minLen; i++ {
		if a[i] != b[i] {
			return a[:i]
		}
	}
	return a[:minLen]
}
