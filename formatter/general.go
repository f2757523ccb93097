package formatter

// GeneralIssueFormatter renders an issue as a header, the offending source
// line with its span underlined and the message.
type GeneralIssueFormatter struct{}

func (f *GeneralIssueFormatter) IssueTemplate() string {
	return `{{header .Rule .Severity .MaxLineNumWidth .Filename .StartLine .StartColumn}}
{{snippet .SnippetLines .StartLine .MaxLineNumWidth .CommonIndent .Padding -}}
{{underlineAndMessage .Message .Padding .StartLine .StartColumn .EndColumn .SnippetLines .CommonIndent -}}
{{if .Note}}{{note .Note .Padding}}{{end}}
`
}

// UnresolvedRuleFormatter renders the single issue of a rule that could not
// be evaluated. There is no source to point at.
type UnresolvedRuleFormatter struct{}

func (f *UnresolvedRuleFormatter) IssueTemplate() string {
	return `{{header .Rule .Severity .MaxLineNumWidth .Filename .StartLine .StartColumn}}
{{message .Message .Padding}}
`
}
