// Package formatter renders lint issues as plain reports, annotated source
// snippets, JSON or summary tables.
package formatter

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	tt "github.com/gnolang/sift/internal/types"
)

type Format string

const (
	FormatText    Format = "text"
	FormatSnippet Format = "snippet"
	FormatJSON    Format = "json"
	FormatTable   Format = "table"
)

// Formats lists the supported output formats.
func Formats() []Format {
	return []Format{FormatText, FormatSnippet, FormatJSON, FormatTable}
}

func ParseFormat(name string) (Format, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return FormatText, nil
	}
	for _, f := range Formats() {
		if string(f) == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format %q", name)
}

// SourceLoader returns the lines of a reported file.
type SourceLoader func(filename string) (*tt.SourceFile, error)

// Write renders issues in format. Files are reported in name order, the
// issues of a file in the order they were found.
func Write(w io.Writer, format Format, issues []tt.Issue, load SourceLoader) error {
	switch format {
	case FormatText, "":
		return WriteReport(w, issues)
	case FormatSnippet:
		return WriteSnippets(w, issues, load)
	case FormatJSON:
		return WriteJSON(w, issues)
	case FormatTable:
		return WriteTable(w, issues)
	}
	return fmt.Errorf("unknown output format %q", format)
}

// GroupByFile splits issues per file and returns the file names sorted.
func GroupByFile(issues []tt.Issue) ([]string, map[string][]tt.Issue) {
	issuesByFile := make(map[string][]tt.Issue)
	for _, issue := range issues {
		issuesByFile[issue.Filename] = append(issuesByFile[issue.Filename], issue)
	}

	sortedFiles := make([]string, 0, len(issuesByFile))
	for filename := range issuesByFile {
		sortedFiles = append(sortedFiles, filename)
	}
	sort.Strings(sortedFiles)
	return sortedFiles, issuesByFile
}

// WriteSnippets prints every issue with the source line it points at. A
// file that cannot be read is reported without snippets.
func WriteSnippets(w io.Writer, issues []tt.Issue, load SourceLoader) error {
	files, issuesByFile := GroupByFile(issues)
	for _, filename := range files {
		file := &tt.SourceFile{Path: filename}
		if load != nil {
			if loaded, err := load(filename); err == nil {
				file = loaded
			}
		}
		if _, err := io.WriteString(w, GenerateFormattedIssue(issuesByFile[filename], file)); err != nil {
			return err
		}
	}
	return nil
}

// WriteJSON writes the issues as an object keyed by file name.
func WriteJSON(w io.Writer, issues []tt.Issue) error {
	_, issuesByFile := GroupByFile(issues)
	d, err := json.MarshalIndent(issuesByFile, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshalling issues to JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(d))
	return err
}
