package types

import (
	"fmt"
	"go/token"
	"os"
	"strings"
)

// SourceFile is a source file split into lines.
// Lines are stored without their line terminator.
type SourceFile struct {
	Path  string
	Lines []string
}

// NewSourceFile splits content into lines. A trailing newline does not
// produce an extra empty line and carriage returns are dropped.
func NewSourceFile(path string, content []byte) *SourceFile {
	text := strings.ReplaceAll(string(content), "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	var lines []string
	if text != "" {
		lines = strings.Split(text, "\n")
	}
	return &SourceFile{Path: path, Lines: lines}
}

// ReadSourceFile reads the content of a file and returns it as a `SourceFile` struct.
func ReadSourceFile(filename string) (*SourceFile, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", filename, err)
	}
	return NewSourceFile(filename, content), nil
}

// Issue represents a style violation found in a source file.
type Issue struct {
	Rule     string
	RuleID   int
	Category string
	Filename string
	Message  string
	// Note describes the rule that produced the issue.
	Note     string
	Severity Severity
	Start    token.Position
	End      token.Position
}

// String renders the issue as a single report line.
func (i Issue) String() string {
	return fmt.Sprintf("%s:%d:%d: %s", i.Filename, i.Start.Line, i.Start.Column, i.Message)
}
