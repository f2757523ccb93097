package lints

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnolang/sift/internal/scope"
	tt "github.com/gnolang/sift/internal/types"
)

func newTree(src string) *scope.Tree {
	return scope.NewTree(tt.NewSourceFile("test.cpp", []byte(src)))
}

func span(startLine, startChar, endLine, endChar int) scope.Range {
	return scope.Range{
		Start: scope.Position{Line: startLine, Char: startChar},
		End:   scope.Position{Line: endLine, Char: endChar},
	}
}

func messages(findings []Finding) []string {
	var msgs []string
	for _, f := range findings {
		msgs = append(msgs, f.Message)
	}
	return msgs
}

func TestIdentifier(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		scope scope.Scope
		want  string
	}{
		{"variable", scope.Scope{Kind: scope.GlobalVariable, Name: "count"}, "count"},
		{"qualified", scope.Scope{Kind: scope.ClassFunction, Name: "app::Widget::draw"}, "draw"},
		{"destructor", scope.Scope{Kind: scope.ClassFunction, Name: "Widget::~Widget"}, "Widget"},
		{"macro", scope.Scope{Kind: scope.GlobalDefine, Name: "#define MAX(a, b) ((a) > (b))"}, "MAX"},
		{"spaced macro", scope.Scope{Kind: scope.GlobalDefine, Name: "#  define LIMIT 10"}, "LIMIT"},
		{"comment", scope.Scope{Kind: scope.SingleLineComment, Name: "// note"}, "// note"},
		{"conditional", scope.Scope{Kind: scope.Conditional, Keyword: "if"}, ""},
		{"source", scope.Scope{Kind: scope.Source, Name: "test.cpp"}, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, Identifier(&tc.scope))
		})
	}
}

func TestDescribe(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `"while" statement`, Describe(&scope.Scope{Kind: scope.Conditional, Keyword: "while"}))
	assert.Equal(t, "file", Describe(&scope.Scope{Kind: scope.Source}))
	assert.Equal(t, "comment", Describe(&scope.Scope{Kind: scope.MultiLineComment, Name: "/* x */"}))
	assert.Equal(t, "Class 'Widget'", Describe(&scope.Scope{Kind: scope.Class, Name: "Widget"}))
	assert.Equal(t, "anonymous Namespace", Describe(&scope.Scope{Kind: scope.Namespace}))
}

func TestDetectMissingPrefix(t *testing.T) {
	t.Parallel()

	tree := newTree("int count = 0;\nint m_total = 1;\n")
	count := tree.Add(tree.Root(), scope.Scope{Range: span(1, 0, 1, 13), Kind: scope.GlobalVariable, Name: "count", Type: "int"})
	total := tree.Add(tree.Root(), scope.Scope{Range: span(2, 0, 2, 15), Kind: scope.GlobalVariable, Name: "m_total", Type: "int"})

	check := DetectMissingPrefix("m_")
	findings := check(tree, count)
	require.Len(t, findings, 1)
	assert.Equal(t, `GlobalVariable 'count' should start with "m_"`, findings[0].Message)
	assert.Equal(t, scope.Position{Line: 1, Char: 0}, findings[0].Start)
	assert.Equal(t, scope.Position{Line: 1, Char: 13}, findings[0].End)

	assert.Empty(t, check(tree, total))
}

func TestDetectMissingSuffix(t *testing.T) {
	t.Parallel()

	tree := newTree("class A {\n    int width;\n    int height_;\n};\n")
	width := tree.Add(tree.Root(), scope.Scope{Range: span(2, 4, 2, 13), Kind: scope.ClassVariable, Name: "width"})
	height := tree.Add(tree.Root(), scope.Scope{Range: span(3, 4, 3, 15), Kind: scope.ClassVariable, Name: "height_"})

	check := DetectMissingSuffix("_")
	assert.Equal(t, []string{`ClassVariable 'width' should end with "_"`}, messages(check(tree, width)))
	assert.Empty(t, check(tree, height))
}

func TestDetectLetterCase(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		ident string
		upper bool
		want  []string
	}{
		{"upper ok", "Widget", true, nil},
		{"upper violated", "widget", true, []string{"Class 'widget' should start with an upper case letter"}},
		{"lower ok", "widget", false, nil},
		{"lower violated", "Widget", false, []string{"Class 'Widget' should start with a lower case letter"}},
		{"underscore is neither", "_impl", false, []string{"Class '_impl' should start with a lower case letter"}},
		{"qualified", "ns::Widget", true, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			tree := newTree("class X {};\n")
			id := tree.Add(tree.Root(), scope.Scope{Range: span(1, 0, 1, 9), Kind: scope.Class, Name: tc.ident})
			assert.Equal(t, tc.want, messages(DetectLetterCase(tc.upper)(tree, id)))
		})
	}
}

func TestDetectLongName(t *testing.T) {
	t.Parallel()

	tree := newTree("void abcdef();\nvoid größe();\n")
	long := tree.Add(tree.Root(), scope.Scope{Range: span(1, 0, 1, 13), Kind: scope.FreeFunction, Name: "abcdef"})
	wide := tree.Add(tree.Root(), scope.Scope{Range: span(2, 0, 2, 14), Kind: scope.FreeFunction, Name: "größe"})
	cond := tree.Add(tree.Root(), scope.Scope{Range: span(1, 0, 1, 13), Kind: scope.Conditional, Keyword: "if"})

	check := DetectLongName(5)
	assert.Equal(t, []string{"FreeFunction 'abcdef' has 6 characters, limit is 5"}, messages(check(tree, long)))
	// counted in characters, not bytes
	assert.Empty(t, check(tree, wide))
	assert.Empty(t, check(tree, cond))
}
