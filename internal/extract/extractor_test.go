package extract

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gnolang/sift/internal/scope"
	tt "github.com/gnolang/sift/internal/types"
)

const widgetSource = `#include <vector>
#define MAX(a, b) ((a) > (b) ? (a) : (b))

namespace app {
namespace detail {

/* helper
   block */
static int counter = 0;

class Widget : public Base {
public:
    Widget();
    void draw() const {
        for (int i = 0; i < 3; i++) {
            if (visible) {
                render(i);
            } else {
                skip();
            }
        }
    }
private:
    int width_;
    // height in pixels
    int height_;
#define INNER 1
};

enum class Mode : int { Fast, Slow };

}  // namespace detail
}  // namespace app

Widget::Widget() {
    do {
        counter++;
    } while (counter < 10);
    while (counter > 0) counter--;
    auto x = MAX(1, 2);
}
`

func extractSource(t *testing.T, src string) *scope.Tree {
	t.Helper()
	return New(zap.NewNop()).Extract(tt.NewSourceFile("test.cpp", []byte(src)))
}

// find returns the first scope of the given kind and name in traversal order.
func find(t *testing.T, tree *scope.Tree, kind scope.Kind, name string) scope.ID {
	t.Helper()
	found := scope.None
	tree.Walk(func(id scope.ID, s *scope.Scope) bool {
		if found == scope.None && s.Kind == kind && s.Name == name {
			found = id
		}
		return found == scope.None
	})
	require.NotEqual(t, scope.None, found, "no %s named %q in\n%s", kind, name, tree)
	return found
}

func conditionals(tree *scope.Tree) []*scope.Scope {
	var out []*scope.Scope
	for _, id := range tree.Collect(func(k scope.Kind) bool { return k == scope.Conditional }) {
		out = append(out, tree.Scope(id))
	}
	return out
}

func assertWellFormed(t *testing.T, tree *scope.Tree) {
	t.Helper()
	tree.Walk(func(id scope.ID, s *scope.Scope) bool {
		if id == tree.Root() {
			return true
		}
		parent := tree.Parent(id)
		assert.True(t, tree.Contains(parent, id), "%s is not inside %s", s.Label(), tree.Scope(parent).Label())
		if s.Kind == scope.GlobalDefine {
			assert.Equal(t, tree.Root(), parent, "%s is not at the root", s.Label())
		}
		assert.False(t, reservedNames[s.Name], "reserved name %q in tree", s.Name)
		return true
	})
}

func TestExtract_Properties(t *testing.T) {
	t.Parallel()
	sources := map[string]string{
		"widget": widgetSource,
		"keywords": `void f() {
    if (a) {
        delete(ptr);
    } else if (b) {
        new (buf) Foo();
    }
    typedef int Index;
    while (x) do_step();
}`,
		"unterminated": "class A {\n  int x;\n  void f() {\n",
		"comments": "int a; /* one */ int b; // two\n/* open\n{ } */\n",
		"empty":    "",
	}
	for name, src := range sources {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			first := extractSource(t, src)
			assertWellFormed(t, first)

			second := extractSource(t, src)
			assert.Equal(t, first.String(), second.String())
		})
	}
}

func TestExtract_NamespaceVariable(t *testing.T) {
	t.Parallel()
	tree := extractSource(t, "namespace Foo {\nint x = 5;\n}")

	root := tree.Children(tree.Root())
	require.Len(t, root, 1)
	ns := tree.Scope(root[0])
	assert.Equal(t, scope.Namespace, ns.Kind)
	assert.Equal(t, "Foo", ns.Name)
	assert.Equal(t, 1, ns.Start.Line)
	assert.Equal(t, 3, ns.End.Line)

	children := tree.Children(root[0])
	require.Len(t, children, 1)
	x := tree.Scope(children[0])
	assert.Equal(t, scope.GlobalVariable, x.Kind)
	assert.Equal(t, "x", x.Name)
	assert.Equal(t, "int", x.Type)
}

func TestExtract_ClassMethod(t *testing.T) {
	t.Parallel()
	tree := extractSource(t, "class Bar { void method() { } };")

	root := tree.Children(tree.Root())
	require.Len(t, root, 1)
	bar := tree.Scope(root[0])
	assert.Equal(t, scope.Class, bar.Kind)
	assert.Equal(t, "Bar", bar.Name)

	children := tree.Children(root[0])
	require.Len(t, children, 1)
	method := tree.Scope(children[0])
	assert.Equal(t, scope.ClassFunction, method.Kind)
	assert.Equal(t, "method", method.Name)
}

func TestExtract_DoWhile(t *testing.T) {
	t.Parallel()
	tree := extractSource(t, "do { x++; } while (x < 10);")

	conds := conditionals(tree)
	require.Len(t, conds, 1)
	assert.Equal(t, "do", conds[0].Keyword)
	assert.Equal(t, scope.Position{Line: 1, Char: 26}, conds[0].End)
	assert.True(t, conds[0].Braced)
}

func TestExtract_ForHeader(t *testing.T) {
	t.Parallel()
	tree := extractSource(t, "for (int i = 0; i < 10; i++) { doWork(); }")

	conds := conditionals(tree)
	require.Len(t, conds, 1)
	assert.Equal(t, "for", conds[0].Keyword)
	assert.Equal(t, scope.Position{Line: 1, Char: 41}, conds[0].End)
}

func TestExtract_Refinement(t *testing.T) {
	t.Parallel()
	tree := extractSource(t, widgetSource)

	detail := find(t, tree, scope.Namespace, "detail")
	app := find(t, tree, scope.Namespace, "app")
	assert.Equal(t, app, tree.Parent(detail))

	counter := find(t, tree, scope.GlobalVariable, "counter")
	assert.Equal(t, detail, tree.Parent(counter))

	widget := find(t, tree, scope.Class, "Widget")
	assert.Equal(t, detail, tree.Parent(widget))
	assert.Equal(t, widget, tree.Parent(find(t, tree, scope.ClassVariable, "width_")))
	assert.Equal(t, widget, tree.Parent(find(t, tree, scope.ClassVariable, "height_")))
	assert.Equal(t, widget, tree.Parent(find(t, tree, scope.ClassFunction, "Widget")))

	draw := find(t, tree, scope.ClassFunction, "draw")
	assert.Equal(t, widget, tree.Parent(draw))
	assert.Equal(t, 4, tree.Depth(draw))

	ctor := find(t, tree, scope.ClassFunction, "Widget::Widget")
	assert.Equal(t, tree.Root(), tree.Parent(ctor))
	x := find(t, tree, scope.FunctionVariable, "x")
	assert.Equal(t, ctor, tree.Parent(x))
	assert.Equal(t, "auto", tree.Scope(x).Type)

	inner := find(t, tree, scope.GlobalDefine, "#define INNER 1")
	assert.Equal(t, tree.Root(), tree.Parent(inner))

	find(t, tree, scope.Enum, "Mode")
}

func TestExtract_Conditionals(t *testing.T) {
	t.Parallel()
	tree := extractSource(t, widgetSource)

	var keywords []string
	for _, c := range conditionals(tree) {
		keywords = append(keywords, c.Keyword)
	}
	assert.Equal(t, []string{"for", "if", "else", "do", "while"}, keywords)

	for _, c := range conditionals(tree) {
		if c.Keyword == "while" {
			assert.False(t, c.Braced)
			assert.Equal(t, c.Start.Line, c.End.Line)
		}
	}
}

func TestExtract_Defines(t *testing.T) {
	t.Parallel()
	src := "void f() {\n#define SQUARE(x) \\\n  ((x) * (x))\n  int y = 0;\n}\n"
	tree := extractSource(t, src)

	def := find(t, tree, scope.GlobalDefine, `#define SQUARE(x) \`)
	s := tree.Scope(def)
	assert.Equal(t, tree.Root(), tree.Parent(def))
	assert.True(t, s.MultiLine)
	assert.Equal(t, 2, s.Start.Line)
	assert.Equal(t, 3, s.End.Line)

	f := find(t, tree, scope.FreeFunction, "f")
	assert.Equal(t, f, tree.Parent(find(t, tree, scope.FunctionVariable, "y")))
}

func TestExtract_Comments(t *testing.T) {
	t.Parallel()
	src := strings.Join([]string{
		`int a; /* one */ int b; // two`,
		`printf("// not a comment");`,
		`/* first`,
		`   second */`,
	}, "\n")
	tree := extractSource(t, src)

	ids := tree.Collect(scope.Kind.IsComment)
	require.Len(t, ids, 3)

	one := tree.Scope(ids[0])
	assert.Equal(t, scope.MultiLineComment, one.Kind)
	assert.Equal(t, "/* one */", one.Name)
	assert.False(t, one.MultiLine)
	assert.Equal(t, scope.Position{Line: 1, Char: 15}, one.End)

	two := tree.Scope(ids[1])
	assert.Equal(t, scope.SingleLineComment, two.Kind)
	assert.Equal(t, "// two", two.Name)

	block := tree.Scope(ids[2])
	assert.Equal(t, "/* first\n   second */", block.Name)
	assert.True(t, block.MultiLine)
	assert.Equal(t, scope.Position{Line: 4, Char: 11}, block.End)
}

func TestExtract_CommentedCodeIsIgnored(t *testing.T) {
	t.Parallel()
	src := "/*\nclass Hidden {\n  int x = 1;\n};\n*/\nint shown = 2;"
	tree := extractSource(t, src)

	assert.Empty(t, tree.Collect(func(k scope.Kind) bool { return k == scope.Class }))
	vars := tree.Collect(scope.Kind.IsVariable)
	require.Len(t, vars, 1)
	assert.Equal(t, "shown", tree.Scope(vars[0]).Name)
}

func TestExtract_Unterminated(t *testing.T) {
	t.Parallel()
	tree := extractSource(t, "class A {\n  int x;\n")

	a := find(t, tree, scope.Class, "A")
	assert.True(t, tree.Scope(a).Unterminated)
	assert.Equal(t, a, tree.Parent(find(t, tree, scope.ClassVariable, "x")))
}

func TestExtract_EmptyFile(t *testing.T) {
	t.Parallel()
	tree := extractSource(t, "")
	assert.Equal(t, 1, tree.Len())
	assert.Equal(t, scope.Source, tree.Scope(tree.Root()).Kind)
}

func TestExtract_MultiLineMacroBody(t *testing.T) {
	t.Parallel()
	src := "#define LOG(x) \\\n  do { log(x); } \\\n  while (0)\nint count;\nvoid run() {}\n"
	tree := extractSource(t, src)
	assertWellFormed(t, tree)

	def := find(t, tree, scope.GlobalDefine, `#define LOG(x) \`)
	assert.Equal(t, 3, tree.Scope(def).End.Line)

	assert.Empty(t, conditionals(tree))
	count := find(t, tree, scope.GlobalVariable, "count")
	assert.Equal(t, tree.Root(), tree.Parent(count))
	run := find(t, tree, scope.FreeFunction, "run")
	assert.Equal(t, tree.Root(), tree.Parent(run))

	tree.Walk(func(_ scope.ID, s *scope.Scope) bool {
		if s.Kind != scope.GlobalDefine && s.Kind != scope.Source {
			assert.Greater(t, s.Start.Line, 3, "%s %q starts inside the macro", s.Kind, s.Name)
		}
		return true
	})
}

func TestExtract_ConditionalsOnOneLine(t *testing.T) {
	t.Parallel()
	tree := extractSource(t, "void f() {\n    if (a) { x(); } else { y(); }\n    if (b) return; else z();\n}\n")

	var got []string
	for _, c := range conditionals(tree) {
		got = append(got, fmt.Sprintf("%s %s-%s", c.Keyword, c.Start, c.End))
	}
	assert.Equal(t, []string{
		"if 2:4-2:18",
		"else 2:20-2:32",
		"if 3:4-3:17",
		"else 3:19-3:27",
	}, got)
}
