package extract

import (
	"sort"
	"strings"

	"github.com/gnolang/sift/internal/scope"
	tt "github.com/gnolang/sift/internal/types"
)

const rootParent = -1

// encloses reports whether candidate i may be the parent of candidate j.
// Identical ranges are ordered by detection so the relation stays acyclic.
func encloses(cands []*candidate, i, j int) bool {
	a, b := cands[i], cands[j]
	if !a.Range.Contains(b.Range) {
		return false
	}
	return a.Range != b.Range || a.order < b.order
}

// reconstruct nests the flat candidate pool. Every candidate is attached to
// the smallest other candidate enclosing it, macros always to the root, and
// provisional kinds are settled from the parent's kind, parents first.
func reconstruct(file *tt.SourceFile, code []string, cands []*candidate) *scope.Tree {
	parents := make([]int, len(cands))
	for i := len(cands) - 1; i >= 0; i-- {
		parents[i] = rootParent
		if cands[i].Kind == scope.GlobalDefine && cands[i].pending == settled {
			continue
		}
		best := rootParent
		for j := range cands {
			if j == i || !encloses(cands, j, i) {
				continue
			}
			if best == rootParent || encloses(cands, best, j) {
				best = j
			}
		}
		parents[i] = best
	}

	var settle func(i int) scope.Kind
	settle = func(i int) scope.Kind {
		c := cands[i]
		if c.pending == settled {
			return c.Kind
		}
		parentKind, parentCall := scope.Source, false
		if p := parents[i]; p != rootParent {
			parentKind = settle(p)
			parentCall = cands[p].detected == functionCandidate
		}
		switch c.pending {
		case variableCandidate:
			switch {
			case parentKind == scope.Source || parentKind == scope.Namespace:
				c.Kind = scope.GlobalVariable
			case parentKind == scope.Conditional || parentKind.IsFunction() || parentCall:
				c.Kind = scope.FunctionVariable
			default:
				c.Kind = scope.ClassVariable
			}
		case functionCandidate:
			switch {
			case parentKind == scope.Class, strings.Contains(c.Name, "::"):
				c.Kind = scope.ClassFunction
			case parentKind.IsFunction() || parentCall:
				c.Kind = scope.FunctionVariable
			default:
				c.Kind = scope.FreeFunction
			}
		}
		c.pending = settled
		return c.Kind
	}

	children := make(map[int][]int, len(cands))
	for i := range cands {
		settle(i)
		children[parents[i]] = append(children[parents[i]], i)
	}
	for _, ids := range children {
		sort.Slice(ids, func(a, b int) bool {
			ca, cb := cands[ids[a]], cands[ids[b]]
			if ca.Start != cb.Start {
				return ca.Start.Before(cb.Start)
			}
			return ca.order < cb.order
		})
	}

	tree := scope.NewTree(file)
	tree.Code = code
	var attach func(parent scope.ID, i int)
	attach = func(parent scope.ID, i int) {
		id := tree.Add(parent, cands[i].Scope)
		for _, child := range children[i] {
			attach(id, child)
		}
	}
	for _, i := range children[rootParent] {
		attach(tree.Root(), i)
	}
	return tree
}
