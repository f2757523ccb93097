package scope

import (
	"fmt"
	"strings"
)

// Kind is the structural category of a scope.
type Kind uint8

const (
	Source Kind = iota
	Namespace
	Enum
	Class
	GlobalDefine
	GlobalVariable
	ClassVariable
	FunctionVariable
	ClassFunction
	FreeFunction
	Conditional
	SingleLineComment
	MultiLineComment

	numKinds
)

var kindNames = [numKinds]string{
	Source:            "Source",
	Namespace:         "Namespace",
	Enum:              "Enum",
	Class:             "Class",
	GlobalDefine:      "GlobalDefine",
	GlobalVariable:    "GlobalVariable",
	ClassVariable:     "ClassVariable",
	FunctionVariable:  "FunctionVariable",
	ClassFunction:     "ClassFunction",
	FreeFunction:      "FreeFunction",
	Conditional:       "Conditional",
	SingleLineComment: "SingleLineComment",
	MultiLineComment:  "MultiLineComment",
}

// Kinds returns every kind in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, numKinds)
	for k := Source; k < numKinds; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

func (k Kind) String() string {
	if k < numKinds {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// ParseKind looks a kind up by name, ignoring case.
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if strings.EqualFold(n, name) {
			return Kind(k), true
		}
	}
	return 0, false
}

// IsVariable reports whether k is one of the variable refinements.
func (k Kind) IsVariable() bool {
	return k == GlobalVariable || k == ClassVariable || k == FunctionVariable
}

// IsFunction reports whether k is one of the function refinements.
func (k Kind) IsFunction() bool {
	return k == ClassFunction || k == FreeFunction
}

// IsComment reports whether k is a comment kind.
func (k Kind) IsComment() bool {
	return k == SingleLineComment || k == MultiLineComment
}
