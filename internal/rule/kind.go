package rule

import (
	"fmt"
	"strings"
)

// Kind selects the check a rule performs.
type Kind uint8

const (
	Unknown Kind = iota
	NoAuto
	NoDefine
	NoMacroFunctions
	StartWithX
	EndWithX
	MaxCharactersPerLine
	CurlyBracketsOpenSameLine
	CurlyBracketsOpenSeperateLine
	CurlyBracketsCloseSameLine
	CurlyBracketsCloseSeperateLine
	AlwaysHaveCurlyBrackets
	NoConstCast
	StartWithLowerCase
	StartWithUpperCase
	NameMaxCharacter

	numKinds
)

// Parameter describes what a rule kind expects in its parameter.
type Parameter uint8

const (
	NoParameter Parameter = iota
	TextParameter
	IntParameter
)

type kindInfo struct {
	name  string
	param Parameter
	// description may reference the target with %rs and the parameter
	// with %rp.
	description string
}

var kinds = [numKinds]kindInfo{
	Unknown:                        {"Unknown", NoParameter, "rule could not be resolved"},
	NoAuto:                         {"NoAuto", NoParameter, "%rs should not be declared auto"},
	NoDefine:                       {"NoDefine", NoParameter, "macros should not be defined"},
	NoMacroFunctions:               {"NoMacroFunctions", NoParameter, "function-like macros should not be defined"},
	StartWithX:                     {"StartWithX", TextParameter, "%rs names should start with %rp"},
	EndWithX:                       {"EndWithX", TextParameter, "%rs names should end with %rp"},
	MaxCharactersPerLine:           {"MaxCharactersPerLine", IntParameter, "lines in %rs should not exceed %rp characters"},
	CurlyBracketsOpenSameLine:      {"CurlyBracketsOpenSameLine", NoParameter, "%rs should open curly brackets on the line of their header"},
	CurlyBracketsOpenSeperateLine:  {"CurlyBracketsOpenSeperateLine", NoParameter, "%rs should open curly brackets on a line of their own"},
	CurlyBracketsCloseSameLine:     {"CurlyBracketsCloseSameLine", NoParameter, "%rs should close curly brackets on the line of their last statement"},
	CurlyBracketsCloseSeperateLine: {"CurlyBracketsCloseSeperateLine", NoParameter, "%rs should close curly brackets on a line of their own"},
	AlwaysHaveCurlyBrackets:        {"AlwaysHaveCurlyBrackets", NoParameter, "%rs should always have curly brackets"},
	NoConstCast:                    {"NoConstCast", NoParameter, "const_cast should not be used in %rs"},
	StartWithLowerCase:             {"StartWithLowerCase", NoParameter, "%rs names should start with a lower case letter"},
	StartWithUpperCase:             {"StartWithUpperCase", NoParameter, "%rs names should start with an upper case letter"},
	NameMaxCharacter:               {"NameMaxCharacter", IntParameter, "%rs names should not exceed %rp characters"},
}

// Kinds returns every known kind except Unknown.
func Kinds() []Kind {
	out := make([]Kind, 0, numKinds-1)
	for k := Unknown + 1; k < numKinds; k++ {
		out = append(out, k)
	}
	return out
}

func (k Kind) String() string {
	if k < numKinds {
		return kinds[k].name
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Parameter reports the parameter the kind expects.
func (k Kind) Parameter() Parameter {
	if k < numKinds {
		return kinds[k].param
	}
	return NoParameter
}

// Description is the raw description template of the kind.
func (k Kind) Description() string {
	if k < numKinds {
		return kinds[k].description
	}
	return kinds[Unknown].description
}

// ParseKind looks a kind up by name, ignoring case. Unknown names return
// Unknown and false.
func ParseKind(name string) (Kind, bool) {
	name = strings.TrimSpace(name)
	for k := Unknown + 1; k < numKinds; k++ {
		if strings.EqualFold(kinds[k].name, name) {
			return k, true
		}
	}
	return Unknown, false
}
