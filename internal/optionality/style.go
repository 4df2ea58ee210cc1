package optionality

import (
	"fmt"
	"strings"
)

// NullableStyle renders a declared type in a form that can represent absence
type NullableStyle interface {
	Name() string
	Nullable(typeText string) string
}

// SuffixStyle appends a nullable marker to the type, as in string -> string?
type SuffixStyle string

// Name returns the configuration name of the style
func (s SuffixStyle) Name() string {
	return "suffix"
}

// Nullable appends the marker unless the type already carries it
func (s SuffixStyle) Nullable(typeText string) string {
	if strings.HasSuffix(typeText, string(s)) {
		return typeText
	}
	return typeText + string(s)
}

type pointerStyle struct{}

// PointerStyle makes Go types nullable by taking their address: string -> *string
var PointerStyle NullableStyle = pointerStyle{}

func (pointerStyle) Name() string {
	return "pointer"
}

func (pointerStyle) Nullable(typeText string) string {
	return "*" + typeText
}

// QuestionMark is the suffix style used by template-style hosts
const QuestionMark SuffixStyle = "?"

// StyleByName resolves a configured style name
func StyleByName(name string) (NullableStyle, error) {
	switch name {
	case "", "pointer":
		return PointerStyle, nil
	case "suffix":
		return QuestionMark, nil
	default:
		return nil, fmt.Errorf("unknown nullable style %q, supported styles: pointer, suffix", name)
	}
}
