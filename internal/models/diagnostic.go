package models

import "fmt"

// Descriptor is the stable description of a rule shared by all its diagnostics
type Descriptor struct {
	ID            string
	Title         string
	MessageFormat string // fmt format taking the diagnostic arguments
	Category      string
	Severity      Severity
}

// Format renders the descriptor's message with the given arguments
func (d Descriptor) Format(args ...string) string {
	values := make([]interface{}, len(args))
	for i, arg := range args {
		values[i] = arg
	}
	return fmt.Sprintf(d.MessageFormat, values...)
}

// Diagnostic is one reported finding
type Diagnostic struct {
	RuleID    string
	Severity  Severity
	Message   string
	Span      Span
	Arguments []string
}

// CorrelatedPair is a route segment joined with its same-named handler parameter
type CorrelatedPair struct {
	Segment   Segment
	Parameter *HandlerParameter // nil when Status is PairUnmatched
	Status    PairStatus
}

// Mismatch is an optional segment whose parameter cannot represent absence
type Mismatch struct {
	ParameterName string
	ParameterSpan Span
	Parameter     HandlerParameter
}

// FixEdit replaces the text covered by Span with NewText.
// OldText, when set, must still be present for the edit to apply.
type FixEdit struct {
	Span    Span
	NewText string
	OldText string
}

// Fix is a set of edits that must be applied together or not at all
type Fix struct {
	Title string
	Edits []FixEdit
}

// IsEmpty reports whether the fix has nothing to apply
func (f Fix) IsEmpty() bool {
	return len(f.Edits) == 0
}
