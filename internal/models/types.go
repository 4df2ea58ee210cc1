package models

import "go/token"

// SegmentKind represents the kind of a route template segment
type SegmentKind int

const (
	LiteralSegment SegmentKind = iota
	ParameterSegment
)

// String returns the string representation of the segment kind
func (k SegmentKind) String() string {
	switch k {
	case ParameterSegment:
		return "parameter"
	default:
		return "literal"
	}
}

// PairStatus tags the outcome of correlating a segment with a handler parameter
type PairStatus int

const (
	PairMatched PairStatus = iota
	PairUnmatched
	PairMalformed
)

// String returns the string representation of the pair status
func (s PairStatus) String() string {
	switch s {
	case PairMatched:
		return "matched"
	case PairUnmatched:
		return "unmatched"
	case PairMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// Severity is the default severity attached to a diagnostic descriptor.
// Escalation to build-breaking is a host concern.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns the string representation of the severity
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "info"
	}
}

// ParseSeverity converts a configuration value to a Severity
func ParseSeverity(value string) (Severity, bool) {
	switch value {
	case "info":
		return SeverityInfo, true
	case "warning", "warn":
		return SeverityWarning, true
	case "error":
		return SeverityError, true
	default:
		return SeverityInfo, false
	}
}

// Span is a half-open range of source positions [Pos, End)
type Span struct {
	Pos token.Pos
	End token.Pos
}

// IsValid reports whether both ends of the span are known and ordered
func (s Span) IsValid() bool {
	return s.Pos.IsValid() && s.End.IsValid() && s.Pos <= s.End
}

// Contains reports whether other lies entirely within s
func (s Span) Contains(other Span) bool {
	return s.IsValid() && other.IsValid() && s.Pos <= other.Pos && other.End <= s.End
}

// SpanOf returns the span covered by an AST node
func SpanOf(node interface {
	Pos() token.Pos
	End() token.Pos
}) Span {
	return Span{Pos: node.Pos(), End: node.End()}
}
