package models

// Segment describes one piece of a route template, in template order
type Segment struct {
	Kind        SegmentKind
	Name        string   // parameter name; empty for literals
	Raw         string   // the piece as written in the template
	Optional    bool     // parameter token ends with the optional marker
	CatchAll    bool     // parameter was prefixed with * or **
	Constraints []string // constraint suffixes, kept verbatim
	Default     string   // default-value suffix, kept verbatim
	Order       int
}

// IsParameter reports whether the segment binds a named route value
func (s Segment) IsParameter() bool {
	return s.Kind == ParameterSegment && s.Name != ""
}

// HandlerParameter is a read-only snapshot of one formal parameter of a handler
type HandlerParameter struct {
	Name            string
	DeclaredType    string // type text exactly as written in source
	TypeSpan        Span   // span of the declared type expression
	IsNullable      bool
	HasDefaultValue bool
	Span            Span // span of the parameter name
	Order           int  // declaration order
}

// Registration is the normalized fact for one route registration site
type Registration struct {
	Method       string // registration verb, e.g. MapGet or GET
	Template     string
	TemplateSpan Span
	Handler      string // handler name, or "func literal"
	Parameters   []HandlerParameter
	Span         Span // full handler-defining expression
	File         string
}
