package annotations

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

const (
	// Prefix is the prefix used for all axon annotations
	Prefix = "axon::"

	// Controller marks a struct whose methods carry route annotations
	Controller = "controller"

	// Route binds a controller method to an HTTP method and path
	Route = "route"
)

// Annotation is a parsed //axon:: comment
type Annotation struct {
	Kind  string
	Args  []string
	Flags map[string]string
}

// Method returns the HTTP method of a route annotation
func (a Annotation) Method() string {
	if len(a.Args) > 0 {
		return strings.ToUpper(a.Args[0])
	}
	return ""
}

// Path returns the route template of a route annotation
func (a Annotation) Path() string {
	if len(a.Args) > 1 {
		return a.Args[1]
	}
	return ""
}

// annotationLine is the grammar of one annotation comment after the // prefix
type annotationLine struct {
	Kind  string  `parser:"'axon' '::' @Ident"`
	Items []*item `parser:"@@*"`
}

type item struct {
	Flag *string `parser:"  @Flag"`
	Arg  *string `parser:"| @(Ident | Path | String)"`
}

// Parser parses axon annotation comments such as //axon::route GET /users/{id?} -Middleware=Auth
type Parser struct {
	parser *participle.Parser[annotationLine]
}

// NewParser creates a new annotation parser
func NewParser() *Parser {
	lex := lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Flag", Pattern: `-[a-zA-Z_][a-zA-Z0-9_]*(=\S*)?`},
		{Name: "String", Pattern: `"(\\"|[^"])*"`},
		{Name: "Path", Pattern: `/\S*`},
		{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
		{Name: "Punct", Pattern: `::`},
		{Name: "Whitespace", Pattern: `\s+`},
	})

	return &Parser{
		parser: participle.MustBuild[annotationLine](
			participle.Lexer(lex),
			participle.Elide("Whitespace"),
			participle.Unquote("String"),
		),
	}
}

// IsAnnotation reports whether a comment looks like an axon annotation
func IsAnnotation(comment string) bool {
	return strings.HasPrefix(strings.TrimSpace(strings.TrimPrefix(comment, "//")), Prefix)
}

// Parse parses a single comment line
func (p *Parser) Parse(comment string) (Annotation, error) {
	text := strings.TrimSpace(strings.TrimPrefix(comment, "//"))
	if !strings.HasPrefix(text, Prefix) {
		return Annotation{}, fmt.Errorf("not an axon annotation")
	}

	line, err := p.parser.ParseString("", text)
	if err != nil {
		return Annotation{}, fmt.Errorf("failed to parse annotation %q: %w", text, err)
	}

	annotation := Annotation{
		Kind:  line.Kind,
		Flags: make(map[string]string),
	}
	for _, it := range line.Items {
		switch {
		case it.Flag != nil:
			name, value, _ := strings.Cut(strings.TrimPrefix(*it.Flag, "-"), "=")
			annotation.Flags[name] = value
		case it.Arg != nil:
			annotation.Args = append(annotation.Args, *it.Arg)
		}
	}

	if annotation.Kind == Route {
		if annotation.Method() == "" {
			return Annotation{}, fmt.Errorf("route annotation missing method")
		}
		if annotation.Path() == "" {
			return Annotation{}, fmt.Errorf("route annotation missing path")
		}
	}

	return annotation, nil
}

// Find returns the first annotation of the given kind in a doc comment group
func (p *Parser) Find(comments []string, kind string) (Annotation, bool) {
	for _, comment := range comments {
		if !IsAnnotation(comment) {
			continue
		}
		annotation, err := p.Parse(comment)
		if err == nil && annotation.Kind == kind {
			return annotation, true
		}
	}
	return Annotation{}, false
}
