package routes

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/toyz/axonlint/internal/models"
)

const (
	// PathSeparator splits a template into segments
	PathSeparator = "/"

	// OptionalMarker suffixes a parameter name that may be absent
	OptionalMarker = "?"

	parameterOpen  = "{"
	parameterClose = "}"
)

// TemplateParser turns a route template into ordered segments
type TemplateParser interface {
	Parse(template string) []models.Segment
}

// segmentBody is the grammar of the text between the braces of a parameter segment,
// after the optional marker has been removed
type segmentBody struct {
	Stars       string   `parser:"@Star?"`
	Name        string   `parser:"@Ident"`
	Constraints []string `parser:"@Constraint*"`
	Default     *string  `parser:"@Default?"`
}

// Parser parses route templates such as /hello/{name?}/{id:int}
type Parser struct {
	body *participle.Parser[segmentBody]
}

// NewParser creates a new route template parser
func NewParser() *Parser {
	lex := lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Star", Pattern: `\*\*?`},
		{Name: "Ident", Pattern: `[\p{L}_][\p{L}\p{N}_]*`},
		{Name: "Constraint", Pattern: `:[^:=]+`},
		{Name: "Default", Pattern: `=.*`},
	})

	return &Parser{
		body: participle.MustBuild[segmentBody](participle.Lexer(lex)),
	}
}

var defaultParser = NewParser()

// DefaultParser returns the parser shared by Parse. It is safe for concurrent use.
func DefaultParser() *Parser {
	return defaultParser
}

// Parse parses a template with the shared default parser
func Parse(template string) []models.Segment {
	return defaultParser.Parse(template)
}

// Parse splits the template on path separators and classifies every non-empty piece.
// Pieces that cannot be classified with confidence become literals; Parse never fails.
func (p *Parser) Parse(template string) []models.Segment {
	var segments []models.Segment

	for _, piece := range strings.Split(template, PathSeparator) {
		if piece == "" {
			continue
		}

		segment, ok := p.parseParameter(piece)
		if !ok {
			segment = models.Segment{
				Kind: models.LiteralSegment,
				Raw:  piece,
			}
		}
		segment.Order = len(segments)
		segments = append(segments, segment)
	}

	return segments
}

// parseParameter parses a {name...} piece; ok is false for anything that is not
// exactly one well-formed parameter token
func (p *Parser) parseParameter(piece string) (models.Segment, bool) {
	if !strings.HasPrefix(piece, parameterOpen) || !strings.HasSuffix(piece, parameterClose) {
		return models.Segment{}, false
	}
	// Escaped braces and complex segments like {a}.{b} are left alone
	if strings.Count(piece, parameterOpen) != 1 || strings.Count(piece, parameterClose) != 1 {
		return models.Segment{}, false
	}

	text := piece[len(parameterOpen) : len(piece)-len(parameterClose)]
	optional := strings.HasSuffix(text, OptionalMarker)
	text = strings.TrimSuffix(text, OptionalMarker)
	if text == "" {
		return models.Segment{}, false
	}

	body, err := p.body.ParseString("", text)
	if err != nil {
		return models.Segment{}, false
	}

	segment := models.Segment{
		Kind:     models.ParameterSegment,
		Name:     body.Name,
		Raw:      piece,
		Optional: optional,
		CatchAll: body.Stars != "",
	}
	for _, constraint := range body.Constraints {
		segment.Constraints = append(segment.Constraints, strings.TrimPrefix(constraint, ":"))
	}
	if body.Default != nil {
		segment.Default = strings.TrimPrefix(*body.Default, "=")
	}

	return segment, true
}

// Parameters returns the parameter segments in template order
func Parameters(segments []models.Segment) []models.Segment {
	var params []models.Segment
	for _, segment := range segments {
		if segment.IsParameter() {
			params = append(params, segment)
		}
	}
	return params
}
