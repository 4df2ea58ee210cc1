package optionality

import (
	"github.com/toyz/axonlint/internal/models"
	"github.com/toyz/axonlint/internal/routes"
)

// Option configures Check and Plan
type Option func(*settings)

type settings struct {
	parser     routes.TemplateParser
	descriptor models.Descriptor
}

// WithParser parses templates with parser, typically a per-run routes.Cache
func WithParser(parser routes.TemplateParser) Option {
	return func(s *settings) {
		if parser != nil {
			s.parser = parser
		}
	}
}

// WithSeverity overrides the descriptor's default severity
func WithSeverity(severity models.Severity) Option {
	return func(s *settings) {
		s.descriptor.Severity = severity
	}
}

func newSettings(opts []Option) settings {
	s := settings{
		descriptor: MismatchedParameterOptionality,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	if s.parser == nil {
		s.parser = routes.DefaultParser()
	}
	return s
}
