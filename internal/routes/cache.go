package routes

import (
	"fmt"
	"slices"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/toyz/axonlint/internal/models"
)

// DefaultCacheSize bounds the number of distinct templates remembered per run
const DefaultCacheSize = 1024

// Cache memoizes template parsing for the lifetime of one analysis run.
// It is safe for concurrent use.
type Cache struct {
	parser  TemplateParser
	entries *lru.Cache[string, []models.Segment]
}

// NewCache creates a parse cache in front of parser
func NewCache(parser TemplateParser, size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	entries, err := lru.New[string, []models.Segment](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create template cache: %w", err)
	}
	return &Cache{
		parser:  parser,
		entries: entries,
	}, nil
}

// Parse returns the cached segments for template, parsing it on first use
func (c *Cache) Parse(template string) []models.Segment {
	if segments, ok := c.entries.Get(template); ok {
		return slices.Clone(segments)
	}

	segments := c.parser.Parse(template)
	c.entries.Add(template, segments)
	return slices.Clone(segments)
}

// Len returns the number of cached templates
func (c *Cache) Len() int {
	return c.entries.Len()
}
