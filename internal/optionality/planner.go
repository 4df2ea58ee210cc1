package optionality

import (
	"sort"
	"strings"

	"github.com/toyz/axonlint/internal/models"
)

// Plan builds one fix that makes every mismatched parameter of reg nullable.
// The mismatch set is recomputed from reg, never taken from an earlier Check.
// A registration without mismatches yields a fix with no edits.
func Plan(reg models.Registration, style NullableStyle, opts ...Option) models.Fix {
	s := newSettings(opts)
	if style == nil {
		style = PointerStyle
	}

	fix := models.Fix{Title: FixTitle}

	mismatches := Correlate(s.parser.Parse(reg.Template), reg.Parameters).Mismatches()
	if len(mismatches) == 0 {
		return fix
	}

	mismatched := make(map[int]bool, len(mismatches))
	for _, mismatch := range mismatches {
		mismatched[mismatch.Parameter.Order] = true
	}

	for _, group := range declarationGroups(reg.Parameters) {
		if edit, ok := planGroup(group, mismatched, style); ok {
			fix.Edits = append(fix.Edits, edit)
		}
	}

	return fix
}

// declarationGroups groups parameters sharing one declared type expression, as Go
// does for "a, b string". Groups are returned in source order.
func declarationGroups(params []models.HandlerParameter) [][]models.HandlerParameter {
	index := make(map[models.Span]int)
	var groups [][]models.HandlerParameter

	for _, param := range params {
		if !param.TypeSpan.IsValid() {
			continue
		}
		i, ok := index[param.TypeSpan]
		if !ok {
			i = len(groups)
			index[param.TypeSpan] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], param)
	}

	for _, group := range groups {
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Order < group[j].Order
		})
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i][0].TypeSpan.Pos < groups[j][0].TypeSpan.Pos
	})

	return groups
}

// planGroup returns the edit for one declaration group, if any of its names mismatch
func planGroup(group []models.HandlerParameter, mismatched map[int]bool, style NullableStyle) (models.FixEdit, bool) {
	hits := 0
	for _, param := range group {
		if mismatched[param.Order] {
			hits++
		}
	}
	if hits == 0 {
		return models.FixEdit{}, false
	}

	typeText := group[0].DeclaredType
	if hits == len(group) {
		return models.FixEdit{
			Span:    group[0].TypeSpan,
			NewText: style.Nullable(typeText),
			OldText: typeText,
		}, true
	}

	// Only some names of a shared declaration mismatch: split it.
	start := group[0].Span
	if !start.IsValid() || start.Pos > group[0].TypeSpan.Pos {
		return models.FixEdit{}, false
	}

	names := make([]string, 0, len(group))
	parts := make([]string, 0, len(group))
	for _, param := range group {
		declared := typeText
		if mismatched[param.Order] {
			declared = style.Nullable(typeText)
		}
		names = append(names, param.Name)
		parts = append(parts, param.Name+" "+declared)
	}

	return models.FixEdit{
		Span:    models.Span{Pos: start.Pos, End: group[0].TypeSpan.End},
		NewText: strings.Join(parts, ", "),
		OldText: strings.Join(names, ", ") + " " + typeText,
	}, true
}
