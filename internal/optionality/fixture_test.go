package optionality

import (
	"go/token"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/toyz/axonlint/internal/edits"
	"github.com/toyz/axonlint/internal/models"
)

// lambdaSource renders a minimal-API style registration:
//
//	app.MapGet("/hello/{name?}", (string name) => "ok");
func lambdaSource(template, signature string) string {
	return "var app = WebApplication.Create();\n" +
		`app.MapGet("` + template + `", ` + signature + ` => "ok");` + "\n"
}

// registrationFromSource extracts the registration fact from a lambdaSource string the
// way a host detector would: template, parameters with spans, and the call span
func registrationFromSource(t *testing.T, src string) (*token.File, models.Registration) {
	t.Helper()

	fset := token.NewFileSet()
	file := fset.AddFile("Program.cs", -1, len(src))
	pos := func(offset int) token.Pos { return file.Pos(offset) }

	callStart := strings.Index(src, "app.MapGet(")
	callEnd := strings.LastIndex(src, ");") + 1
	require.True(t, callStart >= 0 && callEnd > callStart)

	tplStart := strings.Index(src, `("`) + 2
	tplEnd := tplStart + strings.Index(src[tplStart:], `"`)
	sigStart := tplEnd + strings.Index(src[tplEnd:], "(")
	sigEnd := sigStart + strings.Index(src[sigStart:], ")")

	reg := models.Registration{
		Method:       "MapGet",
		Template:     src[tplStart:tplEnd],
		TemplateSpan: models.Span{Pos: pos(tplStart), End: pos(tplEnd)},
		Handler:      "func literal",
		Span:         models.Span{Pos: pos(callStart), End: pos(callEnd)},
		File:         file.Name(),
	}

	inner := src[sigStart+1 : sigEnd]
	base := sigStart + 1
	cursor := 0
	for order, piece := range strings.Split(inner, ",") {
		pieceStart := base + cursor
		cursor += len(piece) + 1

		decl := piece
		hasDefault := false
		if i := strings.Index(piece, "="); i >= 0 {
			decl = piece[:i]
			hasDefault = true
		}
		fields := strings.Fields(decl)
		if len(fields) != 2 {
			continue
		}
		typ, name := fields[0], fields[1]
		typeOffset := pieceStart + strings.Index(decl, typ)
		nameOffset := pieceStart + strings.LastIndex(decl, name)

		reg.Parameters = append(reg.Parameters, models.HandlerParameter{
			Name:            name,
			DeclaredType:    typ,
			TypeSpan:        models.Span{Pos: pos(typeOffset), End: pos(typeOffset + len(typ))},
			IsNullable:      strings.HasSuffix(typ, "?"),
			HasDefaultValue: hasDefault,
			Span:            models.Span{Pos: pos(nameOffset), End: pos(nameOffset + len(name))},
			Order:           order,
		})
	}

	return file, reg
}

// applyFix plans and applies the fix for src, returning the rewritten source
func applyFix(t *testing.T, src string) string {
	t.Helper()

	file, reg := registrationFromSource(t, src)
	fix := Plan(reg, QuestionMark)

	result, err := edits.Apply(file, []byte(src), []models.Fix{fix})
	require.NoError(t, err)
	require.Empty(t, result.Skipped)
	return string(result.Source)
}
