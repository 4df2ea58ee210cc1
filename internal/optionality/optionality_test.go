package optionality

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toyz/axonlint/internal/models"
	"github.com/toyz/axonlint/internal/routes"
)

func TestCheckAndFix(t *testing.T) {
	testCases := []struct {
		name         string
		template     string
		signature    string
		wantArgument string // empty when no diagnostic is expected
		wantFixed    string
	}{
		{
			name:         "single optional parameter",
			template:     "/hello/{name?}",
			signature:    "(string name)",
			wantArgument: "name",
			wantFixed:    "(string? name)",
		},
		{
			name:         "two optional parameters report the first and fix both",
			template:     "/hello/{name?}/{title?}",
			signature:    "(string name, string title)",
			wantArgument: "name",
			wantFixed:    "(string? name, string? title)",
		},
		{
			name:      "defaulted parameter",
			template:  "/hello/{name?}",
			signature: `(string name = "x")`,
		},
		{
			name:      "required segment",
			template:  "/hello/{name}",
			signature: "(string name)",
		},
		{
			name:      "already nullable",
			template:  "/hello/{name?}",
			signature: "(string? name)",
		},
		{
			name:         "declaration order wins over template order",
			template:     "/hello/{title?}/{name?}",
			signature:    "(string name, string title)",
			wantArgument: "name",
			wantFixed:    "(string? name, string? title)",
		},
		{
			name:         "only mismatched parameters are rewritten",
			template:     "/hello/{name?}/{title?}/{id}",
			signature:    "(int id, string? name, string title)",
			wantArgument: "title",
			wantFixed:    "(int id, string? name, string? title)",
		},
		{
			name:         "constraint on optional segment",
			template:     "/users/{id:int?}",
			signature:    "(int id)",
			wantArgument: "id",
			wantFixed:    "(int? id)",
		},
		{
			name:      "unmatched names are ignored",
			template:  "/hello/{id?}",
			signature: "(string name)",
		},
		{
			name:      "names match case-sensitively",
			template:  "/hello/{Name?}",
			signature: "(string name)",
		},
		{
			name:      "first segment of a repeated name wins",
			template:  "/hello/{name}/{name?}",
			signature: "(string name)",
		},
		{
			name:      "malformed segment is a literal",
			template:  "/hello/{name?",
			signature: "(string name)",
		},
		{
			name:      "no parameters",
			template:  "/hello/{name?}",
			signature: "()",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			src := lambdaSource(tc.template, tc.signature)
			_, reg := registrationFromSource(t, src)

			diagnostic, found := Check(reg)
			if tc.wantArgument == "" {
				assert.False(t, found)
				assert.True(t, Plan(reg, QuestionMark).IsEmpty(), "fix must be a no-op without mismatches")
				return
			}

			require.True(t, found)
			assert.Equal(t, []string{tc.wantArgument}, diagnostic.Arguments)
			assert.Equal(t, reg.Span, diagnostic.Span, "diagnostic spans the whole registration")
			assert.Equal(t, MismatchedParameterOptionality.ID, diagnostic.RuleID)
			assert.Equal(t, models.SeverityWarning, diagnostic.Severity)
			assert.Contains(t, diagnostic.Message, "'"+tc.wantArgument+"'")

			fixed := applyFix(t, src)
			assert.Equal(t, lambdaSource(tc.template, tc.wantFixed), fixed)

			// Applying the fix leaves nothing further to report or fix.
			_, fixedReg := registrationFromSource(t, fixed)
			_, found = Check(fixedReg)
			assert.False(t, found)
			assert.True(t, Plan(fixedReg, QuestionMark).IsEmpty())
		})
	}
}

func TestCheck_DiagnosticSpanMatchesInvocation(t *testing.T) {
	src := lambdaSource("/hello/{name?}", "(string name)")
	_, reg := registrationFromSource(t, src)

	diagnostic, found := Check(reg)
	require.True(t, found)

	// token.NewFileSet starts file bases at 1
	start := int(diagnostic.Span.Pos) - 1
	end := int(diagnostic.Span.End) - 1
	assert.Equal(t, `app.MapGet("/hello/{name?}", (string name) => "ok")`, src[start:end])
}

func TestPlan_StaleSourceIsNoOp(t *testing.T) {
	original := lambdaSource("/hello/{name?}", "(string name)")
	_, reg := registrationFromSource(t, original)

	_, found := Check(reg)
	require.True(t, found)

	// The source is fixed by hand before the fix runs.
	changed := lambdaSource("/hello/{name?}", "(string? name)")
	_, current := registrationFromSource(t, changed)

	assert.NotPanics(t, func() {
		fix := Plan(current, QuestionMark)
		assert.True(t, fix.IsEmpty())
		assert.Equal(t, FixTitle, fix.Title)
	})
}

func TestCheck_WithSeverityAndParser(t *testing.T) {
	_, reg := registrationFromSource(t, lambdaSource("/hello/{name?}", "(string name)"))

	cache, err := routes.NewCache(routes.NewParser(), 4)
	require.NoError(t, err)

	diagnostic, found := Check(reg, WithSeverity(models.SeverityError), WithParser(cache))
	require.True(t, found)
	assert.Equal(t, models.SeverityError, diagnostic.Severity)
	assert.Equal(t, 1, cache.Len())
}

func TestCheckAll(t *testing.T) {
	_, first := registrationFromSource(t, lambdaSource("/a/{name?}", "(string name)"))
	_, second := registrationFromSource(t, lambdaSource("/b/{name?}", "(string? name)"))
	_, third := registrationFromSource(t, lambdaSource("/c/{x?}/{y?}", "(int x, int y)"))

	diagnostics := CheckAll([]models.Registration{first, second, third})
	require.Len(t, diagnostics, 2)
	assert.Equal(t, []string{"name"}, diagnostics[0].Arguments)
	assert.Equal(t, []string{"x"}, diagnostics[1].Arguments)
}

func TestCheck_MalformedParametersAreSkipped(t *testing.T) {
	_, reg := registrationFromSource(t, lambdaSource("/hello/{name?}/{title?}", "(string name, string title)"))
	reg.Parameters[0].TypeSpan = models.Span{}

	diagnostic, found := Check(reg)
	require.True(t, found)
	assert.Equal(t, []string{"title"}, diagnostic.Arguments)

	fix := Plan(reg, QuestionMark)
	require.Len(t, fix.Edits, 1)
	assert.Equal(t, "string?", fix.Edits[0].NewText)
}

func TestCorrelate_Views(t *testing.T) {
	segments := routes.Parse("/{title?}/{name}/{missing?}/{name?}")
	params := []models.HandlerParameter{
		{Name: "name", DeclaredType: "string", TypeSpan: models.Span{Pos: 10, End: 16}, Order: 0},
		{Name: "title", DeclaredType: "string", TypeSpan: models.Span{Pos: 20, End: 26}, Order: 1},
		{Name: "extra", DeclaredType: "int", TypeSpan: models.Span{Pos: 30, End: 33}, Order: 2},
		{Name: "_", DeclaredType: "int", TypeSpan: models.Span{Pos: 40, End: 43}, Order: 3},
	}

	set := Correlate(segments, params)

	byDecl := set.ByDeclaration()
	require.Len(t, byDecl, 2)
	assert.Equal(t, "name", byDecl[0].Parameter.Name)
	assert.False(t, byDecl[0].Segment.Optional, "first occurrence of name is used")
	assert.Equal(t, "title", byDecl[1].Parameter.Name)

	byTemplate := set.ByTemplate()
	require.Len(t, byTemplate, 4)
	assert.Equal(t, "title", byTemplate[0].Segment.Name)
	assert.Equal(t, models.PairMatched, byTemplate[0].Status)
	assert.Equal(t, "missing", byTemplate[2].Segment.Name)
	assert.Equal(t, models.PairUnmatched, byTemplate[2].Status)
	assert.Nil(t, byTemplate[2].Parameter)
	assert.Equal(t, models.PairUnmatched, byTemplate[3].Status, "repeated name is not correlated")

	mismatches := set.Mismatches()
	require.Len(t, mismatches, 1)
	assert.Equal(t, "title", mismatches[0].ParameterName)
}

func TestCorrelate_MalformedStatus(t *testing.T) {
	segments := routes.Parse("/{name?}")
	params := []models.HandlerParameter{{Name: "name", Order: 0}}

	set := Correlate(segments, params)
	require.Len(t, set.ByDeclaration(), 1)
	assert.Equal(t, models.PairMalformed, set.ByDeclaration()[0].Status)
	assert.Empty(t, set.Matched())
	assert.Empty(t, set.Mismatches())
}

func TestSettings_DefaultParserIsShared(t *testing.T) {
	assert.Same(t, routes.DefaultParser(), newSettings(nil).parser)
	assert.Same(t, newSettings(nil).parser, newSettings([]Option{WithSeverity(models.SeverityError)}).parser)

	cache, err := routes.NewCache(routes.DefaultParser(), 8)
	require.NoError(t, err)
	assert.Same(t, cache, newSettings([]Option{WithParser(cache)}).parser)
}

func BenchmarkCheck_DefaultParser(b *testing.B) {
	reg := models.Registration{
		Template:   "/hello/{name?}",
		Parameters: []models.HandlerParameter{{Name: "name", DeclaredType: "string", TypeSpan: models.Span{Pos: 1, End: 7}}},
	}
	for i := 0; i < b.N; i++ {
		Check(reg)
	}
}

func TestStyleByName(t *testing.T) {
	style, err := StyleByName("pointer")
	require.NoError(t, err)
	assert.Equal(t, "*string", style.Nullable("string"))
	assert.Equal(t, "pointer", style.Name())

	style, err = StyleByName("suffix")
	require.NoError(t, err)
	assert.Equal(t, "string?", style.Nullable("string"))
	assert.Equal(t, "string?", style.Nullable("string?"))

	_, err = StyleByName("option")
	assert.Error(t, err)
}
