package edits

import (
	"go/token"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toyz/axonlint/internal/models"
)

// span returns the span of the first occurrence of needle in src
func span(t *testing.T, file *token.File, src, needle string) models.Span {
	t.Helper()
	idx := strings.Index(src, needle)
	require.GreaterOrEqual(t, idx, 0, "needle %q not found", needle)
	return models.Span{Pos: file.Pos(idx), End: file.Pos(idx + len(needle))}
}

func newFile(src string) *token.File {
	fset := token.NewFileSet()
	return fset.AddFile("handler.go", -1, len(src))
}

func TestApply_AllEditsOfAFix(t *testing.T) {
	src := `func(name string, title string) {}`
	file := newFile(src)

	fix := models.Fix{
		Title: "nullable",
		Edits: []models.FixEdit{
			{Span: span(t, file, src, "string,"), NewText: "*string,", OldText: "string,"},
			{Span: span(t, file, src, "string)"), NewText: "*string)", OldText: "string)"},
		},
	}

	result, err := Apply(file, []byte(src), []models.Fix{fix})
	require.NoError(t, err)

	assert.Equal(t, `func(name *string, title *string) {}`, string(result.Source))
	assert.Equal(t, 2, result.EditCount)
	assert.Len(t, result.Applied, 1)
	assert.Empty(t, result.Skipped)
	assert.True(t, result.Changed())
}

func TestApply_StaleGuardSkipsWholeFix(t *testing.T) {
	src := `func(name string, title *string) {}`
	file := newFile(src)

	fix := models.Fix{
		Title: "nullable",
		Edits: []models.FixEdit{
			{Span: span(t, file, src, "string,"), NewText: "*string,", OldText: "string,"},
			{Span: span(t, file, src, "*string"), NewText: "**string", OldText: "string)"},
		},
	}

	result, err := Apply(file, []byte(src), []models.Fix{fix})
	require.NoError(t, err)

	assert.Equal(t, src, string(result.Source))
	assert.False(t, result.Changed())
	require.Len(t, result.Skipped, 1)
	assert.Contains(t, result.Skipped[0].Reason, "source changed")
}

func TestApply_GuardIgnoresWhitespace(t *testing.T) {
	testCases := []struct {
		name    string
		src     string
		applied bool
	}{
		{name: "canonical", src: "func(a, b int) {}", applied: true},
		{name: "compact", src: "func(a,b int) {}", applied: true},
		{name: "renamed", src: "func(a, c int) {}", applied: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			file := newFile(tc.src)
			start := strings.Index(tc.src, "a")
			end := strings.Index(tc.src, "int") + len("int")
			fix := models.Fix{
				Title: "split",
				Edits: []models.FixEdit{{
					Span:    models.Span{Pos: file.Pos(start), End: file.Pos(end)},
					NewText: "a *int, b int",
					OldText: "a, b int",
				}},
			}

			result, err := Apply(file, []byte(tc.src), []models.Fix{fix})
			require.NoError(t, err)
			if tc.applied {
				assert.Equal(t, "func(a *int, b int) {}", string(result.Source))
				assert.Len(t, result.Applied, 1)
			} else {
				assert.Equal(t, tc.src, string(result.Source))
				assert.Len(t, result.Skipped, 1)
			}
		})
	}
}

func TestApply_ConflictingFixes(t *testing.T) {
	src := `func(name string) {}`
	file := newFile(src)
	target := span(t, file, src, "string")

	first := models.Fix{Title: "first", Edits: []models.FixEdit{{Span: target, NewText: "*string"}}}
	second := models.Fix{Title: "second", Edits: []models.FixEdit{{Span: target, NewText: "string?"}}}

	result, err := Apply(file, []byte(src), []models.Fix{first, second})
	require.NoError(t, err)

	assert.Equal(t, `func(name *string) {}`, string(result.Source))
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, "second", result.Skipped[0].Title)
}

func TestApply_OutOfRangeEdit(t *testing.T) {
	src := `func(name string) {}`
	file := newFile(src)

	fix := models.Fix{
		Title: "bad",
		Edits: []models.FixEdit{{Span: models.Span{Pos: file.Pos(0), End: token.Pos(file.Base() + len(src) + 10)}}},
	}

	result, err := Apply(file, []byte(src), []models.Fix{fix})
	require.NoError(t, err)
	assert.Equal(t, src, string(result.Source))
	assert.Len(t, result.Skipped, 1)
}

func TestApply_EmptyFixIsNoOp(t *testing.T) {
	src := `func(name *string) {}`
	file := newFile(src)

	result, err := Apply(file, []byte(src), []models.Fix{{Title: "nothing"}})
	require.NoError(t, err)
	assert.Equal(t, src, string(result.Source))
	assert.Empty(t, result.Applied)
	assert.Empty(t, result.Skipped)
}

func TestApply_SizeMismatch(t *testing.T) {
	file := newFile("abc")

	_, err := Apply(file, []byte("abcdef"), nil)
	assert.ErrorIs(t, err, ErrSizeMismatch)

	_, err = Apply(nil, []byte("abc"), nil)
	assert.Error(t, err)
}
