package errors

import (
	stderrors "errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseError(t *testing.T) {
	err := New(ConfigurationErrorCode, "bad value").
		WithLocation(SourceLocation{File: ".axonlint.yaml", Line: 3}).
		WithContext("key", "severity").
		WithSuggestion("use one of info, warning, error")

	assert.Equal(t, ".axonlint.yaml:3: bad value", err.Error())
	assert.Equal(t, ConfigurationErrorCode, err.ErrorCode())
	assert.Equal(t, "severity", err.Context()["key"])
	assert.Equal(t, []string{"use one of info, warning, error"}, err.Suggestions())
}

func TestWrap(t *testing.T) {
	cause := fs.ErrNotExist
	err := WrapFileSystemError("read", "main.go", cause)

	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Equal(t, FileSystemErrorCode, err.ErrorCode())
	assert.Contains(t, err.Error(), "failed to read file 'main.go'")
	assert.Equal(t, "main.go", err.Context()["path"])

	wrapped := Wrapf(FixConflictErrorCode, cause, "apply %d fixes", 2)
	assert.Equal(t, "apply 2 fixes: file does not exist", wrapped.Error())
	assert.Equal(t, cause, wrapped.Unwrap())
	assert.Empty(t, wrapped.Suggestions())
}

func TestSourceLocation(t *testing.T) {
	testCases := []struct {
		loc      SourceLocation
		expected string
	}{
		{SourceLocation{}, "unknown location"},
		{SourceLocation{File: "a.go"}, "a.go"},
		{SourceLocation{File: "a.go", Line: 2}, "a.go:2"},
		{SourceLocation{File: "a.go", Line: 2, Column: 5}, "a.go:2:5"},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, tc.loc.String())
	}
}

func TestMultipleErrors(t *testing.T) {
	var multiple *MultipleErrors
	assert.NoError(t, multiple.ErrOrNil())

	AddToMultiple(&multiple, NewValidationError("concurrency", "a positive number", "0"))
	AddToMultiple(&multiple, WrapLoadError([]string{"./..."}, fs.ErrPermission))

	require.Equal(t, 2, multiple.Count())
	assert.True(t, multiple.HasCode(LoadErrorCode))
	assert.False(t, multiple.HasCode(FixConflictErrorCode))
	assert.Equal(t, ValidationErrorCode, multiple.Errors[0].ErrorCode())
	assert.Contains(t, multiple.Error(), "multiple errors (2 total)")

	err := multiple.ErrOrNil()
	assert.ErrorIs(t, err, fs.ErrPermission)

	var validation *ValidationError
	require.True(t, stderrors.As(err, &validation))
	assert.Equal(t, "concurrency", validation.Field)
}

func TestFixConflictError(t *testing.T) {
	err := NewFixConflictError("main.go", "Make route parameters nullable", "source changed")

	assert.Equal(t, FixConflictErrorCode, err.ErrorCode())
	assert.Equal(t, "main.go", err.Location().File)
	assert.Contains(t, err.Error(), "source changed")
	assert.NotEmpty(t, err.Suggestions())
}
