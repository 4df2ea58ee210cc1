package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toyz/axonlint/internal/errors"
)

func TestParsePosition(t *testing.T) {
	testCases := []struct {
		input    string
		expected errors.SourceLocation
		wantErr  bool
	}{
		{input: "/src/app/main.go:12:4", expected: errors.SourceLocation{File: "/src/app/main.go", Line: 12, Column: 4}},
		{input: "main.go:7", expected: errors.SourceLocation{File: "main.go", Line: 7}},
		{input: `C:\src\main.go:3:9`, expected: errors.SourceLocation{File: `C:\src\main.go`, Line: 3, Column: 9}},
		{input: "main.go", expected: errors.SourceLocation{File: "main.go"}},
		{input: "-", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			loc, err := parsePosition(tc.input)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, loc)
		})
	}
}
