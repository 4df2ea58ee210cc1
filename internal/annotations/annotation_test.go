package annotations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name      string
		comment   string
		kind      string
		method    string
		path      string
		flags     map[string]string
		wantError bool
	}{
		{
			name:    "controller",
			comment: "//axon::controller",
			kind:    Controller,
			flags:   map[string]string{},
		},
		{
			name:    "route with optional parameter",
			comment: "//axon::route GET /users/{id?}",
			kind:    Route,
			method:  "GET",
			path:    "/users/{id?}",
			flags:   map[string]string{},
		},
		{
			name:    "route with typed parameter and flags",
			comment: "// axon::route post /users/{id:int}/posts/{slug?} -Middleware=Auth,Logging -PassContext",
			kind:    Route,
			method:  "POST",
			path:    "/users/{id:int}/posts/{slug?}",
			flags:   map[string]string{"Middleware": "Auth,Logging", "PassContext": ""},
		},
		{
			name:      "route missing path",
			comment:   "//axon::route GET",
			wantError: true,
		},
		{
			name:      "not an annotation",
			comment:   "// regular comment",
			wantError: true,
		},
		{
			name:      "missing kind",
			comment:   "//axon::",
			wantError: true,
		},
	}

	parser := NewParser()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			annotation, err := parser.Parse(tc.comment)
			if tc.wantError {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.kind, annotation.Kind)
			assert.Equal(t, tc.method, annotation.Method())
			assert.Equal(t, tc.path, annotation.Path())
			assert.Equal(t, tc.flags, annotation.Flags)
		})
	}
}

func TestFind(t *testing.T) {
	parser := NewParser()
	comments := []string{
		"// GetUser returns a user",
		"//axon::route GET",
		"//axon::route GET /users/{id?}",
	}

	annotation, ok := parser.Find(comments, Route)
	require.True(t, ok)
	assert.Equal(t, "/users/{id?}", annotation.Path())

	_, ok = parser.Find(comments, Controller)
	assert.False(t, ok)
}

func TestIsAnnotation(t *testing.T) {
	assert.True(t, IsAnnotation("//axon::route GET /"))
	assert.True(t, IsAnnotation("// axon::controller"))
	assert.False(t, IsAnnotation("// axon controller"))
}
