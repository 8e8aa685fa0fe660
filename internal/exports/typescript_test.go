package exports

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for TypeScriptExtractor:
// - Extracts components.schemas keys in declaration order
// - Ignores paths/operations interfaces and nested object types
// - Quoted keys are unquoted; keys that are not identifiers are skipped
// - Supports components declared as a type alias
// - Files without components.schemas yield an empty extraction
// - Invalid syntax yields a *ParseError

func TestTypeScriptExtractor_SearchFixture(t *testing.T) {
	t.Parallel()

	source, err := os.ReadFile("../../testdata/models/typescript/search.ts")
	require.NoError(t, err)

	result, err := NewTypeScriptExtractor().Extract(context.Background(), source)
	require.NoError(t, err)

	assert.Equal(t, []string{"JobSearchRequest", "JobResultItem", "JobSearchResponse", "Grade", "Error"}, result.Names)
	for _, d := range result.Declarations {
		assert.Equal(t, KindSchema, d.Kind)
	}

	// Keys of nested objects and other interfaces are not schemas
	assert.False(t, result.NameSet["location"])
	assert.False(t, result.NameSet["searchJobs"])
	assert.False(t, result.NameSet["responses"])
}

func TestTypeScriptExtractor_QuotedKeys(t *testing.T) {
	t.Parallel()

	source := `export interface components {
    schemas: {
        "Job-Summary": { id: string };
        'Quoted': { id: string };
        Plain: { id: string };
        "2xx": { id: string };
    };
}
`
	result, err := NewTypeScriptExtractor().Extract(context.Background(), []byte(source))
	require.NoError(t, err)

	assert.Equal(t, []string{"Quoted", "Plain"}, result.Names)

	out := string(RenderTypeScript(Manifest{Module: "jobs", ImportPath: "../jobs", Symbols: result.Names}))
	assert.Contains(t, out, "export type Quoted = components['schemas']['Quoted'];\n")
	assert.Contains(t, out, "export type Plain = components['schemas']['Plain'];\n")
	assert.NotContains(t, out, `"`)
}

func TestTypeScriptExtractor_TypeAlias(t *testing.T) {
	t.Parallel()

	source := `export type components = {
    schemas: {
        Job: { id: string };
        _Hidden: { id: string };
        Grade: "a" | "b";
    };
};
`
	result, err := NewTypeScriptExtractor().Extract(context.Background(), []byte(source))
	require.NoError(t, err)

	assert.Equal(t, []string{"Job", "Grade"}, result.Names)
}

func TestTypeScriptExtractor_NoSchemas(t *testing.T) {
	t.Parallel()

	source := `export interface paths {
    "/health": { get: never };
}
`
	result, err := NewTypeScriptExtractor().Extract(context.Background(), []byte(source))
	require.NoError(t, err)

	assert.Empty(t, result.Names)
}

func TestTypeScriptExtractor_InvalidSyntax(t *testing.T) {
	t.Parallel()

	source := `export interface components {
    schemas: {
        Job: { id: string ;
`
	_, err := NewTypeScriptExtractor().Extract(context.Background(), []byte(source))
	require.Error(t, err)

	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "typescript", parseErr.Language)
}
