package exports

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for PythonExtractor:
// - Exports BaseModel, Enum and RootModel subclasses in source order
// - Skips names starting with an underscore even with a recognized base
// - Resolves qualified (pydantic.BaseModel) and parameterized (RootModel[...]) bases
// - First recognized base decides the kind; later bases are not consulted
// - Ignores keyword arguments such as metaclass=
// - Unrecognized or aliased bases are not exported
// - Duplicate declarations collapse to the first occurrence
// - Nested classes and function-local classes are not top-level
// - Classes inside module-level if blocks and decorated classes are top-level
// - Empty source yields an empty extraction
// - Invalid syntax yields a *ParseError and no result, including input the
//   grammar recovers from silently (unindented bodies, Python 2 statements)
// - One-line and properly indented bodies are accepted
// - Generated fixture files extract the expected symbols

func extractPython(t *testing.T, source string) *Extraction {
	t.Helper()

	result, err := NewPythonExtractor().Extract(context.Background(), []byte(source))
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func TestPythonExtractor_ExportsRecognizedBasesInOrder(t *testing.T) {
	t.Parallel()

	source := `class Job(BaseModel):
    id: str


class JobCreate(BaseModel):
    title: str


class Grade(Enum):
    g7 = 'Grade 7'


class _Internal(BaseModel):
    pass
`
	result := extractPython(t, source)

	assert.Equal(t, []string{"Job", "JobCreate", "Grade"}, result.Names)
	assert.False(t, result.NameSet["_Internal"])
	assert.Len(t, result.NameSet, 3)

	require.Len(t, result.Declarations, 3)
	assert.Equal(t, KindModel, result.Declarations[0].Kind)
	assert.Equal(t, 1, result.Declarations[0].Line)
	assert.Equal(t, 5, result.Declarations[1].Line)
	assert.Equal(t, KindEnumeration, result.Declarations[2].Kind)
	assert.Equal(t, 9, result.Declarations[2].Line)
	assert.Equal(t, 2, result.Declarations[2].Order)
}

func TestPythonExtractor_BaseForms(t *testing.T) {
	t.Parallel()

	source := `import pydantic
from typing import List


class Qualified(pydantic.BaseModel):
    pass


class Wrapped(RootModel[List[str]]):
    root: List[str]


class QualifiedWrapped(pydantic.RootModel[int]):
    root: int


class StrEnum(str, Enum):
    a = 'a'


class WithMeta(BaseModel, metaclass=Meta):
    pass


class ParamOnly(Generic[BaseModel]):
    pass


class Aliased(Model):
    pass


class Plain:
    pass
`
	result := extractPython(t, source)

	assert.Equal(t, []string{"Qualified", "Wrapped", "QualifiedWrapped", "StrEnum", "WithMeta"}, result.Names)

	kinds := map[string]SymbolKind{}
	for _, d := range result.Declarations {
		kinds[d.Name] = d.Kind
	}
	assert.Equal(t, KindModel, kinds["Qualified"])
	assert.Equal(t, KindRootWrapper, kinds["Wrapped"])
	assert.Equal(t, KindRootWrapper, kinds["QualifiedWrapped"])
	assert.Equal(t, KindEnumeration, kinds["StrEnum"])
	assert.Equal(t, KindModel, kinds["WithMeta"])

	// Bases are kept as written, keyword arguments excluded
	require.Len(t, result.Declarations, 5)
	assert.Equal(t, []string{"str", "Enum"}, result.Declarations[3].Bases)
	assert.Equal(t, []string{"BaseModel"}, result.Declarations[4].Bases)
}

func TestPythonExtractor_FirstRecognizedBaseWins(t *testing.T) {
	t.Parallel()

	result := extractPython(t, "class Mixed(Enum, BaseModel):\n    pass\n")

	require.Len(t, result.Declarations, 1)
	assert.Equal(t, KindEnumeration, result.Declarations[0].Kind)
}

func TestPythonExtractor_NoRecognizedBases(t *testing.T) {
	t.Parallel()

	source := `class Job(Model):
    pass


class Helper(object):
    pass


class Bare:
    pass
`
	result := extractPython(t, source)

	assert.Empty(t, result.Names)
	assert.Empty(t, result.Declarations)
}

func TestPythonExtractor_DuplicatesCollapseToFirst(t *testing.T) {
	t.Parallel()

	source := `class Job(BaseModel):
    pass


class Grade(Enum):
    a = 'a'


class Job(BaseModel):
    id: str
`
	result := extractPython(t, source)

	assert.Equal(t, []string{"Job", "Grade"}, result.Names)
	require.Len(t, result.Declarations, 2)
	assert.Equal(t, 1, result.Declarations[0].Line)
}

func TestPythonExtractor_TopLevelOnly(t *testing.T) {
	t.Parallel()

	source := `from typing import TYPE_CHECKING


class Outer(BaseModel):
    class Inner(BaseModel):
        pass


def factory():
    class Local(BaseModel):
        pass
    return Local


if TYPE_CHECKING:
    class Conditional(BaseModel):
        pass


@dataclass_transform()
class Decorated(BaseModel):
    pass
`
	result := extractPython(t, source)

	assert.Equal(t, []string{"Outer", "Conditional", "Decorated"}, result.Names)
}

func TestPythonExtractor_EmptySource(t *testing.T) {
	t.Parallel()

	result := extractPython(t, "")

	assert.Empty(t, result.Names)
	assert.NotNil(t, result.NameSet)
}

func TestPythonExtractor_InvalidSyntax(t *testing.T) {
	t.Parallel()

	source, err := os.ReadFile("../../testdata/models/python/broken_models.py")
	require.NoError(t, err)

	result, err := NewPythonExtractor().Extract(context.Background(), source)
	require.Error(t, err)
	assert.Nil(t, result)

	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "python", parseErr.Language)
	assert.Greater(t, parseErr.Line, 0)
	assert.Greater(t, parseErr.Column, 0)
	assert.Contains(t, err.Error(), "invalid python syntax")

	tests := []struct {
		name   string
		source string
		line   int
	}{
		{
			name:   "unindented class body",
			source: "class A(BaseModel):\npass\n",
		},
		{
			name:   "nested body not indented past header",
			source: "class A(BaseModel):\n    x: int\n\n    class B(BaseModel):\n    y: int\n",
		},
		{
			name:   "comment-only body",
			source: "class A(BaseModel):\n    # nothing here\n",
		},
		{
			name:   "python 2 print",
			source: "print 'hi'\n",
			line:   1,
		},
		{
			name:   "python 2 exec",
			source: "class A(BaseModel):\n    pass\n\nexec \"x = 1\"\n",
			line:   4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := NewPythonExtractor().Extract(context.Background(), []byte(tt.source))
			require.Error(t, err)
			assert.Nil(t, result)

			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr))
			assert.Equal(t, "python", parseErr.Language)
			assert.Greater(t, parseErr.Line, 0)
			if tt.line > 0 {
				assert.Equal(t, tt.line, parseErr.Line)
				assert.Equal(t, 1, parseErr.Column)
			}
		})
	}
}

func TestPythonExtractor_OneLineBodies(t *testing.T) {
	t.Parallel()

	source := `class A(BaseModel): pass


class B(str, Enum):
    X = "x"


if True:
    class C(BaseModel):
        pass
else:
    class D(BaseModel): pass
`
	result := extractPython(t, source)

	assert.Equal(t, []string{"A", "B", "C", "D"}, result.Names)
}

func TestPythonExtractor_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewPythonExtractor().Extract(ctx, []byte("class Job(BaseModel):\n    pass\n"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPythonExtractor_SearchFixture(t *testing.T) {
	t.Parallel()

	source, err := os.ReadFile("../../testdata/models/python/search_models.py")
	require.NoError(t, err)

	result, err := NewPythonExtractor().Extract(context.Background(), source)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"JobSearchRequest",
		"FixedLocation",
		"OverseasLocation",
		"FixedLocations",
		"OverseasLocations",
		"Location",
		"Grade",
		"Approach",
		"Job",
		"JobCreate",
		"JobResultItem",
		"JobSearchResponse",
		"Error",
	}, result.Names)

	// Nested Highlight, function-local Cached and private _SearchBase are never exported
	assert.False(t, result.NameSet["Highlight"])
	assert.False(t, result.NameSet["Cached"])
	assert.False(t, result.NameSet["_SearchBase"])
	assert.False(t, result.NameSet["SearchClient"])
}

func TestPythonExtractor_JobsFixture(t *testing.T) {
	t.Parallel()

	source, err := os.ReadFile("../../testdata/models/python/jobs_models.py")
	require.NoError(t, err)

	result, err := NewPythonExtractor().Extract(context.Background(), source)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Approach",
		"DCStatus",
		"FixedLocations",
		"OverseasLocations",
		"Location1",
		"Location2",
		"Location",
		"Salary",
		"Contacts",
		"Job",
		"JobCreate",
		"JobUpdate",
		"JobSummary",
	}, result.Names)
}

func TestPythonExtractor_Language(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "python", NewPythonExtractor().Language())
}
