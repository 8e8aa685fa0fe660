package exports

import "context"

// SymbolKind classifies a declaration found in a data-model source file.
type SymbolKind int

const (
	// KindNotExported marks a declaration that does not belong in a manifest.
	KindNotExported SymbolKind = iota
	// KindModel is a class deriving from BaseModel.
	KindModel
	// KindEnumeration is a class deriving from Enum.
	KindEnumeration
	// KindRootWrapper is a class deriving from RootModel (usually RootModel[...]).
	KindRootWrapper
	// KindSchema is an entry of components.schemas in a TypeScript schema file.
	KindSchema
)

// String returns the lowercase name of the kind.
func (k SymbolKind) String() string {
	switch k {
	case KindModel:
		return "model"
	case KindEnumeration:
		return "enum"
	case KindRootWrapper:
		return "root"
	case KindSchema:
		return "schema"
	default:
		return "none"
	}
}

// Declaration is one exported type declaration.
type Declaration struct {
	Name  string
	Bases []string   // base references as written, in declaration order
	Kind  SymbolKind // classification that admitted the declaration
	Order int        // position among all top-level declarations in the file
	Line  int        // 1-indexed
}

// Extraction is the ordered, de-duplicated result of extracting one file.
type Extraction struct {
	Declarations []Declaration
	Names        []string
	NameSet      map[string]bool
}

func newExtraction() *Extraction {
	return &Extraction{
		Declarations: []Declaration{},
		Names:        []string{},
		NameSet:      make(map[string]bool),
	}
}

// add appends decl unless its name was already seen. Reports whether it was added.
func (e *Extraction) add(decl Declaration) bool {
	if e.NameSet[decl.Name] {
		return false
	}
	e.NameSet[decl.Name] = true
	e.Names = append(e.Names, decl.Name)
	e.Declarations = append(e.Declarations, decl)
	return true
}

// Extractor extracts exported declarations from the text of one source file.
type Extractor interface {
	// Extract parses source and returns its exported declarations in
	// first-appearance order. A syntactically invalid source yields a *ParseError.
	Extract(ctx context.Context, source []byte) (*Extraction, error)

	// Language returns the source language handled by the extractor.
	Language() string
}

// Manifest is the public surface of one module, ready to be rendered.
type Manifest struct {
	Module     string   // module identifier, e.g. "search"
	ImportPath string   // python: dotted module path; typescript: import specifier
	SchemaPath string   // schema the models were generated from, for the docstring
	Symbols    []string // exported names in emission order
}
