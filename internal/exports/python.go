package exports

import (
	"context"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

// recognizedBases maps the simple name of a base class to the kind it confers.
// Matching is purely textual: an aliased import (from pydantic import BaseModel as M)
// is not recognized.
var recognizedBases = map[string]SymbolKind{
	"BaseModel": KindModel,
	"Enum":      KindEnumeration,
	"RootModel": KindRootWrapper,
}

// nonPublicPrefix marks identifiers that are never exported.
const nonPublicPrefix = "_"

// pythonExtractor extracts pydantic models and enums from Python files.
type pythonExtractor struct {
	*treeSitterParser
}

// NewPythonExtractor creates an extractor for generated pydantic model files.
func NewPythonExtractor() Extractor {
	lang := sitter.NewLanguage(python.Language())
	parser := newTreeSitterParser(lang, "python")
	parser.invalid = invalidPythonNode
	return &pythonExtractor{
		treeSitterParser: parser,
	}
}

// python2Statements are statements the grammar still accepts for Python 2
// sources but which are syntax errors in Python 3.
var python2Statements = map[string]bool{
	"print_statement": true,
	"exec_statement":  true,
}

// invalidPythonNode returns the first node that tree-sitter recovered from
// without an ERROR node but that Python rejects:
//
//	print 'hi'            Python 2 statement
//	class A(BaseModel):   body not indented
//	pass
func invalidPythonNode(root *sitter.Node) *sitter.Node {
	var found *sitter.Node
	walkTree(root, func(n *sitter.Node) bool {
		if found != nil {
			return false
		}
		if python2Statements[n.Kind()] {
			found = n
			return false
		}
		if n.Kind() == "block" {
			if bad := badBlock(n); bad != nil {
				found = bad
				return false
			}
		}
		return true
	})
	return found
}

// badBlock checks that a block has a statement and, when it starts on a new
// line, that the statement is indented past its header.
func badBlock(block *sitter.Node) *sitter.Node {
	var first *sitter.Node
	for _, child := range namedChildren(block) {
		if child.Kind() != "comment" {
			first = child
			break
		}
	}
	if first == nil {
		return block
	}

	header := block.Parent()
	if header == nil {
		return nil
	}
	hp, fp := header.StartPosition(), first.StartPosition()
	if fp.Row > hp.Row && fp.Column <= hp.Column {
		return first
	}
	return nil
}

// Extract returns the public model, enum and root-model classes of source.
func (p *pythonExtractor) Extract(ctx context.Context, source []byte) (*Extraction, error) {
	tree, err := p.parse(ctx, source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	result := newExtraction()
	order := 0

	walkTree(tree.RootNode(), func(n *sitter.Node) bool {
		switch n.Kind() {
		case "class_definition":
			p.extractClass(n, source, order, result)
			order++
			return false // nested classes are not top-level declarations
		case "function_definition", "lambda":
			return false
		}
		return true
	})

	return result, nil
}

// extractClass classifies a class definition and records it if exported.
func (p *pythonExtractor) extractClass(node *sitter.Node, source []byte, order int, result *Extraction) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}

	name := extractNodeText(nameNode, source)
	if strings.HasPrefix(name, nonPublicPrefix) {
		return
	}

	bases, kind := p.classifyBases(node.ChildByFieldName("superclasses"), source)
	if kind == KindNotExported {
		return
	}

	result.add(Declaration{
		Name:  name,
		Bases: bases,
		Kind:  kind,
		Order: order,
		Line:  lineOf(node),
	})
}

// classifyBases returns the base references of a class in order and the kind
// conferred by the first recognized one.
func (p *pythonExtractor) classifyBases(argList *sitter.Node, source []byte) ([]string, SymbolKind) {
	bases := []string{}
	kind := KindNotExported

	for _, arg := range namedChildren(argList) {
		switch arg.Kind() {
		case "keyword_argument", "list_splat", "dictionary_splat", "comment":
			continue
		}

		bases = append(bases, extractNodeText(arg, source))
		if kind != KindNotExported {
			continue
		}
		if k, ok := recognizedBases[baseSimpleName(arg, source)]; ok {
			kind = k
		}
	}

	return bases, kind
}

// baseSimpleName resolves a base reference to its simple name:
//
//	BaseModel              -> BaseModel
//	pydantic.BaseModel     -> BaseModel
//	RootModel[List[Job]]   -> RootModel
//	pydantic.RootModel[X]  -> RootModel
func baseSimpleName(node *sitter.Node, source []byte) string {
	switch node.Kind() {
	case "identifier":
		return extractNodeText(node, source)
	case "attribute":
		return extractNodeText(node.ChildByFieldName("attribute"), source)
	case "subscript", "generic_type":
		value := node.ChildByFieldName("value")
		if value == nil {
			value = node.NamedChild(0)
		}
		if value == nil || value.Kind() == "subscript" {
			return ""
		}
		return baseSimpleName(value, source)
	}
	return ""
}
