package exports

import (
	"context"
	"log"
	"regexp"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

const (
	componentsName = "components"
	schemasName    = "schemas"
)

// identifierPattern matches names usable as a type alias. Reserved words are
// not checked; openapi-typescript never emits them as schema keys.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// typeScriptExtractor extracts schema names from openapi-typescript output,
// i.e. the keys of components.schemas.
type typeScriptExtractor struct {
	*treeSitterParser
}

// NewTypeScriptExtractor creates an extractor for openapi-typescript files.
func NewTypeScriptExtractor() Extractor {
	lang := sitter.NewLanguage(typescript.LanguageTypescript())
	return &typeScriptExtractor{
		treeSitterParser: newTreeSitterParser(lang, "typescript"),
	}
}

// Extract returns the schema names declared under components.schemas.
func (p *typeScriptExtractor) Extract(ctx context.Context, source []byte) (*Extraction, error) {
	tree, err := p.parse(ctx, source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	result := newExtraction()

	schemas := p.findSchemas(tree.RootNode(), source)
	if schemas == nil {
		return result, nil
	}

	for order, prop := range namedChildren(schemas) {
		if prop.Kind() != "property_signature" {
			continue
		}
		name := propertyName(prop.ChildByFieldName("name"), source)
		if name == "" || strings.HasPrefix(name, nonPublicPrefix) {
			continue
		}
		if !identifierPattern.MatchString(name) {
			log.Printf("typescript: skipping schema %q at line %d: not a valid identifier", name, lineOf(prop))
			continue
		}
		result.add(Declaration{
			Name:  name,
			Kind:  KindSchema,
			Order: order,
			Line:  lineOf(prop),
		})
	}

	return result, nil
}

// propertyName returns the key of a property signature, unquoting string keys
// such as "Job-Summary" or 'Quoted'.
func propertyName(node *sitter.Node, source []byte) string {
	name := extractNodeText(node, source)
	if node == nil || node.Kind() != "string" || len(name) < 2 {
		return name
	}
	if q := name[0]; (q == '"' || q == '\'') && name[len(name)-1] == q {
		return name[1 : len(name)-1]
	}
	return name
}

// findSchemas locates the object type of the schemas property of the top-level
// components interface or type alias.
func (p *typeScriptExtractor) findSchemas(root *sitter.Node, source []byte) *sitter.Node {
	for _, stmt := range namedChildren(root) {
		decl := stmt
		if stmt.Kind() == "export_statement" {
			decl = stmt.ChildByFieldName("declaration")
			if decl == nil {
				continue
			}
		}

		var body *sitter.Node
		switch decl.Kind() {
		case "interface_declaration":
			body = decl.ChildByFieldName("body")
		case "type_alias_declaration":
			body = decl.ChildByFieldName("value")
		default:
			continue
		}
		if extractNodeText(decl.ChildByFieldName("name"), source) != componentsName {
			continue
		}

		if schemas := propertyObjectType(body, schemasName, source); schemas != nil {
			return schemas
		}
	}
	return nil
}

// propertyObjectType returns the object type annotating property name of body.
func propertyObjectType(body *sitter.Node, name string, source []byte) *sitter.Node {
	for _, prop := range namedChildren(body) {
		if prop.Kind() != "property_signature" {
			continue
		}
		if propertyName(prop.ChildByFieldName("name"), source) != name {
			continue
		}
		annotation := prop.ChildByFieldName("type")
		for _, t := range namedChildren(annotation) {
			if t.Kind() == "object_type" {
				return t
			}
		}
	}
	return nil
}
