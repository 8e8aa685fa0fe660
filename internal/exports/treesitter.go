package exports

import (
	"context"
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// treeSitterParser provides common tree-sitter parsing functionality.
type treeSitterParser struct {
	language *sitter.Language
	lang     string

	// invalid reports a node the grammar accepted but the language does not,
	// or nil. Optional.
	invalid func(root *sitter.Node) *sitter.Node
}

// newTreeSitterParser creates a new tree-sitter parser for the given language.
func newTreeSitterParser(language *sitter.Language, lang string) *treeSitterParser {
	return &treeSitterParser{
		language: language,
		lang:     lang,
	}
}

// Language returns the language name the parser was created for.
func (p *treeSitterParser) Language() string {
	return p.lang
}

// parse builds a syntax tree for source. Trees containing error or missing
// nodes, or a node flagged by invalid, are rejected with a *ParseError, so
// callers only ever walk valid trees.
// The caller must Close the returned tree.
func (p *treeSitterParser) parse(ctx context.Context, source []byte) (*sitter.Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	parser := sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(p.language); err != nil {
		return nil, fmt.Errorf("failed to load %s grammar: %w", p.lang, err)
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, &ParseError{Language: p.lang, Line: 1, Column: 1}
	}

	root := tree.RootNode()
	if root.HasError() {
		parseErr := &ParseError{Language: p.lang, Line: 1, Column: 1}
		if bad := firstErrorNode(root); bad != nil {
			parseErr = p.errorAt(bad)
		}
		tree.Close()
		return nil, parseErr
	}

	if p.invalid != nil {
		if bad := p.invalid(root); bad != nil {
			parseErr := p.errorAt(bad)
			tree.Close()
			return nil, parseErr
		}
	}

	return tree, nil
}

// errorAt returns a *ParseError positioned at node.
func (p *treeSitterParser) errorAt(node *sitter.Node) *ParseError {
	pos := node.StartPosition()
	return &ParseError{
		Language: p.lang,
		Line:     int(pos.Row) + 1,
		Column:   int(pos.Column) + 1,
	}
}

// firstErrorNode returns the first ERROR or MISSING node in document order.
func firstErrorNode(root *sitter.Node) *sitter.Node {
	var found *sitter.Node
	walkTree(root, func(n *sitter.Node) bool {
		if found != nil {
			return false
		}
		if n.IsError() || n.IsMissing() {
			found = n
			return false
		}
		return n.HasError()
	})
	return found
}

// extractNodeText extracts the text content of a tree-sitter node.
func extractNodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}

// walkTree recursively walks a tree-sitter tree and calls the visitor for each node.
// Returning false from the visitor skips the node's children.
func walkTree(node *sitter.Node, visitor func(*sitter.Node) bool) {
	if node == nil {
		return
	}

	if !visitor(node) {
		return
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		walkTree(child, visitor)
	}
}

// namedChildren returns the named children of node in order.
func namedChildren(node *sitter.Node) []*sitter.Node {
	if node == nil {
		return nil
	}

	results := make([]*sitter.Node, 0, node.NamedChildCount())
	for i := 0; i < int(node.NamedChildCount()); i++ {
		results = append(results, node.NamedChild(uint(i)))
	}
	return results
}

func lineOf(node *sitter.Node) int {
	return int(node.StartPosition().Row) + 1
}
