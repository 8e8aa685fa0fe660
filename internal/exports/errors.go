package exports

import "fmt"

// ParseError reports that a source file is not syntactically valid.
// Line and Column locate the first error node (1-indexed).
type ParseError struct {
	Language string
	Line     int
	Column   int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid %s syntax at line %d, column %d", e.Language, e.Line, e.Column)
}
