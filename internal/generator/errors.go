package generator

import (
	"errors"
	"fmt"

	"github.com/mvp-joe/exportgen/internal/exports"
)

// MissingSourceError reports a configured source file that does not exist.
// It is a warning: the module is skipped and the run continues.
type MissingSourceError struct {
	Module string
	Path   string
}

func (e *MissingSourceError) Error() string {
	return fmt.Sprintf("%s not found", e.Path)
}

// SourceError reports a source file that could not be read or parsed.
type SourceError struct {
	Module string
	Path   string
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// WriteError reports a manifest that could not be written.
type WriteError struct {
	Module string
	Path   string
	Err    error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// StaleError reports, in check mode, a manifest that differs from what would be generated.
type StaleError struct {
	Module string
	Path   string
	Absent bool
}

func (e *StaleError) Error() string {
	if e.Absent {
		return fmt.Sprintf("%s is missing", e.Path)
	}
	return fmt.Sprintf("%s is out of date", e.Path)
}

// SkippedIndexError reports an index that was not written because one of its
// modules produced no manifest in this run. It is a warning.
type SkippedIndexError struct {
	Index  string
	Module string
}

func (e *SkippedIndexError) Error() string {
	return fmt.Sprintf("index %s: module %s was not generated", e.Index, e.Module)
}

// IsWarning reports whether err only warrants a warning.
func IsWarning(err error) bool {
	var missing *MissingSourceError
	var skipped *SkippedIndexError
	return errors.As(err, &missing) || errors.As(err, &skipped)
}

// IsParseError reports whether err wraps an *exports.ParseError.
func IsParseError(err error) bool {
	var parseErr *exports.ParseError
	return errors.As(err, &parseErr)
}
