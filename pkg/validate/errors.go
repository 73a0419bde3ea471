package validate

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/sqlinput/pkg/sqltree"
)

// SyntaxError is returned when the grammar parser rejects the text.
// Message is the parser's message, unchanged.
type SyntaxError struct {
	Fragment string
	Message  string
	Err      error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid SQL syntax: %s", e.Message)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// JoinError is returned when a JOIN keyword appears without any ON keyword.
type JoinError struct {
	Fragment string
}

func (e *JoinError) Error() string {
	return "Missing ON clause in JOIN"
}

// StructureError is returned when a SELECT was required but another
// statement kind was found.
type StructureError struct {
	Expected string
	Found    string
	Fragment string
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("expected %s, found %s", e.Expected, e.Found)
}

// PlacementError is returned for a subquery outside a WHERE or FROM clause.
type PlacementError struct {
	Clause   sqltree.Clause
	Fragment string
}

func (e *PlacementError) Error() string {
	if e.Clause == sqltree.ClauseNone {
		return fmt.Sprintf("subquery has no enclosing SELECT: (%s)", e.Fragment)
	}
	return fmt.Sprintf("subquery not allowed in %s clause, only in WHERE or FROM: (%s)", e.Clause, e.Fragment)
}

// IsValidationError reports whether err is one of the validation errors of this package.
func IsValidationError(err error) bool {
	var (
		syntaxErr    *SyntaxError
		joinErr      *JoinError
		structureErr *StructureError
		placementErr *PlacementError
	)
	return errors.As(err, &syntaxErr) || errors.As(err, &joinErr) ||
		errors.As(err, &structureErr) || errors.As(err, &placementErr)
}
