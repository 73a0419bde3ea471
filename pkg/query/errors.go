package query

import (
	"fmt"
	"strings"
)

// ConfigurationError is returned when a builder operation is called in a
// stage that does not allow it, or when Fetch runs with pieces missing.
type ConfigurationError struct {
	Op      string
	Stage   Stage
	Missing []string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: not allowed in stage %s", e.Op, e.Stage)
	if len(e.Missing) > 0 {
		fmt.Fprintf(&b, ": missing %s", strings.Join(e.Missing, ", "))
	}
	if e.Reason != "" {
		fmt.Fprintf(&b, ": %s", e.Reason)
	}
	return b.String()
}

// CardinalityError is returned by FetchOne when the result does not hold exactly one row.
type CardinalityError struct {
	Rows int
}

func (e *CardinalityError) Error() string {
	return fmt.Sprintf("expected exactly one row, got %d", e.Rows)
}

// ExecutionError wraps failures of the database layer or the row decoder.
type ExecutionError struct {
	Op  string
	Err error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("query %s failed: %v", e.Op, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }
