package core

import (
	"database/sql"
	"fmt"
)

// Row is one raw result row: ordered column names and their values.
// Byte slices returned by drivers are converted to strings.
type Row struct {
	Columns []string
	Values  []any
}

// Get returns the value of the named column.
func (r Row) Get(column string) (any, bool) {
	for i, c := range r.Columns {
		if c == column {
			return r.Values[i], true
		}
	}
	return nil, false
}

// Map returns the row as a column name to value map.
func (r Row) Map() map[string]any {
	m := make(map[string]any, len(r.Columns))
	for i, c := range r.Columns {
		m[c] = r.Values[i]
	}
	return m
}

// Rows wraps sql.Rows to provide a consistent interface.
type Rows struct {
	*sql.Rows
}

// Each scans every remaining row and calls fn with it.
// Rows are closed when Each returns.
func (r *Rows) Each(fn func(Row) error) error {
	defer func() { _ = r.Close() }()

	cols, err := r.Columns()
	if err != nil {
		return fmt.Errorf("failed to read columns: %w", err)
	}

	for r.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := r.Scan(ptrs...); err != nil {
			return fmt.Errorf("failed to scan row: %w", err)
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		if err := fn(Row{Columns: cols, Values: values}); err != nil {
			return err
		}
	}
	return r.Err()
}

// All collects every remaining row.
func (r *Rows) All() ([]Row, error) {
	var out []Row
	err := r.Each(func(row Row) error {
		out = append(out, row)
		return nil
	})
	return out, err
}
