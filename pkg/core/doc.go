// Package core defines the shared language of sqlinput.
//
// This package contains:
//   - Data source configuration (DataSourceConfig)
//   - Raw result types handed from the database layer to row decoders (Row, Rows)
//   - The database adapter contract (Adapter)
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
