// Package adapter provides the database adapter contract and registry.
//
// Concrete adapter implementations live in pkg/adapters/ subdirectories and
// register themselves from init(). Import them with a blank identifier:
//
//	import _ "github.com/leapstack-labs/sqlinput/pkg/adapters/postgres"
package adapter

import "github.com/leapstack-labs/sqlinput/pkg/core"

// Type aliases so adapter implementations only need this package.
type (
	// Adapter is an alias for core.Adapter.
	Adapter = core.Adapter

	// Config is an alias for core.DataSourceConfig.
	Config = core.DataSourceConfig

	// Rows is an alias for core.Rows.
	Rows = core.Rows
)
