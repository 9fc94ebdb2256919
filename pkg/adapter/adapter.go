// Package adapter provides the database adapter contract used to apply
// generated scripts to live databases.
//
// This package contains the public contract that all database adapters must implement.
// Concrete adapter implementations are in pkg/adapters/ subdirectories.
package adapter

import (
	"context"

	"github.com/leapstack-labs/jsonsql/pkg/core"
)

// Config is an alias for core.AdapterConfig.
type Config = core.AdapterConfig

// Adapter defines the interface that all database adapters must implement.
type Adapter interface {
	// Connect establishes a connection to the database using the provided config.
	Connect(ctx context.Context, cfg Config) error

	// Close closes the database connection and releases resources.
	Close() error

	// Exec executes a SQL statement that doesn't return rows.
	Exec(ctx context.Context, sql string) error

	// ExecScript runs statements in order on a single connection inside one
	// transaction. The generated inserts link child rows with
	// SELECT MAX(id), so they must never be spread over pooled connections.
	ExecScript(ctx context.Context, statements []string) error

	// Migrate applies m as a versioned goose migration.
	Migrate(ctx context.Context, m Migration) (*MigrationResult, error)

	// DialectName returns the name of the SQL dialect scripts must be generated in.
	DialectName() string
}
