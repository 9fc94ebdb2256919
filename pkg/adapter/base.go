package adapter

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pressly/goose/v3"

	"github.com/leapstack-labs/jsonsql/pkg/core"
)

// BaseSQLAdapter provides common database/sql functionality for adapters.
// Embed this struct in concrete adapter implementations to get standard
// Close, Exec, ExecScript and Migrate implementations.
type BaseSQLAdapter struct {
	DB     *sql.DB
	Cfg    core.AdapterConfig
	Logger *slog.Logger

	// MigrationDialect selects the goose dialect used by Migrate.
	MigrationDialect goose.Dialect
}

// Close closes the database connection.
func (b *BaseSQLAdapter) Close() error {
	if b.DB != nil {
		if b.Logger != nil {
			b.Logger.Debug("closing database connection")
		}
		return b.DB.Close()
	}
	return nil
}

// Exec executes a SQL statement that doesn't return rows.
func (b *BaseSQLAdapter) Exec(ctx context.Context, sqlStr string) error {
	if b.DB == nil {
		return fmt.Errorf("database connection not established")
	}
	_, err := b.DB.ExecContext(ctx, sqlStr)
	if err != nil {
		return fmt.Errorf("failed to execute SQL: %w", err)
	}
	return nil
}

// ExecScript executes statements in order on one connection and one
// transaction. The first failing statement rolls the transaction back.
func (b *BaseSQLAdapter) ExecScript(ctx context.Context, statements []string) error {
	if b.DB == nil {
		return fmt.Errorf("database connection not established")
	}

	conn, err := b.DB.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer func() { _ = conn.Close() }()

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			_ = tx.Rollback()
			return &StatementError{Index: i, SQL: stmt, Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	b.logger().Debug("executed script", slog.Int("statements", len(statements)))
	return nil
}

// Migrate applies m through a goose provider. A migration whose version is
// already recorded in the goose version table is skipped.
func (b *BaseSQLAdapter) Migrate(ctx context.Context, m Migration) (*MigrationResult, error) {
	if b.DB == nil {
		return nil, fmt.Errorf("database connection not established")
	}
	if b.MigrationDialect == "" {
		return nil, fmt.Errorf("adapter does not support migrations")
	}

	dir, err := os.MkdirTemp("", "jsonsql-migrations-")
	if err != nil {
		return nil, fmt.Errorf("failed to create migration directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(dir) }()

	if err := os.WriteFile(filepath.Join(dir, m.Filename()), m.Source(), 0o600); err != nil {
		return nil, fmt.Errorf("failed to write migration: %w", err)
	}

	provider, err := goose.NewProvider(b.MigrationDialect, b.DB, os.DirFS(dir))
	if err != nil {
		return nil, fmt.Errorf("failed to create migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to run migration %d: %w", m.Version, err)
	}

	out := &MigrationResult{Version: m.Version}
	for _, r := range results {
		if r.Source != nil && r.Source.Version == m.Version {
			out.Applied = true
			out.Duration = r.Duration
		}
	}
	b.logger().Debug("migration finished",
		slog.Int64("version", m.Version),
		slog.Bool("applied", out.Applied))
	return out, nil
}

// IsConnected returns true if the database connection is established.
func (b *BaseSQLAdapter) IsConnected() bool {
	return b.DB != nil
}

func (b *BaseSQLAdapter) logger() *slog.Logger {
	if b.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return b.Logger
}

// StatementError reports the statement of a script that failed.
type StatementError struct {
	Index int
	SQL   string
	Err   error
}

func (e *StatementError) Error() string {
	return fmt.Sprintf("statement %d failed: %v\n  %s", e.Index+1, e.Err, e.SQL)
}

func (e *StatementError) Unwrap() error { return e.Err }
