package engine

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/leapstack-labs/jsonsql/pkg/adapter"
	"github.com/leapstack-labs/jsonsql/pkg/core"
	"github.com/leapstack-labs/jsonsql/pkg/dialect"
	"github.com/leapstack-labs/jsonsql/pkg/schema"
)

// Result is the outcome of one dialect pass. When Err is set no statements
// are present.
type Result struct {
	Dialect *dialect.Dialect
	Table   string
	Tables  []*schema.Table
	Schema  []string
	Inserts []string
	Err     error

	opts core.Options
}

// DDL returns the CREATE TABLE statements, one per line.
func (r Result) DDL() string {
	return strings.Join(r.Schema, "\n")
}

// DML returns the INSERT statements, one per line.
func (r Result) DML() string {
	return strings.Join(r.Inserts, "\n")
}

// Statements returns the full script in execution order.
func (r Result) Statements() []string {
	out := make([]string, 0, len(r.Schema)+len(r.Inserts))
	out = append(out, r.Schema...)
	return append(out, r.Inserts...)
}

// Migration renders the schema as a goose migration versioned by t. Tables
// are dropped children first.
func (r Result) Migration(t time.Time) adapter.Migration {
	down := make([]string, 0, len(r.Tables))
	for i := len(r.Tables) - 1; i >= 0; i-- {
		down = append(down, r.Tables[i].DropStatement(r.Dialect, r.opts))
	}
	return adapter.NewMigration(t, r.Table, r.Schema, down)
}

// Errors joins the errors of every failed pass, each prefixed with its
// dialect name. It returns nil when every pass succeeded.
func Errors(results []Result) error {
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.Dialect.Name, r.Err))
		}
	}
	return errors.Join(errs...)
}
