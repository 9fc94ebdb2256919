// Package schema synthesizes CREATE TABLE statements from the shape of a
// JSON object.
//
// Synthesis runs in two steps. Plan walks the document and produces a
// dialect-independent list of tables, parents before children. Each Table
// is then rendered for a dialect. Nested objects and non-empty arrays become
// child tables linked to their parent by a <parent>_id foreign key; arrays
// are shaped from their first element only.
package schema

import (
	"strings"

	"github.com/leapstack-labs/jsonsql/pkg/core"
	"github.com/leapstack-labs/jsonsql/pkg/dialect"
	"github.com/leapstack-labs/jsonsql/pkg/document"
	"github.com/leapstack-labs/jsonsql/pkg/ident"
)

// Column is a data column derived from one object member.
type Column struct {
	Name string        `json:"name"`
	Kind document.Kind `json:"kind"`
}

// Table is one synthesized table definition.
type Table struct {
	Name    string   `json:"name"`
	Parent  string   `json:"parent,omitempty"`
	Path    string   `json:"path"`
	Columns []Column `json:"columns"`
}

// ForeignKey returns the name of the column referencing the parent, or ""
// for the root table.
func (t *Table) ForeignKey() string {
	if t.Parent == "" {
		return ""
	}
	return core.ForeignKeyColumn(t.Parent)
}

// generatedColumns returns the key columns every table gets regardless of
// the document.
func generatedColumns(parent string) []string {
	if parent == "" {
		return []string{core.IDColumn}
	}
	return []string{core.IDColumn, core.ForeignKeyColumn(parent)}
}

// CreateStatement renders the table as a single CREATE TABLE statement.
func (t *Table) CreateStatement(d *dialect.Dialect, opts core.Options) string {
	names := ident.NewNamer(opts.Identifiers, d)

	var b strings.Builder
	b.WriteString("CREATE TABLE ")
	if opts.IfNotExists {
		b.WriteString("IF NOT EXISTS ")
	}
	b.WriteString(names.Quote(t.Name))
	b.WriteString(" (")
	b.WriteString(d.PrimaryKey)

	if fk := t.ForeignKey(); fk != "" {
		b.WriteString(", ")
		b.WriteString(names.Quote(fk))
		b.WriteString(" ")
		b.WriteString(d.Types.Integer)
		b.WriteString(" not null")
	}

	for _, c := range t.Columns {
		b.WriteString(", ")
		b.WriteString(names.Quote(c.Name))
		b.WriteString(" ")
		b.WriteString(d.ColumnType(c.Kind, opts.TextWidth))
		b.WriteString(" null default null")
	}

	if fk := t.ForeignKey(); fk != "" {
		b.WriteString(", FOREIGN KEY (")
		b.WriteString(names.Quote(fk))
		b.WriteString(") REFERENCES ")
		b.WriteString(names.Quote(t.Parent))
		b.WriteString("(id)")
	}

	b.WriteString(")")
	b.WriteString(d.TableSuffix(opts.MySQL))
	b.WriteString(";")
	return b.String()
}

// DropStatement renders a DROP TABLE IF EXISTS statement for the table.
func (t *Table) DropStatement(d *dialect.Dialect, opts core.Options) string {
	return "DROP TABLE IF EXISTS " + ident.NewNamer(opts.Identifiers, d).Quote(t.Name) + ";"
}
