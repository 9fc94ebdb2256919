// Package dialect provides SQL dialect fragments for schema synthesis and
// insert emission.
//
// This package contains the public contract for dialect definitions. Concrete
// dialects (sqlite, mysql, postgres) are registered from pkg/dialects/*/
// packages in their init() functions.
package dialect

import (
	"strconv"
	"strings"

	"github.com/leapstack-labs/jsonsql/pkg/core"
	"github.com/leapstack-labs/jsonsql/pkg/document"
)

// Dialect wraps a static DialectConfig with lookup helpers.
// All methods are pure and never fail.
type Dialect struct {
	*core.DialectConfig
}

// New creates a dialect from its configuration.
func New(cfg *core.DialectConfig) *Dialect {
	return &Dialect{DialectConfig: cfg}
}

// TextType returns the text column type with a width.
// A width of 0 uses the dialect default.
func (d *Dialect) TextType(width int) string {
	if width <= 0 {
		width = d.Types.TextWidth
	}
	if width <= 0 {
		return d.Types.Text
	}
	return d.Types.Text + "(" + strconv.Itoa(width) + ")"
}

// ColumnType returns the column type for a scalar kind. Null values are
// typed as text; callers decide beforehand whether nulls are allowed.
func (d *Dialect) ColumnType(kind document.Kind, textWidth int) string {
	switch kind {
	case document.KindInteger:
		return d.Types.Integer
	case document.KindFloat:
		return d.Types.Float
	case document.KindBoolean:
		return d.Types.Boolean
	case document.KindDate:
		return d.Types.Date
	default:
		return d.TextType(textWidth)
	}
}

// BoolLiteral spells a boolean value for INSERT statements.
func (d *Dialect) BoolLiteral(b bool) string {
	if b {
		return d.Booleans.True
	}
	return d.Booleans.False
}

// StringLiteral returns s as a single-quoted SQL literal with embedded
// quotes doubled (and backslashes doubled where the dialect needs it).
func (d *Dialect) StringLiteral(s string) string {
	if d.EscapeBackslash {
		s = strings.ReplaceAll(s, `\`, `\\`)
	}
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// QuoteIdentifier wraps name in the dialect's identifier quotes.
func (d *Dialect) QuoteIdentifier(name string) string {
	q, end, esc := d.Identifiers.Quote, d.Identifiers.QuoteEnd, d.Identifiers.Escape
	if end == "" {
		end = q
	}
	if esc != "" && end != "" {
		name = strings.ReplaceAll(name, end, esc)
	}
	return q + name + end
}

// TableSuffix returns the clauses written between the closing parenthesis
// of a CREATE TABLE and its semicolon. Dialects without table options return "".
func (d *Dialect) TableSuffix(opts core.TableOptions) string {
	if !d.SupportsTableOptions {
		return ""
	}
	var b strings.Builder
	if opts.Engine != "" {
		b.WriteString(" ENGINE=")
		b.WriteString(opts.Engine)
	}
	if opts.Charset != "" {
		b.WriteString(" CHARACTER SET ")
		b.WriteString(opts.Charset)
	}
	if opts.Collate != "" {
		b.WriteString(" COLLATE ")
		b.WriteString(opts.Collate)
	}
	return b.String()
}

// Header returns the comment line introducing this dialect's script block.
func (d *Dialect) Header() string {
	name := d.DisplayName
	if name == "" {
		name = d.Name
	}
	return "-- " + name
}
