package core

import (
	"fmt"
	"strings"
)

// Default generation values.
const (
	DefaultTableName = "main"
	DefaultEngine    = "InnoDB"
	DefaultCharset   = "utf8"
	DefaultCollate   = "utf8_general_ci"
)

// IdentifierMode controls how JSON keys become SQL identifiers.
type IdentifierMode string

const (
	// IdentifiersRaw uses keys verbatim.
	IdentifiersRaw IdentifierMode = "raw"
	// IdentifiersQuoted wraps every identifier in the dialect's quote characters.
	IdentifiersQuoted IdentifierMode = "quoted"
	// IdentifiersNormalized folds keys to lowercase ASCII snake_case.
	IdentifiersNormalized IdentifierMode = "normalized"
)

// IdentifierModes lists the accepted identifier modes.
var IdentifierModes = []IdentifierMode{IdentifiersRaw, IdentifiersQuoted, IdentifiersNormalized}

// ParseIdentifierMode converts a config string into an IdentifierMode.
// An empty string selects IdentifiersRaw.
func ParseIdentifierMode(s string) (IdentifierMode, error) {
	if s == "" {
		return IdentifiersRaw, nil
	}
	for _, m := range IdentifierModes {
		if strings.EqualFold(s, string(m)) {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown identifier mode %q (expected one of %v)", s, IdentifierModes)
}

// TableOptions holds the MySQL-only storage clauses appended after the column list.
type TableOptions struct {
	Engine  string
	Charset string
	Collate string
}

// Options configures one generation pass. It is passed by value through
// every recursive call; nothing in the generators reads ambient state.
type Options struct {
	// Strict rejects null values (in objects and arrays) with an UnsupportedTypeError
	// instead of typing them as nullable text.
	Strict bool

	// IfNotExists emits CREATE TABLE IF NOT EXISTS.
	IfNotExists bool

	// TextWidth overrides the dialect's default text width (0 keeps the default).
	TextWidth int

	// Identifiers selects how keys are turned into identifiers.
	Identifiers IdentifierMode

	// MySQL holds the table options used by dialects that support them.
	MySQL TableOptions
}

// DefaultOptions returns the lenient generation policy.
func DefaultOptions() Options {
	return Options{
		IfNotExists: true,
		Identifiers: IdentifiersRaw,
		MySQL: TableOptions{
			Engine:  DefaultEngine,
			Charset: DefaultCharset,
			Collate: DefaultCollate,
		},
	}
}

// WithDefaults fills unset table options with their defaults.
func (o Options) WithDefaults() Options {
	if o.Identifiers == "" {
		o.Identifiers = IdentifiersRaw
	}
	if o.MySQL.Engine == "" {
		o.MySQL.Engine = DefaultEngine
	}
	if o.MySQL.Charset == "" {
		o.MySQL.Charset = DefaultCharset
	}
	if o.MySQL.Collate == "" {
		o.MySQL.Collate = DefaultCollate
	}
	return o
}

// IDColumn is the generated primary key column of every table.
const IDColumn = "id"

// ForeignKeyColumn names the column linking a child row to its parent table.
func ForeignKeyColumn(parent string) string {
	return parent + "_" + IDColumn
}

// ChildName composes a child table name from its parent and key.
// The root table has no parent and keeps its own name.
func ChildName(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "_" + name
}
