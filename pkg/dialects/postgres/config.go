// Package postgres provides the PostgreSQL SQL dialect definition.
// This package is pure Go with no database driver dependencies.
package postgres

import "github.com/leapstack-labs/jsonsql/pkg/core"

// Config is the PostgreSQL dialect configuration.
// This is pure data - consulted by schema synthesis and insert emission.
var Config = &core.DialectConfig{
	Name:        "postgres",
	DisplayName: "Postgres",
	Identifiers: core.IdentifierConfig{
		Quote:    `"`,
		QuoteEnd: `"`,
		Escape:   `""`,
	},
	PrimaryKey: "id serial primary key",
	Types: core.TypeNames{
		Integer:   "integer",
		Float:     "float",
		Boolean:   "boolean",
		Text:      "varchar",
		TextWidth: 65535,
		Date:      "date",
	},
	Booleans: core.BooleanLiterals{
		True:  "true",
		False: "false",
	},
	// Postgres has no ENGINE/CHARACTER SET table clauses
	SupportsTableOptions: false,
	EmptyInsert:          "DEFAULT VALUES",
	// standard_conforming_strings is on by default
	EscapeBackslash: false,
}
