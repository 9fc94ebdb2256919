// Package sqlite provides the SQLite SQL dialect definition.
package sqlite

import "github.com/leapstack-labs/jsonsql/pkg/core"

// Config is the SQLite dialect configuration.
var Config = &core.DialectConfig{
	Name:        "sqlite",
	DisplayName: "SQLite",
	Identifiers: core.IdentifierConfig{
		Quote:    `"`,
		QuoteEnd: `"`,
		Escape:   `""`,
	},
	PrimaryKey: "id integer primary key autoincrement",
	Types: core.TypeNames{
		Integer:   "integer",
		Float:     "float",
		Boolean:   "boolean",
		Text:      "text",
		TextWidth: 65535,
		Date:      "datetime",
	},
	// TRUE/FALSE keywords are understood since SQLite 3.23
	Booleans: core.BooleanLiterals{
		True:  "true",
		False: "false",
	},
	EmptyInsert: "DEFAULT VALUES",
}
