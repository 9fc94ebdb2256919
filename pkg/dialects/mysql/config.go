// Package mysql provides the MySQL SQL dialect definition.
package mysql

import "github.com/leapstack-labs/jsonsql/pkg/core"

// Config is the MySQL dialect configuration.
var Config = &core.DialectConfig{
	Name:        "mysql",
	DisplayName: "MySQL",
	Identifiers: core.IdentifierConfig{
		Quote:    "`",
		QuoteEnd: "`",
		Escape:   "``",
	},
	PrimaryKey: "id integer primary key auto_increment",
	Types: core.TypeNames{
		Integer:   "integer",
		Float:     "float",
		Boolean:   "boolean",
		Text:      "text",
		TextWidth: 65535,
		Date:      "datetime",
	},
	// boolean is an alias for tinyint(1)
	Booleans: core.BooleanLiterals{
		True:  "1",
		False: "0",
	},
	SupportsTableOptions: true,
	EmptyInsert:          "() VALUES ()",
	EscapeBackslash:      true,
}
