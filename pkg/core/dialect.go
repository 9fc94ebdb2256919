package core

// DialectConfig holds the static configuration for a SQL dialect.
// This is pure data: the string fragments schema synthesis and insert
// emission consult instead of hard-coding engine syntax.
//
// The lookup helpers (type names, literals, quoting) live in
// pkg/dialect.Dialect, which embeds this config.
type DialectConfig struct {
	// Name is the dialect identifier (e.g., "sqlite", "postgres")
	Name string

	// DisplayName is used for script headers ("SQLite", "MySQL", "Postgres")
	DisplayName string

	// Identifiers defines quoting rules
	Identifiers IdentifierConfig

	// PrimaryKey is the full auto-increment primary key column definition
	PrimaryKey string

	// Types maps value kinds to column type names
	Types TypeNames

	// Booleans holds the literal spelling of true and false
	Booleans BooleanLiterals

	// SupportsTableOptions enables the ENGINE/CHARACTER SET/COLLATE suffix (MySQL)
	SupportsTableOptions bool

	// EmptyInsert is the tail of an INSERT that has no columns
	// ("DEFAULT VALUES" or "() VALUES ()").
	EmptyInsert string

	// EscapeBackslash doubles backslashes in string literals (MySQL treats
	// them as escape characters by default).
	EscapeBackslash bool
}

// TypeNames holds the column type spelled for each scalar kind.
type TypeNames struct {
	Integer   string
	Float     string
	Boolean   string
	Text      string // type name without width
	TextWidth int    // default width appended to Text
	Date      string
}

// BooleanLiterals holds how a dialect spells boolean values in INSERT statements.
type BooleanLiterals struct {
	True  string
	False string
}

// IdentifierConfig defines how identifiers are quoted.
type IdentifierConfig struct {
	Quote    string // Quote character: ", `
	QuoteEnd string // End quote character (usually same as Quote)
	Escape   string // Escape sequence for an embedded quote: "", ``
}
