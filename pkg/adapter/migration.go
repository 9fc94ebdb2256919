package adapter

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// VersionLayout formats migration versions as goose timestamps.
const VersionLayout = "20060102150405"

// Migration is a generated schema rendered as one goose SQL migration.
type Migration struct {
	Version int64
	Name    string
	Up      []string
	Down    []string
}

// NewMigration creates a migration versioned by the timestamp t.
func NewMigration(t time.Time, name string, up, down []string) Migration {
	v, _ := strconv.ParseInt(t.UTC().Format(VersionLayout), 10, 64)
	return Migration{Version: v, Name: name, Up: up, Down: down}
}

// Filename returns the goose file name, <version>_<name>.sql.
func (m Migration) Filename() string {
	name := strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return unicode.ToLower(r)
		}
		return '_'
	}, m.Name)
	if name == "" {
		name = "schema"
	}
	return fmt.Sprintf("%d_%s.sql", m.Version, name)
}

// Source renders the goose SQL file. Every statement is wrapped in a
// StatementBegin/StatementEnd block so literals containing semicolons
// survive goose's statement splitter.
func (m Migration) Source() []byte {
	var b bytes.Buffer
	b.WriteString("-- +goose Up\n")
	writeStatements(&b, m.Up)
	b.WriteString("\n-- +goose Down\n")
	writeStatements(&b, m.Down)
	return b.Bytes()
}

func writeStatements(b *bytes.Buffer, stmts []string) {
	for _, s := range stmts {
		b.WriteString("-- +goose StatementBegin\n")
		b.WriteString(s)
		b.WriteString("\n-- +goose StatementEnd\n")
	}
}

// MigrationResult reports the outcome of Adapter.Migrate.
type MigrationResult struct {
	Version  int64
	Applied  bool
	Duration time.Duration
}
