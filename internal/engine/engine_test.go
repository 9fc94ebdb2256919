package engine

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/jsonsql/internal/testutil"
	"github.com/leapstack-labs/jsonsql/pkg/core"
	"github.com/leapstack-labs/jsonsql/pkg/dialect"
	_ "github.com/leapstack-labs/jsonsql/pkg/dialects"
	"github.com/leapstack-labs/jsonsql/pkg/document"
)

const exampleDoc = `{"name":"Ana","age":30,"tags":["x","y"]}`

func parse(t *testing.T, s string) *document.Object {
	t.Helper()
	obj, err := document.ParseString(s, document.DefaultParseOptions())
	require.NoError(t, err)
	return obj
}

func newEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()
	if cfg.Logger == nil {
		cfg.Logger = testutil.NewTestLogger(t)
	}
	if cfg.Options == (core.Options{}) {
		cfg.Options = core.DefaultOptions()
	}
	e, err := New(cfg)
	require.NoError(t, err)
	return e
}

func TestNew(t *testing.T) {
	e := newEngine(t, Config{Dialects: []string{"postgres", "sqlite", "postgres"}})

	require.Len(t, e.Dialects(), 2, "duplicate dialects are dropped")
	assert.Equal(t, "postgres", e.Dialects()[0].Name)
	assert.Equal(t, "sqlite", e.Dialects()[1].Name)
	assert.Equal(t, core.DefaultTableName, e.TableName())
}

func TestNew_UnknownDialect(t *testing.T) {
	_, err := New(Config{Dialects: []string{"oracle"}})

	var unknown *dialect.UnknownDialectError
	require.ErrorAs(t, err, &unknown)
}

func TestGenerate_NoDialects(t *testing.T) {
	e := newEngine(t, Config{})

	_, err := e.Generate(parse(t, exampleDoc))
	assert.True(t, errors.Is(err, dialect.ErrDialectRequired))
}

func TestGenerate_OrderAndContent(t *testing.T) {
	e := newEngine(t, Config{Dialects: []string{"mysql", "sqlite"}, Insert: true})

	results, err := e.Generate(parse(t, exampleDoc))
	require.NoError(t, err)
	require.NoError(t, Errors(results))

	require.Len(t, results, 2)
	assert.Equal(t, "mysql", results[0].Dialect.Name)
	assert.Equal(t, "sqlite", results[1].Dialect.Name)

	for _, r := range results {
		assert.Len(t, r.Schema, 2)
		assert.Len(t, r.Inserts, 3)
		assert.Len(t, r.Tables, 2)
		assert.Equal(t, append(append([]string{}, r.Schema...), r.Inserts...), r.Statements())
	}
	assert.Contains(t, results[0].DDL(), "ENGINE=InnoDB")
	assert.NotContains(t, results[1].DDL(), "ENGINE")
}

func TestGenerate_WithoutInserts(t *testing.T) {
	e := newEngine(t, Config{Dialects: []string{"sqlite"}})

	results, err := e.Generate(parse(t, exampleDoc))
	require.NoError(t, err)
	assert.Empty(t, results[0].Inserts)
	assert.Empty(t, results[0].DML())
}

func TestGenerate_FailureIsPerResult(t *testing.T) {
	opts := core.DefaultOptions()
	opts.Strict = true
	e := newEngine(t, Config{Dialects: []string{"sqlite", "postgres"}, Options: opts})

	results, err := e.Generate(parse(t, `{"x":null}`))
	require.NoError(t, err)

	for _, r := range results {
		require.Error(t, r.Err)
		assert.Empty(t, r.Schema)
	}

	joined := Errors(results)
	require.Error(t, joined)
	assert.True(t, errors.Is(joined, core.ErrUnsupportedType))
	assert.Contains(t, joined.Error(), "sqlite: ")
	assert.Contains(t, joined.Error(), "postgres: ")
}

func TestWriteScript(t *testing.T) {
	e := newEngine(t, Config{Dialects: []string{"sqlite", "postgres"}, Insert: true})
	results, err := e.Generate(parse(t, `{"a":1}`))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteScript(&buf, results, true))

	want := "-- SQLite\n" +
		"CREATE TABLE IF NOT EXISTS main (id integer primary key autoincrement, a integer null default null);\n" +
		"-- Insert\n" +
		"INSERT INTO main (a) VALUES (1);\n" +
		"\n" +
		"-- Postgres\n" +
		"CREATE TABLE IF NOT EXISTS main (id serial primary key, a integer null default null);\n" +
		"-- Insert\n" +
		"INSERT INTO main (a) VALUES (1);\n" +
		"\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteScript_SkipsFailedAndInserts(t *testing.T) {
	e := newEngine(t, Config{Dialects: []string{"sqlite"}})
	results, err := e.Generate(parse(t, `{"a":1}`))
	require.NoError(t, err)
	results = append(results, Result{Dialect: results[0].Dialect, Err: errors.New("boom")})

	var buf bytes.Buffer
	require.NoError(t, WriteScript(&buf, results, false))

	assert.Equal(t, 1, strings.Count(buf.String(), "-- SQLite"))
	assert.NotContains(t, buf.String(), InsertHeader)
}

func TestResult_Migration(t *testing.T) {
	e := newEngine(t, Config{Dialects: []string{"postgres"}})
	results, err := e.Generate(parse(t, `{"o":{"p":{"q":1}}}`))
	require.NoError(t, err)

	m := results[0].Migration(time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC))

	assert.Equal(t, int64(20261014080000), m.Version)
	assert.Equal(t, results[0].Schema, m.Up)
	assert.Equal(t, []string{
		"DROP TABLE IF EXISTS main_o_p;",
		"DROP TABLE IF EXISTS main_o;",
		"DROP TABLE IF EXISTS main;",
	}, m.Down)
}

func TestWriteMigrations(t *testing.T) {
	e := newEngine(t, Config{Dialects: []string{"sqlite"}})
	results, err := e.Generate(parse(t, `{"a":1}`))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteMigrations(&buf, results, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "-- SQLite (20260101000000_main.sql)\n-- +goose Up\n"), out)
	assert.Contains(t, out, "-- +goose Down\n")
}

func TestSaveMigrations(t *testing.T) {
	e := newEngine(t, Config{Dialects: []string{"sqlite", "mysql"}})
	results, err := e.Generate(parse(t, `{"a":1}`))
	require.NoError(t, err)

	dir := t.TempDir()
	paths, err := SaveMigrations(dir, results, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	require.Len(t, paths, 2)
	assert.True(t, strings.HasSuffix(paths[0], "sqlite/20260101000000_main.sql"), paths[0])
	assert.True(t, strings.HasSuffix(paths[1], "mysql/20260101000000_main.sql"), paths[1])
}
