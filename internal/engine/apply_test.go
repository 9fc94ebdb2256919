package engine

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/leapstack-labs/jsonsql/internal/state"
	"github.com/leapstack-labs/jsonsql/internal/testutil"
	"github.com/leapstack-labs/jsonsql/pkg/core"
	_ "github.com/leapstack-labs/jsonsql/pkg/adapters/sqlite"
)

const nestedDoc = `{
	"name": "Ana",
	"active": true,
	"score": 9.5,
	"born": "1990-05-06T07:08:09Z",
	"note": "it's here",
	"address": {"city": "Lisbon", "geo": {"lat": 38.7}},
	"tags": ["x", "y", "z"],
	"orders": [
		{"sku": "a", "qty": 1, "lines": [10, 20]},
		{"sku": "b", "qty": 2, "lines": [30]}
	],
	"empty": []
}`

func openSQLite(t *testing.T, path string) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func queryInt(t *testing.T, db *sql.DB, query string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(query).Scan(&n), query)
	return n
}

// TestGeneratedScriptRunsOnSQLite executes the generated script statement by
// statement on one connection and checks the parent links.
func TestGeneratedScriptRunsOnSQLite(t *testing.T) {
	e := newEngine(t, Config{Dialects: []string{"sqlite"}, Insert: true})
	results, err := e.Generate(parse(t, nestedDoc))
	require.NoError(t, err)
	require.NoError(t, Errors(results))

	db := openSQLite(t, ":memory:")
	db.SetMaxOpenConns(1)
	_, err = db.Exec("PRAGMA foreign_keys = ON")
	require.NoError(t, err)

	for _, stmt := range results[0].Statements() {
		_, err := db.Exec(stmt)
		require.NoError(t, err, stmt)
	}

	assert.Equal(t, 1, queryInt(t, db, "SELECT COUNT(*) FROM main"))
	assert.Equal(t, 3, queryInt(t, db, "SELECT COUNT(*) FROM main_tags"))
	assert.Equal(t, 2, queryInt(t, db, "SELECT COUNT(*) FROM main_orders"))
	assert.Equal(t, 1, queryInt(t, db, "SELECT COUNT(*) FROM main_address_geo"))

	// each order line points at the order inserted right before it
	assert.Equal(t, 2, queryInt(t, db,
		"SELECT COUNT(*) FROM main_orders_lines l JOIN main_orders o ON o.id = l.main_orders_id WHERE o.sku = 'a'"))
	assert.Equal(t, 30, queryInt(t, db,
		"SELECT l.value FROM main_orders_lines l JOIN main_orders o ON o.id = l.main_orders_id WHERE o.sku = 'b'"))

	var note string
	require.NoError(t, db.QueryRow("SELECT note FROM main").Scan(&note))
	assert.Equal(t, "it's here", note)

	var active bool
	require.NoError(t, db.QueryRow("SELECT active FROM main").Scan(&active))
	assert.True(t, active)

	_, err = db.Exec("SELECT * FROM main_empty")
	assert.Error(t, err, "empty arrays produce no table")
}

func TestGeneratedScriptIsRerunnable(t *testing.T) {
	e := newEngine(t, Config{Dialects: []string{"sqlite"}, Insert: true})
	results, err := e.Generate(parse(t, exampleDoc))
	require.NoError(t, err)

	db := openSQLite(t, ":memory:")
	db.SetMaxOpenConns(1)
	for range 2 {
		for _, stmt := range results[0].Statements() {
			_, err := db.Exec(stmt)
			require.NoError(t, err, stmt)
		}
	}

	assert.Equal(t, 2, queryInt(t, db, "SELECT COUNT(*) FROM main"))
	assert.Equal(t, 2, queryInt(t, db, "SELECT COUNT(*) FROM main_tags WHERE main_id = 2"))
}

func TestApply(t *testing.T) {
	dir := t.TempDir()
	store := state.NewSQLiteStore(testutil.NewTestLogger(t))
	require.NoError(t, store.Open(filepath.Join(dir, "state.db")))
	require.NoError(t, store.Migrate())
	t.Cleanup(func() { _ = store.Close() })

	e := newEngine(t, Config{Store: store})

	targets := []Target{
		{Name: "one", Config: core.TargetConfig{Type: "sqlite", Database: filepath.Join(dir, "one.db")}},
		{Name: "two", Config: core.TargetConfig{Type: "sqlite", Database: filepath.Join(dir, "two.db")}},
		{Name: "bad", Config: core.TargetConfig{Type: "oracle"}},
	}

	results, err := e.Apply(context.Background(), parse(t, nestedDoc), targets, ApplyOptions{Insert: true, Source: "doc.json"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "target bad")
	assert.NotContains(t, err.Error(), "target one")

	require.Len(t, results, 3)
	for _, r := range results[:2] {
		require.NoError(t, r.Err, r.Target)
		assert.NotEmpty(t, r.RunID)
		assert.Positive(t, r.Statements)
	}
	assert.Equal(t, "one", results[0].Target)
	assert.Error(t, results[2].Err)

	db := openSQLite(t, filepath.Join(dir, "two.db"))
	assert.Equal(t, 3, queryInt(t, db, "SELECT COUNT(*) FROM main_tags"))

	runs, err := store.ListRuns(0)
	require.NoError(t, err)
	require.Len(t, runs, 3)

	byTarget := map[string]*state.Run{}
	for _, r := range runs {
		byTarget[r.Target] = r
	}
	assert.Equal(t, state.RunStatusCompleted, byTarget["one"].Status)
	assert.Equal(t, "doc.json", byTarget["one"].Source)
	assert.Equal(t, results[0].Statements, byTarget["one"].Statements)
	assert.Equal(t, state.RunStatusFailed, byTarget["bad"].Status)
	assert.Contains(t, byTarget["bad"].Error, "oracle")
}

func TestApply_Migrate(t *testing.T) {
	dir := t.TempDir()
	e := newEngine(t, Config{})
	targets := []Target{{Name: "local", Config: core.TargetConfig{Type: "sqlite", Database: filepath.Join(dir, "m.db")}}}

	results, err := e.Apply(context.Background(), parse(t, exampleDoc), targets, ApplyOptions{Insert: true, Migrate: true})
	require.NoError(t, err)

	r := results[0]
	assert.True(t, r.Migrated)
	assert.Positive(t, r.Migration)
	assert.Equal(t, 5, r.Statements)

	db := openSQLite(t, filepath.Join(dir, "m.db"))
	assert.Equal(t, 1, queryInt(t, db, "SELECT COUNT(*) FROM goose_db_version WHERE version_id > 0"))
	assert.Equal(t, 2, queryInt(t, db, "SELECT COUNT(*) FROM main_tags"))
}

func TestApply_RollsBackOnFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "r.db")

	// A pre-existing main table without the age column makes the insert fail
	db := openSQLite(t, path)
	_, err := db.Exec("CREATE TABLE main (id integer primary key autoincrement, name text)")
	require.NoError(t, err)

	e := newEngine(t, Config{})
	targets := []Target{{Name: "local", Config: core.TargetConfig{Type: "sqlite", Database: path}}}

	_, err = e.Apply(context.Background(), parse(t, exampleDoc), targets, ApplyOptions{Insert: true})
	require.Error(t, err)

	assert.Equal(t, 0, queryInt(t, db, "SELECT COUNT(*) FROM main"))
	assert.Equal(t, 0, queryInt(t, db, "SELECT COUNT(*) FROM sqlite_master WHERE name = 'main_tags'"),
		"tables created in the failed transaction are rolled back")
}

func TestApply_NoTargets(t *testing.T) {
	e := newEngine(t, Config{})

	_, err := e.Apply(context.Background(), parse(t, exampleDoc), nil, ApplyOptions{})
	assert.Error(t, err)
}
