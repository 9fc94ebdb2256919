// Package engine runs schema synthesis and insert emission for a set of
// dialects and applies the generated scripts to database targets.
package engine

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/leapstack-labs/jsonsql/internal/state"
	"github.com/leapstack-labs/jsonsql/pkg/core"
	"github.com/leapstack-labs/jsonsql/pkg/dialect"
	"github.com/leapstack-labs/jsonsql/pkg/document"
	"github.com/leapstack-labs/jsonsql/pkg/insert"
	"github.com/leapstack-labs/jsonsql/pkg/schema"
)

// Engine generates scripts for one root table name and option set.
type Engine struct {
	dialects []*dialect.Dialect
	table    string
	insert   bool
	opts     core.Options
	logger   *slog.Logger
	store    state.Store
	now      func() time.Time
}

// Config holds engine configuration.
type Config struct {
	// Dialects to generate for, in output order. Apply does not need any.
	Dialects []string
	// TableName is the root table name (default "main").
	TableName string
	// Insert enables INSERT statement generation.
	Insert bool
	// Options is the generation policy shared by every dialect.
	Options core.Options
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
	// Store records apply runs (optional).
	Store state.Store
}

// New creates an engine. Unknown dialect names fail here, before any
// document is read.
func New(cfg Config) (*Engine, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	table := cfg.TableName
	if table == "" {
		table = core.DefaultTableName
	}

	dialects := make([]*dialect.Dialect, 0, len(cfg.Dialects))
	seen := make(map[string]bool, len(cfg.Dialects))
	for _, name := range cfg.Dialects {
		d, err := dialect.Lookup(name)
		if err != nil {
			return nil, err
		}
		if seen[d.Name] {
			continue
		}
		seen[d.Name] = true
		dialects = append(dialects, d)
	}

	logger.Debug("initializing engine", slog.String("table", table), slog.Int("dialects", len(dialects)))

	return &Engine{
		dialects: dialects,
		table:    table,
		insert:   cfg.Insert,
		opts:     cfg.Options.WithDefaults(),
		logger:   logger,
		store:    cfg.Store,
		now:      time.Now,
	}, nil
}

// Dialects returns the configured dialects in output order.
func (e *Engine) Dialects() []*dialect.Dialect {
	return e.dialects
}

// TableName returns the root table name.
func (e *Engine) TableName() string {
	return e.table
}

// Insert reports whether Generate emits INSERT statements.
func (e *Engine) Insert() bool {
	return e.insert
}

// Plan returns the dialect-independent table plan of doc.
func (e *Engine) Plan(doc *document.Object) ([]*schema.Table, error) {
	return schema.Plan(doc, "", e.table, e.opts)
}

// Generate runs one pass per configured dialect, sequentially and in order.
// A failing pass is reported in its Result and never affects the others.
func (e *Engine) Generate(doc *document.Object) ([]Result, error) {
	if len(e.dialects) == 0 {
		return nil, fmt.Errorf("no dialect selected: %w", dialect.ErrDialectRequired)
	}

	results := make([]Result, 0, len(e.dialects))
	for _, d := range e.dialects {
		results = append(results, e.generate(d, doc, e.insert))
	}
	return results, nil
}

// generate runs the full pass for one dialect.
func (e *Engine) generate(d *dialect.Dialect, doc *document.Object, withInserts bool) Result {
	logger := e.logger.With(slog.String("dialect", d.Name))
	res := Result{Dialect: d, Table: e.table, opts: e.opts}

	tables, err := e.Plan(doc)
	if err != nil {
		logger.Debug("schema synthesis failed", slog.Any("error", err))
		res.Err = err
		return res
	}
	res.Tables = tables
	res.Schema = schema.New(d, e.opts, logger).Render(tables)

	if withInserts {
		stmts, err := insert.New(d, e.opts, logger).Statements(doc, "", e.table)
		if err != nil {
			logger.Debug("insert emission failed", slog.Any("error", err))
			return Result{Dialect: d, Table: e.table, opts: e.opts, Err: err}
		}
		res.Inserts = stmts
	}
	return res
}
