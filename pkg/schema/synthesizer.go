package schema

import (
	"log/slog"
	"strings"

	"github.com/leapstack-labs/jsonsql/pkg/core"
	"github.com/leapstack-labs/jsonsql/pkg/dialect"
	"github.com/leapstack-labs/jsonsql/pkg/document"
	"github.com/leapstack-labs/jsonsql/pkg/ident"
)

// Synthesizer produces DDL for one dialect.
type Synthesizer struct {
	dialect *dialect.Dialect
	opts    core.Options
	logger  *slog.Logger
}

// New creates a synthesizer. If logger is nil, a discard logger is used.
func New(d *dialect.Dialect, opts core.Options, logger *slog.Logger) *Synthesizer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Synthesizer{dialect: d, opts: opts.WithDefaults(), logger: logger}
}

// Synthesize returns the DDL for obj as newline-separated statements.
// parent is empty for the document root.
func (s *Synthesizer) Synthesize(obj *document.Object, parent, table string) (string, error) {
	stmts, err := s.Statements(obj, parent, table)
	if err != nil {
		return "", err
	}
	return strings.Join(stmts, "\n"), nil
}

// Statements returns one CREATE TABLE statement per table, parents first.
func (s *Synthesizer) Statements(obj *document.Object, parent, table string) ([]string, error) {
	tables, err := Plan(obj, parent, table, s.opts)
	if err != nil {
		return nil, err
	}
	return s.Render(tables), nil
}

// Render returns the CREATE TABLE statement of every planned table.
func (s *Synthesizer) Render(tables []*Table) []string {
	stmts := make([]string, 0, len(tables))
	for _, t := range tables {
		s.logger.Debug("synthesized table",
			slog.String("dialect", s.dialect.Name),
			slog.String("table", t.Name),
			slog.Int("columns", len(t.Columns)))
		stmts = append(stmts, t.CreateStatement(s.dialect, s.opts))
	}
	return stmts
}

// Plan walks obj and returns its tables in creation order: every table
// appears after its parent. No tables are returned on error.
func Plan(obj *document.Object, parent, table string, opts core.Options) ([]*Table, error) {
	opts = opts.WithDefaults()
	p := &planner{
		opts:   opts,
		names:  ident.NewNamer(opts.Identifiers, nil),
		tables: ident.NewScope(core.NameTable),
	}
	if err := p.object(obj, parent, p.names.Key(table), table, document.RootPath); err != nil {
		return nil, err
	}
	return p.planned, nil
}

type planner struct {
	opts    core.Options
	names   ident.Namer
	tables  *ident.Scope
	planned []*Table
}

// child is a nested structure whose table is planned after its parent.
type child struct {
	shape *document.Object
	name  string
	key   string
	path  string
}

// object plans the table of obj, which is stored under the JSON key origin.
// Table names are unique across the plan and column names within a table,
// generated key columns included.
func (p *planner) object(obj *document.Object, parent, name, origin, path string) error {
	t := &Table{Name: core.ChildName(parent, name), Parent: parent, Path: path}
	if err := p.tables.Claim(t.Name, origin, path); err != nil {
		return err
	}
	p.planned = append(p.planned, t)

	columns := ident.NewScope(core.NameColumn, generatedColumns(parent)...)
	addColumn := func(c Column, m document.Member, memberPath string) error {
		if err := columns.Claim(c.Name, m.Key, memberPath); err != nil {
			return err
		}
		t.Columns = append(t.Columns, c)
		return nil
	}

	var children []child
	for _, m := range obj.Members {
		key := p.names.Key(m.Key)
		memberPath := document.MemberPath(path, m.Key)

		switch v := m.Value; {
		case v.Kind.IsScalar():
			if err := addColumn(Column{Name: key, Kind: v.Kind}, m, memberPath); err != nil {
				return err
			}

		case v.Kind == document.KindNull:
			if p.opts.Strict {
				return unsupported(memberPath, m.Key, v.Kind, core.ContextObject)
			}
			if err := addColumn(Column{Name: key, Kind: document.KindNull}, m, memberPath); err != nil {
				return err
			}

		case v.Kind == document.KindObject:
			children = append(children, child{shape: v.Object, name: key, key: m.Key, path: memberPath})

		case v.Kind == document.KindArray:
			shape, first, ok := document.ArrayShape(v.Array)
			if !ok {
				// Empty arrays produce neither a column nor a table
				continue
			}
			if shape == nil || (first == document.KindNull && p.opts.Strict) {
				return unsupported(document.IndexPath(memberPath, 0), m.Key, first, core.ContextArray)
			}
			children = append(children, child{shape: shape, name: key, key: m.Key, path: memberPath})

		default:
			return unsupported(memberPath, m.Key, v.Kind, core.ContextObject)
		}
	}

	for _, c := range children {
		if err := p.object(c.shape, t.Name, c.name, c.key, c.path); err != nil {
			return err
		}
	}
	return nil
}

func unsupported(path, key string, kind document.Kind, context string) error {
	return &core.UnsupportedTypeError{Path: path, Key: key, Kind: kind.String(), Context: context}
}
