// Package insert emits INSERT statements that load a JSON object's values
// into the tables synthesized from its shape.
//
// Child rows reference their parent through a scalar subquery,
// (SELECT MAX(id) FROM <parent>), which resolves to the most recently
// inserted parent row. The emitted script is therefore only correct when it
// runs start to finish in one session with no concurrent writers.
package insert

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/leapstack-labs/jsonsql/pkg/core"
	"github.com/leapstack-labs/jsonsql/pkg/dialect"
	"github.com/leapstack-labs/jsonsql/pkg/document"
	"github.com/leapstack-labs/jsonsql/pkg/ident"
)

// DateLayout is the format date values are written in.
const DateLayout = "2006-01-02 15:04:05"

// Emitter produces DML for one dialect.
type Emitter struct {
	dialect *dialect.Dialect
	opts    core.Options
	logger  *slog.Logger
}

// New creates an emitter. If logger is nil, a discard logger is used.
func New(d *dialect.Dialect, opts core.Options, logger *slog.Logger) *Emitter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Emitter{dialect: d, opts: opts.WithDefaults(), logger: logger}
}

// Emit returns the DML for obj as newline-separated statements.
// parent is empty for the document root.
func (e *Emitter) Emit(obj *document.Object, parent, table string) (string, error) {
	stmts, err := e.Statements(obj, parent, table)
	if err != nil {
		return "", err
	}
	return strings.Join(stmts, "\n"), nil
}

// Statements returns one INSERT statement per row in execution order.
// No statements are returned on error.
func (e *Emitter) Statements(obj *document.Object, parent, table string) ([]string, error) {
	em := &emission{
		Emitter: e,
		names:   ident.NewNamer(e.opts.Identifiers, e.dialect),
	}
	if err := em.object(obj, parent, em.names.Key(table), document.RootPath); err != nil {
		return nil, err
	}
	e.logger.Debug("emitted inserts",
		slog.String("dialect", e.dialect.Name),
		slog.Int("statements", len(em.stmts)))
	return em.stmts, nil
}

// emission accumulates the statements of one Statements call.
type emission struct {
	*Emitter
	names ident.Namer
	stmts []string
}

type nested struct {
	value document.Value
	key   string
	path  string
}

// object emits the row of obj and then its children. Keys that map to the
// same column, or sibling keys that map to the same child table, are
// rejected the way schema planning rejects them.
func (em *emission) object(obj *document.Object, parent, name, path string) error {
	table := core.ChildName(parent, name)

	var cols, vals []string
	generated := []string{core.IDColumn}
	if parent != "" {
		fk := core.ForeignKeyColumn(parent)
		generated = append(generated, fk)
		cols = append(cols, em.names.Quote(fk))
		vals = append(vals, em.parentRef(parent))
	}
	columns := ident.NewScope(core.NameColumn, generated...)
	tables := ident.NewScope(core.NameTable)

	var children []nested
	for _, m := range obj.Members {
		key := em.names.Key(m.Key)
		memberPath := document.MemberPath(path, m.Key)

		switch v := m.Value; {
		case v.Kind.IsScalar():
			if err := columns.Claim(key, m.Key, memberPath); err != nil {
				return err
			}
			lit, err := em.literal(v, memberPath, m.Key, core.ContextObject)
			if err != nil {
				return err
			}
			cols = append(cols, em.names.Quote(key))
			vals = append(vals, lit)
		case v.Kind == document.KindNull:
			if em.opts.Strict {
				return unsupported(memberPath, m.Key, v.Kind, core.ContextObject)
			}
			// Omitted: the column defaults to null
			if err := columns.Claim(key, m.Key, memberPath); err != nil {
				return err
			}
		case v.Kind == document.KindObject, v.Kind == document.KindArray:
			if v.Kind == document.KindArray && len(v.Array) == 0 {
				continue
			}
			if err := tables.Claim(core.ChildName(table, key), m.Key, memberPath); err != nil {
				return err
			}
			children = append(children, nested{value: v, key: key, path: memberPath})
		default:
			return unsupported(memberPath, m.Key, v.Kind, core.ContextObject)
		}
	}

	em.stmts = append(em.stmts, em.insert(table, cols, vals))

	for _, c := range children {
		var err error
		if c.value.Kind == document.KindObject {
			err = em.object(c.value.Object, table, c.key, c.path)
		} else {
			err = em.array(c.value.Array, table, c.key, c.path)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// array emits one row per element of the array stored under key in parent.
func (em *emission) array(items []document.Value, parent, key, path string) error {
	table := core.ChildName(parent, key)
	cols := []string{em.names.Quote(core.ForeignKeyColumn(parent)), em.names.Quote(document.ValueColumn)}

	for i, item := range items {
		itemPath := document.IndexPath(path, i)
		switch {
		case item.Kind.IsScalar():
			lit, err := em.literal(item, itemPath, key, core.ContextArray)
			if err != nil {
				return err
			}
			em.stmts = append(em.stmts, em.insert(table, cols, []string{em.parentRef(parent), lit}))
		case item.Kind == document.KindNull:
			if em.opts.Strict {
				return unsupported(itemPath, key, item.Kind, core.ContextArray)
			}
			em.stmts = append(em.stmts, em.insert(table, cols, []string{em.parentRef(parent), "NULL"}))
		case item.Kind == document.KindObject:
			if err := em.object(item.Object, parent, key, itemPath); err != nil {
				return err
			}
		default:
			return unsupported(itemPath, key, item.Kind, core.ContextArray)
		}
	}
	return nil
}

func (em *emission) insert(table string, cols, vals []string) string {
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(em.names.Quote(table))
	b.WriteString(" ")
	if len(cols) == 0 {
		b.WriteString(em.dialect.EmptyInsert)
	} else {
		b.WriteString("(")
		b.WriteString(strings.Join(cols, ", "))
		b.WriteString(") VALUES (")
		b.WriteString(strings.Join(vals, ", "))
		b.WriteString(")")
	}
	b.WriteString(";")
	return b.String()
}

func (em *emission) parentRef(parent string) string {
	return "(SELECT MAX(id) FROM " + em.names.Quote(parent) + ")"
}

// literal formats a scalar value for the dialect. Floats that do not fit
// a float64 are rejected rather than written as a rounded value.
func (em *emission) literal(v document.Value, path, key, context string) (string, error) {
	switch v.Kind {
	case document.KindInteger:
		return v.Text, nil
	case document.KindFloat:
		f, err := v.Float()
		if err != nil {
			return "", &core.UnsupportedTypeError{Path: path, Key: key, Kind: v.Kind.String(), Context: context, Err: err}
		}
		return strconv.FormatFloat(f, 'g', -1, 64), nil
	case document.KindBoolean:
		return em.dialect.BoolLiteral(v.Bool), nil
	case document.KindDate:
		return "'" + v.Time.Format(DateLayout) + "'", nil
	case document.KindString:
		return em.dialect.StringLiteral(v.Text), nil
	default:
		return "NULL", nil
	}
}

func unsupported(path, key string, kind document.Kind, context string) error {
	return &core.UnsupportedTypeError{Path: path, Key: key, Kind: kind.String(), Context: context}
}
