// Package queryhelpers provides the external helpers named in §6: builders
// for SELECT, ORDER BY, and LIMIT/OFFSET fragments that share the same
// schema.Schema contract the compiler validates rules against, without
// participating in rule compilation themselves (§1 "Out of scope").
package queryhelpers

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Nam088/json-logic-to-sql/dialect"
	"github.com/Nam088/json-logic-to-sql/errs"
	"github.com/Nam088/json-logic-to-sql/schema"
	"github.com/Nam088/json-logic-to-sql/transform"
)

// SelectOptions restricts and configures BuildSelect's output.
type SelectOptions struct {
	// Fields, when non-empty, limits the projection to this explicit list;
	// naming a field that is not Selectable fails with NotSelectable. An
	// empty list selects every selectable field declared on the schema.
	Fields []string
	// Exclude removes named fields from the projection after Fields (or the
	// full selectable set) has been resolved.
	Exclude []string
	Dialect dialect.Kind
}

// BuildSelect renders "<expr> AS <alias>, ..." for every requested,
// selectable field, honoring column mappings, JSON paths, computed
// expressions, and output transforms (§6).
func BuildSelect(s *schema.Schema, opts SelectOptions) (string, *errs.CompileError) {
	d := dialectFor(opts.Dialect)
	excluded := toSet(opts.Exclude)

	names := opts.Fields
	if len(names) == 0 {
		names = selectableFieldNames(s)
	}

	parts := make([]string, 0, len(names))
	for _, name := range names {
		if excluded[name] {
			continue
		}
		f := s.Lookup(name)
		if f == nil {
			return "", errs.Schema("UnknownField", fmt.Sprintf("unknown field %q", name), name, "")
		}
		if !f.Selectable {
			return "", errs.Schema("NotSelectable", fmt.Sprintf("field %q is not selectable", name), name, "")
		}
		expr, cerr := selectExpression(d, f)
		if cerr != nil {
			return "", cerr
		}
		parts = append(parts, fmt.Sprintf("%s AS %s", expr, d.QuoteIdentifier(name)))
	}
	return strings.Join(parts, ", "), nil
}

func selectExpression(d dialect.Dialect, f *schema.Field) (string, *errs.CompileError) {
	var expr string
	switch {
	case f.Computed:
		expr = "(" + f.Expression + ")"
	case f.JSONPath != "":
		expr = f.JSONPath
	default:
		colName := f.Column
		if colName == "" {
			colName = f.Name
		}
		expr = d.QuoteColumn(colName)
	}
	if f.Transform == nil || len(f.Transform.Output) == 0 {
		return expr, nil
	}
	return transform.RenderColumn(expr, f.Transform.Output, outputTransformKind(d.Kind()))
}

func outputTransformKind(k dialect.Kind) transform.DialectKind {
	switch k {
	case dialect.MySQL:
		return transform.MySQL
	case dialect.MSSQL:
		return transform.MSSQL
	case dialect.SQLite:
		return transform.SQLite
	default:
		return transform.PostgreSQL
	}
}

func selectableFieldNames(s *schema.Schema) []string {
	names := make([]string, 0, len(s.Fields))
	for name, f := range s.Fields {
		if f.Selectable {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

func dialectFor(kind dialect.Kind) dialect.Dialect {
	switch kind {
	case dialect.MySQL:
		return dialect.NewMySQL()
	case dialect.MSSQL:
		return dialect.NewMSSQL()
	case dialect.SQLite:
		return dialect.NewSQLite()
	default:
		return dialect.NewPostgreSQL()
	}
}
