package dialect

import (
	"fmt"
	"strings"

	"github.com/Nam088/json-logic-to-sql/errs"
	"github.com/Nam088/json-logic-to-sql/operator"
	"github.com/Nam088/json-logic-to-sql/schema"
)

// sqlite implements Dialect for SQLite. Only in/not_in are supported on
// array/jsonb columns; every other array/jsonb operator (contains, any_of,
// any_ilike, and the jsonb operators) fails with UnsupportedOperator, the
// same as MSSQL (§4.8 "Array operators (MSSQL, SQLite)"). regex requires the
// caller's driver to have registered a REGEXP user function (mattn/go-sqlite3
// does not by default); the dialect still emits the REGEXP operator and
// leaves registration to the caller.
type sqlite struct{}

// NewSQLite constructs the SQLite dialect variant.
func NewSQLite() Dialect { return sqlite{} }

func (sqlite) Kind() Kind { return SQLite }

func (sqlite) QuoteIdentifier(name string) string { return quoteWith(name, `"`, `"`, `"`) }
func (d sqlite) QuoteColumn(dotted string) string { return quoteDotted(dotted, d.QuoteIdentifier) }

func (sqlite) Cast(path string, logicalType schema.FieldType) string {
	switch logicalType {
	case schema.TypeNumber, schema.TypeInteger, schema.TypeDecimal:
		return fmt.Sprintf("CAST(%s AS REAL)", path)
	case schema.TypeDate, schema.TypeDatetime, schema.TypeTimestamp:
		return fmt.Sprintf("CAST(%s AS TEXT)", path)
	default:
		return path
	}
}

func (sqlite) NullCheck(column string, isNot bool) string {
	if isNot {
		return column + " IS NOT NULL"
	}
	return column + " IS NULL"
}

func (sqlite) Comparison(column string, op operator.Operator, sink ParamSink, value any) (string, *errs.CompileError) {
	sql, ok := ComparisonSQL(op)
	if !ok {
		return "", errs.Dialect(fmt.Sprintf("operator %q is not a comparison operator", op), "", string(op))
	}
	return fmt.Sprintf("%s %s %s", column, sql, sink.Bind(value)), nil
}

func (sqlite) Between(column string, isNot bool, sink ParamSink, lo, hi any) (string, *errs.CompileError) {
	if lo == nil || hi == nil {
		return "", errs.Structural("MissingOperand", "between requires two operands")
	}
	kw := "BETWEEN"
	if isNot {
		kw = "NOT BETWEEN"
	}
	return fmt.Sprintf("%s %s %s AND %s", column, kw, sink.Bind(lo), sink.Bind(hi)), nil
}

func (sqlite) StringOp(column string, op operator.Operator, caseSensitive bool, sink ParamSink, value any) (string, *errs.CompileError) {
	s, ok := value.(string)
	if !ok {
		return "", errs.Schema("TypeMismatch", "expected a string value", "", string(op))
	}
	switch op {
	case operator.Like, operator.ILike:
		// SQLite's LIKE is case-insensitive for ASCII by default regardless
		// of the requested keyword; case-sensitive matching needs GLOB, but
		// that changes wildcard semantics, so plain LIKE is emitted either way.
		return fmt.Sprintf("%s LIKE %s", column, sink.Bind(s)), nil
	case operator.StartsWith, operator.EndsWith, operator.Contains:
		pattern := wrapStringOp(op, SQLite, s)
		return fmt.Sprintf("%s LIKE %s", column, sink.Bind(pattern)), nil
	case operator.Regex:
		return fmt.Sprintf("%s REGEXP %s", column, sink.Bind(s)), nil
	}
	return "", errs.Dialect(fmt.Sprintf("operator %q is not a string operator", op), "", string(op))
}

func (sqlite) InOp(column string, isNot bool, fieldType schema.FieldType, sink ParamSink, values []any) (string, *errs.CompileError) {
	if len(values) == 0 {
		if isNot {
			return "1=1", nil
		}
		return "1=0", nil
	}
	placeholders := make([]string, len(values))
	for i, v := range values {
		placeholders[i] = sink.Bind(v)
	}
	kw := "IN"
	if isNot {
		kw = "NOT IN"
	}
	return fmt.Sprintf("%s %s (%s)", column, kw, strings.Join(placeholders, ", ")), nil
}

func (sqlite) ArrayOp(column string, op operator.Operator, fieldType schema.FieldType, sink ParamSink, value any) (string, *errs.CompileError) {
	return "", errs.Dialect(fmt.Sprintf("operator %q is not supported for SQLite array/jsonb columns", op), "", string(op))
}

func (sqlite) AnyOf(column string, isNot bool, fieldType schema.FieldType, sink ParamSink, value any) (string, *errs.CompileError) {
	return "", errs.Dialect("any_of is not supported on SQLite", "", string(operator.AnyOf))
}

func (sqlite) AnyILike(column string, isNot bool, sink ParamSink, value any) (string, *errs.CompileError) {
	return "", errs.Dialect("any_ilike is not supported on SQLite", "", string(operator.AnyILike))
}

func (sqlite) JSONOp(column string, op operator.Operator, sink ParamSink, value any) (string, *errs.CompileError) {
	return "", errs.Dialect(fmt.Sprintf("operator %q is not supported on SQLite", op), "", string(op))
}
