package dialect

import (
	"fmt"
	"strings"

	"github.com/Nam088/json-logic-to-sql/errs"
	"github.com/Nam088/json-logic-to-sql/operator"
	"github.com/Nam088/json-logic-to-sql/schema"
)

// mssql implements Dialect for Microsoft SQL Server. Only in/not_in are
// supported among array-column operators; regex and all PostgreSQL-specific
// JSON operators are unsupported (§4.8 "Array operators (MSSQL, SQLite)").
type mssql struct{}

// NewMSSQL constructs the MSSQL dialect variant.
func NewMSSQL() Dialect { return mssql{} }

func (mssql) Kind() Kind { return MSSQL }

func (mssql) QuoteIdentifier(name string) string { return "[" + strings.ReplaceAll(name, "]", "]]") + "]" }
func (d mssql) QuoteColumn(dotted string) string  { return quoteDotted(dotted, d.QuoteIdentifier) }

func (mssql) Cast(path string, logicalType schema.FieldType) string {
	switch logicalType {
	case schema.TypeNumber, schema.TypeInteger, schema.TypeDecimal:
		return fmt.Sprintf("CAST(%s AS DECIMAL)", path)
	case schema.TypeDate:
		return fmt.Sprintf("CAST(%s AS DATE)", path)
	case schema.TypeDatetime, schema.TypeTimestamp:
		return fmt.Sprintf("CAST(%s AS DATETIME2)", path)
	default:
		return path
	}
}

func (mssql) NullCheck(column string, isNot bool) string {
	if isNot {
		return column + " IS NOT NULL"
	}
	return column + " IS NULL"
}

func (mssql) Comparison(column string, op operator.Operator, sink ParamSink, value any) (string, *errs.CompileError) {
	sql, ok := ComparisonSQL(op)
	if !ok {
		return "", errs.Dialect(fmt.Sprintf("operator %q is not a comparison operator", op), "", string(op))
	}
	return fmt.Sprintf("%s %s %s", column, sql, sink.Bind(value)), nil
}

func (mssql) Between(column string, isNot bool, sink ParamSink, lo, hi any) (string, *errs.CompileError) {
	if lo == nil || hi == nil {
		return "", errs.Structural("MissingOperand", "between requires two operands")
	}
	kw := "BETWEEN"
	if isNot {
		kw = "NOT BETWEEN"
	}
	return fmt.Sprintf("%s %s %s AND %s", column, kw, sink.Bind(lo), sink.Bind(hi)), nil
}

func (mssql) StringOp(column string, op operator.Operator, caseSensitive bool, sink ParamSink, value any) (string, *errs.CompileError) {
	s, ok := value.(string)
	if !ok {
		return "", errs.Schema("TypeMismatch", "expected a string value", "", string(op))
	}
	switch op {
	case operator.Like, operator.ILike:
		return fmt.Sprintf("%s LIKE %s", column, sink.Bind(s)), nil
	case operator.StartsWith, operator.EndsWith, operator.Contains:
		pattern := wrapStringOp(op, MSSQL, s)
		return fmt.Sprintf("%s LIKE %s", column, sink.Bind(pattern)), nil
	case operator.Regex:
		return "", errs.Dialect("regex is not supported on MSSQL", "", string(op))
	}
	return "", errs.Dialect(fmt.Sprintf("operator %q is not a string operator", op), "", string(op))
}

func (mssql) InOp(column string, isNot bool, fieldType schema.FieldType, sink ParamSink, values []any) (string, *errs.CompileError) {
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

func (mssql) ArrayOp(column string, op operator.Operator, fieldType schema.FieldType, sink ParamSink, value any) (string, *errs.CompileError) {
	return "", errs.Dialect(fmt.Sprintf("operator %q is not supported for MSSQL array/jsonb columns", op), "", string(op))
}

func (mssql) AnyOf(column string, isNot bool, fieldType schema.FieldType, sink ParamSink, value any) (string, *errs.CompileError) {
	return "", errs.Dialect("any_of is not supported on MSSQL", "", string(operator.AnyOf))
}

func (mssql) AnyILike(column string, isNot bool, sink ParamSink, value any) (string, *errs.CompileError) {
	return "", errs.Dialect("any_ilike is not supported on MSSQL", "", string(operator.AnyILike))
}

func (mssql) JSONOp(column string, op operator.Operator, sink ParamSink, value any) (string, *errs.CompileError) {
	return "", errs.Dialect(fmt.Sprintf("operator %q is not supported on MSSQL", op), "", string(op))
}
