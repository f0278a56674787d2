package dialect

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Nam088/json-logic-to-sql/errs"
	"github.com/Nam088/json-logic-to-sql/operator"
	"github.com/Nam088/json-logic-to-sql/schema"
)

// mysql implements Dialect for MySQL/MariaDB. Array-column operators beyond
// in/not_in/contains are unsupported; JSON containment is expressed with
// JSON_CONTAINS (§4.8 "Array operators (MySQL)").
type mysql struct{}

// NewMySQL constructs the MySQL dialect variant.
func NewMySQL() Dialect { return mysql{} }

func (mysql) Kind() Kind { return MySQL }

func (mysql) QuoteIdentifier(name string) string { return "`" + strings.ReplaceAll(name, "`", "``") + "`" }
func (d mysql) QuoteColumn(dotted string) string  { return quoteDotted(dotted, d.QuoteIdentifier) }

func (mysql) Cast(path string, logicalType schema.FieldType) string {
	switch logicalType {
	case schema.TypeNumber, schema.TypeInteger, schema.TypeDecimal:
		return fmt.Sprintf("CAST(%s AS DECIMAL)", path)
	case schema.TypeDate:
		return fmt.Sprintf("CAST(%s AS DATE)", path)
	case schema.TypeDatetime, schema.TypeTimestamp:
		return fmt.Sprintf("CAST(%s AS DATETIME)", path)
	default:
		return path
	}
}

func (mysql) NullCheck(column string, isNot bool) string {
	if isNot {
		return column + " IS NOT NULL"
	}
	return column + " IS NULL"
}

func (mysql) Comparison(column string, op operator.Operator, sink ParamSink, value any) (string, *errs.CompileError) {
	sql, ok := ComparisonSQL(op)
	if !ok {
		return "", errs.Dialect(fmt.Sprintf("operator %q is not a comparison operator", op), "", string(op))
	}
	return fmt.Sprintf("%s %s %s", column, sql, sink.Bind(value)), nil
}

func (mysql) Between(column string, isNot bool, sink ParamSink, lo, hi any) (string, *errs.CompileError) {
	if lo == nil || hi == nil {
		return "", errs.Structural("MissingOperand", "between requires two operands")
	}
	kw := "BETWEEN"
	if isNot {
		kw = "NOT BETWEEN"
	}
	return fmt.Sprintf("%s %s %s AND %s", column, kw, sink.Bind(lo), sink.Bind(hi)), nil
}

func (mysql) StringOp(column string, op operator.Operator, caseSensitive bool, sink ParamSink, value any) (string, *errs.CompileError) {
	s, ok := value.(string)
	if !ok {
		return "", errs.Schema("TypeMismatch", "expected a string value", "", string(op))
	}
	switch op {
	case operator.Like, operator.ILike:
		return fmt.Sprintf("%s LIKE %s", column, sink.Bind(s)), nil
	case operator.StartsWith, operator.EndsWith, operator.Contains:
		pattern := wrapStringOp(op, MySQL, s)
		return fmt.Sprintf("%s LIKE %s", column, sink.Bind(pattern)), nil
	case operator.Regex:
		return fmt.Sprintf("%s REGEXP %s", column, sink.Bind(s)), nil
	}
	return "", errs.Dialect(fmt.Sprintf("operator %q is not a string operator", op), "", string(op))
}

func (mysql) InOp(column string, isNot bool, fieldType schema.FieldType, sink ParamSink, values []any) (string, *errs.CompileError) {
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

func (mysql) ArrayOp(column string, op operator.Operator, fieldType schema.FieldType, sink ParamSink, value any) (string, *errs.CompileError) {
	if op == operator.Contains {
		encoded, err := json.Marshal(value)
		if err != nil {
			return "", errs.Parameter("value cannot be JSON-encoded for JSON_CONTAINS", "")
		}
		return fmt.Sprintf("JSON_CONTAINS(%s, %s)", column, sink.Bind(string(encoded))), nil
	}
	return "", errs.Dialect(fmt.Sprintf("operator %q is not supported for MySQL array/jsonb columns", op), "", string(op))
}

func (mysql) AnyOf(column string, isNot bool, fieldType schema.FieldType, sink ParamSink, value any) (string, *errs.CompileError) {
	return "", errs.Dialect("any_of is not supported on MySQL", "", string(operator.AnyOf))
}

func (mysql) AnyILike(column string, isNot bool, sink ParamSink, value any) (string, *errs.CompileError) {
	return "", errs.Dialect("any_ilike is not supported on MySQL", "", string(operator.AnyILike))
}

func (mysql) JSONOp(column string, op operator.Operator, sink ParamSink, value any) (string, *errs.CompileError) {
	switch op {
	case operator.JSONContains:
		encoded, err := json.Marshal(value)
		if err != nil {
			return "", errs.Parameter("value cannot be JSON-encoded for JSON_CONTAINS", "")
		}
		return fmt.Sprintf("JSON_CONTAINS(%s, %s)", column, sink.Bind(string(encoded))), nil
	case operator.JSONHasKey:
		return fmt.Sprintf("JSON_CONTAINS_PATH(%s, 'one', %s)", column, sink.Bind(jsonKeyPath(value))), nil
	case operator.JSONHasAnyKeys:
		keys, _ := value.([]any)
		placeholders := make([]string, len(keys))
		for i, k := range keys {
			placeholders[i] = sink.Bind(jsonKeyPath(k))
		}
		return fmt.Sprintf("JSON_CONTAINS_PATH(%s, 'one', %s)", column, strings.Join(placeholders, ", ")), nil
	}
	return "", errs.Dialect(fmt.Sprintf("operator %q is not a jsonb operator", op), "", string(op))
}

func jsonKeyPath(key any) string {
	return fmt.Sprintf("$.%v", key)
}
