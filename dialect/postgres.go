package dialect

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Nam088/json-logic-to-sql/errs"
	"github.com/Nam088/json-logic-to-sql/operator"
	"github.com/Nam088/json-logic-to-sql/schema"
)

// postgres implements Dialect for PostgreSQL. It is the richest of the four
// variants: native array operators (@>, <@, &&, ANY/ALL), jsonb operators
// (@>, ?, ?|), and the array/jsonb reinterpretation of in/not_in as
// overlaps (§4.8 "Set (in / not_in) — array/jsonb field").
type postgres struct{}

// NewPostgreSQL constructs the PostgreSQL dialect variant.
func NewPostgreSQL() Dialect { return postgres{} }

func (postgres) Kind() Kind { return PostgreSQL }

func (postgres) QuoteIdentifier(name string) string { return quoteWith(name, `"`, `"`, `"`) }
func (d postgres) QuoteColumn(dotted string) string { return quoteDotted(dotted, d.QuoteIdentifier) }

func (postgres) Cast(path string, logicalType schema.FieldType) string {
	switch logicalType {
	case schema.TypeBoolean:
		return fmt.Sprintf("(%s)::boolean", path)
	case schema.TypeNumber, schema.TypeInteger, schema.TypeDecimal:
		return fmt.Sprintf("(%s)::numeric", path)
	case schema.TypeDate:
		return fmt.Sprintf("(%s)::date", path)
	case schema.TypeDatetime, schema.TypeTimestamp:
		return fmt.Sprintf("(%s)::timestamp", path)
	case schema.TypeUUID:
		return fmt.Sprintf("(%s)::uuid", path)
	default:
		return path
	}
}

func (postgres) NullCheck(column string, isNot bool) string {
	if isNot {
		return column + " IS NOT NULL"
	}
	return column + " IS NULL"
}

func (postgres) Comparison(column string, op operator.Operator, sink ParamSink, value any) (string, *errs.CompileError) {
	sql, ok := ComparisonSQL(op)
	if !ok {
		return "", errs.Dialect(fmt.Sprintf("operator %q is not a comparison operator", op), "", string(op))
	}
	return fmt.Sprintf("%s %s %s", column, sql, sink.Bind(value)), nil
}

func (postgres) Between(column string, isNot bool, sink ParamSink, lo, hi any) (string, *errs.CompileError) {
	if lo == nil || hi == nil {
		return "", errs.Structural("MissingOperand", "between requires two operands")
	}
	kw := "BETWEEN"
	if isNot {
		kw = "NOT BETWEEN"
	}
	return fmt.Sprintf("%s %s %s AND %s", column, kw, sink.Bind(lo), sink.Bind(hi)), nil
}

func (postgres) StringOp(column string, op operator.Operator, caseSensitive bool, sink ParamSink, value any) (string, *errs.CompileError) {
	s, ok := value.(string)
	if !ok {
		return "", errs.Schema("TypeMismatch", "expected a string value", "", string(op))
	}
	switch op {
	case operator.Like, operator.ILike:
		kw := "ILIKE"
		if op == operator.Like || caseSensitive {
			kw = "LIKE"
		}
		return fmt.Sprintf("%s %s %s", column, kw, sink.Bind(s)), nil
	case operator.StartsWith, operator.EndsWith, operator.Contains:
		kw := "ILIKE"
		if caseSensitive {
			kw = "LIKE"
		}
		pattern := wrapStringOp(op, PostgreSQL, s)
		return fmt.Sprintf("%s %s %s", column, kw, sink.Bind(pattern)), nil
	case operator.Regex:
		kw := "~*"
		if caseSensitive {
			kw = "~"
		}
		return fmt.Sprintf("%s %s %s", column, kw, sink.Bind(s)), nil
	}
	return "", errs.Dialect(fmt.Sprintf("operator %q is not a string operator", op), "", string(op))
}

func wrapStringOp(op operator.Operator, k Kind, s string) string {
	switch op {
	case operator.StartsWith:
		return WrapStartsWith(k, s)
	case operator.EndsWith:
		return WrapEndsWith(k, s)
	default:
		return WrapContains(k, s)
	}
}

func (postgres) InOp(column string, isNot bool, fieldType schema.FieldType, sink ParamSink, values []any) (string, *errs.CompileError) {
	if fieldType == schema.TypeArray || fieldType.IsJSONLike() {
		// §4.8: array/jsonb field — reinterpret in/not_in as overlaps.
		frag, err := postgres{}.ArrayOp(column, operator.Overlaps, fieldType, sink, values)
		if err != nil {
			return "", err
		}
		if isNot {
			return fmt.Sprintf("NOT (%s)", frag), nil
		}
		return frag, nil
	}

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

func (postgres) jsonbParam(sink ParamSink, value any) string {
	if sink.Style() == Question {
		encoded, err := json.Marshal(value)
		if err == nil {
			return sink.Bind(string(encoded))
		}
	}
	return sink.Bind(value)
}

func (d postgres) ArrayOp(column string, op operator.Operator, fieldType schema.FieldType, sink ParamSink, value any) (string, *errs.CompileError) {
	isJSONB := fieldType.IsJSONLike()

	switch op {
	case operator.Contains:
		if isJSONB {
			return fmt.Sprintf("%s @> %s::jsonb", column, d.jsonbParam(sink, value)), nil
		}
		return fmt.Sprintf("%s @> %s", column, sink.Bind(value)), nil

	case operator.ContainedBy:
		if isJSONB {
			return fmt.Sprintf("%s <@ %s::jsonb", column, d.jsonbParam(sink, value)), nil
		}
		return fmt.Sprintf("%s <@ %s", column, sink.Bind(value)), nil

	case operator.Overlaps:
		if isJSONB {
			return d.jsonbElementsExists(column, sink, value, "=")
		}
		return fmt.Sprintf("%s && %s", column, sink.Bind(value)), nil
	}

	return "", errs.Dialect(fmt.Sprintf("operator %q is not an array operator", op), "", string(op))
}

// jsonbElementsExists renders the "EXISTS (SELECT 1 FROM
// jsonb_array_elements_text(column) AS elem WHERE elem = ANY(ARRAY[...]))"
// pattern shared by jsonb overlaps/any_of (§4.8), one placeholder per
// element.
func (postgres) jsonbElementsExists(column string, sink ParamSink, value any, cmp string) (string, *errs.CompileError) {
	values, ok := value.([]any)
	if !ok {
		values = []any{value}
	}
	placeholders := make([]string, len(values))
	for i, v := range values {
		placeholders[i] = sink.Bind(v)
	}
	return fmt.Sprintf(
		"EXISTS (SELECT 1 FROM jsonb_array_elements_text(%s) AS elem WHERE elem %s ANY(ARRAY[%s]))",
		column, cmp, strings.Join(placeholders, ", "),
	), nil
}

func (d postgres) AnyOf(column string, isNot bool, fieldType schema.FieldType, sink ParamSink, value any) (string, *errs.CompileError) {
	if fieldType.IsJSONLike() {
		frag, err := d.jsonbElementsExists(column, sink, value, "=")
		if err != nil {
			return "", err
		}
		if isNot {
			return fmt.Sprintf("NOT %s", frag), nil
		}
		return frag, nil
	}
	if isNot {
		return fmt.Sprintf("%s <> ALL(%s)", sink.Bind(value), column), nil
	}
	return fmt.Sprintf("%s = ANY(%s)", sink.Bind(value), column), nil
}

func (postgres) AnyILike(column string, isNot bool, sink ParamSink, value any) (string, *errs.CompileError) {
	s, ok := value.(string)
	if !ok {
		return "", errs.Schema("TypeMismatch", "expected a string value", "", "")
	}
	pattern := WrapContains(PostgreSQL, s)
	kw := "EXISTS"
	if isNot {
		kw = "NOT EXISTS"
	}
	return fmt.Sprintf("%s (SELECT 1 FROM unnest(%s) AS x WHERE x ILIKE %s)", kw, column, sink.Bind(pattern)), nil
}

func (d postgres) JSONOp(column string, op operator.Operator, sink ParamSink, value any) (string, *errs.CompileError) {
	switch op {
	case operator.JSONContains:
		return fmt.Sprintf("%s @> %s::jsonb", column, d.jsonbParam(sink, value)), nil
	case operator.JSONHasKey:
		return fmt.Sprintf("%s ? %s", column, sink.Bind(value)), nil
	case operator.JSONHasAnyKeys:
		return fmt.Sprintf("%s ?| %s", column, sink.Bind(value)), nil
	}
	return "", errs.Dialect(fmt.Sprintf("operator %q is not a jsonb operator", op), "", string(op))
}
