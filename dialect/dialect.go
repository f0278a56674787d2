// Package dialect implements Component F: per-SQL-family decisions about
// identifier quoting, placeholder style, operator availability, and casting.
// Dialects are modeled as an interface (§9 "Polymorphism over dialects")
// implemented by four tagged, configuration-only variants — no inheritance,
// just exhaustive per-operator-class methods checked at compile time.
package dialect

import (
	"strings"

	"github.com/Nam088/json-logic-to-sql/errs"
	"github.com/Nam088/json-logic-to-sql/operator"
	"github.com/Nam088/json-logic-to-sql/schema"
)

// Kind names one of the four supported SQL dialects.
type Kind string

const (
	PostgreSQL Kind = "postgresql"
	MySQL      Kind = "mysql"
	MSSQL      Kind = "mssql"
	SQLite     Kind = "sqlite"
)

// PlaceholderStyle names the token family used to reference a bound
// parameter from within the emitted SQL text (§4.5).
type PlaceholderStyle string

const (
	Dollar   PlaceholderStyle = "dollar"   // $1, $2, ...
	Question PlaceholderStyle = "question" // ?, positional
	At       PlaceholderStyle = "at"       // @p1, @p2, ...
)

// ParamSink is the parameter-registration contract a dialect emitter uses to
// bind a value and receive the placeholder token to splice into SQL text.
// The compiler driver's compilation context implements this; dialects never
// see the underlying ordered map or index counter directly (§3 "Compilation
// context").
type ParamSink interface {
	// Bind registers value as the next parameter (in first-emission order,
	// §3 invariant 5) and returns the placeholder token formatted per the
	// active placeholder style ("$1", "?", "@p1", ...).
	Bind(value any) string
	// Style reports the active placeholder style, needed by dialects whose
	// value encoding depends on it (e.g. PostgreSQL jsonb pre-serialization
	// under the "?" style, §4.8).
	Style() PlaceholderStyle
}

// Dialect is implemented once per SQL family. Every method corresponds to
// one operator class from §4.1/§4.8; FieldType-dependent branching (array vs
// jsonb vs scalar) happens inside each method, not in the compiler driver.
type Dialect interface {
	Kind() Kind

	// QuoteIdentifier quotes a single already-validated lexeme.
	QuoteIdentifier(name string) string
	// QuoteColumn quotes each dot-separated segment of a validated,
	// possibly-qualified identifier and joins them with ".".
	QuoteColumn(dotted string) string

	// Cast wraps a JSON-path expression with the dialect's cast syntax for
	// the given logical type (§4.7 step 4). Returns path unchanged when no
	// cast is needed (text comparisons).
	Cast(path string, logicalType schema.FieldType) string

	NullCheck(column string, isNot bool) string
	Comparison(column string, op operator.Operator, sink ParamSink, value any) (string, *errs.CompileError)
	Between(column string, isNot bool, sink ParamSink, lo, hi any) (string, *errs.CompileError)
	StringOp(column string, op operator.Operator, caseSensitive bool, sink ParamSink, value any) (string, *errs.CompileError)
	InOp(column string, isNot bool, fieldType schema.FieldType, sink ParamSink, values []any) (string, *errs.CompileError)
	ArrayOp(column string, op operator.Operator, fieldType schema.FieldType, sink ParamSink, value any) (string, *errs.CompileError)
	AnyOf(column string, isNot bool, fieldType schema.FieldType, sink ParamSink, value any) (string, *errs.CompileError)
	AnyILike(column string, isNot bool, sink ParamSink, value any) (string, *errs.CompileError)
	JSONOp(column string, op operator.Operator, sink ParamSink, value any) (string, *errs.CompileError)
}

// comparisonSQL maps comparison operators to their SQL infix token, shared
// by every dialect (§4.8 "Comparison").
var comparisonSQL = map[operator.Operator]string{
	operator.Eq:  "=",
	operator.Ne:  "<>",
	operator.Gt:  ">",
	operator.Gte: ">=",
	operator.Lt:  "<",
	operator.Lte: "<=",
}

func ComparisonSQL(op operator.Operator) (string, bool) {
	sql, ok := comparisonSQL[op]
	return sql, ok
}

// quoteWith is the shared quoting helper used by every dialect's
// QuoteIdentifier/QuoteColumn: wrap name in open/close, doubling any
// embedded occurrence of the escape character.
func quoteWith(name, open, close_, escapeChar string) string {
	return open + strings.ReplaceAll(name, escapeChar, escapeChar+escapeChar) + close_
}

// quoteDotted quotes each dot-separated segment of dotted independently and
// joins them with ".".
func quoteDotted(dotted string, quoteOne func(string) string) string {
	parts := strings.Split(dotted, ".")
	for i, p := range parts {
		parts[i] = quoteOne(p)
	}
	return strings.Join(parts, ".")
}
