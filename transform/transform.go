// Package transform implements Component E: rendering a field's declared
// transform pipeline into either a wrapped SQL column expression or a
// mutated parameter value, dialect-aware where the underlying SQL function
// varies (EXTRACT vs YEAR/MONTH/DAY) or is unsupported on a given dialect
// (unaccent is PostgreSQL-only).
package transform

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/Nam088/json-logic-to-sql/errs"
	"github.com/Nam088/json-logic-to-sql/schema"
)

// DialectKind names the four supported SQL dialects for transform rendering
// purposes, mirroring dialect.Kind without importing package dialect.
type DialectKind string

const (
	PostgreSQL DialectKind = "postgresql"
	MySQL      DialectKind = "mysql"
	MSSQL      DialectKind = "mssql"
	SQLite     DialectKind = "sqlite"
)

const columnPlaceholder = "{column}"

// RenderColumn wraps expr inside-out with the given transform steps, e.g.
// [lower, trim] renders TRIM(LOWER(expr)). Built-ins are case-folded SQL
// function names; dialect-variant date-part extraction and the
// PostgreSQL-only unaccent are handled per dialectKind. Custom templates
// substitute columnPlaceholder with the current expression at each step.
func RenderColumn(expr string, steps []schema.TransformStep, dialectKind DialectKind) (string, *errs.CompileError) {
	current := expr
	for _, step := range steps {
		if step.Template != "" {
			current = strings.ReplaceAll(step.Template, columnPlaceholder, current)
			continue
		}
		rendered, err := renderColumnStep(current, step.Name, dialectKind)
		if err != nil {
			return "", err
		}
		current = rendered
	}
	return current, nil
}

func renderColumnStep(expr, name string, dialectKind DialectKind) (string, *errs.CompileError) {
	switch name {
	case "lower":
		return fmt.Sprintf("LOWER(%s)", expr), nil
	case "upper":
		return fmt.Sprintf("UPPER(%s)", expr), nil
	case "trim":
		return fmt.Sprintf("TRIM(%s)", expr), nil
	case "ltrim":
		return fmt.Sprintf("LTRIM(%s)", expr), nil
	case "rtrim":
		return fmt.Sprintf("RTRIM(%s)", expr), nil
	case "date":
		switch dialectKind {
		case MySQL:
			return fmt.Sprintf("DATE(%s)", expr), nil
		case SQLite:
			return fmt.Sprintf("date(%s)", expr), nil
		case MSSQL:
			return fmt.Sprintf("CAST(%s AS DATE)", expr), nil
		default:
			return fmt.Sprintf("(%s)::date", expr), nil
		}
	case "year", "month", "day":
		return renderDatePart(expr, name, dialectKind), nil
	case "unaccent":
		if dialectKind != PostgreSQL {
			return "", errs.Dialect(fmt.Sprintf("unaccent transform is PostgreSQL-only, not supported on %s", dialectKind), "", "")
		}
		return fmt.Sprintf("unaccent(%s)", expr), nil
	default:
		return "", errs.Structural("UnknownTransform", fmt.Sprintf("unknown transform %q", name))
	}
}

func renderDatePart(expr, part string, dialectKind DialectKind) string {
	switch dialectKind {
	case MySQL:
		return fmt.Sprintf("%s(%s)", strings.ToUpper(part), expr)
	case SQLite:
		unit := map[string]string{"year": "%Y", "month": "%m", "day": "%d"}[part]
		return fmt.Sprintf("CAST(strftime('%s', %s) AS INTEGER)", unit, expr)
	case MSSQL:
		return fmt.Sprintf("DATEPART(%s, %s)", part, expr)
	default:
		return fmt.Sprintf("EXTRACT(%s FROM %s)", strings.ToUpper(part), expr)
	}
}

// valueBuiltins is the text-only subset of transforms applied to parameter
// values (§4.4); RenderValue handles unaccent separately. Custom templates
// never apply to values.
var valueBuiltins = map[string]func(string) string{
	"lower": strings.ToLower,
	"upper": strings.ToUpper,
	"trim":  strings.TrimSpace,
	"ltrim": func(s string) string { return strings.TrimLeftFunc(s, unicode.IsSpace) },
	"rtrim": func(s string) string { return strings.TrimRightFunc(s, unicode.IsSpace) },
}

// RenderValue applies the text-only built-in transforms to value itself,
// and strips accents for an unaccent step. Non-string values and the other
// steps (date, year, month, day, templates) pass through unchanged.
func RenderValue(value any, steps []schema.TransformStep) any {
	s, ok := value.(string)
	if !ok {
		return value
	}
	for _, step := range steps {
		if fn, ok := valueBuiltins[step.Name]; ok {
			s = fn(s)
		} else if step.Name == "unaccent" {
			s = stripAccents(s)
		}
	}
	return s
}

// stripAccents backs the value-side companion of the unaccent column
// transform: NFD-decompose and drop combining marks, grounded on
// golang.org/x/text/unicode/norm as used for canonicalization in the
// example pack's roach88-nysm/brutalist/internal/ir/canonical.go.
func stripAccents(s string) string {
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
