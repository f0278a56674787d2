// Package validate implements Component C: schema-directed validation of
// field references, operators, and operand values, ahead of any SQL
// emission. Every exported function returns *errs.CompileError so the
// caller can distinguish structural, schema, identifier, and parameter
// failures per §4.9.
package validate

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Nam088/json-logic-to-sql/errs"
	"github.com/Nam088/json-logic-to-sql/operator"
	"github.com/Nam088/json-logic-to-sql/sanitize"
	"github.com/Nam088/json-logic-to-sql/schema"
)

// uuidPattern is the canonical 8-4-4-4-12 hex grammar, case-insensitive
// (§4.3). checkUUID requires a value to match it and also to pass
// google/uuid.Parse; the parser alone accepts a wider grammar (braces/urn
// forms), so the anchored regex is what rejects those non-canonical forms.
var uuidPattern = regexp.MustCompile(`^(?i)[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// dateFormatPatterns backs the format-regex check described in §4.3. Each
// entry is a fixed, anchored regex compiled once at package init.
var dateFormatPatterns = map[string]*regexp.Regexp{
	"iso":        regexp.MustCompile(`^\d{4}-\d{2}-\d{2}([T ]\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:?\d{2})?)?$`),
	"date-only":  regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`),
	"datetime":   regexp.MustCompile(`^\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:?\d{2})?$`),
	"YYYY-MM-DD": regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`),
	"YYYY/MM/DD": regexp.MustCompile(`^\d{4}/\d{2}/\d{2}$`),
	"DD-MM-YYYY": regexp.MustCompile(`^\d{2}-\d{2}-\d{4}$`),
	"DD/MM/YYYY": regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`),
	"DD.MM.YYYY": regexp.MustCompile(`^\d{2}\.\d{2}\.\d{4}$`),
	"MM-DD-YYYY": regexp.MustCompile(`^\d{2}-\d{2}-\d{4}$`),
	"MM/DD/YYYY": regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`),
	"HH:mm":      regexp.MustCompile(`^\d{2}:\d{2}$`),
	"HH:mm:ss":   regexp.MustCompile(`^\d{2}:\d{2}:\d{2}$`),
}

// ResolveField resolves a field name against the schema, failing
// UnknownField (strict default) or NotFilterable.
func ResolveField(s *schema.Schema, name string) (*schema.Field, *errs.CompileError) {
	f := s.Lookup(name)
	if f == nil {
		return nil, errs.Schema("UnknownField", fmt.Sprintf("unknown field %q", name), name, "")
	}
	if !f.Filterable {
		return nil, errs.Schema("NotFilterable", fmt.Sprintf("field %q is not filterable", name), name, "")
	}
	return f, nil
}

// CheckOperator fails OperatorNotAllowed if op is not in the field's
// declared allowlist, quoting the allowed set.
func CheckOperator(f *schema.Field, op operator.Operator) *errs.CompileError {
	if f.AllowsOperator(op) {
		return nil
	}
	allowed := make([]string, 0, len(f.AllowedOperators))
	for o := range f.AllowedOperators {
		allowed = append(allowed, string(o))
	}
	return errs.Schema(
		"OperatorNotAllowed",
		fmt.Sprintf("operator %q not allowed on field %q; allowed: %s", op, f.Name, strings.Join(allowed, ", ")),
		f.Name, string(op),
	)
}

// bypassesTypeCheck reports the "any_of/not_any_of/any_ilike/not_any_ilike
// on an array field" exception from §4.3: the value is compared against
// elements of the column, not validated against the field's own type.
func bypassesTypeCheck(f *schema.Field, op operator.Operator) bool {
	if f.Type != schema.TypeArray {
		return false
	}
	switch op {
	case operator.AnyOf, operator.NotAnyOf, operator.AnyILike, operator.NotAnyILike:
		return true
	}
	return false
}

// elementWiseOperators recurse their validation across a list of operands
// rather than validating a single scalar (§3 invariant 3, §4.3).
func elementWiseOperators(op operator.Operator) bool {
	switch op {
	case operator.In, operator.NotIn, operator.Between, operator.NotBetween:
		return true
	default:
		return false
	}
}

// isSetOperator reports whether op is in/not_in, the only element-wise
// operators that are also reinterpreted against array/jsonb fields (§4.8).
func isSetOperator(op operator.Operator) bool {
	return op == operator.In || op == operator.NotIn
}

// CheckValue validates a single operand value (or recurses element-wise for
// set/range operators) against the field's nullability, options, and
// type/constraint rules (§4.3).
func CheckValue(f *schema.Field, op operator.Operator, value any) *errs.CompileError {
	if elementWiseOperators(op) {
		if isSetOperator(op) && (f.Type == schema.TypeArray || f.Type.IsJSONLike()) {
			// in/not_in against an array/jsonb field is reinterpreted at
			// the dialect layer as a containment/overlap check (§4.8): the
			// candidate is a single list of scalars compared against the
			// column's elements, not a per-row list of column values, so
			// it is validated as one whole list (like overlaps/
			// contained_by already are) rather than recursed element-wise.
			return checkArray(f, value)
		}
		if list, ok := value.([]any); ok {
			for _, elem := range list {
				if err := checkScalarValue(f, op, elem); err != nil {
					return err
				}
			}
			return checkListConstraints(f, list)
		}
	}
	return checkScalarValue(f, op, value)
}

func checkListConstraints(f *schema.Field, list []any) *errs.CompileError {
	if f.Type != schema.TypeArray || f.Constraints == nil {
		return nil
	}
	if f.Constraints.MinItems != nil && len(list) < *f.Constraints.MinItems {
		return errs.Schema("ConstraintViolation", fmt.Sprintf("expects at least %d items", *f.Constraints.MinItems), f.Name, "")
	}
	if f.Constraints.MaxItems != nil && len(list) > *f.Constraints.MaxItems {
		return errs.Schema("ConstraintViolation", fmt.Sprintf("expects at most %d items", *f.Constraints.MaxItems), f.Name, "")
	}
	return nil
}

func checkScalarValue(f *schema.Field, op operator.Operator, value any) *errs.CompileError {
	if value == nil {
		if f.Nullable || operator.IsUnary(op) {
			return nil
		}
		return errs.Schema("NullNotAllowed", fmt.Sprintf("field %q does not allow null", f.Name), f.Name, string(op))
	}

	if err := sanitize.CheckParameterValue(value); err != nil {
		if ce, ok := err.(*errs.CompileError); ok {
			cloned := *ce
			cloned.Field = f.Name
			return &cloned
		}
		return errs.Parameter(err.Error(), f.Name)
	}

	if f.Options != nil && f.Options.Strict {
		if !containsValue(f.Options.Values, value) {
			return errs.Schema("OptionNotAllowed", fmt.Sprintf("value %v is not in the declared option set", value), f.Name, string(op))
		}
	}

	if bypassesTypeCheck(f, op) {
		return nil
	}

	switch f.Type {
	case schema.TypeString, schema.TypeText:
		return checkString(f, value)
	case schema.TypeNumber, schema.TypeInteger, schema.TypeDecimal:
		return checkNumber(f, value)
	case schema.TypeBoolean:
		return checkBool(f, value)
	case schema.TypeUUID:
		return checkUUID(f, value)
	case schema.TypeDate, schema.TypeDatetime, schema.TypeTimestamp:
		return checkDate(f, value)
	case schema.TypeArray:
		return checkArray(f, value)
	case schema.TypeJSON, schema.TypeJSONB:
		return nil // any JSON-compatible value is accepted
	}
	return nil
}

func containsValue(set []any, v any) bool {
	for _, item := range set {
		if fmt.Sprint(item) == fmt.Sprint(v) {
			return true
		}
	}
	return false
}

func checkString(f *schema.Field, value any) *errs.CompileError {
	s, ok := value.(string)
	if !ok {
		return errs.Schema("TypeMismatch", "expected a string", f.Name, "")
	}
	if f.Constraints != nil {
		if f.Constraints.MinLength != nil && len(s) < *f.Constraints.MinLength {
			return errs.Schema("ConstraintViolation", fmt.Sprintf("shorter than min_length=%d", *f.Constraints.MinLength), f.Name, "")
		}
		if f.Constraints.MaxLength != nil && len(s) > *f.Constraints.MaxLength {
			return errs.Schema("ConstraintViolation", fmt.Sprintf("longer than max_length=%d", *f.Constraints.MaxLength), f.Name, "")
		}
		if f.Constraints.Pattern != "" {
			re, err := regexp.Compile(f.Constraints.Pattern)
			if err != nil || !re.MatchString(s) {
				return errs.Schema("ConstraintViolation", "value does not match the declared pattern", f.Name, "")
			}
		}
		if f.Constraints.Validate != nil {
			if ok, reason := f.Constraints.Validate(value); !ok {
				if reason == "" {
					reason = "failed custom validation"
				}
				return errs.Schema("ConstraintViolation", reason, f.Name, "")
			}
		}
	}
	return nil
}

func checkNumber(f *schema.Field, value any) *errs.CompileError {
	n, ok := toFloat(value)
	if !ok || math.IsNaN(n) {
		return errs.Schema("TypeMismatch", "expected a non-NaN number", f.Name, "")
	}
	if f.Type == schema.TypeInteger && n != math.Trunc(n) {
		return errs.Schema("TypeMismatch", "expected an integer value", f.Name, "")
	}
	if f.Constraints != nil {
		if f.Constraints.Min != nil && n < *f.Constraints.Min {
			return errs.Schema("ConstraintViolation", fmt.Sprintf("below min=%v", *f.Constraints.Min), f.Name, "")
		}
		if f.Constraints.Max != nil && n > *f.Constraints.Max {
			return errs.Schema("ConstraintViolation", fmt.Sprintf("above max=%v", *f.Constraints.Max), f.Name, "")
		}
	}
	return nil
}

func toFloat(value any) (float64, bool) {
	switch n := value.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func checkBool(f *schema.Field, value any) *errs.CompileError {
	if _, ok := value.(bool); !ok {
		return errs.Schema("TypeMismatch", "expected a boolean", f.Name, "")
	}
	return nil
}

func checkUUID(f *schema.Field, value any) *errs.CompileError {
	s, ok := value.(string)
	if !ok {
		return errs.Schema("TypeMismatch", "expected a uuid string", f.Name, "")
	}
	if !uuidPattern.MatchString(s) {
		return errs.Schema("TypeMismatch", "value is not a canonical uuid", f.Name, "")
	}
	if _, err := uuid.Parse(s); err != nil {
		return errs.Schema("TypeMismatch", "value is not a valid uuid", f.Name, "")
	}
	return nil
}

func checkDate(f *schema.Field, value any) *errs.CompileError {
	s, ok := value.(string)
	if !ok {
		if _, isTime := value.(time.Time); isTime {
			return nil
		}
		return errs.Schema("TypeMismatch", "expected a date string", f.Name, "")
	}

	if !parseableAsCalendarInstant(s) {
		return errs.Schema("TypeMismatch", "value is not parseable as a calendar instant", f.Name, "")
	}

	if f.Constraints != nil {
		if f.Constraints.DateFormat != "" {
			re, ok := dateFormatPatterns[f.Constraints.DateFormat]
			if !ok {
				return errs.Schema("ConstraintViolation", fmt.Sprintf("unknown date_format %q", f.Constraints.DateFormat), f.Name, "")
			}
			if !re.MatchString(s) {
				return errs.Schema("ConstraintViolation", fmt.Sprintf("value does not match date_format %q", f.Constraints.DateFormat), f.Name, "")
			}
		}
		if f.Constraints.MinDate != "" || f.Constraints.MaxDate != "" {
			t, err := parseCalendarInstant(s)
			if err != nil {
				return errs.Schema("TypeMismatch", "value is not parseable as a calendar instant", f.Name, "")
			}
			if f.Constraints.MinDate != "" {
				if min, err := parseCalendarInstant(f.Constraints.MinDate); err == nil && t.Before(min) {
					return errs.Schema("ConstraintViolation", fmt.Sprintf("before min_date=%s", f.Constraints.MinDate), f.Name, "")
				}
			}
			if f.Constraints.MaxDate != "" {
				if max, err := parseCalendarInstant(f.Constraints.MaxDate); err == nil && t.After(max) {
					return errs.Schema("ConstraintViolation", fmt.Sprintf("after max_date=%s", f.Constraints.MaxDate), f.Name, "")
				}
			}
		}
	}
	return nil
}

var calendarLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"02-01-2006",
	"02/01/2006",
	"02.01.2006",
	"01-02-2006",
	"01/02/2006",
	"15:04",
	"15:04:05",
}

func parseableAsCalendarInstant(s string) bool {
	_, err := parseCalendarInstant(s)
	return err == nil
}

func parseCalendarInstant(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range calendarLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		} else {
			lastErr = err
		}
	}
	return time.Time{}, lastErr
}

func checkArray(f *schema.Field, value any) *errs.CompileError {
	list, ok := value.([]any)
	if !ok {
		return errs.Schema("TypeMismatch", "expected a list", f.Name, "")
	}
	return checkListConstraints(f, list)
}
