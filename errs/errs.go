// Package errs provides the typed error taxonomy shared by every stage of
// the compiler pipeline: sanitizer, schema validator, operator registry,
// transform engine, dialect layer, and compiler driver.
package errs

import "fmt"

// Kind classifies a CompileError into one of the categories a caller needs
// to distinguish in order to decide whether a request is recoverable.
type Kind string

const (
	KindStructural Kind = "structural"
	KindSchema     Kind = "schema"
	KindIdentifier Kind = "identifier"
	KindParameter  Kind = "parameter"
	KindDialect    Kind = "dialect"
	KindInput      Kind = "input"
)

// CompileError is the single error type returned by every public entry point
// in this module. Compilation is terminal: the first CompileError aborts the
// pipeline and is returned as-is to the caller.
type CompileError struct {
	Kind     Kind
	Code     string
	Message  string
	Field    string
	Operator string
	Cause    error
}

func (e *CompileError) Error() string {
	switch {
	case e.Field != "" && e.Operator != "":
		return fmt.Sprintf("%s: %s (field=%q operator=%q)", e.Code, e.Message, e.Field, e.Operator)
	case e.Field != "":
		return fmt.Sprintf("%s: %s (field=%q)", e.Code, e.Message, e.Field)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

func (e *CompileError) Unwrap() error { return e.Cause }

// Is allows errors.Is(err, target) checks: when the target carries a Code
// it matches on Code, otherwise on Kind. Message/Field on the target are
// ignored.
func (e *CompileError) Is(target error) bool {
	t, ok := target.(*CompileError)
	if !ok {
		return false
	}
	if t.Code != "" {
		return t.Code == e.Code
	}
	return t.Kind == e.Kind
}

func new_(kind Kind, code, message string) *CompileError {
	return &CompileError{Kind: kind, Code: code, Message: message}
}

// Structural-category constructors (§4.9): malformed rule shape, unknown
// operator token, bad operand arity, depth/condition caps exceeded.
func Structural(code, message string) *CompileError { return new_(KindStructural, code, message) }

// Schema-category constructors: unknown/non-filterable field, operator not
// allowed, type/options/constraint violation.
func Schema(code, message, field, operator string) *CompileError {
	e := new_(KindSchema, code, message)
	e.Field = field
	e.Operator = operator
	return e
}

// Identifier-category: a column/path lexeme fails the identifier grammar.
func Identifier(message, field string) *CompileError {
	e := new_(KindIdentifier, "InvalidIdentifier", message)
	e.Field = field
	return e
}

// Parameter-category: NUL byte in a string value, or non-string value
// reaching a pattern check.
func Parameter(message, field string) *CompileError {
	e := new_(KindParameter, "InvalidParameter", message)
	e.Field = field
	return e
}

// Dialect-category: operator not supported by the active dialect.
func Dialect(message, field, operator string) *CompileError {
	e := new_(KindDialect, "UnsupportedOperator", message)
	e.Field = field
	e.Operator = operator
	return e
}

// Input-category: circular reference or prohibited key found during
// sanitization.
func Input(code, message string) *CompileError { return new_(KindInput, code, message) }

// Wrap attaches a lower-level cause to an existing CompileError, returning a
// new value (the original is left untouched).
func Wrap(e *CompileError, cause error) *CompileError {
	clone := *e
	clone.Cause = cause
	return &clone
}
