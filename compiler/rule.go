// Package compiler implements Component G: the driver that walks a
// sanitized JSON Logic rule tree, delegates field resolution, validation,
// and transform rendering to the validate/transform packages, and asks the
// active dialect.Dialect to emit SQL text and register parameters.
package compiler

import (
	"fmt"

	"github.com/Nam088/json-logic-to-sql/errs"
)

// Rule is the parsed, sanitized representation of one JSON Logic node. It
// replaces the source's duck-typed object dispatch with exhaustive matching
// over a small closed set of node kinds (§9 "Rule tree").
type Rule interface{ ruleNode() }

// AndRule is the conjunction of Children; an empty AndRule compiles to the
// identity "1=1".
type AndRule struct{ Children []Rule }

// OrRule is the disjunction of Children; an empty OrRule compiles to the
// identity "1=0".
type OrRule struct{ Children []Rule }

// NotRule negates Inner.
type NotRule struct{ Inner Rule }

// FieldRef names a schema field, resolved during condition handling rather
// than at parse time (the schema is not available to the parser).
type FieldRef struct{ Name string }

// CondRule is a leaf condition: a surface operator token, the field it
// targets, and 0-2 literal or array operands taken from the JSON Logic
// operand list after the field reference.
type CondRule struct {
	Token string
	Field FieldRef
	Args  []any
}

func (*AndRule) ruleNode()  {}
func (*OrRule) ruleNode()   {}
func (*NotRule) ruleNode()  {}
func (*CondRule) ruleNode() {}

// Parse converts a sanitized JSON Logic value into a Rule tree. Each object
// node must carry exactly one key per JSON Logic convention; anything else
// is a structural error.
func Parse(v any) (Rule, *errs.CompileError) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, errs.Structural("MalformedRule", "rule node must be a single-key object")
	}
	if len(obj) != 1 {
		return nil, errs.Structural("MalformedRule", fmt.Sprintf("rule node must have exactly one key, got %d", len(obj)))
	}

	var token string
	var operand any
	for k, v := range obj {
		token, operand = k, v
	}

	operands := asOperandList(operand)

	switch token {
	case "and":
		return parseLogicalChildren(token, operands, func(children []Rule) Rule { return &AndRule{Children: children} })
	case "or":
		return parseLogicalChildren(token, operands, func(children []Rule) Rule { return &OrRule{Children: children} })
	case "not", "!":
		if len(operands) != 1 {
			return nil, errs.Structural("MalformedRule", "not requires exactly one operand")
		}
		inner, err := Parse(operands[0])
		if err != nil {
			return nil, err
		}
		return &NotRule{Inner: inner}, nil
	default:
		return parseCondition(token, operands)
	}
}

func parseLogicalChildren(token string, operands []any, wrap func([]Rule) Rule) (Rule, *errs.CompileError) {
	children := make([]Rule, 0, len(operands))
	for _, operand := range operands {
		child, err := Parse(operand)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return wrap(children), nil
}

// parseCondition treats token as a leaf condition operator: the first
// operand must be a field reference ({"var": name}); the remaining operands
// (0, 1, or 2) are the condition's literal/array arguments.
func parseCondition(token string, operands []any) (Rule, *errs.CompileError) {
	if len(operands) == 0 {
		return nil, errs.Structural("MalformedRule", fmt.Sprintf("operator %q requires a field reference operand", token))
	}
	field, err := parseFieldRef(operands[0])
	if err != nil {
		return nil, err
	}
	return &CondRule{Token: token, Field: field, Args: operands[1:]}, nil
}

func parseFieldRef(v any) (FieldRef, *errs.CompileError) {
	obj, ok := v.(map[string]any)
	if !ok || len(obj) != 1 {
		return FieldRef{}, errs.Structural("MalformedRule", "expected a field reference node {\"var\": name}")
	}
	raw, ok := obj["var"]
	if !ok {
		return FieldRef{}, errs.Structural("MalformedRule", "expected a field reference node {\"var\": name}")
	}
	name, ok := raw.(string)
	if !ok {
		return FieldRef{}, errs.Structural("MalformedRule", "field reference name must be a string")
	}
	return FieldRef{Name: name}, nil
}

// asOperandList normalizes a JSON Logic operand, which may be a bare value
// (treated as a single-element operand list) or an array.
func asOperandList(v any) []any {
	if list, ok := v.([]any); ok {
		return list
	}
	return []any{v}
}
