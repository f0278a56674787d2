package compiler

import (
	"fmt"

	"github.com/Nam088/json-logic-to-sql/dialect"
	"github.com/Nam088/json-logic-to-sql/schema"
)

// context is the mutable compilation state threaded by reference through
// the rule-tree walk (§3 "Compilation context", §9 "pass the context by
// mutable reference ... avoid thread-local or globally scoped state").
// Created fresh at the start of Compile and discarded on return.
type context struct {
	dialect       dialect.Dialect
	style         dialect.PlaceholderStyle
	maxDepth      int
	maxConditions int

	depth          int
	conditionCount int
	nextIndex      int
	keys           []string
	values         map[string]any

	fieldType schema.FieldType
}

func newContext(d dialect.Dialect, style dialect.PlaceholderStyle, settings schema.Settings) *context {
	return &context{
		dialect:       d,
		style:         style,
		maxDepth:      settings.MaxDepth,
		maxConditions: settings.MaxConditions,
		nextIndex:     1,
		values:        make(map[string]any),
	}
}

// Bind implements dialect.ParamSink: registers value under the next p{i}
// key, in first-emission order (§3 invariant 5, §4.5), and returns the
// dialect-specific placeholder token to splice into SQL text.
func (c *context) Bind(value any) string {
	i := c.nextIndex
	c.nextIndex++
	key := fmt.Sprintf("p%d", i)
	c.keys = append(c.keys, key)
	c.values[key] = value
	return c.placeholder(i)
}

func (c *context) Style() dialect.PlaceholderStyle { return c.style }

func (c *context) placeholder(i int) string {
	switch c.style {
	case dialect.Question:
		return "?"
	case dialect.At:
		return fmt.Sprintf("@p%d", i)
	default:
		return fmt.Sprintf("$%d", i)
	}
}

// withFieldType saves the currently active field type, sets typ for the
// duration of the dialect call, and returns a restore function (§9
// "saved and restored around the dialect call ... scoped guards").
func (c *context) withFieldType(typ schema.FieldType) func() {
	prev := c.fieldType
	c.fieldType = typ
	return func() { c.fieldType = prev }
}

// orderedParams returns the registered parameters as both the "p{i}"-keyed
// map and the index-ordered array the external interface promises (§6).
func (c *context) orderedParams() (map[string]any, []any) {
	params := make(map[string]any, len(c.keys))
	array := make([]any, len(c.keys))
	for i, key := range c.keys {
		v := c.values[key]
		params[key] = v
		array[i] = v
	}
	return params, array
}
