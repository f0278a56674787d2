package compiler

import (
	"fmt"
	"strings"

	"github.com/Nam088/json-logic-to-sql/dialect"
	"github.com/Nam088/json-logic-to-sql/errs"
	"github.com/Nam088/json-logic-to-sql/sanitize"
	"github.com/Nam088/json-logic-to-sql/schema"
)

// Compile is the core's single public entry point (§4.6, §6): a pure
// function from (schema, rule, opts) to (sql, params, paramsArray). The
// returned SQL fragment never includes the leading "WHERE" keyword; callers
// splice it into their own query.
func Compile(s *schema.Schema, rule any, opts Options) (sql string, params map[string]any, paramsArray []any, err *errs.CompileError) {
	sanitized, serr := sanitize.Sanitize(rule)
	if serr != nil {
		if ce, ok := serr.(*errs.CompileError); ok {
			return "", nil, nil, ce
		}
		return "", nil, nil, errs.Input("InvalidInput", serr.Error())
	}

	parsed, perr := Parse(sanitized)
	if perr != nil {
		return "", nil, nil, perr
	}

	d := resolveDialect(opts.Dialect)
	style := opts.PlaceholderStyle
	if style == "" {
		style = defaultPlaceholderStyle(opts.Dialect)
	}

	settings := s.Settings
	if opts.MaxDepth > 0 {
		settings.MaxDepth = opts.MaxDepth
	}
	if opts.MaxConditions > 0 {
		settings.MaxConditions = opts.MaxConditions
	}
	if settings.MaxDepth == 0 {
		settings.MaxDepth = 5
	}
	if settings.MaxConditions == 0 {
		settings.MaxConditions = 100
	}

	ctx := newContext(d, style, settings)
	frag, verr := visit(parsed, ctx, s, d)
	if verr != nil {
		return "", nil, nil, verr
	}

	params, paramsArray = ctx.orderedParams()
	return frag, params, paramsArray, nil
}

// visit dispatches on the outermost rule node kind (§4.6). Logical
// connectives recurse and compose fragments bottom-up; everything else is a
// leaf condition handled by compileCondition (§4.7).
func visit(rule Rule, ctx *context, s *schema.Schema, d dialect.Dialect) (string, *errs.CompileError) {
	switch r := rule.(type) {
	case *AndRule:
		return visitLogical(r.Children, ctx, s, d, "AND", "1=1")
	case *OrRule:
		return visitLogical(r.Children, ctx, s, d, "OR", "1=0")
	case *NotRule:
		// not recurses once into its inner rule without consuming the
		// depth budget (§4.6): only and/or nesting counts against max_depth.
		inner, err := visit(r.Inner, ctx, s, d)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("NOT (%s)", inner), nil
	case *CondRule:
		return compileCondition(ctx, s, d, r)
	default:
		return "", errs.Structural("MalformedRule", "unrecognized rule node")
	}
}

// visitLogical folds children left-to-right under ctx, sharing its
// parameter counter so placeholder indices match the textual left-to-right
// order of the assembled SQL (§4.6 "Ordering guarantee"). Empty lists
// short-circuit to the joiner's identity without consuming depth.
func visitLogical(children []Rule, ctx *context, s *schema.Schema, d dialect.Dialect, joiner, identity string) (string, *errs.CompileError) {
	if len(children) == 0 {
		return identity, nil
	}
	if err := enterNesting(ctx); err != nil {
		return "", err
	}
	parts := make([]string, len(children))
	for i, child := range children {
		frag, err := visit(child, ctx, s, d)
		if err != nil {
			return "", err
		}
		parts[i] = fmt.Sprintf("(%s)", frag)
	}
	ctx.depth--
	return "(" + strings.Join(parts, " "+joiner+" ") + ")", nil
}

func enterNesting(ctx *context) *errs.CompileError {
	ctx.depth++
	if ctx.depth > ctx.maxDepth {
		return errs.Structural("MaxDepthExceeded", fmt.Sprintf("nesting depth exceeds max_depth=%d", ctx.maxDepth))
	}
	return nil
}
