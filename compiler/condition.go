package compiler

import (
	"fmt"

	"github.com/Nam088/json-logic-to-sql/dialect"
	"github.com/Nam088/json-logic-to-sql/errs"
	"github.com/Nam088/json-logic-to-sql/operator"
	"github.com/Nam088/json-logic-to-sql/sanitize"
	"github.com/Nam088/json-logic-to-sql/schema"
	"github.com/Nam088/json-logic-to-sql/transform"
	"github.com/Nam088/json-logic-to-sql/validate"
)

// compileCondition implements §4.7's seven steps for a single leaf
// condition: canonicalize the operator, validate field/operator/values,
// apply input transforms, build the column expression, and dispatch to the
// active dialect for the operator's emission class.
func compileCondition(ctx *context, s *schema.Schema, d dialect.Dialect, cond *CondRule) (string, *errs.CompileError) {
	ctx.conditionCount++
	if ctx.conditionCount > ctx.maxConditions {
		return "", errs.Structural("MaxConditionsExceeded", fmt.Sprintf("condition count exceeds max_conditions=%d", ctx.maxConditions))
	}

	op, ok := operator.Canonicalize(cond.Token)
	if !ok {
		return "", errs.Structural("UnknownOperator", fmt.Sprintf("unknown operator token %q", cond.Token))
	}

	field, verr := validate.ResolveField(s, cond.Field.Name)
	if verr != nil {
		return "", verr
	}
	if verr := validate.CheckOperator(field, op); verr != nil {
		return "", verr
	}

	effectiveOp := nullRewrite(op, cond.Args)

	if operator.IsUnary(op) {
		if len(cond.Args) != 0 {
			return "", errs.Structural("BadOperandArity", fmt.Sprintf("operator %q takes no value operand", op))
		}
	} else {
		for _, arg := range cond.Args {
			if verr := validate.CheckValue(field, op, arg); verr != nil {
				return "", verr
			}
		}
	}

	args := applyInputTransforms(field, cond.Args)

	col, verr := buildColumnExpression(d, field)
	if verr != nil {
		return "", verr
	}

	restore := ctx.withFieldType(field.Type)
	defer restore()

	arrayLike := operator.IsArrayLikeType(string(field.Type))
	class := operator.ClassOf(effectiveOp, arrayLike)

	frag, verr := dispatch(d, ctx, class, effectiveOp, col, field, args)
	if verr != nil {
		return "", verr
	}
	return frag, nil
}

// nullRewrite implements §4.7 step 7: eq/ne against a literal null operand
// dispatches as is_null/is_not_null instead of a bound comparison.
func nullRewrite(op operator.Operator, args []any) operator.Operator {
	if len(args) != 1 || args[0] != nil {
		return op
	}
	switch op {
	case operator.Eq:
		return operator.IsNull
	case operator.Ne:
		return operator.IsNotNull
	default:
		return op
	}
}

// applyInputTransforms renders §4.4 mode 2 (value transform) over each
// operand, restricted to non-computed, non-JSON-path regular columns.
func applyInputTransforms(f *schema.Field, args []any) []any {
	if !f.IsRegularColumn() || f.Transform == nil || len(f.Transform.Input) == 0 {
		return args
	}
	out := make([]any, len(args))
	for i, a := range args {
		out[i] = transform.RenderValue(a, f.Transform.Input)
	}
	return out
}

// buildColumnExpression implements §4.7 step 4: computed fields are
// substituted verbatim, JSON-path fields are optionally cast per the
// dialect's casting rules, and regular columns are quoted and wrapped in
// the input column transform pipeline.
func buildColumnExpression(d dialect.Dialect, f *schema.Field) (string, *errs.CompileError) {
	switch {
	case f.Computed:
		return "(" + f.Expression + ")", nil

	case f.JSONPath != "":
		path := f.JSONPath
		if f.Type != schema.TypeString && f.Type != schema.TypeText {
			path = d.Cast(path, f.Type)
		}
		return path, nil

	default:
		colName := f.Column
		if colName == "" {
			colName = f.Name
		}
		if !sanitize.ValidIdentifier(colName) {
			return "", errs.Identifier(fmt.Sprintf("column identifier %q is invalid", colName), f.Name)
		}
		quoted := d.QuoteColumn(colName)
		if f.Transform == nil || len(f.Transform.Input) == 0 {
			return quoted, nil
		}
		rendered, terr := transform.RenderColumn(quoted, f.Transform.Input, transformDialectKind(d.Kind()))
		if terr != nil {
			return "", terr
		}
		return rendered, nil
	}
}

func transformDialectKind(k dialect.Kind) transform.DialectKind {
	switch k {
	case dialect.MySQL:
		return transform.MySQL
	case dialect.MSSQL:
		return transform.MSSQL
	case dialect.SQLite:
		return transform.SQLite
	default:
		return transform.PostgreSQL
	}
}

// dispatch routes a condition to the dialect method matching its operator
// class (§4.8). The array class further branches per operator: contains/
// contained_by/overlaps share ArrayOp (the dialect decides the array vs
// jsonb shape, per §9's open-question resolution), any_of/not_any_of share
// AnyOf, any_ilike/not_any_ilike share AnyILike.
func dispatch(d dialect.Dialect, ctx *context, class operator.Class, op operator.Operator, col string, f *schema.Field, args []any) (string, *errs.CompileError) {
	switch class {
	case operator.ClassUnary:
		return d.NullCheck(col, op == operator.IsNotNull), nil

	case operator.ClassComparison:
		v, verr := arg(args, 0)
		if verr != nil {
			return "", verr
		}
		return d.Comparison(col, op, ctx, v)

	case operator.ClassRange:
		if len(args) != 2 {
			return "", errs.Structural("BadOperandArity", fmt.Sprintf("operator %q requires exactly two operands", op))
		}
		return d.Between(col, op == operator.NotBetween, ctx, args[0], args[1])

	case operator.ClassSet:
		v, verr := arg(args, 0)
		if verr != nil {
			return "", verr
		}
		list, ok := v.([]any)
		if !ok {
			list = []any{v}
		}
		return d.InOp(col, op == operator.NotIn, f.Type, ctx, list)

	case operator.ClassArray:
		v, verr := arg(args, 0)
		if verr != nil {
			return "", verr
		}
		switch op {
		case operator.Contains, operator.ContainedBy, operator.Overlaps:
			return d.ArrayOp(col, op, f.Type, ctx, v)
		case operator.AnyOf, operator.NotAnyOf:
			return d.AnyOf(col, op == operator.NotAnyOf, f.Type, ctx, v)
		case operator.AnyILike, operator.NotAnyILike:
			return d.AnyILike(col, op == operator.NotAnyILike, ctx, v)
		default:
			return "", errs.Structural("UnknownOperator", fmt.Sprintf("operator %q has no array emission strategy", op))
		}

	case operator.ClassString:
		v, verr := arg(args, 0)
		if verr != nil {
			return "", verr
		}
		return d.StringOp(col, op, f.CaseSensitive, ctx, v)

	case operator.ClassJSON:
		v, verr := arg(args, 0)
		if verr != nil {
			return "", verr
		}
		return d.JSONOp(col, op, ctx, v)

	default:
		return "", errs.Structural("UnknownOperator", fmt.Sprintf("operator %q has no emission strategy", op))
	}
}

func arg(args []any, i int) (any, *errs.CompileError) {
	if i >= len(args) {
		return nil, errs.Structural("BadOperandArity", "operator requires a value operand")
	}
	return args[i], nil
}
