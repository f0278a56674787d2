package compiler

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Nam088/json-logic-to-sql/dialect"
	"github.com/Nam088/json-logic-to-sql/operator"
	"github.com/Nam088/json-logic-to-sql/schema"
)

func accountsSchema() *schema.Schema {
	s := schema.New()
	s.AddField("status", schema.TypeString, schema.Operators(operator.Eq, operator.In))
	s.AddField("age", schema.TypeInteger, schema.Operators(operator.Gt, operator.Between, operator.NotBetween))
	s.AddField("name", schema.TypeString, schema.Operators(operator.Contains))
	s.AddField("meta", schema.TypeJSONB, schema.Operators(operator.JSONContains))
	s.AddField("tags", schema.TypeArray, schema.Operators(operator.AnyOf, operator.In))
	return s
}

func TestCompile_ExampleA_SimpleEquality(t *testing.T) {
	s := accountsSchema()
	rule := map[string]any{"==": []any{map[string]any{"var": "status"}, "active"}}
	sql, params, array, err := Compile(s, rule, Options{Dialect: dialect.PostgreSQL})
	require.Nil(t, err)
	require.Equal(t, `"status" = $1`, sql)
	require.Equal(t, map[string]any{"p1": "active"}, params)
	require.Equal(t, []any{"active"}, array)
}

func TestCompile_ExampleB_NestedAnd(t *testing.T) {
	s := accountsSchema()
	rule := map[string]any{
		"and": []any{
			map[string]any{"==": []any{map[string]any{"var": "status"}, "active"}},
			map[string]any{">": []any{map[string]any{"var": "age"}, 18}},
		},
	}
	sql, params, _, err := Compile(s, rule, Options{Dialect: dialect.PostgreSQL})
	require.Nil(t, err)
	require.Equal(t, `(("status" = $1) AND ("age" > $2))`, sql)
	require.Equal(t, map[string]any{"p1": "active", "p2": int(18)}, params)
}

func TestCompile_ExampleC_EmptyInIsFalseIdentity(t *testing.T) {
	s := accountsSchema()
	rule := map[string]any{"in": []any{map[string]any{"var": "status"}, []any{}}}
	sql, params, _, err := Compile(s, rule, Options{Dialect: dialect.PostgreSQL})
	require.Nil(t, err)
	require.Equal(t, "1=0", sql)
	require.Empty(t, params)
}

func TestCompile_ExampleD_ContainsCaseInsensitive(t *testing.T) {
	s := accountsSchema()
	rule := map[string]any{"contains": []any{map[string]any{"var": "name"}, "bob"}}
	sql, params, _, err := Compile(s, rule, Options{Dialect: dialect.PostgreSQL})
	require.Nil(t, err)
	require.Equal(t, `"name" ILIKE $1`, sql)
	require.Equal(t, "%bob%", params["p1"])
}

func TestCompile_ExampleE_JSONContains(t *testing.T) {
	s := accountsSchema()
	rule := map[string]any{"json_contains": []any{map[string]any{"var": "meta"}, map[string]any{"color": "red"}}}
	sql, _, _, err := Compile(s, rule, Options{Dialect: dialect.PostgreSQL})
	require.Nil(t, err)
	require.Equal(t, `"meta" @> $1::jsonb`, sql)
}

func TestCompile_ExampleF_AnyOfOnArrayField(t *testing.T) {
	s := accountsSchema()
	rule := map[string]any{"any_of": []any{map[string]any{"var": "tags"}, "vip"}}
	sql, _, _, err := Compile(s, rule, Options{Dialect: dialect.PostgreSQL})
	require.Nil(t, err)
	require.Equal(t, `$1 = ANY("tags")`, sql)
}

func TestCompile_InOnArrayField_ReinterpretedAsOverlaps(t *testing.T) {
	s := accountsSchema()
	rule := map[string]any{"in": []any{map[string]any{"var": "tags"}, []any{"vip", "gold"}}}
	sql, params, _, err := Compile(s, rule, Options{Dialect: dialect.PostgreSQL})
	require.Nil(t, err)
	require.Equal(t, `"tags" && $1`, sql)
	require.Equal(t, []any{"vip", "gold"}, params["p1"])
}

func TestCompile_ExampleG_BetweenOnMSSQLAtStyle(t *testing.T) {
	s := accountsSchema()
	rule := map[string]any{"between": []any{map[string]any{"var": "age"}, 18, 65}}
	sql, params, array, err := Compile(s, rule, Options{Dialect: dialect.MSSQL})
	require.Nil(t, err)
	require.Equal(t, "[age] BETWEEN @p1 AND @p2", sql)
	require.Equal(t, []any{18, 65}, array)
	require.Equal(t, map[string]any{"p1": 18, "p2": 65}, params)
}

func TestCompile_NotRule(t *testing.T) {
	s := accountsSchema()
	rule := map[string]any{"not": map[string]any{"==": []any{map[string]any{"var": "status"}, "active"}}}
	sql, _, _, err := Compile(s, rule, Options{Dialect: dialect.PostgreSQL})
	require.Nil(t, err)
	require.Equal(t, `NOT ("status" = $1)`, sql)
}

func TestCompile_OrRule_EmptyIsFalseIdentity(t *testing.T) {
	s := accountsSchema()
	rule := map[string]any{"or": []any{}}
	sql, _, _, err := Compile(s, rule, Options{Dialect: dialect.PostgreSQL})
	require.Nil(t, err)
	require.Equal(t, "1=0", sql)
}

func TestCompile_NullRewrite_EqNull(t *testing.T) {
	s := schema.New().AddField("deleted_at", schema.TypeDatetime, schema.Operators(operator.Eq), schema.Nullable())
	rule := map[string]any{"==": []any{map[string]any{"var": "deleted_at"}, nil}}
	sql, params, _, err := Compile(s, rule, Options{Dialect: dialect.PostgreSQL})
	require.Nil(t, err)
	require.Equal(t, `"deleted_at" IS NULL`, sql)
	require.Empty(t, params)
}

func TestCompile_NullRewrite_NeNullRequiresNullable(t *testing.T) {
	s := schema.New().AddField("status", schema.TypeString, schema.Operators(operator.Ne))
	rule := map[string]any{"!=": []any{map[string]any{"var": "status"}, nil}}
	_, _, _, err := Compile(s, rule, Options{Dialect: dialect.PostgreSQL})
	require.Error(t, err)
	require.Equal(t, "NullNotAllowed", err.Code)
}

func TestCompile_UnknownField(t *testing.T) {
	s := accountsSchema()
	rule := map[string]any{"==": []any{map[string]any{"var": "nope"}, "x"}}
	_, _, _, err := Compile(s, rule, Options{Dialect: dialect.PostgreSQL})
	require.Error(t, err)
	require.Equal(t, "UnknownField", err.Code)
}

func TestCompile_OperatorNotAllowed(t *testing.T) {
	s := accountsSchema()
	rule := map[string]any{"<": []any{map[string]any{"var": "status"}, "z"}}
	_, _, _, err := Compile(s, rule, Options{Dialect: dialect.PostgreSQL})
	require.Error(t, err)
	require.Equal(t, "OperatorNotAllowed", err.Code)
}

func TestCompile_MaxDepthExceeded(t *testing.T) {
	s := accountsSchema()
	leaf := map[string]any{"==": []any{map[string]any{"var": "status"}, "active"}}
	rule := map[string]any{"and": []any{map[string]any{"and": []any{map[string]any{"and": []any{map[string]any{"and": []any{leaf}}}}}}}}
	_, _, _, err := Compile(s, rule, Options{Dialect: dialect.PostgreSQL, MaxDepth: 3})
	require.Error(t, err)
	require.Equal(t, "MaxDepthExceeded", err.Code)
}

func TestCompile_NotNesting_NeverConsumesDepthBudget(t *testing.T) {
	s := accountsSchema()
	rule := map[string]any{"not": map[string]any{"not": map[string]any{"not": map[string]any{"not": map[string]any{
		"not": map[string]any{"not": map[string]any{"==": []any{map[string]any{"var": "status"}, "active"}}},
	}}}}}
	sql, _, _, err := Compile(s, rule, Options{Dialect: dialect.PostgreSQL, MaxDepth: 3})
	require.Nil(t, err)
	require.Equal(t, `NOT (NOT (NOT (NOT (NOT (NOT ("status" = $1))))))`, sql)
}

func TestCompile_MaxConditionsExceeded(t *testing.T) {
	s := accountsSchema()
	children := make([]any, 0, 5)
	for i := 0; i < 5; i++ {
		children = append(children, map[string]any{"==": []any{map[string]any{"var": "status"}, "active"}})
	}
	rule := map[string]any{"and": children}
	_, _, _, err := Compile(s, rule, Options{Dialect: dialect.PostgreSQL, MaxConditions: 3})
	require.Error(t, err)
	require.Equal(t, "MaxConditionsExceeded", err.Code)
}

func TestCompile_DefaultPlaceholderStylePerDialect(t *testing.T) {
	s := accountsSchema()
	rule := map[string]any{"==": []any{map[string]any{"var": "status"}, "active"}}

	sql, _, _, err := Compile(s, rule, Options{Dialect: dialect.MySQL})
	require.Nil(t, err)
	require.Equal(t, "`status` = ?", sql)

	sql, _, _, err = Compile(s, rule, Options{Dialect: dialect.SQLite})
	require.Nil(t, err)
	require.Equal(t, `"status" = ?`, sql)
}

func TestParse_MalformedMultiKeyObject(t *testing.T) {
	_, err := Parse(map[string]any{"and": []any{}, "or": []any{}})
	require.Error(t, err)
	require.Equal(t, "MalformedRule", err.Code)
}

func TestParse_NotRequiresExactlyOneOperand(t *testing.T) {
	_, err := Parse(map[string]any{"not": []any{map[string]any{"var": "x"}, map[string]any{"var": "y"}}})
	require.Error(t, err)
}

func TestParse_ConditionMissingFieldRef(t *testing.T) {
	_, err := Parse(map[string]any{"==": []any{}})
	require.Error(t, err)
}
