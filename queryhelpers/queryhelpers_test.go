package queryhelpers

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Nam088/json-logic-to-sql/dialect"
	"github.com/Nam088/json-logic-to-sql/schema"
)

func accountsSchema() *schema.Schema {
	s := schema.New()
	s.AddField("id", schema.TypeUUID)
	s.AddField("status", schema.TypeString)
	s.AddField("internal_notes", schema.TypeText, schema.NotSelectable())
	s.AddField("full_name", schema.TypeString, schema.Computed("first_name || ' ' || last_name"))
	s.AddField("meta_color", schema.TypeString, schema.JSONPath("meta->>'color'"))
	s.AddField("email", schema.TypeString, schema.WithTransform(schema.Transform{Output: []schema.TransformStep{{Name: "lower"}}}))
	s.AddField("created_at", schema.TypeTimestamp, schema.NotSortable())
	return s
}

func TestBuildSelect_DefaultsToEverySelectableFieldSortedAlphabetically(t *testing.T) {
	s := accountsSchema()
	out, err := BuildSelect(s, SelectOptions{Dialect: dialect.PostgreSQL})
	require.Nil(t, err)
	require.NotContains(t, out, "internal_notes")
	require.Contains(t, out, `(first_name || ' ' || last_name) AS "full_name"`)
	require.Contains(t, out, `meta->>'color' AS "meta_color"`)
	require.Equal(t, `"created_at" AS "created_at", LOWER("email") AS "email", (first_name || ' ' || last_name) AS "full_name", "id" AS "id", meta->>'color' AS "meta_color", "status" AS "status"`, out)
}

func TestBuildSelect_ExplicitFields(t *testing.T) {
	s := accountsSchema()
	out, err := BuildSelect(s, SelectOptions{Fields: []string{"id", "status"}, Dialect: dialect.PostgreSQL})
	require.Nil(t, err)
	require.Equal(t, `"id" AS "id", "status" AS "status"`, out)
}

func TestBuildSelect_Exclude(t *testing.T) {
	s := accountsSchema()
	out, err := BuildSelect(s, SelectOptions{Fields: []string{"id", "status"}, Exclude: []string{"status"}, Dialect: dialect.PostgreSQL})
	require.Nil(t, err)
	require.Equal(t, `"id" AS "id"`, out)
}

func TestBuildSelect_NotSelectableField(t *testing.T) {
	s := accountsSchema()
	_, err := BuildSelect(s, SelectOptions{Fields: []string{"internal_notes"}, Dialect: dialect.PostgreSQL})
	require.Error(t, err)
	require.Equal(t, "NotSelectable", err.Code)
}

func TestBuildSelect_UnknownField(t *testing.T) {
	s := accountsSchema()
	_, err := BuildSelect(s, SelectOptions{Fields: []string{"nope"}, Dialect: dialect.PostgreSQL})
	require.Error(t, err)
	require.Equal(t, "UnknownField", err.Code)
}

func TestBuildSelect_OutputTransform(t *testing.T) {
	s := accountsSchema()
	out, err := BuildSelect(s, SelectOptions{Fields: []string{"email"}, Dialect: dialect.PostgreSQL})
	require.Nil(t, err)
	require.Equal(t, `LOWER("email") AS "email"`, out)
}

func TestBuildSelect_MySQLQuoting(t *testing.T) {
	s := accountsSchema()
	out, err := BuildSelect(s, SelectOptions{Fields: []string{"status"}, Dialect: dialect.MySQL})
	require.Nil(t, err)
	require.Equal(t, "`status` AS `status`", out)
}

func TestBuildSort_Empty(t *testing.T) {
	out, err := BuildSort(nil, accountsSchema(), dialect.PostgreSQL)
	require.Nil(t, err)
	require.Equal(t, "", out)
}

func TestBuildSort_DefaultsAscending(t *testing.T) {
	s := accountsSchema()
	out, err := BuildSort([]Sort{{Field: "status"}}, s, dialect.PostgreSQL)
	require.Nil(t, err)
	require.Equal(t, `ORDER BY "status" ASC`, out)
}

func TestBuildSort_MultipleKeys(t *testing.T) {
	s := accountsSchema()
	out, err := BuildSort([]Sort{{Field: "status", Direction: Descending}, {Field: "id", Direction: Ascending}}, s, dialect.PostgreSQL)
	require.Nil(t, err)
	require.Equal(t, `ORDER BY "status" DESC, "id" ASC`, out)
}

func TestBuildSort_ComputedFieldExpandsExpression(t *testing.T) {
	s := accountsSchema()
	out, err := BuildSort([]Sort{{Field: "full_name", Direction: Ascending}}, s, dialect.PostgreSQL)
	require.Nil(t, err)
	require.Equal(t, `ORDER BY (first_name || ' ' || last_name) ASC`, out)
}

func TestBuildSort_NotSortable(t *testing.T) {
	s := accountsSchema()
	_, err := BuildSort([]Sort{{Field: "created_at"}}, s, dialect.PostgreSQL)
	require.Error(t, err)
	require.Equal(t, "NotSortable", err.Code)
}

func TestBuildSort_UnknownField(t *testing.T) {
	s := accountsSchema()
	_, err := BuildSort([]Sort{{Field: "nope"}}, s, dialect.PostgreSQL)
	require.Error(t, err)
	require.Equal(t, "UnknownField", err.Code)
}

func TestBuildPagination_PageShape(t *testing.T) {
	page, pageSize := 2, 20
	result, err := BuildPagination(PaginationRequest{Page: &page, PageSize: &pageSize}, 100, 1, dialect.Dollar)
	require.Nil(t, err)
	require.Equal(t, "LIMIT $1 OFFSET $2", result.SQL)
	require.Equal(t, []any{20, 20}, result.Params)
	require.Equal(t, 3, result.NextParamIndex)
}

func TestBuildPagination_OffsetLimitShape(t *testing.T) {
	offset, limit := 40, 10
	result, err := BuildPagination(PaginationRequest{Offset: &offset, Limit: &limit}, 100, 1, dialect.Question)
	require.Nil(t, err)
	require.Equal(t, "LIMIT ? OFFSET ?", result.SQL)
	require.Equal(t, []any{10, 40}, result.Params)
}

func TestBuildPagination_ClampsToMaxPageSize(t *testing.T) {
	page, pageSize := 1, 500
	result, err := BuildPagination(PaginationRequest{Page: &page, PageSize: &pageSize}, 100, 1, dialect.Dollar)
	require.Nil(t, err)
	require.Equal(t, []any{100, 0}, result.Params)
}

func TestBuildPagination_AtStyle(t *testing.T) {
	page, pageSize := 1, 20
	result, err := BuildPagination(PaginationRequest{Page: &page, PageSize: &pageSize}, 0, 3, dialect.At)
	require.Nil(t, err)
	require.Equal(t, "LIMIT @p3 OFFSET @p4", result.SQL)
	require.Equal(t, 5, result.NextParamIndex)
}

func TestBuildPagination_MissingOperand(t *testing.T) {
	_, err := BuildPagination(PaginationRequest{}, 100, 1, dialect.Dollar)
	require.Error(t, err)
	require.Equal(t, "MissingOperand", err.Code)
}
