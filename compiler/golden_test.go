package compiler

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/Nam088/json-logic-to-sql/dialect"
)

// compiledFixture is the canonical shape snapshotted by the golden fixtures
// below: a struct fixes the field order to "sql" then "params", where a bare
// map[string]any would be marshaled with its keys sorted. HTML escaping is
// off, so the fixtures hold the SQL text ('>', '<') exactly as emitted.
type compiledFixture struct {
	SQL    string `json:"sql"`
	Params []any  `json:"params"`
}

func encodeFixture(sql string, params []any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(compiledFixture{SQL: sql, Params: params}); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func TestCompileGolden_SimpleEquality(t *testing.T) {
	s := accountsSchema()
	rule := map[string]any{"==": []any{map[string]any{"var": "status"}, "active"}}
	sql, _, array, err := Compile(s, rule, Options{Dialect: dialect.PostgreSQL})
	require.Nil(t, err)

	encoded, jerr := encodeFixture(sql, array)
	require.NoError(t, jerr)

	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"), goldie.WithNameSuffix(".golden"))
	g.Assert(t, "simple_equality", encoded)
}

func TestCompileGolden_NestedAnd(t *testing.T) {
	s := accountsSchema()
	rule := map[string]any{
		"and": []any{
			map[string]any{"==": []any{map[string]any{"var": "status"}, "active"}},
			map[string]any{">": []any{map[string]any{"var": "age"}, 18}},
		},
	}
	sql, _, array, err := Compile(s, rule, Options{Dialect: dialect.PostgreSQL})
	require.Nil(t, err)

	encoded, jerr := encodeFixture(sql, array)
	require.NoError(t, jerr)

	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"), goldie.WithNameSuffix(".golden"))
	g.Assert(t, "nested_and", encoded)
}
