package sanitize

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Nam088/json-logic-to-sql/errs"
)

func TestSanitize_DropsProhibitedKeys(t *testing.T) {
	in := map[string]any{
		"__proto__":   "evil",
		"constructor": "evil",
		"prototype":   "evil",
		"status":      "active",
	}
	out, err := Sanitize(in)
	require.NoError(t, err)
	m := out.(map[string]any)
	require.Equal(t, map[string]any{"status": "active"}, m)
}

func TestSanitize_KeepsSharedDAGSubtrees(t *testing.T) {
	shared := []any{"a", "b"}
	in := map[string]any{
		"left":  shared,
		"right": shared,
	}
	out, err := Sanitize(in)
	require.NoError(t, err)
	m := out.(map[string]any)
	require.Equal(t, []any{"a", "b"}, m["left"])
	require.Equal(t, []any{"a", "b"}, m["right"])
}

func TestSanitize_RejectsCycle(t *testing.T) {
	node := map[string]any{}
	node["self"] = node
	_, err := Sanitize(node)
	require.Error(t, err)
	ce, ok := err.(*errs.CompileError)
	require.True(t, ok)
	require.Equal(t, "CircularReference", ce.Code)
}

func TestSanitize_EmptyAfterStrippingIsInvalid(t *testing.T) {
	_, err := Sanitize(map[string]any{"__proto__": "evil"})
	require.Error(t, err)
	ce := err.(*errs.CompileError)
	require.Equal(t, "InvalidInput", ce.Code)
}

func TestValidIdentifier(t *testing.T) {
	cases := map[string]bool{
		"status":           true,
		"_private":         true,
		"public.users":     true,
		"a.b.c":            true,
		"a.b.c.d":          false,
		"1abc":             false,
		"bad-name":         false,
		"":                 false,
		"schema.table.col": true,
	}
	for name, want := range cases {
		require.Equal(t, want, ValidIdentifier(name), "identifier %q", name)
	}
}

func TestCheckParameterValue_RejectsNulByte(t *testing.T) {
	require.NoError(t, CheckParameterValue("clean"))
	require.NoError(t, CheckParameterValue(42))
	err := CheckParameterValue("dirty\x00value")
	require.Error(t, err)
}
