package operator

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCanonicalize_SurfaceTokens(t *testing.T) {
	cases := map[string]Operator{
		"==":       Eq,
		"===":      Eq,
		"!=":       Ne,
		"!==":      Ne,
		">":        Gt,
		">=":       Gte,
		"<":        Lt,
		"<=":       Lte,
		"!in":      NotIn,
		"!":        Not,
		"in":       In,
		"eq":       Eq,
		"contains": Contains,
	}
	for token, want := range cases {
		got, ok := Canonicalize(token)
		require.True(t, ok, "token %q", token)
		require.Equal(t, want, got)
	}
}

func TestCanonicalize_UnknownToken(t *testing.T) {
	_, ok := Canonicalize("frobnicate")
	require.False(t, ok)
}

func TestClassOf_ContainsOverload(t *testing.T) {
	require.Equal(t, ClassArray, ClassOf(Contains, true))
	require.Equal(t, ClassString, ClassOf(Contains, false))
}

func TestClassOf_Defaults(t *testing.T) {
	require.Equal(t, ClassComparison, ClassOf(Eq, false))
	require.Equal(t, ClassUnary, ClassOf(IsNull, false))
	require.Equal(t, ClassRange, ClassOf(Between, false))
	require.Equal(t, ClassSet, ClassOf(In, false))
	require.Equal(t, ClassArray, ClassOf(Overlaps, false))
	require.Equal(t, ClassJSON, ClassOf(JSONContains, false))
}

func TestIsUnary(t *testing.T) {
	require.True(t, IsUnary(IsNull))
	require.True(t, IsUnary(IsNotNull))
	require.False(t, IsUnary(Eq))
}

func TestIsLogical(t *testing.T) {
	require.True(t, IsLogical(And))
	require.True(t, IsLogical(Or))
	require.True(t, IsLogical(Not))
	require.False(t, IsLogical(Eq))
}

func TestIsArrayLikeType(t *testing.T) {
	require.True(t, IsArrayLikeType("array"))
	require.True(t, IsArrayLikeType("json"))
	require.True(t, IsArrayLikeType("jsonb"))
	require.False(t, IsArrayLikeType("string"))
}
