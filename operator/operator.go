// Package operator defines the internal operator set (§4.1) and the
// canonicalization table that maps JSON Logic surface tokens onto it.
package operator

// Operator is the internal, canonical operator identifier used throughout
// the rest of the compiler. It is distinct from the surface JSON Logic
// token, which may vary ("==" vs "eq").
type Operator string

const (
	// Comparison
	Eq  Operator = "eq"
	Ne  Operator = "ne"
	Gt  Operator = "gt"
	Gte Operator = "gte"
	Lt  Operator = "lt"
	Lte Operator = "lte"

	// Set / range
	In         Operator = "in"
	NotIn      Operator = "not_in"
	Between    Operator = "between"
	NotBetween Operator = "not_between"

	// Array-column
	Contains      Operator = "contains" // overloaded: array/jsonb or string, see IsArrayLikeType
	ContainedBy   Operator = "contained_by"
	Overlaps      Operator = "overlaps"
	AnyOf         Operator = "any_of"
	NotAnyOf      Operator = "not_any_of"
	AnyILike      Operator = "any_ilike"
	NotAnyILike   Operator = "not_any_ilike"

	// String
	Like       Operator = "like"
	ILike      Operator = "ilike"
	StartsWith Operator = "starts_with"
	EndsWith   Operator = "ends_with"
	Regex      Operator = "regex"

	// Null
	IsNull    Operator = "is_null"
	IsNotNull Operator = "is_not_null"

	// JSONB
	JSONContains   Operator = "json_contains"
	JSONHasKey     Operator = "json_has_key"
	JSONHasAnyKeys Operator = "json_has_any_keys"

	// Logical
	And Operator = "and"
	Or  Operator = "or"
	Not Operator = "not"
)

// canonicalTable maps every surface JSON Logic token this system accepts
// onto its internal Operator. Internal names are accepted verbatim too, so
// the table also maps each Operator's own string form to itself.
var canonicalTable = map[string]Operator{
	"==":  Eq,
	"===": Eq,
	"!=":  Ne,
	"!==": Ne,
	">":   Gt,
	">=":  Gte,
	"<":   Lt,
	"<=":  Lte,
	"!in": NotIn,
	"!":   Not,

	string(Eq): Eq, string(Ne): Ne, string(Gt): Gt, string(Gte): Gte,
	string(Lt): Lt, string(Lte): Lte,
	string(In): In, string(NotIn): NotIn,
	string(Between): Between, string(NotBetween): NotBetween,
	string(Contains): Contains, string(ContainedBy): ContainedBy,
	string(Overlaps): Overlaps, string(AnyOf): AnyOf, string(NotAnyOf): NotAnyOf,
	string(AnyILike): AnyILike, string(NotAnyILike): NotAnyILike,
	string(Like): Like, string(ILike): ILike,
	string(StartsWith): StartsWith, string(EndsWith): EndsWith,
	string(Regex): Regex,
	string(IsNull): IsNull, string(IsNotNull): IsNotNull,
	string(JSONContains): JSONContains, string(JSONHasKey): JSONHasKey,
	string(JSONHasAnyKeys): JSONHasAnyKeys,
	string(And): And, string(Or): Or, string(Not): Not,
}

// Canonicalize maps a surface JSON Logic token to its internal Operator. The
// second return value is false for unknown tokens.
func Canonicalize(token string) (Operator, bool) {
	op, ok := canonicalTable[token]
	return op, ok
}

// Class groups operators that share an emission strategy.
type Class int

const (
	ClassComparison Class = iota
	ClassUnary
	ClassRange
	ClassSet
	ClassArray
	ClassString
	ClassJSON
	ClassLogical
)

var classTable = map[Operator]Class{
	Eq: ClassComparison, Ne: ClassComparison, Gt: ClassComparison,
	Gte: ClassComparison, Lt: ClassComparison, Lte: ClassComparison,

	IsNull: ClassUnary, IsNotNull: ClassUnary,

	Between: ClassRange, NotBetween: ClassRange,

	In: ClassSet, NotIn: ClassSet,

	ContainedBy: ClassArray, Overlaps: ClassArray, AnyOf: ClassArray,
	NotAnyOf: ClassArray, AnyILike: ClassArray, NotAnyILike: ClassArray,
	// Contains is classified dynamically: see ClassOf.

	Like: ClassString, ILike: ClassString, StartsWith: ClassString,
	EndsWith: ClassString, Regex: ClassString,

	JSONContains: ClassJSON, JSONHasKey: ClassJSON, JSONHasAnyKeys: ClassJSON,

	And: ClassLogical, Or: ClassLogical, Not: ClassLogical,
}

// IsArrayLikeType reports whether a logical field-type name participates in
// the array/jsonb overload of Contains, and is the arrayLikeField input to
// ClassOf. Declared here (rather than imported from package schema) to keep
// this package dependency-free; callers pass the field's type name through
// as a plain string.
func IsArrayLikeType(fieldTypeName string) bool {
	return fieldTypeName == "array" || fieldTypeName == "json" || fieldTypeName == "jsonb"
}

// ClassOf returns the emission class for op, given whether the field it is
// applied to has an array-like type. Contains is overloaded: array/jsonb
// semantics when arrayLikeField is true, plain string substring otherwise
// (§4.1).
func ClassOf(op Operator, arrayLikeField bool) Class {
	if op == Contains {
		if arrayLikeField {
			return ClassArray
		}
		return ClassString
	}
	if c, ok := classTable[op]; ok {
		return c
	}
	return ClassComparison
}

// IsUnary reports whether op takes no value operand.
func IsUnary(op Operator) bool { return op == IsNull || op == IsNotNull }

// IsLogical reports whether op is a boolean connective rather than a leaf
// condition operator.
func IsLogical(op Operator) bool { return op == And || op == Or || op == Not }
