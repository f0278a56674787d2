// Package schema provides the in-memory representation of a field schema:
// the declared types, constraints, options, transforms, and allowed
// operators against which every rule is validated before any SQL is
// emitted. A Schema is constructed once by the caller and treated as
// read-only for the remainder of the process's lifetime — compile calls
// only borrow it.
package schema

import "github.com/Nam088/json-logic-to-sql/operator"

// FieldType is the logical type declared for a schema field.
type FieldType string

const (
	TypeString   FieldType = "string"
	TypeText     FieldType = "text"
	TypeNumber   FieldType = "number"
	TypeInteger  FieldType = "integer"
	TypeDecimal  FieldType = "decimal"
	TypeBoolean  FieldType = "boolean"
	TypeDate     FieldType = "date"
	TypeDatetime FieldType = "datetime"
	TypeTimestamp FieldType = "timestamp"
	TypeUUID     FieldType = "uuid"
	TypeArray    FieldType = "array"
	TypeJSON     FieldType = "json"
	TypeJSONB    FieldType = "jsonb"
)

// IsJSONLike reports whether the field's logical type is json or jsonb.
func (t FieldType) IsJSONLike() bool { return t == TypeJSON || t == TypeJSONB }

// IsDateLike reports whether the field holds calendar/time data.
func (t FieldType) IsDateLike() bool {
	return t == TypeDate || t == TypeDatetime || t == TypeTimestamp
}

// IsNumeric reports whether the field holds a numeric value.
func (t FieldType) IsNumeric() bool {
	return t == TypeNumber || t == TypeInteger || t == TypeDecimal
}

// Options declares an enumerated value set for a field.
type Options struct {
	Values []any
	Strict bool
}

// Constraints declares per-type validation bounds. Only the fields relevant
// to the field's declared Type are consulted.
type Constraints struct {
	MinLength *int
	MaxLength *int
	Pattern   string

	Min *float64
	Max *float64

	MinItems *int
	MaxItems *int

	DateFormat string
	MinDate    string
	MaxDate    string

	// Validate is an optional user predicate. Returning (false, "reason")
	// fails validation with "reason"; returning (true, "") passes.
	Validate func(value any) (bool, string)
}

// TransformStep names a single transform applied while rendering either the
// SQL column expression or the bound parameter value.
type TransformStep struct {
	// Name is one of lower, upper, trim, ltrim, rtrim, unaccent, date, year,
	// month, day, or empty when Template is set.
	Name string
	// Template, when non-empty, is a custom column-side transform. The
	// literal token "{column}" is replaced with the current SQL expression.
	// Templates never apply to values (§4.4).
	Template string
}

// Transform holds the ordered input/output transform pipelines for a field.
type Transform struct {
	Input  []TransformStep
	Output []TransformStep
}

// Field is one declared entry in a Schema.
type Field struct {
	Name string
	Type FieldType

	AllowedOperators map[operator.Operator]bool

	// Exactly one of Column, JSONPath, or Computed+Expression should be set.
	Column     string // possibly "schema.table.column", <=3 dot segments
	JSONPath   string // raw SQL expression reaching into a JSON document
	Computed   bool
	Expression string // raw SQL expression, substituted verbatim

	Filterable bool
	Selectable bool
	Sortable   bool

	Nullable      bool
	CaseSensitive bool

	Options     *Options
	Constraints *Constraints
	Transform   *Transform
}

// AllowsOperator reports whether op is declared in the field's allowlist.
func (f *Field) AllowsOperator(op operator.Operator) bool {
	if f.AllowedOperators == nil {
		return false
	}
	return f.AllowedOperators[op]
}

// IsRegularColumn reports whether the field is backed by a physical column
// (as opposed to a computed expression or a JSON path).
func (f *Field) IsRegularColumn() bool {
	return !f.Computed && f.JSONPath == ""
}

// Settings overrides the compiler's structural limits; see §4.6.
type Settings struct {
	MaxDepth      int
	MaxConditions int
}

// Schema is the full declared field set for one compile target.
type Schema struct {
	Fields   map[string]*Field
	Settings Settings
}

// New creates an empty Schema with sane default Settings.
func New() *Schema {
	return &Schema{
		Fields: make(map[string]*Field),
		Settings: Settings{
			MaxDepth:      5,
			MaxConditions: 100,
		},
	}
}

// FieldOption customizes a Field during construction via AddField.
type FieldOption func(*Field)

// Operators declares the allowed operator set for a field.
func Operators(ops ...operator.Operator) FieldOption {
	return func(f *Field) {
		if f.AllowedOperators == nil {
			f.AllowedOperators = make(map[operator.Operator]bool, len(ops))
		}
		for _, op := range ops {
			f.AllowedOperators[op] = true
		}
	}
}

// Column sets the physical column identifier (<=3 dot-separated segments).
func Column(name string) FieldOption { return func(f *Field) { f.Column = name } }

// JSONPath sets a raw JSON-path SQL expression as the field reference.
func JSONPath(expr string) FieldOption { return func(f *Field) { f.JSONPath = expr } }

// Computed marks the field as backed by a raw SQL expression.
func Computed(expr string) FieldOption {
	return func(f *Field) { f.Computed = true; f.Expression = expr }
}

// NotFilterable marks the field as excluded from rule compilation.
func NotFilterable() FieldOption { return func(f *Field) { f.Filterable = false } }

// NotSelectable excludes the field from queryhelpers.BuildSelect.
func NotSelectable() FieldOption { return func(f *Field) { f.Selectable = false } }

// NotSortable excludes the field from queryhelpers.BuildSort.
func NotSortable() FieldOption { return func(f *Field) { f.Sortable = false } }

// Nullable allows the field to accept null operands.
func Nullable() FieldOption { return func(f *Field) { f.Nullable = true } }

// CaseSensitive switches the default collation behavior of string operators.
func CaseSensitive() FieldOption { return func(f *Field) { f.CaseSensitive = true } }

// WithOptions declares an enumerated value set.
func WithOptions(strict bool, values ...any) FieldOption {
	return func(f *Field) { f.Options = &Options{Values: values, Strict: strict} }
}

// WithConstraints attaches constraint bounds to the field.
func WithConstraints(c Constraints) FieldOption {
	return func(f *Field) { f.Constraints = &c }
}

// WithTransform attaches input/output transform pipelines.
func WithTransform(t Transform) FieldOption {
	return func(f *Field) { f.Transform = &t }
}

// AddField declares a new field of the given name and type, applying opts.
// Filterable, Selectable, and Sortable default to true per §3.
func (s *Schema) AddField(name string, typ FieldType, opts ...FieldOption) *Schema {
	f := &Field{
		Name:       name,
		Type:       typ,
		Filterable: true,
		Selectable: true,
		Sortable:   true,
	}
	for _, opt := range opts {
		opt(f)
	}
	s.Fields[name] = f
	return s
}

// Lookup returns the field by name, or nil if undeclared.
func (s *Schema) Lookup(name string) *Field {
	return s.Fields[name]
}
