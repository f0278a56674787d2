package compiler

import "github.com/Nam088/json-logic-to-sql/dialect"

// Options configures one Compile call (§6 "Configuration surface"). Schema
// is required; everything else defaults per dialect. This is a plain struct
// literal, not a functional-options builder — the compiler is an embedded
// library call, not a long-lived object, so there is nothing to accumulate
// across calls the way schema.FieldOption accumulates onto a *Field.
type Options struct {
	Dialect dialect.Kind

	// PlaceholderStyle overrides the dialect's default placeholder token
	// family. Zero value means "use the dialect's default".
	PlaceholderStyle dialect.PlaceholderStyle

	// MaxDepth and MaxConditions override schema.Settings when non-zero.
	MaxDepth      int
	MaxConditions int
}

func resolveDialect(kind dialect.Kind) dialect.Dialect {
	switch kind {
	case dialect.MySQL:
		return dialect.NewMySQL()
	case dialect.MSSQL:
		return dialect.NewMSSQL()
	case dialect.SQLite:
		return dialect.NewSQLite()
	default:
		return dialect.NewPostgreSQL()
	}
}

func defaultPlaceholderStyle(kind dialect.Kind) dialect.PlaceholderStyle {
	switch kind {
	case dialect.MySQL, dialect.SQLite:
		return dialect.Question
	case dialect.MSSQL:
		return dialect.At
	default:
		return dialect.Dollar
	}
}
