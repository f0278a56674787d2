package queryhelpers

import (
	"fmt"
	"strings"

	"github.com/Nam088/json-logic-to-sql/dialect"
	"github.com/Nam088/json-logic-to-sql/errs"
	"github.com/Nam088/json-logic-to-sql/schema"
)

// Direction names an ORDER BY direction.
type Direction string

const (
	Ascending  Direction = "ASC"
	Descending Direction = "DESC"
)

// Sort is one ORDER BY key requested by a caller.
type Sort struct {
	Field     string
	Direction Direction
}

// BuildSort renders "ORDER BY ..." from an ordered list of Sort requests,
// honoring Sortable; computed fields expand to "(expression) ASC|DESC"
// rather than a quoted column reference (§6).
func BuildSort(sorts []Sort, s *schema.Schema, dialectKind dialect.Kind) (string, *errs.CompileError) {
	if len(sorts) == 0 {
		return "", nil
	}
	d := dialectFor(dialectKind)

	parts := make([]string, 0, len(sorts))
	for _, sort := range sorts {
		f := s.Lookup(sort.Field)
		if f == nil {
			return "", errs.Schema("UnknownField", fmt.Sprintf("unknown field %q", sort.Field), sort.Field, "")
		}
		if !f.Sortable {
			return "", errs.Schema("NotSortable", fmt.Sprintf("field %q is not sortable", sort.Field), sort.Field, "")
		}

		dir := sort.Direction
		if dir != Ascending && dir != Descending {
			dir = Ascending
		}

		var expr string
		switch {
		case f.Computed:
			expr = "(" + f.Expression + ")"
		case f.JSONPath != "":
			expr = f.JSONPath
		default:
			colName := f.Column
			if colName == "" {
				colName = f.Name
			}
			expr = d.QuoteColumn(colName)
		}

		parts = append(parts, fmt.Sprintf("%s %s", expr, dir))
	}
	return "ORDER BY " + strings.Join(parts, ", "), nil
}
