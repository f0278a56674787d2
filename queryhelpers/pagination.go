package queryhelpers

import (
	"fmt"

	"github.com/Nam088/json-logic-to-sql/dialect"
	"github.com/Nam088/json-logic-to-sql/errs"
)

// PaginationRequest accepts either a page/pageSize pair or a raw
// offset/limit pair (§6 "build_pagination"); one full pair must be set, and
// page/pageSize is used when both pairs are set.
type PaginationRequest struct {
	Page     *int
	PageSize *int

	Offset *int
	Limit  *int
}

// PaginationResult is the rendered LIMIT/OFFSET fragment plus the two
// parameters it consumed, in placeholder order.
type PaginationResult struct {
	SQL            string
	Params         []any
	NextParamIndex int
}

// BuildPagination renders "LIMIT ? OFFSET ?" (placeholder style per
// dialect) from either pagination shape, registering exactly two
// parameters starting at startIndex. maxPageSize caps the effective limit
// when positive.
func BuildPagination(req PaginationRequest, maxPageSize, startIndex int, style dialect.PlaceholderStyle) (PaginationResult, *errs.CompileError) {
	limit, offset, verr := resolveLimitOffset(req, maxPageSize)
	if verr != nil {
		return PaginationResult{}, verr
	}

	limitPlaceholder := placeholderAt(style, startIndex)
	offsetPlaceholder := placeholderAt(style, startIndex+1)

	return PaginationResult{
		SQL:            fmt.Sprintf("LIMIT %s OFFSET %s", limitPlaceholder, offsetPlaceholder),
		Params:         []any{limit, offset},
		NextParamIndex: startIndex + 2,
	}, nil
}

func resolveLimitOffset(req PaginationRequest, maxPageSize int) (int, int, *errs.CompileError) {
	switch {
	case req.Page != nil && req.PageSize != nil:
		pageSize := *req.PageSize
		if maxPageSize > 0 && pageSize > maxPageSize {
			pageSize = maxPageSize
		}
		page := *req.Page
		if page < 1 {
			page = 1
		}
		return pageSize, (page - 1) * pageSize, nil

	case req.Offset != nil && req.Limit != nil:
		limit := *req.Limit
		if maxPageSize > 0 && limit > maxPageSize {
			limit = maxPageSize
		}
		return limit, *req.Offset, nil

	default:
		return 0, 0, errs.Structural("MissingOperand", "pagination requires either page+pageSize or offset+limit")
	}
}

func placeholderAt(style dialect.PlaceholderStyle, i int) string {
	switch style {
	case dialect.Question:
		return "?"
	case dialect.At:
		return fmt.Sprintf("@p%d", i)
	default:
		return fmt.Sprintf("$%d", i)
	}
}
