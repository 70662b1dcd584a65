package utils

import (
	"math"
	"strconv"

	"github.com/labstack/echo/v4"
)

const MaxPageSize = 100

// PaginationParams represents pagination parameters
type PaginationParams struct {
	Page     int
	PageSize int
	Offset   int
}

// GetPaginationParams extracts 1-indexed page and limit query parameters
func GetPaginationParams(c echo.Context, defaultPageSize int) PaginationParams {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("limit"))

	return NewPaginationParams(page, pageSize, defaultPageSize)
}

func NewPaginationParams(page, pageSize, defaultPageSize int) PaginationParams {
	if defaultPageSize <= 0 || defaultPageSize > MaxPageSize {
		defaultPageSize = 20
	}

	if page <= 0 {
		page = 1
	}

	if pageSize <= 0 || pageSize > MaxPageSize {
		pageSize = defaultPageSize
	}

	return PaginationParams{
		Page:     page,
		PageSize: pageSize,
		Offset:   offsetFor(page, pageSize),
	}
}

// offsetFor saturates at math.MaxInt instead of overflowing, so absurd page
// numbers land past the last row.
func offsetFor(page, pageSize int) int {
	if page-1 > math.MaxInt/pageSize {
		return math.MaxInt
	}
	return (page - 1) * pageSize
}

// TotalPages is ceil(total/pageSize); an empty set has zero pages.
func TotalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	pages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		pages++
	}
	return pages
}
