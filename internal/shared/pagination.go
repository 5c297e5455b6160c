package shared

import (
	"math"
	"net/http"
	"strconv"
)

// DefaultPageSize caps listings when the client does not ask for a limit.
const DefaultPageSize = 20

// MaxPageSize is the hard ceiling for a single page.
const MaxPageSize = 100

// Pagination contains metadata for paginated listings.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewPagination computes pagination metadata.
func NewPagination(page, limit, total int) Pagination {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if page <= 0 {
		page = 1
	}
	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}

// PageParams reads page/limit query parameters with defaults and bounds.
func PageParams(r *http.Request) (page, limit int) {
	page, limit = 1, DefaultPageSize
	if v := r.URL.Query().Get("page"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			page = parsed
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit
}

// Offset converts page/limit into a SQL offset.
func Offset(page, limit int) int {
	if page <= 1 {
		return 0
	}
	return (page - 1) * limit
}
