package helpers

import (
	"net/http"
	"strconv"

	"familycheckin/internal/domain"
)

// Family lists are short; a kiosk screen shows DefaultPageSize at a time.
const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ParsePagination reads page and pageSize from the query string. Missing, malformed or
// non-positive values fall back to the defaults; pageSize is capped at MaxPageSize.
func ParsePagination(r *http.Request) domain.PaginationParams {
	q := r.URL.Query()
	return domain.PaginationParams{
		Page:     positiveQueryInt(q.Get("page"), DefaultPage),
		PageSize: min(positiveQueryInt(q.Get("pageSize"), DefaultPageSize), MaxPageSize),
	}
}

func positiveQueryInt(s string, def int) int {
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return def
	}
	return v
}

// PaginationMeta accompanies every paginated list response.
// swagger:model PaginationMeta
type PaginationMeta struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

func NewPaginationMeta(params domain.PaginationParams, total int) PaginationMeta {
	return PaginationMeta{
		Page:       params.Page,
		PageSize:   params.PageSize,
		Total:      total,
		TotalPages: params.TotalPages(total),
	}
}
