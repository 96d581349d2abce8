package dto

import (
	"fmt"
	"net/http"
	"net/url"
	"pos/shared/constant"
	"slices"
	"strconv"
	"strings"
)

const (
	SortDirAsc  = "ASC"
	SortDirDesc = "DESC"
)

// QueryParams carries paging and sorting for list endpoints.
type QueryParams struct {
	Page    int    `json:"page"     validate:"omitempty"`
	Limit   int    `json:"limit"    validate:"omitempty"`
	SortBy  string `json:"sort_by"  validate:"omitempty"`
	SortDir string `json:"sort_dir" validate:"omitempty,oneof=ASC DESC"`
}

func positive(values url.Values, key string) int {
	n, err := strconv.Atoi(values.Get(key))
	if err != nil || n < 1 {
		return 0
	}

	return n
}

// FromRequest reads page, limit, sort_by and sort_dir. Malformed or non-positive numbers are ignored.
// With paged set, a missing page or limit falls back to the defaults so large lists are never unbounded.
func (q *QueryParams) FromRequest(r *http.Request, paged bool) {
	values := r.URL.Query()

	if page := positive(values, constant.RequestParamPage); page > 0 {
		q.Page = page
	}

	if limit := positive(values, constant.RequestParamLimit); limit > 0 {
		q.Limit = limit
	}

	if sortBy := values.Get(constant.RequestParamSortBy); sortBy != "" {
		q.SortBy = sortBy
	}

	switch dir := strings.ToUpper(values.Get(constant.RequestParamSortDir)); dir {
	case SortDirAsc, SortDirDesc:
		q.SortDir = dir
	}

	if !paged {
		return
	}

	if q.Page == 0 {
		q.Page = constant.DefaultValuePage
	}

	if q.Limit == 0 {
		q.Limit = constant.DefaultValueLimit
	}
}

// AllowSort drops SortBy unless it names one of fields; sort columns are interpolated into SQL.
func (q *QueryParams) AllowSort(fields ...string) {
	if slices.Contains(fields, q.SortBy) {
		return
	}

	q.SortBy = ""
	q.SortDir = ""
}

// Offset is the row offset of Page, or 0 when paging is off.
func (q QueryParams) Offset() int {
	if q.Page < 1 || q.Limit < 1 {
		return 0
	}

	return (q.Page - 1) * q.Limit
}

// OrderBy renders the ORDER BY clause, empty unless both column and direction are set.
func (q QueryParams) OrderBy() string {
	if q.SortBy == "" || q.SortDir == "" {
		return ""
	}

	return fmt.Sprintf("ORDER BY %s %s", q.SortBy, q.SortDir)
}
