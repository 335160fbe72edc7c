package pagination

import (
	"math"
	"strconv"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Meta is the pagination block attached to every list response.
type Meta struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalCount  int64 `json:"totalCount"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
	Limit       int   `json:"limit"`
}

// Params is a clamped page/limit pair parsed from a request.
type Params struct {
	Page  int
	Limit int
}

// FromQuery parses page and limit query strings, clamping page to >= 1
// and limit to [1, MaxLimit] with DefaultLimit when absent or invalid.
func FromQuery(pageStr, limitStr string) Params {
	page, _ := strconv.Atoi(pageStr)
	limit, _ := strconv.Atoi(limitStr)

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Params{Page: page, Limit: limit}
}

// Skip returns the number of documents to skip for this page.
func (p Params) Skip() int64 {
	return int64((p.Page - 1) * p.Limit)
}

// NewMeta builds the metadata block for a page of total results. Pages
// beyond the end stay well-formed: empty list, hasNextPage false.
func NewMeta(p Params, total int64) Meta {
	totalPages := int(math.Ceil(float64(total) / float64(p.Limit)))

	return Meta{
		CurrentPage: p.Page,
		TotalPages:  totalPages,
		TotalCount:  total,
		HasNextPage: p.Page < totalPages,
		HasPrevPage: p.Page > 1,
		Limit:       p.Limit,
	}
}
