// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// Pagination defaults used when a request omits or mangles its query params.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Pagination is a 1-based page request.
type Pagination struct {
	Page  int
	Limit int
}

// Normalize replaces out-of-range values with defaults and caps Limit at max.
// A max of zero or less disables the cap.
func (p Pagination) Normalize(defaultLimit, max int) Pagination {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if defaultLimit < 1 {
		defaultLimit = DefaultLimit
	}
	if p.Limit < 1 {
		p.Limit = defaultLimit
	}
	if max > 0 && p.Limit > max {
		p.Limit = max
	}
	return p
}

// Offset returns the number of rows to skip for this page.
func (p Pagination) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// PageMeta describes where a page sits in the full result set.
type PageMeta struct {
	Page      int `json:"page"`
	Limit     int `json:"limit"`
	Total     int `json:"total"`
	PageCount int `json:"pageCount"`
}

// Page is the envelope for paginated list responses.
type Page[T any] struct {
	Items []T      `json:"items"`
	Meta  PageMeta `json:"meta"`
}

// NewPage wraps items with metadata. PageCount is ceil(total/limit).
func NewPage[T any](items []T, p Pagination, total int) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items: items,
		Meta: PageMeta{
			Page:      p.Page,
			Limit:     p.Limit,
			Total:     total,
			PageCount: PageCount(total, p.Limit),
		},
	}
}

// PageCount returns how many pages of size limit are needed for total rows.
func PageCount(total, limit int) int {
	if limit <= 0 {
		return 0
	}
	pages := total / limit
	if total%limit > 0 {
		pages++
	}
	return pages
}
