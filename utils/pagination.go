package utils

import (
	"math"
	"strconv"
)

// DefaultPerPage is the number of posts on a blog listing page.
const DefaultPerPage = 6

// Pagination describes one page of a listing.
type Pagination struct {
	Page       int
	PerPage    int
	Total      int
	TotalPages int
}

// ParsePage reads a page query value. Missing, malformed or non-positive
// values mean page 1.
func ParsePage(value string) int {
	page, err := strconv.Atoi(value)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// NewPagination clamps page to [1, math.MaxInt/perPage] so Offset never
// overflows.
func NewPagination(page, perPage, total int) Pagination {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if page < 1 {
		page = 1
	}
	if maxPage := math.MaxInt / perPage; page > maxPage {
		page = maxPage
	}
	pages := (total + perPage - 1) / perPage
	return Pagination{Page: page, PerPage: perPage, Total: total, TotalPages: pages}
}

// Offset is the number of rows to skip for this page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PerPage
}

func (p Pagination) HasPrev() bool { return p.Page > 1 }

func (p Pagination) HasNext() bool { return p.Page < p.TotalPages }

func (p Pagination) PrevPage() int { return p.Page - 1 }

func (p Pagination) NextPage() int { return p.Page + 1 }
