package store

import "math"

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// PaginationParams selects one page of a listing (1-indexed)
type PaginationParams struct {
	Page     int
	PageSize int
}

// PaginationResult describes the page that was returned
type PaginationResult struct {
	Total       int64 `json:"total"`
	TotalPages  int   `json:"total_pages"`
	CurrentPage int   `json:"current_page"`
	PageSize    int   `json:"page_size"`
	HasPrev     bool  `json:"has_prev"`
	HasNext     bool  `json:"has_next"`
}

// NewPaginationParams clamps page and pageSize into the supported range
func NewPaginationParams(page, pageSize int) PaginationParams {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	return PaginationParams{Page: page, PageSize: min(pageSize, maxPageSize)}
}

// offset returns the number of rows to skip for this page
func (p PaginationParams) offset() int {
	return (p.Page - 1) * p.PageSize
}

// CalculatePagination derives page metadata from a total row count
func CalculatePagination(total int64, currentPage, pageSize int) PaginationResult {
	totalPages := int(math.Ceil(float64(total) / float64(pageSize)))

	currentPage = max(currentPage, 1)
	if totalPages > 0 {
		currentPage = min(currentPage, totalPages)
	}

	return PaginationResult{
		Total:       total,
		TotalPages:  totalPages,
		CurrentPage: currentPage,
		PageSize:    pageSize,
		HasPrev:     currentPage > 1,
		HasNext:     currentPage < totalPages,
	}
}
