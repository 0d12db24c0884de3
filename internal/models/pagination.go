package models

// PageParams holds normalized pagination input.
type PageParams struct {
	Page    int
	PerPage int
}

// Offset returns the row offset for the current page.
func (p PageParams) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// Pagination is the metadata block attached to every list response.
type Pagination struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	TotalPages int   `json:"total_pages"`
	TotalItems int64 `json:"total_items"`
}

// NewPagination computes the metadata for a page over total items.
func NewPagination(params PageParams, total int64) Pagination {
	pages := int(total) / params.PerPage
	if int(total)%params.PerPage != 0 {
		pages++
	}
	return Pagination{
		Page:       params.Page,
		PerPage:    params.PerPage,
		TotalPages: pages,
		TotalItems: total,
	}
}
