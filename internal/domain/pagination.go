package domain

// PaginationParams selects one page of a list ordered by the repository. Pages start at 1.
type PaginationParams struct {
	Page     int
	PageSize int
}

func (p PaginationParams) Valid() bool {
	return p.Page >= 1 && p.PageSize >= 1
}

// Offset is the number of rows skipped before the page.
func (p PaginationParams) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// TotalPages is ceil(total / PageSize), or 0 for a non-positive page size.
func (p PaginationParams) TotalPages(total int) int {
	if p.PageSize < 1 {
		return 0
	}
	return (total + p.PageSize - 1) / p.PageSize
}
