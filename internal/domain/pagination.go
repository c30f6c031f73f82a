package domain

// PaginationParams selects one page of an attendee or event listing. Pages
// are numbered from 1.
type PaginationParams struct {
	Page     int
	PageSize int
}

// Offset converts the page number to a row offset for LIMIT/OFFSET queries.
// Pages below 1 map to offset 0.
func (p PaginationParams) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}
