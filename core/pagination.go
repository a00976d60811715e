package core

// PageRequest selects one page of a list. Pages are 1-based.
type PageRequest struct {
	Page     int `query:"page" json:"page"`
	PageSize int `query:"page_size" json:"page_size"`
}

// Normalize fills in defaults and clamps the page size to maxSize (when > 0).
func (pr PageRequest) Normalize(defaultSize, maxSize int) PageRequest {
	if pr.Page < 1 {
		pr.Page = 1
	}
	if pr.PageSize < 1 {
		pr.PageSize = defaultSize
	}
	if maxSize > 0 && pr.PageSize > maxSize {
		pr.PageSize = maxSize
	}
	return pr
}

func (pr PageRequest) Offset() int {
	return (pr.Page - 1) * pr.PageSize
}

// Page is one page of a list along with the total count of matching rows.
type Page[T any] struct {
	Items    []T `json:"items"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

func (p Page[T]) TotalPages() int {
	if p.PageSize < 1 {
		return 0
	}
	return (p.Total + p.PageSize - 1) / p.PageSize
}

func (p Page[T]) HasNext() bool {
	return p.Page < p.TotalPages()
}
