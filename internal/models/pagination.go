package models

// Pagination defaults shared by handlers, the CLI and the directory.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	// MaxVisiblePages is how many page buttons a page window shows at most.
	MaxVisiblePages = 5
)

// PaginatedResponse is the list envelope returned by the backend.
type PaginatedResponse[T any] struct {
	Data        []T  `json:"data"`
	Page        int  `json:"page"`
	Limit       int  `json:"limit"`
	Total       int  `json:"total"`
	TotalPages  int  `json:"totalPages"`
	HasPrevious bool `json:"hasPrevious"`
	HasNext     bool `json:"hasNext"`
}

// PaginationParams selects a page of people, optionally filtered by a search term.
type PaginationParams struct {
	Page   int    `json:"page"`
	Limit  int    `json:"limit"`
	Search string `json:"search,omitempty"`
}

// WithDefaults fills zero or out of range values.
func (p PaginationParams) WithDefaults() PaginationParams {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// PageWindow describes the pagination bar the admin UI renders.
// Pages holds page numbers, with 0 standing for an ellipsis.
type PageWindow struct {
	Pages     []int `json:"pages"`
	StartItem int   `json:"startItem"`
	EndItem   int   `json:"endItem"`
	Visible   bool  `json:"visible"`
}
