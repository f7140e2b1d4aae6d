package models

type WebResponse[T any] struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

type PaginationRequest struct {
	Page       int    `json:"page" query:"page" validate:"omitempty,min=1"`
	Limit      int    `json:"limit" query:"limit" validate:"omitempty,min=1,max=100"`
	Order      string `json:"order" query:"order" validate:"omitempty,oneof=asc desc"`
	OrderField string `json:"order_field" query:"order_field" validate:"omitempty"`
}

type Pagination[T any] struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	TotalPages int  `json:"total_pages"`
	TotalItems int  `json:"total_items"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
	Items      T    `json:"items"`
}

// Normalize applies the default page and limit.
func (p *PaginationRequest) Normalize() {
	if p.Limit <= 0 {
		p.Limit = 10
	}
	if p.Page <= 0 {
		p.Page = 1
	}
}

// Offset returns the row offset for the current page.
func (p *PaginationRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// NewPagination builds the paging envelope from a total row count.
func NewPagination[T any](req *PaginationRequest, totalItems int64, items T) *Pagination[T] {
	totalPages := int((totalItems + int64(req.Limit) - 1) / int64(req.Limit))
	return &Pagination[T]{
		Page:       req.Page,
		Limit:      req.Limit,
		TotalPages: totalPages,
		TotalItems: int(totalItems),
		HasNext:    req.Page < totalPages,
		HasPrev:    req.Page > 1,
		Items:      items,
	}
}
