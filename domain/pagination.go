package domain

// PaginatedProducts is one page of a product listing together with the
// metadata describing where the page sits in the filtered collection.
type PaginatedProducts struct {
	Items   []Product `json:"items"`
	Total   int       `json:"total"`
	Page    int       `json:"page"`
	Pages   int       `json:"pages"`
	HasNext bool      `json:"has_next"`
	HasPrev bool      `json:"has_prev"`
}
