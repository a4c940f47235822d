package catalog

import (
	"catalog/domain"
	"math"
)

const (
	DefaultPageSize = 12
	MaxPageSize     = 100
)

// Offset returns the number of rows before page. ok is false when that
// number does not fit in an int; such a page lies past the end of any
// collection.
func Offset(page, pageSize int) (offset int, ok bool) {
	if pageSize > 0 && page-1 > (math.MaxInt-1)/pageSize {
		return 0, false
	}
	return (page - 1) * pageSize, true
}

// TotalPages is ceil(total/pageSize); an empty collection has zero pages.
func TotalPages(total, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

func NewPaginatedProducts(items []domain.Product, total, page, pageSize int) domain.PaginatedProducts {
	if items == nil {
		items = []domain.Product{}
	}
	pages := TotalPages(total, pageSize)

	return domain.PaginatedProducts{
		Items:   items,
		Total:   total,
		Page:    page,
		Pages:   pages,
		HasNext: page < pages,
		HasPrev: page > 1,
	}
}
