package catalog

import (
	"catalog/domain"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOffset(t *testing.T) {
	testCases := []struct {
		page, pageSize, want int
		ok                   bool
	}{
		{1, 10, 0, true},
		{2, 10, 10, true},
		{100, 1, 99, true},
		{math.MaxInt/100 + 1, 100, (math.MaxInt / 100) * 100, true},
		{math.MaxInt/100 + 2, 100, 0, false},
		{math.MaxInt, 2, 0, false},
	}

	for _, tc := range testCases {
		offset, ok := Offset(tc.page, tc.pageSize)
		assert.Equal(t, tc.ok, ok, "page=%d pageSize=%d", tc.page, tc.pageSize)
		assert.Equal(t, tc.want, offset, "page=%d pageSize=%d", tc.page, tc.pageSize)
	}
}

func TestTotalPages(t *testing.T) {
	testCases := []struct {
		total, pageSize, want int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{5, 1, 5},
		{5, 0, 0},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.want, TotalPages(tc.total, tc.pageSize), "total=%d pageSize=%d", tc.total, tc.pageSize)
	}
}

func TestNewPaginatedProductsFlags(t *testing.T) {
	for total := 0; total <= 7; total++ {
		for pageSize := 1; pageSize <= 4; pageSize++ {
			pages := TotalPages(total, pageSize)
			for page := 1; page <= pages+2; page++ {
				res := NewPaginatedProducts(nil, total, page, pageSize)

				assert.Equal(t, pages, res.Pages)
				assert.Equal(t, page < pages, res.HasNext, "total=%d size=%d page=%d", total, pageSize, page)
				assert.Equal(t, page > 1, res.HasPrev, "total=%d size=%d page=%d", total, pageSize, page)
				assert.NotNil(t, res.Items)
			}
		}
	}
}

func TestNewPaginatedProductsEmpty(t *testing.T) {
	res := NewPaginatedProducts(nil, 0, 1, 12)

	assert.Equal(t, domain.PaginatedProducts{Items: []domain.Product{}, Page: 1}, res)
}
