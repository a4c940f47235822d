package catalog

import (
	"catalog/domain"
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// QueryService serves the read side of the catalog: paginated listings,
// single products with their category, and per-category counts.
type QueryService struct {
	repository Repository
}

func NewQueryService(repository Repository) *QueryService {
	return &QueryService{
		repository: repository,
	}
}

// GetProducts returns page `page` of the products matching categoryID (all
// products when nil). A page past the end yields no items but still reports
// the correct totals.
func (s *QueryService) GetProducts(ctx context.Context, page, pageSize int, categoryID *int64) (domain.PaginatedProducts, error) {
	if page < 1 {
		return domain.PaginatedProducts{}, Validation(
			"product.index.invalid_page",
			"page must be greater than or equal to 1",
			map[string]int{"page": page},
		)
	}
	if pageSize < 1 || pageSize > MaxPageSize {
		return domain.PaginatedProducts{}, Validation(
			"product.index.invalid_page_size",
			fmt.Sprintf("page_size must be between 1 and %d", MaxPageSize),
			map[string]int{"page_size": pageSize},
		)
	}

	offset, inRange := Offset(page, pageSize)
	limit := pageSize
	if !inRange {
		// Only the count is needed for a page this far out.
		offset, limit = 0, 0
	}

	var (
		items []domain.Product
		total int
	)
	err := s.repository.WithinTx(ctx, func(tx Tx) error {
		var err error
		items, total, err = tx.ListProducts(ctx, ProductFilter{CategoryID: categoryID}, offset, limit)
		return err
	})
	if err != nil {
		return domain.PaginatedProducts{}, fmt.Errorf("list products: %w", err)
	}

	return NewPaginatedProducts(items, total, page, pageSize), nil
}

func (s *QueryService) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	var product domain.Product
	err := s.repository.WithinTx(ctx, func(tx Tx) error {
		var err error
		product, err = tx.GetProductWithCategory(ctx, id)
		return err
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, NotFound("product.show.not_found", "Product not found")
		}
		return domain.Product{}, fmt.Errorf("get product %d: %w", id, err)
	}

	return product, nil
}

// GetCategoryStats returns one entry per category, including categories that
// own no products.
func (s *QueryService) GetCategoryStats(ctx context.Context) ([]domain.CategoryStats, error) {
	var stats []domain.CategoryStats
	err := s.repository.WithinTx(ctx, func(tx Tx) error {
		var err error
		stats, err = tx.CountProductsPerCategory(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("count products per category: %w", err)
	}
	if stats == nil {
		stats = []domain.CategoryStats{}
	}

	return stats, nil
}

func (s *QueryService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	err := s.repository.WithinTx(ctx, func(tx Tx) error {
		var err error
		categories, err = tx.ListCategories(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	if categories == nil {
		categories = []domain.Category{}
	}

	return categories, nil
}

func (s *QueryService) GetCategory(ctx context.Context, id int64) (domain.Category, error) {
	var category domain.Category
	err := s.repository.WithinTx(ctx, func(tx Tx) error {
		var err error
		category, err = tx.GetCategory(ctx, id)
		return err
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Category{}, NotFound("category.show.not_found", "Category not found")
		}
		return domain.Category{}, fmt.Errorf("get category %d: %w", id, err)
	}

	return category, nil
}
