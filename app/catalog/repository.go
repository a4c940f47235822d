package catalog

import (
	"catalog/domain"
	"context"
)

// ProductFilter narrows a product listing. A nil CategoryID matches every
// product.
type ProductFilter struct {
	CategoryID *int64
}

// Repository opens transaction scopes over the catalog store. Every service
// operation runs its reads and writes inside a single WithinTx call.
type Repository interface {
	Close() error
	WithinTx(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the set of catalog queries bound to one transaction. Lookups by id
// return sql.ErrNoRows when nothing matches.
type Tx interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetCategory(ctx context.Context, id int64) (domain.Category, error)
	GetCategoryByName(ctx context.Context, name string) (domain.Category, error)
	CreateCategory(ctx context.Context, category domain.Category) (domain.Category, error)
	UpdateCategory(ctx context.Context, category domain.Category) error
	DeleteCategory(ctx context.Context, id int64) error
	CountProductsInCategory(ctx context.Context, categoryID int64) (int, error)
	CountProductsPerCategory(ctx context.Context) ([]domain.CategoryStats, error)

	ListProducts(ctx context.Context, filter ProductFilter, offset, limit int) ([]domain.Product, int, error)
	GetProduct(ctx context.Context, id int64) (domain.Product, error)
	GetProductWithCategory(ctx context.Context, id int64) (domain.Product, error)
	CreateProduct(ctx context.Context, product domain.Product) (domain.Product, error)
	UpdateProduct(ctx context.Context, product domain.Product) error
	DeleteProduct(ctx context.Context, id int64) error
}
