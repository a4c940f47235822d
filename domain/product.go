package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Prices are JSON numbers on every surface.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

type Product struct {
	ID          int64           `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Description *string         `json:"description" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	ImageURL    *string         `json:"image_url" db:"image_url"`
	CategoryID  *int64          `json:"category_id" db:"category_id"`
	InStock     bool            `json:"in_stock" db:"in_stock"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`

	// Category is only populated by the joined read path.
	Category *Category `json:"category" db:"-"`
}

// HasCategory reports whether p references a category.
func (p Product) HasCategory() bool {
	return p.CategoryID != nil
}
