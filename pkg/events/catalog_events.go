package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// Domain constants
const (
	CategoryDomain   = "category"
	CategoryExchange = "catalog.category"
	ProductDomain    = "product"
	ProductExchange  = "catalog.product"
	StockExchange    = "inventory.stock"
)

// Event names
const (
	CategoryCreatedEvent  = "category.created"
	CategoryUpdatedEvent  = "category.updated"
	CategoryDeletedEvent  = "category.deleted"
	ProductCreatedEvent   = "product.created"
	ProductUpdatedEvent   = "product.updated"
	ProductDeletedEvent   = "product.deleted"
	StockDepletedEvent    = "stock.depleted"
	StockReplenishedEvent = "stock.replenished"
)

// Event versions
const (
	EventVersionV1 = "v1"
)

type CategoryPayload struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

type CategoryDeletedPayload struct {
	ID        int64     `json:"id"`
	DeletedAt time.Time `json:"deletedAt"`
}

type ProductPayload struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    *string         `json:"imageUrl"`
	CategoryID  *int64          `json:"categoryId"`
	InStock     bool            `json:"inStock"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type ProductDeletedPayload struct {
	ID         int64     `json:"id"`
	CategoryID *int64    `json:"categoryId"`
	DeletedAt  time.Time `json:"deletedAt"`
}

// StockChangedPayload is published by the inventory service when a product
// runs out of stock or is replenished.
type StockChangedPayload struct {
	ProductID int64 `json:"productId"`
}
