package sqlstore

import (
	"catalog/app/catalog"
	"catalog/domain"
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS categories (
	id BIGSERIAL PRIMARY KEY,
	name VARCHAR(50) NOT NULL UNIQUE,
	description TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS products (
	id BIGSERIAL PRIMARY KEY,
	name VARCHAR(100) NOT NULL,
	description TEXT,
	price NUMERIC(12, 2) NOT NULL CHECK (price >= 0),
	image_url VARCHAR(200),
	category_id BIGINT REFERENCES categories(id) ON DELETE RESTRICT,
	in_stock BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_products_category ON products(category_id);
`

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS categories (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name VARCHAR(50) NOT NULL UNIQUE,
	description TEXT,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS products (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name VARCHAR(100) NOT NULL,
	description TEXT,
	price NUMERIC(12, 2) NOT NULL CHECK (price >= 0),
	image_url VARCHAR(200),
	category_id INTEGER REFERENCES categories(id) ON DELETE RESTRICT,
	in_stock BOOLEAN NOT NULL DEFAULT 1,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_products_category ON products(category_id);
`

func ensureSchema(ctx context.Context, db *sqlx.DB) error {
	schema := postgresSchema
	if db.DriverName() == DriverSQLite {
		schema = sqliteSchema
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

type seedProduct struct {
	name        string
	description string
	price       string
	imageURL    string
	category    string
	inStock     bool
}

var seedCategories = []domain.Category{
	{Name: "Electronics", Description: strPtr("Smartphones, laptops, tablets and other electronics")},
	{Name: "Clothing", Description: strPtr("Men's, women's and children's clothing")},
	{Name: "Books", Description: strPtr("Fiction and educational literature")},
	{Name: "Home & Garden", Description: strPtr("Goods for the home and garden")},
	{Name: "Sports", Description: strPtr("Sporting goods and equipment")},
}

var seedProducts = []seedProduct{
	{"iPhone 15", "Apple smartphone with an improved camera", "99999.99", "/static/images/iphone-15.jpg", "Electronics", true},
	{"MacBook Pro", "Powerful laptop for work and creativity", "199999.99", "/static/images/macbook-pro.jpg", "Electronics", true},
	{"iPhone 15", "Apple smartphone with an improved camera", "999.99", "/static/images/iphone-15.jpg", "Electronics", true},
	{"MacBook Pro", "Powerful laptop for work and creativity", "1999.99", "/static/images/macbook-pro.jpg", "Electronics", true},
	{"Cotton T-Shirt", "Comfortable cotton t-shirt", "29.99", "/static/images/t-shirt.jpg", "Clothing", true},
	{"JavaScript for Beginners", "An introduction to programming in JavaScript", "39.99", "/static/images/js-book.jpg", "Books", false},
}

// Seed inserts demo categories and products into an empty catalog. It does
// nothing once any category exists.
func (r *Repository) Seed(ctx context.Context) error {
	return r.WithinTx(ctx, func(tx catalog.Tx) error {
		existing, err := tx.ListCategories(ctx)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return nil
		}

		zap.L().Info("Seeding demo catalog",
			zap.Int("categories", len(seedCategories)),
			zap.Int("products", len(seedProducts)),
		)

		now := time.Now().UTC()
		ids := make(map[string]int64, len(seedCategories))
		for _, c := range seedCategories {
			c.CreatedAt = now
			created, err := tx.CreateCategory(ctx, c)
			if err != nil {
				return fmt.Errorf("seed category %q: %w", c.Name, err)
			}
			ids[created.Name] = created.ID
		}

		for _, p := range seedProducts {
			categoryID := ids[p.category]
			_, err := tx.CreateProduct(ctx, domain.Product{
				Name:        p.name,
				Description: strPtr(p.description),
				Price:       decimal.RequireFromString(p.price),
				ImageURL:    strPtr(p.imageURL),
				CategoryID:  &categoryID,
				InStock:     p.inStock,
				CreatedAt:   now,
			})
			if err != nil {
				return fmt.Errorf("seed product %q: %w", p.name, err)
			}
		}

		return nil
	})
}

func strPtr(s string) *string {
	return &s
}
