package sqlstore

import (
	"catalog/app/catalog"
	"catalog/domain"
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// queries implements catalog.Tx on top of a transaction. Statements use `?`
// placeholders and are rebound for the driver.
type queries struct {
	ext sqlx.ExtContext
}

const categoryColumns = `id, name, description, created_at`

const joinedProductColumns = `
	p.id, p.name, p.description, p.price, p.image_url, p.category_id, p.in_stock, p.created_at,
	c.id AS cat_id, c.name AS cat_name, c.description AS cat_description, c.created_at AS cat_created_at`

// productRow is a product joined with its optional category.
type productRow struct {
	domain.Product
	CatID          sql.NullInt64  `db:"cat_id"`
	CatName        sql.NullString `db:"cat_name"`
	CatDescription sql.NullString `db:"cat_description"`
	CatCreatedAt   sql.NullTime   `db:"cat_created_at"`
}

func (r productRow) toDomain() domain.Product {
	p := r.Product
	if r.CatID.Valid {
		category := &domain.Category{
			ID:        r.CatID.Int64,
			Name:      r.CatName.String,
			CreatedAt: r.CatCreatedAt.Time,
		}
		if r.CatDescription.Valid {
			description := r.CatDescription.String
			category.Description = &description
		}
		p.Category = category
	}
	return p
}

func (q *queries) get(ctx context.Context, dest any, query string, args ...any) error {
	return sqlx.GetContext(ctx, q.ext, dest, q.ext.Rebind(query), args...)
}

func (q *queries) selectAll(ctx context.Context, dest any, query string, args ...any) error {
	return sqlx.SelectContext(ctx, q.ext, dest, q.ext.Rebind(query), args...)
}

func (q *queries) exec(ctx context.Context, query string, args ...any) error {
	_, err := q.ext.ExecContext(ctx, q.ext.Rebind(query), args...)
	return translate(err)
}

func (q *queries) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories := make([]domain.Category, 0)
	query := `SELECT ` + categoryColumns + ` FROM categories ORDER BY id`

	if err := q.selectAll(ctx, &categories, query); err != nil {
		return nil, err
	}

	return categories, nil
}

func (q *queries) GetCategory(ctx context.Context, id int64) (domain.Category, error) {
	var c domain.Category
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = ?`

	err := q.get(ctx, &c, query, id)
	return c, err
}

func (q *queries) GetCategoryByName(ctx context.Context, name string) (domain.Category, error) {
	var c domain.Category
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE name = ?`

	err := q.get(ctx, &c, query, name)
	return c, err
}

func (q *queries) CreateCategory(ctx context.Context, category domain.Category) (domain.Category, error) {
	query := `INSERT INTO categories (name, description, created_at) VALUES (?, ?, ?) RETURNING id`

	err := q.ext.QueryRowxContext(ctx, q.ext.Rebind(query),
		category.Name, category.Description, category.CreatedAt,
	).Scan(&category.ID)
	if err != nil {
		return domain.Category{}, translate(err)
	}

	return category, nil
}

func (q *queries) UpdateCategory(ctx context.Context, category domain.Category) error {
	query := `
		UPDATE categories SET
			name = :name,
			description = :description
		WHERE id = :id
	`

	_, err := sqlx.NamedExecContext(ctx, q.ext, query, category)
	return translate(err)
}

func (q *queries) DeleteCategory(ctx context.Context, id int64) error {
	return q.exec(ctx, `DELETE FROM categories WHERE id = ?`, id)
}

func (q *queries) CountProductsInCategory(ctx context.Context, categoryID int64) (int, error) {
	var count int
	err := q.get(ctx, &count, `SELECT COUNT(*) FROM products WHERE category_id = ?`, categoryID)
	return count, err
}

func (q *queries) CountProductsPerCategory(ctx context.Context) ([]domain.CategoryStats, error) {
	stats := make([]domain.CategoryStats, 0)
	query := `
		SELECT c.id AS category_id, c.name AS category_name, COUNT(p.id) AS product_count
		FROM categories c
		LEFT JOIN products p ON p.category_id = c.id
		GROUP BY c.id, c.name
		ORDER BY c.id`

	if err := q.selectAll(ctx, &stats, query); err != nil {
		return nil, err
	}

	return stats, nil
}

// ListProducts applies the filter, counts the matches, then returns the
// requested window ordered by id.
func (q *queries) ListProducts(ctx context.Context, filter catalog.ProductFilter, offset, limit int) ([]domain.Product, int, error) {
	where := ``
	args := []any{}
	if filter.CategoryID != nil {
		where = ` WHERE p.category_id = ?`
		args = append(args, *filter.CategoryID)
	}

	var total int
	if err := q.get(ctx, &total, `SELECT COUNT(*) FROM products p`+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	rows := make([]productRow, 0)
	query := `SELECT ` + joinedProductColumns + `
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id` + where + `
		ORDER BY p.id
		LIMIT ? OFFSET ?`

	if err := q.selectAll(ctx, &rows, query, append(args, limit, offset)...); err != nil {
		return nil, 0, fmt.Errorf("select products: %w", err)
	}

	products := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, row.toDomain())
	}

	return products, total, nil
}

func (q *queries) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	var p domain.Product
	query := `
		SELECT id, name, description, price, image_url, category_id, in_stock, created_at
		FROM products WHERE id = ?`

	err := q.get(ctx, &p, query, id)
	return p, err
}

func (q *queries) GetProductWithCategory(ctx context.Context, id int64) (domain.Product, error) {
	var row productRow
	query := `SELECT ` + joinedProductColumns + `
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.id = ?`

	if err := q.get(ctx, &row, query, id); err != nil {
		return domain.Product{}, err
	}

	return row.toDomain(), nil
}

func (q *queries) CreateProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	query := `
		INSERT INTO products (
			name, description, price, image_url, category_id, in_stock, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id`

	err := q.ext.QueryRowxContext(ctx, q.ext.Rebind(query),
		product.Name, product.Description, product.Price, product.ImageURL,
		product.CategoryID, product.InStock, product.CreatedAt,
	).Scan(&product.ID)
	if err != nil {
		return domain.Product{}, translate(err)
	}

	return product, nil
}

func (q *queries) UpdateProduct(ctx context.Context, product domain.Product) error {
	query := `
		UPDATE products SET
			name = :name,
			description = :description,
			price = :price,
			image_url = :image_url,
			category_id = :category_id,
			in_stock = :in_stock
		WHERE id = :id
	`

	params := map[string]interface{}{
		"id":          product.ID,
		"name":        product.Name,
		"description": product.Description,
		"price":       product.Price,
		"image_url":   product.ImageURL,
		"category_id": product.CategoryID,
		"in_stock":    product.InStock,
	}

	_, err := sqlx.NamedExecContext(ctx, q.ext, query, params)
	return translate(err)
}

func (q *queries) DeleteProduct(ctx context.Context, id int64) error {
	return q.exec(ctx, `DELETE FROM products WHERE id = ?`, id)
}
