package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Pu11en/peptide-website/internal/domain"
)

// PostgresCatalog reads products and their size variants from the database.
// Prices are stored in integer cents and surfaced as dollars so both
// catalog implementations price identically.
type PostgresCatalog struct {
	db *sql.DB
}

func NewPostgresCatalog(db *sql.DB) *PostgresCatalog {
	return &PostgresCatalog{db: db}
}

func (c *PostgresCatalog) FindBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	query := `SELECT slug, name, description, price_cents, image_path, category
	          FROM products WHERE slug = $1`

	var p domain.Product
	var priceCents int64
	var description, imagePath, category sql.NullString
	err := c.db.QueryRowContext(ctx, query, slug).Scan(
		&p.Slug,
		&p.Name,
		&description,
		&priceCents,
		&imagePath,
		&category,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query product by slug: %w", err)
	}

	p.Description = description.String
	p.Image = imagePath.String
	p.Category = category.String
	p.Price = float64(priceCents) / 100

	sizes, err := c.loadVariants(ctx, slug)
	if err != nil {
		return nil, err
	}
	p.Sizes = sizes

	return &p, nil
}

func (c *PostgresCatalog) List(ctx context.Context) ([]*domain.Product, error) {
	query := `SELECT slug, name, description, price_cents, image_path, category
	          FROM products ORDER BY id`

	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		var p domain.Product
		var priceCents int64
		var description, imagePath, category sql.NullString
		if err := rows.Scan(&p.Slug, &p.Name, &description, &priceCents, &imagePath, &category); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		p.Description = description.String
		p.Image = imagePath.String
		p.Category = category.String
		p.Price = float64(priceCents) / 100
		products = append(products, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	for _, p := range products {
		sizes, err := c.loadVariants(ctx, p.Slug)
		if err != nil {
			return nil, err
		}
		p.Sizes = sizes
	}

	return products, nil
}

func (c *PostgresCatalog) loadVariants(ctx context.Context, slug string) ([]domain.Variant, error) {
	query := `SELECT v.size, v.price_cents
	          FROM product_variants v
	          JOIN products p ON p.id = v.product_id
	          WHERE p.slug = $1 ORDER BY v.id`

	rows, err := c.db.QueryContext(ctx, query, slug)
	if err != nil {
		return nil, fmt.Errorf("query product variants: %w", err)
	}
	defer rows.Close()

	var sizes []domain.Variant
	for rows.Next() {
		var v domain.Variant
		var priceCents int64
		if err := rows.Scan(&v.Size, &priceCents); err != nil {
			return nil, fmt.Errorf("scan variant row: %w", err)
		}
		v.Price = float64(priceCents) / 100
		sizes = append(sizes, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return sizes, nil
}
