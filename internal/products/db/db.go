package db

import (
	"context"
	"strings"

	"github.com/uptrace/bun"

	"ms-bakery/internal/models"
)

type DB struct {
	Bun *bun.DB
}

// GetProductByID → fetch one catalog product
func (d *DB) GetProductByID(id string) (*models.Product, error) {
	var product models.Product
	err := d.Bun.NewSelect().
		Model(&product).
		Where("product_id = ?", id).
		Limit(1).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct → insert new product
func (d *DB) CreateProduct(product models.Product) error {
	_, err := d.Bun.NewInsert().Model(&product).Exec(context.Background())
	return err
}

// UpdateProduct → update the catalog fields
func (d *DB) UpdateProduct(product models.Product) error {
	_, err := d.Bun.NewUpdate().
		Model(&product).
		Column("name", "description", "flavor_key", "base_price", "active").
		Where("product_id = ?", product.ProductID).
		Exec(context.Background())
	return err
}

// DeleteProduct → remove a product from the catalog
func (d *DB) DeleteProduct(id string) error {
	_, err := d.Bun.NewDelete().
		Model((*models.Product)(nil)).
		Where("product_id = ?", id).
		Exec(context.Background())
	return err
}

// ListProducts → catalog products, optionally only the active ones
func (d *DB) ListProducts(activeOnly bool, search string) ([]models.Product, error) {
	query := d.Bun.NewSelect().Model((*models.Product)(nil))

	if activeOnly {
		query = query.Where("active = ?", true)
	}
	if search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("lower(name) LIKE ?", pattern)
	}

	var products []models.Product
	err := query.Order("name ASC").Scan(context.Background(), &products)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}
