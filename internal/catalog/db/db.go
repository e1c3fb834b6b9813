package db

import (
	"context"

	"github.com/uptrace/bun"

	"ms-bakery/internal/models"
)

type DB struct {
	Bun *bun.DB
}

// ---------------- FLAVORS ----------------

// GetFlavor → fetch one flavor by its catalog key
func (d *DB) GetFlavor(key string) (*models.Flavor, error) {
	var flavor models.Flavor
	err := d.Bun.NewSelect().
		Model(&flavor).
		Where("key = ?", key).
		Limit(1).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return &flavor, nil
}

// ListFlavors → fetch all active flavors
func (d *DB) ListFlavors() ([]models.Flavor, error) {
	var flavors []models.Flavor
	err := d.Bun.NewSelect().
		Model(&flavors).
		Where("active = ?", true).
		Order("name").
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return flavors, nil
}

// ---------------- DESIGNS ----------------

// GetDesign → fetch one design style by its catalog key
func (d *DB) GetDesign(key string) (*models.Design, error) {
	var design models.Design
	err := d.Bun.NewSelect().
		Model(&design).
		Where("key = ?", key).
		Limit(1).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return &design, nil
}

// ListDesigns → fetch all active design styles
func (d *DB) ListDesigns() ([]models.Design, error) {
	var designs []models.Design
	err := d.Bun.NewSelect().
		Model(&designs).
		Where("active = ?", true).
		Order("name").
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return designs, nil
}
