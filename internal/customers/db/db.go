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

// GetCustomerByID → fetch one customer
func (d *DB) GetCustomerByID(id string) (*models.Customer, error) {
	var customer models.Customer
	err := d.Bun.NewSelect().
		Model(&customer).
		Where("customer_id = ?", id).
		Limit(1).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// GetCustomerByEmail → fetch one customer by email, used for dedupe on intake
func (d *DB) GetCustomerByEmail(email string) (*models.Customer, error) {
	var customer models.Customer
	err := d.Bun.NewSelect().
		Model(&customer).
		Where("lower(email) = ?", strings.ToLower(email)).
		Limit(1).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// CreateCustomer → insert new customer
func (d *DB) CreateCustomer(customer models.Customer) error {
	_, err := d.Bun.NewInsert().Model(&customer).Exec(context.Background())
	return err
}

// UpdateCustomer → update contact details and notes
func (d *DB) UpdateCustomer(customer models.Customer) error {
	_, err := d.Bun.NewUpdate().
		Model(&customer).
		Column("name", "email", "phone", "notes").
		Where("customer_id = ?", customer.CustomerID).
		Exec(context.Background())
	return err
}

// DeleteCustomer → remove a customer record
func (d *DB) DeleteCustomer(id string) error {
	_, err := d.Bun.NewDelete().
		Model((*models.Customer)(nil)).
		Where("customer_id = ?", id).
		Exec(context.Background())
	return err
}

// ListCustomers → all customers matching a name or email search, A to Z
func (d *DB) ListCustomers(search string) ([]models.Customer, error) {
	query := d.Bun.NewSelect().Model((*models.Customer)(nil))

	if search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("(lower(name) LIKE ? OR lower(email) LIKE ?)", pattern, pattern)
	}

	var customers []models.Customer
	err := query.Order("name ASC").Scan(context.Background(), &customers)
	if err != nil {
		return nil, err
	}
	if customers == nil {
		customers = []models.Customer{}
	}
	return customers, nil
}
