package db

import (
	"context"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"ms-bakery/internal/models"
)

type DB struct {
	Bun *bun.DB
}

// ---------------- ORDERS ----------------

// GetOrderByID → fetch one order by its ID
func (d *DB) GetOrderByID(id string) (*models.Order, error) {
	var order models.Order
	err := d.Bun.NewSelect().
		Model(&order).
		Where("order_id = ?", id).
		Limit(1).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// CreateOrder → insert new order
func (d *DB) CreateOrder(order models.Order) error {
	_, err := d.Bun.NewInsert().Model(&order).Exec(context.Background())
	return err
}

// UpdateOrder → update the editable fields of an order
func (d *DB) UpdateOrder(order models.Order) error {
	_, err := d.Bun.NewUpdate().
		Model(&order).
		Column("customer_ref", "occasion", "flavor", "design", "message", "notes",
			"servings", "pickup_date", "priority", "total_amount",
			"contact_name", "contact_email", "contact_phone", "updated_at").
		Where("order_id = ?", order.OrderID).
		Exec(context.Background())
	return err
}

// UpdateOrderStatus → set the production status of one order
func (d *DB) UpdateOrderStatus(orderID, status string) error {
	_, err := d.Bun.NewUpdate().
		Model((*models.Order)(nil)).
		Set("status = ?", status).
		Set("updated_at = ?", time.Now()).
		Where("order_id = ?", orderID).
		Exec(context.Background())
	return err
}

// DeleteOrder → remove an order by ID
func (d *DB) DeleteOrder(id string) error {
	_, err := d.Bun.NewDelete().
		Model((*models.Order)(nil)).
		Where("order_id = ?", id).
		Exec(context.Background())
	return err
}

// ListOrders → one page of orders plus the total match count. Search matches
// the order id, contact name and contact email, case-insensitively.
func (d *DB) ListOrders(filter models.OrderFilter) (*models.OrderPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 250
	}

	query := d.Bun.NewSelect().Model((*models.Order)(nil))

	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where(
			"(lower(order_id) LIKE ? OR lower(contact_name) LIKE ? OR lower(contact_email) LIKE ?)",
			pattern, pattern, pattern,
		)
	}

	var orders []models.Order
	total, err := query.
		Order("created_at DESC").
		Limit(filter.PageSize).
		Offset((filter.Page - 1) * filter.PageSize).
		ScanAndCount(context.Background(), &orders)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []models.Order{}
	}

	return &models.OrderPage{Orders: orders, Total: total}, nil
}

// ListOrdersByStatus → every order currently in one status, oldest first
func (d *DB) ListOrdersByStatus(status string) ([]models.Order, error) {
	var orders []models.Order
	err := d.Bun.NewSelect().
		Model(&orders).
		Where("status = ?", status).
		Order("pickup_date ASC").
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// ListOrdersDueBetween → orders with a pickup date inside the window,
// used by the daily production report
func (d *DB) ListOrdersDueBetween(from, to time.Time) ([]models.Order, error) {
	var orders []models.Order
	err := d.Bun.NewSelect().
		Model(&orders).
		Where("pickup_date >= ?", from).
		Where("pickup_date < ?", to).
		Order("pickup_date ASC").
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return orders, nil
}
