package db

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"ms-bakery/internal/models"
)

type DB struct {
	Bun *bun.DB
}

// CreatePayment → insert new deposit record
func (d *DB) CreatePayment(payment models.Payment) error {
	_, err := d.Bun.NewInsert().Model(&payment).Exec(context.Background())
	return err
}

// GetPaymentByID → fetch one payment
func (d *DB) GetPaymentByID(id string) (*models.Payment, error) {
	var payment models.Payment
	err := d.Bun.NewSelect().
		Model(&payment).
		Where("payment_id = ?", id).
		Limit(1).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// ListPaymentsByOrder → all deposits taken against one order, newest first
func (d *DB) ListPaymentsByOrder(orderID string) ([]models.Payment, error) {
	var payments []models.Payment
	err := d.Bun.NewSelect().
		Model(&payments).
		Where("order_id = ?", orderID).
		Order("created_at DESC").
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	if payments == nil {
		payments = []models.Payment{}
	}
	return payments, nil
}

// UpdatePaymentStatus → record the gateway outcome
func (d *DB) UpdatePaymentStatus(paymentID, status, intentID string) error {
	_, err := d.Bun.NewUpdate().
		Model((*models.Payment)(nil)).
		Set("status = ?", status).
		Set("intent_id = ?", intentID).
		Set("updated_at = ?", time.Now()).
		Where("payment_id = ?", paymentID).
		Exec(context.Background())
	return err
}
