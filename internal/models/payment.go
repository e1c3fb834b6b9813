package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Deposit payment states.
const (
	PaymentPending   = "pending"
	PaymentSucceeded = "succeeded"
	PaymentFailed    = "failed"
)

// Payment records a deposit taken against an order. IntentID holds the
// Stripe payment intent id, or a mock id when Stripe is disabled.
type Payment struct {
	bun.BaseModel `bun:"table:payments"`

	PaymentID string    `bun:"payment_id,pk" json:"payment_id"`
	OrderID   string    `bun:"order_id,notnull" json:"order_id"`
	IntentID  string    `bun:"intent_id" json:"intent_id,omitempty"`
	Amount    float64   `bun:"amount,notnull" json:"amount"`
	Currency  string    `bun:"currency,notnull" json:"currency"`
	Status    string    `bun:"status,notnull" json:"status"`
	CreatedAt time.Time `bun:"created_at" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero" json:"updated_at,omitempty"`
}
