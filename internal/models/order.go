package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Production statuses an order moves through on the fulfillment board.
// The set is fixed and ordered; the board renders one column per status.
const (
	StatusPending      = "pending"
	StatusInPrep       = "in_prep"
	StatusInDecoration = "in_decoration"
	StatusReady        = "ready"
	StatusCompleted    = "completed"
	StatusPickedUp     = "picked_up"
)

// OrderStatuses lists the valid statuses in board order.
var OrderStatuses = []string{
	StatusPending,
	StatusInPrep,
	StatusInDecoration,
	StatusReady,
	StatusCompleted,
	StatusPickedUp,
}

// IsValidStatus reports whether s is one of the six defined statuses.
func IsValidStatus(s string) bool {
	for _, status := range OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Priority values for an order.
const (
	PriorityRush   = "rush"
	PriorityNormal = "normal"
)

type Order struct {
	bun.BaseModel `bun:"table:orders"`

	OrderID      string    `bun:"order_id,pk" json:"order_id"`
	CustomerRef  string    `bun:"customer_ref" json:"customer_ref"`
	ProductRef   string    `bun:"product_ref" json:"product_ref"`
	Occasion     string    `bun:"occasion" json:"occasion"`
	Flavor       string    `bun:"flavor" json:"flavor"`
	Design       string    `bun:"design" json:"design"`
	Message      string    `bun:"message" json:"message,omitempty"`
	Notes        string    `bun:"notes" json:"notes,omitempty"`
	Servings     int       `bun:"servings" json:"servings"`
	PickupDate   time.Time `bun:"pickup_date" json:"pickup_date"`
	Priority     string    `bun:"priority" json:"priority"`
	Status       string    `bun:"status" json:"status"`
	TotalAmount  float64   `bun:"total_amount" json:"total_amount"`
	ContactName  string    `bun:"contact_name" json:"contact_name"`
	ContactEmail string    `bun:"contact_email" json:"contact_email"`
	ContactPhone string    `bun:"contact_phone" json:"contact_phone,omitempty"`
	CreatedAt    time.Time `bun:"created_at" json:"created_at"`
	UpdatedAt    time.Time `bun:"updated_at,nullzero" json:"updated_at,omitempty"`
}

// OrderFilter narrows a listing request. Search matches customer name,
// email and order id. Page is 1-based.
type OrderFilter struct {
	Search   string `json:"search,omitempty"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
}

// OrderPage is one page of orders plus the total match count.
type OrderPage struct {
	Orders []Order `json:"orders"`
	Total  int     `json:"total"`
}

type OrderResponse struct {
	OrderID        string  `json:"order_id"`
	Status         string  `json:"status"`
	EstimatedPrice float64 `json:"estimated_price"`
}
