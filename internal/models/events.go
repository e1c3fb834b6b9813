package models

import "time"

// OrderCreatedEvent is published to Kafka when the builder submits an order.
type OrderCreatedEvent struct {
	OrderID     string    `json:"order_id"`
	CustomerRef string    `json:"customer_ref"`
	Occasion    string    `json:"occasion"`
	Flavor      string    `json:"flavor"`
	TotalAmount float64   `json:"total_amount"`
	PickupDate  time.Time `json:"pickup_date"`
	CreatedAt   time.Time `json:"created_at"`
}

// OrderStatusEvent is published when an order moves between board columns.
type OrderStatusEvent struct {
	OrderID    string    `json:"order_id"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	MovedBy    string    `json:"moved_by,omitempty"`
	MovedAt    time.Time `json:"moved_at"`
}

// PickupPayload is the encrypted content of a pickup QR code.
type PickupPayload struct {
	OrderID     string    `json:"order_id"`
	CustomerRef string    `json:"customer_ref"`
	PickupDate  time.Time `json:"pickup_date"`
}
