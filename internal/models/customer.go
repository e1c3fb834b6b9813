package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Customer struct {
	bun.BaseModel `bun:"table:customers"`

	CustomerID string    `bun:"customer_id,pk" json:"customer_id"`
	Name       string    `bun:"name,notnull" json:"name"`
	Email      string    `bun:"email,notnull" json:"email"`
	Phone      string    `bun:"phone" json:"phone,omitempty"`
	Notes      string    `bun:"notes" json:"notes,omitempty"`
	CreatedAt  time.Time `bun:"created_at" json:"created_at"`
}
