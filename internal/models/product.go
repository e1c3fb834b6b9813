package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Product is a standard (non-custom) cake sold through the catalog pages.
type Product struct {
	bun.BaseModel `bun:"table:products"`

	ProductID   string    `bun:"product_id,pk" json:"product_id"`
	Name        string    `bun:"name,notnull" json:"name"`
	Description string    `bun:"description" json:"description,omitempty"`
	FlavorKey   string    `bun:"flavor_key" json:"flavor_key"`
	BasePrice   float64   `bun:"base_price,notnull" json:"base_price"`
	Active      bool      `bun:"active" json:"active"`
	CreatedAt   time.Time `bun:"created_at" json:"created_at"`
}
