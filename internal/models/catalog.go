package models

import "github.com/uptrace/bun"

// Occasion keys offered by the builder's first step.
var Occasions = []string{"birthday", "wedding", "anniversary", "graduation", "corporate", "other"}

// IsValidOccasion reports whether key is part of the fixed occasion catalog.
func IsValidOccasion(key string) bool {
	for _, o := range Occasions {
		if o == key {
			return true
		}
	}
	return false
}

// Flavor is a cake flavor with its surcharge over the base price.
type Flavor struct {
	bun.BaseModel `bun:"table:flavors"`

	Key       string  `bun:"key,pk" json:"key"`
	Name      string  `bun:"name,notnull" json:"name"`
	Surcharge float64 `bun:"surcharge,notnull" json:"surcharge"`
	Active    bool    `bun:"active" json:"active"`
}

// Design is a decorating style offered by the builder's third step.
type Design struct {
	bun.BaseModel `bun:"table:designs"`

	Key    string `bun:"key,pk" json:"key"`
	Name   string `bun:"name,notnull" json:"name"`
	Active bool   `bun:"active" json:"active"`
}
