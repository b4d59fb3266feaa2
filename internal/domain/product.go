package domain

import "github.com/shopspring/decimal"

// Product is a catalog entry. The catalog is loaded once at startup and
// never mutated, so products are safe for concurrent reads.
type Product struct {
	ID          string          `json:"id" yaml:"id"`
	Name        string          `json:"name" yaml:"name"`
	Description string          `json:"desc,omitempty" yaml:"desc"`
	UnitPrice   decimal.Decimal `json:"price" yaml:"price"`
	ImageURL    string          `json:"img,omitempty" yaml:"img"`
}

// CartLine is one requested position in a checkout cart.
type CartLine struct {
	ProductID string `json:"id"`
	Quantity  int    `json:"qty"`
}
