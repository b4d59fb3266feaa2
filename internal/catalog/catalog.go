// Package catalog holds the immutable product catalog, the seller identity
// printed on invoices, and the delivery charge policy. All of it is loaded
// once at startup from a YAML file and never mutated afterwards.
package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"spiceshop/internal/domain"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// Seller identifies the merchant on generated invoices.
type Seller struct {
	BrandName string `yaml:"brand_name"`
	Tagline   string `yaml:"tagline"`
	Address   string `yaml:"address"`
	Phone     string `yaml:"phone"`
	Email     string `yaml:"email"`
}

// DeliveryPolicy is a flat charge waived above a subtotal threshold.
// Amounts are in whole currency units (rupees).
type DeliveryPolicy struct {
	Charge             decimal.Decimal `yaml:"charge"`
	WaiveAboveSubtotal decimal.Decimal `yaml:"waive_above_subtotal"`
}

// Catalog is the read-only product listing plus merchant configuration.
type Catalog struct {
	seller   Seller
	currency string
	delivery DeliveryPolicy
	products []domain.Product
	byID     map[string]domain.Product
}

type catalogFile struct {
	Seller   Seller           `yaml:"seller"`
	Currency string           `yaml:"currency"`
	Delivery DeliveryPolicy   `yaml:"delivery"`
	Products []domain.Product `yaml:"products"`
}

// Load reads the catalog from path, or from the embedded default when path
// is empty.
func Load(path string) (*Catalog, error) {
	raw := defaultCatalogYAML
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", path, err)
		}
		raw = data
	}
	return parse(raw)
}

func parse(raw []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if file.Currency == "" {
		file.Currency = "INR"
	}
	if len(file.Products) == 0 {
		return nil, fmt.Errorf("catalog has no products")
	}

	byID := make(map[string]domain.Product, len(file.Products))
	for _, p := range file.Products {
		if p.ID == "" {
			return nil, fmt.Errorf("catalog product %q has no id", p.Name)
		}
		if p.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("catalog product %s has negative price", p.ID)
		}
		if _, dup := byID[p.ID]; dup {
			return nil, fmt.Errorf("catalog product id %s duplicated", p.ID)
		}
		byID[p.ID] = p
	}

	return &Catalog{
		seller:   file.Seller,
		currency: file.Currency,
		delivery: file.Delivery,
		products: file.Products,
		byID:     byID,
	}, nil
}

// Get returns the product with the given id.
func (c *Catalog) Get(id string) (domain.Product, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// Products returns all products in listing order.
func (c *Catalog) Products() []domain.Product {
	out := make([]domain.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Seller returns the merchant identity block.
func (c *Catalog) Seller() Seller {
	return c.seller
}

// Currency returns the catalog's ISO currency code.
func (c *Catalog) Currency() string {
	return c.currency
}

// Delivery returns the configured delivery policy.
func (c *Catalog) Delivery() DeliveryPolicy {
	return c.delivery
}

// DeliveryCharge returns the charge applied to the given subtotal: the flat
// charge when subtotal is at or below the waive threshold, zero above it.
func (c *Catalog) DeliveryCharge(subtotal decimal.Decimal) decimal.Decimal {
	if c.delivery.Charge.IsZero() {
		return decimal.Zero
	}
	if c.delivery.WaiveAboveSubtotal.IsPositive() && subtotal.GreaterThan(c.delivery.WaiveAboveSubtotal) {
		return decimal.Zero
	}
	return c.delivery.Charge
}
