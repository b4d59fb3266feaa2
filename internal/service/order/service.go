package order

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"spiceshop/internal/domain"
	"spiceshop/internal/gateway/razorpay"
)

var paiseFactor = decimal.NewFromInt(100)

type gateway interface {
	CreateOrder(ctx context.Context, amountPaise int64, currency, receipt string) (*razorpay.Order, error)
	KeyID() string
}

type productCatalog interface {
	Get(id string) (domain.Product, bool)
	Currency() string
}

// Service prices a cart against the catalog and opens a payment intent at
// the gateway. It keeps no state of its own; the gateway owns the pending
// order for its lifetime.
type Service struct {
	catalog productCatalog
	gateway gateway
	logger  *log.Logger
}

func New(catalog productCatalog, gw gateway, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{catalog: catalog, gateway: gw, logger: logger}
}

// Create prices the cart and creates a gateway order for the total.
// Lines referencing unknown product ids are dropped rather than failing the
// whole request, tolerating stale storefront catalogs. The delivery charge is
// whatever the caller supplies (the storefront computes it from the published
// policy); absent means zero.
func (s *Service) Create(ctx context.Context, lines []domain.CartLine, deliveryCharge *decimal.Decimal) (*domain.PendingOrder, error) {
	if len(lines) == 0 {
		return nil, domain.ErrEmptyCart
	}

	subtotal := decimal.Zero
	priced := 0
	for _, line := range lines {
		product, ok := s.catalog.Get(line.ProductID)
		if !ok {
			s.logger.Printf("order: dropping unknown product id=%s", line.ProductID)
			continue
		}
		if line.Quantity <= 0 {
			continue
		}
		subtotal = subtotal.Add(product.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
		priced++
	}
	if priced == 0 || !subtotal.IsPositive() {
		return nil, domain.ErrInvalidCart
	}

	delivery := decimal.Zero
	if deliveryCharge != nil {
		if deliveryCharge.IsNegative() {
			return nil, domain.ErrInvalidCart
		}
		delivery = *deliveryCharge
	}

	amountPaise := ToPaise(subtotal.Add(delivery))
	if amountPaise <= 0 {
		return nil, domain.ErrInvalidCart
	}

	currency := s.catalog.Currency()
	receipt := "rcpt_" + uuid.NewString()

	gwOrder, err := s.gateway.CreateOrder(ctx, amountPaise, currency, receipt)
	if err != nil {
		return nil, fmt.Errorf("create gateway order: %w", err)
	}

	s.logger.Printf("order: created gateway order id=%s amount=%d currency=%s", gwOrder.ID, gwOrder.Amount, gwOrder.Currency)
	return &domain.PendingOrder{
		GatewayOrderID: gwOrder.ID,
		AmountPaise:    gwOrder.Amount,
		Currency:       gwOrder.Currency,
		Receipt:        gwOrder.Receipt,
		Status:         gwOrder.Status,
		KeyID:          s.gateway.KeyID(),
	}, nil
}

// ToPaise converts a rupee amount to integer paise, rounding half up.
func ToPaise(amount decimal.Decimal) int64 {
	return amount.Mul(paiseFactor).Round(0).IntPart()
}
