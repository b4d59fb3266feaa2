// Package checkout orchestrates the post-payment flow: verify the callback
// proof, render the invoice, append the completed order to the ledger. Every
// side effect is gated on verification; the ledger append happens at most
// once per gateway order id.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"spiceshop/internal/domain"
	"spiceshop/internal/ledger"
)

type verifier interface {
	Verify(proof domain.PaymentProof) error
}

type invoiceGenerator interface {
	Generate(order domain.Order) (string, error)
}

// Service completes verified payments.
type Service struct {
	verifier verifier
	invoices invoiceGenerator
	ledger   ledger.Repository
	logger   *log.Logger
	now      func() time.Time
}

func New(v verifier, invoices invoiceGenerator, repo ledger.Repository, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		verifier: v,
		invoices: invoices,
		ledger:   repo,
		logger:   logger,
		now:      time.Now,
	}
}

// Input is everything the payment callback carries.
type Input struct {
	Proof    domain.PaymentProof
	Lines    []domain.OrderLine
	Buyer    domain.Buyer
	Delivery int64 // paise, never negative
}

// Complete verifies the proof and, on success, writes the invoice and appends
// the order to the ledger. Returns the stored order.
//
// Ordering is deliberate: a failed invoice write means no ledger append (no
// record without an artifact), and a failed append after a written artifact
// leaves the file orphaned but reports the order as not completed.
func (s *Service) Complete(ctx context.Context, in Input) (*domain.Order, error) {
	if err := s.verifier.Verify(in.Proof); err != nil {
		return nil, err
	}
	if in.Delivery < 0 {
		return nil, domain.ErrInvalidCart
	}

	if _, err := s.ledger.FindByID(ctx, in.Proof.GatewayOrderID); err == nil {
		return nil, domain.ErrDuplicateOrder
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("check ledger: %w", err)
	}

	order := domain.Order{
		GatewayOrderID:   in.Proof.GatewayOrderID,
		GatewayPaymentID: in.Proof.GatewayPaymentID,
		DeliveryPaise:    in.Delivery,
		Buyer:            in.Buyer,
		CreatedAt:        s.now().UTC(),
	}
	var subtotal int64
	for _, line := range in.Lines {
		if line.Quantity <= 0 || line.UnitPricePaise < 0 {
			continue
		}
		line.TotalPaise = line.UnitPricePaise * int64(line.Quantity)
		subtotal += line.TotalPaise
		order.Lines = append(order.Lines, line)
	}
	order.TotalPaise = subtotal + in.Delivery

	filename, err := s.invoices.Generate(order)
	if err != nil {
		return nil, fmt.Errorf("generate invoice: %w", err)
	}
	order.InvoiceFile = filename

	if err := s.ledger.Append(ctx, order); err != nil {
		if errors.Is(err, domain.ErrDuplicateOrder) {
			// Lost the race to a concurrent callback for the same order; the
			// regenerated artifact overwrote the same locator, nothing leaks.
			return nil, domain.ErrDuplicateOrder
		}
		s.logger.Printf("checkout: ledger append failed, invoice %s orphaned order=%s err=%v",
			filename, order.GatewayOrderID, err)
		return nil, fmt.Errorf("record order: %w", err)
	}

	s.logger.Printf("checkout: completed order=%s payment=%s total_paise=%d",
		order.GatewayOrderID, order.GatewayPaymentID, order.TotalPaise)
	return &order, nil
}
