package checkout

import (
	"context"
	"errors"
	"iter"
	"testing"

	"spiceshop/internal/domain"
)

type stubVerifier struct {
	err error
}

func (s *stubVerifier) Verify(_ domain.PaymentProof) error {
	return s.err
}

type stubGenerator struct {
	filename  string
	err       error
	calls     int
	lastOrder domain.Order
}

func (s *stubGenerator) Generate(order domain.Order) (string, error) {
	s.calls++
	s.lastOrder = order
	if s.err != nil {
		return "", s.err
	}
	return s.filename, nil
}

type stubLedger struct {
	existing    *domain.Order
	findErr     error
	appendErr   error
	appendCalls int
	lastAppend  domain.Order
}

func (s *stubLedger) Append(_ context.Context, order domain.Order) error {
	s.appendCalls++
	s.lastAppend = order
	return s.appendErr
}

func (s *stubLedger) FindByID(_ context.Context, _ string) (*domain.Order, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	if s.existing != nil {
		return s.existing, nil
	}
	return nil, domain.ErrNotFound
}

func (s *stubLedger) List(_ context.Context) ([]domain.Order, error) {
	return nil, nil
}

func (s *stubLedger) Orders(_ context.Context) iter.Seq2[domain.Order, error] {
	return func(func(domain.Order, error) bool) {}
}

func (s *stubLedger) Aggregate(_ context.Context) (domain.LedgerStats, error) {
	return domain.LedgerStats{}, nil
}

func validInput() Input {
	return Input{
		Proof: domain.PaymentProof{
			GatewayOrderID:   "order_abc",
			GatewayPaymentID: "pay_xyz",
			Signature:        "sig",
		},
		Lines: []domain.OrderLine{
			{Name: "Garam Masala", Quantity: 2, UnitPricePaise: 12000},
			{Name: "Turmeric", Quantity: 1, UnitPricePaise: 15000},
		},
		Buyer:    domain.Buyer{Name: "Asha", Phone: "9876543210", Address: "Pune"},
		Delivery: 4900,
	}
}

func TestCompleteHappyPath(t *testing.T) {
	gen := &stubGenerator{filename: "invoice_order_abc.pdf"}
	repo := &stubLedger{}
	svc := New(&stubVerifier{}, gen, repo, nil)

	order, err := svc.Complete(context.Background(), validInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 2*12000 + 1*15000 + 4900 delivery
	if order.TotalPaise != 43900 {
		t.Fatalf("unexpected grand total: %d", order.TotalPaise)
	}
	if order.Lines[0].TotalPaise != 24000 || order.Lines[1].TotalPaise != 15000 {
		t.Fatalf("unexpected line totals: %+v", order.Lines)
	}
	if order.InvoiceFile != "invoice_order_abc.pdf" {
		t.Fatalf("unexpected invoice file: %s", order.InvoiceFile)
	}
	if repo.appendCalls != 1 {
		t.Fatalf("expected exactly one append, got %d", repo.appendCalls)
	}
	if repo.lastAppend.GatewayOrderID != "order_abc" || repo.lastAppend.InvoiceFile != order.InvoiceFile {
		t.Fatalf("appended order mismatch: %+v", repo.lastAppend)
	}
}

func TestCompleteGrandTotalInvariant(t *testing.T) {
	gen := &stubGenerator{filename: "invoice_order_abc.pdf"}
	repo := &stubLedger{}
	svc := New(&stubVerifier{}, gen, repo, nil)

	order, err := svc.Complete(context.Background(), validInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var sum int64
	for _, line := range order.Lines {
		sum += line.TotalPaise
	}
	if order.TotalPaise != sum+order.DeliveryPaise {
		t.Fatalf("grand total %d != lines %d + delivery %d", order.TotalPaise, sum, order.DeliveryPaise)
	}
}

func TestCompleteRejectsBadSignatureBeforeSideEffects(t *testing.T) {
	gen := &stubGenerator{filename: "invoice_order_abc.pdf"}
	repo := &stubLedger{}
	svc := New(&stubVerifier{err: domain.ErrVerificationFailed}, gen, repo, nil)

	_, err := svc.Complete(context.Background(), validInput())
	if !errors.Is(err, domain.ErrVerificationFailed) {
		t.Fatalf("expected verification failure, got %v", err)
	}
	if gen.calls != 0 || repo.appendCalls != 0 {
		t.Fatalf("side effects ran despite failed verification: gen=%d append=%d", gen.calls, repo.appendCalls)
	}
}

func TestCompleteDuplicateOrder(t *testing.T) {
	gen := &stubGenerator{filename: "invoice_order_abc.pdf"}
	repo := &stubLedger{existing: &domain.Order{GatewayOrderID: "order_abc"}}
	svc := New(&stubVerifier{}, gen, repo, nil)

	_, err := svc.Complete(context.Background(), validInput())
	if !errors.Is(err, domain.ErrDuplicateOrder) {
		t.Fatalf("expected duplicate order, got %v", err)
	}
	if gen.calls != 0 || repo.appendCalls != 0 {
		t.Fatalf("duplicate must not regenerate or append: gen=%d append=%d", gen.calls, repo.appendCalls)
	}
}

func TestCompleteInvoiceFailureSkipsAppend(t *testing.T) {
	gen := &stubGenerator{err: errors.New("disk full")}
	repo := &stubLedger{}
	svc := New(&stubVerifier{}, gen, repo, nil)

	_, err := svc.Complete(context.Background(), validInput())
	if err == nil {
		t.Fatalf("expected error")
	}
	if repo.appendCalls != 0 {
		t.Fatalf("append must not run after a failed invoice write")
	}
}

func TestCompleteAppendFailureReported(t *testing.T) {
	gen := &stubGenerator{filename: "invoice_order_abc.pdf"}
	repo := &stubLedger{appendErr: errors.New("ledger broken")}
	svc := New(&stubVerifier{}, gen, repo, nil)

	_, err := svc.Complete(context.Background(), validInput())
	if err == nil || errors.Is(err, domain.ErrDuplicateOrder) {
		t.Fatalf("expected storage error, got %v", err)
	}
}

func TestCompleteAppendRaceSurfacesDuplicate(t *testing.T) {
	gen := &stubGenerator{filename: "invoice_order_abc.pdf"}
	repo := &stubLedger{appendErr: domain.ErrDuplicateOrder}
	svc := New(&stubVerifier{}, gen, repo, nil)

	_, err := svc.Complete(context.Background(), validInput())
	if !errors.Is(err, domain.ErrDuplicateOrder) {
		t.Fatalf("expected duplicate order, got %v", err)
	}
}

func TestCompleteSkipsUnpriceableLines(t *testing.T) {
	gen := &stubGenerator{filename: "invoice_order_abc.pdf"}
	repo := &stubLedger{}
	svc := New(&stubVerifier{}, gen, repo, nil)

	in := validInput()
	in.Lines = append(in.Lines, domain.OrderLine{Name: "Broken", Quantity: 0, UnitPricePaise: 100})
	order, err := svc.Complete(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(order.Lines) != 2 {
		t.Fatalf("expected zero-quantity line dropped, got %d lines", len(order.Lines))
	}
}

func TestCompleteRejectsNegativeDelivery(t *testing.T) {
	svc := New(&stubVerifier{}, &stubGenerator{}, &stubLedger{}, nil)
	in := validInput()
	in.Delivery = -1
	_, err := svc.Complete(context.Background(), in)
	if !errors.Is(err, domain.ErrInvalidCart) {
		t.Fatalf("expected invalid cart, got %v", err)
	}
}
