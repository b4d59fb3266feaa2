package httpserver

import (
	"context"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"spiceshop/internal/domain"
)

type stubOrderCreator struct {
	pending      *domain.PendingOrder
	err          error
	lastLines    []domain.CartLine
	lastDelivery *decimal.Decimal
}

func (s *stubOrderCreator) Create(_ context.Context, lines []domain.CartLine, delivery *decimal.Decimal) (*domain.PendingOrder, error) {
	s.lastLines = lines
	s.lastDelivery = delivery
	return s.pending, s.err
}

func testLogger() *log.Logger {
	return log.New(os.Stderr, "[test] ", 0)
}

func newOrderRouter(svc OrderCreator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/create-order", createOrderHandler(svc, testLogger()))
	return router
}

func TestCreateOrderHandlerBadBody(t *testing.T) {
	router := newOrderRouter(&stubOrderCreator{})
	req := httptest.NewRequest(http.MethodPost, "/create-order", strings.NewReader("not json"))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCreateOrderHandlerEmptyCart(t *testing.T) {
	router := newOrderRouter(&stubOrderCreator{err: domain.ErrEmptyCart})
	req := httptest.NewRequest(http.MethodPost, "/create-order", strings.NewReader(`{"items":[]}`))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Cart is empty") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestCreateOrderHandlerNegativeDelivery(t *testing.T) {
	router := newOrderRouter(&stubOrderCreator{})
	body := `{"items":[{"id":"p001","qty":1}],"deliveryCharge":"-5"}`
	req := httptest.NewRequest(http.MethodPost, "/create-order", strings.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCreateOrderHandlerGatewayError(t *testing.T) {
	router := newOrderRouter(&stubOrderCreator{err: errors.New("razorpay: unreachable")})
	body := `{"items":[{"id":"p001","qty":1}]}`
	req := httptest.NewRequest(http.MethodPost, "/create-order", strings.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestCreateOrderHandlerSuccess(t *testing.T) {
	svc := &stubOrderCreator{pending: &domain.PendingOrder{
		GatewayOrderID: "order_abc",
		AmountPaise:    24000,
		Currency:       "INR",
		Receipt:        "rcpt_1",
		Status:         "created",
		KeyID:          "rzp_test_key",
	}}
	router := newOrderRouter(svc)
	body := `{"items":[{"id":"p001","qty":2}]}`
	req := httptest.NewRequest(http.MethodPost, "/create-order", strings.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	for _, want := range []string{`"id":"order_abc"`, `"amount":24000`, `"currency":"INR"`, `"key":"rzp_test_key"`} {
		if !strings.Contains(rec.Body.String(), want) {
			t.Fatalf("response missing %s: %s", want, rec.Body.String())
		}
	}
	if len(svc.lastLines) != 1 || svc.lastLines[0].ProductID != "p001" || svc.lastLines[0].Quantity != 2 {
		t.Fatalf("service not called with cart lines: %+v", svc.lastLines)
	}
}
