package razorpay

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestCreateOrder(t *testing.T) {
	var gotPath, gotAuthUser, gotAuthPass string
	var gotBody createOrderRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuthUser, gotAuthPass, _ = r.BasicAuth()
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":"order_test123","amount":28900,"currency":"INR","receipt":"rcpt_abc","status":"created"}`)
	}))
	defer srv.Close()

	client := New(srv.URL, "rzp_test_key", "rzp_secret", 5*time.Second, testLogger())

	order, err := client.CreateOrder(context.Background(), 28900, "INR", "rcpt_abc")
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	if gotPath != "/v1/orders" {
		t.Fatalf("request path = %s, want /v1/orders", gotPath)
	}
	if gotAuthUser != "rzp_test_key" || gotAuthPass != "rzp_secret" {
		t.Fatalf("basic auth = %s:%s", gotAuthUser, gotAuthPass)
	}
	if gotBody.Amount != 28900 || gotBody.Currency != "INR" || gotBody.PaymentCapture != 1 {
		t.Fatalf("unexpected request body: %+v", gotBody)
	}
	if order.ID != "order_test123" || order.Amount != 28900 || order.Status != "created" {
		t.Fatalf("unexpected order: %+v", order)
	}
}

func TestCreateOrderAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error":{"code":"BAD_REQUEST_ERROR","description":"amount must be at least 100"}}`)
	}))
	defer srv.Close()

	client := New(srv.URL, "key", "secret", 5*time.Second, testLogger())

	_, err := client.CreateOrder(context.Background(), 1, "INR", "rcpt_low")
	if err == nil {
		t.Fatal("expected error for rejected order")
	}
	if !strings.Contains(err.Error(), "amount must be at least 100") {
		t.Fatalf("error missing API description: %v", err)
	}
}

func TestCreateOrderOpaqueError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		io.WriteString(w, "upstream exploded")
	}))
	defer srv.Close()

	client := New(srv.URL, "key", "secret", 5*time.Second, testLogger())

	_, err := client.CreateOrder(context.Background(), 28900, "INR", "rcpt_x")
	if err == nil {
		t.Fatal("expected error for non-JSON failure body")
	}
	if !strings.Contains(err.Error(), "unexpected status 502") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreateOrderUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := New(srv.URL, "key", "secret", time.Second, testLogger())

	if _, err := client.CreateOrder(context.Background(), 28900, "INR", "rcpt_x"); err == nil {
		t.Fatal("expected error for unreachable gateway")
	}
}

func TestCreateOrderContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := New(srv.URL, "key", "secret", 5*time.Second, testLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, err := client.CreateOrder(ctx, 28900, "INR", "rcpt_x"); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
