package domain

import "time"

// PendingOrder is the gateway's record of a freshly created payment intent.
// The backend keeps no state for it; the caller takes it to the payment flow.
type PendingOrder struct {
	GatewayOrderID string `json:"id"`
	AmountPaise    int64  `json:"amount"`
	Currency       string `json:"currency"`
	Receipt        string `json:"receipt"`
	Status         string `json:"status"`
	KeyID          string `json:"key"`
}

// PaymentProof is the callback claim that a gateway order was paid.
type PaymentProof struct {
	GatewayOrderID   string `json:"razorpay_order_id"`
	GatewayPaymentID string `json:"razorpay_payment_id"`
	Signature        string `json:"razorpay_signature"`
}

// Buyer holds the purchaser details captured at checkout.
type Buyer struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address"`
}

// OrderLine is a priced snapshot of one purchased item. Prices are captured
// in paise at verification time so later catalog edits cannot rewrite history.
type OrderLine struct {
	Name           string `json:"name"`
	Quantity       int    `json:"quantity"`
	UnitPricePaise int64  `json:"unitPricePaise"`
	TotalPaise     int64  `json:"totalPaise"`
}

// Order is one verified, completed transaction as recorded in the ledger.
// Immutable once appended.
type Order struct {
	GatewayOrderID   string      `json:"orderId"`
	GatewayPaymentID string      `json:"paymentId"`
	Lines            []OrderLine `json:"lines"`
	DeliveryPaise    int64       `json:"deliveryPaise"`
	Buyer            Buyer       `json:"buyer"`
	TotalPaise       int64       `json:"totalPaise"`
	InvoiceFile      string      `json:"invoiceFile"`
	CreatedAt        time.Time   `json:"createdAt"`
}

// LedgerStats are the aggregate figures over the whole ledger.
type LedgerStats struct {
	Count        int   `json:"count"`
	RevenuePaise int64 `json:"revenuePaise"`
}
