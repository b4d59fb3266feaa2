package httpserver

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"spiceshop/internal/domain"
	checkoutsvc "spiceshop/internal/service/checkout"
	orderpricing "spiceshop/internal/service/order"
)

type verifyItemRequest struct {
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
}

type verifyPaymentRequest struct {
	RazorpayOrderID   string              `json:"razorpay_order_id"`
	RazorpayPaymentID string              `json:"razorpay_payment_id"`
	RazorpaySignature string              `json:"razorpay_signature"`
	Items             []verifyItemRequest `json:"items"`
	Buyer             domain.Buyer        `json:"buyer"`
	DeliveryCharge    decimal.Decimal     `json:"deliveryCharge"`
}

func verifyPaymentHandler(svc CheckoutCompleter, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req verifyPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if req.RazorpayOrderID == "" || req.RazorpayPaymentID == "" || req.RazorpaySignature == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing verification fields"})
			return
		}
		if req.DeliveryCharge.IsNegative() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "delivery charge must not be negative"})
			return
		}

		lines := make([]domain.OrderLine, 0, len(req.Items))
		for _, item := range req.Items {
			lines = append(lines, domain.OrderLine{
				Name:           item.Name,
				Quantity:       item.Quantity,
				UnitPricePaise: orderpricing.ToPaise(item.UnitPrice),
			})
		}

		order, err := svc.Complete(c.Request.Context(), checkoutsvc.Input{
			Proof: domain.PaymentProof{
				GatewayOrderID:   req.RazorpayOrderID,
				GatewayPaymentID: req.RazorpayPaymentID,
				Signature:        req.RazorpaySignature,
			},
			Lines:    lines,
			Buyer:    req.Buyer,
			Delivery: orderpricing.ToPaise(req.DeliveryCharge),
		})
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrVerificationFailed):
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signature"})
			case errors.Is(err, domain.ErrDuplicateOrder):
				c.JSON(http.StatusConflict, gin.H{"error": "Order already processed"})
			case errors.Is(err, domain.ErrInvalidCart):
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cart items"})
			default:
				logger.Printf("verify payment error: %v", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Invoice generation failed"})
			}
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "invoiceUrl": "/invoices/" + order.InvoiceFile})
	}
}
