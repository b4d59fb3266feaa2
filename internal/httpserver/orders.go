package httpserver

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"spiceshop/internal/catalog"
	"spiceshop/internal/domain"
)

type createOrderRequest struct {
	Items          []domain.CartLine `json:"items"`
	DeliveryCharge *decimal.Decimal  `json:"deliveryCharge,omitempty"`
}

func listProductsHandler(cat *catalog.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		policy := cat.Delivery()
		c.JSON(http.StatusOK, gin.H{
			"products": cat.Products(),
			"currency": cat.Currency(),
			"delivery": gin.H{
				"charge":             policy.Charge,
				"waiveAboveSubtotal": policy.WaiveAboveSubtotal,
			},
		})
	}
}

func createOrderHandler(svc OrderCreator, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if req.DeliveryCharge != nil && req.DeliveryCharge.IsNegative() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "delivery charge must not be negative"})
			return
		}

		pending, err := svc.Create(c.Request.Context(), req.Items, req.DeliveryCharge)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrEmptyCart):
				c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
			case errors.Is(err, domain.ErrInvalidCart):
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cart items"})
			default:
				logger.Printf("create order error: %v", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			}
			return
		}

		c.JSON(http.StatusOK, pending)
	}
}
