package httpserver

import (
	"crypto/subtle"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"spiceshop/internal/domain"
	"spiceshop/internal/ledger"
)

// adminKeyMiddleware gates the operator surface on an exact key match. The
// key arrives as a request parameter; a failed match reveals nothing beyond
// the status.
func adminKeyMiddleware(adminKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		supplied := c.Query("key")
		if supplied == "" {
			supplied = c.GetHeader("X-Admin-Key")
		}
		if subtle.ConstantTimeCompare([]byte(supplied), []byte(adminKey)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

type adminOrdersResponse struct {
	Orders       []adminOrderRow `json:"orders"`
	Count        int             `json:"count"`
	RevenuePaise int64           `json:"revenuePaise"`
}

type adminOrderRow struct {
	OrderID     string `json:"orderId"`
	PaymentID   string `json:"paymentId"`
	BuyerName   string `json:"buyerName"`
	BuyerPhone  string `json:"buyerPhone"`
	Items       int    `json:"items"`
	TotalPaise  int64  `json:"totalPaise"`
	InvoiceFile string `json:"invoiceFile"`
	CreatedAt   string `json:"createdAt"`
}

func adminOrdersHandler(repo ledger.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows := []adminOrderRow{}
		for order, err := range repo.Orders(c.Request.Context()) {
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "ledger read failed"})
				return
			}
			rows = append(rows, adminOrderRow{
				OrderID:     order.GatewayOrderID,
				PaymentID:   order.GatewayPaymentID,
				BuyerName:   order.Buyer.Name,
				BuyerPhone:  order.Buyer.Phone,
				Items:       len(order.Lines),
				TotalPaise:  order.TotalPaise,
				InvoiceFile: order.InvoiceFile,
				CreatedAt:   order.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
			})
		}
		stats, err := repo.Aggregate(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "ledger read failed"})
			return
		}
		c.JSON(http.StatusOK, adminOrdersResponse{
			Orders:       rows,
			Count:        stats.Count,
			RevenuePaise: stats.RevenuePaise,
		})
	}
}

// adminExportHandler dumps the full ledger for backup.
func adminExportHandler(repo ledger.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := repo.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "ledger read failed"})
			return
		}
		if orders == nil {
			orders = []domain.Order{}
		}
		c.JSON(http.StatusOK, gin.H{"orders": orders})
	}
}

// adminDeleteInvoiceHandler removes one invoice artifact. The ledger record
// stays: financial history must survive a document purge.
func adminDeleteInvoiceHandler(invoicesDir string, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		filename := c.Param("filename")
		if !validInvoiceFilename(filename) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invoice filename"})
			return
		}

		path := filepath.Join(invoicesDir, filename)
		if err := os.Remove(path); err != nil {
			if os.IsNotExist(err) {
				c.JSON(http.StatusNotFound, gin.H{"error": "invoice not found"})
				return
			}
			logger.Printf("admin: delete invoice %s error=%v", filename, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
			return
		}
		logger.Printf("admin: deleted invoice %s", filename)
		c.JSON(http.StatusOK, gin.H{"deleted": filename})
	}
}

// validInvoiceFilename accepts only the flat names the generator produces,
// rejecting anything that could traverse out of the invoices directory.
func validInvoiceFilename(name string) bool {
	if name == "" || name != filepath.Base(name) {
		return false
	}
	if strings.Contains(name, "..") || strings.ContainsAny(name, `/\`) {
		return false
	}
	return strings.HasPrefix(name, "invoice_") && strings.HasSuffix(name, ".pdf")
}
