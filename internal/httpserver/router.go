package httpserver

import (
	"context"
	"database/sql"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"spiceshop/internal/catalog"
	"spiceshop/internal/domain"
	"spiceshop/internal/ledger"
	checkoutsvc "spiceshop/internal/service/checkout"
)

// OrderCreator prices a cart and opens a payment intent.
type OrderCreator interface {
	Create(ctx context.Context, lines []domain.CartLine, deliveryOverride *decimal.Decimal) (*domain.PendingOrder, error)
}

// CheckoutCompleter finishes a verified payment.
type CheckoutCompleter interface {
	Complete(ctx context.Context, in checkoutsvc.Input) (*domain.Order, error)
}

// Deps are the collaborators the router needs.
type Deps struct {
	Catalog     *catalog.Catalog
	OrderSvc    OrderCreator
	CheckoutSvc CheckoutCompleter
	Ledger      ledger.Repository
	InvoicesDir string
	AdminKey    string
	CORSOrigins []string
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *sql.DB, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	if len(deps.CORSOrigins) > 0 {
		corsCfg := cors.DefaultConfig()
		corsCfg.AllowOrigins = deps.CORSOrigins
		router.Use(cors.New(corsCfg))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	router.GET("/products", listProductsHandler(deps.Catalog))
	router.POST("/create-order", createOrderHandler(deps.OrderSvc, logger))
	router.POST("/verify-payment", verifyPaymentHandler(deps.CheckoutSvc, logger))

	// The locator itself is the access control for invoice downloads.
	router.Static("/invoices", deps.InvoicesDir)

	// With no operator key configured the admin surface stays closed.
	if deps.AdminKey == "" {
		logger.Printf("admin key not configured, admin routes disabled")
	} else {
		admin := router.Group("/admin", adminKeyMiddleware(deps.AdminKey))
		admin.GET("/orders", adminOrdersHandler(deps.Ledger))
		admin.GET("/export", adminExportHandler(deps.Ledger))
		admin.DELETE("/invoices/:filename", adminDeleteInvoiceHandler(deps.InvoicesDir, logger))
	}

	return router
}
