package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"spiceshop/internal/catalog"
	"spiceshop/internal/config"
	"spiceshop/internal/db"
	"spiceshop/internal/gateway/razorpay"
	"spiceshop/internal/httpserver"
	"spiceshop/internal/invoice"
	"spiceshop/internal/ledger"
	"spiceshop/internal/migrate"
	checkoutsvc "spiceshop/internal/service/checkout"
	ordersvc "spiceshop/internal/service/order"
	paymentsvc "spiceshop/internal/service/payment"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	if cfg.RazorpayKeyID == "" || cfg.RazorpaySecret == "" {
		logger.Println("warning: RZP_KEY_ID / RZP_KEY_SECRET not set, payment flows will fail")
	}

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		logger.Fatalf("load catalog: %v", err)
	}

	ctx := context.Background()
	sqlDB, err := db.Open(ctx, cfg.LedgerPath)
	if err != nil {
		logger.Fatalf("open ledger: %v", err)
	}
	defer sqlDB.Close()

	if err := migrate.Apply(sqlDB); err != nil {
		logger.Fatalf("apply migrations: %v", err)
	}

	seller := cat.Seller()
	invoices, err := invoice.NewGenerator(invoice.Seller{
		BrandName: seller.BrandName,
		Tagline:   seller.Tagline,
		Address:   seller.Address,
		Phone:     seller.Phone,
		Email:     seller.Email,
	}, cfg.InvoicesDir, logger)
	if err != nil {
		logger.Fatalf("init invoice generator: %v", err)
	}

	gateway := razorpay.New(cfg.RazorpayAPIURL, cfg.RazorpayKeyID, cfg.RazorpaySecret, cfg.GatewayTimeout, logger)
	ledgerRepo := ledger.NewSQLite(sqlDB, logger)
	orderService := ordersvc.New(cat, gateway, logger)
	verifier := paymentsvc.NewVerifier(cfg.RazorpaySecret, logger)
	checkoutService := checkoutsvc.New(verifier, invoices, ledgerRepo, logger)

	srv := httpserver.New(cfg.HTTPAddr, logger, sqlDB, httpserver.Deps{
		Catalog:     cat,
		OrderSvc:    orderService,
		CheckoutSvc: checkoutService,
		Ledger:      ledgerRepo,
		InvoicesDir: cfg.InvoicesDir,
		AdminKey:    cfg.AdminKey,
		CORSOrigins: cfg.CORSOrigins,
	})

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
