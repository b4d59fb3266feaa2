package main

import (
	"context"
	"log"
	"os"

	"spiceshop/internal/config"
	"spiceshop/internal/db"
	"spiceshop/internal/migrate"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[migrate] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	sqlDB, err := db.Open(context.Background(), cfg.LedgerPath)
	if err != nil {
		logger.Fatalf("open ledger: %v", err)
	}
	defer sqlDB.Close()

	if err := migrate.Apply(sqlDB); err != nil {
		logger.Fatalf("apply migrations: %v", err)
	}

	logger.Println("migrations applied")
}
