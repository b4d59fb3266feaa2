package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds runtime configuration parsed from environment variables.
type Config struct {
	HTTPAddr        string
	LedgerPath      string
	InvoicesDir     string
	CatalogPath     string
	RazorpayKeyID   string
	RazorpaySecret  string
	RazorpayAPIURL  string
	AdminKey        string
	PublicBaseURL   string
	CORSOrigins     []string
	GatewayTimeout  time.Duration
	ShutdownTimeout time.Duration
}

// FromEnv builds Config with defaults, overridden by environment variables.
func FromEnv() Config {
	return Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LedgerPath:      envOrDefault("LEDGER_PATH", "data/ledger.db"),
		InvoicesDir:     envOrDefault("INVOICES_DIR", "invoices"),
		CatalogPath:     envOrDefault("CATALOG_PATH", ""),
		RazorpayKeyID:   envOrDefault("RZP_KEY_ID", ""),
		RazorpaySecret:  envOrDefault("RZP_KEY_SECRET", ""),
		RazorpayAPIURL:  envOrDefault("RZP_API_URL", "https://api.razorpay.com"),
		AdminKey:        envOrDefault("ADMIN_KEY", ""),
		PublicBaseURL:   envOrDefault("PUBLIC_BASE_URL", ""),
		CORSOrigins:     envList("CORS_ORIGINS"),
		GatewayTimeout:  envDuration("GATEWAY_TIMEOUT_SECONDS", 15*time.Second),
		ShutdownTimeout: envDuration("SHUTDOWN_TIMEOUT_SECONDS", 10*time.Second),
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		seconds, err := strconv.Atoi(v)
		if err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return def
}

func envList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
