package config

import (
	"log"
	"os"
	"strconv"
)

// Config is built once at startup and passed to the components that need
// it; nothing mutates it afterwards.
type Config struct {
	Port string
	Env  string

	// StorageDriver selects the store backend: "bolt", "sqlite" or
	// "postgres". Bolt keeps everything in one local file; the SQL drivers
	// use a document table and enable transactional sale completion.
	StorageDriver string
	StoragePath   string // bolt file path
	DatabaseDSN   string // sqlite path or postgres DSN

	// Loyalty discount applied at sale completion.
	LoyaltyThreshold  float64
	LoyaltyDiscount   float64 // percent
	LowStockThreshold int

	// AtomicSales switches sale completion from the historical best-effort
	// sequence to an all-or-nothing store transaction.
	AtomicSales bool
	SeedDemo    bool
}

// Load reads configuration from environment with sensible defaults.
// Precedence: explicit env var > .env file (if loaded by caller) > default.
func Load() Config {
	cfg := Config{}
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("APP_ENV", "development")
	cfg.StorageDriver = getEnv("POS_STORAGE_DRIVER", "bolt")
	cfg.StoragePath = getEnv("POS_STORAGE_PATH", "pos.db")
	cfg.DatabaseDSN = getEnv("DATABASE_DSN", "pos.sqlite")
	cfg.LoyaltyThreshold = parseFloat("POS_LOYALTY_THRESHOLD", 2000)
	cfg.LoyaltyDiscount = parseFloat("POS_LOYALTY_DISCOUNT_PCT", 5)
	cfg.LowStockThreshold = parseInt("POS_LOW_STOCK_THRESHOLD", 10)
	cfg.AtomicSales = parseBool("POS_ATOMIC_SALES", false)
	cfg.SeedDemo = parseBool("POS_SEED_DEMO", false)
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// parseBool reads an env var as bool with default.
func parseBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			log.Printf("invalid boolean for %s: %s", key, v)
			return def
		}
		return b
	}
	return def
}

func parseFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			log.Printf("invalid number for %s: %s", key, v)
			return def
		}
		return f
	}
	return def
}

func parseInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			log.Printf("invalid integer for %s: %s", key, v)
			return def
		}
		return n
	}
	return def
}
