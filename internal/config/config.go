package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     int
	LogLevel string

	DatabaseURL string

	TaxRate float64

	UploadDir     string
	MaxUploadSize int64

	AdminToken string

	KafkaAddress string

	StoreName string
	Currency  string
}

// Load reads configuration from the environment. A .env file is loaded
// first when present, matching local development setups.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("notice: .env file not found: %v, using system environment", err)
	}

	cfg := &Config{
		Port:          envIntDefault("PORT", 8080),
		LogLevel:      envDefault("LOG_LEVEL", "info"),
		DatabaseURL:   envDefault("DATABASE_URL", "apple_store.db"),
		TaxRate:       envFloatDefault("TAX_RATE", 0.08),
		UploadDir:     envDefault("UPLOAD_DIR", "static/images/products"),
		MaxUploadSize: int64(envIntDefault("MAX_UPLOAD_SIZE", 10<<20)),
		AdminToken:    os.Getenv("ADMIN_TOKEN"),
		KafkaAddress:  os.Getenv("KAFKA_ADDRESS"),
		StoreName:     envDefault("STORE_NAME", "Apple Store"),
		Currency:      envDefault("CURRENCY", "USD"),
	}

	return cfg, nil
}

func envDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntDefault(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envFloatDefault(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
