package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/SscSPs/bizbooks/internal/core/domain"
)

// Storage drivers.
const (
	StoragePostgres = "pgsql"
	StorageMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	JWTSecret      string
	StorageDriver  string
	MigrationsPath string
	// Redis is optional; when set it backs the rate limiter and the cross-process party lock.
	RedisAddress       string
	RateLimit          string // ulule format, e.g. "100-M"
	CORSAllowedOrigins []string
	// CategoriesFile overrides the embedded category taxonomy when set.
	CategoriesFile string

	BusinessState      string
	OpeningCashBalance decimal.Decimal
	OpeningBankBalance decimal.Decimal
}

// Profile returns the business-level settings the services need.
func (c *Config) Profile() domain.BusinessProfile {
	return domain.BusinessProfile{
		State:              c.BusinessState,
		OpeningCashBalance: c.OpeningCashBalance,
		OpeningBankBalance: c.OpeningBankBalance,
	}
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()
	return loadFrom(viper.New())
}

func loadFrom(v *viper.Viper) (*Config, error) {
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	v.SetDefault("STORAGE_DRIVER", StoragePostgres)
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("REDIS_ADDRESS", "")
	v.SetDefault("RATE_LIMIT", "300-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")
	v.SetDefault("CATEGORIES_FILE", "")
	v.SetDefault("BUSINESS_STATE", "")
	v.SetDefault("OPENING_CASH_BALANCE", "0")
	v.SetDefault("OPENING_BANK_BALANCE", "0")

	// Values from the environment (including those loaded from .env) override the defaults.
	v.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:    v.GetString("PGSQL_URL"),
		Port:           v.GetString("PORT"),
		IsProduction:   v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:  v.GetBool("ENABLE_DB_CHECK"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		StorageDriver:  strings.ToLower(strings.TrimSpace(v.GetString("STORAGE_DRIVER"))),
		MigrationsPath: v.GetString("MIGRATIONS_PATH"),
		RedisAddress:   v.GetString("REDIS_ADDRESS"),
		RateLimit:      v.GetString("RATE_LIMIT"),
		CategoriesFile: v.GetString("CATEGORIES_FILE"),
		BusinessState:  strings.TrimSpace(v.GetString("BUSINESS_STATE")),
	}
	for _, origin := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	var err error
	if cfg.OpeningCashBalance, err = decimal.NewFromString(v.GetString("OPENING_CASH_BALANCE")); err != nil {
		return nil, fmt.Errorf("invalid OPENING_CASH_BALANCE: %w", err)
	}
	if cfg.OpeningBankBalance, err = decimal.NewFromString(v.GetString("OPENING_BANK_BALANCE")); err != nil {
		return nil, fmt.Errorf("invalid OPENING_BANK_BALANCE: %w", err)
	}

	switch cfg.StorageDriver {
	case StoragePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("PGSQL_URL is required when STORAGE_DRIVER is %q", StoragePostgres)
		}
	case StorageMemory:
		log.Println("Warning: STORAGE_DRIVER=memory keeps all data in this process only.")
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must not be empty")
	}
	if cfg.BusinessState == "" {
		log.Println("Warning: BUSINESS_STATE not set. Every invoice with a customer state will be priced inter-state.")
	}
	return cfg, nil
}
