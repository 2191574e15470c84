package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultJWTSecret = "change-me"

// Config holds the application settings.
type Config struct {
	AppPort         string
	DBDriver        string // sqlite, postgres or memory
	DatabaseDSN     string
	JWTSecret       string
	RabbitMQURL     string // empty disables the event bus
	LogLevel        string
	SharedNamespace string
	SeedCatalog     bool
	AdminKey        string // empty disables the admin routes
}

// Load reads configuration from the environment, after loading a .env file
// when one is present.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "storefront.db")
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SHARED_NAMESPACE", "storefront")
	v.SetDefault("SEED_CATALOG", true)
	v.SetDefault("ADMIN_KEY", "")
	v.AutomaticEnv()

	cfg := Config{
		AppPort:         v.GetString("APP_PORT"),
		DBDriver:        v.GetString("DB_DRIVER"),
		DatabaseDSN:     v.GetString("DATABASE_DSN"),
		JWTSecret:       v.GetString("JWT_SECRET"),
		RabbitMQURL:     v.GetString("RABBITMQ_URL"),
		LogLevel:        v.GetString("LOG_LEVEL"),
		SharedNamespace: v.GetString("SHARED_NAMESPACE"),
		SeedCatalog:     v.GetBool("SEED_CATALOG"),
		AdminKey:        v.GetString("ADMIN_KEY"),
	}
	return cfg, cfg.Validate()
}

// Validate checks the settings that have no usable fallback.
func (c Config) Validate() error {
	switch c.DBDriver {
	case "sqlite", "postgres", "memory":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.DBDriver != "memory" && c.DatabaseDSN == "" {
		return fmt.Errorf("DATABASE_DSN is required for driver %s", c.DBDriver)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	if c.SharedNamespace == "" {
		return fmt.Errorf("SHARED_NAMESPACE must not be empty")
	}
	return nil
}

// UsesDefaultSecret reports whether the JWT secret was left at its default.
func (c Config) UsesDefaultSecret() bool {
	return c.JWTSecret == defaultJWTSecret
}
