package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string

	HTTPPort string

	TaxRatePercent            float64
	AddressMinLength          int
	PaymentSuccessProbability float64
}

// Load reads .env if present and falls back to the documented defaults for
// anything unset. A missing .env is not an error; containers set plain env.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "storefront"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),

		HTTPPort: getEnv("PORT", "8082"),

		TaxRatePercent:            getEnvAsFloat("TAX_RATE_PERCENT", 18),
		AddressMinLength:          getEnvAsInt("ADDRESS_MIN_LENGTH", 5),
		PaymentSuccessProbability: getEnvAsFloat("PAYMENT_SUCCESS_PROBABILITY", 0.99),
	}
}

func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
