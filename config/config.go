package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	CORS     CORSConfig
	S3       S3Config
	Redis    RedisConfig
	Catalog  CatalogConfig
	Contact  ContactConfig
	Admin    AdminSeedConfig
	Notifier NotifierConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port        string
	GinMode     string
	Environment string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type JWTConfig struct {
	Secret             string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	BaseURL         string // CDN or public bucket URL
	Folder          string
}

// RedisConfig is optional. An empty Host disables the token blacklist.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// CatalogConfig holds the price range thresholds and storefront limits.
type CatalogConfig struct {
	PriceLow       int64
	PriceHigh      int64
	FeaturedLimit  int
	SearchDebounce time.Duration
}

type ContactConfig struct {
	WhatsAppNumber string
	InstagramURL   string
}

// AdminSeedConfig creates the first dashboard user on migrate when both fields are set.
type AdminSeedConfig struct {
	Email    string
	Password string
	Name     string
}

type NotifierConfig struct {
	UnreadCountSpec string
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			GinMode:     getEnv("GIN_MODE", "debug"),
			Environment: getEnv("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "gmp"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "gmp_artesanias"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret:             getEnv("JWT_SECRET", "change-me"),
			AccessTokenExpiry:  parseDuration(getEnv("JWT_ACCESS_TOKEN_EXPIRY", "1h"), time.Hour),
			RefreshTokenExpiry: parseDuration(getEnv("JWT_REFRESH_TOKEN_EXPIRY", "168h"), 168*time.Hour),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:5173")),
		},
		S3: S3Config{
			Region:          getEnv("AWS_REGION", "sa-east-1"),
			Bucket:          getEnv("AWS_S3_BUCKET", "gmp-product-images"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			BaseURL:         getEnv("AWS_S3_BASE_URL", ""),
			Folder:          getEnv("AWS_S3_FOLDER", "products"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", ""),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       parseInt(getEnv("REDIS_DB", "0"), 0),
		},
		Catalog: CatalogConfig{
			PriceLow:       int64(parseInt(getEnv("CATALOG_PRICE_LOW", "50000"), 50000)),
			PriceHigh:      int64(parseInt(getEnv("CATALOG_PRICE_HIGH", "100000"), 100000)),
			FeaturedLimit:  parseInt(getEnv("CATALOG_FEATURED_LIMIT", "3"), 3),
			SearchDebounce: parseDuration(getEnv("CATALOG_SEARCH_DEBOUNCE", "500ms"), 500*time.Millisecond),
		},
		Contact: ContactConfig{
			WhatsAppNumber: getEnv("CONTACT_WHATSAPP_NUMBER", "59898702414"),
			InstagramURL:   getEnv("CONTACT_INSTAGRAM_URL", "https://www.instagram.com/gmp.artesanias/"),
		},
		Admin: AdminSeedConfig{
			Email:    getEnv("ADMIN_EMAIL", ""),
			Password: getEnv("ADMIN_PASSWORD", ""),
			Name:     getEnv("ADMIN_NAME", "Administrador"),
		},
		Notifier: NotifierConfig{
			UnreadCountSpec: getEnv("UNREAD_COUNT_SCHEDULE", "@every 30s"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if config.Catalog.PriceLow >= config.Catalog.PriceHigh {
		return nil, fmt.Errorf("CATALOG_PRICE_LOW (%d) must be lower than CATALOG_PRICE_HIGH (%d)",
			config.Catalog.PriceLow, config.Catalog.PriceHigh)
	}

	return config, nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// Enabled reports whether a Redis server was configured.
func (c *RedisConfig) Enabled() bool {
	return c.Host != ""
}

func (c *RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Invalid duration %s, using default %s", s, fallback)
		return fallback
	}
	return duration
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		log.Printf("Invalid integer %s, using default %d", s, fallback)
		return fallback
	}
	return n
}

func parseSlice(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
