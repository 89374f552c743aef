package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Config được populate từ environment variables (xem Load)
type Config struct {
	App     AppConfig
	Redis   RedisConfig
	JWT     JWTConfig
	MinIO   MinIOConfig
	Card    CardConfig
	Import  ImportConfig
	Session SessionConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
	BaseURL     string // public origin used to build shareable card links
	// IP/CIDR của reverse proxy được tin X-Forwarded-For, rỗng là không tin ai
	TrustedProxies []string
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret        string
	SessionExpiry int // hours
}

type MinIOConfig struct {
	Endpoint  string // localhost:9000
	AccessKey string // minioadmin
	SecretKey string // minioadmin
	Bucket    string // vcards
	UseSSL    bool   // false for local
}

// CardConfig chứa branding và các tham số render card
type CardConfig struct {
	CompanyName     string
	CompanyEmail    string
	DefaultWebsite  string
	PlaceholderPath string        // served under /static, also used as photo fallback
	AutoExportDelay time.Duration // delay before the deferred PNG export
	CacheTTL        time.Duration // TTL for cached email lookups
	ExportTTL       time.Duration // how long an exported PNG URL stays in redis
	PhotoTimeout    time.Duration // HTTP timeout for fetching a photo during rasterization
}

type ImportConfig struct {
	MaxRows int
}

type SessionConfig struct {
	CookieName   string
	CookieSecure bool
	CheckTimeout time.Duration
	LoginRate    float64 // login attempts per second per IP
	LoginBurst   int
}

// Load đọc config từ environment variables
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:           getEnv("APP_NAME", "VCard Manager"),
			Environment:    getEnv("APP_ENV", "development"),
			Port:           getEnv("APP_PORT", "8080"),
			Version:        getEnv("APP_VERSION", "1.0.0"),
			BaseURL:        strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),
			TrustedProxies: getEnvList("TRUSTED_PROXIES"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:        getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
			SessionExpiry: getEnvInt("JWT_SESSION_EXPIRY", 12), // 12 hours
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
			Bucket:    getEnv("MINIO_BUCKET", "vcards"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Card: CardConfig{
			CompanyName:     getEnv("DEFAULT_COMPANY_NAME", "SELCO Solar Light Pvt Ltd"),
			CompanyEmail:    getEnv("COMPANY_EMAIL", "selco@selco-india.com"),
			DefaultWebsite:  getEnv("DEFAULT_COMPANY_WEBSITE", "www.selco-india.com"),
			PlaceholderPath: getEnv("CARD_PLACEHOLDER_PATH", "/static/logo.png"),
			AutoExportDelay: getEnvDuration("CARD_AUTO_EXPORT_DELAY", 1500*time.Millisecond),
			CacheTTL:        getEnvDuration("CARD_CACHE_TTL", 10*time.Minute),
			ExportTTL:       getEnvDuration("CARD_EXPORT_TTL", 24*time.Hour),
			PhotoTimeout:    getEnvDuration("CARD_PHOTO_TIMEOUT", 10*time.Second),
		},
		Import: ImportConfig{
			MaxRows: getEnvInt("IMPORT_MAX_ROWS", 1000),
		},
		Session: SessionConfig{
			CookieName:   getEnv("SESSION_COOKIE_NAME", "vcard_session"),
			CookieSecure: getEnvBool("SESSION_COOKIE_SECURE", false),
			CheckTimeout: getEnvDuration("SESSION_CHECK_TIMEOUT", 3*time.Second),
			LoginRate:    getEnvFloat("LOGIN_RATE_PER_SECOND", 0.2), // 1 attempt / 5s
			LoginBurst:   getEnvInt("LOGIN_RATE_BURST", 5),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate kiểm tra config có hợp lệ không
func (c *Config) Validate() error {
	if c.App.BaseURL == "" {
		return fmt.Errorf("PUBLIC_BASE_URL must not be empty")
	}
	for _, proxy := range c.App.TrustedProxies {
		if net.ParseIP(proxy) == nil {
			if _, _, err := net.ParseCIDR(proxy); err != nil {
				return fmt.Errorf("TRUSTED_PROXIES: %q is not an IP or CIDR", proxy)
			}
		}
	}
	if c.Import.MaxRows <= 0 {
		return fmt.Errorf("IMPORT_MAX_ROWS must be positive")
	}

	if c.App.Environment == "production" {
		if c.JWT.Secret == "your-secret-key-change-in-production" {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if !c.Session.CookieSecure {
			log.Warn().Msg("SESSION_COOKIE_SECURE is false in production")
		}
	}

	return nil
}

// IsProduction trả về true khi chạy ở môi trường production
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// ========================================
// ENV HELPERS
// ========================================

// getEnv: biến rỗng coi như chưa set
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvList tách list phân cách bằng dấu phẩy, nil khi không có phần tử
func getEnvList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// envOr parse biến môi trường, giá trị không parse được thì dùng default
func envOr[T any](key string, defaultValue T, parse func(string) (T, error)) T {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	value, err := parse(raw)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	return envOr(key, defaultValue, strconv.Atoi)
}

func getEnvBool(key string, defaultValue bool) bool {
	return envOr(key, defaultValue, strconv.ParseBool)
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	return envOr(key, defaultValue, time.ParseDuration)
}

func getEnvFloat(key string, defaultValue float64) float64 {
	return envOr(key, defaultValue, func(s string) (float64, error) {
		return strconv.ParseFloat(s, 64)
	})
}
