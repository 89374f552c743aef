package main

import (
	"os"
	"strconv"

	"github.com/rs/zerolog/log"

	"vcard-backend/internal/config"
)

// Config là phần cấu hình riêng của worker, phần còn lại lấy từ container
type Config struct {
	Redis       config.RedisConfig
	Concurrency int
	HealthPort  string
}

func loadConfig(app *config.Config) *Config {
	cfg := &Config{
		Redis:       app.Redis,
		Concurrency: envInt("WORKER_CONCURRENCY", 5),
		HealthPort:  envString("WORKER_HEALTH_PORT", "9999"),
	}

	log.Info().
		Str("redis", cfg.Redis.Host).
		Int("concurrency", cfg.Concurrency).
		Msg("worker config loaded")

	return cfg
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}
