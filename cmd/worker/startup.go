package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"vcard-backend/internal/shared/response"
	"vcard-backend/pkg/container"
)

// healthCheck là một dependency cần sẵn sàng trước khi nhận task
type healthCheck struct {
	name string
	fn   func(ctx context.Context) error
}

func startupChecks(c *container.Container) []healthCheck {
	return []healthCheck{
		{"Redis", c.Cache.Ping},
		{"PostgreSQL", c.DB.Ping},
		{"MinIO", c.Storage.HealthCheck},
	}
}

// runChecks chạy lần lượt, dừng ở check lỗi đầu tiên
func runChecks(ctx context.Context, checks []healthCheck) error {
	for _, check := range checks {
		checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := check.fn(checkCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("%s failed: %w", check.name, err)
		}
		log.Info().Str("check", check.name).Msg("ok")
	}
	return nil
}

// startHealthServer expose /health và /ready cho orchestrator
func startHealthServer(port string, checks []healthCheck) *http.Server {
	router := gin.New()
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, "UP", gin.H{"service": "vcard-worker"})
	})
	router.GET("/ready", func(c *gin.Context) {
		if err := runChecks(c.Request.Context(), checks); err != nil {
			response.Error(c, http.StatusServiceUnavailable, "NOT READY", err.Error())
			return
		}
		response.Success(c, http.StatusOK, "READY", nil)
	})

	srv := &http.Server{Addr: ":" + port, Handler: router, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Info().Str("port", port).Msg("health server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("health server failed")
		}
	}()
	return srv
}
