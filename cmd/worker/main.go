package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"vcard-backend/pkg/container"
	"vcard-backend/pkg/logger"
)

func main() {
	_ = godotenv.Load()
	logger.Init(os.Getenv("APP_ENV"))
	gin.SetMode(gin.ReleaseMode)

	c, err := container.NewContainer()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize container")
	}
	defer c.Cleanup()

	cfg := loadConfig(c.Config)

	checks := startupChecks(c)
	if err := runChecks(context.Background(), checks); err != nil {
		log.Fatal().Err(err).Msg("startup health check failed")
	}

	srv := setupAsynqServer(cfg, c)
	health := startHealthServer(cfg.HealthPort, checks)

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("gracefully stopping worker")
	srv.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := health.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("health server shutdown")
	}
	log.Info().Msg("worker stopped")
}
