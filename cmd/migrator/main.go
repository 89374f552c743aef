package main

import (
	"context"
	"database/sql"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq" // PostgreSQL driver cho goose
	"github.com/pressly/goose"
	"github.com/rs/zerolog/log"

	"vcard-backend/internal/config"
	authRepo "vcard-backend/internal/domains/auth/repository"
	authService "vcard-backend/internal/domains/auth/service"
	"vcard-backend/internal/infrastructure/database"
	"vcard-backend/pkg/logger"
)

// migrator chạy goose migrations rồi seed admin từ ADMIN_EMAIL / ADMIN_PASSWORD
//
//	go run ./cmd/migrator -dir migrations up
//	go run ./cmd/migrator status
func main() {
	dir := flag.String("dir", "migrations", "directory with goose SQL migrations")
	flag.Parse()

	_ = godotenv.Load()
	logger.Init(os.Getenv("APP_ENV"))

	command := "up"
	if flag.NArg() > 0 {
		command = flag.Arg(0)
	}

	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid database config")
	}

	db, err := sql.Open("postgres", dbConfig.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatal().Err(err).Msg("failed to set goose dialect")
	}
	if err := goose.Run(command, db, *dir, flag.Args()[min(1, flag.NArg()):]...); err != nil {
		log.Fatal().Err(err).Str("command", command).Msg("migration failed")
	}
	log.Info().Str("command", command).Msg("migrations applied")

	if command == "up" {
		seedAdmin(dbConfig)
	}
}

func seedAdmin(dbConfig *database.DBConfig) {
	email, password := os.Getenv("ADMIN_EMAIL"), os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Info().Msg("ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin seed")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pg := database.NewPostgresDB(dbConfig)
	if err := pg.Connect(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to connect for admin seed")
	}
	defer pg.Close()

	// SeedAdmin không dùng jwt/cache
	svc := authService.NewAuthService(authRepo.NewPostgresRepository(pg.Pool), nil, nil)
	admin, err := svc.SeedAdmin(ctx, email, password)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to seed admin")
	}
	log.Info().Str("email", admin.Email).Msg("admin seeded")
}
