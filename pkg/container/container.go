package container

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	"vcard-backend/internal/config"
	"vcard-backend/internal/domains/auth"
	authHandler "vcard-backend/internal/domains/auth/handler"
	authRepo "vcard-backend/internal/domains/auth/repository"
	authService "vcard-backend/internal/domains/auth/service"
	cardHandler "vcard-backend/internal/domains/card/handler"
	cardService "vcard-backend/internal/domains/card/service"
	employeeHandler "vcard-backend/internal/domains/employee/handler"
	employeeRepo "vcard-backend/internal/domains/employee/repository"
	employeeService "vcard-backend/internal/domains/employee/service"
	infraCache "vcard-backend/internal/infrastructure/cache"
	"vcard-backend/internal/infrastructure/database"
	"vcard-backend/internal/infrastructure/queue"
	"vcard-backend/internal/infrastructure/storage"
	"vcard-backend/internal/shared/metrics"
	"vcard-backend/pkg/cache"
	"vcard-backend/pkg/jwt"
	"vcard-backend/web"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container chứa toàn bộ dependencies, dùng chung cho cmd/api và cmd/worker
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	Config      *config.Config
	DB          *database.PostgresDB
	Redis       *infraCache.RedisClient
	Cache       cache.Cache
	Storage     *storage.MinIOStorage
	Images      *storage.ImageProcessor
	AsynqClient *asynq.Client
	JWTManager  *jwt.Manager
	Registry    *prometheus.Registry
	Metrics     *metrics.Metrics

	// ========================================
	// REPOSITORY LAYER
	// ========================================
	EmployeeRepo employeeRepo.RepositoryInterface
	AdminRepo    auth.Repository

	// ========================================
	// SERVICE LAYER
	// ========================================
	EmployeeService employeeService.ServiceInterface
	AuthService     auth.Service
	CardRenderer    *cardService.Renderer
	CardExporter    *cardService.Exporter
	ExportJobs      *cardService.ExportJobs

	// ========================================
	// HANDLER LAYER
	// ========================================
	EmployeeHandler *employeeHandler.Handler
	AdminPages      *employeeHandler.PageHandler
	AuthHandler     *authHandler.AuthHandler
	CardHandler     *cardHandler.Handler
}

// NewContainer khởi tạo theo thứ tự:
// config -> infrastructure -> repositories -> services -> handlers
func NewContainer() (*Container, error) {
	log.Info().Msg("initializing DI container")

	c := &Container{}

	// ========================================
	// STEP 1: LOAD CONFIGURATION
	// ========================================
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Info().Str("env", cfg.App.Environment).Msg("config loaded")

	// ========================================
	// STEP 2: INFRASTRUCTURE
	// ========================================
	if err := c.initInfrastructure(); err != nil {
		c.Cleanup()
		return nil, err
	}

	// ========================================
	// STEP 3: REPOSITORIES
	// ========================================
	c.initRepositories()

	// ========================================
	// STEP 4: SERVICES
	// ========================================
	if err := c.initServices(); err != nil {
		c.Cleanup()
		return nil, fmt.Errorf("failed to init services: %w", err)
	}

	// ========================================
	// STEP 5: HANDLERS
	// ========================================
	c.initHandlers()

	log.Info().Msg("DI container initialized")
	return c, nil
}

func (c *Container) initInfrastructure() error {
	cfg := c.Config

	// Postgres
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db

	// Redis: lỗi kết nối không chặn startup, session gate sẽ ở trạng thái checking
	c.Redis = infraCache.NewRedisClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := c.Redis.Connect(ctx); err != nil {
		log.Warn().Err(err).Msg("redis connection failed (non-critical)")
	}
	c.Cache = infraCache.NewRedisCache(c.Redis.Client)

	// MinIO
	minioStorage, err := storage.NewMinIOStorage(cfg.MinIO)
	if err != nil {
		return fmt.Errorf("failed to init object storage: %w", err)
	}
	c.Storage = minioStorage
	c.Images = storage.NewImageProcessor()

	c.AsynqClient = queue.NewClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, time.Duration(cfg.JWT.SessionExpiry)*time.Hour)

	// Metrics dùng registry riêng, /metrics serve registry này
	c.Registry = prometheus.NewRegistry()
	c.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	c.Metrics = metrics.NewMetrics(c.Registry)

	log.Info().Msg("infrastructure ready")
	return nil
}

func (c *Container) initRepositories() {
	c.EmployeeRepo = employeeRepo.NewPostgresRepository(c.DB.Pool, c.Cache, c.Config.Card.CacheTTL, c.Metrics)
	c.AdminRepo = authRepo.NewPostgresRepository(c.DB.Pool)
}

func (c *Container) initServices() error {
	cfg := c.Config

	c.EmployeeService = employeeService.NewEmployeeService(
		c.EmployeeRepo,
		c.Storage,
		c.Images,
		employeeService.Options{
			DefaultCompany: cfg.Card.CompanyName,
			DefaultWebsite: cfg.Card.DefaultWebsite,
			MaxImportRows:  cfg.Import.MaxRows,
		},
		c.Metrics,
	)

	c.AuthService = authService.NewAuthService(c.AdminRepo, c.JWTManager, c.Cache)

	c.CardRenderer = cardService.NewRenderer(c.EmployeeRepo, cardService.RendererConfig{
		BaseURL:        cfg.App.BaseURL,
		Placeholder:    cfg.Card.PlaceholderPath,
		CompanyName:    cfg.Card.CompanyName,
		CompanyEmail:   cfg.Card.CompanyEmail,
		CompanyWebsite: cfg.Card.DefaultWebsite,
	})

	logo, err := web.Logo()
	if err != nil {
		return fmt.Errorf("load logo: %w", err)
	}
	rasterizer, err := cardService.NewRasterizer(logo, cfg.Card.PhotoTimeout)
	if err != nil {
		return fmt.Errorf("init rasterizer: %w", err)
	}
	c.CardExporter = cardService.NewExporter(rasterizer, c.Metrics)

	c.ExportJobs = cardService.NewExportJobs(
		c.EmployeeRepo,
		c.AsynqClient,
		c.Cache,
		cfg.Card.AutoExportDelay,
		cfg.Card.ExportTTL,
	)
	return nil
}

func (c *Container) initHandlers() {
	c.EmployeeHandler = employeeHandler.NewHandler(c.EmployeeService)
	c.AdminPages = employeeHandler.NewPageHandler(c.EmployeeService)
	c.AuthHandler = authHandler.NewAuthHandler(c.AuthService, authHandler.CookieOptions{
		Name:   c.Config.Session.CookieName,
		Secure: c.Config.Session.CookieSecure,
	})
	c.CardHandler = cardHandler.NewHandler(c.CardRenderer, c.CardExporter, c.ExportJobs, c.Config.Card.AutoExportDelay)
}

// Cleanup đóng connections, gọi khi shutdown
func (c *Container) Cleanup() {
	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close asynq client")
		}
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close database")
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close redis")
		}
	}
	log.Info().Msg("container cleanup completed")
}
