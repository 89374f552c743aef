package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"vcard-backend/internal/shared/middleware"
	"vcard-backend/internal/shared/response"
	"vcard-backend/pkg/container"
	"vcard-backend/web"
)

func SetupRouter(c *container.Container) (*gin.Engine, error) {
	// JSON body có field lạ bị reject (strict record schema)
	binding.EnableDecoderDisallowUnknownFields = true

	router := gin.New()
	// gin mặc định tin mọi proxy; chỉ đọc X-Forwarded-For từ proxy được cấu hình
	if err := router.SetTrustedProxies(c.Config.App.TrustedProxies); err != nil {
		return nil, err
	}

	tmpl, err := web.LoadTemplates()
	if err != nil {
		return nil, err
	}
	router.SetHTMLTemplate(tmpl)

	// Global middlewares
	router.Use(
		middleware.RequestID(),
		middleware.ClientIPMiddleware(),
		middleware.Logger(),
		middleware.Recovery(),
		middleware.Metrics(c.Metrics),
	)

	router.StaticFS("/static", http.FS(web.Static()))
	router.GET("/", func(ctx *gin.Context) {
		ctx.Redirect(http.StatusFound, "/admin/dashboard")
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(c.Registry, promhttp.HandlerOpts{})))

	loginLimiter := middleware.NewIPRateLimiter(rate.Limit(c.Config.Session.LoginRate), c.Config.Session.LoginBurst)

	setupCardRoutes(router, c)
	setupAdminPageRoutes(router, c, loginLimiter)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupPublicAPIRoutes(v1, c)
		setupAuthRoutes(v1, c, loginLimiter)
		setupAdminAPIRoutes(v1, c)
	}

	return router, nil
}

func gateOptions(c *container.Container, api bool) middleware.GateOptions {
	return middleware.GateOptions{
		CookieName: c.Config.Session.CookieName,
		Timeout:    c.Config.Session.CheckTimeout,
		LoginPath:  "/admin/login",
		API:        api,
	}
}

// ========================================
// PUBLIC CARD ROUTES (HTML + downloads)
// ========================================
func setupCardRoutes(router *gin.Engine, c *container.Container) {
	card := router.Group("/vcard")
	{
		card.GET("/:email", c.CardHandler.ShowCard)
		card.GET("/:email/card.png", c.CardHandler.DownloadPNG)
		card.GET("/:email/contact.vcf", c.CardHandler.DownloadContact)
	}
}

// ========================================
// ADMIN CONSOLE (HTML)
// ========================================
func setupAdminPageRoutes(router *gin.Engine, c *container.Container, limiter *middleware.IPRateLimiter) {
	router.GET("/admin/login", c.AuthHandler.LoginPage)
	router.POST("/admin/login", middleware.RateLimitByIP(limiter, true), c.AuthHandler.LoginSubmit)
	router.POST("/admin/logout", c.AuthHandler.Logout)

	admin := router.Group("/admin")
	admin.Use(middleware.SessionGate(c.AuthService, gateOptions(c, false)))
	{
		admin.GET("", func(ctx *gin.Context) { ctx.Redirect(http.StatusFound, "/admin/dashboard") })
		admin.GET("/dashboard", c.AdminPages.Dashboard)
		admin.GET("/create", c.AdminPages.NewForm)
		admin.POST("/create", c.AdminPages.Create)
		admin.GET("/edit/:id", c.AdminPages.EditForm)
		admin.POST("/edit/:id", c.AdminPages.Update)
		admin.GET("/edit/:id/delete", c.AdminPages.DeleteConfirm)
		admin.POST("/edit/:id/delete", c.AdminPages.Delete)
		admin.GET("/bulk", c.AdminPages.BulkForm)
		admin.POST("/bulk", c.AdminPages.BulkUpload)
	}
}

// ========================================
// PUBLIC API
// ========================================
func setupPublicAPIRoutes(v1 *gin.RouterGroup, c *container.Container) {
	vcard := v1.Group("/vcard")
	vcard.Use(middleware.CORS())
	{
		vcard.GET("/:email", c.CardHandler.GetCard)
		vcard.OPTIONS("/:email", func(*gin.Context) {}) // preflight, CORS() trả 204
	}
}

// ========================================
// AUTH API
// ========================================
func setupAuthRoutes(v1 *gin.RouterGroup, c *container.Container, limiter *middleware.IPRateLimiter) {
	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/login", middleware.RateLimitByIP(limiter, false), c.AuthHandler.APILogin)
		authGroup.POST("/logout", c.AuthHandler.APILogout)
	}
}

// ========================================
// ADMIN API
// ========================================
func setupAdminAPIRoutes(v1 *gin.RouterGroup, c *container.Container) {
	admin := v1.Group("/admin")
	admin.Use(middleware.SessionGate(c.AuthService, gateOptions(c, true)))
	{
		admin.GET("/me", c.AuthHandler.Me)

		employees := admin.Group("/employees")
		{
			employees.GET("", c.EmployeeHandler.ListEmployees)
			employees.POST("", c.EmployeeHandler.CreateEmployee)
			employees.GET("/search", c.EmployeeHandler.FindEmployees)
			employees.GET("/export.xlsx", c.EmployeeHandler.ExportEmployees)
			employees.POST("/import", c.EmployeeHandler.ImportEmployees)
			employees.GET("/:id", c.EmployeeHandler.GetEmployee)
			employees.PUT("/:id", c.EmployeeHandler.UpdateEmployee)
			employees.DELETE("/:id", c.EmployeeHandler.DeleteEmployee)
			employees.POST("/:id/export", c.CardHandler.ScheduleExport)
			employees.GET("/:id/export", c.CardHandler.ExportStatus)
		}

		admin.POST("/uploads/photo", c.EmployeeHandler.UploadPhoto)
	}
}

// ========================================
// HEALTH
// ========================================
func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
		defer cancel()

		status := gin.H{"database": "up", "redis": "up", "storage": "up"}
		healthy := true

		if err := c.DB.Ping(checkCtx); err != nil {
			status["database"] = err.Error()
			healthy = false
		}
		if err := c.Cache.Ping(checkCtx); err != nil {
			status["redis"] = err.Error()
			healthy = false
		}
		if err := c.Storage.HealthCheck(checkCtx); err != nil {
			status["storage"] = err.Error()
			healthy = false
		}

		status["version"] = c.Config.App.Version
		if !healthy {
			response.Error(ctx, http.StatusServiceUnavailable, "Service degraded", status)
			return
		}
		response.Success(ctx, http.StatusOK, "Service healthy", status)
	}
}
