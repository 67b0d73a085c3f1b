package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/campus-console/api/swagger"
	"github.com/noah-isme/campus-console/internal/handler"
	"github.com/noah-isme/campus-console/internal/middleware"
	"github.com/noah-isme/campus-console/internal/models"
	"github.com/noah-isme/campus-console/internal/service"
	"github.com/noah-isme/campus-console/internal/session"
	"github.com/noah-isme/campus-console/pkg/config"
	"github.com/noah-isme/campus-console/pkg/logger"
	corsmiddleware "github.com/noah-isme/campus-console/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/campus-console/pkg/middleware/requestid"
)

type routerDeps struct {
	metrics    *service.MetricsService
	store      session.Store
	signer     *session.Signer
	auditor    *service.AuditService
	auth       *service.AuthService
	workspaces *service.WorkspaceService
	exporter   *service.ExportService
	checks     []handler.ReadinessCheck
}

func newRouter(cfg *config.Config, logr *zap.Logger, d routerDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr, "/health", "/ready", "/metrics"))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(d.metrics))
	r.Use(middleware.AuditOrigin())
	r.Use(middleware.Session(d.store, d.signer, cfg.Session.CookieName, d.metrics, logr))

	metricsHandler := handler.NewMetricsHandler(d.metrics, d.checks...)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	authHandler := handler.NewAuthHandler(d.auth, handler.CookieOptions{
		Name:   cfg.Session.CookieName,
		Secure: cfg.Session.Secure,
		MaxAge: d.signer.TTL(),
	})
	r.GET("/", authHandler.Landing)
	r.POST("/login", authHandler.Login)
	r.POST("/logout", middleware.Audit(d.auditor, models.AuditActionLogout, "auth"), authHandler.Logout)

	dashboards := handler.NewDashboardHandler(d.workspaces)

	student := r.Group("/student", middleware.RequireRole(models.RoleStudent))
	student.GET("/dashboard", dashboards.Student)

	admin := r.Group("/admin", middleware.RequireRole(models.RoleAdmin))
	admin.GET("/dashboard", dashboards.Admin)

	mountManagement(admin.Group("/students"), handler.NewStudentHandler(d.workspaces))
	mountManagement(admin.Group("/courses"), handler.NewCourseHandler(d.workspaces))

	reports := handler.NewReportHandler(d.workspaces, d.exporter)
	admin.GET("/reports", reports.Show)
	admin.GET("/reports/export", middleware.Audit(d.auditor, models.AuditActionReportExport, "report"), reports.Export)

	admin.POST("/views/:view/close", handler.NewViewHandler(d.workspaces).Close)
	admin.GET("/audit", handler.NewAuditHandler(d.auditor).Recent)

	return r
}

func mountManagement(g *gin.RouterGroup, h *handler.ManagementHandler) {
	g.GET("", h.List)
	g.POST("/refresh", h.Refresh)
	g.POST("/dialogs/:dialog/open", h.OpenDialog)
	g.PATCH("/dialogs/:dialog", h.PatchDialog)
	g.POST("/dialogs/:dialog/submit", h.SubmitDialog)
	g.POST("/dialogs/:dialog/cancel", h.CancelDialog)
}
