package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-console/internal/backend"
	"github.com/noah-isme/campus-console/internal/handler"
	"github.com/noah-isme/campus-console/internal/repository"
	"github.com/noah-isme/campus-console/internal/service"
	"github.com/noah-isme/campus-console/internal/session"
	"github.com/noah-isme/campus-console/internal/state"
	"github.com/noah-isme/campus-console/internal/view"
	"github.com/noah-isme/campus-console/pkg/apiclient"
	"github.com/noah-isme/campus-console/pkg/cache"
	"github.com/noah-isme/campus-console/pkg/config"
	"github.com/noah-isme/campus-console/pkg/database"
	"github.com/noah-isme/campus-console/pkg/export"
	"github.com/noah-isme/campus-console/pkg/logger"
)

// @title Campus Console Gateway
// @version 1.0.0
// @description Session-scoped dashboard views over the institution REST backend
// @BasePath /
// @schemes http

const (
	sessionIssuer  = "campus-console"
	sweepInterval  = 5 * time.Minute
	shutdownWindow = 15 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if err := run(cfg, logr); err != nil {
		logr.Fatal("gateway stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logr *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
		if cfg.Session.Secret == "dev_session_secret" {
			return errors.New("SESSION_SECRET must be set in production")
		}
	}

	metrics := service.NewMetricsService()
	api := apiclient.New(apiclient.Options{
		BaseURL:  cfg.Backend.BaseURL,
		Timeout:  cfg.Backend.Timeout,
		Logger:   logr.Named("backend"),
		Observer: metrics,
	})
	institution := backend.New(api)

	var checks []handler.ReadinessCheck

	var store session.Store
	if cfg.Session.Store == config.SessionStoreRedis {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("session store: %w", err)
		}
		defer func(c *redis.Client) { _ = c.Close() }(client)
		store = session.NewRedisStore(client, logr)
		checks = append(checks, handler.ReadinessCheck{Name: "redis", Probe: cache.Probe(client)})
	} else {
		store = session.NewMemoryStore()
	}
	signer := session.NewSigner(cfg.Session.Secret, sessionIssuer, cfg.Session.TTL)

	var auditor *service.AuditService
	if cfg.Audit.Enabled {
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("audit database: %w", err)
		}
		defer db.Close() //nolint:errcheck
		if err := database.EnsureAuditSchema(ctx, db); err != nil {
			return err
		}
		auditor = service.NewAuditService(repository.NewAuditRepository(db), service.AuditConfig{
			Workers:    cfg.Audit.Workers,
			Retries:    cfg.Audit.Retries,
			RetryDelay: time.Second,
		}, logr.Named("audit"))
		auditor.Start(ctx)
		defer auditor.Stop()
		checks = append(checks, handler.ReadinessCheck{Name: "postgres", Probe: database.Probe(db)})
	}

	validate := state.NewValidator()
	workspaces := service.NewWorkspaceService(view.Deps{
		Backend:   institution,
		Auditor:   auditor,
		Observer:  metrics,
		Validator: validate,
		Logger:    logr.Named("view"),
	}, logr)
	go workspaces.RunSweeper(ctx, sweepInterval, cfg.Session.TTL)

	auth := service.NewAuthService(institution, store, signer, workspaces, auditor, validate, logr)
	exporter := service.NewExportService(export.NewCSVExporter(), export.NewPDFExporter(), logr)

	r := newRouter(cfg, logr, routerDeps{
		metrics:    metrics,
		store:      store,
		signer:     signer,
		auditor:    auditor,
		auth:       auth,
		workspaces: workspaces,
		exporter:   exporter,
		checks:     checks,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env), zap.String("backend", cfg.Backend.BaseURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownWindow)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
