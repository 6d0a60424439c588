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
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/sparx-api/api/swagger"
	"github.com/noah-isme/sparx-api/internal/bootstrap"
	"github.com/noah-isme/sparx-api/internal/handler"
	internalmiddleware "github.com/noah-isme/sparx-api/internal/middleware"
	"github.com/noah-isme/sparx-api/pkg/config"
	"github.com/noah-isme/sparx-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/sparx-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sparx-api/pkg/middleware/requestid"
)

// @title Sparx Timetable API
// @version 1.0.0
// @description Semester timetable generation, draft review and publishing.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg, "api-gateway")
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, logr)
	if err != nil {
		logr.Fatal("failed to wire services", zap.Error(err))
	}
	app.Start(ctx)
	defer app.Close()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(app.Metrics, "/metrics", "/health", "/ready"))

	checks := map[string]handler.Pinger{"postgres": app.DB}
	if app.Redis != nil {
		checks["redis"] = bootstrap.RedisPinger{Client: app.Redis}
	}

	handler.Routes{
		APIPrefix: cfg.APIPrefix,
		Auth:      app.Auth,
		Schedule:  handler.NewScheduleHandler(app.Schedule, app.Export),
		Metrics:   handler.NewMetricsHandler(app.Metrics, checks),
	}.Register(r)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Error("server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
