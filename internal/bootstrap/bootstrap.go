package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/sparx-api/internal/repository"
	"github.com/noah-isme/sparx-api/internal/scheduler"
	"github.com/noah-isme/sparx-api/internal/service"
	"github.com/noah-isme/sparx-api/pkg/cache"
	"github.com/noah-isme/sparx-api/pkg/calendar"
	"github.com/noah-isme/sparx-api/pkg/config"
	"github.com/noah-isme/sparx-api/pkg/database"
	"github.com/noah-isme/sparx-api/pkg/export"
)

const cachePrefix = "sparx"

// Container holds the wired services shared by the API server and the CLI.
type Container struct {
	DB          *sqlx.DB
	Redis       *redis.Client
	Metrics     *service.MetricsService
	Invalidator *service.CacheInvalidator
	Schedule    *service.ScheduleService
	Export      *service.ExportService
	Auth        *service.AuthService

	cacheRepo *repository.CacheRepository
	logger    *zap.Logger
}

// New connects to Postgres and (when enabled) Redis, then wires repositories and services.
// Start must be called before publishing so cache invalidation jobs are consumed.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Container, error) {
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	redisClient, err := cache.NewRedis(ctx, cfg.Redis, cfg.Cache)
	if err != nil {
		logger.Warn("redis unavailable, schedule cache disabled", zap.Error(err))
	}

	validate := validator.New()
	metrics := service.NewMetricsService()

	cacheRepo := repository.NewCacheRepository(redisClient, cachePrefix, logger)
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.TTL, logger, cfg.Cache.Enabled && redisClient != nil)
	invalidator := service.NewCacheInvalidator(cacheSvc, cfg.Cache.WorkerConcurrency, cfg.Cache.WorkerRetries, logger)

	batchRepo := repository.NewScheduleBatchRepository(db)
	scheduleSvc := service.NewScheduleService(
		batchRepo,
		repository.NewScheduleEntryRepository(db),
		repository.NewTeacherSubjectRepository(db),
		repository.NewRoomRepository(db),
		repository.NewPreferenceRepository(db),
		repository.NewStudentGroupRepository(db),
		db,
		cacheSvc,
		invalidator,
		metrics,
		validate,
		logger,
		service.ScheduleServiceConfig{
			DefaultWeights: scheduler.Weights{
				Preferences: cfg.Scheduler.WeightPreferences,
				TeacherGaps: cfg.Scheduler.WeightTeacherGaps,
				StudentGaps: cfg.Scheduler.WeightStudentGaps,
			},
		},
	)

	cal := calendar.New(map[string]time.Time{
		"WINTER": cfg.Semesters.WinterStart,
		"SUMMER": cfg.Semesters.SummerStart,
	})
	exportSvc := service.NewExportService(scheduleSvc, cal, logger, export.NewCSVExporter(), export.NewPDFExporter(), export.NewXLSXExporter())

	authSvc := service.NewAuthService(validate, logger, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})

	return &Container{
		DB:          db,
		Redis:       redisClient,
		Metrics:     metrics,
		Invalidator: invalidator,
		Schedule:    scheduleSvc,
		Export:      exportSvc,
		Auth:        authSvc,
		cacheRepo:   cacheRepo,
		logger:      logger,
	}, nil
}

// Start launches background workers.
func (c *Container) Start(ctx context.Context) {
	c.Invalidator.Start(ctx)
}

// Close drains the workers and releases connections.
func (c *Container) Close() {
	c.Invalidator.Stop()
	if err := c.cacheRepo.Close(); err != nil {
		c.logger.Warn("close redis", zap.Error(err))
	}
	if err := c.DB.Close(); err != nil {
		c.logger.Warn("close postgres", zap.Error(err))
	}
}

// RedisPinger adapts a redis client to a readiness check.
type RedisPinger struct {
	Client *redis.Client
}

// PingContext pings redis.
func (p RedisPinger) PingContext(ctx context.Context) error {
	return p.Client.Ping(ctx).Err()
}
