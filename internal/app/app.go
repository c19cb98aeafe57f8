package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/soldertec/site/internal/config"
	"github.com/soldertec/site/internal/database"
	"github.com/soldertec/site/internal/middleware"
	"github.com/soldertec/site/internal/pkg/blob"
	pkgcron "github.com/soldertec/site/internal/pkg/cron"
	"github.com/soldertec/site/internal/pkg/mail"
	pkgredis "github.com/soldertec/site/internal/pkg/redis"
)

// objectStore is what the image and catalog modules need from a bucket.
type objectStore interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (blob.Object, error)
	Delete(ctx context.Context, key string) error
	PresignGet(ctx context.Context, key string, ttl time.Duration, filename string) (string, error)
}

// Deps are the external resources the application runs on. DB and Mail
// are required; the rest switch features off when nil.
type Deps struct {
	DB       *gorm.DB
	Redis    *pkgredis.Client
	Mail     mail.Sender
	Images   objectStore
	Catalogs objectStore
}

// App holds all application dependencies.
type App struct {
	cfg         *config.AppConfig
	deps        Deps
	kv          middleware.KV
	cache       *middleware.HTTPCache
	router      *gin.Engine
	logger      *zap.Logger
	sched       *pkgcron.Scheduler
	maintenance atomic.Bool
	started     time.Time
	cancel      context.CancelFunc
}

// New connects config → DB → redis → blob storage → mail and builds the
// router on top of them.
func New(ctx context.Context, logger *zap.Logger, cfg *config.AppConfig) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	db, err := database.Connect(cfg, cfg.IsDev())
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	deps := Deps{DB: db}

	if cfg.Redis.URL != "" {
		rc, err := pkgredis.Connect(ctx, cfg.Redis.URL)
		if err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
		deps.Redis = rc
	} else {
		logger.Warn("redis is not configured; rate limiting is per process and the HTTP cache is off")
	}

	if cfg.StorageEnabled() {
		store, err := blob.NewS3Store(ctx, cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("storage: %w", err)
		}
		deps.Images = store
		deps.Catalogs = store.Bucket(cfg.Storage.CatalogBucket)
	} else {
		logger.Warn("blob storage is not configured; image upload and catalog download are unavailable")
	}

	deps.Mail, err = mail.New(cfg.Mail, logger)
	if err != nil {
		return nil, fmt.Errorf("mail: %w", err)
	}

	return Build(cfg, logger, deps), nil
}

// Build assembles the router and scheduler from ready dependencies.
func Build(cfg *config.AppConfig, logger *zap.Logger, deps Deps) *App {
	switch {
	case cfg.Env == config.EnvTest:
		gin.SetMode(gin.TestMode)
	case cfg.IsDev():
		gin.SetMode(gin.DebugMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	a := &App{
		cfg:     cfg,
		deps:    deps,
		logger:  logger,
		sched:   pkgcron.New(logger.Named("cron")),
		started: time.Now(),
	}
	if deps.Redis != nil {
		a.kv = deps.Redis
	}
	a.maintenance.Store(cfg.MaintenanceMode)

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID(), middleware.Logger(logger))
	router.Use(newCORS(cfg))
	a.router = router

	svc := a.buildServices()
	a.registerRoutes(svc)
	a.registerCronJobs(svc)
	return a
}

// Start launches the background jobs.
func (a *App) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.sched.Start(ctx)
}

// Addr returns the listen address.
func (a *App) Addr() string { return fmt.Sprintf(":%d", a.cfg.Port) }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }

// SetMaintenance switches maintenance mode at runtime.
func (a *App) SetMaintenance(on bool) { a.maintenance.Store(on) }

// Shutdown stops the jobs and releases connections.
func (a *App) Shutdown() {
	if a.cancel != nil {
		a.cancel()
		a.sched.Wait()
	}
	if a.deps.Redis != nil {
		if err := a.deps.Redis.Close(); err != nil {
			a.logger.Warn("close redis", zap.Error(err))
		}
	}
	if err := database.Close(a.deps.DB); err != nil {
		a.logger.Warn("close database", zap.Error(err))
	}
}
