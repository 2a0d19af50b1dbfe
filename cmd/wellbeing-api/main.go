package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/sma-wellbeing-api/api/swagger"
	"github.com/noah-isme/sma-wellbeing-api/internal/catalog"
	"github.com/noah-isme/sma-wellbeing-api/internal/handler"
	"github.com/noah-isme/sma-wellbeing-api/internal/middleware"
	"github.com/noah-isme/sma-wellbeing-api/internal/repository"
	"github.com/noah-isme/sma-wellbeing-api/internal/service"
	"github.com/noah-isme/sma-wellbeing-api/pkg/cache"
	"github.com/noah-isme/sma-wellbeing-api/pkg/config"
	"github.com/noah-isme/sma-wellbeing-api/pkg/database"
	"github.com/noah-isme/sma-wellbeing-api/pkg/jobs"
	"github.com/noah-isme/sma-wellbeing-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/sma-wellbeing-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sma-wellbeing-api/pkg/middleware/requestid"
	"github.com/noah-isme/sma-wellbeing-api/pkg/storage"
)

// @title SMA Wellbeing API
// @version 1.0.0
// @description Student wellbeing tracker: moods, screening, star rewards, counseling appointments and behavior reports.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

const exportCleanupInterval = time.Hour

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	cat, err := loadCatalog(cfg.Catalog.Path)
	if err != nil {
		logr.Fatal("failed to load catalog", zap.Error(err))
	}

	blobs, closeBlobs, err := openBlobStore(ctx, cfg)
	if err != nil {
		logr.Fatal("failed to open record store", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}
	defer closeBlobs()

	metricsSvc := service.NewMetricsService()
	store := repository.NewRecordStore(blobs, logr,
		repository.WithKeyPrefix(cfg.Store.KeyPrefix),
		repository.WithStoreObserver(metricsSvc),
	)
	validate := validator.New()

	sessionSvc := service.NewSessionService(store, validate, logr, service.SessionConfig{
		Secret: cfg.Session.Secret,
		TTL:    cfg.Session.TTL,
		Issuer: "sma-wellbeing-api",
	})
	userSvc := service.NewUserService(store, logr)
	moodSvc := service.NewMoodService(store, cat, logr)
	screeningSvc := service.NewScreeningService(store, cat, logr)
	rewardSvc := service.NewRewardService(store, cat, logr, service.WithRedemptionRecorder(metricsSvc))
	starSvc := service.NewStarService(store, validate, logr)
	appointmentSvc := service.NewAppointmentService(store, validate, logr)
	behaviorSvc := service.NewBehaviorService(store, validate, logr)
	dashboardSvc := service.NewDashboardService(store, cat, logr)

	handlers := handler.Handlers{
		Session:     handler.NewSessionHandler(sessionSvc, userSvc),
		Moods:       handler.NewMoodHandler(moodSvc, cat),
		Screening:   handler.NewScreeningHandler(screeningSvc),
		Rewards:     handler.NewRewardHandler(rewardSvc),
		Students:    handler.NewStudentHandler(userSvc, starSvc),
		Appointment: handler.NewAppointmentHandler(appointmentSvc),
		Behavior:    handler.NewBehaviorHandler(behaviorSvc),
		Dashboard:   handler.NewDashboardHandler(dashboardSvc),
	}

	if cfg.Exports.Enabled {
		files, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
		if err != nil {
			logr.Fatal("failed to prepare export storage", zap.Error(err))
		}
		signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
		exportSvc := service.NewExportService(store, files, signer, validate, service.ExportConfig{
			APIPrefix: cfg.APIPrefix,
			ResultTTL: 24 * time.Hour,
		}, logr)
		handlers.Exports = handler.NewExportHandler(exportSvc)

		cleanup := jobs.NewQueue("exports-cleanup", func(ctx context.Context, job jobs.Job) error {
			removed, err := exportSvc.Cleanup(0)
			if err != nil {
				return err
			}
			if len(removed) > 0 {
				logr.Info("expired exports removed", zap.Int("count", len(removed)))
			}
			return nil
		}, jobs.QueueConfig{MaxRetries: 2, RetryDelay: time.Minute, Logger: logr})
		cleanup.Start(ctx)
		defer cleanup.Stop()
		go cleanup.Every(ctx, exportCleanupInterval, "exports.cleanup")
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	metricsHandler := handler.NewMetricsHandler(metricsSvc, store)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	if cfg.Metrics.Enabled {
		r.GET("/metrics", metricsHandler.Prometheus)
		r.GET("/metrics/summary", metricsHandler.Summary)
	}
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterRoutes(r.Group(cfg.APIPrefix), handlers, sessionSvc)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "store", cfg.Store.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
	logr.Info("server stopped")
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	return catalog.LoadFile(path)
}

// openBlobStore returns the configured backend and a func releasing its connections.
func openBlobStore(ctx context.Context, cfg *config.Config) (repository.BlobStore, func(), error) {
	noop := func() {}
	switch cfg.Store.Driver {
	case config.StoreDriverMemory, "":
		return repository.NewMemoryBlobStore(), noop, nil
	case config.StoreDriverFile:
		files, err := storage.NewLocalStorage(cfg.Store.FileDir)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewFileBlobStore(files), noop, nil
	case config.StoreDriverBolt:
		blobs, err := repository.OpenBoltBlobStore(cfg.Store.BoltPath)
		if err != nil {
			return nil, nil, err
		}
		return blobs, closer(blobs), nil
	case config.StoreDriverPostgres:
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		blobs := repository.NewPostgresBlobStore(db)
		if err := blobs.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return blobs, closer(db), nil
	case config.StoreDriverRedis:
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewRedisBlobStore(client), closer(client), nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

func closer(c io.Closer) func() {
	return func() { _ = c.Close() }
}
