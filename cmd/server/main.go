package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"taxdecl/internal/config"
	"taxdecl/internal/extract"
	"taxdecl/internal/handler"
	"taxdecl/internal/lock"
	"taxdecl/internal/logging"
	"taxdecl/internal/port"
	"taxdecl/internal/repository/postgres"
	"taxdecl/internal/router"
	"taxdecl/internal/service"
	localstorage "taxdecl/internal/storage/local"
	s3storage "taxdecl/internal/storage/s3"
)

const shutdownTimeout = 30 * time.Second

// @title Tax Declaration Ingestion API
// @version 1.0
// @description Upload Form 103 and Form 104 declarations, decode their field codes and export the results.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer access token. Anonymous callers send X-Session-ID instead.
func main() {
	if err := run(); err != nil {
		logrus.WithError(err).Fatal("server exited")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.New(cfg.Log)
	handler.SetLogger(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	docRepo := postgres.NewDocumentRepo(db)
	recordRepo := postgres.NewRecordRepo(db)
	dupFinder := postgres.NewDuplicateFinderRepo(db)

	// Initialize storage
	storage, err := newStorage(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Owner locks: redis when configured, otherwise in process.
	var (
		locker port.OwnerLocker
		rdb    *redis.Client
	)
	if cfg.Redis.Addr != "" {
		rdb, err = lock.NewRedisClient(ctx, &cfg.Redis)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer rdb.Close()
		locker = lock.NewRedisLocker(rdb, &cfg.Redis, logger)
	} else {
		logger.Warn("redis.addr not set; owner locks are process-local")
		locker = lock.NewLocalLocker()
	}

	// Initialize services
	authSvc := service.NewAuthService(cfg.JWT)
	procSvc := service.NewProcessingService(docRepo, dupFinder, storage, extract.NewPDFExtractor(), locker, cfg, logger)
	docSvc := service.NewDocumentService(docRepo, recordRepo, storage, logger)

	// Initialize handlers
	uploadH := handler.NewUploadHandler(procSvc)
	docH := handler.NewDocumentHandler(docSvc, procSvc)
	var healthH *handler.HealthHandler
	if rdb != nil {
		healthH = handler.NewHealthHandler(db, rdb)
	} else {
		healthH = handler.NewHealthHandler(db, nil)
	}

	r := router.Setup(logger, cfg.CORS, authSvc, uploadH, docH, healthH)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithFields(logrus.Fields{
			"addr":        cfg.Server.Port,
			"environment": cfg.Server.Environment,
			"storage":     cfg.Storage.Provider,
		}).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

func newStorage(ctx context.Context, cfg *config.Config) (port.ObjectStorage, error) {
	switch cfg.Storage.Provider {
	case "s3":
		return s3storage.NewS3Client(ctx, &cfg.S3)
	default:
		return localstorage.NewDiskStorage(cfg.Storage.LocalDir)
	}
}
