package main

import (
	"context"
	"database/sql"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Jonniie/memoirly/internal/api"
	"github.com/Jonniie/memoirly/internal/assets"
	"github.com/Jonniie/memoirly/internal/classifier"
	"github.com/Jonniie/memoirly/internal/config"
	"github.com/Jonniie/memoirly/internal/health"
	"github.com/Jonniie/memoirly/internal/identity"
	"github.com/Jonniie/memoirly/internal/platform/logger"
	"github.com/Jonniie/memoirly/internal/rotator"
	"github.com/Jonniie/memoirly/internal/services"
	"github.com/Jonniie/memoirly/internal/store"
	"github.com/Jonniie/memoirly/internal/store/postgres"
	"github.com/Jonniie/memoirly/internal/store/sqlite"
)

func main() {
	// Optional db-driver flag override (postgres | sqlite)
	dbDriver := flag.String("db-driver", "", "Override MEMOIRLY_DB_DRIVER (postgres, sqlite)")
	flag.Parse()

	log := logger.New("memoirly-service")

	cfg, err := config.New()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if *dbDriver != "" {
		cfg.DBDriver = *dbDriver
		if err := cfg.ResolveDefaults(); err != nil {
			log.Fatal().Err(err).Msg("Invalid db-driver override")
		}
	}

	log.Info().
		Str("db_driver", cfg.DBDriver).
		Int("http_port", cfg.HTTPPort).
		Msg("Memoirly service starting…")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// -------- Storage layer -----------------
	var db *sql.DB
	var st store.Store
	switch cfg.DBDriver {
	case "postgres":
		db, err = postgres.Bootstrap(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("Postgres unavailable")
		}
		st = postgres.NewWithDB(db)
	case "sqlite":
		db, err = sqlite.Bootstrap(ctx, cfg.SQLitePath)
		if err != nil {
			log.Fatal().Err(err).Msg("SQLite unavailable")
		}
		st = sqlite.NewWithDB(db)
	default:
		log.Fatal().Str("db_driver", cfg.DBDriver).Msg("Unknown database driver")
	}
	defer func() { _ = db.Close() }()

	// -------- Health monitor ---------------
	storeCheck := store.NewStoreHealthChecker(st, log, 5*time.Second)
	go storeCheck.Start(ctx, 30*time.Second)
	checkers := []health.HealthChecker{storeCheck}

	// -------- Services ---------------------
	rot := rotator.New(time.Duration(cfg.CoverIntervalMs)*time.Millisecond, log)
	defer rot.StopAll()

	mediaSvc := services.NewMediaService(st)
	albumSvc := services.NewAlbumService(st, rot)

	var uploadSvc *services.UploadService
	if cfg.AssetHostURL != "" {
		uploader := assets.NewUploader(cfg.AssetHostURL, cfg.AssetUploadKey, cfg.AssetFolderName)
		uploadSvc = services.NewUploadService(mediaSvc, uploader, cfg.MaxBatchFiles, log)
		assetCheck := health.NewPingChecker("assets", uploader, log, 5*time.Second)
		go assetCheck.Start(ctx, 30*time.Second)
		checkers = append(checkers, assetCheck)
	} else {
		log.Warn().Msg("No asset host configured; batch upload disabled")
	}

	serviceHealth := health.NewServiceHealthChecker(log, checkers...)
	go serviceHealth.Start(ctx, 10*time.Second)

	var cls classifier.Classifier
	if cfg.ClassifierURL != "" {
		cls = classifier.New(cfg.ClassifierURL)
	}
	tagSvc := services.NewTagSuggester(cls, log)

	provider := identity.NewStaticProvider(cfg.DevTokens)
	if cfg.DevTokens == "" {
		log.Warn().Msg("No tokens configured; every authenticated route will reject")
	}

	// -------- Router & Server --------------
	router := api.NewRouter(api.Deps{
		Media:     mediaSvc,
		Albums:    albumSvc,
		Uploads:   uploadSvc,
		Tags:      tagSvc,
		Identity:  provider,
		IsHealthy: serviceHealth.IsHealthy,
		Log:       log,
	})
	server := &http.Server{
		Addr:         cfg.GetHTTPAddr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server…")
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}
