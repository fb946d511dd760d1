package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dalalsunil1986/portfoliomgr/internal/auth"
	authhandlers "github.com/dalalsunil1986/portfoliomgr/internal/auth/handlers"
	"github.com/dalalsunil1986/portfoliomgr/internal/clientdata"
	"github.com/dalalsunil1986/portfoliomgr/internal/clients/alphavantage"
	"github.com/dalalsunil1986/portfoliomgr/internal/clients/hkex"
	"github.com/dalalsunil1986/portfoliomgr/internal/clients/nasdaq"
	"github.com/dalalsunil1986/portfoliomgr/internal/clients/xetra"
	"github.com/dalalsunil1986/portfoliomgr/internal/comparison"
	"github.com/dalalsunil1986/portfoliomgr/internal/config"
	"github.com/dalalsunil1986/portfoliomgr/internal/database"
	"github.com/dalalsunil1986/portfoliomgr/internal/modules/analytics"
	"github.com/dalalsunil1986/portfoliomgr/internal/modules/benchmarks"
	"github.com/dalalsunil1986/portfoliomgr/internal/modules/currency"
	currencyhandlers "github.com/dalalsunil1986/portfoliomgr/internal/modules/currency/handlers"
	"github.com/dalalsunil1986/portfoliomgr/internal/modules/portfolio"
	portfoliohandlers "github.com/dalalsunil1986/portfoliomgr/internal/modules/portfolio/handlers"
	"github.com/dalalsunil1986/portfoliomgr/internal/modules/quotes"
	quotehandlers "github.com/dalalsunil1986/portfoliomgr/internal/modules/quotes/handlers"
	"github.com/dalalsunil1986/portfoliomgr/internal/modules/symbols"
	symbolhandlers "github.com/dalalsunil1986/portfoliomgr/internal/modules/symbols/handlers"
	"github.com/dalalsunil1986/portfoliomgr/internal/scheduler"
	"github.com/dalalsunil1986/portfoliomgr/internal/server"
	"github.com/dalalsunil1986/portfoliomgr/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		// Logger is not up yet; write directly.
		panic(err)
	}

	// Initialize logger
	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})

	log.Info().Msg("Starting portfolio manager")

	// Initialize databases: main store plus a cache store for client payloads
	db, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "portfolio.db"),
		Profile: database.ProfileStandard,
		Name:    "portfolio",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	cacheDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "clientdata.db"),
		Profile: database.ProfileCache,
		Name:    "clientdata",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize cache database")
	}
	defer cacheDB.Close()

	if err := cacheDB.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate cache database")
	}

	// External clients
	cacheRepo := clientdata.NewRepository(cacheDB.Conn())
	avClient := alphavantage.NewClient(cfg.AlphavantageAPIKey, cacheRepo, log)
	nasdaqClient := nasdaq.NewClient(log)
	hkexClient := hkex.NewClient(log)
	xetraClient := xetra.NewClient(log)

	// Repositories
	symbolRepo := symbols.NewRepository(db.Conn(), log)
	quoteRepo := quotes.NewRepository(db.Conn(), log)
	rateRepo := currency.NewRepository(db.Conn(), log)
	portfolioRepo := portfolio.NewRepository(db.Conn(), log)
	userStore := auth.NewUserStore(db.Conn(), log)

	// Services
	registry := benchmarks.Default()
	quoteHub := quotes.NewHub(log)
	quoteImporter := quotes.NewImportService(quoteRepo, avClient, quoteHub, log)
	symbolImporter := symbols.NewImportService(symbolRepo, nasdaqClient, hkexClient, xetraClient, registry, quoteImporter, log)
	fxImporter := currency.NewImportService(rateRepo, avClient, symbolRepo, log)
	portfolioService := portfolio.NewService(portfolioRepo, symbolRepo, log)
	comparisonService := comparison.NewService(quoteRepo, rateRepo, portfolioRepo, symbolRepo, registry, log)
	analyticsService := analytics.NewService(log)

	// Auth
	tokenService := auth.NewTokenService(cfg.JWTSecret, time.Duration(cfg.TokenTTLMinutes)*time.Minute)
	authMiddleware := auth.NewMiddleware(tokenService, cfg.DevMode)

	// Scheduler and background jobs
	sched := scheduler.New(log)
	symbolImportJob := scheduler.NewSymbolImportJob(symbolImporter, log)
	quoteUpdateJob := scheduler.NewQuoteUpdateJob(symbolRepo, quoteImporter, fxImporter, log)
	cacheCleanupJob := scheduler.NewCacheCleanupJob(cacheRepo, log)

	if err := sched.AddJob(cfg.SymbolImportCron, symbolImportJob); err != nil {
		log.Fatal().Err(err).Msg("Failed to register symbol import job")
	}
	if err := sched.AddJob(cfg.QuoteImportCron, quoteUpdateJob); err != nil {
		log.Fatal().Err(err).Msg("Failed to register quote update job")
	}
	if err := sched.AddJob("@hourly", cacheCleanupJob); err != nil {
		log.Fatal().Err(err).Msg("Failed to register cache cleanup job")
	}
	sched.Start()
	defer sched.Stop()

	// System handlers
	systemHandlers := server.NewSystemHandlers(log, db, sched)
	systemHandlers.SetJobs(symbolImportJob, quoteUpdateJob, cacheCleanupJob)

	// Initialize HTTP server
	srv := server.New(server.Config{
		Port:           cfg.Port,
		Log:            log,
		DB:             db,
		Config:         cfg,
		DevMode:        cfg.DevMode,
		AuthMiddleware: authMiddleware,
		Public: []server.RouteRegistrar{
			authhandlers.NewHandler(userStore, tokenService, log),
		},
		Protected: []server.RouteRegistrar{
			symbolhandlers.NewHandler(symbolRepo, symbolImporter, log),
			quotehandlers.NewHandler(quoteRepo, quoteImporter, symbolRepo, quoteHub, log),
			currencyhandlers.NewHandler(rateRepo, fxImporter, log),
			portfoliohandlers.NewHandler(portfolioService, comparisonService, analyticsService, quoteRepo, log),
		},
		System: systemHandlers,
	})

	// Start server in goroutine
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
