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

	"github.com/meridian-realty/dashboard-api/docs"
	"github.com/meridian-realty/dashboard-api/internal/auth"
	"github.com/meridian-realty/dashboard-api/internal/config"
	"github.com/meridian-realty/dashboard-api/internal/database"
	"github.com/meridian-realty/dashboard-api/internal/http/handler"
	"github.com/meridian-realty/dashboard-api/internal/http/middleware"
	"github.com/meridian-realty/dashboard-api/internal/http/router"
	"github.com/meridian-realty/dashboard-api/internal/jobs"
	"github.com/meridian-realty/dashboard-api/internal/logger"
	"github.com/meridian-realty/dashboard-api/internal/repository"
	"github.com/meridian-realty/dashboard-api/internal/service"
	"github.com/meridian-realty/dashboard-api/internal/storage"
	"go.uber.org/zap"
)

// @title Meridian Dashboard API
// @version 1.0
// @description Agency records and decision-support analytics for the real estate dashboard

// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
// @description API key for system integrations
// @Security BearerAuth
// @Security ApiKeyAuth

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Basic configuration first, for logging setup
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	if basicCfg.App.Environment == "development" || basicCfg.App.Environment == "" {
		docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)
	}

	// In staging/production secrets may come from Azure Key Vault
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if cfg.Database.Driver == database.DriverSQLite {
		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("failed to migrate sqlite schema: %w", err)
		}
	}
	log.Info("Database connected", zap.String("dialect", db.Dialector.Name()))

	// Snapshots are optional; the API runs without an archive
	var archive storage.Archive
	if cfg.Storage.Mode != "" {
		archive, err = storage.NewArchive(&cfg.Storage, log)
		if err != nil {
			log.Warn("Snapshot archive unavailable, continuing without it", zap.Error(err))
		} else {
			log.Info("Snapshot archive initialized", zap.String("mode", cfg.Storage.Mode))
		}
	}

	// Repositories
	agencyRepo := repository.NewAgencyRepository(db)
	leadRepo := repository.NewLeadRepository(db)
	propertyRepo := repository.NewPropertyRepository(db)
	viewingRepo := repository.NewViewingRepository(db)
	journeyRepo := repository.NewJourneyRepository(db)
	transitionRepo := repository.NewStageTransitionRepository(db)
	negotiationRepo := repository.NewNegotiationRepository(db)
	contractRepo := repository.NewContractRepository(db)

	// Services
	agencyService := service.NewAgencyService(agencyRepo, log)
	leadService := service.NewLeadService(leadRepo, propertyRepo, log)
	viewingService := service.NewViewingService(viewingRepo, leadRepo, propertyRepo, log)
	journeyService := service.NewJourneyService(journeyRepo, transitionRepo, leadRepo, propertyRepo, log)
	dealRecordService := service.NewDealRecordService(negotiationRepo, contractRepo, journeyRepo, log)
	analyticsService := service.NewAnalyticsService(viewingRepo, negotiationRepo, contractRepo, journeyRepo, &cfg.Analytics, log)

	rt := router.NewRouter(
		cfg,
		log,
		db,
		auth.NewMiddleware(&cfg.Auth, log),
		middleware.NewAgencyFilterMiddleware(log),
		middleware.NewRateLimiter(&cfg.RateLimit, log),
		router.Handlers{
			Auth:       handler.NewAuthHandler(),
			Agency:     handler.NewAgencyHandler(agencyService, log),
			Lead:       handler.NewLeadHandler(leadService, log),
			Viewing:    handler.NewViewingHandler(viewingService, log),
			Journey:    handler.NewJourneyHandler(journeyService, log),
			DealRecord: handler.NewDealRecordHandler(dealRecordService, log),
			Analytics:  handler.NewAnalyticsHandler(analyticsService, log),
		},
	)

	var scheduler *jobs.Scheduler
	if cfg.Jobs.Enabled {
		scheduler = jobs.NewScheduler(log)
		err := jobs.RegisterJobs(scheduler, &cfg.Jobs, jobs.Dependencies{
			Stalls:    analyticsService,
			Marker:    journeyRepo,
			Overviews: analyticsService,
			Agencies:  agencyRepo,
			Archive:   archive,
		}, log)
		if err != nil {
			return fmt.Errorf("failed to register jobs: %w", err)
		}
		scheduler.Start()
	} else {
		log.Info("Background jobs disabled")
	}

	var h http.Handler = rt.Setup()
	if timeout := cfg.Server.RequestTimeoutDuration(); timeout > 0 {
		h = http.TimeoutHandler(h, timeout, "request timed out")
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      h,
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		if scheduler != nil {
			<-scheduler.Stop().Done()
			log.Info("Scheduler stopped")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
		log.Info("Server stopped gracefully")
	}

	return nil
}
