package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/hostpool/internal/hostpool/http"
	"github.com/aussiebroadwan/hostpool/internal/hostpool/provider"
	"github.com/aussiebroadwan/hostpool/internal/hostpool/service"
	"github.com/aussiebroadwan/hostpool/internal/hostpool/store"
	"github.com/aussiebroadwan/hostpool/internal/hostpool/store/drivers/postgres"
	"github.com/aussiebroadwan/hostpool/internal/hostpool/store/drivers/sqlite"
	"github.com/aussiebroadwan/hostpool/pkg/cryptox"
	"github.com/aussiebroadwan/hostpool/pkg/jwtx"
	"github.com/aussiebroadwan/hostpool/pkg/slogx"
)

const (
	// BuildVersion is overridden at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application wires the hostpool service together.
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db       store.Store
	secrets  *cryptox.SecretBox
	provider provider.Client

	keys     *jwtx.KeySet
	verifier jwtx.Verifier
	fetcher  *jwtx.JWKSFetcher // nil when keys come from a file

	// Services
	ledgerService       *service.LedgerService
	redemptionService   *service.RedemptionService
	provisioningService *service.ProvisioningService
	removalService      *service.RemovalService
	sweepService        *service.SweepService
	cardService         *service.CardService
	domainService       *service.DomainService
	userService         *service.UserService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "hostpool",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}
	if err := app.initSecrets(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	keys, verifier, fetcher, err := InitVerifier(context.Background(), app.cfg, app.logger)
	if err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to initialize token verification: %w", err)
	}
	app.keys, app.verifier, app.fetcher = keys, verifier, fetcher

	app.provider = provider.NewCloudflare(app.cfg.ProviderURL, app.cfg.ProviderTimeout)

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.sweepService.Start()
	if app.fetcher != nil {
		app.fetcher.Start()
	}

	app.logger.Info("hostpool starting", "port", app.cfg.Port, "version", BuildVersion, "driver", app.cfg.DatabaseDriver)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// SweepOnce runs one reconciliation pass without serving HTTP, then closes
// the database.
func (app *Application) SweepOnce(ctx context.Context) (service.SweepReport, error) {
	defer func() {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database", "error", err)
		}
	}()

	report, err := app.sweepService.RunOnce(ctx)
	if err != nil {
		return report, fmt.Errorf("sweep failed: %w", err)
	}
	return report, nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down hostpool...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	// The sweep may be mid-teardown; Stop waits for it.
	app.sweepService.Stop()
	if app.fetcher != nil {
		app.fetcher.Stop()
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("hostpool stopped")
	return nil
}

// initDatabase opens the configured driver and applies migrations
func (app *Application) initDatabase() error {
	var (
		db  store.Store
		err error
	)
	switch app.cfg.DatabaseDriver {
	case "postgres":
		db, err = postgres.NewStore(app.cfg.DatabaseURL)
	default:
		db, err = sqlite.NewStore("file:" + app.cfg.DatabaseFile)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "driver", app.cfg.DatabaseDriver)
	return nil
}

func (app *Application) initSecrets() error {
	material, ephemeral, err := cryptox.LoadKeyMaterial(app.cfg.MasterKeyFile, app.cfg.MasterKey)
	if err != nil {
		return err
	}
	if ephemeral {
		app.logger.Warn("no master key configured; provider credentials sealed now become unreadable after a restart")
	}

	box, err := cryptox.NewSecretBox(material)
	if err != nil {
		return fmt.Errorf("failed to initialize secret box: %w", err)
	}
	app.secrets = box
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.ledgerService = &service.LedgerService{Store: app.db}
	app.redemptionService = &service.RedemptionService{
		Store:  app.db,
		Ledger: app.ledgerService,
	}
	app.provisioningService = &service.ProvisioningService{
		Store:    app.db,
		Provider: app.provider,
		Secrets:  app.secrets,
		Ledger:   app.ledgerService,
	}
	app.removalService = &service.RemovalService{
		Store:        app.db,
		Provisioning: app.provisioningService,
	}
	app.cardService = &service.CardService{
		Store: app.db,
		TTL:   app.cfg.CardTTL,
	}
	app.domainService = &service.DomainService{
		Store:        app.db,
		Secrets:      app.secrets,
		Provisioning: app.provisioningService,
	}
	app.userService = &service.UserService{Store: app.db}

	app.sweepService = service.NewSweepService(
		app.db,
		app.provisioningService,
		app.ledgerService,
		app.logger,
		app.cfg.SweepInterval,
	)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.keys,
		app.verifier,
		BuildVersion,
		app.db,
		app.logger,
	)

	router.LedgerService = app.ledgerService
	router.RedemptionService = app.redemptionService
	router.ProvisioningService = app.provisioningService
	router.RemovalService = app.removalService
	router.SweepService = app.sweepService
	router.CardService = app.cardService
	router.DomainService = app.domainService
	router.UserService = app.userService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
