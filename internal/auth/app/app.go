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

	"github.com/grantd/grantd/internal/auth/directory"
	httpapi "github.com/grantd/grantd/internal/auth/http"
	"github.com/grantd/grantd/internal/auth/service"
	"github.com/grantd/grantd/internal/auth/store"
	"github.com/grantd/grantd/internal/auth/store/drivers/memory"
	"github.com/grantd/grantd/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the authorization server with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db        store.Store
	directory directory.Directory

	// Services
	authorizeService    *service.AuthorizeService
	tokenService        *service.TokenService
	resourceService     *service.ResourceService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "grantd",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initStore(); err != nil {
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	// Start housekeeping service
	app.housekeepingService.Start()

	app.logger.Info("grantd starting", "port", app.cfg.Port, "version", BuildVersion)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		// Perform graceful shutdown
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down grantd...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	// Shutdown the HTTP server
	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	// Stop the housekeeping service
	app.housekeepingService.Stop()

	// Close the store
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing store", "error", err)
		return err
	}

	app.logger.Info("grantd stopped")
	return nil
}

// initStore loads the seed population and builds the in-memory store and
// static user directory from it.
func (app *Application) initStore() error {
	seed, err := LoadSeed(app.cfg.SeedFile)
	if err != nil {
		return err
	}
	if app.cfg.SeedFile == "" {
		app.logger.Warn("no seed file configured, using built-in development seed")
	}

	dir, err := directory.NewStatic(seed.DirectoryUsers(), seed.Principal)
	if err != nil {
		return fmt.Errorf("building user directory: %w", err)
	}

	app.db = memory.NewStore(seed.DomainClients())
	app.directory = dir

	app.logger.Info("store seeded",
		"clients", len(seed.Clients),
		"users", len(seed.Users),
	)
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.authorizeService = &service.AuthorizeService{
		Store:     app.db,
		Directory: app.directory,
		CodeTTL:   app.cfg.CodeTTL,
	}

	app.tokenService = &service.TokenService{
		Store:     app.db,
		AccessTTL: app.cfg.AccessTTL,
	}

	app.resourceService = &service.ResourceService{
		Store:     app.db,
		Directory: app.directory,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(BuildVersion, app.db, app.logger)

	// Wire services to router
	router.AuthorizeService = app.authorizeService
	router.TokenService = app.tokenService
	router.ResourceService = app.resourceService
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
