package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	relayhttp "github.com/aussiebroadwan/cryptofeed/internal/relay/http"
	"github.com/aussiebroadwan/cryptofeed/internal/relay/service"
	"github.com/aussiebroadwan/cryptofeed/internal/relay/store"
	"github.com/aussiebroadwan/cryptofeed/internal/relay/store/drivers/sqlite"
	"github.com/aussiebroadwan/cryptofeed/pkg/cryptox"
	"github.com/aussiebroadwan/cryptofeed/pkg/feedsdk"
	"github.com/aussiebroadwan/cryptofeed/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application is the relay with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db store.Store

	userService         *service.UserService
	housekeepingService *service.HousekeepingService
	tenants             *service.TenantRegistry

	server *http.Server
	router *relayhttp.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "feed-relay",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	cryptox.SetPepperPath(cfg.PepperFile)
	if cfg.MasterKeyFile != "" {
		cryptox.SetMasterKeyPath(cfg.MasterKeyFile)
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}
	app.initServices()
	app.initHTTP()

	return app, nil
}

// Handler exposes the router, mainly for in-process tests.
func (app *Application) Handler() http.Handler { return app.router }

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.housekeepingService.Start()
	app.warmUp()

	app.logger.Info("relay starting", "port", app.cfg.Port, "server_url", app.cfg.ServerURL, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.housekeepingService.Stop()
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

// warmUp tries to authenticate the default tenant so the first request
// does not pay for it. Failure is only logged.
func (app *Application) warmUp() {
	if !app.tenants.Default().Session.Status().Configured {
		app.logger.Warn("no default client credentials configured; set them via POST /api/configure with X-Admin-Secret")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.UpstreamTimeout)
	defer cancel()

	if _, err := app.tenants.Default().Session.EnsureAuthenticated(ctx); err != nil {
		app.logger.Warn("could not authenticate with feed server at startup", "error", err)
		return
	}
	app.logger.Info("authenticated with feed server")
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down relay...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("relay stopped")
	return nil
}

func (app *Application) initDatabase() error {
	dsn := app.cfg.DatabaseFile
	if dsn != ":memory:" {
		if dir := filepath.Dir(dsn); dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		dsn = sqlite.DSN(dsn)
	}

	db, err := sqlite.NewStore(dsn)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "file", app.cfg.DatabaseFile)
	return nil
}

func (app *Application) initServices() {
	app.userService = &service.UserService{Store: app.db, SessionTTL: app.cfg.SessionTTL}
	app.housekeepingService = service.NewHousekeepingService(app.userService, app.logger, app.cfg.HousekeepingInterval)

	client := feedsdk.NewSDKClient(app.cfg.ServerURL)
	client.HTTPClient.Timeout = app.cfg.UpstreamTimeout
	client.AdminSecret = app.cfg.AdminSecret

	app.tenants = service.NewTenantRegistry(client, app.cfg.Credentials(), feedsdk.WithBuffer(app.cfg.TokenBuffer))

	if app.cfg.RelayAdminSecret == "" {
		app.logger.Warn("RELAY_ADMIN_SECRET not set, user registration and default identity changes are open")
	}
}

func (app *Application) initHTTP() {
	router := relayhttp.NewRouter(BuildVersion, app.cfg.RelayAdminSecret, app.cfg.SessionTTL, app.logger)
	router.Tenants = app.tenants
	router.UserService = app.userService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
