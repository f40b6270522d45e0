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

	"github.com/truenorthhq/truenorth/internal/access/billing"
	httpapi "github.com/truenorthhq/truenorth/internal/access/http"
	"github.com/truenorthhq/truenorth/internal/access/service"
	"github.com/truenorthhq/truenorth/internal/access/store"
	"github.com/truenorthhq/truenorth/internal/access/store/drivers/sqlite"
	"github.com/truenorthhq/truenorth/pkg/cryptox"
	"github.com/truenorthhq/truenorth/pkg/jwtx"
	"github.com/truenorthhq/truenorth/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application encapsulates the access service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db         store.Store
	keyManager *jwtx.KeyManager

	// Services
	sessionService      *service.SessionService
	registrationService *service.RegistrationService
	entitlementService  *service.EntitlementService
	userService         *service.UserService
	passwordService     *service.PasswordService
	mfaService          *service.MFAService
	bootstrapService    *service.BootstrapService
	keyRotationService  *service.KeyRotationService
	housekeepingService *service.HousekeepingService

	// Billing integration
	billingResolver *billing.Resolver
	billingWebhook  *billing.Webhook

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "access-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	// Pepper file feeds password hashing for every service below.
	cryptox.SetPepperPath(app.cfg.PepperFile)

	// Database first; persistent keys live in it.
	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	ctx := context.Background()
	keyManager, err := InitSigningKeys(ctx, app.cfg, app.db, app.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize signing keys: %w", err)
	}
	app.keyManager = keyManager

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("access service starting", "port", app.cfg.Port, "version", BuildVersion)

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

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down access service...")

	// Give outstanding requests a deadline for completion
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

	app.logger.Info("access service stopped")
	return nil
}

// initDatabase opens the SQLite store and applies migrations.
func (app *Application) initDatabase() error {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(dsn)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initServices initializes all business logic services.
func (app *Application) initServices() {
	app.sessionService = &service.SessionService{
		KeyManager: app.keyManager,
		Store:      app.db,
		Issuer:     app.cfg.Issuer,
		AccessTTL:  jwtx.DefaultAccessTokenTTL,
		RefreshTTL: jwtx.DefaultRefreshTokenTTL,
	}

	// The provider client is always constructed. Organizations without a
	// billing customer ref never reach it, and a misconfigured URL degrades
	// to cached-plan answers rather than failure.
	app.billingResolver = &billing.Resolver{
		Store:    app.db,
		Provider: billing.NewHTTPProvider(app.cfg.BillingAPIURL, app.cfg.BillingAPIKey),
	}

	app.entitlementService = &service.EntitlementService{
		Store:    app.db,
		Resolver: app.billingResolver,
	}

	app.registrationService = &service.RegistrationService{
		Store:        app.db,
		Entitlements: app.entitlementService,
	}

	app.billingWebhook = &billing.Webhook{
		Store:         app.db,
		Registrations: app.registrationService,
		Secret:        app.cfg.BillingWebhookSecret,
	}
	if app.cfg.BillingWebhookSecret == "" {
		app.logger.Warn("BILLING_WEBHOOK_SECRET is not set; all webhook deliveries will be rejected")
	}

	app.userService = &service.UserService{Store: app.db}
	app.passwordService = &service.PasswordService{Store: app.db}
	app.mfaService = &service.MFAService{
		Store:  app.db,
		Issuer: app.cfg.Issuer,
	}
	app.bootstrapService = &service.BootstrapService{
		Store: app.db,
		Token: app.cfg.BootstrapToken,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)

	if app.cfg.KeyStorageMode == "persistent" {
		app.keyRotationService = &service.KeyRotationService{
			Store:       app.db,
			KeyManager:  app.keyManager,
			GracePeriod: app.cfg.KeyGracePeriod,
		}
		app.logger.Info("key rotation service enabled (persistent mode)")
	} else {
		// Ephemeral mode still allows runtime rotation, just no persistence.
		app.keyRotationService = &service.KeyRotationService{
			Store:      nil,
			KeyManager: app.keyManager,
		}
		app.logger.Info("key rotation service enabled (ephemeral mode)")
	}
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.keyManager.KeySet,
		BuildVersion,
		app.db,
		app.logger,
	)

	router.SessionService = app.sessionService
	router.RegistrationService = app.registrationService
	router.EntitlementService = app.entitlementService
	router.UserService = app.userService
	router.PasswordService = app.passwordService
	router.MFAService = app.mfaService
	router.BootstrapService = app.bootstrapService
	router.KeyRotationService = app.keyRotationService
	router.BillingWebhook = app.billingWebhook
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
