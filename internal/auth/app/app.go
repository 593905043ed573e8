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

	httpapi "github.com/strataboard/strata/internal/auth/http"
	"github.com/strataboard/strata/internal/auth/service"
	"github.com/strataboard/strata/internal/auth/store"
	"github.com/strataboard/strata/internal/auth/store/drivers/sqlite"
	"github.com/strataboard/strata/pkg/cryptox"
	"github.com/strataboard/strata/pkg/slogx"
	"github.com/strataboard/strata/pkg/tokenx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the strata auth service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	db    store.Store
	codec tokenx.Codec

	loginService        *service.LoginService
	userService         *service.UserService
	communityService    *service.CommunityService
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "strata-auth",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	// Set pepper path for password hashing
	cryptox.SetPepperPath(app.cfg.PepperFile)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	codec, err := app.buildCodec()
	if err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.codec = codec

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("strata auth service starting", "port", app.cfg.Port, "version", BuildVersion)

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

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down strata auth service...")

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

	app.logger.Info("strata auth service stopped")
	return nil
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
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

// buildCodec selects the identity token codec. Validation has already
// rejected the dangerous combinations, so the only gap left is a signed
// codec with no configured secret outside prod; that gets an ephemeral
// secret, which invalidates all tokens on restart.
func (app *Application) buildCodec() (tokenx.Codec, error) {
	if app.cfg.TokenCodec == CodecPlain {
		app.logger.Warn("using unsigned plain token codec; dev only")
		return tokenx.NewPlain(), nil
	}

	secret := app.cfg.TokenSecret
	if secret == "" {
		generated, err := cryptox.GenerateToken(cryptox.TokenSize256)
		if err != nil {
			return nil, fmt.Errorf("failed to generate ephemeral token secret: %w", err)
		}
		secret = generated
		app.logger.Warn("STRATA_TOKEN_SECRET not set; using ephemeral secret, tokens will not survive restart")
	}

	return tokenx.NewSigned([]byte(secret)), nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	tokens := &service.SecurityTokenService{Store: app.db}

	app.loginService = &service.LoginService{
		Store:    app.db,
		Codec:    app.codec,
		TokenTTL: app.cfg.TokenTTL,
	}

	app.userService = &service.UserService{
		Store:      app.db,
		Tokens:     tokens,
		Mailer:     service.LogMailer{},
		ConfirmTTL: app.cfg.ConfirmTokenTTL,
		ResetTTL:   app.cfg.ResetTokenTTL,
	}

	app.communityService = &service.CommunityService{Store: app.db}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.codec,
		BuildVersion,
		app.db,
		app.logger,
	)

	router.LoginService = app.loginService
	router.UserService = app.userService
	router.CommunityService = app.communityService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
