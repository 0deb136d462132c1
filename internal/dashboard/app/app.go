package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/batterydash/internal/dashboard/http"
	"github.com/aussiebroadwan/batterydash/internal/dashboard/service"
	"github.com/aussiebroadwan/batterydash/internal/dashboard/store"
	"github.com/aussiebroadwan/batterydash/internal/dashboard/store/drivers/sqlite"
	"github.com/aussiebroadwan/batterydash/pkg/cryptox"
	"github.com/aussiebroadwan/batterydash/pkg/httpx"
	"github.com/aussiebroadwan/batterydash/pkg/iwellsdk"
	"github.com/aussiebroadwan/batterydash/pkg/jwtx"
	"github.com/aussiebroadwan/batterydash/pkg/slogx"
)

// BuildVersion is overridden at build time via -ldflags.
var BuildVersion = "v0.1.0"

// Application wires the dashboard API together.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db       store.Store
	signer   *jwtx.HS256Signer
	verifier *jwtx.HS256Verifier

	accountService *service.AccountService
	batteryService *service.BatteryService

	server *http.Server
	router *httpapi.Router
}

// New validates cfg and initialises every dependency.
func New(cfg Config) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "batterydash",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initServices(); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Handler exposes the fully wired HTTP handler.
func (app *Application) Handler() http.Handler { return app.router }

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.logger.Info("battery dashboard starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
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

// Shutdown drains in-flight requests then closes the database.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down battery dashboard...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("battery dashboard stopped")
	return nil
}

func (app *Application) initDatabase() error {
	dsn := app.cfg.DatabaseFile
	if dsn != ":memory:" {
		dsn = sqlite.FileDSN(dsn)
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

	app.logger.Info("database migrations applied successfully")
	return nil
}

func (app *Application) initServices() error {
	key := []byte(app.cfg.JWTKey)

	signer, err := jwtx.NewSignerHS256(key)
	if err != nil {
		return fmt.Errorf("failed to initialize token signer: %w", err)
	}
	app.signer = signer
	app.verifier = jwtx.NewVerifierHS256(key, jwtx.VerifyOptions{
		Issuer:   app.cfg.JWTIssuer,
		Audience: app.cfg.JWTAudience,
	})

	var pepper string
	if app.cfg.PepperFile != "" {
		pepper, err = cryptox.LoadOrCreatePepper(app.cfg.PepperFile)
		if err != nil {
			return fmt.Errorf("failed to load pepper: %w", err)
		}
	}

	app.accountService = &service.AccountService{
		Store:  app.db,
		Hasher: cryptox.NewPasswordHasher(pepper),
		Tokens: &service.TokenService{
			Signer:   app.signer,
			Issuer:   app.cfg.JWTIssuer,
			Audience: app.cfg.JWTAudience,
			TTL:      service.TokenTTL,
		},
	}

	upstream := iwellsdk.NewClient(app.cfg.IWellAPIURL, app.cfg.IWellAPIKey)
	upstream.HTTPClient.Timeout = app.cfg.IWellTimeout
	app.batteryService = &service.BatteryService{API: upstream}

	return nil
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.verifier,
		BuildVersion,
		app.db,
		app.cfg.CORSOrigins,
		app.logger,
	)

	router.AccountService = app.accountService
	router.BatteryService = app.batteryService
	router.AuthLimit = app.cfg.AuthLimit
	router.BatteryLimit = app.cfg.BatteryLimit
	router.ClientIP = httpx.ClientIPVia(app.cfg.TrustedProxies)
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
