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

	"github.com/pixelbay/photoshare/internal/auth/cache"
	httpapi "github.com/pixelbay/photoshare/internal/auth/http"
	"github.com/pixelbay/photoshare/internal/auth/mail"
	"github.com/pixelbay/photoshare/internal/auth/service"
	"github.com/pixelbay/photoshare/internal/auth/store"
	"github.com/pixelbay/photoshare/internal/auth/store/drivers/sqlite"
	"github.com/pixelbay/photoshare/pkg/cryptox"
	"github.com/pixelbay/photoshare/pkg/jwtx"
	"github.com/pixelbay/photoshare/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the auth service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db       store.Store
	denylist cache.Denylist
	mailer   mail.Mailer
	issuer   *jwtx.Issuer

	// Services
	authService  *service.AuthService
	adminService *service.AdminService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "photoshare-auth",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	// Set pepper path for password hashing
	cryptox.SetPepperPath(app.cfg.PepperFile)

	if err := app.initSigning(); err != nil {
		return nil, err
	}
	if err := app.initDatabase(); err != nil {
		return nil, err
	}
	if err := app.initDenylist(); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.initMailer()
	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.logger.Info("auth service starting", "port", app.cfg.Port, "version", BuildVersion)

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

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down auth service...")

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

	// Close the redis connection if there is one
	if c, ok := app.denylist.(interface{ Close() error }); ok {
		if err := c.Close(); err != nil {
			app.logger.Error("error closing denylist", "error", err)
		}
	}

	// Close database connection
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("auth service stopped")
	return nil
}

// initSigning sets up the shared-secret token issuer. Prod refuses to start
// without an explicit secret; dev generates a throwaway one so tokens die
// with the process.
func (app *Application) initSigning() error {
	secret := app.cfg.JWTSecret
	if secret == "" {
		if app.cfg.Env == "prod" {
			return errors.New("AUTH_JWT_SECRET must be set in prod")
		}
		secret = cryptox.MustGenerateToken(cryptox.TokenSize256)
		app.logger.Warn("AUTH_JWT_SECRET not set, generated ephemeral secret; tokens will not survive restarts")
	}

	codec, err := jwtx.NewCodec([]byte(secret), app.cfg.Issuer)
	if err != nil {
		return fmt.Errorf("failed to initialize token codec: %w", err)
	}

	app.issuer = jwtx.NewIssuer(codec, jwtx.IssuerConfig{
		AccessTTL:  app.cfg.AccessTTL,
		RefreshTTL: app.cfg.RefreshTTL,
		ResetTTL:   app.cfg.ResetTTL,
	})
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

// initDenylist connects the shared revocation store. Without a redis address
// the in-memory denylist is used, which only works single-process.
func (app *Application) initDenylist() error {
	if app.cfg.RedisAddr == "" {
		if app.cfg.Env == "prod" {
			app.logger.Warn("REDIS_ADDR not set, revocations are process-local")
		}
		app.denylist = cache.NewMemoryDenylist()
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	denylist, err := cache.NewRedisDenylist(ctx, cache.RedisConfig{
		Addr:     app.cfg.RedisAddr,
		Password: app.cfg.RedisPassword,
		DB:       app.cfg.RedisDB,
	})
	if err != nil {
		return fmt.Errorf("failed to connect denylist redis: %w", err)
	}

	app.denylist = denylist
	app.logger.Info("denylist connected", "addr", app.cfg.RedisAddr)
	return nil
}

// initMailer picks mailgun when configured, otherwise the log-only mailer.
func (app *Application) initMailer() {
	mailer, err := mail.NewMailgunMailer(mail.MailgunConfig{
		Domain: app.cfg.MailgunDomain,
		APIKey: app.cfg.MailgunAPIKey,
		From:   app.cfg.MailFrom,
	})
	if err != nil {
		app.logger.Warn("mailgun not configured, reset tokens go to the log")
		app.mailer = mail.NewLogMailer()
		return
	}
	app.mailer = mailer
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.authService = &service.AuthService{
		Issuer:   app.issuer,
		Store:    app.db,
		Denylist: app.denylist,
		Mailer:   app.mailer,
	}
	app.adminService = &service.AdminService{Store: app.db}
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		BuildVersion,
		app.db,
		app.denylist,
		app.logger,
	)

	// Wire services to router
	router.AuthService = app.authService
	router.AdminService = app.adminService
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
