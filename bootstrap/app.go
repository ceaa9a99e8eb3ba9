// Package bootstrap assembles the service: configuration, logging,
// database, stores, services and the HTTP server, in that order.
package bootstrap

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/skillsenselab/identity/auth"
	"github.com/skillsenselab/identity/auth/jwt"
	"github.com/skillsenselab/identity/auth/password"
	"github.com/skillsenselab/identity/authz"
	"github.com/skillsenselab/identity/config"
	"github.com/skillsenselab/identity/database"
	"github.com/skillsenselab/identity/handler"
	"github.com/skillsenselab/identity/logger"
	"github.com/skillsenselab/identity/mail"
	"github.com/skillsenselab/identity/server"
	"github.com/skillsenselab/identity/store"
	"github.com/skillsenselab/identity/version"
)

// App holds the assembled service.
type App struct {
	cfg    *config.Config
	log    *logger.Logger
	db     *database.DB
	server *server.Server
}

// New builds the application from configuration.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	logger.Init(cfg.Logging, cfg.Name)
	log := logger.GetGlobalLogger()
	log.Info("starting", map[string]interface{}{
		logger.FieldService: cfg.Name,
		"version":           version.Get().Version,
		"environment":       cfg.Environment,
	})

	db, err := database.New(ctx, cfg.Database, log)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(db); err != nil {
		return nil, err
	}

	stores := store.New(db)
	hasher := password.NewHasher(cfg.Auth.Password)
	if err := SeedSuperadmin(ctx, stores.Users, hasher, cfg.Seed, log); err != nil {
		return nil, err
	}

	tokens, err := jwt.NewService(cfg.Auth.JWT)
	if err != nil {
		return nil, err
	}
	mailer := mail.NewLogMailer(log)
	authService := auth.NewService(stores.Users, hasher, tokens, log)
	authService.SetNotifier(mailer)
	checker := authz.NewChecker(stores.Users)

	srv := server.New(cfg.Server, log, cfg.Debug)
	handler.Register(srv.Engine(), handler.Deps{
		Auth:    authService,
		Checker: checker,
		Stores:  stores,
		Hasher:  hasher,
		Mailer:  mailer,
		Pinger:  db,
		PerPage: cfg.PerPage,
	})

	return &App{cfg: cfg, log: log, db: db, server: srv}, nil
}

// Run serves until the context is canceled or a termination signal
// arrives, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	if err := a.server.Shutdown(context.Background()); err != nil {
		a.log.WithError(err).Warn("shutdown incomplete")
	}
	if err := a.db.Close(); err != nil {
		a.log.WithError(err).Warn("database close failed")
	}
	a.log.Info("stopped")
	return nil
}
