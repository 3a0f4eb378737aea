// Package server initializes and runs the main application server.
// It opens the database, runs migrations, loads the signing key material,
// wires services, and starts the HTTP server with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dsmirnov/authkeeper/internal/logging"
	"github.com/dsmirnov/authkeeper/internal/server/auth"
	"github.com/dsmirnov/authkeeper/internal/server/config"
	"github.com/dsmirnov/authkeeper/internal/server/repositories/repomanager"
	"github.com/dsmirnov/authkeeper/internal/server/services"
	"github.com/dsmirnov/authkeeper/internal/server/web"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	web    *web.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewJSON(os.Stdout)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	repos := repomanager.NewPostgresRepositoryManager()
	if err := repos.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	keys, err := auth.LoadKeys(cfg.PrivateKeyPath, cfg.RefreshTokenSecret)
	if err != nil {
		return nil, fmt.Errorf("key init error: %w", err)
	}

	hasher := auth.NewCredentialHasher(cfg.BcryptCost)
	tokens := auth.NewTokenManager(keys, cfg.Issuer, cfg.AccessTokenValidityDuration, cfg.RefreshTokenValidityDuration)

	authService := services.NewAuthService(db, repos, hasher, tokens, cfg, logger)
	userService := services.NewUserService(db, repos, hasher, logger)
	tenantService := services.NewTenantService(db, repos, logger)

	webServer := web.NewServer(cfg, logger, tokens, authService, userService, tenantService)

	return &App{config: cfg, logger: logger, db: db, web: webServer}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.web.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "error closing db", "error", err)
	}
}
