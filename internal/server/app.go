// Package server wires the auth service together: it opens the database,
// applies migrations, builds the services, and runs the HTTP and gRPC
// listeners plus the expired-token sweeper until shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/neatly/internal/dbx"
	"github.com/dmitrijs2005/neatly/internal/logging"
	"github.com/dmitrijs2005/neatly/internal/server/auth"
	"github.com/dmitrijs2005/neatly/internal/server/config"
	"github.com/dmitrijs2005/neatly/internal/server/ratelimit"
	"github.com/dmitrijs2005/neatly/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/neatly/internal/server/rest"
	"github.com/dmitrijs2005/neatly/internal/server/services"
	"github.com/redis/go-redis/v9"

	gs "github.com/dmitrijs2005/neatly/internal/server/grpc"
)

var (
	openDB         = dbx.Open
	newRepoManager = repomanager.NewPostgresRepositoryManager
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	redis       *redis.Client
	codec       *auth.TokenCodec
	authService *services.AuthService
	httpServer  *rest.Server
	grpcServer  *gs.GRPCServer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	codec, err := auth.NewTokenCodec(c.AccessTokenSecret, c.RefreshTokenSecret,
		c.AccessTokenValidityDuration, c.RefreshTokenValidityDuration, nil)
	if err != nil {
		return nil, fmt.Errorf("token codec init error: %w", err)
	}

	db, err := openDB(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := newRepoManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	app := &App{config: c, logger: logger, db: db, codec: codec}

	deps := rest.Deps{Codec: codec}

	var linker services.AvatarLinker
	if c.AvatarStorageEnabled() {
		avatars := services.NewAvatarService(db, rm, c)
		linker = avatars
		deps.Avatars = avatars
	} else {
		logger.Info(ctx, "avatar storage disabled")
	}

	if c.RedisAddr != "" {
		app.redis = redis.NewClient(&redis.Options{Addr: c.RedisAddr})
		limiter := ratelimit.New(app.redis, c.AuthRateLimit, c.AuthRateWindow)
		if err := limiter.Ping(ctx); err != nil {
			logger.Warn(ctx, "redis not reachable, requests pass until it is", "addr", c.RedisAddr, "error", err)
		}
		deps.Throttle = limiter
	}

	app.authService = services.NewAuthService(db, rm, codec, linker, logger)
	deps.Auth = app.authService

	app.httpServer = rest.NewServer(c, logger, deps)
	app.grpcServer = gs.NewGRPCServer(c.EndpointAddrGRPC, logger, codec, app.authService)

	return app, nil
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

type runner interface {
	Run(ctx context.Context) error
}

func (app *App) startServer(ctx context.Context, cancelFunc context.CancelFunc, name string, s runner) {
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, "server stopped with error", "server", name, "error", err)
		cancelFunc()
	}
}

type purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// runPurger removes expired refresh records every interval until ctx ends.
func runPurger(ctx context.Context, interval time.Duration, p purger, logger logging.Logger) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := p.PurgeExpired(ctx); err != nil {
				logger.Error(ctx, "purge failed", "error", err)
			}
		}
	}
}

// Run blocks until a termination signal arrives or a listener fails.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(3)
	go func() {
		defer wg.Done()
		app.startServer(ctx, cancelFunc, "http", app.httpServer)
	}()
	go func() {
		defer wg.Done()
		app.startServer(ctx, cancelFunc, "grpc", app.grpcServer)
	}()
	go func() {
		defer wg.Done()
		runPurger(ctx, app.config.PurgeInterval, app.authService, app.logger)
	}()

	wg.Wait()

	app.close(ctx)
}

func (app *App) close(ctx context.Context) {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error(ctx, "redis close error", "error", err)
		}
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
