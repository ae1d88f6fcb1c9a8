// Command api serves the VetPharmacy inventory REST API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/vetpharmacy/inventory-api/internal/api"
	"github.com/vetpharmacy/inventory-api/internal/api/handler"
	"github.com/vetpharmacy/inventory-api/internal/core/service"
	"github.com/vetpharmacy/inventory-api/internal/infrastructure/auth"
	"github.com/vetpharmacy/inventory-api/internal/infrastructure/db"
	redisdb "github.com/vetpharmacy/inventory-api/internal/infrastructure/db/redis"
	"github.com/vetpharmacy/inventory-api/internal/infrastructure/queue"
	"github.com/vetpharmacy/inventory-api/internal/pkg/config"
	"github.com/vetpharmacy/inventory-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

// @title                       VetPharmacy Inventory API
// @version                     1.0
// @description                 Inventory of a veterinary pharmacy: categories, products and staff accounts.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the token from /auth/login.
func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "vetpharmacy-api",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	store, err := db.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			log.Error().Err(err).Msg("close store")
		}
	}()
	log.Info().Str("driver", store.Driver).Msg("store ready")

	if cfg.SeedData {
		if err := service.NewSeeder(store.Categories, store.Products, log).Seed(ctx); err != nil {
			return err
		}
	}

	hasher, err := auth.NewBcryptHasher(cfg.Security.BcryptCost)
	if err != nil {
		return err
	}
	tokens, err := auth.NewJWTService(auth.TokenConfig{
		Key:      []byte(cfg.JWT.Key),
		Issuer:   cfg.JWT.Issuer,
		Audience: cfg.JWT.Audience,
		TTL:      cfg.JWT.TTL,
	})
	if err != nil {
		return err
	}

	// Rehash workers stop after the HTTP server has drained.
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(cfg.Security.RehashWorkers, store.Users, log)
	dispatcher.Start(workerCtx)
	defer func() {
		stopWorkers()
		dispatcher.Wait()
	}()

	authOpts := []service.AuthOption{service.WithRehashQueue(dispatcher)}
	readiness := []handler.Dependency{{Name: store.Driver, Pinger: store.Pinger}}

	if cfg.Security.LimiterEnabled {
		rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer rdb.Close()

		limiter := redisdb.NewLoginLimiter(rdb, redisdb.LimiterConfig{
			MaxFailures:   cfg.Security.MaxFailures,
			FailureWindow: cfg.Security.FailureWindow,
			BlockDuration: cfg.Security.BlockDuration,
		})
		authOpts = append(authOpts, service.WithLoginLimiter(limiter))
		readiness = append(readiness, handler.Dependency{Name: "redis", Pinger: redisdb.Pinger{Client: rdb}})
	}

	categories := service.NewCategoryService(store.Categories, log)
	products := service.NewProductService(store.Products, store.Categories, log)
	users := service.NewUserService(store.Users, hasher, log)
	authService := service.NewAuthService(store.Users, hasher, tokens, log, authOpts...)

	e := api.NewRouter(api.Dependencies{
		Auth:       authService,
		Categories: categories,
		Products:   products,
		Users:      users,
		Tokens:     tokens,
		Readiness:  readiness,
		Logger:     log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info().Msg("server stopped gracefully")
	return nil
}
