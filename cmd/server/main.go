// @title           Store Rating API
// @version         1.0
// @description     Accounts, store listings and 1-5 star ratings with role-based access.
// @BasePath        /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
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

	"github.com/ecomrating/store-rating/internal/api"
	"github.com/ecomrating/store-rating/internal/api/handler"
	"github.com/ecomrating/store-rating/internal/api/metrics"
	"github.com/ecomrating/store-rating/internal/core/credential"
	"github.com/ecomrating/store-rating/internal/core/ports"
	"github.com/ecomrating/store-rating/internal/core/service"
	"github.com/ecomrating/store-rating/internal/infrastructure/config"
	mongodb "github.com/ecomrating/store-rating/internal/infrastructure/db/mongo"
	redisdb "github.com/ecomrating/store-rating/internal/infrastructure/db/redis"
	"github.com/ecomrating/store-rating/internal/infrastructure/seed"
	"github.com/ecomrating/store-rating/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.New(logger.Options{})
		bootLog.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "store-rating",
		Env:     cfg.Env,
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// --- Storage ---
	mongoClient, repos, err := mongodb.Connect(ctx, mongodb.Config{
		URI:         cfg.Mongo.URI,
		Database:    cfg.Mongo.Database,
		Timeout:     cfg.Mongo.Timeout,
		MaxPoolSize: cfg.Mongo.MaxPoolSize,
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongo")

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		Timeout:  cfg.Redis.Timeout,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()
	log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")

	users, stores, ratings := repos.Users, repos.Stores, repos.Ratings

	// --- Credentials ---
	hasher := credential.NewPasswordHasher(cfg.Auth.BcryptCost)
	tokens, err := credential.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}

	if cfg.SeedDemo {
		if err := seed.Run(ctx, seed.Repositories{Users: users, Stores: stores, Ratings: ratings}, hasher, log); err != nil {
			return err
		}
	}

	// --- Services ---
	var cache ports.DashboardCache
	if cfg.Dashboard.CacheTTL > 0 {
		cache = redisdb.NewDashboardCache(rdb, cfg.Dashboard.CacheTTL, metrics.DashboardCacheTotal)
	}

	e := api.NewRouter(api.Dependencies{
		Log:          log,
		Tokens:       tokens,
		SecureCookie: cfg.IsProduction(),
		Auth:         service.NewAuthService(users, hasher, tokens, log),
		Users:        service.NewUserService(users, stores, ratings, hasher, log),
		Stores:       service.NewStoreService(stores, users, ratings, log),
		Ratings:      service.NewRatingService(ratings, stores, log),
		Dashboard:    service.NewDashboardService(users, stores, ratings, cache, log),
		Readiness: map[string]handler.Pinger{
			"mongo": func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) },
			"redis": func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
	})

	// --- Serve until signalled ---
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
