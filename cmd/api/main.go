package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/leafline-ai/leafline-backend/api/routes"
	cartsvc "github.com/leafline-ai/leafline-backend/internal/cart"
	"github.com/leafline-ai/leafline-backend/internal/catalog"
	checkoutsvc "github.com/leafline-ai/leafline-backend/internal/checkout"
	orderspkg "github.com/leafline-ai/leafline-backend/internal/orders"
	"github.com/leafline-ai/leafline-backend/internal/policy"
	"github.com/leafline-ai/leafline-backend/pkg/config"
	"github.com/leafline-ai/leafline-backend/pkg/db"
	"github.com/leafline-ai/leafline-backend/pkg/logger"
	"github.com/leafline-ai/leafline-backend/pkg/metrics"
	"github.com/leafline-ai/leafline-backend/pkg/migrate"
	"github.com/leafline-ai/leafline-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	pol, err := policy.New(cfg.Policy)
	if err != nil {
		logg.Error(context.Background(), "invalid compliance policy", err)
		os.Exit(1)
	}

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	closers := []func() error{dbClient.Close}
	defer func() {
		var closeErr error
		for _, closeFn := range closers {
			closeErr = multierr.Append(closeErr, closeFn())
		}
		if closeErr != nil {
			logg.Error(context.Background(), "error closing resources", closeErr)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	// Redis backs the per-session cart lock. Optional: without it mutations
	// fall back to the no-op locker.
	var redisClient *redis.Client
	var locker cartsvc.SessionLocker = cartsvc.NoopLocker{}
	var redisPinger redis.Pinger
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		closers = append(closers, redisClient.Close)
		locker = cartsvc.NewRedisLocker(redisClient)
		redisPinger = redisClient
	}

	catalogRepo := catalog.NewRepository(dbClient.DB())
	cartRepo := cartsvc.NewRepository(dbClient.DB())
	orderRepo := orderspkg.NewRepository(dbClient.DB())

	catalogService, err := catalog.NewService(catalogRepo, pol)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	cartService, err := cartsvc.NewService(cartRepo, catalogRepo, locker)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	checkoutService, err := checkoutsvc.NewService(dbClient, cartRepo, orderRepo, catalogRepo, locker)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisPinger,
			registry,
			httpMetrics,
			pol,
			catalogService,
			cartService,
			checkoutService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
