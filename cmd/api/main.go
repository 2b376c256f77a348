package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/angelmondragon/storefront/api/routes"
	"github.com/angelmondragon/storefront/internal/cart"
	"github.com/angelmondragon/storefront/internal/checkout"
	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/angelmondragon/storefront/pkg/enums"
	"github.com/angelmondragon/storefront/pkg/instance"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/metrics"
)

const shutdownTimeout = 15 * time.Second

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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := openBackends(ctx, cfg, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap cart persistence", err)
		os.Exit(1)
	}
	defer deps.Close(context.Background(), logg)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	cartMetrics := metrics.NewCartMetrics(reg)
	httpMetrics := metrics.NewHTTPMetrics(reg)

	if err := startSnapshotSweeper(ctx, cfg, logg, deps, metrics.NewJobMetrics(reg)); err != nil {
		logg.Error(ctx, "failed to start snapshot sweeper", err)
		os.Exit(1)
	}

	currency, _ := enums.ParseCurrency(cfg.Cart.DefaultCurrency)
	registryOptions := []cart.RegistryOption{cart.WithMaxStores(cfg.Cart.MaxOpenStores)}
	if deps.backend != enums.PersistenceMemory {
		// Other replicas write to the same snapshots.
		registryOptions = append(registryOptions, cart.WithRefresh())
	}
	registry := cart.NewRegistry(cart.Options{
		Namespace:       cfg.Cart.Namespace,
		Persister:       deps.persister,
		Logger:          logg,
		Metrics:         cartMetrics,
		DefaultCurrency: currency,
	}, registryOptions...)

	checkoutService, err := checkout.NewService(checkout.NewLogPlacer(logg), logg)
	if err != nil {
		logg.Error(ctx, "failed to create checkout service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":          cfg.App.Env,
		"addr":         addr,
		"instance":     instance.GetID(),
		"cart_backend": deps.backend.String(),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, registry, checkoutService, deps.redis, httpMetrics, reg, deps.readiness),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}
