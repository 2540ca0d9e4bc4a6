package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/shopwave/storefront/internal/config"
	"github.com/shopwave/storefront/internal/events"
	"github.com/shopwave/storefront/internal/mockapi"
	"github.com/shopwave/storefront/pkg/logger"
	"github.com/shopwave/storefront/pkg/shutdown"
)

const (
	requestTimeout = 30 * time.Second
	tokenTTL       = 24 * time.Hour
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.Any("err", err))
		os.Exit(2)
	}
	log := logger.New(logger.Options{Service: "mockapi", Env: cfg.AppEnv, Level: cfg.LogLevel})

	// the production backend sends prices as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	store := mockapi.NewStore()
	mockapi.SeedCatalog(store)
	if _, err := mockapi.SeedUser(store, "Demo User", "demo@shopwave.test", "demo123"); err != nil {
		log.Error("seed demo user failed", slog.Any("err", err))
		os.Exit(1)
	}
	if _, err := mockapi.SeedAdmin(store, "Shop Admin", "admin@shopwave.test", "admin123"); err != nil {
		log.Error("seed admin user failed", slog.Any("err", err))
		os.Exit(1)
	}

	var (
		publisher events.Publisher
		closers   []shutdown.Step
	)
	if cfg.KafkaEnabled() {
		kp := events.NewKafkaPublisher(cfg.KafkaBrokers...)
		closers = append(closers, shutdown.Step{Name: "kafka publisher", Fn: func(context.Context) error { return kp.Close() }})
		publisher = kp
		log.Info("publishing order status changes", slog.Any("brokers", cfg.KafkaBrokers))
	}

	server := mockapi.NewServer(store, mockapi.NewTokens(cfg.JWTSecret, tokenTTL), publisher, log)

	srv := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.HTTPPort),
		Handler:      server.Routes(requestTimeout),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: requestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, cancel := shutdown.WithSignals(context.Background(), log)
	defer cancel()

	go func() {
		log.Info("mock api starting", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", slog.Any("err", err))
			cancel()
		}
	}()

	<-ctx.Done()

	log.Info("shutting down server...", slog.Any("signal", shutdown.Signal(ctx)))
	// drain HTTP first so in-flight status changes still publish
	steps := append([]shutdown.Step{{Name: "http server", Fn: srv.Shutdown}}, closers...)
	if err := shutdown.Run(cfg.ShutdownTimeout, log, steps...); err != nil {
		log.Error("server forced to shutdown", slog.Any("err", err))
	}
	log.Info("server exited")
}
