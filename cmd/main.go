package main

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

	"github.com/go-chi/chi/v5"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"golang.org/x/sync/errgroup"

	"draftday/config"
	"draftday/handlers"
	"draftday/live"
	"draftday/repositories"
	api "draftday/routes"
	"draftday/services"
)

const kvBucket = "draftday_events"

// memoryStoreURL selects the in-process repository instead of NATS; useful
// for local development without a server.
const memoryStoreURL = "memory"

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	repo, cleanup, err := buildRepository(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize event storage", slog.Any("error", err))
		os.Exit(1)
	}
	defer cleanup()

	hub := live.NewHub(logger)
	go hub.Run()
	logger.Info("live hub started")

	eventService := services.NewEventService(repo, hub, logger)
	matchService := services.NewMatchService(repo, hub, logger)
	authService := services.NewAuthService(services.AuthConfig{
		AdminPassword:     cfg.AdminPassword,
		AdminPasswordHash: cfg.AdminPasswordHash,
		JWTSecret:         []byte(cfg.JWTSecretKey),
	})

	eventHandler := handlers.NewEventHandler(eventService)
	matchHandler := handlers.NewMatchHandler(matchService)
	authHandler := handlers.NewAuthHandler(authService)
	webSocketHandler := handlers.NewWebSocketHandler(hub, eventService)

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		eventHandler,
		matchHandler,
		authHandler,
		webSocketHandler,
		[]byte(cfg.JWTSecretKey),
		cfg.AllowedOrigins,
	)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		logger.Info("starting server", slog.String("address", server.Addr))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		logger.Info("shutting down server")
		if err := server.Shutdown(shutdownCtx); err != nil {
			server.Close()
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})

	if err := group.Wait(); err != nil {
		logger.Error("server error", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("application exited")
}

// buildRepository connects the configured store: a JetStream key-value
// bucket with the event TTL as MaxAge, or the in-memory fallback.
func buildRepository(cfg *config.Config, logger *slog.Logger) (repositories.EventRepository, func(), error) {
	if cfg.NATSUrl == memoryStoreURL {
		logger.Warn("using in-memory event storage, events will not survive a restart")
		return repositories.NewMemoryEventRepository(cfg.EventTTL), func() {}, nil
	}

	nc, err := nats.Connect(cfg.NATSUrl, nats.Name("draftday"))
	if err != nil {
		return nil, nil, fmt.Errorf("connect to NATS at %s: %w", cfg.NATSUrl, err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, nil, fmt.Errorf("initialize JetStream: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	kv, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      kvBucket,
		Description: "draftday event records and code pointers",
		TTL:         cfg.EventTTL,
	})
	if err != nil {
		nc.Close()
		return nil, nil, fmt.Errorf("create key-value bucket %s: %w", kvBucket, err)
	}

	logger.Info("event storage connected",
		slog.String("bucket", kvBucket),
		slog.Duration("ttl", cfg.EventTTL))
	return repositories.NewNATSEventRepository(kv), nc.Close, nil
}
