package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/PratikDhanave/event-relay-service/internal/config"
	"github.com/PratikDhanave/event-relay-service/internal/httpserver"
	"github.com/PratikDhanave/event-relay-service/internal/lib/logger/sl"
	"github.com/PratikDhanave/event-relay-service/internal/lib/logger/slogpretty"
	"github.com/PratikDhanave/event-relay-service/internal/relay"
	"github.com/PratikDhanave/event-relay-service/internal/tracing"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

// main boots the relay: config → logger → tracing → upstream client → HTTP server.
func main() {
	// Load runtime config from environment (META_ACCESS_TOKEN, META_PIXEL_ID, ...).
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)
	log.Info("starting event relay", slog.Any("config", cfg))

	if !cfg.Meta.HasCredentials() {
		log.Warn("META_ACCESS_TOKEN or META_PIXEL_ID not set, POST /api/event will answer 500")
	}

	shutdownTracing, err := tracing.Init(context.Background(), cfg.Tracing.ServiceName, cfg.Tracing.Endpoint)
	if err != nil {
		log.Error("failed to init tracing", sl.Err(err))
		os.Exit(1)
	}

	graph := relay.NewGraphClient(cfg.Meta.GraphURL, cfg.Meta.APIVersion, cfg.Meta.UpstreamTimeout)

	router := httpserver.NewRouter(cfg, log, graph)

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		log.Info("server started", slog.String("address", cfg.HTTPServer.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("failed to start server", sl.Err(err))
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)
	sign := <-stop

	log.Info("stopping server", slog.String("signal", sign.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", sl.Err(err))
	}
	if err := shutdownTracing(ctx); err != nil {
		log.Error("tracer shutdown failed", sl.Err(err))
	}

	log.Info("server stopped")
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	handler := opts.NewPrettyHandler(os.Stdout)

	return slog.New(handler)
}
