package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/snippr/snippr/server/internal/api"
	"github.com/snippr/snippr/server/internal/config"
	"github.com/snippr/snippr/server/internal/metrics"
	"github.com/snippr/snippr/server/internal/store"
	"github.com/snippr/snippr/server/internal/ws"
)

func main() {
	configPath := flag.String("config", "", "path to config file; empty uses built-in defaults")
	port := flag.Int("port", 0, "HTTP port; overrides server.http_port when non-zero")
	flag.Parse()

	level := new(slog.LevelVar)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	slog.Info("snippr-server starting", "config", *configPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Server.HTTPPort = *port
		if err := cfg.Validate(); err != nil {
			slog.Error("invalid -port flag", "port", *port, "err", err)
			os.Exit(1)
		}
	}
	level.Set(cfg.Server.SlogLevel())

	slog.Info("config loaded",
		"http_port", cfg.Server.HTTPPort,
		"log_level", cfg.Server.LogLevel,
		"websocket", cfg.Server.WebSocket.Enabled,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Only log_level is applied live; other settings need a restart.
	if *configPath != "" {
		go func() {
			err := config.Watch(ctx, *configPath, func(c *config.Config) {
				level.Set(c.Server.SlogLevel())
				slog.Info("log level updated", "log_level", c.Server.LogLevel)
			})
			if err != nil {
				slog.Warn("config watch disabled", "err", err)
			}
		}()
	}

	st := store.NewSeeded()
	slog.Info("store seeded", "snippets", st.Count())

	opts := api.Options{
		Metrics:      metrics.New(st),
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
	}
	if cfg.Server.WebSocket.Enabled {
		hub := ws.New(st, cfg.Server.WebSocket.PingInterval)
		go hub.Run(ctx)
		opts.Feed = hub
	}

	httpSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:           api.New(st, opts),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", cfg.Server.HTTPPort)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errc:
		slog.Error("HTTP server stopped", "err", err)
		os.Exit(1)
	}

	slog.Info("snippr-server shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "err", err)
	}
}
