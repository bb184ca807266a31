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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"storeguard/internal/platform/config"
	"storeguard/internal/platform/logger"
)

// main wires the console agent: one admin session, the secure operation
// gateway and the loopback API in front of them.
func main() {
	os.Exit(run())
}

// run returns the process exit code. Deferred cleanup always runs before
// main exits.
func run() int {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		return 1
	}
	log := logger.New(cfg.Server.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	app, err := build(ctx, cfg, log, reg)
	if err != nil {
		log.Error("failed to initialize console", "error", err)
		return 1
	}
	defer app.Close()

	log.Info("initializing storeguard console",
		"addr", cfg.Server.Addr,
		"environment", cfg.Server.Environment,
		"auth_url", app.authURL,
		"redis", cfg.Redis.URL != "",
		"postgres", cfg.Database.URL != "",
		"dev", cfg.Dev,
	)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           app.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      45 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	app.startWorkers(ctx)

	serverErr := make(chan error, 1)
	go func() {
		log.Info("starting http server", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			log.Error("server error", "error", err)
			return 1
		}
	case <-ctx.Done():
	}

	log.Info("shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		return 1
	}

	log.Info("server stopped")
	return 0
}
