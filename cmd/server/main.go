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
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"

	"github.com/tradewire/mt5-stream/internal/bridge"
	"github.com/tradewire/mt5-stream/internal/config"
	"github.com/tradewire/mt5-stream/internal/fallback"
	"github.com/tradewire/mt5-stream/internal/feed"
	"github.com/tradewire/mt5-stream/internal/live"
	"github.com/tradewire/mt5-stream/internal/rest"
	"github.com/tradewire/mt5-stream/internal/version"
)

func main() {
	configPath := flag.String("config", "", "path to config file (defaults apply when empty)")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting mt5-stream server",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	var (
		cfg *config.ServerConfig
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadAndValidate(*configPath)
	} else {
		cfg = config.Default()
		err = cfg.Validate()
	}
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"listen", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		"bridge_url", cfg.Bridge.URL,
		"prices_interval", cfg.Streams.PricesInterval,
		"fetch_timeout", cfg.Streams.FetchTimeout,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Bridge client
	bridgeClient := bridge.NewClient(
		cfg.Bridge.URL,
		bridge.WithLogger(logger),
		bridge.WithTimeout(cfg.Bridge.Timeout),
		bridge.WithRetries(*cfg.Bridge.MaxRetries, cfg.Bridge.RetryBackoff),
	)

	// Check bridge reachability; a dead bridge just means degraded
	// data, not a startup failure.
	probeCtx, probeCancel := context.WithTimeout(ctx, 3*time.Second)
	if health, err := bridgeClient.GetHealth(probeCtx); err != nil {
		logger.Warn("bridge unreachable, streams start degraded", "error", err)
	} else {
		logger.Info("bridge reachable",
			"status", health.Status,
			"mt5_initialized", health.MT5Initialized,
		)
	}
	probeCancel()

	// Resilient feed
	source := feed.NewSource(
		bridgeClient,
		fallback.NewGenerator(),
		cfg.Streams.FetchTimeout,
		logger,
	)

	// Live streaming hub
	liveCfg := live.Config{
		PricesInterval:    cfg.Streams.PricesInterval,
		AccountInterval:   cfg.Streams.AccountInterval,
		PositionsInterval: cfg.Streams.PositionsInterval,
		FetchTimeout:      cfg.Streams.FetchTimeout,
		DefaultSymbols:    cfg.Streams.DefaultSymbols,
		WriteTimeout:      cfg.Server.WriteTimeout,
		PingInterval:      cfg.Server.PingInterval,
		PongWait:          cfg.Server.PongTimeout,
	}
	hub := live.NewHub(liveCfg, source, logger)

	// Routes
	router := mux.NewRouter()
	restHandler := rest.NewHandler(bridgeClient, source, hub, cfg.Streams.DefaultSymbols, logger)
	restHandler.Register(router)
	router.Handle("/ws", live.NewHandler(hub, cfg.Server.AllowedOrigin, logger))

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		logger.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		// Stop accepting new connections first, then cancel every
		// live session's poll tasks.
		err := server.Shutdown(shutdownCtx)
		hub.Close()
		return err
	})

	if err := g.Wait(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
