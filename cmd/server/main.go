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
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/jusunglee/bus-times/api/handlers"
	"github.com/jusunglee/bus-times/internal/config"
	"github.com/jusunglee/bus-times/internal/render"
	"github.com/jusunglee/bus-times/pkg/bustimes"
)

func main() {
	var (
		configFile = flag.String("config", os.Getenv("BUS_TIMES_CONFIG"), "YAML config file")
		port       = flag.Int("port", 0, "Server port (overrides PORT)")
		apiKey     = flag.String("api-key", "", "TfL API key (overrides TFL_TOKEN)")
		logLevel   = flag.String("log-level", os.Getenv("LOG_LEVEL"), "Log level: debug, info, warn or error")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(*logLevel)}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configFile, os.Getenv)
	if err != nil {
		logger.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *apiKey != "" {
		cfg.TfL.APIKey = *apiKey
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	if cfg.TfL.APIKey == config.DefaultAPIKey {
		logger.Warn("No TfL API key configured; set TFL_TOKEN or -api-key")
	}

	registry, err := cfg.Registry()
	if err != nil {
		logger.Error("Failed to build stop registry", "error", err)
		os.Exit(1)
	}
	loc, err := cfg.Location()
	if err != nil {
		logger.Error("Failed to load time zone", "error", err)
		os.Exit(1)
	}

	client := bustimes.NewLocal(bustimes.Config{
		Feed:     cfg.FeedConfig(),
		Limit:    cfg.Display.Limit,
		Registry: registry,
		Logger:   logger,
	})
	defer client.Close()

	renderer := render.NewRenderer(render.Options{Location: loc, Logger: logger})
	h := handlers.NewHandler(client, renderer, logger)

	srv := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Server.Port),
		Handler:      handlers.NewRouter(h, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.TfL.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	go func() {
		logger.Info("Server starting", "port", cfg.Server.Port, "stops", len(registry.Stops()), "sites", len(registry.Sites()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("Server stopped")
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		if s != "" {
			fmt.Fprintf(os.Stderr, "unknown log level %q, using info\n", s)
		}
		return slog.LevelInfo
	}
	return level
}
