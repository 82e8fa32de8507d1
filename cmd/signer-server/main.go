package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/lmittmann/tint"

	"github.com/cloudutil/cloud-file-signer/pkg/cloudsigner/api"
	"github.com/cloudutil/cloud-file-signer/pkg/cloudsigner/config"
)

type ServerConfig struct {
	Port        string `env:"SIGNER_PORT" env-default:"8080"`
	Environment string `env:"SIGNER_ENV" env-default:"development"`
	LogLevel    string `env:"SIGNER_LOG_LEVEL" env-default:"info"`
}

func main() {
	var serverConfig ServerConfig
	if err := cleanenv.ReadEnv(&serverConfig); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load server configuration: %v\n", err)
		os.Exit(1)
	}

	setupLogging(serverConfig)

	cfg, err := config.Load(config.WithEnv("SIGNER"))
	if err != nil {
		slog.Error("failed to load signer configuration", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()
	signers, err := cfg.BuildSigners(ctx)
	if err != nil {
		slog.Error("failed to build signers", "err", err)
		os.Exit(1)
	}

	handler := api.NewSignHandler(signers, cfg.DefaultProvider)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", handleHealth(cfg))
	r.Mount("/sign", handler.Routes())

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%s", serverConfig.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		providers := make([]string, 0, len(signers))
		for name := range signers {
			providers = append(providers, name)
		}
		slog.Info("signer server starting",
			"port", serverConfig.Port,
			"env", serverConfig.Environment,
			"default_provider", cfg.DefaultProvider,
			"providers", providers)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "err", err)
		os.Exit(1)
	}

	slog.Info("server exiting")
}

func setupLogging(serverConfig ServerConfig) {
	level := parseLevel(serverConfig.LogLevel)

	var h slog.Handler
	if serverConfig.Environment == "production" {
		h = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	} else {
		h = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: "15:04:05.000",
		})
	}
	slog.SetDefault(slog.New(h))
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func handleHealth(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status": "healthy", "default_provider": %q}`, cfg.DefaultProvider)
	}
}
