package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	configloader "github.com/klangrad/klangrad/external/config"
	maprenderimpl "github.com/klangrad/klangrad/external/maprender"
	repositoryimpl "github.com/klangrad/klangrad/external/repository"
	spotifyimpl "github.com/klangrad/klangrad/external/spotify"
	"github.com/klangrad/klangrad/external/telegram"
	weatherimpl "github.com/klangrad/klangrad/external/weather"
	"github.com/klangrad/klangrad/internal/config"
	"github.com/klangrad/klangrad/internal/session"
	"github.com/samber/do/v2"
)

func main() {
	slog.Info("startup: loading configuration")
	cfg := mustLoadConfig()
	initLogger(cfg)
	slog.Info("startup: configuration loaded", "env", cfg.Env)

	slog.Info("startup: building dependency graph")
	injector := setupDI(cfg)

	slog.Info("startup: launching telegram bot")
	runBot(injector)
}

func mustLoadConfig() *config.Config {
	cfg, err := configloader.Load()
	if err != nil {
		slog.Error("config validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

func initLogger(cfg *config.Config) {
	logLevel := slog.LevelInfo
	if cfg.IsDevelopment() {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))
}

func setupDI(cfg *config.Config) do.Injector {
	injector := do.New()

	do.ProvideValue(injector, cfg)
	repositoryimpl.RegisterDI(injector)
	spotifyimpl.RegisterDI(injector)
	weatherimpl.RegisterDI(injector)
	maprenderimpl.RegisterDI(injector)
	telegram.RegisterDI(injector)
	session.RegisterDI(injector)

	return injector
}

func runBot(injector do.Injector) {
	bot, err := do.Invoke[*telegram.Bot](injector)
	if err != nil {
		slog.Error("failed to resolve telegram bot", "error", err)
		os.Exit(1)
	}
	watcher, err := do.Invoke[*session.Watcher](injector)
	if err != nil {
		slog.Error("failed to resolve playback watcher", "error", err)
		os.Exit(1)
	}
	bot.BindWatcher(watcher)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("startup: entering telegram update loop")
	if err := bot.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("telegram run failed", "error", err)
		os.Exit(1)
	}

	slog.Info("shutting down")
	if err := watcher.Stop(context.Background()); err != nil && !errors.Is(err, session.ErrAlreadyOffline) {
		slog.Error("failed to stop watcher", "error", err)
	}
}
