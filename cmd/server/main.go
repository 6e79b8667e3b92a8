package main

import (
	"context"
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"

	"hiddencard/internal/auth"
	"hiddencard/internal/config"
	"hiddencard/internal/ports/gateway"
	"hiddencard/internal/ports/httpapi"
)

func main() {
	configPath := flag.String("config", "", "path to the server config JSON")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("load config", "err", err)
		os.Exit(1)
	}

	tokens := auth.NewTokenService(cfg.TokenSecret, cfg.TokenIssuer, cfg.TokenTTL())
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	gw, err := gateway.New(cfg, tokens, rng, logger)
	if err != nil {
		logger.Error("init gateway", "err", err)
		os.Exit(1)
	}
	api := httpapi.New(cfg, tokens, gw.CertificateHash(), logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 2)
	go func() { errCh <- api.Run() }()
	go func() { errCh <- gw.Start(ctx) }()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-errCh:
		logger.Error("server failed", "err", err)
	}
	gw.Shutdown()
}
