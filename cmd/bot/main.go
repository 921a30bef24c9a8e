package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"adstudio/internal/auth"
	"adstudio/internal/config"
	"adstudio/internal/gemini"
	"adstudio/internal/handlers"
	"adstudio/internal/httpclient"
	"adstudio/internal/session"
	"adstudio/internal/studio"
	"adstudio/internal/telegram"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if strings.TrimSpace(cfg.Telegram.Token) == "" {
		panic("ADSTUDIO_TELEGRAM_TOKEN is required")
	}
	if strings.TrimSpace(cfg.Gemini.APIKey) == "" {
		panic("ADSTUDIO_GEMINI_API_KEY is required")
	}

	logger := newLogger(cfg)

	httpClient := httpclient.New(httpclient.Options{
		PreferIPv4: cfg.HTTP.PreferIPv4,
		Timeout:    cfg.HTTPTimeout(),
	})

	tg, err := telegram.New(telegram.Options{
		Token:      cfg.Telegram.Token,
		HTTPClient: httpClient,
		Logger:     logger,
		Debug:      cfg.Telegram.Debug,
	})
	if err != nil {
		logger.Error("telegram init failed", "err", err)
		os.Exit(1)
	}

	creds := auth.New(cfg.Gemini.APIKey)

	gem := gemini.New(gemini.Options{
		Credentials: creds,
		BaseURL:     cfg.Gemini.BaseURL,
		APIVersion:  cfg.Gemini.APIVersion,
		HTTPClient:  httpClient,
		Logger:      logger,
	})

	sessions := session.NewStore(session.Options{
		MaxHistoryMessages: cfg.Studio.MaxHistoryMessages,
	})

	handler := handlers.New(handlers.Options{
		Telegram:    tg,
		Studio:      studio.New(studio.Options{Gemini: gem, Credentials: creds, Logger: logger}),
		Sessions:    sessions,
		Credentials: creds,
		Logger:      logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("bot started", "username", tg.Username())

	updates := tg.Updates(telegram.UpdatesOptions{
		Timeout: 30 * time.Second,
	})
	defer tg.StopUpdates()

	sem := make(chan struct{}, cfg.Studio.MaxConcurrent)
	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			return
		case update, ok := <-updates:
			if !ok {
				logger.Info("updates channel closed")
				return
			}

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return
			}

			go func(update telegram.Update) {
				defer func() { <-sem }()

				reqCtx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout())
				defer cancel()

				if err := handler.HandleUpdate(reqCtx, update); err != nil && !errors.Is(err, context.Canceled) {
					logger.Error("handle update failed", "err", err)
				}
			}(update)
		}
	}
}

func newLogger(cfg config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.Log.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
}
