package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"adstudio/internal/api"
	"adstudio/internal/auth"
	"adstudio/internal/config"
	"adstudio/internal/gemini"
	"adstudio/internal/httpclient"
	"adstudio/internal/studio"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := newLogger(cfg)

	httpClient := httpclient.New(httpclient.Options{
		PreferIPv4: cfg.HTTP.PreferIPv4,
		Timeout:    cfg.HTTPTimeout(),
	})

	// The server may start without a key; it stays unauthorized until a
	// credential is selected via the API.
	creds := auth.New(cfg.Gemini.APIKey)

	gem := gemini.New(gemini.Options{
		Credentials: creds,
		BaseURL:     cfg.Gemini.BaseURL,
		APIVersion:  cfg.Gemini.APIVersion,
		HTTPClient:  httpClient,
		Logger:      logger,
	})

	handler := api.New(api.Options{
		Studio:      studio.New(studio.Options{Gemini: gem, Credentials: creds, Logger: logger}),
		Credentials: creds,
		Logger:      logger,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           api.Router(handler),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       90 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server started", "addr", cfg.Server.Addr, "authorized", creds.Authorized())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
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
