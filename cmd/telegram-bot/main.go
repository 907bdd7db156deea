package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ai-diet-planner/internal/app"
	"ai-diet-planner/internal/config"
	"ai-diet-planner/internal/logging"
	"ai-diet-planner/internal/telegram"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.NewFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.LogLevel, cfg.LogPretty)

	if cfg.TelegramBotToken == "" || cfg.TelegramWebhookURL == "" {
		logger.Fatal().Msg("TELEGRAM_BOT_TOKEN and TELEGRAM_WEBHOOK_URL must be set")
	}
	if len(cfg.TelegramAllowedUserIDs) == 0 {
		logger.Warn().Msg("TELEGRAM_ALLOWED_USER_IDS is empty; every message will be ignored")
	}

	ctx := context.Background()

	// 2. Initialize the planner, generator and metrics
	application, closeApp, err := app.NewFromConfig(ctx, cfg, logger, prometheus.DefaultRegisterer)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize application")
	}
	defer closeApp()

	// 3. Initialize Telegram Bot
	var usage telegram.UsageReporter
	if cfg.MetricsDBPath != "" {
		usage = application
	}
	bot, err := telegram.NewBot(cfg, application, usage, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize Telegram Bot")
	}

	// 4. Start Server with Graceful Shutdown
	r := chi.NewRouter()
	r.Post("/webhook", bot.HandleWebhook)
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("Telegram Bot Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("Shutting down server...")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}
	// Let in-flight plan requests finish replying.
	bot.Wait()

	logger.Info().Msg("Server exiting")
}
