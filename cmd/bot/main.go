package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"wp-tg-publisher/internal/config"
	"wp-tg-publisher/internal/constants"
	"wp-tg-publisher/internal/conversation"
	"wp-tg-publisher/internal/permissions"
	"wp-tg-publisher/internal/services"
	"wp-tg-publisher/internal/workflows"
	"wp-tg-publisher/pkg/telegrambot"
)

func main() {
	logger := setupLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	logger.Info("Starting WordPress publishing bot")

	users := services.NewUserStore(cfg, logger)
	permCtrl := permissions.NewController(users, logger)
	limiter := services.NewRateLimiter(
		constants.RateLimitMaxAttempts,
		constants.RateLimitWindowSeconds*time.Second,
		logger,
	)

	wpService := services.NewWordPressService(cfg, logger)
	categories := services.NewCategoryCache(wpService, logger)
	transformer := services.NewContentTransformer(logger)
	images := services.NewImageService(cfg.Telegram.Token, logger)
	qrService := services.NewQRService(logger)

	engine := conversation.NewEngine(logger)
	engine.Register(workflows.NewPostCreation(
		wpService,
		categories,
		transformer,
		images,
		wpService.SiteURL(),
		cfg.Limits.MaxImageMB,
		logger,
	).Workflow())
	engine.Register(workflows.NewPostEdit(wpService, transformer, logger).Workflow())

	bot, err := telegrambot.NewBot(cfg, engine, users, permCtrl, limiter, wpService, categories, qrService, logger)
	if err != nil {
		logger.Fatalf("Failed to create bot: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Infof("Received signal %s, shutting down", sig)
		cancel()
	}()

	if err := bot.Start(ctx); err != nil {
		logger.Fatalf("Bot stopped with error: %v", err)
	}

	logger.Info("Shutdown complete")
}

func setupLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: constants.TimestampFormat,
	})
	logger.SetOutput(os.Stdout)
	logger.SetLevel(logrus.InfoLevel)
	return logger
}
