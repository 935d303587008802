package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"childcare_summary_service/internal/app"
	"childcare_summary_service/internal/domain/llm"
	domainTelegram "childcare_summary_service/internal/domain/telegram"
	ianthropic "childcare_summary_service/internal/infra/anthropic"
	"childcare_summary_service/internal/infra/config"
	idb "childcare_summary_service/internal/infra/database"
	"childcare_summary_service/internal/infra/httpapi"
	"childcare_summary_service/internal/infra/logger"
	"childcare_summary_service/internal/infra/scheduler"
	itelegram "childcare_summary_service/internal/infra/telegram"

	"github.com/gin-gonic/gin"
	"gopkg.in/telebot.v3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Could not load application configuration: %v", err)
	}

	mainLogger := logger.New(cfg)
	mainLogger.Infof("Configuration loaded. LogLevel: %s, Environment: %s", cfg.LogLevel, cfg.Environment)

	if cfg.Environment == "production" || cfg.Environment == "staging" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize Database Connection
	db, err := idb.NewPostgresConnection(cfg.DatabaseURL, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns)
	if err != nil {
		mainLogger.Fatalf("FATAL: Could not connect to database: %v", err)
	}
	defer db.Close()
	mainLogger.Info("Database connection established successfully.")

	// Initialize Repositories
	activityRepo := idb.NewPostgresActivityRepository(db)
	childRepo := idb.NewPostgresChildRepository(db)
	classroomRepo := idb.NewPostgresClassroomRepository(db)
	summaryRepo := idb.NewPostgresSummaryRepository(db)
	notificationRepo := idb.NewPostgresNotificationRepository(db)
	mainLogger.Info("Repositories initialized.")

	// Select the model capability once at startup: a real client when the API
	// key is present, the disabled variant otherwise.
	var model llm.Client = llm.Disabled{}
	if cfg.AnthropicAPIKey != "" {
		model = ianthropic.NewClient(cfg.AnthropicAPIKey, cfg.AnthropicModel)
		mainLogger.Infof("Language model configured: %s", cfg.AnthropicModel)
	} else {
		mainLogger.Info("No language model configured, narratives will use the template.")
	}

	// Optional Telegram push channel for guardians
	var telegramClient domainTelegram.Client
	if cfg.TelegramToken != "" {
		bot, err := telebot.NewBot(telebot.Settings{Token: cfg.TelegramToken})
		if err != nil {
			mainLogger.Fatalf("FATAL: Could not create Telegram bot: %v", err)
		}
		telegramClient = itelegram.NewTelebotAdapter(bot)
		mainLogger.Info("Telegram push channel configured.")
	} else {
		mainLogger.Info("Telegram push channel not configured.")
	}

	// Initialize Services
	summaryService := app.NewSummaryService(
		activityRepo, childRepo, summaryRepo,
		model, cfg.AnthropicModel, cfg.AnthropicTimeout,
		mainLogger,
	)
	batchService := app.NewBatchService(childRepo, classroomRepo, summaryService, cfg.SummaryConcurrency, mainLogger)
	dispatchService := app.NewDispatchService(summaryRepo, childRepo, notificationRepo, telegramClient, cfg.NotificationBodyLimit, mainLogger)
	mainLogger.Info("Services initialized.")

	// Initialize SummaryScheduler
	summaryScheduler := scheduler.NewSummaryScheduler(batchService, mainLogger, cfg.CronSpecDailySummary)
	summaryScheduler.Start()

	// HTTP API
	router := httpapi.NewRouter(summaryService, batchService, dispatchService, db, mainLogger)
	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		mainLogger.Infof("HTTP server listening on :%s", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			mainLogger.Fatalf("FATAL: HTTP server failed: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit // Block until a signal is received

	mainLogger.Info("Shutting down application...")
	summaryScheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		mainLogger.Errorf("HTTP server shutdown: %v", err)
	}
	mainLogger.Info("Application shut down gracefully.")
}
