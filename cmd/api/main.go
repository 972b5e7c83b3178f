package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/drsayuj/intake-platform/internal/api/router"
	"github.com/drsayuj/intake-platform/internal/booking"
	appconfig "github.com/drsayuj/intake-platform/internal/config"
	"github.com/drsayuj/intake-platform/internal/conversation"
	"github.com/drsayuj/intake-platform/internal/crm"
	httpmiddleware "github.com/drsayuj/intake-platform/internal/http/middleware"
	"github.com/drsayuj/intake-platform/internal/notify"
	"github.com/drsayuj/intake-platform/internal/observability/metrics"
	"github.com/drsayuj/intake-platform/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting intake-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	reg := prometheus.NewRegistry()
	intakeMetrics := metrics.NewIntakeMetrics(reg)

	// Persistence is the system of record; the server will not start without it.
	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to create pgx pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	clinic := conversation.ClinicInfo{
		DoctorName: cfg.DoctorName,
		Phone:      cfg.ClinicPhone,
		OPDHours:   cfg.OPDHours,
	}

	// Structured generation is optional: without a key the conversation flow
	// degrades to rule-based prompts and confirmations use the template.
	var llm conversation.LLMClient
	if cfg.GeminiAPIKey != "" {
		gemini, err := conversation.NewGeminiLLMClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Error("failed to create gemini client", "error", err)
			os.Exit(1)
		}
		llm = gemini
	} else {
		logger.Warn("GEMINI_API_KEY not set, using rule-based conversation flow")
	}

	var generator conversation.TurnGenerator
	if llm != nil {
		generator = conversation.NewStructuredGenerator(llm, clinic, cfg.LLMTimeout, intakeMetrics, logger)
	}
	orchestrator := conversation.NewOrchestrator(generator, clinic, intakeMetrics, logger)
	conversationHandler := conversation.NewHandler(orchestrator, clinic, llm != nil, logger)

	var sender notify.EmailSender
	if sg := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger); sg != nil {
		sender = sg
	} else {
		logger.Warn("SENDGRID_API_KEY not set, email notifications disabled")
		sender = notify.NewStubEmailSender(logger)
	}
	emailService := booking.NewEmailService(sender, cfg.AdminEmail, cfg.ClinicName, logger)

	var leadSink crm.LeadSink
	sheetsClient, err := crm.NewSheetsClient(ctx, crm.SheetsConfig{
		SpreadsheetID:   cfg.SheetsSpreadsheetID,
		WriteRange:      cfg.SheetsRange,
		CredentialsJSON: cfg.SheetsCredentialsJSON,
	}, logger)
	if err != nil {
		logger.Error("failed to create sheets client", "error", err)
		os.Exit(1)
	}
	if sheetsClient != nil {
		leadSink = sheetsClient
	} else {
		logger.Warn("SHEETS_SPREADSHEET_ID not set, CRM sync disabled")
	}

	repo := booking.NewRepository(pool, logger)
	confirmGen := booking.NewConfirmationGenerator(llm, cfg.LLMTimeout, logger)
	webhooks := booking.NewWebhookNotifier(cfg.WebhookURLs, cfg.WebhookTimeout, logger)
	bookingService := booking.NewService(repo, confirmGen, emailService, leadSink, webhooks, intakeMetrics, logger)
	bookingHandler := booking.NewHandler(bookingService, logger)

	// Redis backs the rate limiter when available; the in-process fallback
	// keeps single-instance deployments working without it.
	var turnLimiter, submitLimiter httpmiddleware.Limiter
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		turnLimiter = httpmiddleware.NewRedisLimiter(redisClient, cfg.TurnRatePerMinute, time.Minute)
		submitLimiter = httpmiddleware.NewRedisLimiter(redisClient, cfg.SubmitRatePerMinute, time.Minute)
	} else {
		logger.Warn("REDIS_ADDR not set, using in-memory rate limiting")
		turnLimiter = httpmiddleware.NewMemoryLimiter(cfg.TurnRatePerMinute, time.Minute)
		submitLimiter = httpmiddleware.NewMemoryLimiter(cfg.SubmitRatePerMinute, time.Minute)
	}

	r := router.New(&router.Config{
		Logger:              logger,
		ConversationHandler: conversationHandler,
		BookingHandler:      bookingHandler,
		TurnLimiter:         turnLimiter,
		SubmitLimiter:       submitLimiter,
		MetricsHandler:      promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
