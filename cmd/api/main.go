package main

import (
	"context"
	"crypto/tls"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/atf-io/voicehub-sub001/internal/agents"
	"github.com/atf-io/voicehub-sub001/internal/analytics"
	"github.com/atf-io/voicehub-sub001/internal/api/router"
	"github.com/atf-io/voicehub-sub001/internal/auth"
	"github.com/atf-io/voicehub-sub001/internal/campaigns"
	"github.com/atf-io/voicehub-sub001/internal/config"
	"github.com/atf-io/voicehub-sub001/internal/contacts"
	"github.com/atf-io/voicehub-sub001/internal/http/middleware"
	"github.com/atf-io/voicehub-sub001/internal/knowledge"
	"github.com/atf-io/voicehub-sub001/internal/notify"
	"github.com/atf-io/voicehub-sub001/internal/observability/metrics"
	"github.com/atf-io/voicehub-sub001/internal/phonenumbers"
	"github.com/atf-io/voicehub-sub001/internal/retell"
	"github.com/atf-io/voicehub-sub001/internal/reviews"
	"github.com/atf-io/voicehub-sub001/internal/settings"
	"github.com/atf-io/voicehub-sub001/internal/smsagents"
	syncapi "github.com/atf-io/voicehub-sub001/internal/sync"
	"github.com/atf-io/voicehub-sub001/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("connect database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("ping database", "error", err)
		os.Exit(1)
	}

	// Second handle via database/sql for the repositories and aggregate
	// queries that use the pq driver.
	sqlDB, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Error("open sql database", "error", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	sessions := buildSessionStore(cfg, logger)
	mailer := buildMailer(ctx, cfg, logger)

	authService := auth.NewService(auth.ServiceConfig{
		Repository:   auth.NewPostgresRepository(pool),
		SessionStore: sessions,
		SessionTTL:   cfg.SessionTTL,
		Mailer:       mailer,
		Logger:       logger.Component("auth"),
	})
	authHandler := auth.NewHandler(authService, cfg.SessionCookieName, cfg.CookieSecure, logger.Component("auth"))

	retellClient, err := retell.New(retell.Config{
		BaseURL: cfg.RetellBaseURL,
		APIKey:  cfg.RetellAPIKey,
		Timeout: cfg.RetellTimeout,
		Logger:  logger.Component("retell").Logger,
	})
	if err != nil {
		logger.Error("build provider client", "error", err)
		os.Exit(1)
	}

	agentRepo := agents.NewRepository(pool)
	numberRepo := phonenumbers.NewRepository(pool)
	userRepo := auth.NewPostgresRepository(pool)

	syncHandler := syncapi.NewHandler(syncapi.HandlerConfig{
		Provider:   retellClient,
		AgentStore: agentRepo,
		Numbers:    numberRepo,
		Metrics:    metrics.NewSyncMetrics(nil),
		Logger:     logger.Component("sync"),
	})

	r := router.New(router.Deps{
		Logger:      logger,
		AuthService: authService,
		AuthHandler: authHandler,
		IdentityProvider: middleware.IdentityProviderConfig{
			Secret:   cfg.IdentitySecret,
			Issuer:   cfg.IdentityIssuer,
			Audience: cfg.IdentityAudience,
		},
		SessionCookie:  cfg.SessionCookieName,
		AllowedOrigins: cfg.CORSAllowedOrigins,

		Agents:       agents.NewHandler(agentRepo, logger.Component("agents")),
		Sync:         syncHandler,
		PhoneNumbers: phonenumbers.NewHandler(numberRepo, logger.Component("phonenumbers")),
		Contacts:     contacts.NewHandler(contacts.NewRepository(pool), logger.Component("contacts")),
		SMSAgents:    smsagents.NewHandler(smsagents.NewRepository(pool), logger.Component("smsagents")),
		Campaigns:    campaigns.NewHandler(campaigns.NewRepository(pool), logger.Component("campaigns")),
		Knowledge:    knowledge.NewHandler(knowledge.NewRepository(pool), logger.Component("knowledge")),
		Reviews:      reviews.NewHandler(reviews.NewRepository(sqlDB), logger.Component("reviews")),
		Settings:     settings.NewHandler(settings.NewRepository(pool), userRepo, logger.Component("settings")),
		Analytics:    analytics.NewHandler(analytics.NewService(sqlDB), logger.Component("analytics")),
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("api listening", "port", cfg.Port, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
	logger.Info("shutdown complete")
}

// buildSessionStore prefers Redis so sessions survive restarts; without an
// address it degrades to the in-process store.
func buildSessionStore(cfg *config.Config, logger *logging.Logger) auth.SessionStore {
	if cfg.RedisAddr == "" {
		logger.Warn("no redis configured, using in-memory sessions")
		return auth.NewInMemorySessionStore()
	}
	opts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return auth.NewRedisSessionStore(redis.NewClient(opts))
}

func buildMailer(ctx context.Context, cfg *config.Config, logger *logging.Logger) *notify.Service {
	var sender notify.EmailSender
	switch cfg.EmailProvider {
	case "sendgrid":
		sender = notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger.Component("notify"))
	case "ses":
		awsCfg, err := config.LoadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Error("load aws config", "error", err)
			break
		}
		sender = notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.SESFromEmail,
			FromName:  cfg.SESFromName,
		}, logger.Component("notify"))
	}
	return notify.NewService(notify.ServiceConfig{
		Sender:  sender,
		BaseURL: cfg.PublicBaseURL,
		Logger:  logger.Component("notify"),
	})
}
