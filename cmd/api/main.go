package main

import (
	"context"
	"crypto/tls"
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

	"github.com/neighborhoodkrew/krew-leads-platform/internal/api/router"
	appconfig "github.com/neighborhoodkrew/krew-leads-platform/internal/config"
	"github.com/neighborhoodkrew/krew-leads-platform/internal/funnel"
	"github.com/neighborhoodkrew/krew-leads-platform/internal/gallery"
	"github.com/neighborhoodkrew/krew-leads-platform/internal/kv"
	"github.com/neighborhoodkrew/krew-leads-platform/internal/leads"
	"github.com/neighborhoodkrew/krew-leads-platform/internal/newsletter"
	"github.com/neighborhoodkrew/krew-leads-platform/internal/notify"
	"github.com/neighborhoodkrew/krew-leads-platform/internal/observability/metrics"
	"github.com/neighborhoodkrew/krew-leads-platform/internal/webhook"
	"github.com/neighborhoodkrew/krew-leads-platform/pkg/logging"
)

func main() {
	// Optional .env for local development.
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting krew-leads-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	// Storage: Redis-backed collections in deployment, in-process memory for
	// local runs and demos.
	var store kv.Store
	if cfg.UseMemoryStore || cfg.RedisAddr == "" {
		logger.Info("using in-memory store")
		store = kv.NewMemoryStore()
	} else {
		opts := &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		client := redis.NewClient(opts)
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := client.Ping(pingCtx).Err(); err != nil {
			cancel()
			logger.Error("failed to connect to redis", "error", err, "addr", cfg.RedisAddr)
			os.Exit(1)
		}
		cancel()
		logger.Info("connected to redis", "addr", cfg.RedisAddr)
		store = kv.NewRedisStore(client)
	}

	// Lead storage, optionally mirrored into Postgres for reporting.
	var repo leads.Repository = leads.NewKVRepository(store)
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to postgres", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		logger.Info("lead archive enabled")
		repo = leads.NewTeeRepository(repo, leads.NewPostgresRepository(pool), logger)
	}

	registry := prometheus.NewRegistry()
	funnelMetrics := metrics.NewFunnelMetrics(registry)

	// Operator notifications.
	var emailSender notify.EmailSender
	if sg := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger); sg != nil {
		emailSender = sg
	} else {
		logger.Info("sendgrid not configured, lead emails disabled")
		emailSender = notify.NewStubEmailSender(logger)
	}
	notifier := notify.NewService(emailSender, cfg.NotifyEmail, logger)

	// Webhook dispatch and the services built on it.
	webhookConfig := webhook.NewConfigStore(store)
	dispatcher := webhook.NewDispatcher(webhookConfig, cfg.WebhookTimeout, logger, funnelMetrics)
	newsletterSvc := newsletter.NewService(newsletter.NewStore(store), dispatcher, funnelMetrics, logger)

	manager := funnel.NewManager(repo, notifier, funnelMetrics, logger)
	exporter := leads.NewExporter(store)

	r := router.New(&router.Config{
		Logger:             logger,
		FunnelHandler:      funnel.NewHandler(manager, newsletterSvc, logger),
		GalleryHandler:     gallery.NewHandler(gallery.NewStore(store), logger),
		NewsletterHandler:  newsletter.NewHandler(newsletterSvc, logger),
		LeadsHandler:       leads.NewHandler(repo, exporter, funnelMetrics, logger),
		WebhookHandler:     webhook.NewHandler(webhookConfig, dispatcher, logger),
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
