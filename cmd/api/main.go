package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Lugier/M-A-CRM-sub001/internal/activities"
	"github.com/Lugier/M-A-CRM-sub001/internal/analytics"
	"github.com/Lugier/M-A-CRM-sub001/internal/config"
	"github.com/Lugier/M-A-CRM-sub001/internal/deals"
	"github.com/Lugier/M-A-CRM-sub001/internal/documents"
	"github.com/Lugier/M-A-CRM-sub001/internal/documents/storage"
	"github.com/Lugier/M-A-CRM-sub001/internal/email"
	"github.com/Lugier/M-A-CRM-sub001/internal/events"
	apphttp "github.com/Lugier/M-A-CRM-sub001/internal/http"
	"github.com/Lugier/M-A-CRM-sub001/internal/http/router"
	"github.com/Lugier/M-A-CRM-sub001/internal/investors"
	invsvc "github.com/Lugier/M-A-CRM-sub001/internal/investors/service"
	"github.com/Lugier/M-A-CRM-sub001/internal/mentions"
	"github.com/Lugier/M-A-CRM-sub001/internal/notifications"
	"github.com/Lugier/M-A-CRM-sub001/internal/scheduler"
	"github.com/Lugier/M-A-CRM-sub001/internal/tasks"
	"github.com/Lugier/M-A-CRM-sub001/internal/users"
	"github.com/Lugier/M-A-CRM-sub001/platform/db"
	"github.com/Lugier/M-A-CRM-sub001/platform/logger"
	"github.com/Lugier/M-A-CRM-sub001/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg.DatabaseURL, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	eventBus := events.NewInMemoryBus(log)
	val := validator.New()

	var sender invsvc.EmailSender
	if smtp := email.NewSMTPSender(cfg); smtp != nil {
		sender = smtp
		log.Info("smtp sender initialized", "host", cfg.SMTPHost)
	} else {
		log.Warn("SMTP_HOST not configured; outreach mail disabled")
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	usersModule := users.NewModule(pool, val, log)
	dealsModule := deals.NewModule(pool, eventBus, val, log)
	investorsModule := investors.NewModule(pool, eventBus, sender, val, log)
	notificationsModule := notifications.NewModule(pool)

	resolver := mentions.NewDirectoryResolver(usersModule.Store())
	notifier := mentions.NewNotifier(resolver, notificationsModule.InApp(), notificationsModule.Outbox(), cfg.AppBaseURL, log)

	activitiesModule := activities.NewModule(pool, dealsModule.Service(), usersModule.Store(), notifier, eventBus, val, log)

	tasksModule, err := tasks.NewModule(pool, eventBus, val, log)
	if err != nil {
		log.Error("failed to initialize tasks module", "error", err)
		panic("failed to initialize tasks module: " + err.Error())
	}

	analyticsModule := analytics.NewModule(pool, log)

	modules := []apphttp.Module{
		usersModule,
		dealsModule,
		investorsModule,
		activitiesModule,
		tasksModule,
		notificationsModule,
		analyticsModule,
	}

	if cfg.MinioEndpoint != "" {
		objects, err := storage.NewMinioStore(ctx, cfg)
		if err != nil {
			log.Error("failed to initialize document storage", "error", err)
			panic("failed to initialize document storage: " + err.Error())
		}
		modules = append(modules, documents.NewModule(pool, objects, eventBus, log))
		log.Info("document storage initialized", "bucket", cfg.MinioBucketDocuments)
	} else {
		log.Warn("MINIO_ENDPOINT not configured; document storage disabled")
	}

	// ========================================================================
	// Background Dispatcher
	// ========================================================================

	if cfg.RedisURL != "" {
		client, err := scheduler.NewClient(cfg)
		if err != nil {
			log.Error("failed to initialize scheduler client", "error", err)
			panic("failed to initialize scheduler client: " + err.Error())
		}
		defer client.Close()

		dispatcher := scheduler.NewDispatcher(notificationsModule.Outbox(), client, log)
		go dispatcher.Run(ctx)
		log.Info("webhook outbox dispatcher started")
	} else {
		log.Warn("REDIS_URL not configured; webhook delivery disabled")
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	engine := router.New(cfg, log, modules...)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}
	return fmt.Errorf("%s: %w", name, lastErr)
}
