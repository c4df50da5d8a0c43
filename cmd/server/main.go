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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/mamadbah2/poultry-api/internal/config"
	"github.com/mamadbah2/poultry-api/internal/observability/metrics"
	"github.com/mamadbah2/poultry-api/internal/repository/memory"
	"github.com/mamadbah2/poultry-api/internal/repository/mongodb"
	"github.com/mamadbah2/poultry-api/internal/repository/sheets"
	"github.com/mamadbah2/poultry-api/internal/repository/sqlstore"
	"github.com/mamadbah2/poultry-api/internal/scheduler"
	"github.com/mamadbah2/poultry-api/internal/server/handlers"
	"github.com/mamadbah2/poultry-api/internal/server/router"
	"github.com/mamadbah2/poultry-api/internal/service/alerts"
	"github.com/mamadbah2/poultry-api/internal/service/commands"
	"github.com/mamadbah2/poultry-api/internal/service/records"
	reportingsvc "github.com/mamadbah2/poultry-api/internal/service/reporting"
	whatsappsvc "github.com/mamadbah2/poultry-api/internal/service/whatsapp"
	whatsappclient "github.com/mamadbah2/poultry-api/pkg/clients/whatsapp"
	"github.com/mamadbah2/poultry-api/pkg/logger"
)

// recordStore is what the server needs from a persistence backend.
type recordStore interface {
	records.Store
	reportingsvc.Counter
}

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Server.LogLevel, cfg.Server.Version))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	store, closeStore, err := openStore(context.Background(), cfg, baseLogger)
	if err != nil {
		baseLogger.Fatal("failed to init record store", zap.Error(err), zap.String("driver", cfg.Store.Driver))
	}
	defer closeStore()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics, err := metrics.NewMetrics(registry)
	if err != nil {
		baseLogger.Fatal("failed to register metrics", zap.Error(err))
	}

	var (
		apiClient   *whatsappclient.APIClient
		whatsClient whatsappclient.Client
		observers   []records.RecordObserver
		notifier    *alerts.Notifier
	)
	if cfg.WhatsApp.Enabled() || cfg.WhatsApp.WebhookEnabled() {
		apiClient = whatsappclient.NewClient(cfg.WhatsApp)
		whatsClient = apiClient
	}
	if cfg.WhatsApp.Enabled() {
		notifier = alerts.NewNotifier(alerts.Config{
			Recipient: cfg.WhatsApp.AlertRecipient,
			Cooldown:  cfg.Alerts.Cooldown,
		}, whatsClient, appMetrics, baseLogger.Named("svc.alerts"))
		observers = append(observers, notifier)
		baseLogger.Info("whatsapp alerts enabled")
	} else {
		baseLogger.Warn("whatsapp not configured, alerts and summaries will not be sent")
	}

	recordsSvc := records.NewService(store, baseLogger.Named("svc.records"), observers...)

	var sheetsRepo sheets.Repository
	if cfg.Sheets.Enabled() {
		repo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		sheetsRepo = repo
	}

	loc, err := time.LoadLocation(cfg.Reporting.Timezone)
	if err != nil {
		baseLogger.Fatal("invalid timezone", zap.Error(err))
	}
	reportingSvc := reportingsvc.NewService(store, sheetsRepo, loc, baseLogger.Named("svc.reporting"))

	sched := scheduler.NewScheduler(scheduler.Options{
		Schedule:  cfg.Reporting.CronSchedule,
		Location:  loc,
		Recipient: cfg.WhatsApp.AlertRecipient,
		Format:    reportingsvc.FormatSummary,
	}, reportingSvc, whatsClient, baseLogger.Named("scheduler"))
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	var webhook *handlers.WebhookHandler
	if cfg.WhatsApp.WebhookEnabled() {
		dispatcher := commands.NewService(recordsSvc, reportingSvc, reportingsvc.FormatSummary, baseLogger.Named("svc.commands"))
		channel := whatsappsvc.NewChannel(cfg.WhatsApp, apiClient, dispatcher, baseLogger.Named("svc.whatsapp"))
		webhook = handlers.NewWebhookHandler(channel, baseLogger.Named("handlers.webhook"))
		baseLogger.Info("whatsapp webhook enabled")
	}

	engine := router.New(router.Dependencies{
		Records:        handlers.NewRecordsHandler(recordsSvc, appMetrics, baseLogger.Named("handlers.records")),
		Health:         handlers.NewHealthHandler(cfg.Server.Version),
		Webhook:        webhook,
		Metrics:        appMetrics,
		AllowedOrigins: cfg.Server.CORSAllowedOrigins,
	}, baseLogger.Named("router"))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("store", cfg.Store.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}

	if notifier != nil {
		notifier.Wait()
	}
}

// openStore selects the persistence backend and returns a matching close function.
func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (recordStore, func(), error) {
	switch cfg.Store.Driver {
	case config.DriverSQLite:
		repo, err := sqlstore.NewRepository(cfg.Store.SQLitePath, log.Named("repo.sqlite"))
		if err != nil {
			return nil, nil, err
		}
		return repo, func() {
			if err := repo.Close(); err != nil {
				log.Error("failed to close sqlite database", zap.Error(err))
			}
		}, nil

	case config.DriverMongoDB:
		connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()

		repo, err := mongodb.NewMongoDBRepository(connectCtx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() {
			if err := repo.Close(context.Background()); err != nil {
				log.Error("failed to close mongodb connection", zap.Error(err))
			}
		}, nil

	case config.DriverMemory:
		log.Warn("using in-memory store, records are lost on restart")
		return memory.NewRepository(), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
}
