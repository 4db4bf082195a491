package cmd

import (
	"context"
	"fmt"

	"github.com/Siddharth20050904/inventory-management/internal/cache"
	"github.com/Siddharth20050904/inventory-management/internal/config"
	"github.com/Siddharth20050904/inventory-management/internal/database"
	"github.com/Siddharth20050904/inventory-management/internal/notify"
	"github.com/Siddharth20050904/inventory-management/internal/observability"
	"github.com/Siddharth20050904/inventory-management/internal/repository"
	"github.com/Siddharth20050904/inventory-management/internal/services"
	"github.com/Siddharth20050904/inventory-management/pkg/whatsapp"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// app holds everything a command needs. close releases it in reverse order of creation.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *gorm.DB
	cache  cache.Cache
	redis  *cache.Client

	orders    services.OrderService
	purchases services.PurchaseService
	catalog   services.CatalogService
	reports   services.ReportService
	reminders services.ReminderService

	closers []func() error
}

func bootstrap(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := observability.NewLogger(cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	a := &app{cfg: cfg, logger: logger}
	a.closers = append(a.closers, func() error { _ = logger.Sync(); return nil })

	shutdownTracing, err := observability.SetupTracing(ctx, observability.TracingConfig{
		Endpoint:   cfg.OTelEndpoint,
		AuthHeader: cfg.OTelAuthHeader,
		Version:    Version,
	})
	if err != nil {
		logger.Warn("tracing disabled", zap.Error(err))
	}
	a.closers = append(a.closers, func() error { return shutdownTracing(context.Background()) })

	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		a.close()
		return nil, err
	}
	a.db = db
	a.closers = append(a.closers, func() error { return database.Close(db) })

	a.cache = cache.Noop()
	if cfg.RedisURL != "" {
		client, err := cache.Initialize(ctx, cfg.RedisURL)
		if err != nil {
			logger.Warn("redis unavailable, report caching disabled", zap.Error(err))
		} else {
			a.cache = client
			a.redis = client
			a.closers = append(a.closers, client.Close)
		}
	}

	notifier := a.buildNotifier()

	productRepo := repository.NewProductRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	purchaseRepo := repository.NewPurchaseOrderRepository(db)

	a.orders = services.NewOrderService(orderRepo, productRepo, customerRepo, notifier, logger)
	a.purchases = services.NewPurchaseService(purchaseRepo, productRepo, logger)
	a.catalog = services.NewCatalogService(productRepo, customerRepo, orderRepo, purchaseRepo, logger)
	a.reports = services.NewReportService(repository.NewReportRepository(db), orderRepo, productRepo, customerRepo,
		a.cache, cfg.CacheDuration(), logger)
	a.reminders = services.NewReminderService(orderRepo, notifier, cfg.ReminderGraceDays, logger)
	return a, nil
}

func (a *app) buildNotifier() notify.Notifier {
	var fanout notify.Multi
	if a.cfg.WhatsAppAPIURL != "" {
		client := whatsapp.NewClient(a.cfg.WhatsAppAPIURL, a.cfg.WhatsAppUsername, a.cfg.WhatsAppPassword, a.cfg.WhatsAppPath)
		fanout = append(fanout, notify.NewWhatsAppNotifier(client, a.cfg.WhatsAppCountryCode))
	}
	if len(a.cfg.KafkaBrokers) > 0 {
		writer := notify.NewKafkaWriter(a.cfg.KafkaBrokers, a.cfg.KafkaOrderTopic)
		a.closers = append(a.closers, writer.Close)
		fanout = append(fanout, notify.NewKafkaNotifier(writer))
	}
	switch len(fanout) {
	case 0:
		a.logger.Info("no notifier configured, order confirmations are dropped")
		return notify.Noop()
	case 1:
		return fanout[0]
	}
	return fanout
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && a.logger != nil {
			a.logger.Warn("shutdown step failed", zap.Error(err))
		}
	}
	a.closers = nil
}
