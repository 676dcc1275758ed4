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

	inventoryapp "github.com/erp/supplychain/internal/application/inventory"
	partnerapp "github.com/erp/supplychain/internal/application/partner"
	tradeapp "github.com/erp/supplychain/internal/application/trade"
	"github.com/erp/supplychain/internal/application/txscope"
	"github.com/erp/supplychain/internal/domain/shared"
	"github.com/erp/supplychain/internal/infrastructure/cache"
	"github.com/erp/supplychain/internal/infrastructure/config"
	"github.com/erp/supplychain/internal/infrastructure/event"
	"github.com/erp/supplychain/internal/infrastructure/logger"
	"github.com/erp/supplychain/internal/infrastructure/persistence"
	"github.com/erp/supplychain/internal/infrastructure/scheduler"
	"github.com/erp/supplychain/internal/infrastructure/telemetry"
	"github.com/erp/supplychain/internal/interfaces/http/handler"
	"github.com/erp/supplychain/internal/interfaces/http/middleware"
	"github.com/erp/supplychain/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "github.com/erp/supplychain/docs"
)

//go:generate swag init -g cmd/server/main.go -d ../../ -o ../../docs --parseInternal --v3.1

//	@title			Supply Chain API
//	@version		1.0
//	@description	Procurement, fulfillment and inventory ledger backend with versioned price negotiation.

//	@contact.name	API Support
//	@contact.url	https://github.com/erp/supplychain

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx := context.Background()

	// Telemetry comes up before the real logger so the OTLP bridge can be teed in
	bootLog := logger.NewForEnvironment(cfg.App.Env)
	tel, err := telemetry.Setup(ctx, telemetry.FromConfig(cfg, version), bootLog)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			bootLog.Warn("Telemetry shutdown failed", zap.Error(err))
		}
	}()

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	}, tel.Logs.ZapCore(logger.ParseLevel(cfg.Log.Level)))
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting supply chain backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", version),
		zap.String("port", cfg.App.Port),
	)

	db, err := persistence.NewDatabase(cfg.Database,
		persistence.WithLogger(log, cfg.Log.Level, cfg.Telemetry.DBSlowQueryThresh),
		persistence.WithTracing(telemetry.DBConfig{
			Tracing:    cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
			LogFullSQL: cfg.Telemetry.DBLogFullSQL,
			SlowQuery:  cfg.Telemetry.DBSlowQueryThresh,
			DBSystem:   "postgresql",
		}),
	)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected", zap.String("host", cfg.Database.Host), zap.String("db", cfg.Database.DBName))

	bus, closeBus, err := newEventBus(cfg, tel, log)
	if err != nil {
		return err
	}
	defer closeBus()

	var idempotency shared.IdempotencyStore
	if cfg.Idempotency.Enabled {
		factory := cache.NewIdempotencyStoreFactory(cfg.Redis,
			cache.WithLogger(log),
			cache.WithInMemoryFallback(!cfg.IsProduction()),
		)
		if idempotency, err = factory.CreateStore(ctx); err != nil {
			return err
		}
		defer func() {
			if err := idempotency.Close(); err != nil {
				log.Warn("Error closing idempotency store", zap.Error(err))
			}
		}()
	}

	repos := persistence.NewRepositories(db.DB)
	scope := persistence.NewGormTransactionScope(db.DB)

	services := buildServices(repos, scope, bus)

	if cfg.Scheduler.Enabled {
		sched := scheduler.New(scheduler.Config{
			Interval:   cfg.Scheduler.LowStockInterval,
			MaxRetries: cfg.Scheduler.MaxRetries,
			RetryDelay: cfg.Scheduler.RetryDelay,
			RunOnStart: true,
		}, log.Named("scheduler"))
		sched.Register(inventoryapp.NewLowStockSweep(services.StockItems, log.Named("low_stock_sweep")))
		if err := sched.Start(ctx); err != nil {
			return err
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
			defer cancel()
			if err := sched.Stop(stopCtx); err != nil {
				log.Warn("Scheduler did not stop in time", zap.Error(err))
			}
		}()
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine, err := router.NewEngine(router.EngineConfig{
		ServiceName:      cfg.Telemetry.ServiceName,
		HTTP:             cfg.HTTP,
		Swagger:          cfg.Swagger,
		Logger:           log,
		Tracing:          tel.Tracer.Enabled(),
		Profiling:        tel.Profiler.Enabled(),
		Meter:            tel.Meter.Meter(),
		IdempotencyStore: idempotency,
		IdempotencyOptions: middleware.IdempotencyOptions{
			TTL:     cfg.Idempotency.TTL,
			LockTTL: cfg.Idempotency.LockTTL,
			Logger:  log,
		},
		Health: handler.NewHealthHandler(db, cfg.App.Name, version),
	}, router.NewHandlers(services))
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		log.Info("Shutting down server", zap.String("signal", sig.String()))
	case err := <-serverErr:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := bus.Stop(shutdownCtx); err != nil {
		log.Warn("Event bus did not drain", zap.Error(err))
	}

	log.Info("Server exited gracefully")
	return nil
}

// buildServices creates the application services. Partner CRUD raises no
// domain events, so only the inventory and trade services publish.
func buildServices(repos txscope.Repositories, scope txscope.TransactionScope, publisher shared.EventPublisher) router.Services {
	services := router.Services{
		StockItems:  inventoryapp.NewStockItemService(repos, scope),
		Suppliers:   partnerapp.NewSupplierService(repos, scope),
		Clients:     partnerapp.NewClientService(repos, scope),
		Procurement: tradeapp.NewProcurementService(repos, scope),
		Sales:       tradeapp.NewSalesService(repos, scope),
	}
	services.StockItems.SetEventPublisher(publisher)
	services.Procurement.SetEventPublisher(publisher)
	services.Sales.SetEventPublisher(publisher)
	return services
}

// newEventBus builds the in-process bus and subscribes the low stock alerts,
// the business metrics and, when enabled, the Kafka forwarder
func newEventBus(cfg *config.Config, tel *telemetry.Telemetry, log *zap.Logger) (*event.InMemoryEventBus, func(), error) {
	bus := event.NewInMemoryEventBus(log.Named("events"),
		event.WithTracer(tel.Tracer.Tracer("github.com/erp/supplychain/events")))

	bus.Subscribe(inventoryapp.NewLowStockHandler(log.Named("low_stock")))

	metrics, err := telemetry.NewSupplyChainMetrics(tel.Meter.Meter())
	if err != nil {
		return nil, nil, fmt.Errorf("business metrics: %w", err)
	}
	bus.Subscribe(metrics)

	closeFn := func() {}
	if k := cfg.Events.Kafka; k.Enabled {
		forwarder := event.NewKafkaForwarder(event.NewKafkaWriter(k), k.WriteTimeout, log.Named("kafka"))
		bus.Subscribe(forwarder)
		closeFn = func() {
			if err := forwarder.Close(); err != nil {
				log.Warn("Error closing Kafka writer", zap.Error(err))
			}
		}
		log.Info("Forwarding domain events to Kafka",
			zap.Strings("brokers", k.Brokers),
			zap.String("topic", k.Topic),
		)
	}

	if err := bus.Start(context.Background()); err != nil {
		closeFn()
		return nil, nil, err
	}
	return bus, closeFn, nil
}
