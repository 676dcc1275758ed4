package router

import (
	"fmt"
	"net/http"

	"github.com/erp/supplychain/internal/domain/shared"
	"github.com/erp/supplychain/internal/infrastructure/config"
	"github.com/erp/supplychain/internal/infrastructure/logger"
	"github.com/erp/supplychain/internal/interfaces/http/dto"
	"github.com/erp/supplychain/internal/interfaces/http/handler"
	"github.com/erp/supplychain/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// EngineConfig holds what the HTTP engine is assembled from
type EngineConfig struct {
	ServiceName string
	HTTP        config.HTTPConfig
	Swagger     config.SwaggerConfig
	Logger      *zap.Logger

	// Tracing turns on otelgin server spans
	Tracing bool
	// Profiling labels CPU samples with the serving route
	Profiling bool
	// Meter records HTTP metrics when set
	Meter metric.Meter

	// IdempotencyStore enables Idempotency-Key replay when set
	IdempotencyStore   shared.IdempotencyStore
	IdempotencyOptions middleware.IdempotencyOptions

	Health *handler.HealthHandler
}

// NewEngine assembles the gin engine: middleware chain, health probes,
// API docs and the versioned API routes
func NewEngine(cfg EngineConfig, handlers Handlers) (*gin.Engine, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}

	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
	)
	if cfg.Tracing {
		engine.Use(middleware.Tracing(cfg.ServiceName), middleware.SpanAttributes())
	}
	if cfg.Meter != nil {
		httpMetrics, err := middleware.HTTPMetrics(cfg.Meter)
		if err != nil {
			return nil, fmt.Errorf("http metrics: %w", err)
		}
		engine.Use(httpMetrics)
	}
	if cfg.Profiling {
		engine.Use(middleware.ProfilingLabels())
	}
	engine.Use(
		middleware.CORS(cfg.HTTP),
		middleware.Secure(),
	)
	if cfg.HTTP.MaxBodyBytes > 0 {
		engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodyBytes))
	}
	if cfg.IdempotencyStore != nil {
		opts := cfg.IdempotencyOptions
		if opts.Logger == nil {
			opts.Logger = log
		}
		engine.Use(middleware.Idempotency(cfg.IdempotencyStore, opts))
	}

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponseWithRequestID(
			shared.CodeNotFound, "Route not found", middleware.GetRequestID(c)))
	})

	if cfg.Health != nil {
		engine.GET("/health", cfg.Health.Health)
		engine.GET("/health/ready", cfg.Health.Ready)
	}
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(cfg.Swagger),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	r := NewRouter(engine, WithAPIVersion("v1"))
	for _, group := range handlers.Groups() {
		r.Register(group)
	}
	r.Setup()

	return engine, nil
}
