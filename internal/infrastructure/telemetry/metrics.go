package telemetry

import (
	"context"
	"fmt"

	"github.com/erp/supplychain/internal/domain/inventory"
	"github.com/erp/supplychain/internal/domain/shared"
	"github.com/erp/supplychain/internal/domain/trade"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap"
)

const meterName = "github.com/erp/supplychain"

// MeterProvider wraps the SDK meter provider. A nil provider leaves the
// global no-op provider in place.
type MeterProvider struct {
	provider *sdkmetric.MeterProvider
}

// NewMeterProvider pushes metrics over OTLP gRPC every MetricsInterval
func NewMeterProvider(ctx context.Context, cfg Config, log *zap.Logger) (*MeterProvider, error) {
	if !cfg.Enabled {
		log.Info("Metrics disabled")
		return &MeterProvider{}, nil
	}

	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.CollectorEndpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}
	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP metric exporter: %w", err)
	}

	res, err := newResource(cfg)
	if err != nil {
		return nil, err
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if cfg.MetricsInterval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.MetricsInterval))
	}
	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
	)
	otel.SetMeterProvider(provider)

	log.Info("Metrics enabled",
		zap.String("collector_endpoint", cfg.CollectorEndpoint),
		zap.Duration("interval", cfg.MetricsInterval),
	)
	return &MeterProvider{provider: provider}, nil
}

// Meter returns the service meter from the global provider
func (mp *MeterProvider) Meter(opts ...metric.MeterOption) metric.Meter {
	return otel.GetMeterProvider().Meter(meterName, opts...)
}

// Shutdown flushes the last collection cycle
func (mp *MeterProvider) Shutdown(ctx context.Context) error {
	if mp.provider == nil {
		return nil
	}
	if err := mp.provider.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown meter provider: %w", err)
	}
	return nil
}

// SupplyChainMetrics turns committed domain events into business counters.
// It subscribes to the event bus for all event types.
type SupplyChainMetrics struct {
	events         metric.Int64Counter
	unitsMoved     metric.Int64Counter
	lowStock       metric.Int64Counter
	amount         metric.Float64Counter
	orderUnits     metric.Int64Histogram
	cancelledUnits metric.Int64Counter
}

// NewSupplyChainMetrics registers the business instruments on meter
func NewSupplyChainMetrics(meter metric.Meter) (*SupplyChainMetrics, error) {
	m := &SupplyChainMetrics{}
	var err error
	if m.events, err = meter.Int64Counter("erp.domain.events",
		metric.WithDescription("Committed domain events by type"),
		metric.WithUnit("{event}")); err != nil {
		return nil, err
	}
	if m.unitsMoved, err = meter.Int64Counter("erp.stock.units_moved",
		metric.WithDescription("Units moved through the inventory ledger"),
		metric.WithUnit("{unit}")); err != nil {
		return nil, err
	}
	if m.lowStock, err = meter.Int64Counter("erp.stock.below_safety_stock",
		metric.WithDescription("Times an item dropped below its safety stock"),
		metric.WithUnit("{alert}")); err != nil {
		return nil, err
	}
	if m.amount, err = meter.Float64Counter("erp.trade.amount",
		metric.WithDescription("Monetary amounts billed, invoiced and settled"),
		metric.WithUnit("{currency}")); err != nil {
		return nil, err
	}
	if m.orderUnits, err = meter.Int64Histogram("erp.trade.order_quantity",
		metric.WithDescription("Ordered quantity per purchase and sales order"),
		metric.WithUnit("{unit}"),
		metric.WithExplicitBucketBoundaries(1, 5, 10, 25, 50, 100, 250, 1000)); err != nil {
		return nil, err
	}
	if m.cancelledUnits, err = meter.Int64Counter("erp.trade.cancelled_units",
		metric.WithDescription("Units released back to stock by cancellations"),
		metric.WithUnit("{unit}")); err != nil {
		return nil, err
	}
	return m, nil
}

// EventTypes is empty so the handler receives every event
func (m *SupplyChainMetrics) EventTypes() []string {
	return nil
}

// Handle records the event; it never fails the publisher
func (m *SupplyChainMetrics) Handle(ctx context.Context, event shared.DomainEvent) error {
	m.events.Add(ctx, 1, metric.WithAttributes(
		attribute.String("event_type", event.EventType()),
		attribute.String("aggregate_type", event.AggregateType()),
	))

	switch e := event.(type) {
	case *inventory.StockAdjustedEvent:
		direction := "in"
		units := int64(e.Delta)
		if units < 0 {
			direction, units = "out", -units
		}
		m.unitsMoved.Add(ctx, units, metric.WithAttributes(
			attribute.String("movement_type", string(e.MovementType)),
			attribute.String("direction", direction),
		))
	case *inventory.StockBelowSafetyStockEvent:
		m.lowStock.Add(ctx, 1)
	case *trade.PurchaseOrderCreatedEvent:
		m.orderUnits.Record(ctx, int64(e.QtyOrdered), metric.WithAttributes(attribute.String("order_kind", "purchase")))
	case *trade.SalesOrderConfirmedEvent:
		m.orderUnits.Record(ctx, int64(e.QtyOrdered), metric.WithAttributes(attribute.String("order_kind", "sales")))
	case *trade.SalesOrderCancelledEvent:
		m.cancelledUnits.Add(ctx, int64(e.ReleasedQty))
	case *trade.BillCreatedEvent:
		m.amount.Add(ctx, e.Amount.InexactFloat64(), metric.WithAttributes(attribute.String("kind", "billed")))
	case *trade.BillPaidEvent:
		m.amount.Add(ctx, e.Amount.InexactFloat64(), metric.WithAttributes(attribute.String("kind", "bill_paid")))
	case *trade.InvoicePaidEvent:
		m.amount.Add(ctx, e.Amount.InexactFloat64(), metric.WithAttributes(attribute.String("kind", "invoice_paid")))
	case *trade.InvoiceVoidedEvent:
		m.amount.Add(ctx, e.Amount.InexactFloat64(), metric.WithAttributes(attribute.String("kind", "invoice_voided")))
	}
	return nil
}

var _ shared.EventHandler = (*SupplyChainMetrics)(nil)
