package telemetry

import (
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const startedAtKey = "telemetry:started_at"

// DBConfig controls statement tracing
type DBConfig struct {
	Tracing    bool
	LogFullSQL bool
	SlowQuery  time.Duration
	DBSystem   string
}

// InstrumentDB registers otelgorm spans and a slow statement marker on db.
// Slow statements are flagged on the active span and logged with their table.
func InstrumentDB(db *gorm.DB, cfg DBConfig, log *zap.Logger) error {
	if !cfg.Tracing {
		return nil
	}
	opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBSystem)}
	if !cfg.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}
	if cfg.SlowQuery > 0 {
		if err := registerSlowQuery(db, cfg.SlowQuery, log); err != nil {
			return err
		}
	}
	log.Info("Database tracing enabled",
		zap.Bool("full_sql", cfg.LogFullSQL),
		zap.Duration("slow_query_threshold", cfg.SlowQuery))
	return nil
}

func registerSlowQuery(db *gorm.DB, threshold time.Duration, log *zap.Logger) error {
	before := func(tx *gorm.DB) {
		tx.InstanceSet(startedAtKey, time.Now())
	}
	after := func(tx *gorm.DB) {
		v, ok := tx.InstanceGet(startedAtKey)
		if !ok {
			return
		}
		elapsed := time.Since(v.(time.Time))
		if elapsed < threshold {
			return
		}
		trace.SpanFromContext(tx.Statement.Context).SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.duration_ms", elapsed.Milliseconds()),
		)
		log.Warn("Slow database statement",
			zap.String("table", tx.Statement.Table),
			zap.Duration("elapsed", elapsed),
			zap.Int64("rows", tx.Statement.RowsAffected),
		)
	}

	cb := db.Callback()
	if err := cb.Create().Before("gorm:create").Register("telemetry:before_create", before); err != nil {
		return err
	}
	if err := cb.Create().After("gorm:create").Register("telemetry:after_create", after); err != nil {
		return err
	}
	if err := cb.Query().Before("gorm:query").Register("telemetry:before_query", before); err != nil {
		return err
	}
	if err := cb.Query().After("gorm:query").Register("telemetry:after_query", after); err != nil {
		return err
	}
	if err := cb.Update().Before("gorm:update").Register("telemetry:before_update", before); err != nil {
		return err
	}
	if err := cb.Update().After("gorm:update").Register("telemetry:after_update", after); err != nil {
		return err
	}
	if err := cb.Delete().Before("gorm:delete").Register("telemetry:before_delete", before); err != nil {
		return err
	}
	if err := cb.Delete().After("gorm:delete").Register("telemetry:after_delete", after); err != nil {
		return err
	}
	if err := cb.Row().Before("gorm:row").Register("telemetry:before_row", before); err != nil {
		return err
	}
	if err := cb.Row().After("gorm:row").Register("telemetry:after_row", after); err != nil {
		return err
	}
	if err := cb.Raw().Before("gorm:raw").Register("telemetry:before_raw", before); err != nil {
		return err
	}
	return cb.Raw().After("gorm:raw").Register("telemetry:after_raw", after)
}
