package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/erp/supplychain/internal/domain/shared"
	"github.com/erp/supplychain/internal/infrastructure/config"
	"github.com/erp/supplychain/internal/infrastructure/logger"
	"github.com/erp/supplychain/internal/infrastructure/telemetry"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Database holds the database connection and provides methods for database operations
type Database struct {
	DB *gorm.DB
}

type options struct {
	log           *zap.Logger
	logLevel      string
	slowThreshold time.Duration
	tracing       telemetry.DBConfig
	pool          *config.DatabaseConfig
}

// Option customises how the connection is opened
type Option func(*options)

// WithLogger routes GORM statement logs through zap at the given level name
func WithLogger(log *zap.Logger, level string, slowThreshold time.Duration) Option {
	return func(o *options) {
		o.log = log
		o.logLevel = level
		o.slowThreshold = slowThreshold
	}
}

// WithTracing registers otelgorm spans on the connection
func WithTracing(cfg telemetry.DBConfig) Option {
	return func(o *options) { o.tracing = cfg }
}

// NewDatabase connects to PostgreSQL and applies the pool limits from cfg
func NewDatabase(cfg config.DatabaseConfig, opts ...Option) (*Database, error) {
	opts = append(opts, func(o *options) { o.pool = &cfg })
	return Open(postgres.Open(cfg.DSN()), opts...)
}

// Open connects through any GORM dialector and verifies the connection
func Open(dialector gorm.Dialector, opts ...Option) (*Database, error) {
	o := options{log: zap.NewNop(), logLevel: "warn", slowThreshold: 200 * time.Millisecond}
	for _, opt := range opts {
		opt(&o)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.NewGormLogger(o.log.Named("gorm"), logger.MapGormLogLevel(o.logLevel),
			logger.WithSlowThreshold(o.slowThreshold),
			logger.WithExpectedErrors(isExpectedError),
		),
		SkipDefaultTransaction: true,
		// pool settings apply before the first connection; Open pings below
		DisableAutomaticPing: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if p := o.pool; p != nil {
		sqlDB.SetMaxOpenConns(p.MaxOpenConns)
		sqlDB.SetMaxIdleConns(p.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(time.Duration(p.ConnMaxLifetime) * time.Minute)
		sqlDB.SetConnMaxIdleTime(time.Duration(p.ConnMaxIdleTime) * time.Minute)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := telemetry.InstrumentDB(db, o.tracing, o.log); err != nil {
		return nil, fmt.Errorf("failed to instrument database: %w", err)
	}

	return &Database{DB: db}, nil
}

// isExpectedError reports store errors that stand for a business outcome,
// such as a duplicate bill, so they are not logged as failures.
func isExpectedError(err error) bool {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false
	}
	var de *shared.DomainError
	return errors.As(translateError(err), &de)
}

// Close closes the database connection
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}

// Ping checks the connection within the deadline of ctx
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// ConnectionStats holds database connection pool statistics
type ConnectionStats struct {
	MaxOpenConnections int           `json:"max_open_connections"`
	OpenConnections    int           `json:"open_connections"`
	InUse              int           `json:"in_use"`
	Idle               int           `json:"idle"`
	WaitCount          int64         `json:"wait_count"`
	WaitDuration       time.Duration `json:"wait_duration"`
}

// Stats returns connection pool statistics for the readiness probe
func (d *Database) Stats() (ConnectionStats, error) {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return ConnectionStats{}, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	s := sqlDB.Stats()
	return ConnectionStats{
		MaxOpenConnections: s.MaxOpenConnections,
		OpenConnections:    s.OpenConnections,
		InUse:              s.InUse,
		Idle:               s.Idle,
		WaitCount:          s.WaitCount,
		WaitDuration:       s.WaitDuration,
	}, nil
}
