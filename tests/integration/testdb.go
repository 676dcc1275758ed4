//go:build integration

// Package integration runs the services against a real PostgreSQL started
// with testcontainers. Run with: go test -tags integration ./tests/integration/...
package integration

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/erp/supplychain/internal/application/txscope"
	"github.com/erp/supplychain/internal/infrastructure/migration"
	"github.com/erp/supplychain/internal/infrastructure/persistence"
	"github.com/erp/supplychain/migrations"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var (
	// one container per test binary; tests truncate between runs
	sharedContainer    *tcpostgres.PostgresContainer
	sharedContainerMu  sync.Mutex
	sharedContainerDSN string
)

// TestDB is a migrated PostgreSQL database with the repositories wired on top
type TestDB struct {
	Database *persistence.Database
	Repos    txscope.Repositories
	Scope    txscope.TransactionScope
	t        *testing.T
}

// NewTestDB connects to the shared container, starting and migrating it on
// first use, and empties every table before returning
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()
	if testing.Short() {
		t.Skip("integration tests skipped in short mode")
	}

	dsn := sharedDSN(t)

	log := zap.NewNop()
	if os.Getenv("TEST_DB_DEBUG") != "" {
		log = zaptest.NewLogger(t)
	}
	db, err := persistence.Open(gormpostgres.Open(dsn), persistence.WithLogger(log, "info", 200*time.Millisecond))
	require.NoError(t, err, "Failed to connect to database")

	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(10)
	t.Cleanup(func() { _ = db.Close() })

	tdb := &TestDB{
		Database: db,
		Repos:    persistence.NewRepositories(db.DB),
		Scope:    persistence.NewGormTransactionScope(db.DB),
		t:        t,
	}
	tdb.CleanTables()
	return tdb
}

func sharedDSN(t *testing.T) string {
	t.Helper()
	sharedContainerMu.Lock()
	defer sharedContainerMu.Unlock()

	if sharedContainer != nil {
		return sharedContainerDSN
	}

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("supplychain_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "Failed to get connection string")

	runMigrations(t, dsn)

	sharedContainer = container
	sharedContainerDSN = dsn
	return dsn
}

// runMigrations applies the embedded migrations
func runMigrations(t *testing.T, dsn string) {
	t.Helper()

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	m, err := migration.New(sqlDB, migrations.FS, zap.NewNop())
	require.NoError(t, err, "Failed to create migrator")
	require.NoError(t, m.Up(), "Failed to run migrations")
}

// CleanTables truncates every table except the migration bookkeeping
func (tdb *TestDB) CleanTables() {
	tdb.t.Helper()

	var tables []string
	err := tdb.Database.DB.Raw(`
		SELECT tablename FROM pg_tables
		WHERE schemaname = 'public'
		AND tablename != 'schema_migrations'
	`).Scan(&tables).Error
	require.NoError(tdb.t, err, "Failed to get table names")

	for _, table := range tables {
		err := tdb.Database.DB.Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)).Error
		require.NoError(tdb.t, err, "Failed to truncate %s", table)
	}
}

func terminateSharedContainer() {
	sharedContainerMu.Lock()
	defer sharedContainerMu.Unlock()
	if sharedContainer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	_ = sharedContainer.Terminate(ctx)
}
