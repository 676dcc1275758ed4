package testutil

import (
	"fmt"
	"testing"

	"github.com/erp/supplychain/internal/application/txscope"
	"github.com/erp/supplychain/internal/infrastructure/persistence"
	"github.com/erp/supplychain/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestStore is an in-memory SQLite store with the full schema.
type TestStore struct {
	DB    *gorm.DB
	Repos txscope.Repositories
	Scope txscope.TransactionScope
}

// NewTestStore opens a private in-memory database for one test. The pool is
// limited to one connection so every statement sees the same database; code
// under test must not use the pool while a transaction is open.
func NewTestStore(t *testing.T) *TestStore {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "Failed to open SQLite database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...), "Failed to migrate schema")

	return &TestStore{
		DB:    db,
		Repos: persistence.NewRepositories(db),
		Scope: persistence.NewGormTransactionScope(db),
	}
}
