package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type mockLowStockSource struct {
	mock.Mock
}

func (m *mockLowStockSource) LowStockAlerts(ctx context.Context) ([]LowStockAlertResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]LowStockAlertResponse), args.Error(1)
}

func TestLowStockSweep_LogsEachItem(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	source := new(mockLowStockSource)
	source.On("LowStockAlerts", mock.Anything).Return([]LowStockAlertResponse{
		{ItemID: uuid.New(), ItemName: "Gasket", CurrentQty: 0, SafetyStock: 10, SuggestedReorderQty: 20, UrgencyScore: 1},
		{ItemID: uuid.New(), ItemName: "Washer", CurrentQty: 4, SafetyStock: 10, SuggestedReorderQty: 16, UrgencyScore: 0.6},
	}, nil)

	sweep := NewLowStockSweep(source, zap.New(core))
	require.NoError(t, sweep.Run(context.Background()))

	assert.Equal(t, "low_stock_sweep", sweep.Name())
	assert.Equal(t, 2, sweep.LastCount())
	assert.Equal(t, 2, logs.FilterMessage("reorder suggested").Len())
	first := logs.FilterMessage("reorder suggested").All()[0].ContextMap()
	assert.Equal(t, "Gasket", first["item_name"])
	source.AssertExpectations(t)
}

func TestLowStockSweep_NothingLow(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	source := new(mockLowStockSource)
	source.On("LowStockAlerts", mock.Anything).Return([]LowStockAlertResponse{}, nil)

	sweep := NewLowStockSweep(source, zap.New(core))
	require.NoError(t, sweep.Run(context.Background()))

	assert.Equal(t, 0, sweep.LastCount())
	assert.Equal(t, 0, logs.FilterLevelExact(zapcore.WarnLevel).Len())
}

func TestLowStockSweep_SourceError(t *testing.T) {
	source := new(mockLowStockSource)
	source.On("LowStockAlerts", mock.Anything).Return(nil, errors.New("connection reset"))

	err := NewLowStockSweep(source, zap.NewNop()).Run(context.Background())
	assert.EqualError(t, err, "connection reset")
}
