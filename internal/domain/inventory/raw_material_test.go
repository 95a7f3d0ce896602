package inventory

import (
	"testing"

	"github.com/loomworks/backend/internal/domain/shared"
	"github.com/loomworks/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestMaterial(t *testing.T, stock, minThreshold, maxCapacity float64) *RawMaterial {
	m, err := NewRawMaterial(
		"Cotton Yarn", "SuperSpin", "Yarn", "ABC Textiles", "Premium", "rolls",
		decimal.NewFromFloat(stock),
		decimal.NewFromFloat(minThreshold),
		decimal.NewFromFloat(maxCapacity),
		valueobject.NewMoneyINRFromFloat(120.50),
	)
	require.NoError(t, err)
	return m
}

// ============================================
// BucketFor Tests
// ============================================

func TestBucketFor(t *testing.T) {
	tests := []struct {
		name     string
		stock    float64
		min      float64
		max      float64
		expected StockStatus
	}{
		{"zero stock", 0, 10, 100, StockStatusOutOfStock},
		{"negative stock", -5, 10, 100, StockStatusOutOfStock},
		{"at minimum threshold", 10, 10, 100, StockStatusLowStock},
		{"below minimum threshold", 5, 10, 100, StockStatusLowStock},
		{"healthy stock", 50, 10, 100, StockStatusInStock},
		{"above maximum capacity", 150, 10, 100, StockStatusOverstock},
		{"no max capacity configured", 150, 10, 0, StockStatusInStock},
		{"zero thresholds", 50, 0, 0, StockStatusInStock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BucketFor(
				decimal.NewFromFloat(tt.stock),
				decimal.NewFromFloat(tt.min),
				decimal.NewFromFloat(tt.max),
			)
			assert.Equal(t, tt.expected, got)
		})
	}
}

// ============================================
// RawMaterial Tests
// ============================================

func TestNewRawMaterial(t *testing.T) {
	m := createTestMaterial(t, 100, 10, 500)

	assert.Equal(t, "Cotton Yarn", m.Name)
	assert.Equal(t, StockStatusInStock, m.Status)
	assert.True(t, m.CurrentStock.Equal(decimal.NewFromInt(100)))
	assert.Len(t, m.GetDomainEvents(), 1)
}

func TestNewRawMaterial_Validation(t *testing.T) {
	_, err := NewRawMaterial("", "", "", "", "", "rolls", decimal.Zero, decimal.Zero, decimal.Zero, valueobject.ZeroINR())
	require.Error(t, err)
	assert.Equal(t, "INVALID_NAME", err.(*shared.DomainError).Code)

	_, err = NewRawMaterial("Cotton Yarn", "", "", "", "", "", decimal.Zero, decimal.Zero, decimal.Zero, valueobject.ZeroINR())
	require.Error(t, err)
	assert.Equal(t, "INVALID_UNIT", err.(*shared.DomainError).Code)
}

func TestRawMaterial_Receive_UpdatesStockAndCost(t *testing.T) {
	m := createTestMaterial(t, 100, 10, 500)
	m.ClearDomainEvents()

	err := m.Receive(decimal.NewFromInt(50), valueobject.NewMoneyINRFromFloat(135.00))
	require.NoError(t, err)

	assert.True(t, m.CurrentStock.Equal(decimal.NewFromInt(150)))
	assert.True(t, m.CostPerUnit.Equal(decimal.NewFromFloat(135.00)), "cost must be overwritten with the latest price")
	assert.Equal(t, StockStatusInStock, m.Status)
	assert.Len(t, m.GetDomainEvents(), 1)
}

func TestRawMaterial_Receive_RejectsNonPositive(t *testing.T) {
	m := createTestMaterial(t, 100, 10, 500)

	err := m.Receive(decimal.Zero, valueobject.ZeroINR())
	require.Error(t, err)
	assert.True(t, m.CurrentStock.Equal(decimal.NewFromInt(100)))
}

func TestRawMaterial_Consume(t *testing.T) {
	m := createTestMaterial(t, 100, 10, 500)

	err := m.Consume(decimal.NewFromInt(95))
	require.NoError(t, err)

	assert.True(t, m.CurrentStock.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, StockStatusLowStock, m.Status)
}

func TestRawMaterial_Consume_ToZero(t *testing.T) {
	m := createTestMaterial(t, 100, 10, 500)

	require.NoError(t, m.Consume(decimal.NewFromInt(100)))
	assert.Equal(t, StockStatusOutOfStock, m.Status)
	assert.True(t, m.IsOutOfStock())
}

func TestRawMaterial_Consume_InsufficientStock(t *testing.T) {
	m := createTestMaterial(t, 10, 2, 0)

	err := m.Consume(decimal.NewFromInt(11))
	require.Error(t, err)
	assert.Equal(t, shared.ErrInsufficientStock, err)
	assert.True(t, m.CurrentStock.Equal(decimal.NewFromInt(10)), "failed consume must not mutate stock")
}

func TestRawMaterial_StatusAlwaysMatchesStock(t *testing.T) {
	m := createTestMaterial(t, 100, 10, 120)

	ops := []func(){
		func() { _ = m.Receive(decimal.NewFromInt(50), valueobject.NewMoneyINRFromFloat(99)) },
		func() { _ = m.Consume(decimal.NewFromInt(145)) },
		func() { _ = m.SetThresholds(decimal.NewFromInt(20), decimal.NewFromInt(200)) },
		func() { _ = m.Receive(decimal.NewFromInt(300), valueobject.NewMoneyINRFromFloat(101)) },
	}

	for _, op := range ops {
		op()
		assert.Equal(t, BucketFor(m.CurrentStock, m.MinThreshold, m.MaxCapacity), m.Status)
	}
}

func TestRawMaterial_Shortfall(t *testing.T) {
	m := createTestMaterial(t, 30, 5, 0)

	assert.True(t, m.Shortfall(decimal.NewFromInt(20)).IsZero())
	assert.True(t, m.Shortfall(decimal.NewFromInt(50)).Equal(decimal.NewFromInt(20)))
}

func TestRawMaterial_SetThresholds_Validation(t *testing.T) {
	m := createTestMaterial(t, 100, 10, 500)

	err := m.SetThresholds(decimal.NewFromInt(50), decimal.NewFromInt(20))
	require.Error(t, err)
	assert.Equal(t, "INVALID_THRESHOLD", err.(*shared.DomainError).Code)
}
