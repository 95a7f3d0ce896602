package production

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/loomworks/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func consumptionLine(name string, quantity, cost float64) MaterialConsumption {
	return MaterialConsumption{
		MaterialID:   uuid.New(),
		MaterialName: name,
		Quantity:     decimal.NewFromFloat(quantity),
		Unit:         "rolls",
		CostPerUnit:  decimal.NewFromFloat(cost),
		ConsumedAt:   time.Now(),
	}
}

func TestNewBatch(t *testing.T) {
	b := createPlanningBatch(t)

	assert.Equal(t, BatchStatusPlanning, b.Status)
	assert.Empty(t, b.MaterialsConsumed)
	assert.Len(t, b.GetDomainEvents(), 1)
}

func TestNewBatch_Validation(t *testing.T) {
	_, err := NewBatch("", uuid.New(), "Towel", decimal.NewFromInt(1), "")
	require.Error(t, err)
	assert.Equal(t, "INVALID_BATCH_NUMBER", err.(*shared.DomainError).Code)

	_, err = NewBatch("B-1", uuid.New(), "Towel", decimal.Zero, "")
	require.Error(t, err)
	assert.Equal(t, "INVALID_QUANTITY", err.(*shared.DomainError).Code)
}

func TestBatch_ActivateRequiresConsumedMaterials(t *testing.T) {
	b := createPlanningBatch(t)

	err := b.Activate()
	require.Error(t, err)
	assert.Equal(t, "NO_MATERIALS_CONSUMED", err.(*shared.DomainError).Code)

	require.NoError(t, b.RecordConsumption([]MaterialConsumption{consumptionLine("Cotton Yarn", 50, 120.50)}))
	require.NoError(t, b.Activate())
	assert.Equal(t, BatchStatusActive, b.Status)
}

func TestBatch_CompleteOnlyFromActive(t *testing.T) {
	b := createPlanningBatch(t)

	err := b.Complete()
	require.Error(t, err)

	require.NoError(t, b.RecordConsumption([]MaterialConsumption{consumptionLine("Cotton Yarn", 50, 120.50)}))
	require.NoError(t, b.Activate())
	require.NoError(t, b.Complete())

	assert.Equal(t, BatchStatusCompleted, b.Status)
	require.NotNil(t, b.CompletedAt)

	err = b.RecordConsumption([]MaterialConsumption{consumptionLine("Dye", 2, 200)})
	require.Error(t, err, "a completed batch accepts no further consumption")
}

func TestBatch_RecordWaste(t *testing.T) {
	b := createConsumedBatch(t)
	require.NoError(t, b.Activate())

	err := b.RecordWaste(WasteItem{Description: "selvedge trim", Quantity: decimal.NewFromFloat(1.5), Unit: "kg", Reason: "loom edge waste"})
	require.NoError(t, err)
	require.Len(t, b.WasteGenerated, 1)
	assert.False(t, b.WasteGenerated[0].RecordedAt.IsZero())

	err = b.RecordWaste(WasteItem{Description: "bad", Quantity: decimal.Zero})
	require.Error(t, err)
}

func TestBatch_ConsumedValue(t *testing.T) {
	b := createPlanningBatch(t)
	require.NoError(t, b.RecordConsumption([]MaterialConsumption{
		consumptionLine("Cotton Yarn", 10, 120),
		consumptionLine("Reactive Dye", 2, 200),
	}))

	assert.True(t, b.ConsumedValue().Amount().Equal(decimal.NewFromInt(1600)))
}
