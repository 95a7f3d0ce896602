package sales

import (
	"testing"

	"github.com/google/uuid"
	"github.com/loomworks/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trackedRequirements(uuid.UUID) DispatchRequirement {
	return DispatchRequirement{TracksIndividualUnits: true}
}

func bulkRequirements(uuid.UUID) DispatchRequirement {
	return DispatchRequirement{TracksIndividualUnits: false}
}

func TestGuardDispatch_InsufficientSelection(t *testing.T) {
	item := towelItem(5)
	o := createTestOrder(t, item)
	require.NoError(t, o.Accept())
	require.NoError(t, o.SelectUnits(item.ProductID, []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}))

	err := GuardDispatch(o, trackedRequirements)
	require.Error(t, err)

	domainErr := err.(*shared.DomainError)
	assert.Equal(t, "INSUFFICIENT_SELECTION", domainErr.Code)
	assert.Equal(t, []string{"Cotton Bath Towel: 3 of 5 individual units selected"}, domainErr.Details)
	assert.Equal(t, OrderStatusAccepted, o.Status, "a rejected dispatch must leave the order unchanged")
}

func TestGuardDispatch_FractionalQuantityRoundsUp(t *testing.T) {
	item := towelItem(5)
	item.Quantity = decimal.NewFromFloat(5.5)
	o := createTestOrder(t, item)
	require.NoError(t, o.Accept())
	require.NoError(t, o.SelectUnits(item.ProductID, []uuid.UUID{
		uuid.New(), uuid.New(), uuid.New(), uuid.New(), uuid.New(),
	}))

	// 5.5 pieces occupy six physical units, so five selections fall short
	err := GuardDispatch(o, trackedRequirements)
	require.Error(t, err)
	assert.Equal(t, []string{"Cotton Bath Towel: 5 of 6 individual units selected"},
		err.(*shared.DomainError).Details)
}

func TestGuardDispatch_BulkProductNeedsNoSelection(t *testing.T) {
	o := createTestOrder(t, towelItem(5))
	require.NoError(t, o.Accept())

	assert.NoError(t, GuardDispatch(o, bulkRequirements))
}

func TestGuardDispatch_RawMaterialLinesNeverNeedSelection(t *testing.T) {
	o := createTestOrder(t, yarnItem(10))
	require.NoError(t, o.Accept())

	assert.NoError(t, GuardDispatch(o, trackedRequirements))
}

func TestGuardDispatch_CollectsAllViolations(t *testing.T) {
	first := towelItem(5)
	second := towelItem(2)
	second.ProductName = "Handloom Bed Sheet"
	o := createTestOrder(t, first, second)
	require.NoError(t, o.Accept())

	err := GuardDispatch(o, trackedRequirements)
	require.Error(t, err)
	assert.Len(t, err.(*shared.DomainError).Details, 2, "every violated item must be reported, not just the first")
}

func TestGuardDispatch_RequiresAcceptedOrder(t *testing.T) {
	o := createTestOrder(t)

	err := GuardDispatch(o, bulkRequirements)
	require.Error(t, err)
	assert.Equal(t, "INVALID_STATE", err.(*shared.DomainError).Code)
}
