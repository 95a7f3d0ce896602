package procurement

import (
	"testing"

	"github.com/google/uuid"
	"github.com/loomworks/backend/internal/domain/shared"
	"github.com/loomworks/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestOrder(t *testing.T, isRestock bool) *Order {
	o, err := NewOrder(
		"Cotton Yarn", "SuperSpin", "Yarn", "ABC Textiles", "Premium", "rolls",
		decimal.NewFromInt(50), valueobject.NewMoneyINRFromFloat(120.50), isRestock, "purchaser",
	)
	require.NoError(t, err)
	return o
}

func TestOrderStatus_Transitions(t *testing.T) {
	tests := []struct {
		name    string
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{"ordered to in-transit", OrderStatusOrdered, OrderStatusInTransit, true},
		{"ordered to delivered", OrderStatusOrdered, OrderStatusDelivered, true},
		{"ordered to cancelled", OrderStatusOrdered, OrderStatusCancelled, true},
		{"in-transit to delivered", OrderStatusInTransit, OrderStatusDelivered, true},
		{"in-transit to cancelled", OrderStatusInTransit, OrderStatusCancelled, true},
		{"in-transit to ordered", OrderStatusInTransit, OrderStatusOrdered, false},
		{"delivered is terminal", OrderStatusDelivered, OrderStatusCancelled, false},
		{"cancelled is terminal", OrderStatusCancelled, OrderStatusOrdered, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestNewOrder(t *testing.T) {
	o := createTestOrder(t, true)

	assert.Equal(t, OrderStatusOrdered, o.Status)
	assert.True(t, o.IsRestock)
	assert.Equal(t, MatchPolicyFlexible, o.MatchPolicy())
	assert.False(t, o.IsReconciled())
	assert.Len(t, o.GetDomainEvents(), 1)
}

func TestNewOrder_Validation(t *testing.T) {
	_, err := NewOrder("", "", "", "ABC Textiles", "", "rolls", decimal.NewFromInt(1), valueobject.ZeroINR(), false, "")
	require.Error(t, err)
	assert.Equal(t, "INVALID_NAME", err.(*shared.DomainError).Code)

	_, err = NewOrder("Cotton Yarn", "", "", "ABC Textiles", "", "rolls", decimal.Zero, valueobject.ZeroINR(), false, "")
	require.Error(t, err)
	assert.Equal(t, "INVALID_QUANTITY", err.(*shared.DomainError).Code)
}

func TestOrder_MatchPolicyFollowsRestockFlag(t *testing.T) {
	assert.Equal(t, MatchPolicyFlexible, createTestOrder(t, true).MatchPolicy())
	assert.Equal(t, MatchPolicyStrict, createTestOrder(t, false).MatchPolicy())
}

func TestOrder_MarkDelivered(t *testing.T) {
	o := createTestOrder(t, false)

	require.NoError(t, o.MarkInTransit())
	require.NoError(t, o.MarkDelivered())

	assert.Equal(t, OrderStatusDelivered, o.Status)
	require.NotNil(t, o.DeliveredAt)
}

func TestOrder_CancelAfterDeliveryRejected(t *testing.T) {
	o := createTestOrder(t, false)
	require.NoError(t, o.MarkDelivered())

	err := o.Cancel()
	require.Error(t, err)
	assert.Equal(t, "INVALID_STATUS_TRANSITION", err.(*shared.DomainError).Code)
}

func TestOrder_MarkReconciled(t *testing.T) {
	o := createTestOrder(t, true)
	lotID := uuid.New()

	err := o.MarkReconciled(lotID)
	require.Error(t, err, "an undelivered order cannot be reconciled")

	require.NoError(t, o.MarkDelivered())
	require.NoError(t, o.MarkReconciled(lotID))
	assert.True(t, o.IsReconciled())
	assert.Equal(t, lotID, *o.ReconciledLotID)

	err = o.MarkReconciled(lotID)
	assert.Equal(t, shared.ErrAlreadyReconciled, err)
}

func TestOrder_TotalCost(t *testing.T) {
	o := createTestOrder(t, false)
	assert.True(t, o.TotalCost().Amount().Equal(decimal.NewFromFloat(6025.0)))
}
