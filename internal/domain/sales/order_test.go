package sales

import (
	"testing"

	"github.com/google/uuid"
	"github.com/loomworks/backend/internal/domain/shared"
	"github.com/loomworks/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func towelItem(quantity int64) OrderItem {
	return OrderItem{
		ProductID:   uuid.New(),
		ProductName: "Cotton Bath Towel",
		ProductType: ProductTypeProduct,
		Quantity:    decimal.NewFromInt(quantity),
		Unit:        "pcs",
		UnitPrice:   decimal.NewFromInt(450),
		GSTRate:     decimal.NewFromInt(12),
	}
}

func yarnItem(quantity int64) OrderItem {
	return OrderItem{
		ProductID:   uuid.New(),
		ProductName: "Cotton Yarn",
		ProductType: ProductTypeRawMaterial,
		Quantity:    decimal.NewFromInt(quantity),
		Unit:        "rolls",
		UnitPrice:   decimal.NewFromInt(130),
		GSTRate:     decimal.NewFromInt(5),
	}
}

func createTestOrder(t *testing.T, items ...OrderItem) *Order {
	if len(items) == 0 {
		items = []OrderItem{towelItem(5)}
	}
	o, err := NewOrder("SO-2026-001", "Meera Traders", "+91-98765-43210", items)
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
		{"pending to accepted", OrderStatusPending, OrderStatusAccepted, true},
		{"pending to dispatched", OrderStatusPending, OrderStatusDispatched, false},
		{"pending to cancelled", OrderStatusPending, OrderStatusCancelled, true},
		{"accepted to dispatched", OrderStatusAccepted, OrderStatusDispatched, true},
		{"dispatched to delivered", OrderStatusDispatched, OrderStatusDelivered, true},
		{"dispatched to cancelled", OrderStatusDispatched, OrderStatusCancelled, true},
		{"delivered is terminal", OrderStatusDelivered, OrderStatusCancelled, false},
		{"cancelled is terminal", OrderStatusCancelled, OrderStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestNewOrder_ComputesFinancials(t *testing.T) {
	o := createTestOrder(t, towelItem(5), yarnItem(10))

	// 5*450 + 10*130 = 3550; GST 12% of 2250 + 5% of 1300 = 270 + 65
	assert.True(t, o.Subtotal.Equal(decimal.NewFromInt(3550)))
	assert.True(t, o.GSTAmount.Equal(decimal.NewFromInt(335)))
	assert.True(t, o.TotalAmount.Equal(decimal.NewFromInt(3885)))
	assert.True(t, o.OutstandingAmount.Equal(o.TotalAmount))
	assert.Equal(t, "order_placed", o.WorkflowStep)
}

func TestOrder_OutstandingInvariant(t *testing.T) {
	o := createTestOrder(t)

	require.NoError(t, o.RecordPayment(valueobject.NewMoneyINRFromFloat(1000)))
	assert.True(t, o.PaidAmount.Add(o.OutstandingAmount).Equal(o.TotalAmount))

	require.NoError(t, o.RecordPayment(o.OutstandingAmountMoney()))
	assert.True(t, o.IsFullyPaid())

	err := o.RecordPayment(valueobject.NewMoneyINRFromFloat(1))
	require.Error(t, err)
	assert.Equal(t, "OVERPAYMENT", err.(*shared.DomainError).Code)
}

func TestOrder_DeliverRequiresFullPayment(t *testing.T) {
	o := createTestOrder(t)
	require.NoError(t, o.Accept())
	require.NoError(t, o.MarkDispatched())

	err := o.Deliver()
	require.Error(t, err)
	assert.Equal(t, shared.ErrPaymentOutstanding, err)
	assert.Equal(t, OrderStatusDispatched, o.Status, "a rejected delivery must leave the order unchanged")

	require.NoError(t, o.RecordPayment(o.TotalAmountMoney()))
	require.NoError(t, o.Deliver())
	assert.Equal(t, OrderStatusDelivered, o.Status)
	assert.Equal(t, "completed", o.WorkflowStep)
	require.NotNil(t, o.DeliveredAt)
}

func TestOrder_CancelFromNonTerminal(t *testing.T) {
	o := createTestOrder(t)
	require.NoError(t, o.Accept())
	require.NoError(t, o.Cancel())
	assert.Equal(t, OrderStatusCancelled, o.Status)

	delivered := createTestOrder(t)
	require.NoError(t, delivered.Accept())
	require.NoError(t, delivered.MarkDispatched())
	require.NoError(t, delivered.RecordPayment(delivered.TotalAmountMoney()))
	require.NoError(t, delivered.Deliver())
	assert.Error(t, delivered.Cancel())
}

func TestOrder_SelectUnits(t *testing.T) {
	item := towelItem(3)
	o := createTestOrder(t, item)

	units := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	require.NoError(t, o.SelectUnits(item.ProductID, units))
	assert.Equal(t, units, o.Items[0].SelectedUnitIDs)

	err := o.SelectUnits(uuid.New(), units)
	require.Error(t, err)
	assert.Equal(t, "ITEM_NOT_FOUND", err.(*shared.DomainError).Code)
}

func TestOrder_WorkflowStepMirrorsStatus(t *testing.T) {
	o := createTestOrder(t)

	require.NoError(t, o.Accept())
	assert.Equal(t, "ready_for_dispatch", o.WorkflowStep)

	require.NoError(t, o.MarkDispatched())
	assert.Equal(t, "in_transit", o.WorkflowStep)
	require.NotNil(t, o.DispatchedAt)
}
