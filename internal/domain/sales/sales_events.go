package sales

import (
	"github.com/google/uuid"
	"github.com/loomworks/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event types for the sales context
const (
	EventTypeOrderCreated    = "sales.order.created"
	EventTypeOrderAccepted   = "sales.order.accepted"
	EventTypeOrderDispatched = "sales.order.dispatched"
	EventTypeOrderDelivered  = "sales.order.delivered"
)

// OrderCreatedEvent is emitted when a sales order is placed
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID      uuid.UUID       `json:"order_id"`
	OrderNumber  string          `json:"order_number"`
	CustomerName string          `json:"customer_name"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(o *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, "SalesOrder", o.ID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		CustomerName:    o.CustomerName,
		TotalAmount:     o.TotalAmount,
	}
}

// OrderAcceptedEvent is emitted when an order is accepted
type OrderAcceptedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
}

// NewOrderAcceptedEvent creates a new OrderAcceptedEvent
func NewOrderAcceptedEvent(o *Order) *OrderAcceptedEvent {
	return &OrderAcceptedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderAccepted, "SalesOrder", o.ID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
	}
}

// OrderDispatchedEvent is emitted after the guard passed and stock was
// deducted
type OrderDispatchedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	ItemCount   int       `json:"item_count"`
}

// NewOrderDispatchedEvent creates a new OrderDispatchedEvent
func NewOrderDispatchedEvent(o *Order) *OrderDispatchedEvent {
	return &OrderDispatchedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderDispatched, "SalesOrder", o.ID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		ItemCount:       len(o.Items),
	}
}

// OrderDeliveredEvent is emitted when a fully paid order is delivered
type OrderDeliveredEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
}

// NewOrderDeliveredEvent creates a new OrderDeliveredEvent
func NewOrderDeliveredEvent(o *Order) *OrderDeliveredEvent {
	return &OrderDeliveredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderDelivered, "SalesOrder", o.ID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
	}
}
