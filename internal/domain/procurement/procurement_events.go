package procurement

import (
	"github.com/google/uuid"
	"github.com/loomworks/backend/internal/domain/inventory"
	"github.com/loomworks/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event types for the procurement context
const (
	EventTypeOrderPlaced      = "procurement.order.placed"
	EventTypeOrderDelivered   = "procurement.order.delivered"
	EventTypeOrderReconciled  = "procurement.order.reconciled"
	EventTypeShortageDetected = "procurement.shortage.detected"
)

// OrderPlacedEvent is emitted when a procurement order is created
type OrderPlacedEvent struct {
	shared.BaseDomainEvent
	OrderID      uuid.UUID       `json:"order_id"`
	MaterialName string          `json:"material_name"`
	Supplier     string          `json:"supplier"`
	Quantity     decimal.Decimal `json:"quantity"`
	IsRestock    bool            `json:"is_restock"`
}

// NewOrderPlacedEvent creates a new OrderPlacedEvent
func NewOrderPlacedEvent(o *Order) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPlaced, "ProcurementOrder", o.ID),
		OrderID:         o.ID,
		MaterialName:    o.MaterialName,
		Supplier:        o.Supplier,
		Quantity:        o.Quantity,
		IsRestock:       o.IsRestock,
	}
}

// OrderDeliveredEvent is emitted when a procurement order reaches delivered
type OrderDeliveredEvent struct {
	shared.BaseDomainEvent
	OrderID      uuid.UUID       `json:"order_id"`
	MaterialName string          `json:"material_name"`
	Quantity     decimal.Decimal `json:"quantity"`
}

// NewOrderDeliveredEvent creates a new OrderDeliveredEvent
func NewOrderDeliveredEvent(o *Order) *OrderDeliveredEvent {
	return &OrderDeliveredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderDelivered, "ProcurementOrder", o.ID),
		OrderID:         o.ID,
		MaterialName:    o.MaterialName,
		Quantity:        o.Quantity,
	}
}

// OrderReconciledEvent is emitted when a delivery has been applied to
// inventory, carrying whether it restocked an existing lot or created one
type OrderReconciledEvent struct {
	shared.BaseDomainEvent
	OrderID      uuid.UUID       `json:"order_id"`
	MaterialID   uuid.UUID       `json:"material_id"`
	MaterialName string          `json:"material_name"`
	Quantity     decimal.Decimal `json:"quantity"`
	CreatedLot   bool            `json:"created_lot"`
}

// NewOrderReconciledEvent creates a new OrderReconciledEvent
func NewOrderReconciledEvent(o *Order, m *inventory.RawMaterial, createdLot bool) *OrderReconciledEvent {
	return &OrderReconciledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderReconciled, "ProcurementOrder", o.ID),
		OrderID:         o.ID,
		MaterialID:      m.ID,
		MaterialName:    m.Name,
		Quantity:        o.Quantity,
		CreatedLot:      createdLot,
	}
}

// ShortageDetectedEvent is emitted for each oversubscribed line during
// production planning. Subscribers turn it into a pending notification for
// inventory management; it never blocks the planning operation itself.
type ShortageDetectedEvent struct {
	shared.BaseDomainEvent
	MaterialID    uuid.UUID       `json:"material_id"`
	MaterialName  string          `json:"material_name"`
	Unit          string          `json:"unit"`
	Requested     decimal.Decimal `json:"requested"`
	Available     decimal.Decimal `json:"available"`
	Shortage      decimal.Decimal `json:"shortage"`
	EstimatedCost decimal.Decimal `json:"estimated_cost"`
}

// NewShortageDetectedEvent creates a new ShortageDetectedEvent
func NewShortageDetectedEvent(s Shortage) *ShortageDetectedEvent {
	return &ShortageDetectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeShortageDetected, "RawMaterial", s.MaterialID),
		MaterialID:      s.MaterialID,
		MaterialName:    s.MaterialName,
		Unit:            s.Unit,
		Requested:       s.Requested,
		Available:       s.Available,
		Shortage:        s.Shortage,
		EstimatedCost:   s.EstimatedCost.Amount(),
	}
}
