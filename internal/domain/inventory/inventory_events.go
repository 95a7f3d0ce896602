package inventory

import (
	"github.com/google/uuid"
	"github.com/loomworks/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event types for the inventory context
const (
	EventTypeRawMaterialCreated      = "inventory.raw_material.created"
	EventTypeRawMaterialStockChanged = "inventory.raw_material.stock_changed"
)

// RawMaterialCreatedEvent is emitted when a new raw-material lot is created
type RawMaterialCreatedEvent struct {
	shared.BaseDomainEvent
	MaterialID   uuid.UUID       `json:"material_id"`
	MaterialName string          `json:"material_name"`
	Supplier     string          `json:"supplier"`
	Unit         string          `json:"unit"`
	InitialStock decimal.Decimal `json:"initial_stock"`
}

// NewRawMaterialCreatedEvent creates a new RawMaterialCreatedEvent
func NewRawMaterialCreatedEvent(m *RawMaterial) *RawMaterialCreatedEvent {
	return &RawMaterialCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRawMaterialCreated, "RawMaterial", m.ID),
		MaterialID:      m.ID,
		MaterialName:    m.Name,
		Supplier:        m.Supplier,
		Unit:            m.Unit,
		InitialStock:    m.CurrentStock,
	}
}

// RawMaterialStockChangedEvent is emitted on every stock mutation. The status
// carried here is the freshly derived bucket, so subscribers can react to
// low-stock transitions without re-deriving it.
type RawMaterialStockChangedEvent struct {
	shared.BaseDomainEvent
	MaterialID   uuid.UUID       `json:"material_id"`
	MaterialName string          `json:"material_name"`
	OldStock     decimal.Decimal `json:"old_stock"`
	NewStock     decimal.Decimal `json:"new_stock"`
	Unit         string          `json:"unit"`
	Status       StockStatus     `json:"status"`
}

// NewRawMaterialStockChangedEvent creates a new RawMaterialStockChangedEvent
func NewRawMaterialStockChangedEvent(m *RawMaterial, oldStock decimal.Decimal) *RawMaterialStockChangedEvent {
	return &RawMaterialStockChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRawMaterialStockChanged, "RawMaterial", m.ID),
		MaterialID:      m.ID,
		MaterialName:    m.Name,
		OldStock:        oldStock,
		NewStock:        m.CurrentStock,
		Unit:            m.Unit,
		Status:          m.Status,
	}
}
